package web

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"yatube/internal/database"
)

var errBadCredentials = errors.New("incorrect username or password")

func (app *App) signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		app.MethodNotAllowed(w, []string{"GET", "POST"})
		return
	}

	if r.Method == http.MethodGet {
		app.RenderHTML(w, r, "signup.page.html", &HTMLData{Title: "Sign up"})
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")

	app.logger.Info("attempting to register user", zap.String("username", username))

	user, err := app.UserService.CreateUser(r.Context(), username, email, password)
	if err != nil {
		data := &HTMLData{
			Title:     "Sign up",
			FormError: err.Error(),
			FormData: map[string]string{
				"username": username,
				"email":    email,
			},
		}
		app.RenderHTML(w, r, "signup.page.html", data)
		return
	}

	app.logger.Info("registered user", zap.String("username", user.Username), zap.Int("user_id", user.ID))

	session, err := app.SessionService.CreateSession(r.Context(), user.ID)
	if err != nil {
		app.logger.Error("failed to create session", zap.Int("user_id", user.ID), zap.Error(err))
		http.Redirect(w, r, LoginURL, http.StatusSeeOther)
		return
	}

	app.setSessionCookie(w, session.Token)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// login authenticates by username and password and then follows the next
// hint when it points inside the site.
func (app *App) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		app.MethodNotAllowed(w, []string{"GET", "POST"})
		return
	}

	if r.Method == http.MethodGet {
		data := &HTMLData{
			Title: "Log in",
			Next:  r.URL.Query().Get("next"),
		}
		app.RenderHTML(w, r, "login.page.html", data)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")
	next := r.FormValue("next")

	user, err := app.UserService.VerifyUser(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, database.ErrUserNotFound) && !errors.Is(err, database.ErrIncorrectPassword) {
			app.ServerError(w, err)
			return
		}
		data := &HTMLData{
			Title:     "Log in",
			FormError: errBadCredentials.Error(),
			Next:      next,
			FormData: map[string]string{
				"username": username,
			},
		}
		app.RenderHTML(w, r, "login.page.html", data)
		return
	}

	session, err := app.SessionService.CreateSession(r.Context(), user.ID)
	if err != nil {
		app.ServerError(w, err)
		return
	}

	app.setSessionCookie(w, session.Token)

	app.logger.Info("login successful", zap.String("username", user.Username))

	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

// logout ends the session. GET is accepted as well so a plain link works.
func (app *App) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		app.MethodNotAllowed(w, []string{"GET", "POST"})
		return
	}

	noCache(w)

	token := app.getSessionToken(r)
	if token != "" {
		if err := app.SessionService.DeleteSession(r.Context(), token); err != nil && !errors.Is(err, database.ErrSessionNotFound) {
			app.logger.Error("failed to delete session", zap.Error(err))
		}
	}

	app.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
