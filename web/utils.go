package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"yatube/internal/models"
)

type contextKey string

const currentUserKey = contextKey("currentUser")

func (app *App) setSessionCookie(w http.ResponseWriter, token string) {
	cookie := &http.Cookie{
		Name:     app.cfg.Session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(app.cfg.GetSessionTTL().Seconds()),
		HttpOnly: true,
		Secure:   app.cfg.Session.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}

func (app *App) clearSessionCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     app.cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	}
	http.SetCookie(w, cookie)
}

func (app *App) getSessionToken(r *http.Request) string {
	cookie, err := r.Cookie(app.cfg.Session.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// getCurrentUser returns the user resolved by authenticate, or nil.
func (app *App) getCurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(currentUserKey).(*models.User)
	return user
}

func (app *App) isAuthenticated(r *http.Request) bool {
	return app.getCurrentUser(r) != nil
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id int) string {
	return "/posts/" + strconv.Itoa(id) + "/"
}

// safeNext accepts only local absolute paths as post-login targets.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
