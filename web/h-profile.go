package web

import (
	"errors"
	"net/http"

	"yatube/internal/database"
	"yatube/internal/models"
)

// profile lists the posts of one author. Unknown usernames are a 404 even
// though the feed of a known author may be empty.
func (app *App) profile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.MethodNotAllowed(w, []string{"GET"})
		return
	}

	author, err := app.UserService.GetUserByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			app.NotFound(w)
			return
		}
		app.ServerError(w, err)
		return
	}

	data := &HTMLData{
		Title:  "Profile of " + author.Username,
		Author: author,
	}

	app.renderFeed(w, r, "profile.page.html", models.PostFilter{AuthorID: author.ID}, data)
}
