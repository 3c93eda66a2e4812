package web

import (
	"errors"
	"net/http"

	"yatube/internal/database"
	"yatube/internal/models"
)

// groupPosts lists the posts of one group.
func (app *App) groupPosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.MethodNotAllowed(w, []string{"GET"})
		return
	}

	group, err := app.GroupService.GetGroupBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		if errors.Is(err, database.ErrGroupNotFound) {
			app.NotFound(w)
			return
		}
		app.ServerError(w, err)
		return
	}

	data := &HTMLData{
		Title: group.Title,
		Group: group,
	}

	app.renderFeed(w, r, "group_list.page.html", models.PostFilter{GroupID: group.ID}, data)
}
