package web

import (
	"errors"
	"net/http"

	"yatube/internal/models"
	"yatube/internal/paginator"
)

func (app *App) index(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.MethodNotAllowed(w, []string{"GET"})
		return
	}

	data := &HTMLData{Title: "Latest updates"}
	app.renderFeed(w, r, "index.page.html", models.PostFilter{}, data)
}

// renderFeed loads the requested page of posts matching filter into data
// and renders pageFile. An out-of-range page is a 404.
func (app *App) renderFeed(w http.ResponseWriter, r *http.Request, pageFile string, filter models.PostFilter, data *HTMLData) {
	ctx := r.Context()

	count, err := app.PostService.CountPosts(ctx, filter)
	if err != nil {
		app.ServerError(w, err)
		return
	}

	page, err := paginator.New(count, paginator.PerPage).Page(r.URL.Query().Get("page"))
	if err != nil {
		if errors.Is(err, paginator.ErrInvalidPage) {
			app.NotFound(w)
			return
		}
		app.ServerError(w, err)
		return
	}

	posts, err := app.PostService.ListPosts(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		app.ServerError(w, err)
		return
	}

	data.Posts = posts
	data.Page = &page
	data.PostCount = count

	app.RenderHTML(w, r, pageFile, data)
}
