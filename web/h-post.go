package web

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"yatube/internal/database"
	"yatube/internal/models"
)

// postFromPath loads the post named by the {id} path value. It writes the
// 404 or 500 itself and returns nil in that case.
func (app *App) postFromPath(w http.ResponseWriter, r *http.Request) *models.Post {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		app.NotFound(w)
		return nil
	}

	post, err := app.PostService.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrPostNotFound) {
			app.NotFound(w)
			return nil
		}
		app.ServerError(w, err)
		return nil
	}

	return post
}

func (app *App) allGroups(r *http.Request) []*models.Group {
	groups, err := app.GroupService.GetAllGroups(r.Context())
	if err != nil {
		app.logger.Error("failed to get groups", zap.Error(err))
		return []*models.Group{}
	}
	return groups
}

func (app *App) postDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		app.MethodNotAllowed(w, []string{"GET"})
		return
	}

	post := app.postFromPath(w, r)
	if post == nil {
		return
	}

	count, err := app.PostService.CountPosts(r.Context(), models.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		app.ServerError(w, err)
		return
	}

	data := &HTMLData{
		Title:     post.String(),
		Post:      post,
		PostCount: count,
	}

	app.RenderHTML(w, r, "post_detail.page.html", data)
}

func (app *App) createPost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		app.MethodNotAllowed(w, []string{"GET", "POST"})
		return
	}

	user := app.getCurrentUser(r)

	if r.Method == http.MethodGet {
		data := &HTMLData{
			Title:  "New post",
			Groups: app.allGroups(r),
		}
		app.RenderHTML(w, r, "create_post.page.html", data)
		return
	}

	if err := r.ParseForm(); err != nil {
		app.ClientError(w, http.StatusBadRequest)
		return
	}

	form := newPostForm(r.PostForm)
	err := form.Err
	if form.Valid() {
		var post *models.Post
		post, err = app.PostService.CreatePost(r.Context(), form.Text, user.ID, form.GroupID)
		if err == nil {
			app.logger.Info("post created",
				zap.Int("post_id", post.ID), zap.String("author", user.Username))
			http.Redirect(w, r, profileURL(user.Username), http.StatusSeeOther)
			return
		}
	}

	msg, ok := formError(err)
	if !ok {
		app.ServerError(w, err)
		return
	}

	data := &HTMLData{
		Title:     "New post",
		FormError: msg,
		FormData:  form.Data(),
		Groups:    app.allGroups(r),
	}
	app.RenderHTML(w, r, "create_post.page.html", data)
}

// editPost lets any signed-in user rewrite the text and group of a post.
// Author and publication date are kept.
func (app *App) editPost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		app.MethodNotAllowed(w, []string{"GET", "POST"})
		return
	}

	post := app.postFromPath(w, r)
	if post == nil {
		return
	}

	user := app.getCurrentUser(r)

	if r.Method == http.MethodGet {
		formData := map[string]string{"text": post.Text}
		if post.GroupID != nil {
			formData["group"] = strconv.Itoa(*post.GroupID)
		}
		data := &HTMLData{
			Title:    "Edit post",
			IsEdit:   true,
			Post:     post,
			Groups:   app.allGroups(r),
			FormData: formData,
		}
		app.RenderHTML(w, r, "create_post.page.html", data)
		return
	}

	if err := r.ParseForm(); err != nil {
		app.ClientError(w, http.StatusBadRequest)
		return
	}

	form := newPostForm(r.PostForm)
	err := form.Err
	if form.Valid() {
		err = app.PostService.UpdatePost(r.Context(), post.ID, form.Text, form.GroupID)
		if err == nil {
			app.logger.Info("post updated",
				zap.Int("post_id", post.ID), zap.String("editor", user.Username))
			http.Redirect(w, r, postURL(post.ID), http.StatusSeeOther)
			return
		}
	}

	msg, ok := formError(err)
	if !ok {
		app.ServerError(w, err)
		return
	}

	data := &HTMLData{
		Title:     "Edit post",
		IsEdit:    true,
		Post:      post,
		FormError: msg,
		FormData:  form.Data(),
		Groups:    app.allGroups(r),
	}
	app.RenderHTML(w, r, "create_post.page.html", data)
}

func (app *App) deletePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		app.MethodNotAllowed(w, []string{"POST"})
		return
	}

	post := app.postFromPath(w, r)
	if post == nil {
		return
	}

	user := app.getCurrentUser(r)

	err := app.PostService.DeletePost(r.Context(), post.ID, user.ID)
	switch {
	case errors.Is(err, database.ErrNotPostAuthor):
		http.Redirect(w, r, postURL(post.ID), http.StatusFound)
		return
	case errors.Is(err, database.ErrPostNotFound):
		app.NotFound(w)
		return
	case err != nil:
		app.ServerError(w, err)
		return
	}

	app.logger.Info("post deleted", zap.Int("post_id", post.ID), zap.String("author", user.Username))
	http.Redirect(w, r, profileURL(user.Username), http.StatusSeeOther)
}
