package web

import (
	"net/http"
)

// Routes returns the application handler. Every pattern ends in {$} so that
// only the exact trailing-slash address matches; everything else is a 404.
func (app *App) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/{$}", app.index)
	mux.HandleFunc("/group/{slug}/{$}", app.groupPosts)
	mux.HandleFunc("/profile/{username}/{$}", app.profile)
	mux.HandleFunc("/posts/{id}/{$}", app.postDetail)

	// Authors only
	mux.HandleFunc("/create/{$}", app.requireAuth(app.createPost))
	mux.HandleFunc("/posts/{id}/edit/{$}", app.requireAuth(app.editPost))
	mux.HandleFunc("/posts/{id}/delete/{$}", app.requireAuth(app.deletePost))

	// Guests only
	mux.HandleFunc("/auth/signup/{$}", app.requireGuest(app.signup))
	mux.HandleFunc("/auth/login/{$}", app.requireGuest(app.login))

	mux.HandleFunc("/auth/logout/{$}", app.logout)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		app.NotFound(w)
	})

	return app.recoverPanic(app.logRequest(app.authenticate(mux)))
}
