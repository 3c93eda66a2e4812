package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"time"

	"yatube/internal/models"
	"yatube/internal/paginator"
)

//go:embed templates/*.html
var templateFS embed.FS

type HTMLData struct {
	Title       string
	Path        string
	FormError   string
	FormData    map[string]string // submitted values to refill the form with
	Next        string
	IsEdit      bool
	CurrentUser *models.User
	Author      *models.User
	PostCount   int
	Group       *models.Group
	Groups      []*models.Group
	Post        *models.Post
	Posts       []*models.Post
	Page        *paginator.Page
}

var functions = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006, 15:04")
	},
}

// templateCache maps a page file name to its parsed template set.
type templateCache map[string]*template.Template

func newTemplateCache() (templateCache, error) {
	cache := templateCache{}

	pages, err := fs.Glob(templateFS, "templates/*.page.html")
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		name := filepath.Base(page)

		ts, err := template.New(name).Funcs(functions).ParseFS(templateFS,
			"templates/base.layout.html",
			page,
			"templates/*.partial.html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}

		cache[name] = ts
	}

	return cache, nil
}

// RenderHTML writes the page with a 200 status. The template runs into a
// buffer first so a failing template yields a clean 500.
func (app *App) RenderHTML(w http.ResponseWriter, r *http.Request, pageFile string, data *HTMLData) {
	if data == nil {
		data = &HTMLData{}
	}

	data.Path = r.URL.Path

	if data.CurrentUser == nil {
		data.CurrentUser = app.getCurrentUser(r)
	}

	ts, ok := app.templates[pageFile]
	if !ok {
		app.ServerError(w, fmt.Errorf("template %s does not exist", pageFile))
		return
	}

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		app.ServerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
