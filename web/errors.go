package web

import (
	"net/http"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"
)

func (app *App) ServerError(w http.ResponseWriter, err error) {
	app.logger.Error("internal server error", zap.Error(err), zap.ByteString("stack", debug.Stack()))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (app *App) ClientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func (app *App) NotFound(w http.ResponseWriter) {
	app.ClientError(w, http.StatusNotFound)
}

func (app *App) MethodNotAllowed(w http.ResponseWriter, methods []string) {
	w.Header().Set("Allow", strings.Join(methods, ", "))
	app.ClientError(w, http.StatusMethodNotAllowed)
}
