package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginRedirectURL(t *testing.T) {
	tests := map[string]string{
		"/create/":             "/auth/login/?next=/create/",
		"/posts/7/edit/":       "/auth/login/?next=/posts/7/edit/",
		"/create/?draft=1&x=y": "/auth/login/?next=/create/%3Fdraft%3D1%26x%3Dy",
		"/profile/a b/":        "/auth/login/?next=/profile/a+b/",
	}
	for next, want := range tests {
		assert.Equal(t, want, loginRedirectURL(next), next)
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/create/":             "/create/",
		"/posts/1/?page=2":     "/posts/1/?page=2",
		"create/":              "/",
		"//evil.example/":      "/",
		"/\\evil.example/":     "/",
		"https://evil.example": "/",
	}
	for next, want := range tests {
		assert.Equal(t, want, safeNext(next), next)
	}
}

func TestRecoverPanic(t *testing.T) {
	env := newTestEnv(t)
	handler := env.app.recoverPanic(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "close", rr.Header().Get("Connection"))
}

func TestLogRequest_SetsRequestID(t *testing.T) {
	env := newTestEnv(t)

	first := env.get(t, "/", nil).Header().Get("X-Request-ID")
	second := env.get(t, "/missing/", nil).Header().Get("X-Request-ID")

	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestAuthenticate_DropsUnknownSession(t *testing.T) {
	env := newTestEnv(t)

	rr := env.get(t, "/", &http.Cookie{Name: env.app.cfg.Session.CookieName, Value: "stale"})
	assert.Equal(t, http.StatusOK, rr.Code)

	cleared := sessionCookie(t, env, rr.Header())
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Contains(t, rr.Body.String(), `href="/auth/login/"`)
}
