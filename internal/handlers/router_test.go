package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouter_Health(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := setupTestRouter(h)

	w := doJSON(r, http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestSetupRouter_Routes(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := setupTestRouter(h)

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /signup",
		"POST /login",
		"POST /admin/signup",
		"POST /admin/login",
		"POST /admin/convert",
		"GET /admin/links",
		"PUT /admin/links/:id",
		"DELETE /admin/links/:id",
		"GET /admin/links/:id/qr",
		"POST /api/register/signup",
		"POST /api/register/login",
		"POST /api/custom-aliases",
		"GET /api/custom-aliases",
	} {
		assert.True(t, registered[want], want)
	}
}

func TestRouter_NotFound(t *testing.T) {
	h, _ := setupTestHandler(t)
	r := setupTestRouter(h)

	w := doJSON(r, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
