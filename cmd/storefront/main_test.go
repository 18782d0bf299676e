package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/kaira_store/internal/handler"
)

func TestSetupRoutesGatesAdminArea(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusTeapot) }
	setupRoutes(router, &Handlers{
		Health:     &handler.HealthHandler{},
		Storefront: &handler.StorefrontHandler{},
		Auth:       &handler.AuthHandler{},
		Admin:      &handler.AdminHandler{},
		Upload:     &handler.UploadHandler{},
	}, deny)

	want := map[string]bool{
		"GET /": false, "GET /product/:id": false, "GET /healthz": false,
		"GET /static/uploads/:name": false,
		"GET /admin/login": false, "POST /admin/login": false, "GET /admin/logout": false,
		"GET /admin": true, "GET /admin/products": true,
		"GET /admin/products/add": true, "POST /admin/products/add": true,
		"GET /admin/products/:id/edit": true, "POST /admin/products/:id/edit": true,
		"POST /admin/products/:id/delete": true,
	}

	registered := map[string]bool{}
	for _, r := range router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for route, gated := range want {
		assert.True(t, registered[route], "missing route %s", route)
		if !gated {
			continue
		}
		method, path, _ := strings.Cut(route, " ")
		path = strings.ReplaceAll(path, ":id", "1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		assert.Equal(t, http.StatusTeapot, w.Code, route)
	}
	assert.Len(t, registered, len(want))
}
