package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/kaira_store/internal/config"
	"github.com/GTDGit/kaira_store/internal/service"
	"github.com/GTDGit/kaira_store/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuth(t *testing.T) (*service.AdminGate, *session.Manager) {
	t.Helper()
	sessCfg := &config.SessionConfig{Secret: "test-secret-test-secret-test-sec", TTL: time.Hour}
	gate, err := service.NewAdminGate(&config.AdminConfig{Username: "admin", Password: "admin123"}, sessCfg)
	require.NoError(t, err)
	return gate, session.NewManager(sessCfg)
}

func TestRequireAdminRedirectsWithoutSession(t *testing.T) {
	gate, sessions := newAuth(t)
	r := gin.New()
	called := false
	r.GET("/admin", RequireAdmin(gate, sessions), func(c *gin.Context) { called = true })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))
	assert.False(t, called)
	assert.NotEmpty(t, w.Result().Cookies(), "flash must be persisted")
}

func TestRequireAdminAcceptsValidSession(t *testing.T) {
	gate, sessions := newAuth(t)
	token, err := gate.Authenticate("admin", "admin123")
	require.NoError(t, err)

	seed := httptest.NewRecorder()
	require.NoError(t, sessions.SetAdminToken(seed, httptest.NewRequest(http.MethodGet, "/", nil), token))

	r := gin.New()
	var who string
	r.GET("/admin", RequireAdmin(gate, sessions), func(c *gin.Context) {
		who = c.GetString(AdminKey)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, ck := range seed.Result().Cookies() {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", who)
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/echo", func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.String(http.StatusOK, c.PostForm("a"))
	})

	small := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("a=1"))
	small.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, small)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Body.String())

	big := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("a=123456789"))
	big.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestDBLeaseReleasesOnPanic(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "postgres")

	mock.ExpectExec("SELECT 1").WillReturnResult(sqlmock.NewResult(0, 0))

	r := gin.New()
	r.Use(gin.Recovery(), DBLease(db))
	r.GET("/boom", func(c *gin.Context) {
		q, err := Querier(c)
		require.NoError(t, err)
		_, err = q.ExecContext(c.Request.Context(), "SELECT 1")
		require.NoError(t, err)
		assert.Equal(t, 1, db.Stats().InUse)
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 0, db.Stats().InUse)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuerierWithoutLease(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := Querier(c)
	assert.Error(t, err)
}
