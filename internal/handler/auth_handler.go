package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kaira_store/internal/service"
	"github.com/GTDGit/kaira_store/internal/session"
	"github.com/GTDGit/kaira_store/internal/utils"
)

// AuthHandler handles admin sign in and sign out.
type AuthHandler struct {
	render   *Renderer
	gate     *service.AdminGate
	sessions *session.Manager
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(render *Renderer, gate *service.AdminGate, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{render: render, gate: gate, sessions: sessions}
}

// LoginForm handles GET /admin/login
func (h *AuthHandler) LoginForm(c *gin.Context) {
	h.render.Page(c, http.StatusOK, "admin_login.html", gin.H{"Title": "Admin Login"})
}

// Login handles POST /admin/login
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")

	token, err := h.gate.Authenticate(username, c.PostForm("password"))
	if err != nil {
		if !errors.Is(err, utils.ErrInvalidCredentials) {
			h.render.Fail(c, err)
			return
		}
		log.Info().Str("ip", c.ClientIP()).Msg("Admin login rejected")
		h.render.Page(c, http.StatusOK, "admin_login.html", gin.H{
			"Title":    "Admin Login",
			"Username": username,
		}, "Invalid credentials.")
		return
	}

	if err := h.sessions.SetAdminToken(c.Writer, c.Request, token); err != nil {
		h.render.Fail(c, err)
		return
	}
	log.Info().Str("ip", c.ClientIP()).Msg("Admin signed in")
	h.render.Redirect(c, "/admin", "Welcome back.")
}

// Logout handles GET /admin/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.ClearAdmin(c.Writer, c.Request); err != nil {
		h.render.Fail(c, err)
		return
	}
	h.render.Redirect(c, "/", "Signed out.")
}
