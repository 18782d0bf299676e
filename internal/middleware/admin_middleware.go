package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kaira_store/internal/service"
	"github.com/GTDGit/kaira_store/internal/session"
)

// AdminKey is the context key holding the signed-in admin's name.
const AdminKey = "admin"

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/admin/login"

// RequireAdmin lets the request through only with a valid admin session.
// Otherwise it flashes a notice and redirects to the login page.
func RequireAdmin(gate *service.AdminGate, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, err := gate.Verify(sessions.AdminToken(c.Request))
		if err != nil {
			if err := sessions.AddFlash(c.Writer, c.Request, "Please sign in as admin."); err != nil {
				log.Warn().Err(err).Msg("Failed to save flash")
			}
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Set(AdminKey, subject)
		c.Next()
	}
}

// CurrentAdmin returns the signed-in admin, checking the session directly
// on routes that are not behind RequireAdmin.
func CurrentAdmin(c *gin.Context, gate *service.AdminGate, sessions *session.Manager) string {
	if name := c.GetString(AdminKey); name != "" {
		return name
	}
	subject, err := gate.Verify(sessions.AdminToken(c.Request))
	if err != nil {
		return ""
	}
	return subject
}
