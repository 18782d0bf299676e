package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/kaira_store/internal/middleware"
	"github.com/GTDGit/kaira_store/internal/service"
	"github.com/GTDGit/kaira_store/internal/session"
	"github.com/GTDGit/kaira_store/internal/utils"
)

// Renderer fills the data every page shares and maps errors to error pages.
type Renderer struct {
	gate     *service.AdminGate
	sessions *session.Manager
}

// NewRenderer constructs a Renderer.
func NewRenderer(gate *service.AdminGate, sessions *session.Manager) *Renderer {
	return &Renderer{gate: gate, sessions: sessions}
}

// Page renders the named template. Queued flashes are consumed, extra
// messages are shown after them.
func (r *Renderer) Page(c *gin.Context, status int, name string, data gin.H, extra ...string) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = append(r.sessions.Flashes(c.Writer, c.Request), extra...)
	data["Admin"] = middleware.CurrentAdmin(c, r.gate, r.sessions)
	if _, ok := data["Title"]; !ok {
		data["Title"] = "KAIRA"
	}
	c.HTML(status, name, data)
}

// Redirect queues msg as a flash and sends a 302 to location.
func (r *Renderer) Redirect(c *gin.Context, location, msg string) {
	if msg != "" {
		if err := r.sessions.AddFlash(c.Writer, c.Request, msg); err != nil {
			log.Warn().Err(err).Str("request_id", c.GetString("request_id")).Msg("Failed to save flash")
		}
	}
	c.Redirect(http.StatusFound, location)
}

// NotFound renders the 404 page.
func (r *Renderer) NotFound(c *gin.Context) {
	r.Page(c, http.StatusNotFound, "error.html", gin.H{
		"Title":   "Not found",
		"Status":  http.StatusNotFound,
		"Message": "The page you are looking for does not exist.",
	})
}

// Fail maps err to an error page. Unexpected errors are logged.
func (r *Renderer) Fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrProductNotFound):
		r.NotFound(c)
	case isTooLarge(err):
		r.Page(c, http.StatusRequestEntityTooLarge, "error.html", gin.H{
			"Title":   "Upload too large",
			"Status":  http.StatusRequestEntityTooLarge,
			"Message": "The upload exceeds the allowed size.",
		})
	default:
		log.Error().Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("Request failed")
		r.Page(c, http.StatusInternalServerError, "error.html", gin.H{
			"Title":   "Error",
			"Status":  http.StatusInternalServerError,
			"Message": "Something went wrong. Please try again.",
		})
	}
}

// isTooLarge reports whether err comes from reading past the body limit.
func isTooLarge(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, utils.ErrRequestTooLarge) {
		return true
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return true
	}
	// Go releases before 1.20 formatted multipart read errors with %v,
	// which drops *http.MaxBytesError from the chain.
	return strings.Contains(err.Error(), tooLargeText)
}

// tooLargeText is the message of *http.MaxBytesError.
const tooLargeText = "http: request body too large"

// productID parses the :id path parameter. ok is false for anything that is
// not a positive integer.
func productID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
