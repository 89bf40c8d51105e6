package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"medtrack-server/internal/session"
)

// Index shows the landing page, or the dashboard for authenticated users.
func Index(c *gin.Context) {
	if _, ok := session.Current(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	render(c, http.StatusOK, "index.html", nil)
}

// Health returns a fixed liveness payload.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// NotFound renders the dedicated 404 view.
func NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "404.html", nil)
}

// Recovery renders the dedicated 500 view for panics escaping a handler.
// It renders directly: the session middleware may not have run yet.
func Recovery(c *gin.Context, err interface{}) {
	slog.Error("internal server error", "path", c.Request.URL.Path, "error", err)
	c.HTML(http.StatusInternalServerError, "500.html", gin.H{})
	c.Abort()
}
