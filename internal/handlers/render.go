package handlers

import (
	"github.com/gin-gonic/gin"

	"medtrack-server/internal/session"
)

// render renders an HTML view with any queued flash messages and the
// current identity merged into the template data.
func render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Flashes"] = session.TakeFlashes(c)
	if id, ok := session.Current(c); ok {
		data["Identity"] = id
	}
	c.HTML(code, name, data)
}
