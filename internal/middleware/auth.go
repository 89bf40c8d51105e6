package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medtrack-server/internal/models"
	"medtrack-server/internal/session"
)

const identityKey = "identity"

// RequireAuth rejects unauthenticated requests with a redirect to the login
// page and stores the session identity in the request context for
// downstream handlers.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := session.Current(c)
		if !ok {
			session.AddFlash(c, "danger", "Please log in to continue.")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireRole restricts a route to a single role. It must be used after
// RequireAuth. Requests with any other role are redirected to the login
// page with the given message.
func RequireRole(role models.Role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := GetIdentity(c)
		if !ok || id.Role != role {
			session.AddFlash(c, "danger", message)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetIdentity returns the identity stored by RequireAuth.
func GetIdentity(c *gin.Context) (session.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return session.Identity{}, false
	}
	id, ok := value.(session.Identity)
	return id, ok
}
