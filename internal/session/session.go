// Package session maps a browser session to an authenticated identity. It is
// the sole gate for all authenticated operations: handlers take email, role
// and display name from here, never from request input. It also carries
// one-shot flash messages across redirects.
package session

import (
	"encoding/gob"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"medtrack-server/internal/models"
)

const sessionName = "medtrack_session"

const (
	keyEmail = "email"
	keyRole  = "role"
	keyName  = "name"
)

// Identity is the authenticated identity carried by a session.
type Identity struct {
	Email string
	Role  models.Role
	Name  string
}

// Flash is a one-shot message displayed on the next rendered page.
type Flash struct {
	Level   string // danger, warning, success, info
	Message string
}

func init() {
	gob.Register(Flash{})
}

// Setup installs the signed-cookie session middleware on the router.
func Setup(router *gin.Engine, secretKey string) {
	store := cookie.NewStore([]byte(secretKey))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
	})
	router.Use(sessions.Sessions(sessionName, store))
}

// Current returns the authenticated identity, if any.
func Current(c *gin.Context) (Identity, bool) {
	s := sessions.Default(c)
	email, ok := s.Get(keyEmail).(string)
	if !ok || email == "" {
		return Identity{}, false
	}
	role, _ := s.Get(keyRole).(string)
	name, _ := s.Get(keyName).(string)
	return Identity{Email: email, Role: models.Role(role), Name: name}, true
}

// Set establishes the session identity after a successful login.
func Set(c *gin.Context, id Identity) error {
	s := sessions.Default(c)
	s.Set(keyEmail, id.Email)
	s.Set(keyRole, string(id.Role))
	s.Set(keyName, id.Name)
	return s.Save()
}

// SetName refreshes the session display name after a profile update.
func SetName(c *gin.Context, name string) error {
	s := sessions.Default(c)
	s.Set(keyName, name)
	return s.Save()
}

// Clear terminates the session.
func Clear(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	return s.Save()
}

// AddFlash queues a flash message for the next rendered page.
func AddFlash(c *gin.Context, level, message string) {
	s := sessions.Default(c)
	s.AddFlash(Flash{Level: level, Message: message})
	// Save errors here would also have failed the response cookie write;
	// the message is best-effort either way.
	_ = s.Save()
}

// TakeFlashes returns and clears the queued flash messages.
func TakeFlashes(c *gin.Context) []Flash {
	s := sessions.Default(c)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save()

	flashes := make([]Flash, 0, len(raw))
	for _, entry := range raw {
		if f, ok := entry.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}
