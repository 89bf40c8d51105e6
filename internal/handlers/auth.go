package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"medtrack-server/internal/models"
	"medtrack-server/internal/notify"
	"medtrack-server/internal/session"
	"medtrack-server/internal/store"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	Users       store.UserStore
	Mailer      notify.Mailer
	Broadcaster notify.Broadcaster
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users store.UserStore, mailer notify.Mailer, broadcaster notify.Broadcaster) *AuthHandler {
	return &AuthHandler{Users: users, Mailer: mailer, Broadcaster: broadcaster}
}

// registrationFields are checked for presence in this order so the first
// missing field names itself in the flash message.
var registrationFields = []string{"name", "email", "password", "confirm_password", "age", "gender", "role"}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	if _, ok := session.Current(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	render(c, http.StatusOK, "register.html", nil)
}

// Register handles user registration. Validation order: field presence,
// password match, email uniqueness. No write happens before validation
// completes.
func (h *AuthHandler) Register(c *gin.Context) {
	if _, ok := session.Current(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	for _, field := range registrationFields {
		if c.PostForm(field) == "" {
			session.AddFlash(c, "danger", "Please enter "+field)
			render(c, http.StatusOK, "register.html", nil)
			return
		}
	}

	if c.PostForm("password") != c.PostForm("confirm_password") {
		session.AddFlash(c, "danger", "Passwords do not match")
		render(c, http.StatusOK, "register.html", nil)
		return
	}

	role := models.Role(strings.ToLower(c.PostForm("role")))
	if !role.Valid() {
		session.AddFlash(c, "danger", "Invalid role.")
		render(c, http.StatusOK, "register.html", nil)
		return
	}

	email := strings.ToLower(c.PostForm("email"))
	if _, err := h.Users.Get(c.Request.Context(), email); err == nil {
		session.AddFlash(c, "danger", "Email already registered")
		render(c, http.StatusOK, "register.html", nil)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		slog.Error("registration lookup failed", "email", email, "error", err)
		session.AddFlash(c, "danger", "Registration failed. Please try again.")
		render(c, http.StatusOK, "register.html", nil)
		return
	}

	user := models.User{
		Email:     email,
		Name:      c.PostForm("name"),
		Age:       c.PostForm("age"),
		Gender:    c.PostForm("gender"),
		Role:      role,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := user.SetPassword(c.PostForm("password")); err != nil {
		slog.Error("password hashing failed", "error", err)
		session.AddFlash(c, "danger", "Registration failed. Please try again.")
		render(c, http.StatusOK, "register.html", nil)
		return
	}

	if err := h.Users.Create(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrUserExists) {
			// Lost a concurrent registration race; same outcome as the
			// pre-check above.
			session.AddFlash(c, "danger", "Email already registered")
		} else {
			slog.Error("user creation failed", "email", email, "error", err)
			session.AddFlash(c, "danger", "Registration failed. Please try again.")
		}
		render(c, http.StatusOK, "register.html", nil)
		return
	}

	if err := h.Mailer.Send(email, "Welcome to HealthCare App",
		fmt.Sprintf("Hello %s, your account was created successfully.", user.Name)); err != nil {
		slog.Error("welcome email failed", "email", email, "error", err)
	}

	broadcast := fmt.Sprintf("New user registered: %s (%s) as %s", user.Name, email, user.Role)
	if err := h.Broadcaster.Publish(c.Request.Context(), broadcast, ""); err != nil {
		slog.Error("registration broadcast failed", "email", email, "error", err)
	}

	session.AddFlash(c, "success", "Registration successful! Please login.")
	c.Redirect(http.StatusFound, "/login")
}

// loginForm is the login submission; every field is required.
type loginForm struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
	Role     string `form:"role" validate:"required"`
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	if _, ok := session.Current(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	render(c, http.StatusOK, "login.html", nil)
}

// Login establishes the session. The failure message never reveals which
// part of the (email, role, password) triple was wrong.
func (h *AuthHandler) Login(c *gin.Context) {
	if _, ok := session.Current(c); ok {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	var form loginForm
	if err := bindAndValidate(c, &form); err != nil {
		session.AddFlash(c, "danger", "All fields are required")
		render(c, http.StatusOK, "login.html", nil)
		return
	}

	email := strings.ToLower(form.Email)
	role := models.Role(strings.ToLower(form.Role))

	user, err := h.Users.Get(c.Request.Context(), email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("login lookup failed", "email", email, "error", err)
		}
		session.AddFlash(c, "danger", "Invalid email, password, or role")
		render(c, http.StatusOK, "login.html", nil)
		return
	}

	if user.Role != role || !user.CheckPassword(form.Password) {
		session.AddFlash(c, "danger", "Invalid email, password, or role")
		render(c, http.StatusOK, "login.html", nil)
		return
	}

	if err := session.Set(c, session.Identity{Email: email, Role: role, Name: user.Name}); err != nil {
		slog.Error("session save failed", "email", email, "error", err)
		session.AddFlash(c, "danger", "Invalid email, password, or role")
		render(c, http.StatusOK, "login.html", nil)
		return
	}

	session.AddFlash(c, "success", "Login successful!")
	c.Redirect(http.StatusFound, "/dashboard")
}

// Logout clears the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := session.Clear(c); err != nil {
		slog.Error("session clear failed", "error", err)
	}
	session.AddFlash(c, "success", "Logged out successfully")
	c.Redirect(http.StatusFound, "/login")
}
