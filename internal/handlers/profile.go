package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"medtrack-server/internal/middleware"
	"medtrack-server/internal/models"
	"medtrack-server/internal/session"
	"medtrack-server/internal/store"
)

// ProfileHandler shows and updates the session user's own record.
type ProfileHandler struct {
	Users store.UserStore
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(users store.UserStore) *ProfileHandler {
	return &ProfileHandler{Users: users}
}

func (h *ProfileHandler) fetch(c *gin.Context, email string) *models.User {
	user, err := h.Users.Get(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Session points at a record that no longer resolves; end it.
			if err := session.Clear(c); err != nil {
				slog.Error("session clear failed", "error", err)
			}
			session.AddFlash(c, "danger", "User not found")
			c.Redirect(http.StatusFound, "/login")
			return nil
		}
		slog.Error("profile lookup failed", "email", email, "error", err)
		session.AddFlash(c, "danger", "Something went wrong. Please try again later.")
		c.Redirect(http.StatusFound, "/dashboard")
		return nil
	}
	return user
}

// Show renders the current user record.
func (h *ProfileHandler) Show(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)
	user := h.fetch(c, id.Email)
	if user == nil {
		return
	}
	render(c, http.StatusOK, "profile.html", gin.H{"User": user})
}

// Update applies a partial-merge update: omitted fields keep their stored
// values, and specialization is only written for doctors.
func (h *ProfileHandler) Update(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)
	user := h.fetch(c, id.Email)
	if user == nil {
		return
	}

	update := store.ProfileUpdate{
		Name:   formOr(c, "name", user.Name),
		Age:    formOr(c, "age", user.Age),
		Gender: formOr(c, "gender", user.Gender),
	}
	if user.Role == models.RoleDoctor {
		if specialization, ok := c.GetPostForm("specialization"); ok {
			update.Specialization = &specialization
		}
	}

	if err := h.Users.UpdateProfile(c.Request.Context(), id.Email, update); err != nil {
		slog.Error("profile update failed", "email", id.Email, "error", err)
		session.AddFlash(c, "danger", "Failed to update profile")
		c.Redirect(http.StatusFound, "/profile")
		return
	}

	if err := session.SetName(c, update.Name); err != nil {
		slog.Error("session name refresh failed", "email", id.Email, "error", err)
	}
	session.AddFlash(c, "success", "Profile updated")
	c.Redirect(http.StatusFound, "/profile")
}

// formOr returns the submitted value for key, or fallback when the field is
// omitted from the submission entirely.
func formOr(c *gin.Context, key, fallback string) string {
	if value, ok := c.GetPostForm(key); ok {
		return value
	}
	return fallback
}
