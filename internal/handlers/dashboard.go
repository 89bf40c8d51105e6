package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"medtrack-server/internal/middleware"
	"medtrack-server/internal/models"
	"medtrack-server/internal/session"
	"medtrack-server/internal/store"
)

// DashboardHandler renders the role-scoped appointment listing.
type DashboardHandler struct {
	Users        store.UserStore
	Appointments store.AppointmentStore
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(users store.UserStore, appointments store.AppointmentStore) *DashboardHandler {
	return &DashboardHandler{Users: users, Appointments: appointments}
}

// Show renders the dashboard for the session role. Any unhandled store
// failure terminates the session rather than displaying a partial page.
func (h *DashboardHandler) Show(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)

	switch id.Role {
	case models.RoleDoctor:
		appointments, err := h.Appointments.ListByDoctor(c.Request.Context(), id.Email)
		if err != nil {
			h.terminate(c, "dashboard listing failed", id.Email, err)
			return
		}
		render(c, http.StatusOK, "dashboard_doctor.html", gin.H{
			"Appointments": appointments,
		})

	case models.RolePatient:
		appointments, err := h.Appointments.ListByPatient(c.Request.Context(), id.Email)
		if err != nil {
			h.terminate(c, "dashboard listing failed", id.Email, err)
			return
		}
		// The doctor list only feeds the booking selector; degrade to an
		// empty list rather than failing the whole dashboard.
		doctors, err := h.Users.ListDoctors(c.Request.Context())
		if err != nil {
			slog.Error("doctor listing failed", "error", err)
			doctors = nil
		}
		render(c, http.StatusOK, "dashboard_patient.html", gin.H{
			"Appointments": appointments,
			"Doctors":      doctors,
		})

	default:
		if err := session.Clear(c); err != nil {
			slog.Error("session clear failed", "error", err)
		}
		session.AddFlash(c, "danger", "Invalid role.")
		c.Redirect(http.StatusFound, "/login")
	}
}

func (h *DashboardHandler) terminate(c *gin.Context, msg, email string, err error) {
	slog.Error(msg, "email", email, "error", err)
	if err := session.Clear(c); err != nil {
		slog.Error("session clear failed", "error", err)
	}
	session.AddFlash(c, "danger", "Something went wrong. Please try again later.")
	c.Redirect(http.StatusFound, "/login")
}
