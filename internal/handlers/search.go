package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medtrack-server/internal/middleware"
	"medtrack-server/internal/models"
	"medtrack-server/internal/session"
	"medtrack-server/internal/store"
)

// SearchHandler runs the role-scoped appointment search. Doctors search
// their appointments by patient name; patients search theirs by doctor name
// or status. Matching is substring, case-sensitive.
type SearchHandler struct {
	Appointments store.AppointmentStore
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(appointments store.AppointmentStore) *SearchHandler {
	return &SearchHandler{Appointments: appointments}
}

// Redirect sends GET requests back to the dashboard; search is POST-only.
func (h *SearchHandler) Redirect(c *gin.Context) {
	c.Redirect(http.StatusFound, "/dashboard")
}

// Search executes the search. An empty term never reaches the store.
func (h *SearchHandler) Search(c *gin.Context) {
	term := strings.TrimSpace(c.PostForm("search_term"))
	if term == "" {
		session.AddFlash(c, "warning", "Please enter a search term.")
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	id, _ := middleware.GetIdentity(c)

	var (
		appointments []models.Appointment
		err          error
	)
	if id.Role == models.RoleDoctor {
		appointments, err = h.Appointments.SearchByPatientName(c.Request.Context(), id.Email, term)
	} else {
		appointments, err = h.Appointments.SearchByDoctorNameOrStatus(c.Request.Context(), id.Email, term)
	}
	if err != nil {
		slog.Error("search failed", "email", id.Email, "term", term, "error", err)
		session.AddFlash(c, "danger", "An error occurred while searching. Please try again.")
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	if len(appointments) == 0 {
		session.AddFlash(c, "info", "No appointments matched your search.")
	}
	render(c, http.StatusOK, "search_results.html", gin.H{
		"Appointments": appointments,
		"SearchTerm":   term,
	})
}
