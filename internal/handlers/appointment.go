package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medtrack-server/internal/middleware"
	"medtrack-server/internal/models"
	"medtrack-server/internal/notify"
	"medtrack-server/internal/session"
	"medtrack-server/internal/store"
)

// AppointmentHandler shows appointment detail and records diagnoses.
type AppointmentHandler struct {
	Appointments store.AppointmentStore
	Mailer       notify.Mailer
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(appointments store.AppointmentStore, mailer notify.Mailer) *AppointmentHandler {
	return &AppointmentHandler{Appointments: appointments, Mailer: mailer}
}

// load fetches the appointment and applies access control: a doctor may
// only reach appointments assigned to them, a patient only their own. On
// any failure it flashes, redirects to the dashboard and returns nil.
func (h *AppointmentHandler) load(c *gin.Context, id session.Identity) *models.Appointment {
	appointment, err := h.Appointments.Get(c.Request.Context(), c.Param("appointment_id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			session.AddFlash(c, "danger", "Appointment not found.")
		} else {
			slog.Error("appointment fetch failed", "appointment_id", c.Param("appointment_id"), "error", err)
			session.AddFlash(c, "danger", "An error occurred. Please try again.")
		}
		c.Redirect(http.StatusFound, "/dashboard")
		return nil
	}

	denied := (id.Role == models.RoleDoctor && appointment.DoctorEmail != id.Email) ||
		(id.Role == models.RolePatient && appointment.PatientEmail != id.Email)
	if denied {
		session.AddFlash(c, "danger", "Access denied: Not your appointment.")
		c.Redirect(http.StatusFound, "/dashboard")
		return nil
	}
	return appointment
}

// Show renders the role-specific appointment view.
func (h *AppointmentHandler) Show(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)
	appointment := h.load(c, id)
	if appointment == nil {
		return
	}
	render(c, http.StatusOK, viewFor(id.Role), gin.H{"Appointment": appointment})
}

// Diagnose records the diagnosis and completes the appointment. Only the
// assigned doctor may submit, and only while the appointment is pending.
func (h *AppointmentHandler) Diagnose(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)
	appointment := h.load(c, id)
	if appointment == nil {
		return
	}

	if id.Role != models.RoleDoctor {
		// Patients can POST the detail form but nothing changes for them.
		render(c, http.StatusOK, viewFor(id.Role), gin.H{"Appointment": appointment})
		return
	}

	if appointment.Status == models.StatusCompleted {
		session.AddFlash(c, "danger", "This appointment has already been completed.")
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	diagnosis := store.Diagnosis{
		Diagnosis:     strings.TrimSpace(c.PostForm("diagnosis")),
		TreatmentPlan: strings.TrimSpace(c.PostForm("treatment_plan")),
		Prescription:  strings.TrimSpace(c.PostForm("prescription")),
	}
	if diagnosis.Diagnosis == "" || diagnosis.TreatmentPlan == "" {
		session.AddFlash(c, "danger", "Diagnosis and treatment plan are required.")
		render(c, http.StatusOK, "view_appointment_doctor.html", gin.H{"Appointment": appointment})
		return
	}

	if err := h.Appointments.Complete(c.Request.Context(), appointment.AppointmentID, diagnosis); err != nil {
		if errors.Is(err, store.ErrAlreadyCompleted) {
			session.AddFlash(c, "danger", "This appointment has already been completed.")
		} else {
			slog.Error("appointment completion failed", "appointment_id", appointment.AppointmentID, "error", err)
			session.AddFlash(c, "danger", "An error occurred. Please try again.")
		}
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	body := fmt.Sprintf("Dear %s,\n\nYour appointment with Dr. %s has been completed.\n\nDiagnosis: %s\nTreatment Plan: %s\n\nThank you for using MedTrack.",
		appointment.PatientName, appointment.DoctorName, diagnosis.Diagnosis, diagnosis.TreatmentPlan)
	if err := h.Mailer.Send(appointment.PatientEmail, "Your Appointment Diagnosis", body); err != nil {
		slog.Error("diagnosis email failed", "patient", appointment.PatientEmail, "error", err)
	}

	session.AddFlash(c, "success", "Diagnosis submitted successfully.")
	c.Redirect(http.StatusFound, "/dashboard")
}

func viewFor(role models.Role) string {
	if role == models.RoleDoctor {
		return "view_appointment_doctor.html"
	}
	return "view_appointment_patient.html"
}
