package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"medtrack-server/internal/middleware"
	"medtrack-server/internal/models"
	"medtrack-server/internal/notify"
	"medtrack-server/internal/session"
	"medtrack-server/internal/store"
)

// BookingHandler lets patients book appointments with doctors.
type BookingHandler struct {
	Users        store.UserStore
	Appointments store.AppointmentStore
	Mailer       notify.Mailer
	Broadcaster  notify.Broadcaster
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(users store.UserStore, appointments store.AppointmentStore, mailer notify.Mailer, broadcaster notify.Broadcaster) *BookingHandler {
	return &BookingHandler{Users: users, Appointments: appointments, Mailer: mailer, Broadcaster: broadcaster}
}

// bookingForm is the booking submission. The date is optional and defaults
// to the current timestamp.
type bookingForm struct {
	DoctorEmail     string `form:"doctor_email" validate:"required"`
	Symptoms        string `form:"symptoms" validate:"required"`
	AppointmentDate string `form:"appointment_date"`
}

// ShowForm renders the booking form with the current doctor list. A listing
// failure degrades to an empty list.
func (h *BookingHandler) ShowForm(c *gin.Context) {
	doctors, err := h.Users.ListDoctors(c.Request.Context())
	if err != nil {
		slog.Error("doctor listing failed", "error", err)
		doctors = nil
	}
	render(c, http.StatusOK, "book_appointment.html", gin.H{"Doctors": doctors})
}

// Book creates a pending appointment for the session patient.
func (h *BookingHandler) Book(c *gin.Context) {
	id, _ := middleware.GetIdentity(c)

	var form bookingForm
	if err := bindAndValidate(c, &form); err != nil {
		session.AddFlash(c, "danger", "Please fill all required fields.")
		c.Redirect(http.StatusFound, "/book_appointment")
		return
	}
	if form.AppointmentDate == "" {
		form.AppointmentDate = time.Now().UTC().Format(time.RFC3339)
	}

	ctx := c.Request.Context()

	doctor, err := h.Users.Get(ctx, form.DoctorEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			session.AddFlash(c, "danger", "Invalid doctor selected.")
		} else {
			slog.Error("doctor lookup failed", "doctor", form.DoctorEmail, "error", err)
			session.AddFlash(c, "danger", "An error occurred while booking the appointment.")
		}
		c.Redirect(http.StatusFound, "/book_appointment")
		return
	}
	if doctor.Role != models.RoleDoctor {
		session.AddFlash(c, "danger", "Invalid doctor selected.")
		c.Redirect(http.StatusFound, "/book_appointment")
		return
	}

	// The self-lookup must succeed; a missing record here is a
	// data-integrity problem, not user error.
	patient, err := h.Users.Get(ctx, id.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Error("patient record missing for active session", "patient", id.Email)
			session.AddFlash(c, "danger", "Patient data not found.")
		} else {
			slog.Error("patient lookup failed", "patient", id.Email, "error", err)
			session.AddFlash(c, "danger", "An error occurred while booking the appointment.")
		}
		c.Redirect(http.StatusFound, "/book_appointment")
		return
	}

	appointment := models.Appointment{
		AppointmentID:   uuid.NewString(),
		DoctorEmail:     doctor.Email,
		DoctorName:      doctor.Name,
		PatientEmail:    patient.Email,
		PatientName:     patient.Name,
		Symptoms:        form.Symptoms,
		Status:          models.StatusPending,
		AppointmentDate: form.AppointmentDate,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.Appointments.Create(ctx, &appointment); err != nil {
		slog.Error("appointment creation failed", "appointment_id", appointment.AppointmentID, "error", err)
		session.AddFlash(c, "danger", "An error occurred while booking the appointment.")
		c.Redirect(http.StatusFound, "/book_appointment")
		return
	}

	// The two emails are independent; neither failure blocks the other or
	// the booking result.
	if err := h.Mailer.Send(doctor.Email, "New Appointment Notification",
		fmt.Sprintf("Dear Dr. %s,\n\nA new appointment has been booked by %s.\n\nSymptoms: %s\nDate: %s",
			doctor.Name, patient.Name, form.Symptoms, form.AppointmentDate)); err != nil {
		slog.Error("doctor email failed", "doctor", doctor.Email, "error", err)
	}
	if err := h.Mailer.Send(patient.Email, "Appointment Confirmation",
		fmt.Sprintf("Dear %s,\n\nYour appointment with Dr. %s has been successfully booked on %s.",
			patient.Name, doctor.Name, form.AppointmentDate)); err != nil {
		slog.Error("patient email failed", "patient", patient.Email, "error", err)
	}

	broadcast := fmt.Sprintf("New appointment booked by %s with Dr. %s for %s",
		patient.Name, doctor.Name, form.AppointmentDate)
	if err := h.Broadcaster.Publish(ctx, broadcast, "New Appointment - MedTrack"); err != nil {
		slog.Warn("booking broadcast failed", "error", err)
	}

	session.AddFlash(c, "success", "Appointment booked successfully.")
	c.Redirect(http.StatusFound, "/dashboard")
}
