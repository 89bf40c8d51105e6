// Package store implements the persistence layer over DynamoDB.
//
// Users are keyed by lowercase email, appointments by an opaque UUID.
// Appointment listings prefer the per-role secondary index and transparently
// fall back to a filtered scan when the index query fails; callers never see
// which path ran.
package store

import (
	"context"
	"errors"

	"medtrack-server/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrUserExists is returned by Create when the email is already registered.
	ErrUserExists = errors.New("store: user already exists")
	// ErrAlreadyCompleted is returned by Complete when the appointment has
	// already left the pending state.
	ErrAlreadyCompleted = errors.New("store: appointment already completed")
)

// ProfileUpdate carries the mutable profile attributes for a targeted
// update. Specialization is only written when non-nil (doctors only).
type ProfileUpdate struct {
	Name           string
	Age            string
	Gender         string
	Specialization *string
}

// Diagnosis carries the fields a doctor attaches when completing an
// appointment. Prescription may be empty.
type Diagnosis struct {
	Diagnosis     string
	TreatmentPlan string
	Prescription  string
}

// UserStore is the credential store contract.
type UserStore interface {
	// Get fetches a user by normalized email. Returns ErrNotFound if absent.
	Get(ctx context.Context, email string) (*models.User, error)
	// Create persists a new user. Returns ErrUserExists if the email is
	// already registered; the write is conditional so a concurrent
	// registration race cannot produce duplicates.
	Create(ctx context.Context, user *models.User) error
	// UpdateProfile applies a targeted attribute update to the user record.
	UpdateProfile(ctx context.Context, email string, update ProfileUpdate) error
	// ListDoctors returns every user with the doctor role.
	ListDoctors(ctx context.Context) ([]models.User, error)
}

// AppointmentStore is the appointment store contract.
type AppointmentStore interface {
	// Get fetches an appointment by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, appointmentID string) (*models.Appointment, error)
	// Create persists a new appointment.
	Create(ctx context.Context, appointment *models.Appointment) error
	// Complete attaches the diagnosis and flips status to completed in one
	// conditional update. Returns ErrAlreadyCompleted if the appointment is
	// no longer pending.
	Complete(ctx context.Context, appointmentID string, diagnosis Diagnosis) error
	// ListByDoctor returns all appointments assigned to the doctor.
	ListByDoctor(ctx context.Context, doctorEmail string) ([]models.Appointment, error)
	// ListByPatient returns all appointments booked by the patient.
	ListByPatient(ctx context.Context, patientEmail string) ([]models.Appointment, error)
	// SearchByPatientName returns the doctor's appointments whose patient
	// name contains term. Matching is case-sensitive.
	SearchByPatientName(ctx context.Context, doctorEmail, term string) ([]models.Appointment, error)
	// SearchByDoctorNameOrStatus returns the patient's appointments whose
	// doctor name or status contains term. Matching is case-sensitive.
	SearchByDoctorNameOrStatus(ctx context.Context, patientEmail, term string) ([]models.Appointment, error)
}
