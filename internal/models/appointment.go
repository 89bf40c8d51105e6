package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment represents a scheduled medical appointment, keyed by an opaque
// appointment ID. Diagnosis fields stay absent until the assigned doctor
// completes the appointment; the pending -> completed transition is one-way.
type Appointment struct {
	AppointmentID   string            `dynamodbav:"appointment_id"`
	DoctorEmail     string            `dynamodbav:"doctor_email"`
	DoctorName      string            `dynamodbav:"doctor_name"`
	PatientEmail    string            `dynamodbav:"patient_email"`
	PatientName     string            `dynamodbav:"patient_name"`
	Symptoms        string            `dynamodbav:"symptoms"`
	Status          AppointmentStatus `dynamodbav:"status"`
	AppointmentDate string            `dynamodbav:"appointment_date"`
	Diagnosis       string            `dynamodbav:"diagnosis,omitempty"`
	TreatmentPlan   string            `dynamodbav:"treatment_plan,omitempty"`
	Prescription    string            `dynamodbav:"prescription,omitempty"`
	CreatedAt       string            `dynamodbav:"created_at"`
	UpdatedAt       string            `dynamodbav:"updated_at,omitempty"`
}
