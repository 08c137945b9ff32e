package models

// Role of a clinic user.
const (
	RoleTherapist = "therapist"
	RolePatient   = "patient"
)

// User is a clinic account. Specialization is set for therapists,
// Condition for patients.
type User struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	Specialization string `json:"specialization,omitempty"`
	Condition      string `json:"condition,omitempty"`
}

// Appointment statuses.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a booked consultation slot between a patient and a therapist.
type Appointment struct {
	ID          string `json:"id"`
	PatientID   string `json:"patientId"`
	TherapistID string `json:"therapistId"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Status      string `json:"status"`
	Type        string `json:"type"`
}

// EnrichedAppointment is an appointment with the joined user records, as
// returned by the listing endpoint.
type EnrichedAppointment struct {
	Appointment
	Patient   *User `json:"patient,omitempty"`
	Therapist *User `json:"therapist,omitempty"`
}

// CreateAppointmentRequest is the request body for booking an appointment.
type CreateAppointmentRequest struct {
	PatientID   string `json:"patientId" binding:"required"`
	TherapistID string `json:"therapistId" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Type        string `json:"type"`
}
