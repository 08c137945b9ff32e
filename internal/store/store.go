// Package store holds the clinic's user and appointment records. The
// prototype ships with seeded mock data; the backend is either an in-memory
// table or Redis, selected by configuration.
package store

import (
	"context"
	"errors"

	"github.com/cliniclink/telehealth-server/internal/models"
)

// ErrUserNotFound indicates that the requested user does not exist.
var ErrUserNotFound = errors.New("user not found")

// Store is a backend for users and appointments.
type Store interface {
	// User returns the user with the given ID, or ErrUserNotFound.
	User(ctx context.Context, id string) (models.User, error)

	// Appointments lists appointments visible to userID in the given role:
	// patients see appointments where they are the patient, therapists where
	// they are the therapist, any other role sees everything.
	Appointments(ctx context.Context, userID, role string) ([]models.Appointment, error)

	// AddAppointment stores a new appointment. The caller assigns the ID.
	AddAppointment(ctx context.Context, appt models.Appointment) error

	Close() error
}

// Seed data for the prototype, mirroring the mock clinic accounts the
// client's login page offers.
func seedUsers() []models.User {
	return []models.User{
		{
			ID:             "1",
			Email:          "therapist@clinic.hk",
			Name:           "陳醫生",
			Role:           models.RoleTherapist,
			Specialization: "物理治療",
		},
		{
			ID:        "2",
			Email:     "patient@email.hk",
			Name:      "李先生",
			Role:      models.RolePatient,
			Condition: "腰痛",
		},
	}
}

func seedAppointments() []models.Appointment {
	return []models.Appointment{
		{
			ID:          "1",
			PatientID:   "2",
			TherapistID: "1",
			Date:        "2024-01-15",
			Time:        "14:00",
			Status:      models.AppointmentScheduled,
			Type:        "initial",
		},
	}
}

// matchesRole reports whether appt belongs to userID acting in role.
func matchesRole(appt models.Appointment, userID, role string) bool {
	switch role {
	case models.RolePatient:
		return appt.PatientID == userID
	case models.RoleTherapist:
		return appt.TherapistID == userID
	default:
		return true
	}
}
