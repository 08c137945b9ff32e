package store

import (
	"context"
	"errors"
	"testing"

	"github.com/cliniclink/telehealth-server/internal/models"
)

func TestMemoryUser(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	u, err := m.User(ctx, "1")
	if err != nil {
		t.Fatalf("User(1): %v", err)
	}
	if u.Role != models.RoleTherapist {
		t.Fatalf("User(1) role: got %q, want %q", u.Role, models.RoleTherapist)
	}

	if _, err := m.User(ctx, "999"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("User(999): got %v, want ErrUserNotFound", err)
	}
}

func TestMemoryAppointmentsFiltering(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.AddAppointment(ctx, models.Appointment{
		ID:          "2",
		PatientID:   "7",
		TherapistID: "1",
		Date:        "2024-02-01",
		Time:        "09:30",
		Status:      models.AppointmentScheduled,
		Type:        "follow-up",
	}); err != nil {
		t.Fatalf("AddAppointment: %v", err)
	}

	tests := []struct {
		name   string
		userID string
		role   string
		want   int
	}{
		{"patient sees own", "2", models.RolePatient, 1},
		{"other patient sees own", "7", models.RolePatient, 1},
		{"therapist sees all theirs", "1", models.RoleTherapist, 2},
		{"unknown role sees everything", "1", "", 2},
		{"stranger patient sees none", "99", models.RolePatient, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Appointments(ctx, tt.userID, tt.role)
			if err != nil {
				t.Fatalf("Appointments: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("got %d appointments, want %d", len(got), tt.want)
			}
		})
	}
}
