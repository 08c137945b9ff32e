package store

import (
	"context"
	"sync"

	"github.com/cliniclink/telehealth-server/internal/models"
)

// Memory is the default in-process store, seeded with the prototype's mock
// clinic data.
type Memory struct {
	mu           sync.RWMutex
	users        map[string]models.User
	appointments []models.Appointment
}

func NewMemory() *Memory {
	m := &Memory{users: make(map[string]models.User)}
	for _, u := range seedUsers() {
		m.users[u.ID] = u
	}
	m.appointments = seedAppointments()
	return m
}

func (m *Memory) User(_ context.Context, id string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return u, nil
}

func (m *Memory) Appointments(_ context.Context, userID, role string) ([]models.Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Appointment, 0, len(m.appointments))
	for _, appt := range m.appointments {
		if matchesRole(appt, userID, role) {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (m *Memory) AddAppointment(_ context.Context, appt models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appointments = append(m.appointments, appt)
	return nil
}

func (m *Memory) Close() error { return nil }
