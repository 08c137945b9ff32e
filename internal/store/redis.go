package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cliniclink/telehealth-server/internal/models"
)

const (
	userKeyPrefix   = "user:"
	appointmentsKey = "appointments"
)

// Redis stores users and appointments in Redis, so appointment bookings
// survive a server restart. Users live under user:<id> keys, appointments in
// a list of JSON values.
type Redis struct {
	client *redis.Client
}

// NewRedis connects, verifies the connection and seeds the mock clinic data
// if it is not already present.
func NewRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	r := &Redis{client: client}
	if err := r.seed(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed Redis store: %w", err)
	}
	return r, nil
}

func (r *Redis) seed(ctx context.Context) error {
	for _, u := range seedUsers() {
		data, err := json.Marshal(u)
		if err != nil {
			return err
		}
		if err := r.client.SetNX(ctx, userKeyPrefix+u.ID, data, 0).Err(); err != nil {
			return err
		}
	}

	n, err := r.client.LLen(ctx, appointmentsKey).Result()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, appt := range seedAppointments() {
		if err := r.AddAppointment(ctx, appt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Redis) User(ctx context.Context, id string) (models.User, error) {
	data, err := r.client.Get(ctx, userKeyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	var u models.User
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		return models.User{}, fmt.Errorf("corrupt user record %s: %w", id, err)
	}
	return u, nil
}

func (r *Redis) Appointments(ctx context.Context, userID, role string) ([]models.Appointment, error) {
	values, err := r.client.LRange(ctx, appointmentsKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	out := make([]models.Appointment, 0, len(values))
	for _, v := range values {
		var appt models.Appointment
		if err := json.Unmarshal([]byte(v), &appt); err != nil {
			return nil, fmt.Errorf("corrupt appointment record: %w", err)
		}
		if matchesRole(appt, userID, role) {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (r *Redis) AddAppointment(ctx context.Context, appt models.Appointment) error {
	data, err := json.Marshal(appt)
	if err != nil {
		return err
	}
	return r.client.RPush(ctx, appointmentsKey, data).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
