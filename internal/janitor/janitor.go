// Package janitor runs the periodic housekeeping jobs: reaping signaling
// rooms that have gone idle and logging relay occupancy.
package janitor

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cliniclink/telehealth-server/internal/relay"
)

type Janitor struct {
	cron    *cron.Cron
	relay   *relay.Service
	maxIdle time.Duration
}

func New(svc *relay.Service, maxIdle time.Duration) *Janitor {
	return &Janitor{
		cron:    cron.New(),
		relay:   svc,
		maxIdle: maxIdle,
	}
}

// Start schedules the sweep and begins running it. The schedule uses cron
// syntax, including the @every form.
func (j *Janitor) Start(schedule string) error {
	if _, err := j.cron.AddFunc(schedule, j.sweep); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

// Stop halts the scheduler; a sweep already in flight finishes.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

func (j *Janitor) sweep() {
	reaped := j.relay.ExpireIdle(j.maxIdle)
	conns, rooms := j.relay.Stats()
	if reaped > 0 {
		log.Printf("janitor: reaped %d idle rooms", reaped)
	}
	log.Printf("janitor: %d connections, %d active rooms", conns, rooms)
}
