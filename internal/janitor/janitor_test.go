package janitor

import (
	"testing"
	"time"

	"github.com/cliniclink/telehealth-server/internal/models"
	"github.com/cliniclink/telehealth-server/internal/relay"
)

type nopTransport struct{}

func (nopTransport) Send(models.SignalMessage) error { return nil }
func (nopTransport) Close() error                    { return nil }

func TestStartRejectsBadSchedule(t *testing.T) {
	j := New(relay.NewService(), time.Hour)
	if err := j.Start("not a schedule"); err == nil {
		t.Fatal("Start accepted a malformed schedule")
	}
}

func TestStartAndStop(t *testing.T) {
	j := New(relay.NewService(), time.Hour)
	if err := j.Start("@every 1h"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	j.Stop()
}

func TestSweepReapsIdleRooms(t *testing.T) {
	svc := relay.NewService()
	j := New(svc, 0) // everything is idle immediately

	id := svc.Register(nopTransport{})
	if _, err := svc.Join("lonely", id); err != nil {
		t.Fatalf("Join: %v", err)
	}

	j.sweep()
	if got := svc.Members("lonely"); len(got) != 0 {
		t.Fatalf("room survived the sweep: %v", got)
	}
}
