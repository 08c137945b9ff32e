// Package relay is the signaling core: it tracks connected peers, the rooms
// they joined, and fans each signaling event out to the other members of the
// sender's room. It never inspects or stores the payloads it forwards.
package relay

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cliniclink/telehealth-server/internal/models"
)

// Transport delivers outbound messages to a single connected peer. The
// WebSocket layer implements it by enqueueing onto the client's send channel,
// which preserves per-connection delivery order.
type Transport interface {
	Send(msg models.SignalMessage) error
	Close() error
}

// connection is a registry entry: the transport handle plus the set of rooms
// the connection has joined. Owned exclusively by the Service.
type connection struct {
	id        string
	transport Transport
	rooms     map[string]struct{}
}

// room holds a member set keyed by connection ID. Rooms are created on first
// join and deleted as soon as the last member leaves.
type room struct {
	members    map[string]struct{}
	lastActive time.Time
}

// Service owns the connection registry and the room table. All state lives
// behind one mutex; handlers for different connections may run concurrently,
// but every registry mutation and fan-out is serialized so a member snapshot
// can never be observed mid-update.
type Service struct {
	mu    sync.Mutex
	conns map[string]*connection
	rooms map[string]*room
	now   func() time.Time
}

func NewService() *Service {
	return &Service{
		conns: make(map[string]*connection),
		rooms: make(map[string]*room),
		now:   time.Now,
	}
}

// Register allocates a fresh connection ID for a newly connected transport.
func (s *Service) Register(t Transport) string {
	id := uuid.New().String()

	s.mu.Lock()
	s.conns[id] = &connection{
		id:        id,
		transport: t,
		rooms:     make(map[string]struct{}),
	}
	s.mu.Unlock()

	return id
}

// Join adds the connection to the room, creating the room on first join, and
// notifies the pre-existing members with a user-connected event. Joining a
// room twice is a no-op. Returns the member count after the join.
func (s *Service) Join(roomID, connID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, ok := s.conns[connID]
	if !ok {
		return 0, ErrConnectionGone
	}

	r, ok := s.rooms[roomID]
	if !ok {
		r = &room{members: make(map[string]struct{})}
		s.rooms[roomID] = r
		log.Printf("relay: created room %s", roomID)
	}
	r.lastActive = s.now()

	if _, member := r.members[connID]; member {
		return len(r.members), nil
	}

	// Notify existing members before the joiner appears in the set, so the
	// joiner never receives its own user-connected.
	s.fanOut(r, connID, models.SignalMessage{
		Type:   models.SignalTypeUserConnected,
		From:   connID,
		RoomID: roomID,
	})

	r.members[connID] = struct{}{}
	conn.rooms[roomID] = struct{}{}

	log.Printf("relay: peer %s joined room %s (%d members)", connID, roomID, len(r.members))
	return len(r.members), nil
}

// Forward delivers a signaling event from connID to every other current
// member of the room. The payload is passed through untouched. A recipient
// whose transport already closed is skipped; the remaining recipients still
// receive the event and the sender is not told.
func (s *Service) Forward(connID, roomID string, kind models.SignalType, payload json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return ErrNotInRoom
	}
	if _, member := r.members[connID]; !member {
		return ErrNotInRoom
	}
	r.lastActive = s.now()

	s.fanOut(r, connID, models.SignalMessage{
		Type:    kind,
		From:    connID,
		RoomID:  roomID,
		Payload: payload,
	})
	return nil
}

// Disconnect removes the connection from every room it joined, notifying the
// remaining members, and then destroys the registry entry. Membership cleanup
// happens before the entry is removed so a concurrent in-flight send resolves
// to "gone" rather than racing. Safe to call more than once.
func (s *Service) Disconnect(connID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conn, ok := s.conns[connID]
	if !ok {
		return
	}

	for roomID := range conn.rooms {
		s.leave(roomID, connID, true)
	}
	delete(s.conns, connID)

	log.Printf("relay: peer %s disconnected", connID)
}

// Members returns a snapshot of the room's member connection IDs. Unknown
// rooms yield an empty slice, never an error.
func (s *Service) Members(roomID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[roomID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(r.members))
	for id := range r.members {
		ids = append(ids, id)
	}
	return ids
}

// ExpireIdle reaps rooms with no join or signaling activity for longer than
// maxIdle, closing the evicted members' transports. Returns the number of
// rooms reaped.
func (s *Service) ExpireIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	reaped := 0
	for roomID, r := range s.rooms {
		if r.lastActive.After(cutoff) {
			continue
		}
		for connID := range r.members {
			if conn, ok := s.conns[connID]; ok {
				delete(conn.rooms, roomID)
				conn.transport.Close()
			}
		}
		delete(s.rooms, roomID)
		reaped++
		log.Printf("relay: expired idle room %s", roomID)
	}
	return reaped
}

// Stats reports the current connection and room counts.
func (s *Service) Stats() (conns, rooms int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns), len(s.rooms)
}

// leave removes connID from the room, deletes the room once empty, and when
// notify is set emits user-disconnected to the members left behind. Removing
// a connection that is not a member is a no-op. Caller holds s.mu.
func (s *Service) leave(roomID, connID string, notify bool) {
	r, ok := s.rooms[roomID]
	if !ok {
		return
	}
	if _, member := r.members[connID]; !member {
		return
	}
	delete(r.members, connID)
	if conn, ok := s.conns[connID]; ok {
		delete(conn.rooms, roomID)
	}

	if len(r.members) == 0 {
		delete(s.rooms, roomID)
		log.Printf("relay: removed empty room %s", roomID)
		return
	}

	if notify {
		s.fanOut(r, connID, models.SignalMessage{
			Type:   models.SignalTypeUserDisconnected,
			From:   connID,
			RoomID: roomID,
		})
	}
}

// fanOut delivers msg to every member of r except exclude. Delivery is
// best-effort per recipient: a failed send is logged and skipped without
// aborting the loop. Caller holds s.mu.
func (s *Service) fanOut(r *room, exclude string, msg models.SignalMessage) {
	for memberID := range r.members {
		if memberID == exclude {
			continue
		}
		conn, ok := s.conns[memberID]
		if !ok {
			log.Printf("relay: dropping %s to %s: %v", msg.Type, memberID, ErrConnectionGone)
			continue
		}
		if err := conn.transport.Send(msg); err != nil {
			log.Printf("relay: dropping %s to %s: %v", msg.Type, memberID, err)
		}
	}
}
