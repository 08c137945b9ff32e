package relay

import "errors"

var (
	// ErrNotInRoom is returned when a connection emits a room-scoped event
	// without an active membership in that room. Stale clients hit this
	// after a server-side leave; the event is dropped, not forwarded.
	ErrNotInRoom = errors.New("relay: sender is not a member of the room")

	// ErrConnectionGone is returned when the target connection disappeared
	// between lookup and delivery. Best-effort: logged and dropped,
	// never retried.
	ErrConnectionGone = errors.New("relay: connection no longer exists")
)
