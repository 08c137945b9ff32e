package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/cliniclink/telehealth-server/internal/models"
	"github.com/cliniclink/telehealth-server/internal/relay"
)

func newSignalingServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/signal", HandleSignaling(relay.NewService()))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/signal"
}

func dialPeer(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readSignal(t *testing.T, conn *websocket.Conn) models.SignalMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg models.SignalMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read signal: %v", err)
	}
	return msg
}

func writeSignal(t *testing.T, conn *websocket.Conn, msg models.SignalMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write signal: %v", err)
	}
}

func joinRoom(t *testing.T, conn *websocket.Conn, roomID string) models.SignalMessage {
	t.Helper()
	writeSignal(t, conn, models.SignalMessage{Type: models.SignalTypeJoinRoom, RoomID: roomID})
	ack := readSignal(t, conn)
	if ack.Type != models.SignalTypeJoinRoom || ack.From == "" {
		t.Fatalf("join ack: %#v", ack)
	}
	return ack
}

func TestSignalingOverWebSocket(t *testing.T) {
	_, url := newSignalingServer(t)

	caller := dialPeer(t, url)
	callee := dialPeer(t, url)

	callerID := joinRoom(t, caller, "room1").From
	calleeID := joinRoom(t, callee, "room1").From

	// The first peer learns about the second.
	notice := readSignal(t, caller)
	if notice.Type != models.SignalTypeUserConnected || notice.From != calleeID {
		t.Fatalf("user-connected: %#v", notice)
	}

	// Offer then candidate flow one way, in order, sender excluded.
	writeSignal(t, caller, models.SignalMessage{
		Type:    models.SignalTypeOffer,
		RoomID:  "room1",
		Payload: []byte(`{"sdp":"v=0 caller"}`),
	})
	writeSignal(t, caller, models.SignalMessage{
		Type:    models.SignalTypeCandidate,
		RoomID:  "room1",
		Payload: []byte(`{"candidate":"host 10.0.0.1"}`),
	})

	offer := readSignal(t, callee)
	if offer.Type != models.SignalTypeOffer || offer.From != callerID {
		t.Fatalf("offer: %#v", offer)
	}
	if string(offer.Payload) != `{"sdp":"v=0 caller"}` {
		t.Fatalf("offer payload mutated: %s", offer.Payload)
	}
	cand := readSignal(t, callee)
	if cand.Type != models.SignalTypeCandidate {
		t.Fatalf("candidate out of order: %#v", cand)
	}

	// Answer flows back.
	writeSignal(t, callee, models.SignalMessage{
		Type:    models.SignalTypeAnswer,
		RoomID:  "room1",
		Payload: []byte(`{"sdp":"v=0 callee"}`),
	})
	answer := readSignal(t, caller)
	if answer.Type != models.SignalTypeAnswer || answer.From != calleeID {
		t.Fatalf("answer: %#v", answer)
	}

	// Hang-up notifies the peer left behind.
	callee.Close()
	gone := readSignal(t, caller)
	if gone.Type != models.SignalTypeUserDisconnected || gone.From != calleeID {
		t.Fatalf("user-disconnected: %#v", gone)
	}
}

func TestJoinRoomRequiresRoomID(t *testing.T) {
	_, url := newSignalingServer(t)

	peer := dialPeer(t, url)
	writeSignal(t, peer, models.SignalMessage{Type: models.SignalTypeJoinRoom})
	reply := readSignal(t, peer)
	if reply.Type != models.SignalTypeError {
		t.Fatalf("expected error reply, got %#v", reply)
	}
}

func TestSignalBeforeJoinIsDropped(t *testing.T) {
	_, url := newSignalingServer(t)

	stale := dialPeer(t, url)
	member := dialPeer(t, url)
	joinRoom(t, member, "room1")

	// Not a member: the offer must reach nobody.
	writeSignal(t, stale, models.SignalMessage{
		Type:    models.SignalTypeOffer,
		RoomID:  "room1",
		Payload: []byte(`{"sdp":"stale"}`),
	})

	member.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var msg models.SignalMessage
	if err := member.ReadJSON(&msg); err == nil {
		t.Fatalf("member received message from non-member: %#v", msg)
	}
}
