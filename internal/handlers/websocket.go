package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/cliniclink/telehealth-server/internal/models"
	"github.com/cliniclink/telehealth-server/internal/relay"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 * 1024 // enough for any SDP blob
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is handled by middleware
		return true
	},
}

// Client is one WebSocket peer. It implements relay.Transport: the relay
// enqueues onto the out channel under its own lock, and writePump drains it,
// so messages reach the wire in the order the relay produced them.
type Client struct {
	ID   string
	Conn *websocket.Conn

	// out is drained by writePump; everything written to the socket goes
	// through it so there is a single writer per connection.
	out chan []byte

	closeOnce sync.Once
}

// Send queues one outbound message. A full buffer means the peer stopped
// reading; the message is dropped rather than blocking the relay.
func (c *Client) Send(msg models.SignalMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	select {
	case c.out <- data:
		return nil
	default:
		return fmt.Errorf("send buffer full for peer %s", c.ID)
	}
}

// Close shuts the underlying connection, which unblocks both pumps.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() { err = c.Conn.Close() })
	return err
}

// HandleSignaling upgrades the connection and hands the peer to the relay.
// The peer then drives everything by messages: join-room first, offers,
// answers and candidates after.
func HandleSignaling(svc *relay.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Failed to upgrade connection: %v", err)
			return
		}

		client := &Client{
			Conn: conn,
			out:  make(chan []byte, 256),
		}
		client.ID = svc.Register(client)
		log.Printf("Peer %s connected", client.ID)

		go client.writePump()
		go client.readPump(svc)
	}
}

func (c *Client) readPump(svc *relay.Service) {
	defer func() {
		svc.Disconnect(c.ID)
		c.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for peer %s: %v", c.ID, err)
			}
			break
		}

		var msg models.SignalMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Failed to parse message from peer %s: %v", c.ID, err)
			continue
		}

		switch {
		case msg.Type == models.SignalTypeJoinRoom:
			if msg.RoomID == "" {
				c.Send(models.SignalMessage{
					Type:  models.SignalTypeError,
					Error: "roomId is required",
				})
				continue
			}
			size, err := svc.Join(msg.RoomID, c.ID)
			if err != nil {
				log.Printf("Join %s by peer %s failed: %v", msg.RoomID, c.ID, err)
				continue
			}
			// Ack tells the peer its server-assigned ID and how many
			// members the room now has.
			c.Send(models.SignalMessage{
				Type:    models.SignalTypeJoinRoom,
				From:    c.ID,
				RoomID:  msg.RoomID,
				Payload: json.RawMessage(fmt.Sprintf(`{"members":%d}`, size)),
			})

		case msg.Type.Relayable():
			if err := svc.Forward(c.ID, msg.RoomID, msg.Type, msg.Payload); err != nil {
				// Stale client racing a server-side leave; drop it.
				log.Printf("Rejected %s from peer %s for room %s: %v", msg.Type, c.ID, msg.RoomID, err)
			}

		default:
			log.Printf("Unknown message type %q from peer %s", msg.Type, c.ID)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.out:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Failed to write to peer %s: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
