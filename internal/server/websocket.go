package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/yourusername/wish-sky/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second    //time allowed to read the next pong message from client
	pingPeriod     = (pongWait * 9) / 10 //send pings to client with this period. must be less than pongWait
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{ //upgrade HTTP connections to WebSocket connections
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // terminal clients send no Origin
	},
}

// Client represents a WebSocket client. Replies go only to the connection that asked.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
}

// HandleWebSocket handles WebSocket connections
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}

	client := &Client{
		ID:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, 256),
	}
	log.Printf("Client %s connected", client.ID)

	go client.writePump()
	go client.readPump(s)
}

// readPump reads requests until the connection drops
func (c *Client) readPump(s *Server) {
	defer func() {
		close(c.send)
		c.conn.Close()
		log.Printf("Client %s disconnected", c.ID)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(s, message)
	}
}

// writePump pumps replies to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One envelope per frame so the client can decode each reply on its own
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage answers one request
func (c *Client) handleMessage(s *Server, data []byte) {
	msg, err := protocol.DecodeMessage(data)
	if err != nil {
		log.Printf("Error decoding message: %v", err)
		c.reply(protocol.MsgError, "", protocol.ErrorPayload{Error: "malformed message"})
		return
	}

	switch msg.Type {
	case protocol.MsgSubmitWish:
		var payload protocol.SubmitPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Printf("Error unmarshaling submit payload: %v", err)
			c.reply(protocol.MsgError, msg.ID, protocol.ErrorPayload{Error: "malformed submit payload"})
			return
		}

		item, err := s.store.Create(payload.Text)
		if err != nil {
			c.reply(protocol.MsgError, msg.ID, protocol.ErrorPayload{Error: err.Error()})
			return
		}
		log.Printf("Stored wish %s", item.ID)
		c.reply(protocol.MsgWishCreated, msg.ID, item)

	case protocol.MsgFetchSeed:
		var payload protocol.SeedRequestPayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				log.Printf("Error unmarshaling seed payload: %v", err)
				c.reply(protocol.MsgError, msg.ID, protocol.ErrorPayload{Error: "malformed seed payload"})
				return
			}
		}
		c.reply(protocol.MsgSeed, msg.ID, s.store.Seed(payload.Recent, payload.Random))

	case protocol.MsgDeleteWish:
		var payload protocol.DeletePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			log.Printf("Error unmarshaling delete payload: %v", err)
			c.reply(protocol.MsgError, msg.ID, protocol.ErrorPayload{Error: "malformed delete payload"})
			return
		}

		if err := s.store.Delete(payload.ID); err != nil {
			c.reply(protocol.MsgError, msg.ID, protocol.ErrorPayload{Error: err.Error()})
			return
		}
		log.Printf("Deleted wish %s", payload.ID)
		c.reply(protocol.MsgWishDeleted, msg.ID, payload)

	default:
		c.reply(protocol.MsgError, msg.ID, protocol.ErrorPayload{Error: "unknown message type " + string(msg.Type)})
	}
}

func (c *Client) reply(msgType protocol.MessageType, id string, payload interface{}) {
	data, err := protocol.EncodeMessage(msgType, id, payload)
	if err != nil {
		log.Printf("Error encoding %s reply: %v", msgType, err)
		return
	}
	c.send <- data
}
