package connection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/yourusername/wish-sky/internal/protocol"
	"github.com/yourusername/wish-sky/internal/sky"
)

var (
	// ErrNotConnected is returned for requests made while no connection is open
	ErrNotConnected = errors.New("not connected")
	// ErrDisconnected fails requests still waiting when the connection drops
	ErrDisconnected = errors.New("connection lost")
)

// Manager manages the WebSocket connection to the wish store and implements sky.Source.
// Every request carries a fresh id and waits for the reply echoing it.
type Manager struct {
	serverURL     string
	conn          *websocket.Conn
	state         *State
	eventCallback func(Event)
	connected     bool
	mu            sync.RWMutex
	writeMu       sync.Mutex
	done          chan struct{}
}

var _ sky.Source = (*Manager)(nil)

// NewManager creates a new connection manager
func NewManager(serverURL string) *Manager {
	return &Manager{
		serverURL: serverURL,
		state:     NewState(),
		connected: false,
		done:      make(chan struct{}),
	}
}

// OnEvent sets the callback for events
func (m *Manager) OnEvent(callback func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventCallback = callback
}

// Connect establishes a WebSocket connection to the server
func (m *Manager) Connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, m.serverURL, nil)
	if err != nil {
		m.sendEvent(DisconnectedEvent{Error: err})
		return err
	}

	m.mu.Lock()
	m.conn = conn
	m.connected = true
	// Fresh done channel per connection so reconnecting works
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.readPump(conn)

	m.sendEvent(ConnectedEvent{})
	return nil
}

// Disconnect closes the WebSocket connection
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return
	}

	m.connected = false

	if m.done != nil {
		select {
		case <-m.done:
			// Already closed
		default:
			close(m.done)
		}
	}

	if m.conn != nil {
		m.conn.Close()
	}
}

// IsConnected returns whether the manager is connected
func (m *Manager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

//// sky.Source ////

// Seed fetches the initial batch
func (m *Manager) Seed(ctx context.Context, recent, random int) (protocol.SeedPayload, error) {
	var seed protocol.SeedPayload
	err := m.request(ctx, "seed", protocol.MsgFetchSeed, protocol.SeedRequestPayload{
		Recent: recent,
		Random: random,
	}, protocol.MsgSeed, &seed)
	return seed, err
}

// Submit stores a new wish
func (m *Manager) Submit(ctx context.Context, text string) (protocol.WishItem, error) {
	var item protocol.WishItem
	err := m.request(ctx, "submit", protocol.MsgSubmitWish, protocol.SubmitPayload{
		Text: text,
	}, protocol.MsgWishCreated, &item)
	return item, err
}

// Delete removes a stored wish
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.request(ctx, "delete", protocol.MsgDeleteWish, protocol.DeletePayload{
		ID: id,
	}, protocol.MsgWishDeleted, nil)
}

////////////////////////////////////////////

// request sends one envelope and decodes the matching reply into out
func (m *Manager) request(ctx context.Context, op string, msgType protocol.MessageType, payload interface{}, want protocol.MessageType, out interface{}) error {
	id := uuid.New().String()
	wait := m.state.Track(id)
	defer m.state.Forget(id)

	if err := m.sendMessage(msgType, id, payload); err != nil {
		return &sky.TransportError{Op: op, Err: err}
	}

	m.mu.RLock()
	done := m.done
	m.mu.RUnlock()

	var r reply
	select {
	case r = <-wait:
	case <-done:
		return &sky.TransportError{Op: op, Err: ErrDisconnected}
	case <-ctx.Done():
		return &sky.TransportError{Op: op, Err: ctx.Err()}
	}

	if r.err != nil {
		return &sky.TransportError{Op: op, Err: r.err}
	}

	switch r.msg.Type {
	case want:
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(r.msg.Payload, out); err != nil {
			return &sky.TransportError{Op: op, Err: fmt.Errorf("decode %s: %w", want, err)}
		}
		return nil

	case protocol.MsgError:
		var payload protocol.ErrorPayload
		json.Unmarshal(r.msg.Payload, &payload)
		return &sky.TransportError{Op: op, Message: payload.Error}

	default:
		return &sky.TransportError{Op: op, Err: fmt.Errorf("unexpected reply %s", r.msg.Type)}
	}
}

// sendMessage sends a message to the server
func (m *Manager) sendMessage(msgType protocol.MessageType, id string, payload interface{}) error {
	m.mu.RLock()
	conn, connected := m.conn, m.connected
	m.mu.RUnlock()

	if !connected || conn == nil {
		return ErrNotConnected
	}

	msg, err := protocol.EncodeMessage(msgType, id, payload)
	if err != nil {
		return err
	}

	// gorilla allows one concurrent writer
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, msg)
}

// readPump reads replies from the WebSocket connection
func (m *Manager) readPump(conn *websocket.Conn) {
	var readErr error
	defer func() {
		m.mu.Lock()
		m.connected = false
		conn.Close()
		m.mu.Unlock()
		m.state.FailAll(ErrDisconnected)
		m.sendEvent(DisconnectedEvent{Error: readErr})
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
				readErr = err
			}
			return
		}

		m.handleMessage(message)
	}
}

// handleMessage routes a reply to the request waiting for it
func (m *Manager) handleMessage(data []byte) {
	msg, err := protocol.DecodeMessage(data)
	if err != nil {
		log.Printf("Error decoding message: %v", err)
		return
	}

	if msg.Type == protocol.MsgError {
		var payload protocol.ErrorPayload
		if err := json.Unmarshal(msg.Payload, &payload); err == nil {
			log.Printf("Server error: %s", payload.Error)
			m.sendEvent(ErrorEvent{RequestID: msg.ID, Message: payload.Error})
		}
	}

	if !m.state.Resolve(msg) {
		log.Printf("Unhandled reply %s (request %q)", msg.Type, msg.ID)
	}
}

// sendEvent sends an event to the callback if set
func (m *Manager) sendEvent(event Event) {
	m.mu.RLock()
	callback := m.eventCallback
	m.mu.RUnlock()

	if callback != nil {
		callback(event)
	}
}
