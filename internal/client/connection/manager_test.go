package connection

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yourusername/wish-sky/internal/server"
	"github.com/yourusername/wish-sky/internal/sky"
)

func connectTestManager(t *testing.T) (*Manager, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(server.NewServer(server.NewWishStore(80, 0)).Handler())
	t.Cleanup(ts.Close)

	m := NewManager("ws" + strings.TrimPrefix(ts.URL, "http") + "/ws")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.Connect(ctx); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(m.Disconnect)
	return m, ts
}

func TestManagerSourceRoundTrip(t *testing.T) {
	m, _ := connectTestManager(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	item, err := m.Submit(ctx, "first light")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if item.ID == "" || item.Text != "first light" {
		t.Errorf("Expected stored wish, got %+v", item)
	}

	seed, err := m.Seed(ctx, 10, 10)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if len(seed.Recent) != 1 || seed.Recent[0].ID != item.ID {
		t.Errorf("Expected submitted wish in seed, got %+v", seed)
	}

	if err := m.Delete(ctx, item.ID); err != nil {
		t.Errorf("Delete failed: %v", err)
	}

	err = m.Delete(ctx, item.ID)
	var te *sky.TransportError
	if !errors.As(err, &te) || te.Op != "delete" || te.Message == "" {
		t.Errorf("Expected delete TransportError with server message, got %v", err)
	}
}

func TestManagerConcurrentRequests(t *testing.T) {
	m, _ := connectTestManager(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	texts := make(chan string, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item, err := m.Submit(ctx, strings.Repeat("*", i+1))
			if err != nil {
				t.Errorf("Submit %d failed: %v", i, err)
				return
			}
			texts <- item.Text
		}(i)
	}
	wg.Wait()
	close(texts)

	seen := make(map[string]bool)
	for text := range texts {
		seen[text] = true
	}
	if len(seen) != 20 {
		t.Errorf("Expected 20 distinct replies, got %d", len(seen))
	}
	if m.state.Len() != 0 {
		t.Errorf("Expected no pending requests, got %d", m.state.Len())
	}
}

func TestManagerNotConnected(t *testing.T) {
	m := NewManager("ws://127.0.0.1:0/ws")

	_, err := m.Submit(context.Background(), "wish")
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("Expected ErrNotConnected, got %v", err)
	}
}

func TestManagerEvents(t *testing.T) {
	ts := httptest.NewServer(server.NewServer(server.NewWishStore(80, 0)).Handler())
	defer ts.Close()

	events := make(chan Event, 4)
	m := NewManager("ws" + strings.TrimPrefix(ts.URL, "http") + "/ws")
	m.OnEvent(func(e Event) { events <- e })

	if err := m.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if _, ok := (<-events).(ConnectedEvent); !ok {
		t.Error("Expected ConnectedEvent first")
	}

	m.Disconnect()
	select {
	case e := <-events:
		if _, ok := e.(DisconnectedEvent); !ok {
			t.Errorf("Expected DisconnectedEvent, got %T", e)
		}
	case <-time.After(2 * time.Second):
		t.Error("Expected DisconnectedEvent after Disconnect")
	}
	if m.IsConnected() {
		t.Error("Expected manager to report disconnected")
	}
}
