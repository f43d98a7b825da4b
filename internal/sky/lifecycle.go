package sky

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/yourusername/wish-sky/internal/protocol"
)

// localIDPrefix marks ids minted on the client for optimistic display
const localIDPrefix = "local-"

// Source is the external message store
type Source interface {
	Seed(ctx context.Context, recent, random int) (protocol.SeedPayload, error)
	Submit(ctx context.Context, text string) (protocol.WishItem, error)
	Delete(ctx context.Context, id string) error
}

// ControllerConfig tunes the lifecycle controller
type ControllerConfig struct {
	MaxTextLength int
	SeedRecent    int
	SeedRandom    int
	Optimistic    bool // show submissions before the source acknowledges them
}

// DefaultControllerConfig mirrors the wish store's limits
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		MaxTextLength: 80,
		SeedRecent:    15,
		SeedRandom:    15,
	}
}

// Controller creates and destroys elements on behalf of the UI and the message source.
// Network calls happen on the caller's goroutine; world mutation is handed to the loop.
type Controller struct {
	loop    *Loop
	source  Source
	measure Measurer
	cfg     ControllerConfig

	mu       sync.Mutex
	rng      *rand.Rand
	byServer map[string]string // server id -> local id (optimistic submissions)
	byLocal  map[string]string // local id -> server id
	pending  map[string]bool   // optimistic local ids awaiting acknowledgement; true once deleted locally
}

// NewController wires a controller to a running loop and a message source
func NewController(loop *Loop, source Source, measure Measurer, cfg ControllerConfig, rng *rand.Rand) *Controller {
	if cfg.MaxTextLength < 1 {
		cfg.MaxTextLength = DefaultControllerConfig().MaxTextLength
	}
	return &Controller{
		loop:     loop,
		source:   source,
		measure:  measure,
		cfg:      cfg,
		rng:      rng,
		byServer: make(map[string]string),
		byLocal:  make(map[string]string),
		pending:  make(map[string]bool),
	}
}

// ValidateText trims text and rejects empty or over-length wishes
func ValidateText(text string, maxLen int) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ValidationError{Reason: ErrEmptyText}
	}
	if maxLen > 0 && utf8.RuneCountInString(text) > maxLen {
		return "", &ValidationError{Reason: ErrTextTooLong, Limit: maxLen}
	}
	return text, nil
}

// Resize records a new viewport layout
func (c *Controller) Resize(ctx context.Context, layout Layout) error {
	return c.loop.Do(ctx, func(w *World) {
		w.SetLayout(layout)
	})
}

// LoadInitial registers items as resting elements in the given order and returns how
// many were added (duplicates of live ids are skipped)
func (c *Controller) LoadInitial(ctx context.Context, items []protocol.WishItem) (int, error) {
	sizes := make([]Size, len(items))
	for i, item := range items {
		sizes[i] = c.measure.Measure(item.Text)
	}

	added := 0
	err := c.loop.Do(ctx, func(w *World) {
		for i, item := range items {
			if _, ok := w.Spawn(item.ID, item.Text, sizes[i], ArriveResting); ok {
				added++
			}
		}
	})
	return added, err
}

// FetchInitial asks the source for the seed batch and loads it: recent first, then
// random, de-duplicated by id and shuffled
func (c *Controller) FetchInitial(ctx context.Context) (int, error) {
	seed, err := c.source.Seed(ctx, c.cfg.SeedRecent, c.cfg.SeedRandom)
	if err != nil {
		return 0, asTransport("seed", err)
	}

	seen := make(map[string]bool, len(seed.Recent)+len(seed.Random))
	items := make([]protocol.WishItem, 0, len(seed.Recent)+len(seed.Random))
	for _, group := range [][]protocol.WishItem{seed.Recent, seed.Random} {
		for _, item := range group {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			items = append(items, item)
		}
	}

	c.mu.Lock()
	c.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
	c.mu.Unlock()

	return c.LoadInitial(ctx, items)
}

// Refresh drops every live element and reloads the seed batch
func (c *Controller) Refresh(ctx context.Context) (int, error) {
	if err := c.loop.Do(ctx, func(w *World) { w.Clear() }); err != nil {
		return 0, err
	}

	c.mu.Lock()
	clear(c.byServer)
	clear(c.byLocal)
	c.mu.Unlock()

	return c.FetchInitial(ctx)
}

// SubmitNew validates text, persists it through the source and launches a rising element.
// Failed submissions create nothing and are not retried.
func (c *Controller) SubmitNew(ctx context.Context, text string) (WishView, error) {
	text, err := ValidateText(text, c.cfg.MaxTextLength)
	if err != nil {
		return WishView{}, err
	}
	size := c.measure.Measure(text)

	if c.cfg.Optimistic {
		return c.submitOptimistic(ctx, text, size)
	}

	item, err := c.source.Submit(ctx, text)
	if err != nil {
		return WishView{}, asTransport("submit", err)
	}
	return c.spawnRising(ctx, item.ID, item.Text, size)
}

func (c *Controller) submitOptimistic(ctx context.Context, text string, size Size) (WishView, error) {
	localID := localIDPrefix + uuid.NewString()
	c.mu.Lock()
	c.pending[localID] = false
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, localID)
		c.mu.Unlock()
	}()

	view, err := c.spawnRising(ctx, localID, text, size)
	if err != nil {
		return WishView{}, err
	}

	item, err := c.source.Submit(ctx, text)
	if err != nil {
		if rmErr := c.loop.Do(context.WithoutCancel(ctx), func(w *World) { w.Remove(localID) }); rmErr != nil {
			log.Printf("Failed to withdraw optimistic wish %s: %v", localID, rmErr)
		}
		return WishView{}, asTransport("submit", err)
	}

	// Alias only while the element is still live; the check runs on the loop so no removal
	// can slip in between
	var deleted bool
	err = c.loop.Do(context.WithoutCancel(ctx), func(w *World) {
		c.mu.Lock()
		defer c.mu.Unlock()

		deleted = c.pending[localID]
		if _, live := w.Registry().Get(localID); live && !deleted {
			c.byServer[item.ID] = localID
			c.byLocal[localID] = item.ID
		}
	})
	if err != nil {
		return view, err
	}

	// Deleted while the submit was in flight: the stored copy goes too
	if deleted {
		if err := c.source.Delete(context.WithoutCancel(ctx), item.ID); err != nil {
			log.Printf("Failed to delete withdrawn wish %s: %v", item.ID, err)
		}
	}
	return view, nil
}

func (c *Controller) spawnRising(ctx context.Context, id, text string, size Size) (WishView, error) {
	var view WishView
	err := c.loop.Do(ctx, func(w *World) {
		if e, ok := w.Spawn(id, text, size, ArriveRising); ok {
			view = e.View()
		}
	})
	return view, err
}

// DeleteByID removes the element locally first, then asks the source to delete it.
// The local removal stands even when the source call fails.
func (c *Controller) DeleteByID(ctx context.Context, id string) error {
	var localID, serverID string
	err := c.loop.Do(ctx, func(w *World) {
		localID, serverID = c.resolve(id)
		w.Remove(localID)
	})
	if err != nil {
		return err
	}
	c.Forget(localID)

	// Not acknowledged yet; submitOptimistic deletes it remotely once it is
	if serverID == "" {
		return nil
	}

	if err := c.source.Delete(ctx, serverID); err != nil {
		log.Printf("Failed to delete wish %s: %v", serverID, err)
		return asTransport("delete", err)
	}
	return nil
}

// Forget drops alias bookkeeping for an element that left the registry
func (c *Controller) Forget(localID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if serverID, ok := c.byLocal[localID]; ok {
		delete(c.byServer, serverID)
		delete(c.byLocal, localID)
	}
}

// resolve maps either id form to the live element id and the id the source knows. A pending
// optimistic id is marked deleted so its acknowledgement is deleted remotely.
func (c *Controller) resolve(id string) (localID, serverID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if local, ok := c.byServer[id]; ok {
		return local, id
	}
	if server, ok := c.byLocal[id]; ok {
		return id, server
	}
	if strings.HasPrefix(id, localIDPrefix) {
		if _, ok := c.pending[id]; ok {
			c.pending[id] = true
		}
		return id, ""
	}
	return id, id
}

func asTransport(op string, err error) error {
	var te *TransportError
	if errors.As(err, &te) {
		return te
	}
	return &TransportError{Op: op, Err: err}
}
