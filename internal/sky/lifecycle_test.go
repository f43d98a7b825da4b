package sky

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yourusername/wish-sky/internal/protocol"
)

// fakeSource records calls and answers from canned data
type fakeSource struct {
	mu        sync.Mutex
	seed      protocol.SeedPayload
	seedErr   error
	submitErr error
	deleteErr error

	nextID  int
	seeds   int
	submits []string
	deletes []string
}

func (f *fakeSource) Seed(ctx context.Context, recent, random int) (protocol.SeedPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seeds++
	return f.seed, f.seedErr
}

func (f *fakeSource) Submit(ctx context.Context, text string) (protocol.WishItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, text)
	if f.submitErr != nil {
		return protocol.WishItem{}, f.submitErr
	}
	f.nextID++
	return protocol.WishItem{ID: strconv.Itoa(f.nextID), Text: text}, nil
}

func (f *fakeSource) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.deleteErr
}

func (f *fakeSource) calls() (seeds int, submits, deletes []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seeds, append([]string(nil), f.submits...), append([]string(nil), f.deletes...)
}

// heldSource blocks Submit until release is closed
type heldSource struct {
	*fakeSource
	started chan struct{}
	release chan struct{}
}

func (h *heldSource) Submit(ctx context.Context, text string) (protocol.WishItem, error) {
	close(h.started)
	<-h.release
	return h.fakeSource.Submit(ctx, text)
}

func newTestController(t *testing.T, src Source, cfg ControllerConfig) (*Controller, *Loop) {
	t.Helper()
	loop := startLoop(t, DefaultConfig(), time.Hour, nil)
	ctrl := NewController(loop, src, DefaultMeasurer(), cfg, rand.New(rand.NewSource(1)))
	return ctrl, loop
}

func liveIDs(t *testing.T, loop *Loop) []string {
	t.Helper()
	f, err := loop.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	out := make([]string, len(f.Wishes))
	for i, w := range f.Wishes {
		out[i] = w.ID
	}
	return out
}

func TestSubmitEmptyIsValidationError(t *testing.T) {
	src := &fakeSource{}
	ctrl, loop := newTestController(t, src, DefaultControllerConfig())

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := ctrl.SubmitNew(context.Background(), text)

		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Expected ValidationError for %q, got %v", text, err)
		}
		if !errors.Is(err, ErrEmptyText) {
			t.Errorf("Expected ErrEmptyText for %q, got %v", text, err)
		}
	}

	if _, submits, _ := src.calls(); len(submits) != 0 {
		t.Errorf("Expected zero network calls, got %v", submits)
	}
	if got := liveIDs(t, loop); len(got) != 0 {
		t.Errorf("Expected empty registry, got %v", got)
	}
}

func TestSubmitTooLong(t *testing.T) {
	src := &fakeSource{}
	ctrl, _ := newTestController(t, src, DefaultControllerConfig())

	_, err := ctrl.SubmitNew(context.Background(), strings.Repeat("星", 81))
	if !errors.Is(err, ErrTextTooLong) {
		t.Errorf("Expected ErrTextTooLong, got %v", err)
	}
	if _, err := ValidateText(strings.Repeat("星", 80), 80); err != nil {
		t.Errorf("Expected 80 runes to pass, got %v", err)
	}
	if _, submits, _ := src.calls(); len(submits) != 0 {
		t.Errorf("Expected zero network calls, got %v", submits)
	}
}

func TestSubmitNewRises(t *testing.T) {
	src := &fakeSource{}
	ctrl, loop := newTestController(t, src, DefaultControllerConfig())

	view, err := ctrl.SubmitNew(context.Background(), "  happy new year  ")
	if err != nil {
		t.Fatalf("SubmitNew failed: %v", err)
	}
	if view.ID != "1" || view.Text != "happy new year" {
		t.Errorf("Expected wish 1 with trimmed text, got %+v", view)
	}
	if !view.Rising || view.Vel.Y >= 0 {
		t.Errorf("Expected rising element with upward velocity, got %+v", view)
	}
	if _, submits, _ := src.calls(); !reflect.DeepEqual(submits, []string{"happy new year"}) {
		t.Errorf("Expected one trimmed submit, got %v", submits)
	}
	if got := liveIDs(t, loop); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("Expected [1] live, got %v", got)
	}
}

func TestSubmitTransportFailureCreatesNothing(t *testing.T) {
	src := &fakeSource{submitErr: errors.New("connection refused")}
	ctrl, loop := newTestController(t, src, DefaultControllerConfig())

	_, err := ctrl.SubmitNew(context.Background(), "wish")

	var te *TransportError
	if !errors.As(err, &te) || te.Op != "submit" {
		t.Fatalf("Expected submit TransportError, got %v", err)
	}
	if _, submits, _ := src.calls(); len(submits) != 1 {
		t.Errorf("Expected exactly one attempt, got %d", len(submits))
	}
	if got := liveIDs(t, loop); len(got) != 0 {
		t.Errorf("Expected no elements, got %v", got)
	}
}

func TestFetchInitialDedupes(t *testing.T) {
	src := &fakeSource{seed: protocol.SeedPayload{
		Recent: []protocol.WishItem{{ID: "1", Text: "one"}, {ID: "2", Text: "two"}},
		Random: []protocol.WishItem{{ID: "2", Text: "two"}, {ID: "3", Text: "three"}},
	}}
	ctrl, loop := newTestController(t, src, DefaultControllerConfig())

	added, err := ctrl.FetchInitial(context.Background())
	if err != nil {
		t.Fatalf("FetchInitial failed: %v", err)
	}
	if added != 3 {
		t.Errorf("Expected 3 added, got %d", added)
	}

	f, _ := loop.Snapshot(context.Background())
	for _, w := range f.Wishes {
		if w.Rising {
			t.Errorf("Expected resting wish, got rising %s", w.ID)
		}
	}

	// A second load with the same ids adds nothing
	if added, _ := ctrl.LoadInitial(context.Background(), src.seed.Recent); added != 0 {
		t.Errorf("Expected duplicates skipped, got %d added", added)
	}
}

func TestFetchInitialTransportError(t *testing.T) {
	src := &fakeSource{seedErr: errors.New("timeout")}
	ctrl, _ := newTestController(t, src, DefaultControllerConfig())

	_, err := ctrl.FetchInitial(context.Background())
	var te *TransportError
	if !errors.As(err, &te) || te.Op != "seed" {
		t.Errorf("Expected seed TransportError, got %v", err)
	}
}

func TestDeleteIsOptimistic(t *testing.T) {
	src := &fakeSource{deleteErr: &TransportError{Op: "delete", Status: 500}}
	ctrl, loop := newTestController(t, src, DefaultControllerConfig())
	ctx := context.Background()

	ctrl.LoadInitial(ctx, []protocol.WishItem{{ID: "a", Text: "alpha"}, {ID: "b", Text: "beta"}})

	err := ctrl.DeleteByID(ctx, "a")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Errorf("Expected TransportError surfaced, got %v", err)
	}
	if got := liveIDs(t, loop); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Expected local removal kept, got %v", got)
	}

	// Deleting again is harmless locally
	ctrl.DeleteByID(ctx, "a")
	if got := liveIDs(t, loop); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Expected [b] after repeated delete, got %v", got)
	}
	if _, _, deletes := src.calls(); !reflect.DeepEqual(deletes, []string{"a", "a"}) {
		t.Errorf("Expected two remote deletes, got %v", deletes)
	}
}

func TestOptimisticSubmitAliasesServerID(t *testing.T) {
	src := &fakeSource{}
	cfg := DefaultControllerConfig()
	cfg.Optimistic = true
	ctrl, loop := newTestController(t, src, cfg)
	ctx := context.Background()

	view, err := ctrl.SubmitNew(ctx, "shooting star")
	if err != nil {
		t.Fatalf("SubmitNew failed: %v", err)
	}
	if !strings.HasPrefix(view.ID, localIDPrefix) {
		t.Errorf("Expected local id, got %s", view.ID)
	}

	if err := ctrl.DeleteByID(ctx, "1"); err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if got := liveIDs(t, loop); len(got) != 0 {
		t.Errorf("Expected optimistic element removed via server id, got %v", got)
	}
	if _, _, deletes := src.calls(); !reflect.DeepEqual(deletes, []string{"1"}) {
		t.Errorf("Expected remote delete of server id, got %v", deletes)
	}
}

func TestOptimisticSubmitFailureWithdraws(t *testing.T) {
	src := &fakeSource{submitErr: errors.New("offline")}
	cfg := DefaultControllerConfig()
	cfg.Optimistic = true
	ctrl, loop := newTestController(t, src, cfg)

	if _, err := ctrl.SubmitNew(context.Background(), "lost wish"); err == nil {
		t.Fatal("Expected error")
	}
	if got := liveIDs(t, loop); len(got) != 0 {
		t.Errorf("Expected optimistic element withdrawn, got %v", got)
	}
}

func TestRefreshReloads(t *testing.T) {
	src := &fakeSource{seed: protocol.SeedPayload{
		Recent: []protocol.WishItem{{ID: "1", Text: "one"}},
	}}
	ctrl, loop := newTestController(t, src, DefaultControllerConfig())
	ctx := context.Background()

	ctrl.SubmitNew(ctx, "extra")
	if _, err := ctrl.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if got := liveIDs(t, loop); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("Expected only seed wish after refresh, got %v", got)
	}
}

func TestOptimisticDeleteBeforeAcknowledgement(t *testing.T) {
	src := &heldSource{
		fakeSource: &fakeSource{},
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	cfg := DefaultControllerConfig()
	cfg.Optimistic = true
	ctrl, loop := newTestController(t, src, cfg)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.SubmitNew(ctx, "hello")
		done <- err
	}()
	<-src.started

	live := liveIDs(t, loop)
	if len(live) != 1 || !strings.HasPrefix(live[0], localIDPrefix) {
		t.Fatalf("Expected one optimistic element, got %v", live)
	}
	if err := ctrl.DeleteByID(ctx, live[0]); err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}

	close(src.release)
	if err := <-done; err != nil {
		t.Fatalf("SubmitNew failed: %v", err)
	}

	if got := liveIDs(t, loop); len(got) != 0 {
		t.Errorf("Expected no live elements, got %v", got)
	}
	if _, _, deletes := src.calls(); !reflect.DeepEqual(deletes, []string{"1"}) {
		t.Errorf("Expected the acknowledged wish deleted remotely, got %v", deletes)
	}

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	if len(ctrl.byServer) != 0 || len(ctrl.byLocal) != 0 || len(ctrl.pending) != 0 {
		t.Errorf("Expected no bookkeeping left, got byServer=%v byLocal=%v pending=%v", ctrl.byServer, ctrl.byLocal, ctrl.pending)
	}
}
