package server

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/yourusername/wish-sky/internal/protocol"
)

const (
	defaultRecentLimit = 20
	defaultRandomLimit = 30
	maxLimit           = 100
)

var (
	// ErrNotFound is returned when a wish id is unknown
	ErrNotFound = errors.New("wish not found")
	// ErrInvalidWish wraps every rejected submission
	ErrInvalidWish = errors.New("invalid wish")
)

// Wish represents a stored wish
type Wish struct {
	ID        string
	Text      string
	CreatedAt time.Time
}

func (w Wish) item() protocol.WishItem {
	return protocol.WishItem{
		ID:        w.ID,
		Text:      w.Text,
		CreatedAt: w.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// WishStore keeps wishes in memory, oldest first
type WishStore struct {
	wishes    []Wish
	nextID    int
	maxLength int
	maxStored int // 0 keeps everything
	rng       *rand.Rand
	now       func() time.Time
	mu        sync.RWMutex
}

// NewWishStore creates an empty store
func NewWishStore(maxLength, maxStored int) *WishStore {
	if maxLength < 1 {
		maxLength = 80
	}
	return &WishStore{
		wishes:    make([]Wish, 0),
		maxLength: maxLength,
		maxStored: maxStored,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// Create validates and stores a new wish
func (s *WishStore) Create(text string) (protocol.WishItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return protocol.WishItem{}, fmt.Errorf("%w: text cannot be empty", ErrInvalidWish)
	}
	if utf8.RuneCountInString(text) > s.maxLength {
		return protocol.WishItem{}, fmt.Errorf("%w: text must be <= %d chars", ErrInvalidWish, s.maxLength)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	wish := Wish{
		ID:        strconv.Itoa(s.nextID),
		Text:      text,
		CreatedAt: s.now(),
	}
	s.wishes = append(s.wishes, wish)

	if s.maxStored > 0 && len(s.wishes) > s.maxStored {
		s.wishes = s.wishes[len(s.wishes)-s.maxStored:]
	}
	return wish.item(), nil
}

// Recent returns up to limit wishes, newest first
func (s *WishStore) Recent(limit int) []protocol.WishItem {
	limit = clampLimit(limit, defaultRecentLimit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]protocol.WishItem, 0, min(limit, len(s.wishes)))
	for i := len(s.wishes) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.wishes[i].item())
	}
	return out
}

// Random returns up to limit wishes in random order, skipping the excluded ids
func (s *WishStore) Random(limit int, exclude []string) []protocol.WishItem {
	limit = clampLimit(limit, defaultRandomLimit)

	skip := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pool := make([]Wish, 0, len(s.wishes))
	for _, w := range s.wishes {
		if !skip[w.ID] {
			pool = append(pool, w)
		}
	}
	s.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if len(pool) > limit {
		pool = pool[:limit]
	}
	out := make([]protocol.WishItem, len(pool))
	for i, w := range pool {
		out[i] = w.item()
	}
	return out
}

// Seed returns the newest wishes plus a random selection of the rest
func (s *WishStore) Seed(recent, random int) protocol.SeedPayload {
	r := s.Recent(recent)
	exclude := make([]string, len(r))
	for i, item := range r {
		exclude[i] = item.ID
	}
	return protocol.SeedPayload{
		Recent: r,
		Random: s.Random(random, exclude),
	}
}

// Delete removes a wish by id
func (s *WishStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, w := range s.wishes {
		if w.ID == id {
			s.wishes = append(s.wishes[:i], s.wishes[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Len returns the number of stored wishes
func (s *WishStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.wishes)
}

// clampLimit applies the default for a missing limit and caps it to [1, maxLimit]
func clampLimit(limit, def int) int {
	if limit == 0 {
		limit = def
	}
	return max(1, min(limit, maxLimit))
}
