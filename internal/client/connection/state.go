package connection

import (
	"sync"

	"github.com/yourusername/wish-sky/internal/protocol"
)

// reply is what a waiting request receives: the server's envelope or a connection error
type reply struct {
	msg *protocol.Message
	err error
}

// State tracks requests waiting for their reply, keyed by request id
type State struct {
	pending map[string]chan reply
	mu      sync.Mutex
}

// NewState creates an empty request table
func NewState() *State {
	return &State{
		pending: make(map[string]chan reply),
	}
}

// Track registers a request id and returns the channel its reply arrives on
func (s *State) Track(id string) <-chan reply {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan reply, 1)
	s.pending[id] = ch
	return ch
}

// Forget drops a request that is no longer waited on
func (s *State) Forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, id)
}

// Resolve delivers msg to the request with the same id. It reports false for replies
// nobody is waiting for.
func (s *State) Resolve(msg *protocol.Message) bool {
	s.mu.Lock()
	ch, ok := s.pending[msg.ID]
	delete(s.pending, msg.ID)
	s.mu.Unlock()

	if ok {
		ch <- reply{msg: msg}
	}
	return ok
}

// FailAll answers every waiting request with err
func (s *State) FailAll(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ch := range s.pending {
		ch <- reply{err: err}
		delete(s.pending, id)
	}
}

// Len returns the number of requests in flight
func (s *State) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
