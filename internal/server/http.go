package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/yourusername/wish-sky/internal/protocol"
)

// Server serves the wish store over REST and WebSocket
type Server struct {
	store *WishStore
}

// NewServer creates a server backed by store
func NewServer(store *WishStore) *Server {
	return &Server{store: store}
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/wishes", s.handleCreate)
	mux.HandleFunc("GET /api/wishes/recent", s.handleRecent)
	mux.HandleFunc("GET /api/wishes/random", s.handleRandom)
	mux.HandleFunc("GET /api/wishes/seed", s.handleSeed)
	mux.HandleFunc("DELETE /api/wishes/{id}", s.handleDelete)
	mux.HandleFunc("/ws", s.HandleWebSocket)
	return mux
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload protocol.SubmitPayload
	// A missing or malformed body is treated as empty text
	_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&payload)

	item, err := s.store.Create(payload.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Printf("Stored wish %s", item.ID)
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultRecentLimit)
	writeJSON(w, http.StatusOK, s.store.Recent(limit))
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultRandomLimit)

	var exclude []string
	for _, id := range strings.Split(r.URL.Query().Get("exclude_ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			exclude = append(exclude, id)
		}
	}
	writeJSON(w, http.StatusOK, s.store.Random(limit, exclude))
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	recent := queryInt(r, "recent", defaultRecentLimit)
	random := queryInt(r, "random", defaultRandomLimit)
	writeJSON(w, http.StatusOK, s.store.Seed(recent, random))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.Delete(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	log.Printf("Deleted wish %s", id)
	w.WriteHeader(http.StatusNoContent)
}

// queryInt reads an integer parameter; missing or malformed values use def, out of range
// values clamp to [1, maxLimit]
func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return max(1, min(n, maxLimit))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, protocol.ErrorPayload{Error: message})
}
