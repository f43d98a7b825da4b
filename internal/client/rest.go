package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/wish-sky/internal/protocol"
	"github.com/yourusername/wish-sky/internal/sky"
)

// HTTPSource talks to the wish store's REST API
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

var _ sky.Source = (*HTTPSource)(nil)

// NewHTTPSource creates a source for the server at baseURL (e.g. http://localhost:8080)
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Seed fetches the newest wishes plus a random sample of the rest
func (s *HTTPSource) Seed(ctx context.Context, recent, random int) (protocol.SeedPayload, error) {
	q := url.Values{}
	q.Set("recent", strconv.Itoa(recent))
	q.Set("random", strconv.Itoa(random))

	var seed protocol.SeedPayload
	err := s.do(ctx, "seed", http.MethodGet, "/api/wishes/seed?"+q.Encode(), nil, http.StatusOK, &seed)
	return seed, err
}

// Submit stores a new wish
func (s *HTTPSource) Submit(ctx context.Context, text string) (protocol.WishItem, error) {
	var item protocol.WishItem
	err := s.do(ctx, "submit", http.MethodPost, "/api/wishes", protocol.SubmitPayload{Text: text}, http.StatusCreated, &item)
	return item, err
}

// Delete removes a stored wish
func (s *HTTPSource) Delete(ctx context.Context, id string) error {
	return s.do(ctx, "delete", http.MethodDelete, "/api/wishes/"+url.PathEscape(id), nil, http.StatusNoContent, nil)
}

func (s *HTTPSource) do(ctx context.Context, op, method, path string, body interface{}, want int, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &sky.TransportError{Op: op, Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return &sky.TransportError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &sky.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var payload protocol.ErrorPayload
		json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)
		return &sky.TransportError{Op: op, Status: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &sky.TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
