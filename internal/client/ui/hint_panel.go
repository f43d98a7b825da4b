package ui

import (
	"errors"

	"github.com/yourusername/wish-sky/internal/sky"
)

// HintLevel colors a hint line
type HintLevel int

const (
	HintInfo HintLevel = iota
	HintSuccess
	HintError
)

// Hint is one status line shown above the input
type Hint struct {
	Text  string
	Level HintLevel
}

// HintPanel keeps recent status lines; the newest is shown
type HintPanel struct {
	hints []Hint
}

// NewHintPanel creates a panel with a welcome line
func NewHintPanel() *HintPanel {
	return &HintPanel{
		hints: []Hint{{Text: "Type a wish and press Enter to send it into the sky", Level: HintInfo}},
	}
}

// Add appends a hint
func (h *HintPanel) Add(text string, level HintLevel) {
	h.hints = append(h.hints, Hint{Text: text, Level: level})

	// Keep only last 20 hints
	if len(h.hints) > 20 {
		h.hints = h.hints[len(h.hints)-20:]
	}
}

// AddError turns err into a hint a person can act on
func (h *HintPanel) AddError(err error) {
	h.Add(describeError(err), HintError)
}

// Latest returns the newest hint
func (h *HintPanel) Latest() Hint {
	if len(h.hints) == 0 {
		return Hint{}
	}
	return h.hints[len(h.hints)-1]
}

func describeError(err error) string {
	var ve *sky.ValidationError
	if errors.As(err, &ve) {
		if errors.Is(err, sky.ErrEmptyText) {
			return "Write something first"
		}
		return "Too long: " + ve.Error()
	}

	var te *sky.TransportError
	if errors.As(err, &te) {
		return "Could not reach the sky: " + te.Error()
	}
	return err.Error()
}
