package ui

import (
	"math/rand"
	"testing"

	"github.com/yourusername/wish-sky/internal/sky"
)

func rowString(row []Glyph) string {
	out := make([]rune, 0, len(row))
	for _, g := range row {
		switch g.Kind {
		case GlyphEmpty:
			out = append(out, ' ')
		case GlyphWide:
		default:
			out = append(out, g.Ch)
		}
	}
	return string(out)
}

func TestComposeDrawsCard(t *testing.T) {
	frame := sky.Frame{Wishes: []sky.WishView{{
		ID:   "1",
		Text: "hi",
		Pos:  sky.Vec{X: 2, Y: 4},
		Size: sky.Size{W: 6, H: 6},
	}}}

	canvas := Compose(frame, nil, 12, 6, 2, "")

	want := []string{
		"            ",
		"            ",
		"  ╭────╮    ",
		"  │ hi │    ",
		"  ╰────╯    ",
		"            ",
	}
	for y, line := range want {
		if got := rowString(canvas[y]); got != line {
			t.Errorf("Row %d: expected %q, got %q", y, line, got)
		}
	}
}

func TestComposeClipsAndSelects(t *testing.T) {
	frame := sky.Frame{Wishes: []sky.WishView{{
		ID:      "edge",
		Text:    "far away",
		Pos:     sky.Vec{X: 8, Y: -2},
		Size:    sky.Size{W: 12, H: 6},
		Variant: sky.VariantCool,
	}}}

	canvas := Compose(frame, nil, 10, 4, 2, "edge")

	if len(canvas) != 4 || len(canvas[0]) != 10 {
		t.Fatalf("Expected 4x10 canvas, got %dx%d", len(canvas), len(canvas[0]))
	}
	g := canvas[0][8]
	if g.Kind != GlyphBorder || !g.Selected || g.Variant != sky.VariantCool {
		t.Errorf("Expected selected cool border at (8,0), got %+v", g)
	}
	if glyphStyleKey(g) != styleSelected {
		t.Errorf("Expected selected style, got %d", glyphStyleKey(g))
	}
}

func TestComposeWideRunes(t *testing.T) {
	frame := sky.Frame{Wishes: []sky.WishView{{
		ID:   "1",
		Text: "星",
		Size: sky.Size{W: 6, H: 6},
	}}}

	canvas := Compose(frame, nil, 6, 3, 2, "")
	if got := rowString(canvas[1]); got != "│ 星 │" {
		t.Errorf("Expected wide rune centred, got %q", got)
	}
	if canvas[1][3].Kind != GlyphWide {
		t.Errorf("Expected continuation cell, got %+v", canvas[1][3])
	}
}

func TestStarsTwinkle(t *testing.T) {
	stars := NewStarField(50, rand.New(rand.NewSource(3)))
	seen := make(map[rune]bool)
	for seq := uint64(0); seq < 200; seq++ {
		for _, s := range stars {
			seen[s.Glyph(seq)] = true
		}
	}
	if len(seen) < 3 {
		t.Errorf("Expected stars to cycle through several glyphs, got %d", len(seen))
	}

	canvas := Compose(sky.Frame{}, stars, 40, 20, 2, "")
	for _, row := range canvas {
		for _, g := range row {
			if g.Kind != GlyphEmpty && g.Kind != GlyphStar {
				t.Fatalf("Expected only stars on an empty sky, got %+v", g)
			}
		}
	}
}

func TestFrameFeedKeepsNewest(t *testing.T) {
	feed := NewFrameFeed()
	for i := uint64(1); i <= 5; i++ {
		feed.Publish(sky.Frame{Seq: i})
	}

	f := <-feed.C()
	if f.Seq != 5 {
		t.Errorf("Expected newest frame 5, got %d", f.Seq)
	}
	select {
	case extra := <-feed.C():
		t.Errorf("Expected feed drained, got frame %d", extra.Seq)
	default:
	}
}
