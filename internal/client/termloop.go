package client

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"
	"unicode/utf8"

	tl "github.com/JoelOtter/termloop"
	"github.com/yourusername/wish-sky/internal/client/ui"
	"github.com/yourusername/wish-sky/internal/sky"
)

// termloopChromeRows are the rows under the sky: hint line and input line
const termloopChromeRows = 2

// TermloopSky renders the sky with termloop. It drives the same controller as the
// bubbletea model with a simpler input: type, Enter to send, Esc to quit.
type TermloopSky struct {
	game    *tl.Game
	level   *tl.BaseLevel
	ctrl    ui.Controller
	feed    *ui.FrameFeed
	stars   []ui.Star
	aspect  float64
	maxLen  int
	timeout time.Duration

	frame  sky.Frame
	input  []rune
	hint   string
	hints  chan string // results of background requests
	width  int
	height int
	seeded bool
}

// NewTermloopSky creates a termloop renderer for the controller's sky
func NewTermloopSky(ctrl ui.Controller, feed *ui.FrameFeed, aspect float64, maxLen, stars int, timeout time.Duration) *TermloopSky {
	game := tl.NewGame()
	game.Screen().SetFps(30)
	level := tl.NewBaseLevel(tl.Cell{
		Bg: tl.ColorBlack,
		Fg: tl.ColorWhite,
		Ch: ' ',
	})

	game.Screen().SetLevel(level)

	ts := &TermloopSky{
		game:    game,
		level:   level,
		ctrl:    ctrl,
		feed:    feed,
		stars:   ui.NewStarField(stars, rand.New(rand.NewSource(time.Now().UnixNano()))),
		aspect:  aspect,
		maxLen:  maxLen,
		timeout: timeout,
		hint:    "Type a wish and press Enter. Esc quits.",
		hints:   make(chan string, 8),
	}

	level.AddEntity(&WishLayer{sky: ts})
	level.AddEntity(&InputBar{sky: ts})

	return ts
}

// Start runs the termloop game until Esc or Ctrl+C
func (ts *TermloopSky) Start() {
	ts.game.Start()
}

// Stop ends the termloop game
func (ts *TermloopSky) Stop() {
	ts.game.End()
}

// background runs a controller call off the render loop and reports the outcome as a hint
func (ts *TermloopSky) background(fn func(ctx context.Context) (string, error)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), ts.timeout)
		defer cancel()

		msg, err := fn(ctx)
		if err != nil {
			log.Printf("Request failed: %v", err)
			msg = "✗ " + err.Error()
		}
		select {
		case ts.hints <- msg:
		default:
		}
	}()
}

// syncSize pushes a new layout when the terminal changes size; the first layout also
// triggers the initial batch
func (ts *TermloopSky) syncSize(w, h int) {
	if w == ts.width && h == ts.height {
		return
	}
	ts.width, ts.height = w, h
	layout := ui.TerminalLayout(w, h, termloopChromeRows, ts.aspect)
	seed := !ts.seeded
	ts.seeded = true

	ts.background(func(ctx context.Context) (string, error) {
		if err := ts.ctrl.Resize(ctx, layout); err != nil {
			return "", err
		}
		if !seed {
			return "", nil
		}
		n, err := ts.ctrl.FetchInitial(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d wishes are floating tonight", n), nil
	})
}

// WishLayer draws stars and wish cards from the latest frame
type WishLayer struct {
	sky *TermloopSky
}

// Draw draws the sky
func (wl *WishLayer) Draw(screen *tl.Screen) {
	w, h := screen.Size()
	wl.sky.syncSize(w, h)

	select {
	case f := <-wl.sky.feed.C():
		wl.sky.frame = f
	default:
	}

	canvas := ui.Compose(wl.sky.frame, wl.sky.stars, w, max(h-termloopChromeRows, 0), wl.sky.aspect, "")
	for y, row := range canvas {
		for x, g := range row {
			if g.Kind == ui.GlyphEmpty || g.Kind == ui.GlyphWide {
				continue
			}
			screen.RenderCell(x, y, &tl.Cell{
				Fg: glyphColor(g),
				Ch: g.Ch,
			})
		}
	}
}

// Tick does nothing for the sky layer
func (wl *WishLayer) Tick(event tl.Event) {}

// Position returns the layer position
func (wl *WishLayer) Position() (int, int) {
	return 0, 0
}

// Size returns the layer size
func (wl *WishLayer) Size() (int, int) {
	return 0, 0
}

// InputBar draws the hint and input lines and handles typing
type InputBar struct {
	sky *TermloopSky
}

// Draw draws the bottom two rows
func (ib *InputBar) Draw(screen *tl.Screen) {
	ts := ib.sky
	w, h := screen.Size()

	select {
	case hint := <-ts.hints:
		if hint != "" {
			ts.hint = hint
		}
	default:
	}

	renderText(screen, 0, h-2, w, ts.hint, tl.ColorBlue)

	line := fmt.Sprintf("✦ > %s_", string(ts.input))
	counter := fmt.Sprintf("%d/%d", len(ts.input), ts.maxLen)
	renderText(screen, 0, h-1, w, line, tl.ColorYellow)
	renderText(screen, w-utf8.RuneCountInString(counter), h-1, w, counter, tl.ColorWhite)
}

// Tick handles typing, Enter and Esc
func (ib *InputBar) Tick(event tl.Event) {
	if event.Type != tl.EventKey {
		return
	}
	ts := ib.sky

	switch event.Key {
	case tl.KeyEsc:
		log.Println("Exiting sky...")
		ts.Stop()

	case tl.KeyEnter:
		text := string(ts.input)
		ts.background(func(ctx context.Context) (string, error) {
			view, err := ts.ctrl.SubmitNew(ctx, text)
			if err != nil {
				return "", err
			}
			return "Your wish is rising: " + view.Text, nil
		})
		ts.input = ts.input[:0]

	case tl.KeyCtrlR:
		ts.background(func(ctx context.Context) (string, error) {
			n, err := ts.ctrl.Refresh(ctx)
			return fmt.Sprintf("Refreshed, %d wishes", n), err
		})

	case tl.KeyBackspace, tl.KeyBackspace2:
		if len(ts.input) > 0 {
			ts.input = ts.input[:len(ts.input)-1]
		}

	case tl.KeySpace:
		ib.typeRune(' ')

	default:
		if event.Ch != 0 {
			ib.typeRune(event.Ch)
		}
	}
}

func (ib *InputBar) typeRune(r rune) {
	if len(ib.sky.input) < ib.sky.maxLen {
		ib.sky.input = append(ib.sky.input, r)
	}
}

// Position returns the bar position
func (ib *InputBar) Position() (int, int) {
	return 0, 0
}

// Size returns the bar size
func (ib *InputBar) Size() (int, int) {
	return 0, 0
}

func renderText(screen *tl.Screen, x, y, width int, text string, fg tl.Attr) {
	for _, ch := range text {
		if x >= width {
			return
		}
		if x >= 0 {
			screen.RenderCell(x, y, &tl.Cell{Fg: fg, Ch: ch})
		}
		x++
	}
}

// glyphColor maps composed glyphs to terminal colors
func glyphColor(g ui.Glyph) tl.Attr {
	switch {
	case g.Kind == ui.GlyphStar:
		return tl.ColorWhite
	case g.Kind == ui.GlyphText:
		return tl.ColorWhite | tl.AttrBold
	case g.Rising:
		return tl.ColorGreen | tl.AttrBold
	case g.Variant == sky.VariantCool:
		return tl.ColorCyan
	}
	return tl.ColorYellow
}
