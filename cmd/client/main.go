package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/wish-sky/internal/client"
	"github.com/yourusername/wish-sky/internal/client/connection"
	"github.com/yourusername/wish-sky/internal/client/ui"
	"github.com/yourusername/wish-sky/internal/config"
	"github.com/yourusername/wish-sky/internal/sky"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	serverURL := flag.String("server", "", "Wish store URL (default from config, http://localhost:8080)")
	transport := flag.String("transport", "", "Message source transport: http or ws")
	renderer := flag.String("renderer", "", "Renderer: tea or termloop")
	optimistic := flag.Bool("optimistic", false, "Show wishes before the server confirms them")
	logPath := flag.String("log", "wish-sky.log", "Log file (the terminal belongs to the sky)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.Client.ServerURL = *serverURL
	}
	if *transport != "" {
		cfg.Client.Transport = *transport
	}
	if *renderer != "" {
		cfg.Client.Renderer = *renderer
	}
	if *optimistic {
		cfg.Client.Optimistic = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(1)
	}

	logFile, err := tea.LogToFile(*logPath, "wish-sky")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to open log file:", err)
		os.Exit(1)
	}
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Engine: one loop goroutine owns the world; frames go to the renderer
	var ctrl *sky.Controller
	feed := ui.NewFrameFeed()
	world := sky.NewWorld(cfg.Sky, rand.New(rand.NewSource(time.Now().UnixNano())), func(e *sky.Element) {
		ctrl.Forget(e.ID())
	})
	loop := sky.NewLoop(world, cfg.Sky.FrameInterval, feed.Publish)

	var (
		source  sky.Source
		connect func(context.Context) error
		events  chan connection.Event
		connMgr *connection.Manager
	)
	switch strings.ToLower(cfg.Client.Transport) {
	case "ws":
		connMgr = connection.NewManager(wsURL(cfg.Client.ServerURL))
		events = make(chan connection.Event, 10)
		connMgr.OnEvent(func(event connection.Event) {
			select {
			case events <- event:
			default:
			}
		})
		defer connMgr.Disconnect()
		source, connect = connMgr, connMgr.Connect
	default:
		source = client.NewHTTPSource(cfg.Client.ServerURL, cfg.Client.RequestTimeout)
	}

	ctrl = sky.NewController(loop, source, cfg.Client.Measurer(), cfg.Client.Controller(),
		rand.New(rand.NewSource(time.Now().UnixNano())))

	// The loop starts only once ctrl is set; evictions call back into it
	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Sky loop stopped: %v", err)
		}
	}()

	log.Printf("Starting wish sky (%s over %s, renderer %s)", cfg.Client.ServerURL, cfg.Client.Transport, cfg.Client.Renderer)

	switch strings.ToLower(cfg.Client.Renderer) {
	case "termloop":
		runTermloop(ctx, cfg, ctrl, feed, connect)
	default:
		runBubbleTea(cfg, ctrl, feed, connect, events)
	}
}

// runBubbleTea runs the Bubble Tea sky
func runBubbleTea(cfg config.Config, ctrl *sky.Controller, feed *ui.FrameFeed, connect func(context.Context) error, events chan connection.Event) {
	model := ui.NewModel(ui.Options{
		Controller:    ctrl,
		Frames:        feed,
		Connect:       connect,
		Events:        events,
		ServerURL:     cfg.Client.ServerURL,
		MaxTextLength: cfg.Client.MaxTextLength,
		CellAspect:    cfg.Client.CellAspect,
		InputHeight:   cfg.Client.InputHeight,
		Stars:         cfg.Client.Stars,
		Timeout:       cfg.Client.RequestTimeout,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

// runTermloop runs the sky using termloop
func runTermloop(ctx context.Context, cfg config.Config, ctrl *sky.Controller, feed *ui.FrameFeed, connect func(context.Context) error) {
	if connect != nil {
		dialCtx, cancel := context.WithTimeout(ctx, cfg.Client.RequestTimeout)
		err := connect(dialCtx)
		cancel()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to connect:", err)
			os.Exit(1)
		}
	}

	game := client.NewTermloopSky(ctrl, feed, cfg.Client.CellAspect, cfg.Client.MaxTextLength,
		cfg.Client.Stars, cfg.Client.RequestTimeout)
	game.Start()
}

// wsURL turns the server's base URL into its WebSocket endpoint
func wsURL(base string) string {
	base = strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	if !strings.HasSuffix(base, "/ws") {
		base += "/ws"
	}
	return base
}
