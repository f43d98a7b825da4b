package ui

import (
	"context"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/wish-sky/internal/client/connection"
	"github.com/yourusername/wish-sky/internal/sky"
)

// ViewState represents the current view in the TUI
type ViewState int

const (
	ViewLoading ViewState = iota
	ViewSky
)

// Controller is the part of the lifecycle controller the UI drives
type Controller interface {
	Resize(ctx context.Context, layout sky.Layout) error
	FetchInitial(ctx context.Context) (int, error)
	Refresh(ctx context.Context) (int, error)
	SubmitNew(ctx context.Context, text string) (sky.WishView, error)
	DeleteByID(ctx context.Context, id string) error
}

var _ Controller = (*sky.Controller)(nil)

// Options wires the model to the engine and the message source
type Options struct {
	Controller Controller
	Frames     *FrameFeed
	// Connect opens the message source; nil for sources that need no connection
	Connect func(context.Context) error
	Events  <-chan connection.Event

	ServerURL     string
	MaxTextLength int
	CellAspect    float64
	InputHeight   int
	Stars         int
	Timeout       time.Duration
	Rand          *rand.Rand
}

// Model is the main Bubble Tea model
type Model struct {
	viewState ViewState
	ctrl      Controller
	feed      *FrameFeed
	connect   func(context.Context) error
	events    <-chan connection.Event

	input  textinput.Model
	hints  *HintPanel
	stars  []Star
	frame  sky.Frame
	width  int
	height int
	err    error

	serverURL     string
	maxTextLength int
	aspect        float64
	inputHeight   int
	timeout       time.Duration

	// Startup: the seed batch is fetched once both the source and the layout are ready
	sized     bool
	connected bool
	seeded    bool

	// Loading screen
	loadingDots      int
	reconnectAttempt int // Current reconnection attempt (0-5)
	maxReconnects    int // Maximum reconnection attempts

	// A submit is in flight; Enter is ignored until it reports back
	submitting bool

	// Selection for deletion
	selectedID    string
	confirmDelete bool
}

// NewModel creates a new Bubble Tea model
func NewModel(opts Options) Model {
	if opts.MaxTextLength < 1 {
		opts.MaxTextLength = sky.DefaultControllerConfig().MaxTextLength
	}
	if opts.CellAspect <= 0 {
		opts.CellAspect = sky.DefaultMeasurer().CellAspect
	}
	if opts.InputHeight < 3 {
		opts.InputHeight = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Frames == nil {
		opts.Frames = NewFrameFeed()
	}

	input := textinput.New()
	input.Placeholder = "Make a wish..."
	input.CharLimit = opts.MaxTextLength
	input.Prompt = ""
	input.Focus()

	return Model{
		viewState:     ViewLoading,
		ctrl:          opts.Controller,
		feed:          opts.Frames,
		connect:       opts.Connect,
		events:        opts.Events,
		input:         input,
		hints:         NewHintPanel(),
		stars:         NewStarField(opts.Stars, opts.Rand),
		width:         80,
		height:        24,
		serverURL:     opts.ServerURL,
		maxTextLength: opts.MaxTextLength,
		aspect:        opts.CellAspect,
		inputHeight:   opts.InputHeight,
		timeout:       opts.Timeout,
		maxReconnects: 5,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		connectCmd(m.connect, m.timeout), // Connect to the message source
		tickCmd(),                        // Tick for animations
		listenForFramesCmd(m.feed),       // Frames from the sky loop
		listenForEventsCmd(m.events),     // Connection events (ws only)
		textinput.Blink,
	)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-16, 10)
		return m, resizeCmd(m.ctrl, m.layout(), m.timeout)

	case resizedMsg:
		if msg.err != nil {
			m.hints.AddError(msg.err)
			return m, nil
		}
		m.sized = true
		return m, m.maybeSeed()

	case tea.KeyMsg:
		switch m.viewState {
		case ViewLoading:
			return m.updateLoading(msg)
		case ViewSky:
			return m.updateSky(msg)
		}

	case connectionSuccessMsg:
		m.reconnectAttempt = 0 // Reset retry counter
		m.err = nil
		m.connected = true
		return m, m.maybeSeed()

	case connectionErrorMsg:
		m.err = msg.err
		m.reconnectAttempt++

		// Retry with backoff until we run out of attempts
		if m.reconnectAttempt < m.maxReconnects {
			return m, retryConnectCmd(m.reconnectAttempt)
		}
		return m, nil

	case retryMsg:
		if !m.connected && m.reconnectAttempt < m.maxReconnects {
			return m, connectCmd(m.connect, m.timeout)
		}
		return m, nil

	case connectionEventMsg:
		return m.handleConnectionEvent(msg.event)

	case seedLoadedMsg:
		m.viewState = ViewSky
		m.seeded = true
		if msg.err != nil {
			m.hints.AddError(msg.err)
		} else if msg.refresh {
			m.hints.Add("The sky was refreshed", HintInfo)
		}
		return m, nil

	case submitDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.hints.AddError(msg.err)
			return m, nil
		}
		m.input.Reset()
		m.hints.Add("Your wish is rising ✦", HintSuccess)
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			m.hints.AddError(msg.err)
			return m, nil
		}
		m.hints.Add("Wish removed", HintInfo)
		return m, nil

	case frameMsg:
		m.frame = sky.Frame(msg)
		if m.selectedID != "" && !m.frameHas(m.selectedID) {
			m.selectedID = ""
			m.confirmDelete = false
		}
		return m, listenForFramesCmd(m.feed)

	case tickMsg:
		// Update loading animation
		if m.viewState == ViewLoading {
			m.loadingDots = (m.loadingDots + 1) % 4
			return m, tickCmd()
		}
		return m, nil
	}

	// Cursor blink and other input internals
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the current view
func (m Model) View() string {
	switch m.viewState {
	case ViewLoading:
		return m.viewLoading()
	case ViewSky:
		return m.viewSky()
	}
	return ""
}

// Add new event handlers below when you add new event types in connection/events.go
func (m Model) handleConnectionEvent(event connection.Event) (tea.Model, tea.Cmd) {
	switch e := event.(type) {
	case connection.ConnectedEvent:
		// Already handled through connectionSuccessMsg
		return m, listenForEventsCmd(m.events)

	case connection.DisconnectedEvent:
		if !m.connected {
			return m, listenForEventsCmd(m.events)
		}
		// Lost connection - keep the sky, reconnect in the background
		m.connected = false
		m.reconnectAttempt = 0
		if e.Error != nil {
			m.hints.Add("Connection lost: "+e.Error.Error(), HintError)
		} else {
			m.hints.Add("Connection lost, reconnecting", HintError)
		}
		return m, tea.Batch(
			retryConnectCmd(0),
			listenForEventsCmd(m.events),
		)

	case connection.ErrorEvent:
		// Request errors surface through the command that made the request
		return m, listenForEventsCmd(m.events)

	default:
		return m, listenForEventsCmd(m.events)
	}
}

// maybeSeed fetches the initial batch once the source is connected and the sky has a size
func (m Model) maybeSeed() tea.Cmd {
	if m.seeded || !m.sized || !m.connected {
		return nil
	}
	return fetchInitialCmd(m.ctrl, m.timeout)
}

// skyRows is the number of terminal rows the sky occupies
func (m Model) skyRows() int {
	return max(m.height-m.inputHeight, 0)
}

func (m Model) layout() sky.Layout {
	return TerminalLayout(m.width, m.height, m.inputHeight, m.aspect)
}

// TerminalLayout converts a terminal of cols x rows cells into world units. The bottom
// chromeRows rows hold the input bar and are reserved.
func TerminalLayout(cols, rows, chromeRows int, aspect float64) sky.Layout {
	w := float64(cols)
	h := float64(rows) * aspect
	skyRows := max(rows-chromeRows, 0)
	return sky.Layout{
		Viewport: sky.Size{W: w, H: h},
		Chrome: sky.Rect{
			MinX: 0,
			MaxX: w,
			MinY: float64(skyRows) * aspect,
			MaxY: h,
		},
		Padding: 1,
	}
}

func (m Model) frameHas(id string) bool {
	for _, w := range m.frame.Wishes {
		if w.ID == id {
			return true
		}
	}
	return false
}
