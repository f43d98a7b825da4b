package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/wish-sky/internal/client/connection"
	"github.com/yourusername/wish-sky/internal/sky"
)

// connectionSuccessMsg is sent when the message source is reachable
type connectionSuccessMsg struct{}

// connectionErrorMsg is sent when connection fails
type connectionErrorMsg struct {
	err error
}

// retryMsg fires when the reconnect delay has passed
type retryMsg struct{}

// connectionEventMsg wraps events from the connection manager
type connectionEventMsg struct {
	event connection.Event
}

// frameMsg carries the latest simulation frame
type frameMsg sky.Frame

// resizedMsg is sent once the engine has the new layout
type resizedMsg struct {
	err error
}

// seedLoadedMsg reports the initial batch (or a refresh)
type seedLoadedMsg struct {
	added   int
	refresh bool
	err     error
}

// submitDoneMsg reports a submission
type submitDoneMsg struct {
	view sky.WishView
	err  error
}

// deleteDoneMsg reports a deletion
type deleteDoneMsg struct {
	id  string
	err error
}

// tickMsg is sent periodically for animations
type tickMsg time.Time

// connectCmd attempts to connect to the message source
func connectCmd(connect func(context.Context) error, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if connect == nil {
			return connectionSuccessMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := connect(ctx); err != nil {
			return connectionErrorMsg{err: err}
		}
		return connectionSuccessMsg{}
	}
}

// retryConnectCmd waits with exponential backoff before the next attempt
func retryConnectCmd(attempt int) tea.Cmd {
	delay := time.Duration(1<<min(attempt, 5)) * 500 * time.Millisecond
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return retryMsg{}
	})
}

// listenForEventsCmd waits for the next connection event
func listenForEventsCmd(events <-chan connection.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return connectionEventMsg{event: event}
	}
}

// listenForFramesCmd waits for the next frame from the feed
func listenForFramesCmd(feed *FrameFeed) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-feed.C()
		if !ok {
			return nil
		}
		return frameMsg(f)
	}
}

func resizeCmd(ctrl Controller, layout sky.Layout, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return resizedMsg{err: ctrl.Resize(ctx, layout)}
	}
}

func fetchInitialCmd(ctrl Controller, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		added, err := ctrl.FetchInitial(ctx)
		return seedLoadedMsg{added: added, err: err}
	}
}

func refreshCmd(ctrl Controller, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		added, err := ctrl.Refresh(ctx)
		return seedLoadedMsg{added: added, refresh: true, err: err}
	}
}

func submitCmd(ctrl Controller, text string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		view, err := ctrl.SubmitNew(ctx, text)
		return submitDoneMsg{view: view, err: err}
	}
}

func deleteCmd(ctrl Controller, id string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return deleteDoneMsg{id: id, err: ctrl.DeleteByID(ctx, id)}
	}
}

// tickCmd returns a command that sends tick messages for animations
func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
