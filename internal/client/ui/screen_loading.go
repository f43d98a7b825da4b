package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []rune("◐◓◑◒")

// updateLoading handles loading screen updates
func (m Model) updateLoading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "ctrl+r":
		// Manual retry once automatic attempts are exhausted
		if !m.connected && m.reconnectAttempt >= m.maxReconnects {
			m.reconnectAttempt = 0
			return m, connectCmd(m.connect, m.timeout)
		}
	}
	return m, nil
}

// viewLoading renders the loading/connection screen
func (m Model) viewLoading() string {
	title := titleStyle.Render("✦ WISH SKY")
	subtitle := subtitleStyle.Render("Gathering the night's wishes...")

	// Animated loading dots
	dots := strings.Repeat(".", m.loadingDots)
	spinner := spinnerStyle.Render(string(spinnerFrames[m.loadingDots%len(spinnerFrames)]))

	loadingText := lipgloss.NewStyle().
		Foreground(mutedColor).
		Render("Connecting" + dots)

	var errorMsg string
	if m.err != nil {
		errorMsg = errorStyle.Render("\n\n✗ Connection failed: " + m.err.Error())
		if m.reconnectAttempt >= m.maxReconnects {
			errorMsg += mutedStyle.Render("\nCTRL+R to retry  •  ESC to quit")
		}
	}

	mainContent := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		subtitle,
		"\n",
		spinner+" "+loadingText,
		errorMsg,
	)

	instructions := instructionStyle.Render(
		mutedStyle.Render("Connecting to ") + highlightStyle.Render(m.serverURL) + "  •  " +
			mutedStyle.Render("ESC to quit"))

	centeredMain := lipgloss.Place(m.width, max(m.height-3, 1), lipgloss.Center, lipgloss.Center, mainContent)
	bottomInstructions := lipgloss.Place(m.width, 3, lipgloss.Center, lipgloss.Bottom, instructions)

	return centeredMain + "\n" + bottomInstructions
}
