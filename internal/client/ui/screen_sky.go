package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// updateSky handles keys on the sky screen
func (m Model) updateSky(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Pending delete confirmation swallows every key
	if m.confirmDelete {
		switch msg.String() {
		case "y", "Y":
			id := m.selectedID
			m.confirmDelete = false
			m.selectedID = ""
			return m, deleteCmd(m.ctrl, id, m.timeout)
		case "ctrl+c":
			return m, tea.Quit
		default:
			m.confirmDelete = false
			m.hints.Add("Delete cancelled", HintInfo)
			return m, nil
		}
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		if m.submitting {
			return m, nil
		}
		m.submitting = true
		return m, submitCmd(m.ctrl, m.input.Value(), m.timeout)

	case "tab":
		m.cycleSelection(1)
		return m, nil

	case "shift+tab":
		m.cycleSelection(-1)
		return m, nil

	case "ctrl+d":
		if m.selectedID == "" {
			m.hints.Add("Select a wish with Tab first", HintInfo)
			return m, nil
		}
		m.confirmDelete = true
		return m, nil

	case "ctrl+r":
		m.selectedID = ""
		return m, refreshCmd(m.ctrl, m.timeout)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// cycleSelection moves the selection through the live wishes in arrival order
func (m *Model) cycleSelection(step int) {
	n := len(m.frame.Wishes)
	if n == 0 {
		m.selectedID = ""
		return
	}

	idx := -1
	for i, w := range m.frame.Wishes {
		if w.ID == m.selectedID {
			idx = i
			break
		}
	}

	switch {
	case idx < 0 && step > 0:
		idx = 0
	case idx < 0:
		idx = n - 1
	default:
		idx = ((idx+step)%n + n) % n
	}
	m.selectedID = m.frame.Wishes[idx].ID
}

// viewSky renders the sky above the docked input bar
func (m Model) viewSky() string {
	canvas := Compose(m.frame, m.stars, m.width, m.skyRows(), m.aspect, m.selectedID)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderCanvas(canvas),
		m.renderHintLine(),
		m.renderInputLine(),
		m.renderStatusBar(),
	)
}

// renderCanvas paints glyphs, styling runs of equal style together
func renderCanvas(canvas Canvas) string {
	var builder strings.Builder
	var run strings.Builder

	for y, row := range canvas {
		key := -1
		flush := func() {
			if run.Len() > 0 {
				builder.WriteString(glyphStyles[key].Render(run.String()))
				run.Reset()
			}
		}

		for _, g := range row {
			if g.Kind == GlyphWide {
				continue
			}
			k := glyphStyleKey(g)
			if k != key {
				flush()
				key = k
			}
			if g.Kind == GlyphEmpty {
				run.WriteRune(' ')
			} else {
				run.WriteRune(g.Ch)
			}
		}
		flush()

		if y < len(canvas)-1 {
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

// renderHintLine shows the latest status or the delete prompt
func (m Model) renderHintLine() string {
	if m.confirmDelete {
		text := m.selectedID
		for _, w := range m.frame.Wishes {
			if w.ID == m.selectedID {
				text = w.Text
				break
			}
		}
		return lipgloss.NewStyle().Width(m.width).Render(
			confirmStyle.Render("Delete \""+text+"\"?") + mutedStyle.Render("  y: delete  •  any other key: cancel"))
	}

	hint := m.hints.Latest()
	style := mutedStyle
	switch hint.Level {
	case HintSuccess:
		style = highlightStyle
	case HintError:
		style = errorStyle
	}
	return lipgloss.NewStyle().Width(m.width).MaxHeight(1).Render(style.Render(hint.Text))
}

// renderInputLine renders the prompt, the text input and the character counter
func (m Model) renderInputLine() string {
	n := utf8.RuneCountInString(m.input.Value())
	counter := counterStyle
	if n >= m.maxTextLength {
		counter = counterFullStyle
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		promptStyle.Render("✦ > "),
		m.input.View(),
		" ",
		counter.Render(fmt.Sprintf("%d/%d", n, m.maxTextLength)),
	)
}

// renderStatusBar renders the bottom status bar
func (m Model) renderStatusBar() string {
	count := highlightStyle.Render(fmt.Sprintf("%d wishes", len(m.frame.Wishes)))
	if m.frame.Degraded > 0 {
		count += mutedStyle.Render(fmt.Sprintf(" (%d crowded)", m.frame.Degraded))
	}
	controls := mutedStyle.Render("ENTER: Send  •  TAB: Select  •  CTRL+D: Delete  •  CTRL+R: Refresh  •  ESC: Quit")

	return lipgloss.NewStyle().
		Foreground(fgColor).
		Width(m.width).
		MaxHeight(1).
		Render(count + "  •  " + controls)
}
