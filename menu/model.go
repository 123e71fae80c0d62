package menu

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"go.jacobcolvin.com/badapple/frame"
)

// ErrAborted indicates the user quit the menu without completing a
// selection.
var ErrAborted = errors.New("selection aborted")

// Selection is the completed menu result.
type Selection struct {
	VideoPath string
	AudioPath string
	Mode      frame.RenderMode
	Fill      bool
}

// Assignments renders the selection as shell variable assignments, one per
// line, for scripts to eval from stdout. Values are single-quoted so paths
// with spaces survive the eval.
func (s Selection) Assignments() string {
	var b strings.Builder

	fmt.Fprintf(&b, "VIDEO_PATH=%s\n", shellQuote(s.VideoPath))
	fmt.Fprintf(&b, "AUDIO_PATH=%s\n", shellQuote(s.AudioPath))
	fmt.Fprintf(&b, "RENDER_MODE=%s\n", shellQuote(string(s.Mode)))
	fmt.Fprintf(&b, "FILL_SCREEN=%t\n", s.Fill)

	return b.String()
}

// shellQuote single-quotes s for a POSIX shell, closing and reopening the
// quote around embedded single quotes.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// step is one page of the selection flow.
type step int

const (
	stepVideo step = iota
	stepMode
	stepFill
	stepDone
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	chosenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// model is the bubbletea model for the selection menu.
type model struct {
	cfg       Config
	videos    []string
	step      step
	cursor    int
	selection Selection
	aborted   bool
}

func newModel(cfg Config, videos []string) *model {
	m := &model{
		cfg:    cfg,
		videos: videos,
	}

	if cfg.Mode == string(frame.ModeASCII) {
		m.selection.Mode = frame.ModeASCII
	} else {
		m.selection.Mode = frame.ModeRGB
	}

	m.selection.Fill = cfg.Fill

	return m
}

// Init starts the menu with no pending command.
func (m *model) Init() tea.Cmd {
	return nil
}

// Update handles key presses; every other message is ignored.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		return m.handleKey(key.String())
	}

	return m, nil
}

// handleKey advances the flow for one named key press.
func (m *model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c", "esc":
		m.aborted = true

		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.options())-1 {
			m.cursor++
		}

	case "enter", " ":
		return m.choose()
	}

	return m, nil
}

// choose records the highlighted option and advances to the next step.
func (m *model) choose() (tea.Model, tea.Cmd) {
	switch m.step {
	case stepVideo:
		m.selection.VideoPath = m.videos[m.cursor]
		m.selection.AudioPath = MatchAudio(m.selection.VideoPath, m.audioDir())

	case stepMode:
		if m.cursor == 0 {
			m.selection.Mode = frame.ModeRGB
		} else {
			m.selection.Mode = frame.ModeASCII
		}

	case stepFill:
		m.selection.Fill = m.cursor == 1

	case stepDone:
		return m, tea.Quit
	}

	m.step++
	m.cursor = 0

	if m.step == stepDone {
		return m, tea.Quit
	}

	return m, nil
}

func (m *model) audioDir() string {
	if m.cfg.AudioDir != "" {
		return m.cfg.AudioDir
	}

	return m.cfg.AssetsDir
}

// options returns the labels for the current step.
func (m *model) options() []string {
	switch m.step {
	case stepVideo:
		labels := make([]string, len(m.videos))
		for i, v := range m.videos {
			labels[i] = filepath.Base(v)
		}

		return labels

	case stepMode:
		return []string{"rgb (truecolor half-blocks)", "ascii (luminance ramp)"}

	case stepFill:
		return []string{"fit (letterbox)", "fill (crop)"}

	case stepDone:
	}

	return nil
}

func (m *model) title() string {
	switch m.step {
	case stepVideo:
		return "Select a video"
	case stepMode:
		return "Select a render mode"
	case stepFill:
		return "Select a screen mode"
	case stepDone:
	}

	return ""
}

// View renders the current step's option list.
func (m *model) View() tea.View {
	if m.step == stepDone || m.aborted {
		return tea.NewView("")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("\n\n")

	if m.selection.VideoPath != "" {
		b.WriteString(chosenStyle.Render(filepath.Base(m.selection.VideoPath)))
		b.WriteString("\n\n")
	}

	for i, label := range m.options() {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("› " + label))
		} else {
			b.WriteString("  " + label)
		}

		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move · enter select · q quit"))
	b.WriteString("\n")

	return tea.NewView(b.String())
}
