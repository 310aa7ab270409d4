package monitor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayusman/slidehand/internal/app"
	"github.com/ayusman/slidehand/internal/control"
)

// StatusMsg carries a status update from the feed.
type StatusMsg app.Status

// DisconnectedMsg reports that the feed was lost.
type DisconnectedMsg struct{ Err error }

type resultMsg struct {
	what string
	err  error
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	navStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("39")).Padding(0, 1)
	pointerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("205")).Padding(0, 1)
	offStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle   = lipgloss.NewStyle().Width(12).Foreground(lipgloss.Color("245"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the bubbletea model of the dashboard.
type Model struct {
	remote    Remote
	url       string
	copy      func(string) error
	status    app.Status
	connected bool
	err       error
	message   string
	slide     string
	width     int
}

// New creates a dashboard driving remote. url is the web remote address
// offered for copying.
func New(remote Remote, url string) Model {
	return Model{remote: remote, url: url, copy: clipboard.WriteAll}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case StatusMsg:
		m.status = app.Status(msg)
		m.connected = true
		m.err = nil

	case DisconnectedMsg:
		m.connected = false
		m.err = msg.Err

	case resultMsg:
		if msg.err != nil {
			m.err = msg.err
			m.message = ""
		} else {
			m.err = nil
			m.message = msg.what
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		if len(m.slide) < 4 {
			m.slide += key
		}
		return m, nil
	}

	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "right", "n", " ":
		return m, m.trigger(control.Command{Action: control.NextSlide})
	case "left", "p":
		return m, m.trigger(control.Command{Action: control.PreviousSlide})
	case "s":
		return m, m.trigger(control.Command{Action: control.StartSlideshow})
	case "x":
		return m, m.trigger(control.Command{Action: control.EndSlideshow})
	case "b":
		return m, m.trigger(control.Command{Action: control.BlackScreen})
	case "w":
		return m, m.trigger(control.Command{Action: control.WhiteScreen})
	case "enter":
		n, err := strconv.Atoi(m.slide)
		m.slide = ""
		if err != nil {
			return m, nil
		}
		return m, m.trigger(control.Command{Action: control.GoToSlide, Slide: n})
	case "backspace", "esc":
		m.slide = ""
	case "e":
		return m, m.toggle(!m.status.Enabled)
	case "c":
		if err := m.copy(m.url); err != nil {
			m.err = fmt.Errorf("copy remote URL: %w", err)
		} else {
			m.err = nil
			m.message = "copied " + m.url
		}
	}
	return m, nil
}

func (m Model) trigger(cmd control.Command) tea.Cmd {
	remote := m.remote
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return resultMsg{what: "sent " + cmd.String(), err: remote.Trigger(ctx, cmd)}
	}
}

func (m Model) toggle(enabled bool) tea.Cmd {
	remote := m.remote
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		what := "gesture control disabled"
		if enabled {
			what = "gesture control enabled"
		}
		return resultMsg{what: what, err: remote.SetEnabled(ctx, enabled)}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("slidehand"))
	b.WriteString(" ")
	if !m.connected {
		b.WriteString(offStyle.Render("disconnected"))
	} else if m.status.Mode == control.ModePointer {
		b.WriteString(pointerStyle.Render("POINTER"))
	} else {
		b.WriteString(navStyle.Render("NAVIGATION"))
	}
	b.WriteString("\n\n")

	st := m.status
	enabled := okStyle.Render("on")
	if !st.Enabled {
		enabled = offStyle.Render("off")
	}
	row(&b, "gestures", enabled)
	row(&b, "detector", fmt.Sprintf("%s @ %d fps", orNone(st.Detector), st.FPS))
	row(&b, "gesture", fmt.Sprintf("%s -> %s %s", orNone(string(st.Raw)), orNone(string(st.Confirmed)), confidenceBar(st.Confidence, 10)))
	last := orNone(string(st.LastAction))
	if !st.LastActionAt.IsZero() {
		last += " at " + st.LastActionAt.Local().Format("15:04:05")
	}
	row(&b, "last", last)
	if p := st.Pointer; st.Mode == control.ModePointer && p != nil {
		drawing := ""
		if p.Drawing {
			drawing = ", drawing"
		}
		row(&b, "pointer", fmt.Sprintf("(%d, %d) %s %s%s, %d strokes", p.X, p.Y, p.Color.Name, p.Size, drawing, len(p.Strokes)))
	}
	if m.slide != "" {
		row(&b, "go to", m.slide+"_")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errStyle.Render(m.err.Error()))
	case m.message != "":
		b.WriteString(okStyle.Render(m.message))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ prev/next  s start  x end  b/w black/white  0-9+enter go to  e toggle  c copy URL  q quit"))
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label))
	b.WriteString(value)
	b.WriteString("\n")
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

// confidenceBar draws confidence in [0,1] as a bar of width cells.
func confidenceBar(confidence float64, width int) string {
	filled := int(confidence*float64(width) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
