// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/lofi-cli/internal/config"
	"github.com/xvierd/lofi-cli/internal/domain"
	"github.com/xvierd/lofi-cli/internal/services"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// tickMsg is sent once per second while the timer runs. gen ties the tick
// to the start that scheduled it so a pause/start pair never doubles the rate.
type tickMsg struct {
	gen int
	at  time.Time
}

// trackEndedMsg is delivered when the audio sink reports a finished track.
type trackEndedMsg struct{}

// minutesStep is how much +/- and ]/[ change a duration.
const minutesStep = 1

// Model represents the TUI state. It is the single owner of the Widget
// while the program runs.
type Model struct {
	ctx      context.Context
	widget   *services.Widget
	snap     domain.Snapshot
	theme    config.ThemeConfig
	progress progress.Model
	input    textinput.Model
	adding   bool
	cursor   int
	status   string
	width    int
	height   int
	tickGen  int
	ended    <-chan struct{}
	err      error
}

// NewModel creates a new TUI model driving w.
func NewModel(ctx context.Context, w *services.Widget, theme *config.ThemeConfig) Model {
	input := textinput.New()
	input.Placeholder = "New item"
	input.CharLimit = 200
	input.Width = 40

	m := Model{
		ctx:      ctx,
		widget:   w,
		theme:    resolveTheme(theme),
		progress: progress.New(progress.WithDefaultGradient()),
		input:    input,
		ended:    w.AudioEnded(),
	}
	m.refresh()
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return waitForTrackEnd(m.ended)
}

// Snapshot returns the last rendered snapshot.
func (m Model) Snapshot() domain.Snapshot {
	return m.snap
}

// Err returns the storage error that stopped the program, if any.
func (m Model) Err() error {
	return m.err
}

func waitForTrackEnd(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return trackEndedMsg{}
	}
}

// tickCmd creates a command that sends a tick message.
func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

func (m *Model) refresh() {
	snap, err := m.widget.Snapshot(m.ctx)
	if err != nil {
		m.err = err
		return
	}
	m.snap = snap
	if n := len(snap.Checklist.Items); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// do runs a widget command and refreshes the snapshot. User errors become
// the status line; anything else quits the program.
func (m Model) do(fn func(ctx context.Context) error) (Model, tea.Cmd) {
	wasRunning := m.widget.Running()
	err := fn(m.ctx)
	switch {
	case err == nil:
		m.status = ""
	case errors.Is(err, domain.ErrEmptyInput):
		m.status = "Please enter an item"
	case errors.Is(err, domain.ErrInvalidDuration):
		m.status = "Duration must be between 1 and 1440 minutes"
	default:
		m.err = err
		return m, tea.Quit
	}
	m.refresh()

	if !wasRunning && m.widget.Running() {
		m.tickGen++
		return m, tickCmd(m.tickGen)
	}
	if wasRunning && !m.widget.Running() {
		m.tickGen++
	}
	return m, nil
}

func (m Model) selectedID() (string, bool) {
	items := m.snap.Checklist.Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return "", false
	}
	return items[m.cursor].ID, true
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.adding {
		return m.updateInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		if msg.gen != m.tickGen || !m.widget.Running() {
			return m, nil
		}
		next, _ := m.do(m.widget.Tick)
		if next.err != nil {
			return next, tea.Quit
		}
		return next, tickCmd(next.tickGen)

	case trackEndedMsg:
		next, cmd := m.do(m.widget.TrackEnded)
		return next, tea.Batch(cmd, waitForTrackEnd(next.ended))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(msg.Width-8, 10)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "s":
		return m.do(m.widget.Start)
	case "p":
		return m.do(m.widget.Pause)
	case "r":
		return m.do(m.widget.Reset)
	case "+", "=":
		minutes := m.snap.Session.WorkDurationSeconds/60 + minutesStep
		return m.do(func(ctx context.Context) error { return m.widget.SetWorkMinutes(ctx, minutes) })
	case "-":
		minutes := m.snap.Session.WorkDurationSeconds/60 - minutesStep
		return m.do(func(ctx context.Context) error { return m.widget.SetWorkMinutes(ctx, minutes) })
	case "]":
		minutes := m.snap.Session.BreakDurationSeconds/60 + minutesStep
		return m.do(func(ctx context.Context) error { return m.widget.SetBreakMinutes(ctx, minutes) })
	case "[":
		minutes := m.snap.Session.BreakDurationSeconds/60 - minutesStep
		return m.do(func(ctx context.Context) error { return m.widget.SetBreakMinutes(ctx, minutes) })
	case "a":
		m.adding = true
		m.status = ""
		m.input.SetValue("")
		return m, m.input.Focus()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.snap.Checklist.Items)-1 {
			m.cursor++
		}
	case " ", "x":
		if id, ok := m.selectedID(); ok {
			return m.do(func(ctx context.Context) error { return m.widget.ToggleItem(ctx, id) })
		}
	case "d":
		if id, ok := m.selectedID(); ok {
			return m.do(func(ctx context.Context) error { return m.widget.DeleteItem(ctx, id) })
		}
	}
	return m, nil
}

// updateInput handles messages while the add-item prompt is open.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.adding = false
			m.input.Blur()
			return m, nil
		case "enter":
			text := m.input.Value()
			next, cmd := m.do(func(ctx context.Context) error {
				_, err := m.widget.AddItem(ctx, text)
				return err
			})
			if next.status == "" {
				next.adding = false
				next.input.Blur()
				next.cursor = max(len(next.snap.Checklist.Items)-1, 0)
			}
			return next, cmd
		}
	}

	// Ticks keep arriving while typing.
	if _, ok := msg.(tickMsg); ok {
		m.adding = false
		next, cmd := m.Update(msg)
		nm := next.(Model)
		nm.adding = true
		return nm, cmd
	}
	if _, ok := msg.(trackEndedMsg); ok {
		m.adding = false
		next, cmd := m.Update(msg)
		nm := next.(Model)
		nm.adding = true
		return nm, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) modeColor() lipgloss.Color {
	session := m.snap.Session
	if !session.Running {
		return lipgloss.Color(m.theme.ColorPaused)
	}
	if session.Mode == domain.ModeBreak {
		return lipgloss.Color(m.theme.ColorBreak)
	}
	return lipgloss.Color(m.theme.ColorWork)
}

func (m Model) sessionBar() progress.Model {
	var bar progress.Model
	switch {
	case !m.snap.Session.Running:
		bar = progress.New(progress.WithGradient(m.theme.PausedGradientStart, m.theme.PausedGradientEnd))
	case m.snap.Session.Mode == domain.ModeBreak:
		bar = progress.New(progress.WithGradient(m.theme.BreakGradientStart, m.theme.BreakGradientEnd))
	default:
		bar = progress.New(progress.WithGradient(m.theme.WorkGradientStart, m.theme.WorkGradientEnd))
	}
	bar.Width = m.progress.Width
	return bar
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	session := m.snap.Session
	stats := m.snap.Stats

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)
	modeStyle := lipgloss.NewStyle().Bold(true).Foreground(m.modeColor())
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("%s lofi", m.theme.IconApp)))

	label := session.Label
	if !session.Running {
		label = fmt.Sprintf("%s %s", m.theme.IconPaused, label)
	}
	sections = append(sections, modeStyle.Render(label))
	sections = append(sections, "")
	sections = append(sections, renderBigTime(session.Remaining, m.modeColor(), m.width))
	sections = append(sections, "")
	sections = append(sections, m.sessionBar().ViewAs(session.Progress))

	if session.Track != nil {
		sections = append(sections, helpStyle.Render(fmt.Sprintf("%s %s", m.theme.IconMusic, domain.TrackFileName(*session.Track))))
	}

	sections = append(sections, "")
	sections = append(sections, helpStyle.Render(fmt.Sprintf("%s Work %s · Break %s · Total %s · Sessions %d",
		m.theme.IconStats, stats.WorkTime, stats.BreakTime, stats.TotalTime, stats.SessionsCompleted)))
	sections = append(sections, helpStyle.Render(fmt.Sprintf("work %dm · break %dm",
		session.WorkDurationSeconds/60, session.BreakDurationSeconds/60)))

	sections = append(sections, "")
	sections = append(sections, m.viewChecklist())

	if m.adding {
		sections = append(sections, "")
		sections = append(sections, helpStyle.Render("Add: ")+m.input.View())
		sections = append(sections, helpStyle.Render("enter save · esc cancel"))
	}

	if m.status != "" {
		sections = append(sections, "")
		sections = append(sections, lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorBreak)).Render(m.status))
	}

	sections = append(sections, "")
	startAction := "[s]tart"
	if session.Running {
		startAction = "[p]ause"
	}
	sections = append(sections, helpStyle.Render(fmt.Sprintf(
		"%s  [r]eset  [a]dd  [space] toggle  [d]elete  +/- work  [/] break  [q]uit", startAction)))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewChecklist() string {
	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorItem))
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorDone)).Strikethrough(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorWork))

	if m.snap.Checklist.Empty {
		return itemStyle.Italic(true).Render(domain.EmptyChecklistMessage)
	}

	var lines []string
	for i, item := range m.snap.Checklist.Items {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("› ")
		}
		box, style := "[ ]", itemStyle
		if item.Completed {
			box, style = "[x]", doneStyle
		}
		lines = append(lines, prefix+style.Render(box+" "+item.Text))
	}

	stats := m.snap.Stats
	bar := progress.New(progress.WithGradient(m.theme.BreakGradientStart, m.theme.BreakGradientEnd))
	bar.Width = max(m.progress.Width/2, 10)
	bar.ShowPercentage = false
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("%s %d/%d done (%d%%)",
		bar.ViewAs(float64(stats.Percentage)/100), stats.CompletedItems, stats.TotalItems, stats.Percentage))

	return lipgloss.NewStyle().Align(lipgloss.Left).Render(strings.Join(lines, "\n"))
}
