// Package tui is the terminal front end: a search box, the weather card and the
// recent-search list, driven by the same orchestrator as the HTTP pages.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kjstillabower/weather-dashboard/internal/render"
)

type focus int

const (
	focusInput focus = iota
	focusHistory
)

// Options configures a Model.
type Options struct {
	Fetcher Fetcher
	Bridge  *Bridge
	// Context bounds every lookup. Defaults to context.Background.
	Context context.Context
	// DiscardStale drops display updates from lookups superseded by a newer one.
	DiscardStale bool
	// History seeds the recent-search list before the first HistoryMsg arrives.
	History   []string
	MaxLength int
	Logger    *zap.Logger
	Now       func() time.Time
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	fetcher      Fetcher
	bridge       *Bridge
	ctx          context.Context
	discardStale bool
	logger       *zap.Logger
	now          func() time.Time

	input   textinput.Model
	spinner spinner.Model

	message     string
	weather     *render.View
	placeholder string
	history     []string
	cursor      int
	focus       focus
	showHelp    bool

	latestSeq uint64
	pending   int
	width     int
}

// NewModel returns a Model with the input focused and the placeholder showing.
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter city name..."
	ti.Prompt = "🔍 "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#58a6ff"))
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#c9d1d9"))
	ti.CharLimit = 0
	if opts.MaxLength > 0 {
		// one past the limit so the too-long message can still be reached
		ti.CharLimit = opts.MaxLength + 1
	}
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3fb950"))

	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	bridge := opts.Bridge
	if bridge == nil {
		bridge = NewBridge()
	}

	return Model{
		fetcher:      opts.Fetcher,
		bridge:       bridge,
		ctx:          ctx,
		discardStale: opts.DiscardStale,
		logger:       logger,
		now:          now,
		input:        ti,
		spinner:      s,
		placeholder:  render.MsgPlaceholder,
		history:      append([]string(nil), opts.History...),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case messageMsg:
		if m.stale(msg.seq) {
			return m, nil
		}
		m.message = msg.text
		return m, nil

	case weatherMsg:
		if m.stale(msg.seq) {
			return m, nil
		}
		v := msg.view
		m.weather = &v
		m.placeholder = ""
		return m, nil

	case clearWeatherMsg:
		if m.stale(msg.seq) {
			return m, nil
		}
		m.weather = nil
		m.placeholder = ""
		return m, nil

	case placeholderMsg:
		if m.stale(msg.seq) {
			return m, nil
		}
		m.weather = nil
		m.placeholder = msg.text
		return m, nil

	case fetchDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.logger.Debug("lookup done",
			zap.Uint64("seq", msg.outcome.Seq),
			zap.String("kind", string(msg.outcome.Kind)),
			zap.Bool("superseded", msg.outcome.Seq < m.latestSeq))
		return m, nil

	case HistoryMsg:
		m.history = append([]string(nil), msg.Entries...)
		if m.cursor >= len(m.history) {
			m.cursor = max(len(m.history)-1, 0)
		}
		if len(m.history) == 0 && m.focus == focusHistory {
			m.setFocus(focusInput)
		}
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// stale reports whether an update from lookup seq should be ignored.
func (m Model) stale(seq uint64) bool {
	return m.discardStale && seq < m.latestSeq
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "tab", "shift+tab":
		if m.focus == focusInput && len(m.history) > 0 {
			m.setFocus(focusHistory)
		} else {
			m.setFocus(focusInput)
		}
		return m, nil
	case "?":
		if m.focus == focusHistory || m.input.Value() == "" {
			m.showHelp = !m.showHelp
			return m, nil
		}
	}

	if m.focus == focusHistory {
		return m.handleHistoryKey(msg)
	}

	if msg.Type == tea.KeyEnter {
		return m.startFetch(m.input.Value())
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.history)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = max(len(m.history)-1, 0)
	case "enter":
		if m.cursor < len(m.history) {
			city := m.history[m.cursor]
			m.input.SetValue(city)
			m.input.CursorEnd()
			m.setFocus(focusInput)
			return m.startFetch(city)
		}
	}
	return m, nil
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// startFetch reserves a sequence number and runs the lookup off the update loop.
// Display updates flow back through the bridge; completion arrives as fetchDoneMsg.
func (m Model) startFetch(city string) (tea.Model, tea.Cmd) {
	if m.fetcher == nil {
		return m, nil
	}
	seq := m.fetcher.NextSeq()
	m.latestSeq = seq
	m.pending++

	fetcher, ctx, d := m.fetcher, m.ctx, display{seq: seq, bridge: m.bridge}
	fetch := func() tea.Msg {
		return fetchDoneMsg{outcome: fetcher.FetchSeq(ctx, seq, city, d)}
	}
	return m, tea.Batch(fetch, m.spinner.Tick)
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🌤️  Weather Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	status := m.message
	if m.pending > 0 && status == render.MsgFetching {
		status = m.spinner.View() + " " + status
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n\n")

	switch {
	case m.weather != nil:
		b.WriteString(m.weatherCard(*m.weather))
	case m.placeholder != "":
		b.WriteString(placeholderStyle.Render(m.placeholder))
	}
	b.WriteString("\n\n")

	b.WriteString(m.historyView())
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(helpStyle.Render(helpText))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("© %d Weather Dashboard · ? help · esc quit", m.now().Year())))
	return b.String()
}

func (m Model) weatherCard(v render.View) string {
	rows := []string{
		headingStyle.Render(v.Heading),
		labelStyle.Render(v.Date),
		"",
		v.Emoji + "  " + tempStyle.Render(v.Temperature) + "  " + v.Condition,
		"",
		labelStyle.Render("Humidity:   ") + v.Humidity,
		labelStyle.Render("Wind Speed: ") + v.WindSpeed,
		labelStyle.Render("Pressure:   ") + v.Pressure,
	}
	return cardStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) historyView() string {
	hv := render.BuildHistoryView(m.history)
	var b strings.Builder
	b.WriteString(headingStyle.Render(hv.Heading))
	b.WriteString("\n")
	if len(hv.Items) == 0 {
		b.WriteString(placeholderStyle.Render(hv.Empty))
		b.WriteString("\n")
		return b.String()
	}
	for i, item := range hv.Items {
		if m.focus == focusHistory && i == m.cursor {
			b.WriteString(historySelectedStyle.Render("› " + item.City))
		} else {
			b.WriteString(historyItemStyle.Render("  " + item.City))
		}
		b.WriteString("\n")
	}
	return b.String()
}

const helpText = `enter      search for the typed city
tab        switch between search box and recent searches
↑/↓ j/k    move through recent searches
enter      (in list) search that city again
?          toggle this help
esc        quit`
