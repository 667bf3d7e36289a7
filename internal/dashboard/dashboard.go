// Package dashboard is the interactive terminal front end: a live request log
// showing whether each query was served from the cache and how much faster
// than the provider baseline it was.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/davidbz/semcache/internal/domain"
	"github.com/davidbz/semcache/internal/history"
	"github.com/davidbz/semcache/internal/observability"
)

const (
	headerTitle = "SEMANTIC CACHE OPTIMIZER"
	promptText  = "Type a question (or 'exit')"

	sourceHit  = "CACHE HIT (Memory)"
	sourceMiss = "CACHE MISS (AI Call)"
)

// Config holds dashboard settings.
type Config struct {
	Rows int `env:"DASHBOARD_ROWS" envDefault:"8"`
}

// Resolver answers a query. *domain.Engine satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*domain.QueryOutcome, error)
}

// --- lipgloss styles ---

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("27")).Padding(0, 2)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	answerStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("10")).Padding(0, 1)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// --- messages ---

type resolvedMsg struct {
	outcome *domain.QueryOutcome
}

type resolveErrorMsg struct {
	query string
	err   error
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	ctx      context.Context
	resolver Resolver
	history  *history.Recorder
	cfg      Config

	input   textinput.Model
	spinner spinner.Model
	log     table.Model

	processing string
	answer     string
	err        error
	quitting   bool
}

// NewModel creates the dashboard model.
func NewModel(ctx context.Context, resolver Resolver, recorder *history.Recorder, cfg Config) Model {
	if cfg.Rows <= 0 {
		cfg.Rows = 8
	}

	input := textinput.New()
	input.Placeholder = "What is the capital of France?"
	input.Prompt = "Enter Question > "
	input.PromptStyle = promptStyle
	input.CharLimit = 512
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = busyStyle

	log := table.New(
		table.WithColumns([]table.Column{
			{Title: "Query", Width: 40},
			{Title: "Source", Width: 22},
			{Title: "Latency", Width: 10},
			{Title: "Speedup", Width: 9},
		}),
		table.WithHeight(cfg.Rows+1),
	)

	return Model{
		ctx:      ctx,
		resolver: resolver,
		history:  recorder,
		cfg:      cfg,
		input:    input,
		spinner:  sp,
		log:      log,
	}
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.processing == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resolvedMsg:
		m.history.Record(msg.outcome)
		m.processing = ""
		m.answer = msg.outcome.Answer
		m.err = nil
		m.refreshLog()
		return m, nil

	case resolveErrorMsg:
		m.processing = ""
		m.err = fmt.Errorf("%s: %w", msg.query, msg.err)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Input is ignored while a query is in flight.
	if m.processing != "" {
		return m, nil
	}

	if msg.Type != tea.KeyEnter {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	query := strings.TrimSpace(m.input.Value())
	m.input.Reset()

	switch {
	case query == "":
		return m, nil
	case isExit(query):
		m.quitting = true
		return m, tea.Quit
	}

	m.processing = query
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, resolveCmd(m.ctx, m.resolver, query))
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return dimStyle.Render("Bye.") + "\n"
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render(headerTitle) + "\n\n")
	b.WriteString(panelStyle.Render("Live Request Log\n"+m.log.View()) + "\n")

	if m.answer != "" {
		b.WriteString(answerStyle.Render("Answer\n"+m.answer) + "\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	if m.processing != "" {
		b.WriteString(busyStyle.Render(m.spinner.View()+" Processing: "+m.processing+"...") + "\n")
	} else {
		b.WriteString(promptStyle.Render(promptText) + "\n")
		b.WriteString(m.input.View() + "\n")
	}

	return b.String()
}

func (m *Model) refreshLog() {
	records := m.history.Recent(m.cfg.Rows)
	rows := make([]table.Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, table.Row{
			record.Query,
			SourceLabel(record.Decision),
			FormatLatency(record.Elapsed),
			FormatSpeedup(record, m.history.Baseline()),
		})
	}
	m.log.SetRows(rows)
}

// SourceLabel names where an answer came from.
func SourceLabel(decision domain.Decision) string {
	if decision.IsHit() {
		return sourceHit
	}
	return sourceMiss
}

// FormatLatency renders elapsed time in seconds with four decimals.
func FormatLatency(elapsed time.Duration) string {
	return fmt.Sprintf("%.4fs", elapsed.Seconds())
}

// FormatSpeedup renders the speedup of a record against the baseline latency.
func FormatSpeedup(record history.Record, baseline time.Duration) string {
	return fmt.Sprintf("%.1fx", record.Speedup(baseline))
}

func isExit(query string) bool {
	return strings.EqualFold(query, "exit") || strings.EqualFold(query, "quit")
}

// --- tea.Cmd factories ---

func resolveCmd(ctx context.Context, resolver Resolver, query string) tea.Cmd {
	return func() tea.Msg {
		reqCtx := observability.NewRequestContext(ctx, "dashboard")
		outcome, err := resolver.Resolve(reqCtx, query)
		if err != nil {
			return resolveErrorMsg{query: query, err: err}
		}
		if outcome == nil {
			return resolveErrorMsg{query: query, err: errors.New("no outcome returned")}
		}
		return resolvedMsg{outcome: outcome}
	}
}

// Run starts the dashboard and blocks until the user exits.
func Run(ctx context.Context, resolver Resolver, recorder *history.Recorder, cfg Config) error {
	program := tea.NewProgram(NewModel(ctx, resolver, recorder, cfg),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}
	return nil
}
