// Package watch renders a live read-only view of the board, fed by the
// server's WebSocket push channel.
package watch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/snishimura/agentdeck/internal/domain"
)

// Model is the watch TUI model.
// Fields are ordered to minimize memory padding.
type Model struct {
	// Dependencies
	conn *Conn

	// State
	tasks   []*domain.Task
	workers []domain.Worker
	err     error
	url     string

	// Components
	styles  Styles
	spinner spinner.Model

	// Numeric state
	width  int
	height int

	// Boolean state
	connected bool
}

// New creates a new watch TUI model for the given push-channel URL.
func New(url string) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorWarning)

	return &Model{
		url:     url,
		styles:  DefaultStyles(),
		spinner: sp,
	}
}

// Init starts the connection and the spinner.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(Connect(m.url), m.spinner.Tick)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.conn != nil {
				m.conn.Close()
			}
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case MsgConnected:
		m.conn = msg.Conn
		m.connected = true
		m.err = nil
		return m, m.conn.Read()

	case MsgTasks:
		m.tasks = msg.Tasks
		return m, m.readNext()

	case MsgWorkers:
		m.workers = msg.Workers
		return m, m.readNext()

	case MsgConnError:
		m.err = msg.Err
		m.connected = false
		return m, nil
	}

	return m, nil
}

// readNext schedules the next snapshot read when a connection exists.
func (m *Model) readNext() tea.Cmd {
	if m.conn == nil {
		return nil
	}
	return m.conn.Read()
}

// View renders the board columns and the worker panel.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("agentdeck"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("q: quit"))
		return b.String()
	}
	if !m.connected {
		b.WriteString(m.styles.Connecting.Render(m.spinner.View() + " connecting to " + m.url))
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("q: quit"))
		return b.String()
	}

	columns := make([]string, 0, len(domain.AllStatuses()))
	for _, status := range domain.AllStatuses() {
		columns = append(columns, m.renderColumn(status))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	b.WriteString("\n")
	b.WriteString(m.renderWorkers())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("q: quit"))
	return b.String()
}

// renderColumn renders one board column.
func (m *Model) renderColumn(status domain.Status) string {
	var rows []string
	rows = append(rows, m.styles.ColumnHeader.Render(status.Display()))
	for _, t := range m.tasks {
		if t.Status != status {
			continue
		}
		line := m.styles.Task.Render(t.Title)
		if t.WorkerStatus.Active() {
			line += " " + m.styles.TaskWorker.Render("["+string(t.WorkerStatus)+"]")
		}
		rows = append(rows, line)
	}
	if len(rows) == 1 {
		rows = append(rows, m.styles.WorkerOther.Render("(empty)"))
	}

	width := m.columnWidth()
	return m.styles.Column.Width(width).Render(strings.Join(rows, "\n"))
}

// renderWorkers renders the worker panel below the columns.
func (m *Model) renderWorkers() string {
	if len(m.workers) == 0 {
		return m.styles.WorkerOther.Render("no workers")
	}

	var rows []string
	for _, w := range m.workers {
		name := w.Name
		if name == "" {
			name = w.ID
		}
		label := string(w.Status)
		style := m.styles.WorkerOther
		switch {
		case w.IsIdle:
			label = "idle"
			style = m.styles.WorkerIdle
		case w.Status == domain.WorkerStateBusy:
			style = m.styles.WorkerBusy
		}
		line := fmt.Sprintf("%s %s", name, style.Render(label))
		if w.TaskTitle != "" {
			line += m.styles.WorkerOther.Render(" · " + w.TaskTitle)
		}
		rows = append(rows, line)
	}
	return strings.Join(rows, "\n")
}

// columnWidth splits the terminal width evenly across the board columns.
func (m *Model) columnWidth() int {
	count := len(domain.AllStatuses())
	if m.width <= 0 || count == 0 {
		return 24
	}
	width := m.width/count - 4
	if width < 16 {
		width = 16
	}
	return width
}
