package watch

import "github.com/charmbracelet/lipgloss"

// Colors used in the watch TUI.
var (
	ColorPrimary = lipgloss.Color("#7C3AED") // Purple
	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorMuted   = lipgloss.Color("#9CA3AF") // Light gray
)

// Styles holds the styles for the watch TUI.
type Styles struct {
	Title        lipgloss.Style
	Column       lipgloss.Style
	ColumnHeader lipgloss.Style
	Task         lipgloss.Style
	TaskWorker   lipgloss.Style
	WorkerIdle   lipgloss.Style
	WorkerBusy   lipgloss.Style
	WorkerOther  lipgloss.Style
	Connecting   lipgloss.Style
	Help         lipgloss.Style
	Error        lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1),
		Column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1),
		ColumnHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),
		Task: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")),
		TaskWorker: lipgloss.NewStyle().
			Foreground(ColorWarning),
		WorkerIdle: lipgloss.NewStyle().
			Foreground(ColorSuccess),
		WorkerBusy: lipgloss.NewStyle().
			Foreground(ColorWarning),
		WorkerOther: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Connecting: lipgloss.NewStyle().
			Foreground(ColorWarning).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
	}
}
