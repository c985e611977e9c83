package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"skinsync/internal/device"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(string(ColorMuted))).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(string(ColorPrimary)))
	s.Cell = s.Cell.
		Foreground(lipgloss.Color(string(ColorPrimary)))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(string(ColorPrimary))).
		Background(lipgloss.Color(string(ColorMuted))).
		Bold(false)

	t.SetStyles(s)
	return t
}

// RenderDeviceTable renders the paired-device list as a formatted table.
func RenderDeviceTable(devices []device.Device) string {
	if len(devices) == 0 {
		return "No devices paired"
	}

	columns := []TableColumn{
		{Title: "ID", Width: 18},
		{Title: "ADDRESS", Width: 16},
		{Title: "SOURCE", Width: 8},
		{Title: "LAST SEEN", Width: 20},
	}

	rows := make([]table.Row, len(devices))
	for i, d := range devices {
		rows[i] = table.Row{
			d.ID,
			d.Address,
			string(d.Source),
			formatLastSeen(d.LastSeen),
		}
	}

	return NewTable(columns, rows).View()
}

// formatLastSeen renders a timestamp as a friendly relative age.
func formatLastSeen(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	age := time.Since(t)
	switch {
	case age < time.Minute:
		return "just now"
	case age < time.Hour:
		return t.Format("15:04")
	case age < 24*time.Hour:
		return t.Format("today 15:04")
	default:
		return t.Format("2006-01-02 15:04")
	}
}
