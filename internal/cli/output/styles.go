package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header  lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Name    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginBottom(1),
		Header2: r.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(lipgloss.Color("245")),
		Name:    r.NewStyle().Foreground(lipgloss.Color("86")),
		Success: r.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("214")),
		Info:    r.NewStyle().Foreground(lipgloss.Color("75")),
	}
}
