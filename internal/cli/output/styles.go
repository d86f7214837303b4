package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1       lipgloss.Style
	Header2       lipgloss.Style
	Bold          lipgloss.Style
	Muted         lipgloss.Style
	ID            lipgloss.Style
	Success       lipgloss.Style
	Warning       lipgloss.Style
	Error         lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusSkipped lipgloss.Style
	Sensitive     lipgloss.Style
}

// DefaultStyles returns the styles used on a color terminal.
func DefaultStyles() *Styles {
	green := lipgloss.Color("42")
	yellow := lipgloss.Color("214")
	red := lipgloss.Color("196")
	gray := lipgloss.Color("245")

	return &Styles{
		Header1:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Header2:       lipgloss.NewStyle().Bold(true),
		Bold:          lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle().Foreground(gray),
		ID:            lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		Success:       lipgloss.NewStyle().Foreground(green),
		Warning:       lipgloss.NewStyle().Foreground(yellow),
		Error:         lipgloss.NewStyle().Foreground(red),
		StatusSuccess: lipgloss.NewStyle().Foreground(green).SetString("✓"),
		StatusFailed:  lipgloss.NewStyle().Foreground(red).SetString("✗"),
		StatusSkipped: lipgloss.NewStyle().Foreground(gray).SetString("-"),
		Sensitive:     lipgloss.NewStyle().Foreground(yellow).Bold(true),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Header1:       plain,
		Header2:       plain,
		Bold:          plain,
		Muted:         plain,
		ID:            plain,
		Success:       plain,
		Warning:       plain,
		Error:         plain,
		StatusSuccess: plain.SetString("✓"),
		StatusFailed:  plain.SetString("✗"),
		StatusSkipped: plain.SetString("-"),
		Sensitive:     plain,
	}
}
