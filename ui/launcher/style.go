package launcher

import "github.com/charmbracelet/lipgloss"

// styles mirrors the teacher's style.Styles shape, trimmed to what the
// launcher view actually uses.
type styles struct {
	Prompt        lipgloss.Style
	Hint          lipgloss.Style
	InputPrompt   lipgloss.Style
	OverlaySelected lipgloss.Style
	OverlayNormal   lipgloss.Style
	Muted         lipgloss.Style
	Error         lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Prompt: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")),
		Hint:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		InputPrompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("71")),
		OverlaySelected: lipgloss.NewStyle().
			Background(lipgloss.Color("236")).Foreground(lipgloss.Color("230")).Bold(true),
		OverlayNormal: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Muted:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}
