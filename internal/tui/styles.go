package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/ecofocus/internal/recommend"
)

// Shared styles.
//
//nolint:gochecknoglobals // lipgloss styles are immutable values.
var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("35"))

	HeaderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("28"))

	LabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	InfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	HighStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	GoodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	HelpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	DetailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("35")).
			Padding(0, 1)
)

// LevelStyle colors a recommendation by its emissions level.
func LevelStyle(l recommend.Level) lipgloss.Style {
	switch l {
	case recommend.LevelHigh:
		return HighStyle
	case recommend.LevelMedium:
		return WarningStyle
	default:
		return GoodStyle
	}
}
