package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	Card          lipgloss.Style
	FocusedCard   lipgloss.Style
	CardLink      lipgloss.Style
	Toast         lipgloss.Style
	ToastLeaving  lipgloss.Style
	Overlay       lipgloss.Style
	SettingsBox   lipgloss.Style
	Confirm       lipgloss.Style
	Highlight     lipgloss.Style
	HighlightBg   lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusPlaying lipgloss.Style
}

// NewStyles creates a new Styles instance. focusColor is the background of
// the focused card.
func NewStyles(focusColor string) *Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Padding(0, 1).
		Width(CardWidth).
		Height(CardHeight)

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Card:   card,
		FocusedCard: card.
			BorderForeground(lipgloss.Color("226")).
			Background(lipgloss.Color(focusColor)).
			Bold(true),
		CardLink: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Toast: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236")).
			Padding(0, 2),
		ToastLeaving: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Background(lipgloss.Color("235")).
			Padding(0, 2),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 2),
		SettingsBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(1, 2),
		Confirm:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		HighlightBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		StatusPlaying: lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
	}
}
