package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"iyftv/internal/focus"
	"iyftv/internal/player"
)

// Card geometry in terminal cells, border excluded
const (
	CardWidth  = 22
	CardHeight = 2
)

// ToastView is one toast as the renderer sees it
type ToastView struct {
	Message string
	Leaving bool
}

// SettingView is one row of the settings panel
type SettingView struct {
	Label string
	On    bool
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width          int
	Height         int
	Source         string
	Rows           [][]focus.Item
	FocusedID      string
	ViewportOffset int
	ViewportHeight int
	Navigation     bool
	Scanning       bool
	Spinner        string
	Toasts         []ToastView
	Overlay        bool
	Player         *player.State // nil when the page has no video
	Mode           string
	StatusMessage  string
	StatusError    bool
	AdsRemoved     int
	Blocked        int
	HelpView       string
	ShowSettings   bool
	ConfirmReset   bool
	Settings       []SettingView
	SettingsCursor int
}

// Renderer handles all view rendering
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer(focusColor string) *Renderer {
	return &Renderer{styles: NewStyles(focusColor)}
}

// SetFocusColor restyles the focused card
func (r *Renderer) SetFocusColor(color string) {
	r.styles = NewStyles(color)
}

// Styles returns the active styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(state))
	content.WriteString("\n")
	if state.Source != "" {
		content.WriteString(r.styles.Dim.Render(state.Source))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	var main string
	switch {
	case state.ShowSettings:
		main = r.renderSettings(state)
	case !state.Navigation:
		main = r.styles.Dim.Render("Spatial navigation is off. Press n to turn it on.")
	case state.Scanning && len(state.Rows) == 0:
		main = r.styles.Dim.Render("Looking for videos...")
	case len(state.Rows) == 0:
		main = r.styles.Dim.Render("No videos found. Press r to rescan.")
	default:
		main = r.renderGrid(state)
	}
	content.WriteString(main)

	if state.Overlay {
		content.WriteString("\n\n")
		content.WriteString(r.renderOverlay())
	}

	// Bottom block: toasts, status, help
	var bottom []string
	for _, t := range state.Toasts {
		style := r.styles.Toast
		if t.Leaving {
			style = r.styles.ToastLeaving
		}
		bottom = append(bottom, style.Render(t.Message))
	}
	if line := r.renderStatusLine(state); line != "" {
		bottom = append(bottom, line)
	}
	if state.HelpView != "" {
		bottom = append(bottom, r.styles.Help.Render(state.HelpView))
	}

	if len(bottom) > 0 {
		current := strings.Count(content.String(), "\n") + 1
		available := state.Height - 2 // Main padding
		if available <= 0 {
			available = 22
		}
		bottomLines := 0
		for _, b := range bottom {
			bottomLines += lipgloss.Height(b)
		}
		if pad := available - current - bottomLines; pad > 0 {
			content.WriteString(strings.Repeat("\n", pad))
		}
		content.WriteString("\n")
		content.WriteString(strings.Join(bottom, "\n"))
	}

	mainStyle := r.styles.Main.MaxHeight(state.Height)
	return mainStyle.Render(content.String())
}

func (r *Renderer) renderTitleLine(state ViewState) string {
	logo := r.styles.Title.Render("iyftv")

	var indicators []string
	if state.Scanning {
		indicators = append(indicators, fmt.Sprintf("%s Scanning", state.Spinner))
	}
	if state.Player != nil {
		indicators = append(indicators, r.renderPlayer(*state.Player))
	}
	if state.AdsRemoved > 0 || state.Blocked > 0 {
		indicators = append(indicators, r.styles.StatusWarning.Render(
			fmt.Sprintf("ads %d | blocked %d", state.AdsRemoved, state.Blocked)))
	}
	if state.Mode != "" && state.Mode != "normal" {
		indicators = append(indicators, r.styles.Highlight.Render("["+state.Mode+"]"))
	}
	if len(indicators) == 0 {
		return logo
	}

	right := strings.Join(indicators, "  ")
	width := state.Width
	if width <= 0 {
		width = 80
	}
	pad := width - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if pad < 2 {
		pad = 2
	}
	return logo + strings.Repeat(" ", pad) + right
}

func (r *Renderer) renderPlayer(s player.State) string {
	icon := "▶"
	style := r.styles.StatusPlaying
	if !s.Playing() {
		icon = "⏸"
		style = r.styles.Dim
	}
	return style.Render(fmt.Sprintf("%s %s/%s vol %d%%",
		icon, clock(s.CurrentTime), clock(s.Duration), int(s.Volume*100+0.5)))
}

func (r *Renderer) renderStatusLine(state ViewState) string {
	if state.StatusMessage == "" {
		return ""
	}
	if state.StatusError {
		return r.styles.StatusError.Render(state.StatusMessage)
	}
	return r.styles.Status.Render(state.StatusMessage)
}

// renderGrid renders the visible rows of item cards
func (r *Renderer) renderGrid(state ViewState) string {
	height := state.ViewportHeight
	if height <= 0 {
		height = len(state.Rows)
	}
	offset := state.ViewportOffset
	if offset < 0 || offset >= len(state.Rows) {
		offset = 0
	}
	end := offset + height
	if end > len(state.Rows) {
		end = len(state.Rows)
	}

	perRow := cardsPerRow(state.Width)

	var lines []string
	if offset > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", offset)))
	}
	for _, row := range state.Rows[offset:end] {
		lines = append(lines, r.renderRow(row, state.FocusedID, perRow))
	}
	if below := len(state.Rows) - end; below > 0 {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", below)))
	}
	return strings.Join(lines, "\n")
}

// renderRow renders one row, sliding it sideways so the focused card is shown
func (r *Renderer) renderRow(row []focus.Item, focusedID string, perRow int) string {
	start := 0
	if focused := focus.IndexOf(row, focusedID); focused >= perRow {
		start = focused - perRow + 1
	}
	end := start + perRow
	if end > len(row) {
		end = len(row)
	}

	cards := make([]string, 0, end-start+2)
	if start > 0 {
		cards = append(cards, r.styles.Scroll.Render("‹"))
	}
	for _, item := range row[start:end] {
		cards = append(cards, r.renderCard(item, item.ID == focusedID))
	}
	if end < len(row) {
		cards = append(cards, r.styles.Scroll.Render("›"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, cards...)
}

func (r *Renderer) renderCard(item focus.Item, focused bool) string {
	style := r.styles.Card
	if focused {
		style = r.styles.FocusedCard
	}
	link := item.Href
	if link == "" {
		link = item.LinkHref
	}
	body := truncate(item.Label, CardWidth-2)
	if link != "" {
		body += "\n" + r.styles.CardLink.Render(truncate(link, CardWidth-2))
	}
	return style.Render(body)
}

func (r *Renderer) renderOverlay() string {
	lines := []string{
		r.styles.Title.Render("Remote"),
		"←/→  seek    ↑/↓  volume",
		"OK   play/pause    Back  return",
	}
	return r.styles.Overlay.Render(strings.Join(lines, "\n"))
}

// renderSettings renders the feature switches panel
func (r *Renderer) renderSettings(state ViewState) string {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Settings"))
	b.WriteString("\n\n")
	for i, s := range state.Settings {
		mark := "[ ]"
		if s.On {
			mark = r.styles.StatusSuccess.Render("[x]")
		}
		line := fmt.Sprintf("%s %s", mark, s.Label)
		if i == state.SettingsCursor {
			line = r.styles.HighlightBg.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if state.ConfirmReset {
		b.WriteString(r.styles.Confirm.Render("Reset all settings to defaults? (y/n)"))
	} else {
		b.WriteString(r.styles.Dim.Render("space toggle • R reset • esc back"))
	}
	return r.styles.SettingsBox.Render(b.String())
}

func cardsPerRow(width int) int {
	if width <= 0 {
		width = 80
	}
	n := (width - 6) / (CardWidth + 2)
	if n < 1 {
		n = 1
	}
	return n
}

func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func clock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
