package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"iyftv/internal/focus"
	"iyftv/internal/navigation"
	"iyftv/internal/ui/input"
)

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	title string
	err   error
}

var helpSections = []string{"Navigation", "Items", "Page", "Other"}

// RenderHelpContent renders the full key reference for the pager
func RenderHelpContent(km input.KeyMap, playback input.KeyMap) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("iyftv Help"))
	help.WriteString("\n")

	for i, group := range km.FullHelp() {
		name := "More"
		if i < len(helpSections) {
			name = helpSections[i]
		}
		help.WriteString(sectionStyle.Render(name))
		help.WriteString("\n")
		for _, b := range group {
			h := b.Help()
			help.WriteString(fmt.Sprintf("  %-10s %s\n", keyStyle.Render(h.Key), descStyle.Render(h.Desc)))
		}
	}

	help.WriteString(sectionStyle.Render("While a video plays"))
	help.WriteString("\n")
	for _, b := range playback.FullHelp()[0][:4] {
		h := b.Help()
		help.WriteString(fmt.Sprintf("  %-10s %s\n", keyStyle.Render(h.Key), descStyle.Render(h.Desc)))
	}

	help.WriteString("\n")
	help.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).
		Render("  Remote keys in the browser: arrows, OK (13), Back (27), Space (32), Play (415)"))
	return help.String()
}

// RenderItemDetails describes the focused item and its page markup
func RenderItemDetails(item focus.Item, row int, outer string) string {
	a := navigation.Resolve(item)

	var b strings.Builder
	fmt.Fprintf(&b, "Item:      %s\n", item.ID)
	fmt.Fprintf(&b, "Label:     %s\n", item.Label)
	fmt.Fprintf(&b, "Row:       %d\n", row+1)
	fmt.Fprintf(&b, "Rect:      top %.0f left %.0f size %.0fx%.0f\n",
		item.Rect.Top, item.Rect.Left, item.Rect.Width, item.Rect.Height)
	fmt.Fprintf(&b, "Href:      %s\n", item.Href)
	fmt.Fprintf(&b, "Link:      %s\n", item.LinkHref)
	fmt.Fprintf(&b, "Activates: %s %s\n", a.Kind, a.URL)
	if outer != "" {
		b.WriteString("\nMarkup:\n\n")
		b.WriteString(outer)
		b.WriteString("\n")
	}
	return b.String()
}

// Pager shows long text in ov, handing the terminal over while it runs
type Pager struct {
	program *tea.Program
}

// Show runs ov on content
func (p *Pager) Show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// pagerCmd returns a command that shows content in the pager
func (m *Model) pagerCmd(title, content string) tea.Cmd {
	m.inPagerMode = true
	return func() tea.Msg {
		err := m.pager.Show(content)
		return pagerMsg{title: title, err: err}
	}
}
