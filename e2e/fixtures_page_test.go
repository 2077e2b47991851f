//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Card is one video tile on a fixture page
type Card struct {
	ID    string
	Label string
	Href  string
}

// CardsPerRow is how many cards a fixture row holds
const CardsPerRow = 3

// CreateTestWorkspace creates a temporary directory for pages and config
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// NumberedCards returns n cards labelled "Episode 1" to "Episode n"
func NumberedCards(n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = Card{
			ID:    fmt.Sprintf("v%d", i+1),
			Label: fmt.Sprintf("Episode %d", i+1),
			Href:  fmt.Sprintf("/play/%d", i+1),
		}
	}
	return cards
}

// CreateTestPage writes a saved page with cards laid out in a grid. Each card
// carries its layout the way the live driver stamps it.
func (tf *TUITestFramework) CreateTestPage(name string, cards []Card, extra ...string) (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}

	var b strings.Builder
	b.WriteString("<html><body>\n<div class=\"video-grid\">\n")
	for i, c := range cards {
		top := (i / CardsPerRow) * 220
		left := (i % CardsPerRow) * 220
		fmt.Fprintf(&b,
			"  <div class=\"card\" data-iyf-id=%q data-iyf-rect=\"%d,%d,200,150\"><img src=\"%s.jpg\"><a href=%q>%s</a></div>\n",
			c.ID, top, left, c.ID, c.Href, c.Label)
	}
	b.WriteString("</div>\n")
	for _, e := range extra {
		b.WriteString(e)
		b.WriteString("\n")
	}
	b.WriteString("</body></html>\n")

	path := filepath.Join(tf.workspace, name)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write page: %w", err)
	}
	return path, nil
}

// ConfigPath is where the app keeps its config inside the workspace
func (tf *TUITestFramework) ConfigPath() string {
	return filepath.Join(tf.workspace, ".config", "iyftv", "config.toml")
}
