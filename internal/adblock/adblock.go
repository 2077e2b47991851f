// Package adblock hides ad-like elements and refuses ad requests. It is a
// blunt substring filter, not a general-purpose blocker.
package adblock

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// IDAttr matches the stamp written by the page driver
const IDAttr = "data-iyf-id"

// Selectors finds elements that may be ads
var Selectors = []string{
	`[class*="ad"]`,
	`[id*="ad"]`,
	`[class*="advertisement"]`,
	`[id*="advertisement"]`,
	`[class*="banner"]`,
	`iframe[src*="ad"]`,
	`iframe[src*="ads"]`,
}

// Options configures a Filter
type Options struct {
	Enabled     bool
	TextMarker  string   // an element is only removed when its text contains this
	URLPatterns []string // request URLs containing any of these are refused
}

// Filter removes ad elements from snapshots and vets request URLs
type Filter struct {
	matcher     cascadia.Selector
	enabled     atomic.Bool
	marker      string
	urlPatterns []string
}

// New compiles the ad selectors
func New(opts Options) (*Filter, error) {
	sel, err := cascadia.Compile(strings.Join(Selectors, ", "))
	if err != nil {
		return nil, fmt.Errorf("failed to compile ad selectors: %w", err)
	}
	patterns := make([]string, 0, len(opts.URLPatterns))
	for _, p := range opts.URLPatterns {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			patterns = append(patterns, p)
		}
	}
	f := &Filter{
		matcher:     sel,
		marker:      strings.ToLower(opts.TextMarker),
		urlPatterns: patterns,
	}
	f.enabled.Store(opts.Enabled)
	return f, nil
}

// Enabled reports whether the filter does anything
func (f *Filter) Enabled() bool {
	return f.enabled.Load()
}

// SetEnabled switches the filter on or off
func (f *Filter) SetEnabled(enabled bool) {
	f.enabled.Store(enabled)
}

// Sweep removes ad elements from doc and returns the stamped ids of the
// removed elements, outermost first. Elements inside an already removed
// element are not reported again.
func (f *Filter) Sweep(doc *goquery.Document) []string {
	if !f.Enabled() || f.marker == "" {
		return nil
	}

	removed := make(map[*html.Node]bool)
	var ids []string
	doc.FindMatcher(f.matcher).Each(func(_ int, s *goquery.Selection) {
		node := s.Nodes[0]
		if insideRemoved(node, removed) {
			return
		}
		if !strings.Contains(strings.ToLower(s.Text()), f.marker) {
			return
		}
		removed[node] = true
		if id := s.AttrOr(IDAttr, ""); id != "" {
			ids = append(ids, id)
		}
	})

	for node := range removed {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
	return ids
}

// BlocksURL reports whether a request to u should be refused
func (f *Filter) BlocksURL(u string) bool {
	if !f.Enabled() {
		return false
	}
	lower := strings.ToLower(u)
	for _, p := range f.urlPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func insideRemoved(n *html.Node, removed map[*html.Node]bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if removed[p] {
			return true
		}
	}
	return false
}
