// Package classify decides which elements of a page snapshot are navigable
// video items. The rules are substring heuristics tuned to one site's markup.
package classify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"iyftv/internal/focus"
)

// Attributes stamped onto elements by the page driver
const (
	IDAttr   = "data-iyf-id"
	RectAttr = "data-iyf-rect"
)

// MinItemSize is the smallest width and height a navigable item may have
const MinItemSize = 50.0

const (
	ancestorDepth = 3
	maxLabelRunes = 48
)

// CandidateSelectors finds elements worth classifying
var CandidateSelectors = []string{
	`a[href*="/play"]`,
	`a[href*="/video"]`,
	`a[href*="/movie"]`,
	`a[href*="/detail"]`,
	`a[href*="/film"]`,
	`[class*="video"]`,
	`[class*="card"]`,
	`[class*="item"]`,
	`[class*="movie"]`,
	`[class*="film"]`,
	`[class*="poster"]`,
	`[class*="thumbnail"]`,
	`[id*="video"]`,
	`[id*="movie"]`,
}

var (
	linkHints     = []string{"/play", "/video", "/movie", "/watch", "/detail", "/film"}
	classHints    = []string{"video", "movie", "card", "item", "film", "poster", "thumbnail"}
	idHints       = []string{"video", "movie", "card"}
	ancestorHints = []string{"video", "movie", "list", "grid"}
)

// Element is the subset of an element's state the heuristic looks at
type Element struct {
	Tag             string
	Href            string
	Class           string
	ID              string
	Role            string
	OnClick         bool
	PointerCursor   bool
	HasImage        bool
	AncestorClasses []string // nearest first
	Rect            focus.Rect
}

// Classifier turns page snapshots into ordered item lists
type Classifier struct {
	candidates cascadia.Selector
	minSize    float64
}

// New compiles the candidate selectors
func New() (*Classifier, error) {
	sel, err := cascadia.Compile(strings.Join(CandidateSelectors, ", "))
	if err != nil {
		return nil, fmt.Errorf("failed to compile candidate selectors: %w", err)
	}
	return &Classifier{candidates: sel, minSize: MinItemSize}, nil
}

// IsNavigable reports whether an element looks like a video item
func (c *Classifier) IsNavigable(el Element) bool {
	if el.Rect.Width < c.minSize || el.Rect.Height < c.minSize {
		return false
	}

	class := strings.ToLower(el.Class)
	id := strings.ToLower(el.ID)

	hasLink := containsAny(el.Href, linkHints)
	hasClass := containsAny(class, classHints)
	hasID := containsAny(id, idHints)
	clickable := strings.EqualFold(el.Tag, "a") ||
		el.OnClick ||
		el.PointerCursor ||
		el.Role == "button" ||
		el.Role == "link"

	inContainer := false
	for i, ancestor := range el.AncestorClasses {
		if i == ancestorDepth {
			break
		}
		if containsAny(strings.ToLower(ancestor), ancestorHints) {
			inContainer = true
			break
		}
	}

	return (el.HasImage && (hasLink || hasClass || hasID || inContainer)) ||
		(hasLink && clickable) ||
		(el.HasImage && clickable && (hasClass || inContainer))
}

// Classify returns the navigable items of doc in document order
func (c *Classifier) Classify(doc *goquery.Document) []focus.Item {
	var items []focus.Item
	doc.FindMatcher(c.candidates).Each(func(i int, s *goquery.Selection) {
		el := ElementFrom(s)
		if !c.IsNavigable(el) {
			return
		}
		items = append(items, itemFrom(s, el, i))
	})
	return items
}

// ElementFrom extracts heuristic inputs from a single-node selection
func ElementFrom(s *goquery.Selection) Element {
	el := Element{
		Tag:      goquery.NodeName(s),
		Class:    s.AttrOr("class", ""),
		ID:       s.AttrOr("id", ""),
		Role:     s.AttrOr("role", ""),
		HasImage: s.Find("img").Length() > 0,
	}
	el.Href, _ = s.Attr("href")
	_, el.OnClick = s.Attr("onclick")
	el.PointerCursor = pointerCursor(s.AttrOr("style", ""))
	if rect, ok := ParseRect(s.AttrOr(RectAttr, "")); ok {
		el.Rect = rect
	}
	if len(s.Nodes) > 0 {
		el.AncestorClasses = ancestorClasses(s.Nodes[0], ancestorDepth)
	}
	return el
}

func itemFrom(s *goquery.Selection, el Element, position int) focus.Item {
	id := s.AttrOr(IDAttr, "")
	if id == "" {
		id = fmt.Sprintf("item-%d", position)
	}
	item := focus.Item{
		ID:    id,
		Rect:  el.Rect,
		Label: label(s, id),
	}
	if strings.EqualFold(el.Tag, "a") {
		item.Href = el.Href
	}
	if href, ok := s.Find("a[href]").First().Attr("href"); ok {
		item.LinkHref = href
	}
	return item
}

func ancestorClasses(n *html.Node, depth int) []string {
	var classes []string
	for p := n.Parent; p != nil && len(classes) < depth; p = p.Parent {
		if p.Type != html.ElementNode {
			break
		}
		classes = append(classes, attr(p, "class"))
	}
	return classes
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func label(s *goquery.Selection, fallback string) string {
	text := strings.Join(strings.Fields(s.Text()), " ")
	if text == "" {
		text = s.Find("img[alt]").First().AttrOr("alt", "")
	}
	if text == "" {
		text = s.AttrOr("title", s.AttrOr("aria-label", ""))
	}
	if text == "" {
		return fallback
	}
	if utf8.RuneCountInString(text) > maxLabelRunes {
		runes := []rune(text)
		text = string(runes[:maxLabelRunes-1]) + "…"
	}
	return text
}

func pointerCursor(style string) bool {
	compact := strings.ReplaceAll(strings.ToLower(style), " ", "")
	return strings.Contains(compact, "cursor:pointer")
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
