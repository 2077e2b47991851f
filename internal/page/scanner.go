package page

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"iyftv/internal/adblock"
	"iyftv/internal/classify"
	"iyftv/internal/eventbus"
	"iyftv/internal/focus"
)

// Scanner turns snapshots into navigable items, sweeping ads on the way
type Scanner struct {
	source     Source
	filter     *adblock.Filter
	classifier *classify.Classifier
	bus        eventbus.EventBus

	mu   sync.Mutex
	last *goquery.Document
}

// NewScanner wires a source to the classifier. filter and bus may be nil.
func NewScanner(source Source, filter *adblock.Filter, classifier *classify.Classifier, bus eventbus.EventBus) *Scanner {
	if bus == nil {
		bus = eventbus.Discard{}
	}
	return &Scanner{
		source:     source,
		filter:     filter,
		classifier: classifier,
		bus:        bus,
	}
}

// Scan takes a fresh snapshot and returns its items in document order
func (s *Scanner) Scan(ctx context.Context) ([]focus.Item, error) {
	markup, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}

	if s.filter != nil {
		if ids := s.filter.Sweep(doc); len(ids) > 0 {
			if pruner, ok := s.source.(Pruner); ok {
				if err := pruner.Remove(ctx, ids); err != nil {
					log.Printf("Scanner: failed to remove %d ads from page: %v", len(ids), err)
				}
			}
			log.Printf("Scanner: removed %d ads", len(ids))
			s.bus.Publish(eventbus.AdsRemovedEvent{IDs: ids})
		}
	}

	items := s.classifier.Classify(doc)

	s.mu.Lock()
	s.last = doc
	s.mu.Unlock()
	return items, nil
}

// Outer returns the markup of the stamped element with the given id from the
// most recent snapshot
func (s *Scanner) Outer(id string) (string, bool) {
	s.mu.Lock()
	doc := s.last
	s.mu.Unlock()
	if doc == nil {
		return "", false
	}
	sel := doc.Find(fmt.Sprintf(`[%s="%s"]`, classify.IDAttr, id))
	if sel.Length() == 0 {
		return "", false
	}
	html, err := goquery.OuterHtml(sel.First())
	if err != nil {
		return "", false
	}
	return html, true
}
