// Package search implements the in-document search engine: scanning the
// document tree for a literal query, wrapping matches in marker elements,
// navigating between them and restoring the tree afterwards.
package search

import (
	"errors"

	"markview/internal/doc"
	"markview/internal/domain"
)

// Marker element contract. Markers are inert "mark" elements tagged with
// a highlight role; the current match additionally carries attrCurrent.
const (
	MarkerTag     = "mark"
	attrRole      = "data-role"
	roleHighlight = "highlight"
	attrCurrent   = "data-current"
)

// Sentinel errors for contract violations inside the engine
var (
	ErrDetachedNode    = errors.New("search: node detached from document tree")
	ErrIndexOutOfRange = errors.New("search: match index out of range")
)

// Span identifies one occurrence of the query as a half-open rune range
// inside one text node at scan time
type Span struct {
	Node  *doc.Node
	Start int
	End   int
}

// Result is the 1-based display position reported to the host UI.
// (0, 0) means no matches or no active search.
type Result struct {
	Current int
	Total   int
}

// Revealer is implemented by the host view; Reveal scrolls the document
// so the given marker is visible and centered
type Revealer interface {
	Reveal(marker *doc.Node)
}

// IsMarker reports whether n is a highlight marker element
func IsMarker(n *doc.Node) bool {
	if n.Type != doc.ElementNode || n.Tag != MarkerTag {
		return false
	}
	role, ok := n.GetAttr(attrRole)
	return ok && role == roleHighlight
}

// IsCurrent reports whether n is the marker carrying current emphasis
func IsCurrent(n *doc.Node) bool {
	_, ok := n.GetAttr(attrCurrent)
	return ok
}

// Session event types
const (
	EventSearchStarted   domain.EventType = "SearchStarted"
	EventSearchCompleted domain.EventType = "SearchCompleted"
	EventSearchNavigated domain.EventType = "SearchNavigated"
	EventSearchCleared   domain.EventType = "SearchCleared"
)

// SearchStartedEvent is emitted when a new query begins
type SearchStartedEvent struct {
	Query string
}

func (e SearchStartedEvent) Type() domain.EventType { return EventSearchStarted }

// SearchCompletedEvent is emitted once a query's markers are applied
type SearchCompletedEvent struct {
	Query      string
	MatchCount int
}

func (e SearchCompletedEvent) Type() domain.EventType { return EventSearchCompleted }

// SearchNavigatedEvent is emitted when the current match moves
type SearchNavigatedEvent struct {
	OldIndex int
	NewIndex int
}

func (e SearchNavigatedEvent) Type() domain.EventType { return EventSearchNavigated }

// SearchClearedEvent is emitted when a session ends
type SearchClearedEvent struct{}

func (e SearchClearedEvent) Type() domain.EventType { return EventSearchCleared }
