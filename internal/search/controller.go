package search

import (
	"log"
	"strings"

	"markview/internal/doc"
	"markview/internal/eventbus"
)

// Controller orchestrates one search session per open document: start
// query, highlight, navigate, clear. It owns exactly one reference to the
// active document, replaced atomically on document swap with the old
// session torn down first.
//
// All methods run synchronously on the host's UI goroutine; the
// controller is not safe for concurrent use.
type Controller struct {
	bus      eventbus.EventBus
	revealer Revealer

	document *doc.Document
	query    string
	markers  []*doc.Node
	cursor   *Cursor
}

// NewController creates a controller with no document attached
func NewController(bus eventbus.EventBus) *Controller {
	return &Controller{bus: bus}
}

// SetRevealer installs the host view used to scroll matches into view
func (c *Controller) SetRevealer(r Revealer) {
	c.revealer = r
	if c.cursor != nil {
		c.cursor.revealer = r
	}
}

// SetDocument installs a new document, tearing down any session against
// the previous tree first so no marker outlives its document. Pass nil
// when the view empties.
func (c *Controller) SetDocument(d *doc.Document) {
	c.Clear()
	c.document = d
}

// Document returns the currently attached document, nil if none
func (c *Controller) Document() *doc.Document {
	return c.document
}

// Active reports whether a session with markers is in progress
func (c *Controller) Active() bool {
	return len(c.markers) > 0
}

// Query returns the active session's query, "" when idle
func (c *Controller) Query() string {
	return c.query
}

// Search starts a new session for query, implicitly clearing any prior
// session. An empty or whitespace-only query is treated as Clear. With
// no document attached the call is a no-op reporting (0, 0).
func (c *Controller) Search(query string) Result {
	c.Clear()
	if c.document == nil {
		return Result{}
	}
	if strings.TrimSpace(query) == "" {
		return Result{}
	}

	c.bus.Publish(SearchStartedEvent{Query: query})

	spans := Scan(c.document.Root, query)
	markers, err := Apply(spans)
	if err != nil {
		// Tree mutated out from under us: discard the session and
		// report zero matches instead of propagating a crash.
		log.Printf("Search self-healing after apply failure: %v", err)
		c.markers = markers
		c.selfHeal()
		c.bus.Publish(SearchCompletedEvent{Query: query, MatchCount: 0})
		return Result{}
	}

	c.bus.Publish(SearchCompletedEvent{Query: query, MatchCount: len(markers)})

	if len(markers) == 0 {
		return Result{}
	}

	c.query = query
	c.markers = markers
	c.cursor = NewCursor(markers, c.revealer)
	if err := c.cursor.SetCurrent(0); err != nil {
		log.Printf("Search self-healing after cursor failure: %v", err)
		c.selfHeal()
		return Result{}
	}
	return c.cursor.Result()
}

// Next moves to the next match with wraparound
func (c *Controller) Next() Result {
	if c.cursor == nil {
		return Result{}
	}
	old := c.cursor.Index()
	res, err := c.cursor.Next()
	if err != nil {
		log.Printf("Search self-healing after navigation failure: %v", err)
		c.selfHeal()
		return Result{}
	}
	c.bus.Publish(SearchNavigatedEvent{OldIndex: old, NewIndex: c.cursor.Index()})
	return res
}

// Previous moves to the previous match with wraparound
func (c *Controller) Previous() Result {
	if c.cursor == nil {
		return Result{}
	}
	old := c.cursor.Index()
	res, err := c.cursor.Previous()
	if err != nil {
		log.Printf("Search self-healing after navigation failure: %v", err)
		c.selfHeal()
		return Result{}
	}
	c.bus.Publish(SearchNavigatedEvent{OldIndex: old, NewIndex: c.cursor.Index()})
	return res
}

// Clear restores the document to its pre-search state and resets all
// session state. Idempotent: clearing an idle controller is a no-op.
func (c *Controller) Clear() {
	if len(c.markers) == 0 {
		return
	}
	if err := Restore(c.markers); err != nil {
		log.Printf("Search self-healing after restore failure: %v", err)
	}
	c.discard()
	c.bus.Publish(SearchClearedEvent{})
}

// selfHeal tears markers out of the tree on a best-effort basis and
// resets state after an internal-consistency failure
func (c *Controller) selfHeal() {
	if len(c.markers) > 0 {
		if err := Restore(c.markers); err != nil {
			log.Printf("Search restore during self-heal failed: %v", err)
		}
	}
	c.discard()
}

// discard drops session state without touching the tree
func (c *Controller) discard() {
	c.query = ""
	c.markers = nil
	c.cursor = nil
}
