package search

import (
	"fmt"

	"markview/internal/doc"
)

// Cursor tracks which marker is the current match and moves between
// markers with modular wraparound. Exactly one marker carries current
// emphasis while markers exist; none do when the set is empty.
type Cursor struct {
	markers  []*doc.Node
	current  int
	revealer Revealer
}

// NewCursor creates a cursor over markers. The caller emphasizes the
// first match via SetCurrent(0) when any markers exist.
func NewCursor(markers []*doc.Node, revealer Revealer) *Cursor {
	return &Cursor{markers: markers, revealer: revealer}
}

// SetCurrent moves current emphasis to markers[index] and asks the host
// to scroll it into view. No-op when the marker set is empty.
func (c *Cursor) SetCurrent(index int) error {
	if len(c.markers) == 0 {
		return nil
	}
	if index < 0 || index >= len(c.markers) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(c.markers))
	}

	c.markers[c.current].DelAttr(attrCurrent)
	c.current = index
	c.markers[c.current].SetAttr(attrCurrent, "true")

	if c.revealer != nil {
		c.revealer.Reveal(c.markers[c.current])
	}
	return nil
}

// Next advances to the following match, wrapping to the first after the
// last, and returns the 1-based display position
func (c *Cursor) Next() (Result, error) {
	if len(c.markers) == 0 {
		return Result{}, nil
	}
	if err := c.SetCurrent((c.current + 1) % len(c.markers)); err != nil {
		return Result{}, err
	}
	return c.Result(), nil
}

// Previous moves to the preceding match, wrapping to the last before the
// first
func (c *Cursor) Previous() (Result, error) {
	if len(c.markers) == 0 {
		return Result{}, nil
	}
	if err := c.SetCurrent((c.current - 1 + len(c.markers)) % len(c.markers)); err != nil {
		return Result{}, err
	}
	return c.Result(), nil
}

// Index returns the 0-based current index; meaningful only when markers exist
func (c *Cursor) Index() int {
	return c.current
}

// Result returns the 1-based display position, (0, 0) when empty
func (c *Cursor) Result() Result {
	if len(c.markers) == 0 {
		return Result{}
	}
	return Result{Current: c.current + 1, Total: len(c.markers)}
}
