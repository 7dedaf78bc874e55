package search

import (
	"fmt"

	"markview/internal/doc"
)

// Apply wraps each span's matched characters in a marker element,
// returning the markers in document order. The concatenated visible text
// of the document is unchanged: each host text node is split into
// before-text, marker and after-text fragments whose contents join back
// to the original.
//
// Spans must come from Scan against the current tree; a span whose text
// node has been detached in the meantime is a contract violation.
func Apply(spans []Span) ([]*doc.Node, error) {
	if len(spans) == 0 {
		return nil, nil
	}

	markers := make([]*doc.Node, 0, len(spans))

	// Spans arrive in document order, so spans sharing a text node are
	// contiguous and sorted ascending. Process each node's run in a
	// single left-to-right pass.
	for i := 0; i < len(spans); {
		j := i
		for j < len(spans) && spans[j].Node == spans[i].Node {
			j++
		}
		nodeMarkers, err := applyToNode(spans[i].Node, spans[i:j])
		if err != nil {
			// Markers applied so far are returned so the caller can
			// unwind them.
			return markers, err
		}
		markers = append(markers, nodeMarkers...)
		i = j
	}

	return markers, nil
}

// applyToNode replaces one text node with the fragment sequence carved
// out by its spans
func applyToNode(n *doc.Node, spans []Span) ([]*doc.Node, error) {
	if n.Parent == nil {
		return nil, fmt.Errorf("%w: text node for %q", ErrDetachedNode, n.Text)
	}

	runes := []rune(n.Text)
	var fragments []*doc.Node
	markers := make([]*doc.Node, 0, len(spans))

	cursor := 0
	for _, s := range spans {
		if s.Start < cursor || s.End < s.Start || s.End > len(runes) {
			return nil, fmt.Errorf("span [%d,%d) invalid at cursor %d in text of length %d",
				s.Start, s.End, cursor, len(runes))
		}
		if s.Start > cursor {
			fragments = append(fragments, doc.NewText(string(runes[cursor:s.Start])))
		}
		marker := doc.NewElement(MarkerTag)
		marker.SetAttr(attrRole, roleHighlight)
		marker.AppendChild(doc.NewText(string(runes[s.Start:s.End])))
		fragments = append(fragments, marker)
		markers = append(markers, marker)
		cursor = s.End
	}
	if cursor < len(runes) {
		fragments = append(fragments, doc.NewText(string(runes[cursor:])))
	}

	if err := n.ReplaceWith(fragments...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetachedNode, err)
	}
	return markers, nil
}

// Restore is the exact inverse of Apply: each marker is replaced by a
// plain text node holding its content, and adjacent text siblings are
// merged so the tree returns to its pre-Apply structure. Text node
// identity is not preserved, only content and structure.
func Restore(markers []*doc.Node) error {
	parents := make(map[*doc.Node]bool)

	for _, marker := range markers {
		if marker.Parent == nil {
			return fmt.Errorf("%w: marker already removed", ErrDetachedNode)
		}
		parents[marker.Parent] = true
		if err := marker.ReplaceWith(doc.NewText(markerText(marker))); err != nil {
			return fmt.Errorf("%w: %v", ErrDetachedNode, err)
		}
	}

	for parent := range parents {
		parent.MergeAdjacentText()
	}
	return nil
}

// markerText returns the matched characters a marker wraps
func markerText(marker *doc.Node) string {
	text := ""
	for _, c := range marker.Children {
		if c.Type == doc.TextNode {
			text += c.Text
		}
	}
	return text
}
