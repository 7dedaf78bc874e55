package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markview/internal/doc"
)

// recordingRevealer remembers every marker revealed
type recordingRevealer struct {
	revealed []*doc.Node
}

func (r *recordingRevealer) Reveal(marker *doc.Node) {
	r.revealed = append(r.revealed, marker)
}

func applyMarkers(t *testing.T, fragment, query string) []*doc.Node {
	t.Helper()
	d := parseDoc(t, fragment)
	markers, err := Apply(Scan(d.Root, query))
	require.NoError(t, err)
	return markers
}

func countCurrent(markers []*doc.Node) int {
	n := 0
	for _, m := range markers {
		if IsCurrent(m) {
			n++
		}
	}
	return n
}

func TestCursorSetCurrent(t *testing.T) {
	markers := applyMarkers(t, "<p>cat cat cat</p>", "cat")
	rev := &recordingRevealer{}
	c := NewCursor(markers, rev)

	require.NoError(t, c.SetCurrent(0))
	assert.True(t, IsCurrent(markers[0]))
	assert.Equal(t, 1, countCurrent(markers), "exactly one marker carries emphasis")
	assert.Equal(t, []*doc.Node{markers[0]}, rev.revealed)

	require.NoError(t, c.SetCurrent(2))
	assert.False(t, IsCurrent(markers[0]))
	assert.True(t, IsCurrent(markers[2]))
	assert.Equal(t, 1, countCurrent(markers))
}

func TestCursorSetCurrentOutOfRange(t *testing.T) {
	markers := applyMarkers(t, "<p>cat</p>", "cat")
	c := NewCursor(markers, nil)

	require.ErrorIs(t, c.SetCurrent(1), ErrIndexOutOfRange)
	require.ErrorIs(t, c.SetCurrent(-1), ErrIndexOutOfRange)
}

func TestCursorEmptyNoOps(t *testing.T) {
	c := NewCursor(nil, nil)

	require.NoError(t, c.SetCurrent(5), "no-op when the marker set is empty")

	res, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	res, err = c.Previous()
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	assert.Equal(t, Result{}, c.Result())
}

func TestCursorWraparound(t *testing.T) {
	markers := applyMarkers(t, "<p>cat cat cat</p>", "cat")
	c := NewCursor(markers, nil)
	require.NoError(t, c.SetCurrent(0))

	// Calling Next exactly total times returns to match 1
	for i := 0; i < len(markers); i++ {
		_, err := c.Next()
		require.NoError(t, err)
	}
	assert.Equal(t, Result{Current: 1, Total: 3}, c.Result())

	// Previous from match 1 lands on the last match
	res, err := c.Previous()
	require.NoError(t, err)
	assert.Equal(t, Result{Current: 3, Total: 3}, res)
	assert.True(t, IsCurrent(markers[2]))
}

func TestCursorResultsAreOneBased(t *testing.T) {
	markers := applyMarkers(t, "<p>cat cat</p>", "cat")
	c := NewCursor(markers, nil)
	require.NoError(t, c.SetCurrent(0))

	assert.Equal(t, Result{Current: 1, Total: 2}, c.Result())

	res, err := c.Next()
	require.NoError(t, err)
	assert.Equal(t, Result{Current: 2, Total: 2}, res)
}
