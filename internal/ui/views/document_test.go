package views

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markview/internal/doc"
	"markview/internal/search"
)

// plainStyles renders without any terminal attributes so lines can be
// compared as plain strings.
func plainStyles() *Styles { return &Styles{} }

func parseDoc(t *testing.T, fragment string) *doc.Document {
	t.Helper()
	d, err := doc.Parse(strings.NewReader(fragment))
	require.NoError(t, err)
	return d
}

func TestLayoutNilDocument(t *testing.T) {
	l := LayoutDocument(nil, 80, plainStyles())
	assert.Empty(t, l.Lines)
	assert.Empty(t, l.MarkerLines)
}

func TestLayoutHeadingAndParagraph(t *testing.T) {
	d := parseDoc(t, "<h1>Title</h1><p>hello world</p>")
	l := LayoutDocument(d, 80, plainStyles())

	assert.Equal(t, []string{"Title", "", "hello world", ""}, l.Lines)
}

func TestLayoutWordWrap(t *testing.T) {
	d := parseDoc(t, "<p>aaaa bbbb cccc</p>")
	l := LayoutDocument(d, 12, plainStyles())

	assert.Equal(t, []string{"aaaa bbbb", "cccc", ""}, l.Lines)
}

func TestLayoutSpaceBetweenInlineRuns(t *testing.T) {
	// The space between "hello" and the strong run must survive the
	// element boundary.
	d := parseDoc(t, "<p>hello <strong>world</strong></p>")
	l := LayoutDocument(d, 80, plainStyles())

	require.NotEmpty(t, l.Lines)
	assert.Equal(t, "hello world", l.Lines[0])
}

func TestLayoutList(t *testing.T) {
	d := parseDoc(t, "<ul><li>one</li><li>two</li></ul>")
	l := LayoutDocument(d, 80, plainStyles())

	assert.Equal(t, []string{"• one", "• two", ""}, l.Lines)
}

func TestLayoutOrderedListNumbers(t *testing.T) {
	d := parseDoc(t, "<ol><li>first</li><li>second</li></ol>")
	l := LayoutDocument(d, 80, plainStyles())

	assert.Equal(t, []string{"1. first", "2. second", ""}, l.Lines)
}

func TestLayoutPrePreservesNewlines(t *testing.T) {
	d := parseDoc(t, "<pre><code>line one\nline two</code></pre>")
	l := LayoutDocument(d, 80, plainStyles())

	assert.Equal(t, []string{"line one", "line two", ""}, l.Lines)
}

func TestLayoutBlockquotePrefix(t *testing.T) {
	d := parseDoc(t, "<blockquote><p>quoted</p></blockquote>")
	l := LayoutDocument(d, 80, plainStyles())

	require.NotEmpty(t, l.Lines)
	assert.Equal(t, "│ quoted", l.Lines[0])
}

func TestLayoutImageAltText(t *testing.T) {
	d := parseDoc(t, `<p><img src="x.png" alt="diagram"></p>`)
	l := LayoutDocument(d, 80, plainStyles())

	require.NotEmpty(t, l.Lines)
	assert.Equal(t, "[diagram]", l.Lines[0])
}

func TestLayoutSkipsScript(t *testing.T) {
	d := parseDoc(t, "<p>visible<script>hidden()</script></p>")
	l := LayoutDocument(d, 80, plainStyles())

	for _, line := range l.Lines {
		assert.NotContains(t, line, "hidden")
	}
}

func TestLayoutRecordsMarkerLines(t *testing.T) {
	d := parseDoc(t, "<h1>Intro</h1><p>the cat sat</p><p>another cat here</p>")
	spans := search.Scan(d.Root, "cat")
	markers, err := search.Apply(spans)
	require.NoError(t, err)
	require.Len(t, markers, 2)

	l := LayoutDocument(d, 80, plainStyles())

	require.Len(t, l.MarkerLines, 2)
	first, ok := l.MarkerLines[markers[0]]
	require.True(t, ok)
	second, ok := l.MarkerLines[markers[1]]
	require.True(t, ok)
	assert.Less(t, first, second, "markers on later lines record later positions")

	// The recorded line actually contains the match text
	assert.Contains(t, l.Lines[first], "cat")
	assert.Contains(t, l.Lines[second], "cat")
}

func TestLayoutMarkerRecordedOnceWhenWrapped(t *testing.T) {
	d := parseDoc(t, "<p>aaaa bbbb target cccc</p>")
	spans := search.Scan(d.Root, "target")
	markers, err := search.Apply(spans)
	require.NoError(t, err)
	require.Len(t, markers, 1)

	// Narrow enough that the match lands past the first line
	l := LayoutDocument(d, 10, plainStyles())

	line, ok := l.MarkerLines[markers[0]]
	require.True(t, ok)
	assert.Contains(t, l.Lines[line], "target")
}

func TestLayoutTableRows(t *testing.T) {
	d := parseDoc(t, "<table><tr><th>Name</th><th>Age</th></tr><tr><td>Ada</td><td>36</td></tr></table>")
	l := LayoutDocument(d, 80, plainStyles())

	require.GreaterOrEqual(t, len(l.Lines), 2)
	assert.Equal(t, "Name │ Age", l.Lines[0])
	assert.Equal(t, "Ada │ 36", l.Lines[1])
}

func TestLayoutMinimumWidth(t *testing.T) {
	d := parseDoc(t, "<p>some words here</p>")
	// Absurdly small widths are clamped rather than looping forever
	l := LayoutDocument(d, 0, plainStyles())
	assert.NotEmpty(t, l.Lines)
}
