package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markview/internal/doc"
)

func parseDoc(t *testing.T, fragment string) *doc.Document {
	t.Helper()
	d, err := doc.Parse(strings.NewReader(fragment))
	require.NoError(t, err)
	return d
}

func TestScanFindsCaseInsensitiveMatches(t *testing.T) {
	d := parseDoc(t, "<p>The cat sat on the mat. CAT.</p>")

	spans := Scan(d.Root, "cat")
	require.Len(t, spans, 2)
	assert.Equal(t, 4, spans[0].Start)
	assert.Equal(t, 7, spans[0].End)
	assert.Equal(t, 24, spans[1].Start)
	assert.Equal(t, 27, spans[1].End)
	assert.Same(t, spans[0].Node, spans[1].Node)
}

func TestScanNonOverlapping(t *testing.T) {
	tests := []struct {
		text  string
		query string
		want  int
	}{
		{"aaa", "aa", 1},
		{"aaaa", "aa", 2},
		{"aaaaa", "aa", 2},
		{"abab", "aba", 1},
	}
	for _, tt := range tests {
		d := parseDoc(t, "<p>"+tt.text+"</p>")
		spans := Scan(d.Root, tt.query)
		assert.Len(t, spans, tt.want, "query %q against %q", tt.query, tt.text)

		// No two spans overlap within the same node
		for i := 1; i < len(spans); i++ {
			if spans[i].Node == spans[i-1].Node {
				assert.GreaterOrEqual(t, spans[i].Start, spans[i-1].End)
			}
		}
	}
}

func TestScanNonOverlapPositions(t *testing.T) {
	d := parseDoc(t, "<p>aaaa</p>")
	spans := Scan(d.Root, "aa")
	require.Len(t, spans, 2)
	assert.Equal(t, 0, spans[0].Start)
	assert.Equal(t, 2, spans[0].End)
	assert.Equal(t, 2, spans[1].Start)
	assert.Equal(t, 4, spans[1].End)
}

func TestScanEmptyOrWhitespaceQuery(t *testing.T) {
	d := parseDoc(t, "<p>something</p>")
	assert.Empty(t, Scan(d.Root, ""))
	assert.Empty(t, Scan(d.Root, "   "))
	assert.Empty(t, Scan(d.Root, "\t\n"))
	assert.Empty(t, Scan(nil, "x"))
}

func TestScanSkipsNonSearchableRegions(t *testing.T) {
	d := parseDoc(t, `<p>cat</p><style>cat { color: red }</style><script>var cat = 1;</script>`)

	spans := Scan(d.Root, "cat")
	require.Len(t, spans, 1)
	assert.Equal(t, "cat", spans[0].Node.Text)
}

func TestScanSkipsExistingMarkers(t *testing.T) {
	d := parseDoc(t, "<p>cat and cat</p>")

	markers, err := Apply(Scan(d.Root, "cat"))
	require.NoError(t, err)
	require.Len(t, markers, 2)

	// A defensive rescan must not look inside leftover markers; every
	// occurrence is wrapped, so nothing is found.
	assert.Empty(t, Scan(d.Root, "cat"))
}

func TestScanSpecialCharactersAreLiteral(t *testing.T) {
	d := parseDoc(t, "<p>price is $5.00 (a.c) [x] a:c</p>")

	assert.Len(t, Scan(d.Root, "$5.00"), 1)
	assert.Len(t, Scan(d.Root, "a.c"), 1, "dot must not match any character")
	assert.Len(t, Scan(d.Root, "[x]"), 1)
	assert.Empty(t, Scan(d.Root, "a(c"))
}

func TestScanDocumentOrder(t *testing.T) {
	d := parseDoc(t, "<h1>cat one</h1><p>then <em>cat</em> two</p><p>cat three</p>")

	spans := Scan(d.Root, "cat")
	require.Len(t, spans, 3)

	// Spans arrive in reading order: heading, emphasized word, last paragraph
	assert.Equal(t, "cat one", spans[0].Node.Text)
	assert.Equal(t, "cat", spans[1].Node.Text)
	assert.Equal(t, "cat three", spans[2].Node.Text)
}

func TestScanUnicode(t *testing.T) {
	d := parseDoc(t, "<p>Grüße und GRÜSSE und grüße</p>")

	spans := Scan(d.Root, "grüße")
	// "GRÜSSE" does not fold to "grüße" rune-for-rune; two matches expected
	require.Len(t, spans, 2)

	runes := []rune(spans[0].Node.Text)
	assert.Equal(t, "Grüße", string(runes[spans[0].Start:spans[0].End]))
}

func TestScanIsPure(t *testing.T) {
	d := parseDoc(t, "<p>cat cat cat</p>")
	before := d.Root.Clone()

	Scan(d.Root, "cat")
	assert.True(t, doc.Equal(before, d.Root))
}
