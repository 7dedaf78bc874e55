package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markview/internal/doc"
	"markview/internal/search"
)

func TestRenderBytesBuildsDocument(t *testing.T) {
	r := NewRenderer()

	d, err := r.RenderBytes("test.md", []byte("# Title\n\nHello *world*.\n"))
	require.NoError(t, err)
	assert.Equal(t, "test.md", d.Path)

	text := d.VisibleText()
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "Hello")
	assert.Contains(t, text, "world")

	// The heading is an element, not flattened text
	var sawH1 bool
	d.Root.Walk(func(n *doc.Node) bool {
		if n.Type == doc.ElementNode && n.Tag == "h1" {
			sawH1 = true
		}
		return true
	})
	assert.True(t, sawH1)
}

func TestRenderGFMTables(t *testing.T) {
	r := NewRenderer()

	d, err := r.RenderBytes("t.md", []byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	require.NoError(t, err)

	var sawTable bool
	d.Root.Walk(func(n *doc.Node) bool {
		if n.Type == doc.ElementNode && n.Tag == "table" {
			sawTable = true
		}
		return true
	})
	assert.True(t, sawTable, "GFM tables are enabled")
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(path, []byte("plain paragraph\n"), 0644))

	r := NewRenderer()
	d, err := r.Render(path)
	require.NoError(t, err)
	assert.Contains(t, d.VisibleText(), "plain paragraph")

	_, err = r.Render(filepath.Join(dir, "missing.md"))
	require.Error(t, err)
}

func TestExportHTML(t *testing.T) {
	r := NewRenderer()
	d, err := r.RenderBytes("page.md", []byte("# Hi\n\nA & B <tags>\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExportHTML(d, &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>page.md</title>")
	assert.Contains(t, out, "<h1>Hi</h1>")
	assert.Contains(t, out, "A &amp; B")
	assert.Contains(t, out, `mark[data-role="highlight"]`, "highlight CSS is embedded")
	assert.Contains(t, out, "@media print")
}

func TestExportHTMLIncludesMarkers(t *testing.T) {
	r := NewRenderer()
	d, err := r.RenderBytes("page.md", []byte("find the cat here\n"))
	require.NoError(t, err)

	markers, err := search.Apply(search.Scan(d.Root, "cat"))
	require.NoError(t, err)
	require.Len(t, markers, 1)

	var buf bytes.Buffer
	require.NoError(t, ExportHTML(d, &buf))
	assert.Contains(t, buf.String(), `<mark data-role="highlight">cat</mark>`)
}

func TestExportPath(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(src, []byte("# Notes\n"), 0644))

	r := NewRenderer()
	d, err := r.Render(src)
	require.NoError(t, err)

	out, err := ExportPath(d)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "notes.html"), out)

	_, err = ExportPath(&doc.Document{Root: doc.NewElement("body")})
	require.Error(t, err, "a document without a source path has no export path")
}
