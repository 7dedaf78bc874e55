// Package render converts markdown files into document trees and exports
// rendered documents as standalone HTML pages.
package render

import (
	"bytes"
	"fmt"
	"os"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"markview/internal/doc"
)

// Renderer converts markdown source into document trees
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a CommonMark-compliant renderer with GitHub
// extensions enabled
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render reads the markdown file at path and returns its document tree
func (r *Renderer) Render(path string) (*doc.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return r.RenderBytes(path, src)
}

// RenderBytes converts markdown source into a document tree
func (r *Renderer) RenderBytes(path string, src []byte) (*doc.Document, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("converting %s: %w", path, err)
	}

	d, err := doc.Parse(&buf)
	if err != nil {
		return nil, fmt.Errorf("building document for %s: %w", path, err)
	}
	d.Path = path
	return d, nil
}
