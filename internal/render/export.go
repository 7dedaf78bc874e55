package render

import (
	"fmt"
	"html"
	"io"
	"path/filepath"
	"sort"

	"markview/internal/doc"
)

// exportCSS styles exported pages for reading and printing. The mark
// rules mirror the viewer's highlight contract: translucent background
// for matches, a distinct outline for the current one.
const exportCSS = `body {
  max-width: 46rem;
  margin: 2rem auto;
  padding: 0 1rem;
  font-family: -apple-system, "Segoe UI", Helvetica, Arial, sans-serif;
  line-height: 1.6;
  color: #1f2328;
}
pre {
  background: #f6f8fa;
  padding: 1rem;
  overflow-x: auto;
  border-radius: 6px;
}
code { font-family: ui-monospace, "SF Mono", Consolas, monospace; font-size: 0.9em; }
blockquote { border-left: 4px solid #d0d7de; margin-left: 0; padding-left: 1rem; color: #59636e; }
table { border-collapse: collapse; }
th, td { border: 1px solid #d0d7de; padding: 0.3rem 0.7rem; }
img { max-width: 100%; }
mark[data-role="highlight"] { background: rgba(255, 212, 0, 0.45); }
mark[data-role="highlight"][data-current] { background: rgba(255, 150, 0, 0.75); outline: 2px solid #d4700a; }
@media print {
  body { margin: 0; max-width: none; }
  pre { white-space: pre-wrap; }
}
`

// voidTags have no closing tag when serialized
var voidTags = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true,
	"meta": true, "link": true, "source": true, "wbr": true,
}

// ExportHTML writes d as a standalone styled HTML page. The output is
// print-ready; producing a PDF from it is left to the host's print
// pipeline.
func ExportHTML(d *doc.Document, w io.Writer) error {
	title := filepath.Base(d.Path)
	if title == "." {
		title = "document"
	}
	if _, err := fmt.Fprintf(w,
		"<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n<style>\n%s</style>\n</head>\n<body>\n",
		html.EscapeString(title), exportCSS); err != nil {
		return err
	}
	for _, c := range d.Root.Children {
		if err := writeNode(w, c); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n</body>\n</html>\n")
	return err
}

// ExportPath returns the sibling .html path the export of d belongs at
func ExportPath(d *doc.Document) (string, error) {
	if d.Path == "" {
		return "", fmt.Errorf("document has no source path")
	}
	return d.Path[:len(d.Path)-len(filepath.Ext(d.Path))] + ".html", nil
}

func writeNode(w io.Writer, n *doc.Node) error {
	if n.Type == doc.TextNode {
		_, err := io.WriteString(w, html.EscapeString(n.Text))
		return err
	}

	if _, err := fmt.Fprintf(w, "<%s", n.Tag); err != nil {
		return err
	}
	keys := make([]string, 0, len(n.Attr))
	for k := range n.Attr {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(w, " %s=\"%s\"", k, html.EscapeString(n.Attr[k])); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	if voidTags[n.Tag] {
		return nil
	}
	for _, c := range n.Children {
		if err := writeNode(w, c); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "</%s>", n.Tag)
	return err
}
