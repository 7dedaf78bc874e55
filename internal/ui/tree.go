package ui

import (
	"path/filepath"
	"sort"
	"strings"

	"markview/internal/domain"
)

// FileTree is the left pane: markdown files grouped under their
// directories. Directories with no markdown anywhere below them never
// appear, since the tree is built from the discovered file list.
type FileTree struct {
	files    map[string]domain.DocFile // keyed by RelPath
	expanded map[string]bool           // dir path -> expanded
	rows     []treeRow                 // flattened visible rows
	cursor   int
	filter   string
}

type treeRow struct {
	isDir bool
	depth int
	label string
	dir   string         // for dirs: the dir path
	file  domain.DocFile // for files
}

// NewFileTree creates an empty tree
func NewFileTree() *FileTree {
	return &FileTree{
		files:    make(map[string]domain.DocFile),
		expanded: make(map[string]bool),
	}
}

// AddFiles merges a discovered batch into the tree, keeping rows sorted.
// New directories start expanded.
func (t *FileTree) AddFiles(files []domain.DocFile) {
	for _, f := range files {
		t.files[f.RelPath] = f
		for dir := f.Dir; dir != ""; dir = parentDir(dir) {
			if _, ok := t.expanded[dir]; !ok {
				t.expanded[dir] = true
			}
		}
	}
	t.rebuild()
}

// RemoveFile drops a file from the tree (e.g. deleted on disk)
func (t *FileTree) RemoveFile(relPath string) {
	delete(t.files, relPath)
	t.rebuild()
}

// Reset clears all files, keeping expansion state
func (t *FileTree) Reset() {
	t.files = make(map[string]domain.DocFile)
	t.rows = nil
	t.cursor = 0
}

// SetFilter narrows visible files to those whose relative path contains
// the query, case-insensitively. Empty query shows everything.
func (t *FileTree) SetFilter(query string) {
	t.filter = strings.ToLower(query)
	t.rebuild()
}

// Len returns the number of visible rows
func (t *FileTree) Len() int { return len(t.rows) }

// Cursor returns the current row index
func (t *FileTree) Cursor() int { return t.cursor }

// MoveCursor moves the cursor by delta, clamped to the visible rows
func (t *FileTree) MoveCursor(delta int) {
	t.cursor += delta
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// CursorTop and CursorBottom jump to the first and last row
func (t *FileTree) CursorTop()    { t.cursor = 0 }
func (t *FileTree) CursorBottom() { t.cursor = len(t.rows) - 1 }

// SelectedFile returns the file under the cursor, if the cursor is on a file
func (t *FileTree) SelectedFile() (domain.DocFile, bool) {
	if t.cursor < 0 || t.cursor >= len(t.rows) || t.rows[t.cursor].isDir {
		return domain.DocFile{}, false
	}
	return t.rows[t.cursor].file, true
}

// Toggle expands or collapses the directory under the cursor. Returns
// true if the row was a directory.
func (t *FileTree) Toggle() bool {
	if t.cursor < 0 || t.cursor >= len(t.rows) || !t.rows[t.cursor].isDir {
		return false
	}
	dir := t.rows[t.cursor].dir
	t.expanded[dir] = !t.expanded[dir]
	t.rebuild()
	return true
}

// Rows returns the visible rows as (label, depth, isDir, selected) data
// for rendering
func (t *FileTree) Rows() []TreeRowView {
	out := make([]TreeRowView, len(t.rows))
	for i, r := range t.rows {
		label := r.label
		if r.isDir {
			arrow := "▸ "
			if t.expanded[r.dir] {
				arrow = "▾ "
			}
			label = arrow + label
		}
		out[i] = TreeRowView{
			Label:    label,
			Depth:    r.depth,
			IsDir:    r.isDir,
			Selected: i == t.cursor,
		}
	}
	return out
}

// TreeRowView is one renderable tree row
type TreeRowView struct {
	Label    string
	Depth    int
	IsDir    bool
	Selected bool
}

// rebuild recomputes the flattened visible rows
func (t *FileTree) rebuild() {
	selPath := ""
	if f, ok := t.SelectedFile(); ok {
		selPath = f.RelPath
	}

	var paths []string
	for rel := range t.files {
		if t.filter != "" && !strings.Contains(strings.ToLower(rel), t.filter) {
			continue
		}
		paths = append(paths, rel)
	}
	sort.Strings(paths)

	t.rows = nil
	emitted := make(map[string]bool)
	for _, rel := range paths {
		f := t.files[rel]
		visible := true
		// Emit ancestor dirs in order; stop descending into collapsed ones
		var ancestors []string
		for dir := f.Dir; dir != ""; dir = parentDir(dir) {
			ancestors = append([]string{dir}, ancestors...)
		}
		for _, dir := range ancestors {
			if !visible {
				break
			}
			if !emitted[dir] {
				emitted[dir] = true
				t.rows = append(t.rows, treeRow{
					isDir: true,
					depth: strings.Count(dir, string(filepath.Separator)),
					label: filepath.Base(dir),
					dir:   dir,
				})
			}
			if !t.expanded[dir] {
				visible = false
			}
		}
		if visible {
			t.rows = append(t.rows, treeRow{
				depth: strings.Count(rel, string(filepath.Separator)),
				label: f.Name,
				file:  f,
			})
		}
	}

	// Keep the cursor on the previously selected file when possible
	t.cursor = clamp(t.cursor, 0, len(t.rows)-1)
	if selPath != "" {
		for i, r := range t.rows {
			if !r.isDir && r.file.RelPath == selPath {
				t.cursor = i
				break
			}
		}
	}
}

func parentDir(dir string) string {
	p := filepath.Dir(dir)
	if p == "." {
		return ""
	}
	return p
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
