package domain

import "time"

// DocFile represents a markdown document found on disk
type DocFile struct {
	Path    string // absolute path
	RelPath string // path relative to the scan root
	Name    string // base name
	Dir     string // directory part of RelPath, "" at the root
	Size    int64
	ModTime time.Time
}
