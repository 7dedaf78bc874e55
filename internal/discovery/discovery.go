package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gobwas/glob"

	"markview/internal/domain"
	"markview/internal/eventbus"
)

const batchSize = 50

// Service finds markdown documents in the filesystem
type Service interface {
	StartScan(ctx context.Context, root string) error
	StopScan()
}

// service is the concrete implementation
type service struct {
	bus        eventbus.EventBus
	patterns   []glob.Glob
	showHidden bool
	mu         sync.Mutex
	isScanning bool
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewService creates a new discovery service. Patterns are matched against
// file base names; invalid patterns are skipped with a log line.
func NewService(bus eventbus.EventBus, patterns []string, showHidden bool) Service {
	ds := &service{
		bus:        bus,
		showHidden: showHidden,
	}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			log.Printf("Ignoring invalid include pattern %q: %v", p, err)
			continue
		}
		ds.patterns = append(ds.patterns, g)
	}

	// Subscribe to scan requests
	bus.Subscribe(eventbus.EventScanRequested, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.ScanRequestedEvent); ok {
			go ds.StartScan(context.Background(), event.Root)
		}
	})

	return ds
}

// StartScan starts scanning for markdown documents under root
func (ds *service) StartScan(ctx context.Context, root string) error {
	ds.mu.Lock()
	if ds.isScanning {
		ds.mu.Unlock()
		return fmt.Errorf("scan already in progress")
	}
	ds.isScanning = true

	scanCtx, cancel := context.WithCancel(ctx)
	ds.cancelFunc = cancel
	ds.mu.Unlock()

	ds.bus.Publish(eventbus.ScanStartedEvent{Root: root})

	ds.wg.Add(1)
	go func() {
		defer ds.wg.Done()
		defer func() {
			ds.mu.Lock()
			ds.isScanning = false
			ds.cancelFunc = nil
			ds.mu.Unlock()
		}()

		found := ds.scanRoot(scanCtx, root)
		ds.bus.Publish(eventbus.ScanCompletedEvent{FilesFound: found})
	}()

	return nil
}

// StopScan cancels any in-progress scan and waits for it to finish
func (ds *service) StopScan() {
	ds.mu.Lock()
	if ds.cancelFunc != nil {
		ds.cancelFunc()
	}
	ds.mu.Unlock()
	ds.wg.Wait()
}

// scanRoot walks the tree under root, publishing matches in batches.
// Returns the number of files found.
func (ds *service) scanRoot(ctx context.Context, root string) int {
	var batch []domain.DocFile
	total := 0

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ds.bus.Publish(eventbus.FilesDiscoveredBatchEvent{Files: batch})
		batch = nil
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("Scan error at %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		name := d.Name()
		if d.IsDir() {
			if path != root && !ds.showHidden && strings.HasPrefix(name, ".") {
				return fs.SkipDir
			}
			return nil
		}
		if !ds.showHidden && strings.HasPrefix(name, ".") {
			return nil
		}
		if !ds.matches(name) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = name
		}
		dir := filepath.Dir(rel)
		if dir == "." {
			dir = ""
		}

		batch = append(batch, domain.DocFile{
			Path:    path,
			RelPath: rel,
			Name:    name,
			Dir:     dir,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		total++
		if len(batch) >= batchSize {
			flush()
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		ds.bus.Publish(eventbus.ErrorEvent{Message: "scan failed", Err: err})
	}

	flush()
	return total
}

func (ds *service) matches(name string) bool {
	lower := strings.ToLower(name)
	for _, g := range ds.patterns {
		if g.Match(lower) {
			return true
		}
	}
	return false
}
