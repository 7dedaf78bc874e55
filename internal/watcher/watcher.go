package watcher

import (
	"log"
	"sync"
	"time"

	"github.com/rjeczalik/notify"

	"markview/internal/eventbus"
)

// Service watches the currently open document for external changes.
// At most one path is watched at a time; calling Watch replaces the
// previous watch.
type Service interface {
	Watch(path string) error
	Stop()
}

type service struct {
	bus      eventbus.EventBus
	debounce time.Duration
	mu       sync.Mutex
	path     string
	events   chan notify.EventInfo
	done     chan struct{}
}

// NewService creates a new watch service with the given debounce interval
func NewService(bus eventbus.EventBus, debounce time.Duration) Service {
	return &service{
		bus:      bus,
		debounce: debounce,
	}
}

// Watch begins watching path, replacing any previous watch
func (ws *service) Watch(path string) error {
	ws.Stop()

	ws.mu.Lock()
	defer ws.mu.Unlock()

	c := make(chan notify.EventInfo, 16)
	if err := notify.Watch(path, c, notify.All); err != nil {
		ws.bus.Publish(eventbus.WatchErrorEvent{Path: path, Err: err})
		return err
	}

	done := make(chan struct{})
	ws.path = path
	ws.events = c
	ws.done = done

	go ws.run(path, debounceEvents(ws.debounce, c, done), done)
	return nil
}

// Stop stops any active watch
func (ws *service) Stop() {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if ws.events == nil {
		return
	}
	notify.Stop(ws.events)
	close(ws.done)
	close(ws.events)
	ws.path = ""
	ws.events = nil
	ws.done = nil
}

// run consumes debounced event batches for one watched path until stopped.
// A batch containing a remove or rename means the file is gone: the watch
// stops itself and the removal is surfaced as a distinct condition.
func (ws *service) run(path string, batches <-chan []notify.EventInfo, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case batch, ok := <-batches:
			if !ok {
				return
			}
			removed := false
			for _, ev := range batch {
				if ev.Event()&(notify.Remove|notify.Rename) != 0 {
					removed = true
					break
				}
			}
			if removed {
				log.Printf("Watched file removed: %s", path)
				ws.Stop()
				ws.bus.Publish(eventbus.FileRemovedEvent{Path: path})
				return
			}
			ws.bus.Publish(eventbus.FileChangedEvent{Path: path})
		}
	}
}

type debounced struct {
	mu      sync.Mutex
	coll    []notify.EventInfo
	waiting bool
}

// debounceEvents coalesces bursts of filesystem events, forwarding each
// burst as one batch after dur of quiet. Delivery blocks until the
// consumer takes the batch or done closes, so a busy consumer delays a
// reload but never loses one.
func debounceEvents(dur time.Duration, c <-chan notify.EventInfo, done <-chan struct{}) <-chan []notify.EventInfo {
	d := &debounced{}
	out := make(chan []notify.EventInfo)

	go func() {
		for ev := range c {
			d.mu.Lock()
			d.coll = append(d.coll, ev)
			if d.waiting {
				d.mu.Unlock()
				continue
			}
			d.waiting = true
			d.mu.Unlock()

			go func() {
				time.Sleep(dur)

				d.mu.Lock()
				batch := d.coll
				d.coll = nil
				d.waiting = false
				d.mu.Unlock()

				select {
				case out <- batch:
				case <-done:
				}
			}()
		}
	}()

	return out
}
