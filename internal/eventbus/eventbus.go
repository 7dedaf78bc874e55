package eventbus

import (
	"log"
	"runtime/debug"
	"sync"

	"markview/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventFilesDiscoveredBatch = domain.EventFilesDiscoveredBatch
	EventScanStarted          = domain.EventScanStarted
	EventScanCompleted        = domain.EventScanCompleted
	EventScanRequested        = domain.EventScanRequested
	EventFileChanged          = domain.EventFileChanged
	EventFileRemoved          = domain.EventFileRemoved
	EventWatchError           = domain.EventWatchError
	EventConfigLoaded         = domain.EventConfigLoaded
	EventConfigSaved          = domain.EventConfigSaved
	EventError                = domain.EventError
)

// Re-export domain event types
type FilesDiscoveredBatchEvent = domain.FilesDiscoveredBatchEvent
type ScanStartedEvent = domain.ScanStartedEvent
type ScanCompletedEvent = domain.ScanCompletedEvent
type ScanRequestedEvent = domain.ScanRequestedEvent
type FileChangedEvent = domain.FileChangedEvent
type FileRemovedEvent = domain.FileRemovedEvent
type WatchErrorEvent = domain.WatchErrorEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent
type ErrorEvent = domain.ErrorEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]EventHandler
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]EventHandler),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	// Start the event dispatcher
	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	select {
	case b.eventChan <- event:
		// Event sent successfully
	default:
		// Channel full, log and drop
		log.Printf("Event bus channel full, dropping event: %v", event.Type())
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function.
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	idx := len(b.handlers[eventType]) - 1

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		handlers := b.handlers[eventType]
		if idx < len(handlers) {
			b.handlers[eventType] = append(handlers[:idx], handlers[idx+1:]...)
		}
	}
}

// Close stops the dispatcher and waits for in-flight events to drain
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
	})
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			handlers := make([]EventHandler, len(b.handlers[event.Type()]))
			copy(handlers, b.handlers[event.Type()])
			b.mu.RUnlock()

			for _, handler := range handlers {
				b.safeInvoke(handler, event)
			}
		case <-b.quit:
			return
		}
	}
}

// safeInvoke calls a handler, recovering from panics so one bad
// subscriber cannot take down the dispatcher
func (b *bus) safeInvoke(handler EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Event handler panicked on %s: %v\n%s", event.Type(), r, debug.Stack())
		}
	}()
	handler(event)
}
