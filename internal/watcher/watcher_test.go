package watcher

import (
	"sync"
	"testing"
	"time"

	"github.com/rjeczalik/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markview/internal/eventbus"
)

// fakeEvent implements notify.EventInfo for tests
type fakeEvent struct {
	ev   notify.Event
	path string
}

func (f fakeEvent) Event() notify.Event { return f.ev }
func (f fakeEvent) Path() string        { return f.path }
func (f fakeEvent) Sys() interface{}    { return nil }

func TestDebounceCoalescesBursts(t *testing.T) {
	in := make(chan notify.EventInfo)
	done := make(chan struct{})
	defer close(done)
	out := debounceEvents(50*time.Millisecond, in, done)

	for i := 0; i < 5; i++ {
		in <- fakeEvent{ev: notify.Write, path: "/f"}
	}

	select {
	case batch := <-out:
		assert.Len(t, batch, 5, "burst arrives as one batch")
	case <-time.After(time.Second):
		t.Fatal("no debounced batch arrived")
	}

	// Quiet period: nothing further
	select {
	case batch := <-out:
		t.Fatalf("unexpected extra batch: %v", batch)
	case <-time.After(150 * time.Millisecond):
	}
	close(in)
}

func TestDebounceWaitsForSlowConsumer(t *testing.T) {
	in := make(chan notify.EventInfo)
	done := make(chan struct{})
	defer close(done)
	out := debounceEvents(10*time.Millisecond, in, done)

	in <- fakeEvent{ev: notify.Write, path: "/f"}

	// Stay away from the channel well past the quiet window; the batch
	// must still be waiting for us.
	time.Sleep(100 * time.Millisecond)

	select {
	case batch := <-out:
		require.Len(t, batch, 1)
	case <-time.After(time.Second):
		t.Fatal("batch was dropped while the consumer was busy")
	}
}

type eventRecorder struct {
	mu      sync.Mutex
	changed []string
	removed []string
}

func newEventRecorder(bus eventbus.EventBus) *eventRecorder {
	r := &eventRecorder{}
	bus.Subscribe(eventbus.EventFileChanged, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.FileChangedEvent); ok {
			r.mu.Lock()
			r.changed = append(r.changed, ev.Path)
			r.mu.Unlock()
		}
	})
	bus.Subscribe(eventbus.EventFileRemoved, func(e eventbus.DomainEvent) {
		if ev, ok := e.(eventbus.FileRemovedEvent); ok {
			r.mu.Lock()
			r.removed = append(r.removed, ev.Path)
			r.mu.Unlock()
		}
	})
	return r
}

func TestRunPublishesChange(t *testing.T) {
	bus := eventbus.New()
	t.Cleanup(bus.Close)
	rec := newEventRecorder(bus)

	ws := NewService(bus, time.Millisecond).(*service)
	batches := make(chan []notify.EventInfo)
	done := make(chan struct{})
	defer close(done)
	go ws.run("/doc.md", batches, done)

	batches <- []notify.EventInfo{fakeEvent{ev: notify.Write, path: "/doc.md"}}

	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.changed) == 1
	}, time.Second, 5*time.Millisecond)

	rec.mu.Lock()
	assert.Equal(t, []string{"/doc.md"}, rec.changed)
	assert.Empty(t, rec.removed)
	rec.mu.Unlock()
}

func TestRunTreatsRemovalAsDistinctCondition(t *testing.T) {
	bus := eventbus.New()
	t.Cleanup(bus.Close)
	rec := newEventRecorder(bus)

	ws := NewService(bus, time.Millisecond).(*service)
	batches := make(chan []notify.EventInfo)
	done := make(chan struct{})
	defer close(done)
	go ws.run("/doc.md", batches, done)

	// A burst that includes a remove means the file is gone, even if
	// writes preceded it
	batches <- []notify.EventInfo{
		fakeEvent{ev: notify.Write, path: "/doc.md"},
		fakeEvent{ev: notify.Remove, path: "/doc.md"},
	}

	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.removed) == 1
	}, time.Second, 5*time.Millisecond)

	rec.mu.Lock()
	assert.Empty(t, rec.changed, "removal wins over change within one batch")
	rec.mu.Unlock()

	// The watcher stopped itself: further batches are not consumed
	select {
	case batches <- []notify.EventInfo{fakeEvent{ev: notify.Write, path: "/doc.md"}}:
		t.Fatal("run should have exited after removal")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStopWithoutWatchIsNoOp(t *testing.T) {
	bus := eventbus.New()
	t.Cleanup(bus.Close)

	ws := NewService(bus, time.Millisecond)
	ws.Stop()
	ws.Stop()
}
