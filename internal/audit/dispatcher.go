package audit

import (
	"context"
	"sync"
	"sync/atomic"
)

// Config controls dispatcher buffering behavior.
type Config struct {
	Enabled    bool
	BufferSize int
	// DropIfFull discards events instead of blocking the caller when the
	// queue is saturated. Discards are counted in Dropped.
	DropIfFull bool
}

// Dispatcher moves events off the request path onto a single relay
// goroutine that feeds the sink. A nil *Dispatcher is valid and inert.
type Dispatcher struct {
	sink       Sink
	dropIfFull bool

	// mu guards queue against a send racing Close.
	mu      sync.RWMutex
	queue   chan Event
	closing bool

	relayDone chan struct{}
	dropped   atomic.Uint64
}

// NewDispatcher returns nil when cfg is disabled.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		sink:       sink,
		dropIfFull: cfg.DropIfFull,
		queue:      make(chan Event, max(cfg.BufferSize, 1)),
		relayDone:  make(chan struct{}),
	}
	go d.relay()
	return d
}

// relay exits once Close has closed the queue and every buffered event has
// been delivered.
func (d *Dispatcher) relay() {
	defer close(d.relayDone)
	ctx := context.Background()
	for event := range d.queue {
		d.sink.Emit(ctx, event)
	}
}

// Emit queues event for the sink. Events offered after Close are ignored.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closing {
		return
	}

	if d.dropIfFull {
		select {
		case d.queue <- event:
		default:
			d.dropped.Add(1)
		}
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case d.queue <- event:
	case <-ctx.Done():
		d.dropped.Add(1)
	}
}

// Close stops intake and waits for the relay to flush the queue. It is safe
// to call more than once.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closing {
		d.closing = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.relayDone
}

// Dropped reports events lost to a full queue or a cancelled caller.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
