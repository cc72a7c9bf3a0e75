package protocol

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkrahn/vibesync/internal/events"
)

// Transport delivers one encoded event to the external bridge.
type Transport interface {
	Send(payload []byte) error
	Kind() string
}

// Stats counts dispatch outcomes since startup.
type Stats struct {
	Sent    int64
	Failed  int64
	Dropped int64
}

// Dispatcher queues outbound events to a single sender goroutine. Order is
// preserved, nothing is coalesced, and a transport failure never reaches
// the caller: it is reported on the diagnostic stream and swallowed.
type Dispatcher struct {
	transport Transport
	queue     chan Event
	now       func() time.Time

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup

	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

// NewDispatcher starts a dispatcher over the given transport.
func NewDispatcher(transport Transport) *Dispatcher {
	d := &Dispatcher{
		transport: transport,
		queue:     make(chan Event, 256),
		now:       time.Now,
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// Dispatch hands an event to the sender. It never blocks: if the queue is
// full the event is dropped with a diagnostic.
func (d *Dispatcher) Dispatch(e Event) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	select {
	case d.queue <- e:
		d.mu.Unlock()
	default:
		d.mu.Unlock()
		d.dropped.Add(1)
		events.Emit("warning", "bridge.error", "dispatch queue full, event dropped", map[string]interface{}{
			"type": string(e.Type),
		})
	}
}

// Close drains the queue and stops the sender goroutine.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
}

// Stats returns dispatch counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Sent:    d.sent.Load(),
		Failed:  d.failed.Load(),
		Dropped: d.dropped.Load(),
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for e := range d.queue {
		payload, err := e.Encode(d.now())
		if err != nil {
			d.failed.Add(1)
			events.Emit("error", "bridge.error", "failed to encode event", map[string]interface{}{
				"type":  string(e.Type),
				"error": err.Error(),
			})
			continue
		}

		if err := d.transport.Send(payload); err != nil {
			d.failed.Add(1)
			events.Emit("warning", "bridge.error", "transport send failed", map[string]interface{}{
				"type":      string(e.Type),
				"transport": d.transport.Kind(),
				"error":     err.Error(),
			})
			continue
		}

		d.sent.Add(1)
		events.Emit("info", "bridge.sent", "", map[string]interface{}{
			"type":      string(e.Type),
			"transport": d.transport.Kind(),
		})
	}
}
