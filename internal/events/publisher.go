package events

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
)

const (
	defaultBuffer = 100
	sendTimeout   = 5 * time.Second
)

// Publisher accepts events without blocking the request path.
type Publisher interface {
	Publish(ev Event)
}

// AsyncPublisher queues events on a buffered channel drained by a single
// worker. When the buffer is full the event is sent synchronously instead
// of being dropped. Send failures are logged and never reach the caller.
type AsyncPublisher struct {
	sink   Sink
	logger *log.Logger
	events chan Event

	// mu guards closed; Publish holds it shared while enqueueing
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
	done      chan struct{}
}

var _ Publisher = (*AsyncPublisher)(nil)

// NewAsyncPublisher starts the worker goroutine. buffer <= 0 uses the default.
func NewAsyncPublisher(sink Sink, logger *log.Logger, buffer int) *AsyncPublisher {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	p := &AsyncPublisher{
		sink:   sink,
		logger: logger,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
	go p.worker()
	return p
}

// Publish enqueues ev. Events published after Close are logged and dropped.
func (p *AsyncPublisher) Publish(ev Event) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		if p.logger != nil {
			p.logger.Warnj(log.JSON{"msg": "event published after close, dropped", "queue": ev.Queue()})
		}
		return
	}
	select {
	case p.events <- ev:
	default:
		// Channel full, publish synchronously as fallback
		p.send(ev)
	}
}

// Close stops accepting events and waits for the queue to drain.
func (p *AsyncPublisher) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.events)
		p.mu.Unlock()
		<-p.done
	})
	return p.sink.Close()
}

func (p *AsyncPublisher) worker() {
	defer close(p.done)
	for ev := range p.events {
		p.send(ev)
	}
}

func (p *AsyncPublisher) send(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := p.sink.Send(ctx, ev); err != nil && p.logger != nil {
		p.logger.Warnj(log.JSON{"msg": "event publish failed", "queue": ev.Queue(), "error": err.Error()})
	}
}
