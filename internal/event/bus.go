package event

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

const DefaultCapacity = 512

// Bus carries requests from the interface to the session manager and
// notifications back. Each direction is a bounded FIFO channel.
type Bus struct {
	outbound chan Outbound
	inbound  chan Inbound

	done      chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	overflow []Outbound
	draining bool
}

func NewBus(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Bus{
		outbound: make(chan Outbound, capacity),
		inbound:  make(chan Inbound, capacity),
		done:     make(chan struct{}),
	}
}

// Submit queues a request without ever blocking the caller. When the channel
// is full the request waits in an overflow queue that a single goroutine
// drains in order; later submissions queue behind it.
func (b *Bus) Submit(ev Outbound) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.isClosed() {
		slog.Info("event bus closed; dropping request", "type", typeName(ev))
		return
	}
	if !b.draining {
		select {
		case b.outbound <- ev:
			return
		default:
		}
		b.draining = true
		go b.drainOverflow()
	}
	b.overflow = append(b.overflow, ev)
}

func (b *Bus) drainOverflow() {
	for {
		b.mu.Lock()
		if len(b.overflow) == 0 {
			b.draining = false
			b.mu.Unlock()
			return
		}
		ev := b.overflow[0]
		b.overflow = b.overflow[1:]
		b.mu.Unlock()

		select {
		case b.outbound <- ev:
		case <-b.done:
			b.mu.Lock()
			dropped := len(b.overflow) + 1
			b.overflow = nil
			b.draining = false
			b.mu.Unlock()
			slog.Info("event bus closed; dropping queued requests", "count", dropped)
			return
		}
	}
}

// Requests is the consumer side of the request channel.
func (b *Bus) Requests() <-chan Outbound {
	return b.outbound
}

// Publish blocks until the notification is queued. It returns false when ctx
// ends or the bus is closed first; the notification is then dropped.
func (b *Bus) Publish(ctx context.Context, ev Inbound) bool {
	select {
	case b.inbound <- ev:
		return true
	case <-ctx.Done():
		slog.Debug("publish canceled; dropping notification", "type", typeName(ev))
		return false
	case <-b.done:
		slog.Info("event bus closed; dropping notification", "type", typeName(ev))
		return false
	}
}

// Poll returns the next notification if one is available.
func (b *Bus) Poll() (Inbound, bool) {
	select {
	case ev := <-b.inbound:
		return ev, true
	default:
		return nil, false
	}
}

func (b *Bus) Done() <-chan struct{} {
	return b.done
}

// Close shuts the bus down. Pending and future events are dropped.
func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}

func (b *Bus) isClosed() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
