package events

import (
	"sync"

	"github.com/0xPolygon/lanebridge/log"
)

const defaultSubscriberBuffer = 64

// Subscriber receives what a Bus publishes
type Subscriber[T any] interface {
	Subscribe(subscriberName string) <-chan T
	Unsubscribe(ch <-chan T)
	Publish(data T)
}

// Bus fans out published values to every subscriber. Publish never blocks: a
// subscriber whose buffer is full loses the value and a warning is logged.
type Bus[T any] struct {
	logger *log.Logger
	buffer int
	// map of subscribers with names
	subs map[chan T]string
	mu   sync.RWMutex
}

func NewBus[T any](logger *log.Logger, buffer int) *Bus[T] {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	return &Bus[T]{
		logger: logger,
		buffer: buffer,
		subs:   make(map[chan T]string),
	}
}

func (b *Bus[T]) Subscribe(subscriberName string) <-chan T {
	ch := make(chan T, b.buffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[ch] = subscriberName
	return ch
}

func (b *Bus[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		if (<-chan T)(ch) == sub {
			delete(b.subs, ch)
			close(ch)
			return
		}
	}
}

func (b *Bus[T]) Publish(data T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch, name := range b.subs {
		select {
		case ch <- data:
		default:
			b.logger.Warnf("subscriber %s is not keeping up, dropping published value", name)
		}
	}
}

// Close unsubscribes everybody
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		close(ch)
		delete(b.subs, ch)
	}
}
