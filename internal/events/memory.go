package events

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClosed is returned by a broker after Close.
var ErrClosed = errors.New("events: broker closed")

const subscriberBuffer = 64

type subscriber struct {
	ch   chan []byte
	done chan struct{}
	once sync.Once
}

// close is called with the broker lock held, so no Publish can race it.
func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.ch)
		close(s.done)
	})
}

// MemoryBroker is an in-process Broker. A subscriber that falls
// subscriberBuffer payloads behind misses events rather than blocking the
// publisher.
type MemoryBroker struct {
	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	closed bool
}

// NewMemoryBroker creates an empty in-process broker.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[string]map[*subscriber]struct{})}
}

func (b *MemoryBroker) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	for s := range b.subs[channel] {
		select {
		case s.ch <- payload:
		default:
			log.Warn().Str("channel", channel).Msg("subscriber lagging, event dropped")
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, nil, ErrClosed
	}
	s := &subscriber{ch: make(chan []byte, subscriberBuffer), done: make(chan struct{})}
	if b.subs[channel] == nil {
		b.subs[channel] = make(map[*subscriber]struct{})
	}
	b.subs[channel][s] = struct{}{}
	b.mu.Unlock()

	cleanup := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[channel], s)
		if len(b.subs[channel]) == 0 {
			delete(b.subs, channel)
		}
		s.close()
	}

	go func() {
		select {
		case <-ctx.Done():
			cleanup()
		case <-s.done:
		}
	}()

	return s.ch, cleanup, nil
}

// Subscribers returns the number of live subscribers on channel.
func (b *MemoryBroker) Subscribers(channel string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[channel])
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for channel, subs := range b.subs {
		for s := range subs {
			s.close()
		}
		delete(b.subs, channel)
	}
	return nil
}
