// Package memory provides the in-process channel-backed queue used in
// tests and single-node deployments.
package memory

import (
	"context"
	"sync"

	"github.com/taufiqnair-gif/codebounty-ai-sub000/queue"
)

// Queue is a buffered-channel implementation of queue.Queue. The events
// channel itself is never closed; Close signals through a done channel so
// a publisher can never hit a closed channel.
type Queue struct {
	events    chan queue.Event
	done      chan struct{}
	closeOnce sync.Once
}

var _ queue.Queue = (*Queue)(nil)

func New(bufferSize int) *Queue {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Queue{
		events: make(chan queue.Event, bufferSize),
		done:   make(chan struct{}),
	}
}

func (q *Queue) Publish(ctx context.Context, event queue.Event) error {
	select {
	case <-q.done:
		return queue.ErrClosed
	default:
	}

	select {
	case q.events <- event:
		return nil
	case <-q.done:
		return queue.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) Consume(_ context.Context) (<-chan queue.Event, error) {
	return q.events, nil
}

func (q *Queue) Close() error {
	q.closeOnce.Do(func() {
		close(q.done)
	})
	return nil
}
