// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/atomic"
)

// Connectable is a publish-subscribe observable that "multicasts" the items
// of a single subscription to the source to all of its subscribers.
//
// Subscribing registers the observer without starting anything. Connect
// subscribes to the source once and every registered observer receives the
// same events from that run. Observers subscribing after Connect only see
// the events emitted from then on.
//
// Connect succeeds exactly once; later calls return ErrAlreadyConnected
// without starting anything, both while the shared run is active and after
// it has terminated. Observers subscribing after the shared run terminated
// immediately receive its terminal event.
type Connectable[T any] struct {
	src Observable[T]

	nextID atomic.Uint64
	subs   *xsync.MapOf[uint64, *subscriber[T]]

	mu         sync.Mutex
	connected  bool
	terminated bool
	err        error
}

var _ Observable[int] = &Connectable[int]{}

// Publish wraps the source into a Connectable.
func Publish[T any](src Observable[T]) *Connectable[T] {
	return &Connectable[T]{
		src:  src,
		subs: xsync.NewMapOf[uint64, *subscriber[T]](),
	}
}

// Subscribe registers 'o'. Cancelling the subscription only removes 'o'; the
// shared run continues for the other observers.
func (c *Connectable[T]) Subscribe(ctx context.Context, o Observer[T]) Subscription {
	s := newSubscriber(ctx, o)
	if !s.start() {
		return s
	}

	c.mu.Lock()
	if c.terminated {
		err := c.err
		c.mu.Unlock()
		if err != nil {
			s.OnError(err)
		} else {
			s.OnComplete()
		}
		return s
	}
	id := c.nextID.Inc()
	c.subs.Store(id, s)
	c.mu.Unlock()

	context.AfterFunc(s.ctx, func() { c.subs.Delete(id) })
	return s
}

// Connect starts the shared run of the source. Cancelling 'ctx' or the
// returned subscription stops the source, but does not terminate the
// registered observers.
func (c *Connectable[T]) Connect(ctx context.Context) (Subscription, error) {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil, ErrAlreadyConnected
	}
	c.connected = true
	c.mu.Unlock()

	return c.src.Subscribe(ctx, Funcs[T]{
		Next: func(item T) {
			c.subs.Range(func(_ uint64, s *subscriber[T]) bool {
				s.OnNext(item)
				return true
			})
		},
		Error:    c.terminate,
		Complete: func() { c.terminate(nil) },
	}), nil
}

// IsConnected returns true once Connect has been called.
func (c *Connectable[T]) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Subscribers returns the number of currently registered observers.
func (c *Connectable[T]) Subscribers() int {
	return c.subs.Size()
}

func (c *Connectable[T]) terminate(err error) {
	c.mu.Lock()
	c.terminated = true
	c.err = err
	c.mu.Unlock()

	c.subs.Range(func(id uint64, s *subscriber[T]) bool {
		if err != nil {
			s.OnError(err)
		} else {
			s.OnComplete()
		}
		c.subs.Delete(id)
		return true
	})
}

// AutoConnect returns an observable that connects the Connectable with 'ctx'
// when its n'th subscriber arrives. With n <= 0 the first subscriber connects.
func (c *Connectable[T]) AutoConnect(ctx context.Context, n int) Observable[T] {
	count := atomic.NewInt64(0)
	return FuncObservable[T](
		func(subCtx context.Context, o Observer[T]) {
			c.Subscribe(subCtx, o)
			if count.Inc() == int64(max(n, 1)) {
				c.Connect(ctx)
			}
		})
}
