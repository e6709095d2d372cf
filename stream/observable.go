// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
)

// Observer receives the events of a single subscription.
//
// OnNext is called for each item. Exactly one of OnError or OnComplete is called
// when the stream terminates, unless the subscription is cancelled first. After
// the terminal call no further calls are made. Calls are never concurrent.
type Observer[T any] interface {
	OnNext(item T)
	OnError(err error)
	OnComplete()
}

// Observable is a cold source of T's.
type Observable[T any] interface {
	// Subscribe starts production for 'o' and returns a handle for cancelling it.
	//
	// Every call re-runs production from scratch. Immediate sources produce on
	// the calling goroutine before Subscribe returns, timed sources produce on
	// a scheduler lane. Cancelling 'ctx' has the same effect as cancelling the
	// returned subscription.
	//
	// Implementations of Subscribe() must maintain the following invariants:
	// - calls to 'o' are sequential, even if items are produced on several goroutines.
	// - at most one of OnError or OnComplete is called and nothing follows it.
	// - nothing is delivered once the subscription is cancelled.
	Subscribe(ctx context.Context, o Observer[T]) Subscription
}

// Subscription is the cancellation handle returned by Subscribe.
type Subscription interface {
	// Cancel stops the production and the delivery of further events.
	// Safe to call from any goroutine and more than once.
	Cancel()

	// IsDisposed returns true once the subscription has been cancelled or
	// the stream has terminated.
	IsDisposed() bool

	// Done is closed when IsDisposed becomes true.
	Done() <-chan struct{}
}

// FuncObservable wraps a production function that implements Subscribe.
// Convenience when declaring a struct to implement Subscribe() is overkill.
//
// The function is handed the subscription context and a guarded observer. It
// may return before the stream terminates when it hands production over to
// another goroutine. A panic escaping the function is delivered as a
// *ProductionError.
type FuncObservable[T any] func(ctx context.Context, o Observer[T])

func (f FuncObservable[T]) Subscribe(ctx context.Context, o Observer[T]) Subscription {
	s := newSubscriber(ctx, o)
	if !s.start() {
		return s
	}
	if err := catch(func() { f(s.ctx, s) }); err != nil {
		s.OnError(&ProductionError{Err: err})
	}
	return s
}

// Funcs adapts up to three callbacks into an Observer. Nil callbacks are
// skipped, except for a missing Error callback in which case the error is
// handed to the undeliverable error handler (see SetErrorHandler).
type Funcs[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

func (f Funcs[T]) OnNext(item T) {
	if f.Next != nil {
		f.Next(item)
	}
}

func (f Funcs[T]) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
		return
	}
	reportUndeliverable(err)
}

func (f Funcs[T]) OnComplete() {
	if f.Complete != nil {
		f.Complete()
	}
}
