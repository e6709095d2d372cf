// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
)

// Emitter is the producer side handle of a stream created with Create.
//
// Emitter is not safe for concurrent use. A producer that emits from several
// goroutines must serialize the calls itself.
type Emitter[T any] interface {
	Observer[T]

	// Context is cancelled when the subscription is cancelled or terminates.
	// Long-running producers should stop when it is done.
	Context() context.Context

	// IsDisposed returns true if emitting any further events is pointless.
	IsDisposed() bool
}

type emitter[T any] struct {
	Observer[T]
	ctx context.Context
}

func (e emitter[T]) Context() context.Context { return e.ctx }
func (e emitter[T]) IsDisposed() bool         { return e.ctx.Err() != nil }

// Create makes an observable from a producer that pushes events into an
// Emitter. The producer runs on each subscription. It may return before
// calling OnComplete or OnError and keep emitting from elsewhere; the stream
// stays open until a terminal event or cancellation.
//
// A panic in 'produce' terminates the stream with a *ProductionError.
func Create[T any](produce func(e Emitter[T])) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			produce(emitter[T]{o, ctx})
		})
}
