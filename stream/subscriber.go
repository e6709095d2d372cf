// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"

	"go.uber.org/atomic"
)

// Subscription states. Idle moves to Active when production starts, the
// remaining states are final.
const (
	stateIdle int32 = iota
	stateActive
	stateCompleted
	stateErrored
	stateCancelled
)

// subscriber guards the downstream observer of one subscription and is
// also the subscription handle returned to the caller.
//
// The context is cancelled on every terminal transition, which is what
// stops the upstream production: upstream subscriptions are always created
// with a context derived from this one.
type subscriber[T any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	state  atomic.Int32
	down   Observer[T]
}

var _ Subscription = &subscriber[int]{}

func newSubscriber[T any](ctx context.Context, down Observer[T]) *subscriber[T] {
	ctx, cancel := context.WithCancel(ctx)
	return &subscriber[T]{ctx: ctx, cancel: cancel, down: down}
}

// start moves the subscription from Idle to Active. Returns false if the
// parent context is already done, in which case nothing is ever delivered.
func (s *subscriber[T]) start() bool {
	if s.ctx.Err() != nil {
		s.state.Store(stateCancelled)
		s.cancel()
		return false
	}
	return s.state.CompareAndSwap(stateIdle, stateActive)
}

func (s *subscriber[T]) active() bool {
	return s.state.Load() == stateActive && s.ctx.Err() == nil
}

func (s *subscriber[T]) OnNext(item T) {
	if !s.active() {
		return
	}
	if err := catch(func() { s.down.OnNext(item) }); err != nil {
		s.OnError(&UserHandlerError{Err: err})
	}
}

func (s *subscriber[T]) OnError(err error) {
	if !s.active() || !s.state.CompareAndSwap(stateActive, stateErrored) {
		reportUndeliverable(err)
		return
	}
	s.cancel()
	if herr := catch(func() { s.down.OnError(err) }); herr != nil {
		reportUndeliverable(&UserHandlerError{Err: herr})
	}
}

func (s *subscriber[T]) OnComplete() {
	if !s.active() || !s.state.CompareAndSwap(stateActive, stateCompleted) {
		return
	}
	s.cancel()
	if herr := catch(s.down.OnComplete); herr != nil {
		reportUndeliverable(&UserHandlerError{Err: herr})
	}
}

func (s *subscriber[T]) Cancel() {
	s.state.CompareAndSwap(stateActive, stateCancelled)
	s.state.CompareAndSwap(stateIdle, stateCancelled)
	s.cancel()
}

func (s *subscriber[T]) IsDisposed() bool {
	return s.ctx.Err() != nil
}

func (s *subscriber[T]) Done() <-chan struct{} {
	return s.ctx.Done()
}
