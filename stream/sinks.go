// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
)

//
// Sinks: operators that run an observable and send the output somewhere.
//

// ForEach subscribes to the source with only an item callback. Errors go to the
// undeliverable error handler.
func ForEach[T any](ctx context.Context, src Observable[T], next func(T)) Subscription {
	return src.Subscribe(ctx, Funcs[T]{Next: next})
}

// BlockingSubscribe subscribes to the source and blocks until it terminates.
// Returns the error the source failed with, or ctx.Err() if 'ctx' is cancelled
// first. A panic in 'next' cancels the source and is returned as a
// *UserHandlerError.
func BlockingSubscribe[T any](ctx context.Context, src Observable[T], next func(T)) error {
	var err error
	done := make(chan struct{})
	sub := src.Subscribe(ctx, Funcs[T]{
		Next: next,
		Error: func(e error) {
			err = e
			close(done)
		},
		Complete: func() { close(done) },
	})

	select {
	case <-done:
		return err
	case <-ctx.Done():
		sub.Cancel()
		select {
		case <-done:
			return err
		default:
			return ctx.Err()
		}
	}
}

// ToSlice converts an Observable into a slice.
func ToSlice[T any](ctx context.Context, src Observable[T]) (items []T, err error) {
	items = make([]T, 0)
	err = BlockingSubscribe(
		ctx,
		src,
		func(item T) {
			items = append(items, item)
		})
	return
}

// First returns the first item from 'src' observable and then cancels it.
// Fails with ErrEmpty if the source completes without items.
func First[T any](ctx context.Context, src Observable[T]) (item T, err error) {
	err = BlockingSubscribe(
		ctx,
		FirstOrError(src).Observable(),
		func(x T) { item = x })
	return
}

// Discard discards all items from 'src' and returns an error if any.
func Discard[T any](ctx context.Context, src Observable[T]) error {
	return BlockingSubscribe(ctx, src, nil)
}

// ToChannels converts an observable into an item channel and error channel.
// When the source terminates both channels are closed and an error (which may be nil)
// is always sent to the error channel. Sending to the item channel stops if 'ctx'
// is cancelled.
func ToChannels[T any](ctx context.Context, src Observable[T]) (<-chan T, <-chan error) {
	out := make(chan T, 1)
	errs := make(chan error, 1)
	go func() {
		errs <- BlockingSubscribe(
			ctx,
			src,
			func(item T) {
				select {
				case out <- item:
				case <-ctx.Done():
				}
			})
		close(out)
		close(errs)
	}()
	return out, errs
}
