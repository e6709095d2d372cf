// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"fmt"
	"iter"
	"time"
)

//
// Sources, e.g. operators that create new observables.
//

// Just creates an observable that emits the given items and completes.
func Just[T any](items ...T) Observable[T] {
	return FromSlice(items)
}

// Never creates an observable that never emits anything and
// just waits for the subscription to be cancelled.
// Mainly meant for testing.
func Never[T any]() Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {})
}

// Error creates an observable that fails immediately with given error.
func Error[T any](err error) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			o.OnError(err)
		})
}

// Empty creates an empty observable that completes immediately.
func Empty[T any]() Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			o.OnComplete()
		})
}

// FromSlice converts a slice into an Observable.
func FromSlice[T any](items []T) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			for _, item := range items {
				if ctx.Err() != nil {
					return
				}
				o.OnNext(item)
			}
			o.OnComplete()
		})
}

// FromSeq converts an iterator into an Observable. The iterator is
// restarted for each subscription.
func FromSeq[T any](seq iter.Seq[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			for item := range seq {
				if ctx.Err() != nil {
					return
				}
				o.OnNext(item)
			}
			o.OnComplete()
		})
}

// FromAnySlice converts a slice of 'any' into an Observable of specified type.
func FromAnySlice[T any](items []any) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			for _, anyItem := range items {
				if ctx.Err() != nil {
					return
				}
				item, ok := anyItem.(T)
				if !ok {
					var target T
					o.OnError(fmt.Errorf("FromAnySlice[%T]: %T not castable to target type", target, anyItem))
					return
				}
				o.OnNext(item)
			}
			o.OnComplete()
		})
}

// FromChannel creates an observable from a channel. The channel is consumed
// by the first observer, on a lane of the scheduler.
func FromChannel[T any](in <-chan T, opts ...Option) Observable[T] {
	sched := newOptions(opts).scheduler
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			sched.Go(func() {
				for {
					select {
					case <-ctx.Done():
						return
					case v, ok := <-in:
						if !ok {
							o.OnComplete()
							return
						}
						o.OnNext(v)
					}
				}
			})
		})
}

// FromCallable creates an observable that calls 'f' on each subscription
// and emits its result, or fails with its error.
func FromCallable[T any](f func() (T, error)) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			item, err := f()
			if err != nil {
				o.OnError(err)
				return
			}
			o.OnNext(item)
			o.OnComplete()
		})
}

// FromFunction creates an observable that emits the result of 'f'. A panic
// in 'f' is delivered as a *ProductionError.
func FromFunction[T any](f func() T) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			o.OnNext(f())
			o.OnComplete()
		})
}

// Defer calls 'factory' on each subscription and subscribes to the
// observable it returns.
func Defer[T any](factory func() Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			factory().Subscribe(ctx, o)
		})
}

// Range creates an observable that emits integers in range from...to-1.
func Range(from, to int) Observable[int] {
	return FuncObservable[int](
		func(ctx context.Context, o Observer[int]) {
			for i := from; i < to; i++ {
				if ctx.Err() != nil {
					return
				}
				o.OnNext(i)
			}
			o.OnComplete()
		})
}

// Interval emits an increasing counter value, starting from zero, every
// 'period'. The ticks are produced on a scheduler lane and stop as soon as
// the subscription is cancelled.
func Interval(period time.Duration, opts ...Option) Observable[int] {
	sched := newOptions(opts).scheduler
	return FuncObservable[int](
		func(ctx context.Context, o Observer[int]) {
			// The ticker is created before the lane starts so that no tick
			// after Subscribe returns is missed.
			ticker := sched.Clock().Ticker(period)
			sched.Go(func() {
				defer ticker.Stop()
				done := ctx.Done()
				for i := 0; ; i++ {
					select {
					case <-done:
						return
					case <-ticker.C:
						o.OnNext(i)
					}
				}
			})
		})
}

// Timer emits 0 after 'delay' and completes.
func Timer(delay time.Duration, opts ...Option) Observable[int] {
	sched := newOptions(opts).scheduler
	return FuncObservable[int](
		func(ctx context.Context, o Observer[int]) {
			timer := sched.Clock().Timer(delay)
			sched.Go(func() {
				select {
				case <-ctx.Done():
					timer.Stop()
				case <-timer.C:
					o.OnNext(0)
					o.OnComplete()
				}
			})
		})
}
