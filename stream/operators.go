// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"

	"go.uber.org/atomic"
	"golang.org/x/time/rate"
)

// Map applies a function onto an observable. A panic in 'apply' terminates
// the stream with an *OperatorError.
func Map[A, B any](src Observable[A], apply func(A) B) Observable[B] {
	return mapWith("Map", src, func(a A) (B, error) { return apply(a), nil })
}

// TryMap is Map with a fallible function. The first error terminates the
// stream with an *OperatorError wrapping it; no further items are mapped.
func TryMap[A, B any](src Observable[A], apply func(A) (B, error)) Observable[B] {
	return mapWith("TryMap", src, apply)
}

func mapWith[A, B any](op string, src Observable[A], apply func(A) (B, error)) Observable[B] {
	return FuncObservable[B](
		func(ctx context.Context, o Observer[B]) {
			src.Subscribe(ctx, Funcs[A]{
				Next: func(a A) {
					var b B
					if err := guard(op, func() (err error) { b, err = apply(a); return }); err != nil {
						o.OnError(err)
						return
					}
					o.OnNext(b)
				},
				Error:    o.OnError,
				Complete: o.OnComplete,
			})
		})
}

// FlatMap applies a function that returns an observable of Bs to the source observable of As.
// The observable from the function is flattened (hence FlatMap).
//
// Inner observables are subscribed as soon as their item arrives and their items
// are interleaved in arrival order. The result completes once the source and all
// inner observables have completed. The first error from any of them terminates
// the result and cancels everything else.
func FlatMap[A, B any](src Observable[A], apply func(A) Observable[B]) Observable[B] {
	return FuncObservable[B](
		func(ctx context.Context, o Observer[B]) {
			ctx, cancel := context.WithCancel(ctx)
			out := newSerializer(o)

			// The source counts as one active stream until it completes.
			active := atomic.NewInt32(1)
			fail := func(err error) {
				cancel()
				out.OnError(err)
			}
			done := func() {
				if active.Dec() == 0 {
					cancel()
					out.OnComplete()
				}
			}
			inner := Funcs[B]{Next: out.OnNext, Error: fail, Complete: done}

			src.Subscribe(ctx, Funcs[A]{
				Next: func(a A) {
					var next Observable[B]
					if err := guard("FlatMap", func() error { next = apply(a); return nil }); err != nil {
						fail(err)
						return
					}
					active.Inc()
					next.Subscribe(ctx, inner)
				},
				Error:    fail,
				Complete: done,
			})
		})
}

// Flatten takes an observable of slices of T and returns an observable of T.
func Flatten[T any](src Observable[[]T]) Observable[T] {
	return FlatMap(
		src,
		func(items []T) Observable[T] {
			return FromSlice(items)
		})
}

// Filter keeps only the elements for which the filter function returns true.
func Filter[T any](src Observable[T], filter func(T) bool) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			src.Subscribe(ctx, Funcs[T]{
				Next: func(x T) {
					var keep bool
					if err := guard("Filter", func() error { keep = filter(x); return nil }); err != nil {
						o.OnError(err)
						return
					}
					if keep {
						o.OnNext(x)
					}
				},
				Error:    o.OnError,
				Complete: o.OnComplete,
			})
		})
}

// Reduce takes an initial state, and a function 'reduce' that is called on each element
// along with a state and returns an observable with a single result state produced
// by the last call to 'reduce'.
func Reduce[T, Result any](src Observable[T], init Result, reduce func(Result, T) Result) Observable[Result] {
	return FuncObservable[Result](
		func(ctx context.Context, o Observer[Result]) {
			result := init
			src.Subscribe(ctx, Funcs[T]{
				Next: func(x T) {
					if err := guard("Reduce", func() error { result = reduce(result, x); return nil }); err != nil {
						o.OnError(err)
					}
				},
				Error: o.OnError,
				Complete: func() {
					o.OnNext(result)
					o.OnComplete()
				},
			})
		})
}

// Scan takes an initial state and a step function that is called on each element with the
// previous state and returns an observable of the states returned by the step function.
// E.g. Scan is like Reduce that emits the intermediate states.
func Scan[In, Out any](src Observable[In], init Out, step func(Out, In) Out) Observable[Out] {
	return FuncObservable[Out](
		func(ctx context.Context, o Observer[Out]) {
			prev := init
			src.Subscribe(ctx, Funcs[In]{
				Next: func(x In) {
					if err := guard("Scan", func() error { prev = step(prev, x); return nil }); err != nil {
						o.OnError(err)
						return
					}
					o.OnNext(prev)
				},
				Error:    o.OnError,
				Complete: o.OnComplete,
			})
		})
}

// Concat takes one or more observable of the same type and emits the items from each of
// them in order. The next observable is subscribed when the previous one completes.
func Concat[T any](srcs ...Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			var (
				tr        trampoline
				index     int
				subscribe func()
			)
			next := Funcs[T]{
				Next:     o.OnNext,
				Error:    o.OnError,
				Complete: func() { subscribe() },
			}
			subscribe = func() {
				tr.run(func() {
					if ctx.Err() != nil {
						return
					}
					if index == len(srcs) {
						o.OnComplete()
						return
					}
					src := srcs[index]
					index++
					src.Subscribe(ctx, next)
				})
			}
			subscribe()
		})
}

// Merge multiple observables into one. All sources are subscribed up front and their
// items are forwarded in whatever order they arrive, one at a time. The result completes
// when all sources have completed. An error from any one of the sources terminates
// the result and cancels the other sources.
//
// Beware: sources that produce on their own goroutines keep doing so, e.g. the
// observer may be called from the goroutines of Interval(...) sources rather than
// the one that called Subscribe().
func Merge[T any](srcs ...Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			if len(srcs) == 0 {
				o.OnComplete()
				return
			}
			mergeCtx, cancel := context.WithCancel(ctx)
			out := newSerializer(o)

			running := atomic.NewInt32(int32(len(srcs)))
			observer := Funcs[T]{
				Next: out.OnNext,
				Error: func(err error) {
					cancel()
					out.OnError(err)
				},
				Complete: func() {
					if running.Dec() == 0 {
						cancel()
						out.OnComplete()
					}
				},
			}
			for _, src := range srcs {
				if mergeCtx.Err() != nil {
					break
				}
				src.Subscribe(mergeCtx, observer)
			}
		})
}

// MergeWith merges 'other' into 'src'. Same as Merge(src, other).
func MergeWith[T any](src, other Observable[T]) Observable[T] {
	return Merge(src, other)
}

// DefaultIfEmpty emits 'item' if the source completes without emitting anything.
// A non-empty source is passed through unchanged.
func DefaultIfEmpty[T any](src Observable[T], item T) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			empty := true
			src.Subscribe(ctx, Funcs[T]{
				Next: func(x T) {
					empty = false
					o.OnNext(x)
				},
				Error: o.OnError,
				Complete: func() {
					if empty {
						o.OnNext(item)
					}
					o.OnComplete()
				},
			})
		})
}

// SwitchIfEmpty switches over to 'alt' if the source completes without emitting
// anything. A non-empty source is passed through unchanged.
func SwitchIfEmpty[T any](src Observable[T], alt Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			empty := true
			src.Subscribe(ctx, Funcs[T]{
				Next: func(x T) {
					empty = false
					o.OnNext(x)
				},
				Error: o.OnError,
				Complete: func() {
					if empty {
						alt.Subscribe(ctx, o)
						return
					}
					o.OnComplete()
				},
			})
		})
}

// Throttle limits the rate at which items are emitted. The wait for the limiter
// happens on the lane that produces the items.
func Throttle[T any](src Observable[T], ratePerSecond float64, burst int) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			limiter := rate.NewLimiter(rate.Limit(ratePerSecond), burst)
			src.Subscribe(ctx, Funcs[T]{
				Next: func(item T) {
					if err := limiter.Wait(ctx); err != nil {
						if ctx.Err() == nil {
							o.OnError(&OperatorError{Op: "Throttle", Err: err})
						}
						return
					}
					o.OnNext(item)
				},
				Error:    o.OnError,
				Complete: o.OnComplete,
			})
		})
}

// SubscribeOn subscribes to the source from a lane of 'sched' rather than from the
// goroutine that called Subscribe().
func SubscribeOn[T any](src Observable[T], sched Scheduler) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			sched.Go(func() {
				src.Subscribe(ctx, o)
			})
		})
}

// DoOnNext calls the supplied function on each emitted item.
func DoOnNext[T any](src Observable[T], f func(T)) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			src.Subscribe(ctx, Funcs[T]{
				Next: func(item T) {
					if err := guard("DoOnNext", func() error { f(item); return nil }); err != nil {
						o.OnError(err)
						return
					}
					o.OnNext(item)
				},
				Error:    o.OnError,
				Complete: o.OnComplete,
			})
		})
}

// DoOnError calls the supplied function with the error before forwarding it.
func DoOnError[T any](src Observable[T], f func(error)) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			src.Subscribe(ctx, Funcs[T]{
				Next: o.OnNext,
				Error: func(err error) {
					if ferr := guard("DoOnError", func() error { f(err); return nil }); ferr != nil {
						reportUndeliverable(ferr)
					}
					o.OnError(err)
				},
				Complete: o.OnComplete,
			})
		})
}

// DoOnComplete calls the supplied function before forwarding completion.
func DoOnComplete[T any](src Observable[T], f func()) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			src.Subscribe(ctx, Funcs[T]{
				Next:  o.OnNext,
				Error: o.OnError,
				Complete: func() {
					if err := guard("DoOnComplete", func() error { f(); return nil }); err != nil {
						o.OnError(err)
						return
					}
					o.OnComplete()
				},
			})
		})
}

// Take takes 'n' items from the source 'src' and completes.
// The source is cancelled once the n'th item has been emitted.
func Take[T any](n int, src Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			if n <= 0 {
				o.OnComplete()
				return
			}
			remaining := n
			src.Subscribe(ctx, Funcs[T]{
				Next: func(item T) {
					if remaining <= 0 {
						return
					}
					remaining--
					o.OnNext(item)
					if remaining == 0 {
						o.OnComplete()
					}
				},
				Error:    o.OnError,
				Complete: o.OnComplete,
			})
		})
}

// TakeWhile takes items from the source until 'pred' returns false after which
// the observable is completed.
func TakeWhile[T any](pred func(T) bool, src Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			src.Subscribe(ctx, Funcs[T]{
				Next: func(item T) {
					var ok bool
					if err := guard("TakeWhile", func() error { ok = pred(item); return nil }); err != nil {
						o.OnError(err)
						return
					}
					if !ok {
						o.OnComplete()
						return
					}
					o.OnNext(item)
				},
				Error:    o.OnError,
				Complete: o.OnComplete,
			})
		})
}

// Skip skips the first 'n' items from the source.
func Skip[T any](n int, src Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			skip := n
			src.Subscribe(ctx, Funcs[T]{
				Next: func(item T) {
					if skip > 0 {
						skip--
						return
					}
					o.OnNext(item)
				},
				Error:    o.OnError,
				Complete: o.OnComplete,
			})
		})
}

// guard runs an operator callback, turning both a returned error and a panic
// into an *OperatorError.
func guard(op string, f func() error) error {
	var err error
	if perr := catch(func() { err = f() }); perr != nil {
		err = perr
	}
	if err != nil {
		return &OperatorError{Op: op, Err: err}
	}
	return nil
}

// trampoline runs steps one at a time without growing the stack when a step
// synchronously triggers the next one (e.g. resubscribing from OnComplete of a
// source that completes during Subscribe).
type trampoline struct {
	wip atomic.Int32
}

func (t *trampoline) run(step func()) {
	if t.wip.Inc() != 1 {
		return
	}
	for {
		step()
		if t.wip.Dec() == 0 {
			return
		}
	}
}
