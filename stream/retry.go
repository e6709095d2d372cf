// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"

	"github.com/sethvargo/go-retry"
)

//
// Retrying and error handling
//

// RetryFunc decides whether the source should be resubscribed after its
// 'attempt'th failure (counting from 1) with 'err'.
type RetryFunc func(attempt int, err error) bool

// AlwaysRetry always asks for a retry regardless of the error.
func AlwaysRetry(attempt int, err error) bool {
	return true
}

// LimitRetries limits the number of retries with the given retry method.
// e.g. LimitRetries(AlwaysRetry, 5)
func LimitRetries(shouldRetry RetryFunc, numRetries int) RetryFunc {
	return func(attempt int, err error) bool {
		return attempt <= numRetries && shouldRetry(attempt, err)
	}
}

// Retry resubscribes to the source up to 'n' times if it fails, e.g. the
// source is produced at most n+1 times. The last error is forwarded.
func Retry[T any](src Observable[T], n int) Observable[T] {
	return RetryWhen(src, LimitRetries(AlwaysRetry, n))
}

// RetryWhen resubscribes to the observable when it fails and 'shouldRetry'
// agrees. Items emitted before the failure are not retracted.
func RetryWhen[T any](src Observable[T], shouldRetry RetryFunc) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			var (
				tr        trampoline
				failures  int
				subscribe func()
			)
			observer := Funcs[T]{
				Next: o.OnNext,
				Error: func(err error) {
					failures++
					var again bool
					if gerr := guard("RetryWhen", func() error { again = shouldRetry(failures, err); return nil }); gerr != nil {
						o.OnError(gerr)
						return
					}
					if again && ctx.Err() == nil {
						subscribe()
						return
					}
					o.OnError(err)
				},
				Complete: o.OnComplete,
			}
			subscribe = func() {
				tr.run(func() {
					if ctx.Err() == nil {
						src.Subscribe(ctx, observer)
					}
				})
			}
			subscribe()
		})
}

// RetryWithBackoff resubscribes to the source after the delay given by the backoff
// policy, until the policy stops. 'newBackoff' is called for each subscription so
// that every subscriber has its own policy state, e.g.:
//
//	RetryWithBackoff(src, func() retry.Backoff {
//		return retry.WithMaxRetries(3, retry.NewExponential(10*time.Millisecond))
//	})
//
// The delay is waited for on a lane of the scheduler.
func RetryWithBackoff[T any](src Observable[T], newBackoff func() retry.Backoff, opts ...Option) Observable[T] {
	sched := newOptions(opts).scheduler
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			backoff := newBackoff()
			var observer Funcs[T]
			observer = Funcs[T]{
				Next: o.OnNext,
				Error: func(err error) {
					delay, stop := backoff.Next()
					if stop || ctx.Err() != nil {
						o.OnError(err)
						return
					}
					timer := sched.Clock().Timer(delay)
					sched.Go(func() {
						select {
						case <-ctx.Done():
							timer.Stop()
						case <-timer.C:
							src.Subscribe(ctx, observer)
						}
					})
				},
				Complete: o.OnComplete,
			}
			src.Subscribe(ctx, observer)
		})
}
