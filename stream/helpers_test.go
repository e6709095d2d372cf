// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

//
// Test helpers
//

func assertSlice[T comparable](t *testing.T, what string, expected []T, actual []T) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Fatalf("assertSlice[%s]: expected %d items, got %d (%v)", what, len(expected), len(actual), actual)
	}
	for i := range expected {
		if expected[i] != actual[i] {
			t.Fatalf("assertSlice[%s]: at index %d, expected %v, got %v", what, i, expected[i], actual[i])
		}
	}
}

func assertNil(t *testing.T, what string, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error in %s: %s", what, err)
	}
}

// recorder is an Observer that records everything it receives and flags
// contract violations: calls after a terminal event and concurrent calls.
type recorder[T any] struct {
	mu         sync.Mutex
	inCall     bool
	items      []T
	err        error
	completed  int
	errored    int
	violations []string
	done       chan struct{}
}

func newRecorder[T any]() *recorder[T] {
	return &recorder[T]{done: make(chan struct{})}
}

func (r *recorder[T]) enter(what string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inCall {
		r.violations = append(r.violations, "concurrent "+what)
	}
	if r.completed+r.errored > 0 {
		r.violations = append(r.violations, what+" after terminal event")
	}
	r.inCall = true
}

func (r *recorder[T]) leave() {
	r.mu.Lock()
	r.inCall = false
	r.mu.Unlock()
}

func (r *recorder[T]) OnNext(item T) {
	r.enter("OnNext")
	defer r.leave()
	r.mu.Lock()
	r.items = append(r.items, item)
	r.mu.Unlock()
}

func (r *recorder[T]) OnError(err error) {
	r.enter("OnError")
	defer r.leave()
	r.mu.Lock()
	r.err = err
	r.errored++
	r.mu.Unlock()
	close(r.done)
}

func (r *recorder[T]) OnComplete() {
	r.enter("OnComplete")
	defer r.leave()
	r.mu.Lock()
	r.completed++
	r.mu.Unlock()
	close(r.done)
}

func (r *recorder[T]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.items...)
}

func (r *recorder[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// requireCompleted checks that exactly one completion and no error was seen.
func (r *recorder[T]) requireCompleted(t *testing.T) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.Empty(t, r.violations)
	require.NoError(t, r.err)
	require.Equal(t, 1, r.completed, "expected one OnComplete")
	require.Equal(t, 0, r.errored, "expected no OnError")
}

// requireErrored checks that exactly one error and no completion was seen.
func (r *recorder[T]) requireErrored(t *testing.T) error {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.Empty(t, r.violations)
	require.Equal(t, 1, r.errored, "expected one OnError")
	require.Equal(t, 0, r.completed, "expected no OnComplete")
	return r.err
}

// fromCallback creates an observable that is fed by the returned 'emit' function.
// Unsafe in general as this creates an hot observable that only has sane
// behaviour with a single observer.
func fromCallback[T any](bufSize int) (emit func(T), complete func(error), obs Observable[T]) {
	items := make(chan T, bufSize)
	errs := make(chan error, bufSize)

	emit = func(x T) {
		items <- x
	}

	complete = func(err error) {
		errs <- err
	}

	obs = Create(func(e Emitter[T]) {
		go func() {
			ctx := e.Context()
			for {
				select {
				case <-ctx.Done():
					return
				case err := <-errs:
					if err != nil {
						e.OnError(err)
					} else {
						e.OnComplete()
					}
					return
				case item := <-items:
					e.OnNext(item)
				}
			}
		}()
	})

	return
}

// collect subscribes and blocks until the source terminates.
func collect[T any](t *testing.T, src Observable[T]) *recorder[T] {
	t.Helper()
	r := newRecorder[T]()
	src.Subscribe(context.Background(), r)
	<-r.done
	return r
}
