// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
)

// Single is an observable that emits exactly one item or fails.
type Single[T any] struct {
	src Observable[T]
}

// Subscribe to the single. Exactly one of 'onSuccess' or 'onError' is called,
// unless the subscription is cancelled first.
func (s Single[T]) Subscribe(ctx context.Context, onSuccess func(T), onError func(error)) Subscription {
	return s.src.Subscribe(ctx, Funcs[T]{Next: onSuccess, Error: onError})
}

// Observable returns the single as an observable of one item.
func (s Single[T]) Observable() Observable[T] {
	return s.src
}

// Get blocks until the item or the error is available.
func (s Single[T]) Get(ctx context.Context) (T, error) {
	return First(ctx, s.src)
}

// ToSingle takes the first item of the source, or 'item' if the source completes
// without emitting anything. The source is cancelled after its first item.
func ToSingle[T any](src Observable[T], item T) Single[T] {
	return Single[T]{first(src, func(o Observer[T]) {
		o.OnNext(item)
		o.OnComplete()
	})}
}

// FirstOrError takes the first item of the source, or fails with ErrEmpty.
func FirstOrError[T any](src Observable[T]) Single[T] {
	return Single[T]{first(src, func(o Observer[T]) {
		o.OnError(ErrEmpty)
	})}
}

// ToList collects all items of the source into a slice.
func ToList[T any](src Observable[T]) Single[[]T] {
	return Single[[]T]{Reduce(src, []T{}, func(items []T, item T) []T {
		return append(items, item)
	})}
}

// Maybe is an observable that emits at most one item.
type Maybe[T any] struct {
	src Observable[T]
}

// Subscribe to the maybe. Exactly one of 'onSuccess', 'onError' or 'onComplete'
// is called, unless the subscription is cancelled first. 'onComplete' is only
// called when there was no item.
func (m Maybe[T]) Subscribe(ctx context.Context, onSuccess func(T), onError func(error), onComplete func()) Subscription {
	empty := true
	return m.src.Subscribe(ctx, Funcs[T]{
		Next: func(item T) {
			empty = false
			if onSuccess != nil {
				onSuccess(item)
			}
		},
		Error: onError,
		Complete: func() {
			if empty && onComplete != nil {
				onComplete()
			}
		},
	})
}

// Observable returns the maybe as an observable of zero or one items.
func (m Maybe[T]) Observable() Observable[T] {
	return m.src
}

// Get blocks until the maybe terminates. 'ok' is false if there was no item.
func (m Maybe[T]) Get(ctx context.Context) (item T, ok bool, err error) {
	err = BlockingSubscribe(ctx, m.src, func(x T) {
		item = x
		ok = true
	})
	return
}

// ToMaybe takes the first item of the source, if any. The source is cancelled
// after its first item.
func ToMaybe[T any](src Observable[T]) Maybe[T] {
	return Maybe[T]{first(src, func(o Observer[T]) {
		o.OnComplete()
	})}
}

// first emits the first item of 'src' and completes, or calls 'onEmpty' if
// the source completes without items.
func first[T any](src Observable[T], onEmpty func(Observer[T])) Observable[T] {
	return FuncObservable[T](
		func(ctx context.Context, o Observer[T]) {
			src.Subscribe(ctx, Funcs[T]{
				Next: func(item T) {
					o.OnNext(item)
					o.OnComplete()
				},
				Error: o.OnError,
				Complete: func() {
					onEmpty(o)
				},
			})
		})
}

// Completable is a stream without items that only completes or fails.
type Completable struct {
	src Observable[struct{}]
}

// Subscribe to the completable. Exactly one of 'onComplete' or 'onError' is
// called, unless the subscription is cancelled first.
func (c Completable) Subscribe(ctx context.Context, onComplete func(), onError func(error)) Subscription {
	return c.src.Subscribe(ctx, Funcs[struct{}]{Error: onError, Complete: onComplete})
}

// Observable returns the completable as an observable without items.
func (c Completable) Observable() Observable[struct{}] {
	return c.src
}

// Await blocks until the completable terminates and returns its error.
func (c Completable) Await(ctx context.Context) error {
	return BlockingSubscribe(ctx, c.src, nil)
}

// AndThen runs 'next' after this completable completes.
func (c Completable) AndThen(next Completable) Completable {
	return Completable{Concat(c.src, next.src)}
}

// FromAction creates a completable that runs 'action' on each subscription.
// It fails if the action returns an error or panics (*ProductionError).
func FromAction(action func() error) Completable {
	return Completable{FuncObservable[struct{}](
		func(ctx context.Context, o Observer[struct{}]) {
			if err := action(); err != nil {
				o.OnError(err)
				return
			}
			o.OnComplete()
		})}
}

// IgnoreElements drops all items from the source and keeps only its
// terminal event.
func IgnoreElements[T any](src Observable[T]) Completable {
	return Completable{FuncObservable[struct{}](
		func(ctx context.Context, o Observer[struct{}]) {
			src.Subscribe(ctx, Funcs[T]{
				Error:    o.OnError,
				Complete: o.OnComplete,
			})
		})}
}
