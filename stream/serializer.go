// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"container/list"
	"sync"
)

type eventKind int

const (
	eventNext eventKind = iota
	eventError
	eventComplete
)

type event[T any] struct {
	kind eventKind
	item T
	err  error
}

func (ev event[T]) deliver(o Observer[T]) {
	switch ev.kind {
	case eventNext:
		o.OnNext(ev.item)
	case eventError:
		o.OnError(ev.err)
	case eventComplete:
		o.OnComplete()
	}
}

// serializer funnels events from concurrent producers into one observer.
// Whoever pushes into an idle queue becomes the drainer and delivers until
// the queue is empty; concurrent pushers only enqueue. Delivery happens
// outside the lock so observers may push (or cancel) reentrantly.
type serializer[T any] struct {
	mu       sync.Mutex
	queue    *list.List
	draining bool
	down     Observer[T]
}

func newSerializer[T any](down Observer[T]) *serializer[T] {
	return &serializer[T]{
		queue: list.New(),
		down:  down,
	}
}

func (s *serializer[T]) push(ev event[T]) {
	s.mu.Lock()
	s.queue.PushBack(ev)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	for {
		front := s.queue.Front()
		if front == nil {
			s.draining = false
			s.mu.Unlock()
			return
		}
		ev := s.queue.Remove(front).(event[T])
		s.mu.Unlock()
		ev.deliver(s.down)
		s.mu.Lock()
	}
}

// Len returns the number of events waiting to be delivered.
func (s *serializer[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

func (s *serializer[T]) OnNext(item T)     { s.push(event[T]{kind: eventNext, item: item}) }
func (s *serializer[T]) OnError(err error) { s.push(event[T]{kind: eventError, err: err}) }
func (s *serializer[T]) OnComplete()       { s.push(event[T]{kind: eventComplete}) }
