// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"github.com/benbjohnson/clock"
)

// Scheduler provides the lanes and the clock that timed sources and
// operators run on.
type Scheduler interface {
	// Go runs 'fn' on a new lane.
	Go(fn func())

	// Clock is the time source for tickers and timers.
	Clock() clock.Clock
}

type goroutineScheduler struct {
	clock clock.Clock
}

// NewScheduler returns a scheduler that runs each lane on its own goroutine
// and takes time from 'c'. Tests pass a clock.Mock to drive time manually.
func NewScheduler(c clock.Clock) Scheduler {
	return goroutineScheduler{c}
}

func (s goroutineScheduler) Go(fn func())       { go fn() }
func (s goroutineScheduler) Clock() clock.Clock { return s.clock }

// DefaultScheduler uses goroutines and the wall clock.
var DefaultScheduler = NewScheduler(clock.New())

// Option configures timed sources and operators.
type Option func(*options)

type options struct {
	scheduler Scheduler
}

// WithScheduler overrides DefaultScheduler.
func WithScheduler(s Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

func newOptions(opts []Option) options {
	o := options{scheduler: DefaultScheduler}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
