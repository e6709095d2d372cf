// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

// Package examples is a catalogue of small programs demonstrating the
// stream package, each printing what its observers receive.
package examples

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/joamaki/rxcore/stream"
)

// Env is what an example runs with.
type Env struct {
	// Out receives the lines printed by the example.
	Out io.Writer

	// Log receives the debug output of the examples that demonstrate
	// DoOnNext and DoOnError.
	Log logrus.FieldLogger

	// Tick is the period of the interval based examples and RunFor is how
	// long they observe before disposing the subscription.
	Tick   time.Duration
	RunFor time.Duration

	// Scheduler for the timed sources. Defaults to stream.DefaultScheduler.
	Scheduler stream.Scheduler
}

// Example is a named entry of the catalogue.
type Example struct {
	Name  string
	Title string
	run   func(ctx context.Context, env Env) error
}

// Run the example. Lines written to env.Out are serialized as the
// asynchronous examples print from several goroutines.
func (e Example) Run(ctx context.Context, env Env) error {
	env.Out = &lockedWriter{w: env.Out}
	if env.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		env.Log = l
	}
	if env.Scheduler == nil {
		env.Scheduler = stream.DefaultScheduler
	}
	return e.run(ctx, env)
}

var registry = map[string]Example{}

func register(name, title string, run func(ctx context.Context, env Env) error) {
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("example %q registered twice", name))
	}
	registry[name] = Example{Name: name, Title: title, run: run}
}

// All returns the examples ordered by name.
func All() []Example {
	names := lo.Keys(registry)
	sort.Strings(names)
	return lo.Map(names, func(name string, _ int) Example {
		return registry[name]
	})
}

// Lookup returns the named example.
func Lookup(name string) (Example, bool) {
	ex, ok := registry[name]
	return ex, ok
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// printer returns an observer printing each event with the given labels.
func printer[T any](out io.Writer, received, completed string) stream.Funcs[T] {
	return stream.Funcs[T]{
		Next:     func(item T) { fmt.Fprintf(out, "%s: %v\n", received, item) },
		Error:    func(err error) { fmt.Fprintf(out, "Error occurred: %s\n", err) },
		Complete: func() { fmt.Fprintln(out, completed) },
	}
}
