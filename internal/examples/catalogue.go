// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package examples

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/joamaki/rxcore/stream"
)

func init() {
	register("1.1", "Observable and observer hello world", helloWorld)
	register("1.2", "A failing producer cuts the stream", failingProducer)
	register("1.3", "A producer emitting its own error", customError)
	register("2.1", "Observable factories", factories)
	register("2.2", "Errors outside the stream are not caught", eagerError)
	register("2.3", "FromFunction keeps errors inside the stream", deferredError)
	register("3.1", "Hot observable with Publish and Connect", hotObservable)
	register("4.1", "Single with a default item", single)
	register("4.2", "Maybe", maybe)
	register("4.3", "Completable", completable)
	register("5.1", "Subscriptions of finite sources dispose themselves", finiteDisposal)
	register("5.2", "Disposing an interval", intervalDisposal)
	register("5.3", "Blocking on an interval", blockingInterval)
	register("6.1", "DefaultIfEmpty and SwitchIfEmpty", ifEmpty)
	register("6.2", "Retry", retrying)
	register("6.3", "Collecting into a list", toList)
	register("7.1", "Merge and MergeWith", merging)
	register("7.2", "FlatMap", flatMap)
	register("8.1", "Debugging items with DoOnNext", debugItems)
	register("8.2", "Debugging errors with DoOnError", debugErrors)
}

var zero = 0

func helloWorld(ctx context.Context, env Env) error {
	src := stream.Create(func(e stream.Emitter[string]) {
		e.OnNext("Ev1")
		e.OnNext("Ev2")
		e.OnNext("Ev3")
		e.OnComplete()
	})

	// Only the items are of interest here.
	stream.ForEach(ctx, src, func(event string) {
		fmt.Fprintf(env.Out, "Received: %s\n", event)
	})
	return nil
}

func failingProducer(ctx context.Context, env Env) error {
	src := stream.Create(func(e stream.Emitter[int]) {
		e.OnNext(10 / 2)
		e.OnNext(1 / zero)
		e.OnNext(2)
		e.OnComplete()
	})
	src.Subscribe(ctx, printer[int](env.Out, "Received", "Completed!"))
	return nil
}

func customError(ctx context.Context, env Env) error {
	divide := func(a, b int) (int, error) {
		if b == 0 {
			return 0, errors.New("division by zero")
		}
		return a / b, nil
	}
	src := stream.Create(func(e stream.Emitter[int]) {
		for _, d := range []int{1, 0, 1} {
			x, err := divide(d, d)
			if err != nil {
				e.OnError(errors.New("My custom error"))
				return
			}
			e.OnNext(x)
		}
		e.OnComplete()
	})
	src.Subscribe(ctx, printer[int](env.Out, "Received", "Completed!"))
	return nil
}

func factories(ctx context.Context, env Env) error {
	stream.ForEach(ctx, stream.Just("Ev1", "Ev2", "Ev3"), func(event string) {
		fmt.Fprintf(env.Out, "Received from source1: %s\n", event)
	})

	events := []string{"Ev1", "Ev2", "Ev3"}
	stream.ForEach(ctx, stream.FromSlice(events), func(event string) {
		fmt.Fprintf(env.Out, "Received from source2: %s\n", event)
	})
	return nil
}

func eagerError(ctx context.Context, env Env) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(env.Out, "Error raised outside the stream: %v\n", r)
		}
	}()
	// The argument is evaluated before the stream exists.
	src := stream.Just(1 / zero)
	src.Subscribe(ctx, printer[int](env.Out, "Received", "Completed!"))
	return nil
}

func deferredError(ctx context.Context, env Env) error {
	src := stream.FromFunction(func() int { return 1 / zero })
	src.Subscribe(ctx, printer[int](env.Out, "Received", "Completed!"))
	return nil
}

func hotObservable(ctx context.Context, env Env) error {
	src := stream.Publish(stream.Just("Maça", "Banana", "Uva", "Melancia"))

	// Nothing is emitted on subscribe.
	src.Subscribe(ctx, printer[string](env.Out, "Received 1", "Completed 1!"))
	src.Subscribe(ctx, printer[string](env.Out, "Received 2", "Completed 2!"))

	_, err := src.Connect(ctx)
	return err
}

func single(ctx context.Context, env Env) error {
	onError := func(err error) { fmt.Fprintf(env.Out, "Error occurred: %s\n", err) }

	stream.ToSingle(stream.Just("SingleItem"), "Empty!").Subscribe(ctx,
		func(event string) { fmt.Fprintf(env.Out, "Received 1: %s\n", event) },
		onError)

	stream.ToSingle(stream.Empty[string](), "Empty!").Subscribe(ctx,
		func(event string) { fmt.Fprintf(env.Out, "Received 2: %s\n", event) },
		onError)
	return nil
}

func maybe(ctx context.Context, env Env) error {
	p := printer[int](env.Out, "Received", "Completed!")
	stream.ToMaybe(stream.Just(1)).Subscribe(ctx, p.Next, p.Error, p.Complete)
	stream.ToMaybe(stream.Empty[int]()).Subscribe(ctx, p.Next, p.Error, p.Complete)
	return nil
}

func completable(ctx context.Context, env Env) error {
	c := stream.FromAction(func() error {
		fmt.Fprintln(env.Out, "Action executed!")
		return nil
	})
	c.Subscribe(ctx,
		func() { fmt.Fprintln(env.Out, "Completed!") },
		func(err error) { fmt.Fprintf(env.Out, "Error occurred: %s\n", err) })
	return nil
}

func finiteDisposal(ctx context.Context, env Env) error {
	sub := stream.Just(1, 2).Subscribe(ctx, printer[int](env.Out, "Received", "Completed!"))
	fmt.Fprintf(env.Out, "Is disposed?: %t\n", sub.IsDisposed())
	return nil
}

func intervalDisposal(ctx context.Context, env Env) error {
	src := stream.Interval(env.Tick, stream.WithScheduler(env.Scheduler))
	sub := src.Subscribe(ctx, printer[int](env.Out, "Received", "Completed!"))

	clk := env.Scheduler.Clock()
	select {
	case <-clk.After(env.RunFor):
	case <-ctx.Done():
		return ctx.Err()
	}
	sub.Cancel()
	fmt.Fprintf(env.Out, "Is disposed?: %t\n", sub.IsDisposed())

	// Nothing is received after disposing.
	select {
	case <-clk.After(3 * env.Tick):
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func blockingInterval(ctx context.Context, env Env) error {
	hits := 0
	err := stream.BlockingSubscribe(ctx,
		stream.Take(5, stream.Interval(env.Tick, stream.WithScheduler(env.Scheduler))),
		func(int) { hits++ })
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "Hit count: %d\n", hits)
	return nil
}

func ifEmpty(ctx context.Context, env Env) error {
	valueOf := func(x any) string { return fmt.Sprintf("Value is %v", x) }

	colors := stream.Filter(
		stream.Just("Azul", "Branco", "Vermelho"),
		func(s string) bool { return strings.HasPrefix(s, "Z") })
	stream.Map(stream.DefaultIfEmpty(colors, "None!"), func(s string) string { return valueOf(s) }).
		Subscribe(ctx, printer[string](env.Out, "Received", "Completed!"))

	numbers := stream.Filter(
		stream.FromSlice([]int{1, 2, 3, 4}),
		func(x int) bool { return x > 5 })
	stream.Map(stream.SwitchIfEmpty(numbers, stream.Just(5, 6)), func(x int) string { return valueOf(x) }).
		Subscribe(ctx, printer[string](env.Out, "Received", "Completed!"))
	return nil
}

func retrying(ctx context.Context, env Env) error {
	src := stream.Map(
		stream.Just(5, 2, 4, 0, 3, 2, 8),
		func(x int) int { return 10 / x })
	stream.Retry(src, 2).Subscribe(ctx, printer[int](env.Out, "Received", "Completed!"))
	return nil
}

func toList(ctx context.Context, env Env) error {
	list, err := stream.ToList(
		stream.Filter(
			stream.Just("Alpha", "Beta", "Gamma", "Delta", "Zeta"),
			func(s string) bool { return len(s) == 4 }),
	).Get(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "Four letter words: %s\n", strings.Join(list, ", "))
	return nil
}

func merging(ctx context.Context, env Env) error {
	src1 := stream.Just("Item", "Other Item")
	src2 := stream.Just("Another Item")

	// The order is not guaranteed, although likely with immediate sources.
	stream.Merge(src1, src2).
		Subscribe(ctx, printer[string](env.Out, "Received from factory", "Completed!"))

	stream.MergeWith(src1, src2).
		Subscribe(ctx, printer[string](env.Out, "Received from operator", "Completed!"))
	return nil
}

func words(sentence string) stream.Observable[string] {
	return stream.FlatMap(
		stream.Just(sentence),
		func(s string) stream.Observable[string] {
			return stream.FromSlice(strings.Split(s, " "))
		})
}

func flatMap(ctx context.Context, env Env) error {
	words("Im a string").
		Subscribe(ctx, printer[string](env.Out, "Received from operator", "Completed!"))
	return nil
}

func wordCounts(env Env, count func(string) int) stream.Observable[stream.Tuple2[string, int]] {
	return stream.Map(
		stream.DoOnNext(words("Im a string"), func(w string) {
			env.Log.WithField("word", w).Debug("Word")
		}),
		func(w string) stream.Tuple2[string, int] {
			return stream.Tuple2[string, int]{V1: w, V2: count(w)}
		})
}

func printCounts(ctx context.Context, env Env, src stream.Observable[stream.Tuple2[string, int]]) {
	src.Subscribe(ctx, stream.Funcs[stream.Tuple2[string, int]]{
		Next: func(wc stream.Tuple2[string, int]) {
			fmt.Fprintf(env.Out, "Words count: %s -> %d\n", wc.V1, wc.V2)
		},
		Error:    func(err error) { fmt.Fprintf(env.Out, "Error occurred: %s\n", err) },
		Complete: func() { fmt.Fprintln(env.Out, "Completed!") },
	})
}

func debugItems(ctx context.Context, env Env) error {
	printCounts(ctx, env, wordCounts(env, func(w string) int { return len(w) }))
	return nil
}

func debugErrors(ctx context.Context, env Env) error {
	counts := stream.DoOnError(
		wordCounts(env, func(w string) int { return len(w) / zero }),
		func(err error) { env.Log.WithError(err).Debug("Stream failed") })
	printCounts(ctx, env, counts)
	return nil
}
