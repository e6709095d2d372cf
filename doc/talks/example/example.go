// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package main

import (
	"context"
	"fmt"

	"github.com/joamaki/rxcore/stream"
)

type singleIntegerObservable int

func (num singleIntegerObservable) Subscribe(ctx context.Context, o stream.Observer[int]) stream.Subscription {
	// Let FuncObservable take care of the subscription state.
	return stream.FuncObservable[int](func(ctx context.Context, o stream.Observer[int]) {
		o.OnNext(int(num))
		o.OnComplete()
	}).Subscribe(ctx, o)
}

func main() {
	var ten stream.Observable[int] = singleIntegerObservable(10)

	// The 'Map' operator takes a stream and a function and applies
	// the function to each element.
	twenty := stream.Map(
		ten,
		func(x int) int { return x * 2 },
	)

	twenty.Subscribe(context.Background(), stream.Funcs[int]{
		Next:     func(x int) { fmt.Printf("%d\n", x) },
		Complete: func() { fmt.Println("done") },
	})
}
