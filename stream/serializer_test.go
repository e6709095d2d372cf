// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSerializer(t *testing.T) {
	r := newRecorder[int]()
	s := newSerializer[int](r)

	s.OnNext(1)
	s.OnNext(2)
	require.Zero(t, s.Len())
	s.OnComplete()

	<-r.done
	r.requireCompleted(t)
	require.Equal(t, []int{1, 2}, r.Items())
}

func TestSerializerReentrant(t *testing.T) {
	// Pushing from within the observer enqueues rather than recursing and
	// is delivered after the current event.
	var s *serializer[int]
	r := newRecorder[int]()
	s = newSerializer[int](Funcs[int]{
		Next: func(x int) {
			r.OnNext(x)
			if x < 3 {
				s.OnNext(x + 1)
				require.Equal(t, 1, s.Len())
			} else {
				s.OnError(errors.New("done"))
			}
		},
		Error: r.OnError,
	})
	s.OnNext(0)

	<-r.done
	require.EqualError(t, r.requireErrored(t), "done")
	require.Equal(t, []int{0, 1, 2, 3}, r.Items())
}

func TestSerializerConcurrent(t *testing.T) {
	const numProducers, numItems = 8, 1000

	r := newRecorder[int]()
	s := newSerializer[int](r)

	var g errgroup.Group
	for p := 0; p < numProducers; p++ {
		g.Go(func() error {
			for i := 0; i < numItems; i++ {
				s.OnNext(p*numItems + i)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	s.OnComplete()
	<-r.done
	r.requireCompleted(t)

	// Items from the same producer keep their order.
	items := r.Items()
	require.Len(t, items, numProducers*numItems)
	last := make([]int, numProducers)
	for i := range last {
		last[i] = -1
	}
	for _, x := range items {
		p := x / numItems
		require.Greater(t, x, last[p])
		last[p] = x
	}
}
