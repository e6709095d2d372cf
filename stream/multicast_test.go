// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectable(t *testing.T) {
	ctx := context.Background()

	c := Publish(Just("Maça", "Banana", "Uva", "Melancia"))
	r1, r2 := newRecorder[string](), newRecorder[string]()
	c.Subscribe(ctx, r1)
	c.Subscribe(ctx, r2)

	// Nothing is produced before Connect.
	require.Empty(t, r1.Items())
	require.False(t, c.IsConnected())
	require.Equal(t, 2, c.Subscribers())

	_, err := c.Connect(ctx)
	require.NoError(t, err)
	require.True(t, c.IsConnected())

	for _, r := range []*recorder[string]{r1, r2} {
		<-r.done
		r.requireCompleted(t)
		require.Equal(t, []string{"Maça", "Banana", "Uva", "Melancia"}, r.Items())
	}
	require.Zero(t, c.Subscribers())

	// Connecting again does nothing.
	_, err = c.Connect(ctx)
	require.ErrorIs(t, err, ErrAlreadyConnected)

	// Subscribing after the shared run receives only the terminal event.
	r3 := collect[string](t, c)
	r3.requireCompleted(t)
	require.Empty(t, r3.Items())
}

func TestConnectableLateSubscriber(t *testing.T) {
	ctx := context.Background()

	emit, complete, src := fromCallback[int](10)
	c := Publish(src)

	r1 := newRecorder[int]()
	c.Subscribe(ctx, r1)
	_, err := c.Connect(ctx)
	require.NoError(t, err)

	emit(1)
	require.Eventually(t,
		func() bool { return len(r1.Items()) == 1 },
		time.Second, time.Millisecond)

	r2 := newRecorder[int]()
	c.Subscribe(ctx, r2)
	emit(2)
	complete(nil)

	<-r1.done
	<-r2.done
	r1.requireCompleted(t)
	r2.requireCompleted(t)
	require.Equal(t, []int{1, 2}, r1.Items())
	require.Equal(t, []int{2}, r2.Items(), "no replay for late subscribers")
}

func TestConnectableError(t *testing.T) {
	ctx := context.Background()
	failed := errors.New("failed")

	c := Publish(Error[int](failed))
	r1, r2 := newRecorder[int](), newRecorder[int]()
	c.Subscribe(ctx, r1)
	c.Subscribe(ctx, r2)
	_, err := c.Connect(ctx)
	require.NoError(t, err)

	require.ErrorIs(t, r1.requireErrored(t), failed)
	require.ErrorIs(t, r2.requireErrored(t), failed)

	r3 := collect[int](t, c)
	require.ErrorIs(t, r3.requireErrored(t), failed)
}

func TestConnectableCancelSubscriber(t *testing.T) {
	ctx := context.Background()

	emit, complete, src := fromCallback[int](10)
	c := Publish(src)

	r1, r2 := newRecorder[int](), newRecorder[int]()
	sub1 := c.Subscribe(ctx, r1)
	c.Subscribe(ctx, r2)
	_, err := c.Connect(ctx)
	require.NoError(t, err)

	sub1.Cancel()
	require.Eventually(t,
		func() bool { return c.Subscribers() == 1 },
		time.Second, time.Millisecond)

	emit(1)
	complete(nil)
	<-r2.done
	r2.requireCompleted(t)
	require.Equal(t, []int{1}, r2.Items())
	require.Empty(t, r1.Items())
	require.NoError(t, r1.Err())
}

func TestConnectableDisconnect(t *testing.T) {
	emit, _, src := fromCallback[int](10)
	c := Publish(src)

	r := newRecorder[int]()
	c.Subscribe(context.Background(), r)

	connCtx, cancel := context.WithCancel(context.Background())
	conn, err := c.Connect(connCtx)
	require.NoError(t, err)

	emit(1)
	require.Eventually(t,
		func() bool { return len(r.Items()) == 1 },
		time.Second, time.Millisecond)

	// Stopping the shared run does not terminate the observers.
	cancel()
	require.True(t, conn.IsDisposed())
	emit(2)
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, []int{1}, r.Items())
	require.Equal(t, 1, c.Subscribers())
}

func TestAutoConnect(t *testing.T) {
	ctx := context.Background()

	c := Publish(Just(1, 2, 3))
	src := c.AutoConnect(ctx, 2)

	r1 := newRecorder[int]()
	src.Subscribe(ctx, r1)
	require.False(t, c.IsConnected())

	r2 := newRecorder[int]()
	src.Subscribe(ctx, r2)
	require.True(t, c.IsConnected())

	for _, r := range []*recorder[int]{r1, r2} {
		<-r.done
		r.requireCompleted(t)
		require.Equal(t, []int{1, 2, 3}, r.Items())
	}
}
