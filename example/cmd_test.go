// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestList(t *testing.T) {
	out, _, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1.1   Observable and observer hello world\n")
	assert.Contains(t, out, "8.2 ")
}

func TestRun(t *testing.T) {
	out, _, err := execute(t, "run", "1.1", "4.2")
	require.NoError(t, err)
	assert.Equal(t,
		"=== 1.1: Observable and observer hello world\n"+
			"Received: Ev1\nReceived: Ev2\nReceived: Ev3\n"+
			"=== 4.2: Maybe\n"+
			"Received: 1\nCompleted!\n",
		out)
}

func TestRunDebugLog(t *testing.T) {
	_, errOut, err := execute(t, "run", "--log-level", "debug", "8.1")
	require.NoError(t, err)
	assert.Contains(t, errOut, "|debu| Running example example=8.1")
	assert.Contains(t, errOut, "|debu| Word word=Im")
}

func TestRunErrors(t *testing.T) {
	_, _, err := execute(t, "run")
	require.Error(t, err)

	_, _, err = execute(t, "run", "1.1", "9.9")
	require.EqualError(t, err, "unknown examples: 9.9")

	_, _, err = execute(t, "run", "--log-level", "loud", "1.1")
	require.ErrorContains(t, err, "invalid configuration")

	_, _, err = execute(t, "run", "--tick", "0s", "5.3")
	require.ErrorContains(t, err, "invalid configuration")
}

func TestRunConfigFromEnv(t *testing.T) {
	t.Setenv("RXEX_TICK", "1ms")
	out, _, err := execute(t, "run", "5.3")
	require.NoError(t, err)
	assert.Contains(t, out, "Hit count: 5\n")
}
