// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPrecedence(t *testing.T) {
	t.Setenv("RXEX_TICK", "250ms")
	t.Setenv("RXEX_RUN_FOR", "2s")
	t.Setenv("RXEX_LOG_LEVEL", "debug")

	cfg, err := Load(map[string]any{"run_for": 3 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Tick)
	assert.Equal(t, 3*time.Second, cfg.RunFor, "overrides win over the environment")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, Default().Timeout, cfg.Timeout)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		env       map[string]string
	}{
		{name: "bad level", overrides: map[string]any{"log_level": "loud"}},
		{name: "zero tick", overrides: map[string]any{"tick": time.Duration(0)}},
		{name: "negative timeout", env: map[string]string{"RXEX_TIMEOUT": "-1s"}},
		{name: "unparsable duration", env: map[string]string{"RXEX_RUN_FOR": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(tt.overrides)
			require.Error(t, err)
		})
	}
}
