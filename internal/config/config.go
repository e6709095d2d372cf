// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// EnvPrefix is the prefix of the environment variables that override the
// defaults, e.g. RXEX_RUN_FOR=3s.
const EnvPrefix = "RXEX_"

// Config of the example runner.
type Config struct {
	// LogLevel of the runner and of the undeliverable stream errors.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// Tick is the period of the interval based examples.
	Tick time.Duration `koanf:"tick" validate:"gt=0"`

	// RunFor is how long the interval based examples observe before
	// cancelling their subscription.
	RunFor time.Duration `koanf:"run_for" validate:"gt=0"`

	// Timeout bounds the run of a single example.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Tick:     time.Second,
		RunFor:   5 * time.Second,
		Timeout:  30 * time.Second,
	}
}

// Load builds the configuration from the defaults, then the RXEX_ environment
// variables and finally 'overrides' (keyed by koanf tag, e.g. "run_for"),
// each layer taking precedence over the previous one.
func Load(overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnvKey,
	}), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load environment variables")
	}

	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return nil, errors.Wrapf(err, "failed to set %s", key)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &cfg,
			TagName:          "koanf",
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// transformEnvKey maps RXEX_RUN_FOR to run_for.
func transformEnvKey(key, value string) (string, any) {
	return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
}
