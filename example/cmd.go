// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/joamaki/rxcore/internal/config"
	"github.com/joamaki/rxcore/internal/examples"
	"github.com/joamaki/rxcore/internal/log"
	"github.com/joamaki/rxcore/stream"
)

// flagKeys maps the persistent flags to the configuration keys they override.
var flagKeys = map[string]string{
	"log-level": "log_level",
	"tick":      "tick",
	"run-for":   "run_for",
	"timeout":   "timeout",
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "example",
		Short:         "Runs the stream examples",
		SilenceUsage: true,
	}

	def := config.Default()
	flags := root.PersistentFlags()
	flags.String("log-level", def.LogLevel, "log level (debug, info, warn, error)")
	flags.Duration("tick", def.Tick, "period of the interval examples")
	flags.Duration("run-for", def.RunFor, "how long the interval examples observe")
	flags.Duration("timeout", def.Timeout, "timeout for a single example")

	root.AddCommand(
		listCmd(),
		runCmd(),
	)
	return root
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the examples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, ex := range examples.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-5s %s\n", ex.Name, ex.Title)
			}
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "run [names...]",
		Short: "Run the named examples",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			toRun, err := selectExamples(args, all)
			if err != nil {
				return err
			}

			logger, err := log.New(cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			stream.SetLogger(logger)

			env := examples.Env{
				Out:    cmd.OutOrStdout(),
				Log:    logger,
				Tick:   cfg.Tick,
				RunFor: cfg.RunFor,
			}
			for _, ex := range toRun {
				fmt.Fprintf(cmd.OutOrStdout(), "=== %s: %s\n", ex.Name, ex.Title)
				logger.WithField("example", ex.Name).Debug("Running example")
				if err := runExample(cmd.Context(), cfg, ex, env); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "run all examples")
	return cmd
}

func runExample(ctx context.Context, cfg *config.Config, ex examples.Example, env examples.Env) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	return errors.Wrapf(ex.Run(ctx, env), "example %s", ex.Name)
}

func selectExamples(names []string, all bool) ([]examples.Example, error) {
	if all {
		return examples.All(), nil
	}
	if len(names) == 0 {
		return nil, errors.New("no examples given, use --all to run all of them")
	}
	var (
		selected []examples.Example
		unknown  []string
	)
	for _, name := range lo.Uniq(names) {
		ex, ok := examples.Lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		selected = append(selected, ex)
	}
	if len(unknown) > 0 {
		return nil, errors.Errorf("unknown examples: %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}

// loadConfig layers the flags that were explicitly set over the defaults
// and the environment.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	overrides := map[string]any{}
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if flag == "log-level" {
			overrides[key] = f.Value.String()
			continue
		}
		d, err := cmd.Flags().GetDuration(flag)
		if err != nil {
			return nil, err
		}
		overrides[key] = d
	}
	return config.Load(overrides)
}
