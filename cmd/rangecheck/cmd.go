// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/z5labs/argrange"
	"github.com/z5labs/argrange/rangeconfig"
)

type config struct {
	Workers        argrange.Bounds[int]     `mapstructure:"workers"`
	Ratio          argrange.Bounds[float64] `mapstructure:"ratio"`
	Levels         argrange.Bounds[int]     `mapstructure:"levels"`
	Threshold      argrange.Bounds[int]     `mapstructure:"threshold"`
	DefaultWorkers int                      `mapstructure:"default_workers"`
}

// loadConfig reads the bounds of every argument. Each can be overridden
// in the file named by RANGECHECK_CONFIG or by RANGECHECK_<KEY>, e.g.
// RANGECHECK_WORKERS=1..=8.
func loadConfig(v *viper.Viper) (config, error) {
	v.SetDefault("workers", "1..=64")
	v.SetDefault("ratio", "0..=1")
	v.SetDefault("levels", "0..=9")
	v.SetDefault("threshold", "0..=100")
	v.SetDefault("default_workers", 4)
	v.SetEnvPrefix("rangecheck")
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		err := v.ReadInConfig()
		if err != nil {
			return config{}, err
		}
	}

	var cfg config
	err := rangeconfig.Unmarshal(v, &cfg)
	return cfg, err
}

func percentage(s string) (float64, error) {
	s, isPercent := strings.CutSuffix(strings.TrimSpace(s), "%")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !isPercent {
		return f, err
	}
	return f / 100, nil
}

func newCommand(v *viper.Viper, logger *zap.Logger, out io.Writer) (*cobra.Command, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}

	cmd := &cobra.Command{
		Use:          "rangecheck [flags] threshold [samples...]",
		Short:        "Validate numeric arguments against configurable ranges",
		SilenceUsage: true,
	}
	b := argrange.Bind(cmd)

	opt := argrange.Logger(logger)
	workers, err := argrange.ForBounds(cfg.Workers, opt)
	if err != nil {
		return nil, err
	}
	ratio, err := argrange.ForBounds(cfg.Ratio, opt)
	if err != nil {
		return nil, err
	}
	levels, err := argrange.ForBounds(cfg.Levels, opt)
	if err != nil {
		return nil, err
	}
	threshold, err := argrange.ForBounds(cfg.Threshold, opt)
	if err != nil {
		return nil, err
	}
	fraction, err := argrange.New(0.0, 1.0, opt)
	if err != nil {
		return nil, err
	}

	half := 0.5
	defs := []func() error{
		addArg(b, workers, argrange.ArgConfig[int]{
			Names:   []string{"--workers", "-w"},
			Default: cfg.DefaultWorkers,
			Help:    "number of concurrent workers",
		}),
		addArg(b, ratio, argrange.ArgConfig[float64]{
			Names: []string{"--ratio"},
			Arity: argrange.Optional,
			Const: &half,
			Help:  "sampling ratio, 0.5 when given without a value",
		}),
		addArg(b, levels, argrange.ArgConfig[int]{
			Names: []string{"--levels", "-l"},
			Arity: argrange.ZeroOrMore,
			Help:  "comma separated verbosity levels",
		}),
		addArg(b, threshold, argrange.ArgConfig[int]{
			Dest: "threshold",
			Help: "alert threshold",
		}),
		addArg(b, fraction, argrange.ArgConfig[float64]{
			Dest:    "samples",
			Arity:   argrange.ZeroOrMore,
			Type:    percentage,
			Metavar: "samples...",
			Help:    "observed fractions, either 0.25 or 25%",
		}),
	}
	for _, def := range defs {
		err := def()
		if err != nil {
			return nil, err
		}
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(map[string]any(b.Namespace()))
	}
	return cmd, nil
}

func addArg[T argrange.Number](b *argrange.Binder, a *argrange.Action[T], cfg argrange.ArgConfig[T]) func() error {
	return func() error {
		_, err := argrange.Add(b, a, cfg)
		return err
	}
}
