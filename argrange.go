// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package argrange

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Converter turns a raw command line token into a number.
type Converter[T Number] func(string) (T, error)

type actionOptions struct {
	logger *zap.Logger
}

// Option configures an [Action].
type Option func(*actionOptions)

// Logger sets the logger used to report argument definition hazards.
// Defaults to zap.L().
func Logger(logger *zap.Logger) Option {
	return func(ao *actionOptions) {
		ao.logger = logger
	}
}

// Action constrains command line values to an inclusive range. A single
// Action can be attached to any number of arguments via [Action.Construct].
type Action[T Number] struct {
	bounds Bounds[T]
	log    *zap.Logger
}

// New returns an Action accepting values in minimum..=maximum. A
// [BoundsError] is returned if minimum is not strictly less than maximum.
func New[T Number](minimum, maximum T, opts ...Option) (*Action[T], error) {
	b, err := NewBounds(minimum, maximum)
	if err != nil {
		return nil, err
	}
	return newAction(b, opts...), nil
}

// ForBounds returns an Action for already constructed bounds, e.g. ones
// decoded from a config file. The bounds are validated again.
func ForBounds[T Number](b Bounds[T], opts ...Option) (*Action[T], error) {
	return New(b.min, b.max, opts...)
}

// Must panics if err is non-nil. It is meant for defining actions
// during program setup.
//
//	var percent = argrange.Must(argrange.New(0.0, 100.0))
func Must[T Number](a *Action[T], err error) *Action[T] {
	if err != nil {
		panic(err)
	}
	return a
}

func newAction[T Number](b Bounds[T], opts ...Option) *Action[T] {
	ao := &actionOptions{
		logger: zap.L(),
	}
	for _, opt := range opts {
		opt(ao)
	}
	return &Action[T]{
		bounds: b,
		log:    ao.logger.Named("argrange"),
	}
}

// Bounds returns the range enforced by the Action.
func (a *Action[T]) Bounds() Bounds[T] {
	return a.bounds
}

// ArgConfig is the definition of a single command line argument.
type ArgConfig[T Number] struct {
	// Names are the flag spellings, e.g. "--workers" and "-w".
	// An argument without names is positional.
	Names []string

	// Dest is the key the parsed value is stored under. Required for
	// positionals, derived from Names for flags.
	Dest string

	Arity Arity

	// Const is used when an Optional flag is given without a value.
	Const *T

	// Default is stored, unvalidated, when the argument is absent.
	// It is usually a T or []T.
	Default any

	// Type replaces the default number parsing.
	Type Converter[T]

	// Choices further restricts values within the range.
	Choices []T

	Required bool
	Help     string

	// Metavar is the display name of the value in usage output.
	Metavar string
}

// Construct binds the Action to a single argument definition.
func (a *Action[T]) Construct(cfg ArgConfig[T]) (*Instance[T], error) {
	positional := len(cfg.Names) == 0

	dest := cfg.Dest
	if dest == "" && !positional {
		dest = destFromNames(cfg.Names)
	}
	name := displayName(cfg, dest)

	switch {
	case dest == "":
		return nil, ArgConfigError{Arg: name, Reason: "positional arguments require a destination"}
	case positional && cfg.Required:
		return nil, ArgConfigError{Arg: name, Reason: "required is implied by the arity of positional arguments"}
	case cfg.Arity.kind == arityExactly && cfg.Arity.n < 1:
		return nil, ArgConfigError{Arg: name, Reason: "arity must be at least 1"}
	case cfg.Const != nil && cfg.Arity != Optional:
		return nil, ArgConfigError{Arg: name, Reason: "const requires the optional arity"}
	}

	in := &Instance[T]{
		name:     name,
		names:    cfg.Names,
		dest:     dest,
		arity:    cfg.Arity,
		cnst:     cfg.Const,
		def:      cfg.Default,
		explicit: cfg.Type != nil,
		conv:     cfg.Type,
		choices:  cfg.Choices,
		required: cfg.Required,
		help:     annotate(cfg.Help, a.bounds.annotation()),
		metavar:  cfg.Metavar,
		bounds:   a.bounds,
	}
	if in.conv == nil {
		in.conv = parseNumber[T]
	}

	if _, isText := cfg.Default.(string); isText && cfg.Type == nil {
		w := DefaultTypeWarning{Arg: name, Default: cfg.Default}
		in.warnings = append(in.warnings, w)
		a.log.Warn(
			"textual default will not be converted",
			zap.String("arg", name),
			zap.Any("default", cfg.Default),
			zap.String("default_type", fmt.Sprintf("%T", cfg.Default)),
			zap.Error(w),
		)
	}
	return in, nil
}

func annotate(help, annotation string) string {
	if help == "" {
		return annotation
	}
	return help + " " + annotation
}

func destFromNames(names []string) string {
	var short string
	for _, n := range names {
		if strings.HasPrefix(n, "--") {
			return strings.ReplaceAll(strings.TrimPrefix(n, "--"), "-", "_")
		}
		if short == "" {
			short = strings.TrimLeft(n, "-")
		}
	}
	return strings.ReplaceAll(short, "-", "_")
}

func displayName[T Number](cfg ArgConfig[T], dest string) string {
	switch {
	case len(cfg.Names) > 0:
		return strings.Join(cfg.Names, "/")
	case cfg.Metavar != "":
		return cfg.Metavar
	case dest != "":
		return dest
	default:
		return "<positional>"
	}
}
