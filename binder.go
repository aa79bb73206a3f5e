// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package argrange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type positional interface {
	display() string
	arity() Arity
	help() string
	consume(Store, []string) error
}

// Binder attaches range constrained arguments to a [cobra.Command] and
// collects their parsed values into a [Namespace].
type Binder struct {
	cmd         *cobra.Command
	ns          Namespace
	positionals []positional
	resets      []func() error
	usage       string
	flagErr     error
}

// Bind takes over flag parsing and positional argument handling of cmd.
// Any previously configured cmd.Args is replaced.
//
// Flags are parsed by the Binder instead of cobra so tokens like -3 or
// -0.5 can reach positionals as negative numbers. This is disabled when
// any flag uses a digit as its shorthand. Because cobra no longer strips
// flags, the args handed to cmd.Run include them; read parsed values from
// [Binder.Namespace] instead.
//
// Every execution of cmd starts again from the configured defaults.
func Bind(cmd *cobra.Command) *Binder {
	b := &Binder{
		cmd:   cmd,
		ns:    make(Namespace),
		usage: cmd.UsageTemplate(),
	}
	cmd.DisableFlagParsing = true
	cmd.Args = b.args
	return b
}

// FlagError is returned when a flag value is rejected. pflag only keeps the
// text of the underlying error, FlagError makes it available to [errors.As].
type FlagError struct {
	Message string
	Cause   error
}

// Error implements the [builtin.error] interface.
func (e FlagError) Error() string {
	return e.Message
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e FlagError) Unwrap() error {
	return e.Cause
}

func (b *Binder) flagError(err error) error {
	cause := b.flagErr
	b.flagErr = nil
	if cause == nil {
		return err
	}
	return FlagError{Message: err.Error(), Cause: cause}
}

// Namespace returns the values parsed so far, keyed by destination.
func (b *Binder) Namespace() Namespace {
	return b.ns
}

// Add constructs a for cfg and registers the result on the bound command,
// as a flag when cfg has names or as the next positional otherwise.
func Add[T Number](b *Binder, a *Action[T], cfg ArgConfig[T]) (*Instance[T], error) {
	in, err := a.Construct(cfg)
	if err != nil {
		return nil, err
	}
	if len(in.Names()) == 0 {
		reset := func() error {
			return b.ns.Set(in.Dest(), in.Default())
		}
		err = reset()
		if err != nil {
			return nil, err
		}
		b.resets = append(b.resets, reset)
		b.addPositional(positionalArg[T]{in: in})
		return in, nil
	}
	err = addFlag(b, in)
	if err != nil {
		return nil, err
	}
	return in, nil
}

func addFlag[T Number](b *Binder, in *Instance[T]) error {
	long, short, err := splitNames(in.Names())
	if err != nil {
		return ArgConfigError{Arg: in.Name(), Reason: err.Error()}
	}
	if in.Arity() == Optional && in.cnst == nil {
		return ArgConfigError{Arg: in.Name(), Reason: "optional flags require a const value"}
	}

	name := long
	if name == "" {
		name, short = short, ""
	}

	f, err := NewFlag(in, b.ns)
	if err != nil {
		return err
	}
	f.report = func(err error) {
		b.flagErr = err
	}
	fl := b.cmd.Flags().VarPF(f, name, short, in.Help())
	b.resets = append(b.resets, func() error {
		fl.Changed = false
		return f.reset()
	})
	if c, ok := in.Const(); ok {
		fl.NoOptDefVal = formatNumber(c)
	}
	if in.Required() {
		return b.cmd.MarkFlagRequired(name)
	}
	return nil
}

func splitNames(names []string) (long, short string, err error) {
	for _, n := range names {
		switch {
		case strings.HasPrefix(n, "--") && len(n) > 2:
			if long != "" {
				return "", "", fmt.Errorf("only one long name is supported, got %s and %s", long, n)
			}
			long = n[2:]
		case strings.HasPrefix(n, "-") && len(n) == 2 && n[1] != '-':
			if short != "" {
				return "", "", fmt.Errorf("only one short name is supported, got %s and %s", short, n)
			}
			short = n[1:]
		default:
			return "", "", fmt.Errorf("flag name must look like --name or -n: %q", n)
		}
	}
	return long, short, nil
}

func (b *Binder) addPositional(p positional) {
	b.positionals = append(b.positionals, p)
	b.cmd.SetUsageTemplate(b.usage + b.argumentsUsage())
}

// argumentsUsage renders the positionals as a template string literal so
// help text can never be interpreted as template actions.
func (b *Binder) argumentsUsage() string {
	width := 0
	for _, p := range b.positionals {
		width = max(width, len(p.display()))
	}

	var sb strings.Builder
	sb.WriteString("\nArguments:\n")
	for _, p := range b.positionals {
		fmt.Fprintf(&sb, "  %-*s   %s\n", width, p.display(), p.help())
	}
	return "{{" + strconv.Quote(sb.String()) + "}}"
}

func (b *Binder) args(cmd *cobra.Command, args []string) error {
	b.flagErr = nil
	for _, reset := range b.resets {
		err := reset()
		if err != nil {
			return err
		}
	}

	fs := cmd.Flags()
	err := fs.Parse(protectNegatives(fs, args))
	if errors.Is(err, pflag.ErrHelp) {
		return err
	}
	if err != nil {
		return cmd.FlagErrorFunc()(cmd, b.flagError(err))
	}
	// cobra checks the help flag before calling Args, so it must not stay
	// set for the next execution.
	if help := fs.Lookup("help"); help != nil && help.Changed {
		help.Changed = false
		if help.Value.String() == "true" {
			_ = help.Value.Set("false")
			return pflag.ErrHelp
		}
	}
	err = checkRequired(fs)
	if err != nil {
		return err
	}
	return distribute(b.positionals, restoreNegatives(fs.Args()), b.ns)
}

// distribute hands tokens to the positionals from left to right. Each one
// takes as many as it accepts while leaving enough for the minimums of
// the ones after it.
func distribute(ps []positional, args []string, s Store) error {
	minTotal, maxTotal := 0, 0
	for _, p := range ps {
		minTotal += p.arity().Min()
		if maxTotal >= 0 && p.arity().Max() >= 0 {
			maxTotal += p.arity().Max()
			continue
		}
		maxTotal = -1
	}
	if len(args) < minTotal || (maxTotal >= 0 && len(args) > maxTotal) {
		return ArgCountError{Min: minTotal, Max: maxTotal, Got: len(args)}
	}

	rest := args
	for i, p := range ps {
		later := 0
		for _, q := range ps[i+1:] {
			later += q.arity().Min()
		}
		take := len(rest) - later
		if mx := p.arity().Max(); mx >= 0 && take > mx {
			take = mx
		}
		err := p.consume(s, rest[:take])
		if err != nil {
			return err
		}
		rest = rest[take:]
	}
	return nil
}

type positionalArg[T Number] struct {
	in *Instance[T]
}

func (p positionalArg[T]) display() string {
	if mv := p.in.Metavar(); mv != "" {
		return mv
	}
	return p.in.Dest()
}

func (p positionalArg[T]) arity() Arity {
	return p.in.Arity()
}

func (p positionalArg[T]) help() string {
	return p.in.Help()
}

func (p positionalArg[T]) consume(s Store, tokens []string) error {
	switch {
	case p.in.Arity().IsList():
		return p.in.Invoke(s, Tokens[T]{Raw: tokens})
	case len(tokens) == 0:
		if p.in.Default() != nil {
			return nil
		}
		return p.in.Invoke(s, Absent[T]{})
	case p.in.HasConverter():
		// the host converts single values itself when given a converter
		v, err := p.in.Convert(tokens[0])
		if err != nil {
			return err
		}
		return p.in.Invoke(s, Converted[T]{Value: v})
	default:
		return p.in.Invoke(s, Token[T]{Raw: tokens[0]})
	}
}
