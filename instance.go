// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package argrange

import (
	"errors"
	"slices"

	"github.com/z5labs/argrange/internal/try"
)

var errUnknownInput = errors.New("unknown input shape")

// Instance is an [Action] bound to one argument definition. It holds no
// mutable state after construction and is safe for concurrent use.
type Instance[T Number] struct {
	name     string
	names    []string
	dest     string
	arity    Arity
	cnst     *T
	def      any
	explicit bool
	conv     Converter[T]
	choices  []T
	required bool
	help     string
	metavar  string
	bounds   Bounds[T]
	warnings []error
}

// Name is how the argument is referred to in error messages.
func (in *Instance[T]) Name() string { return in.name }

// Names returns the flag spellings, empty for positionals.
func (in *Instance[T]) Names() []string { return in.names }

// Dest returns the key values are stored under.
func (in *Instance[T]) Dest() string { return in.dest }

// Arity returns how many tokens the argument consumes.
func (in *Instance[T]) Arity() Arity { return in.arity }

// Const returns the value used for an Optional flag given without a value.
func (in *Instance[T]) Const() (T, bool) {
	if in.cnst == nil {
		var zero T
		return zero, false
	}
	return *in.cnst, true
}

// Default returns the configured default value.
func (in *Instance[T]) Default() any { return in.def }

// HasConverter reports whether an explicit converter was configured.
func (in *Instance[T]) HasConverter() bool { return in.explicit }

// Required reports whether the argument must be supplied.
func (in *Instance[T]) Required() bool { return in.required }

// Help returns the help text, including the range annotation.
func (in *Instance[T]) Help() string { return in.help }

// Metavar returns the configured display name of the value.
func (in *Instance[T]) Metavar() string { return in.metavar }

// Bounds returns the enforced range.
func (in *Instance[T]) Bounds() Bounds[T] { return in.bounds }

// Warnings returns the non-fatal hazards found in the argument definition.
func (in *Instance[T]) Warnings() []error { return in.warnings }

// Convert turns a single raw token into a number using the explicit
// converter, if any, or the default parsing for T. The range is not checked.
func (in *Instance[T]) Convert(token string) (T, error) {
	v, err := try.Call(func() (T, error) {
		return in.conv(token)
	})
	if err != nil {
		return v, ConversionError{Arg: in.name, Token: token, Cause: err}
	}
	return v, nil
}

// Invoke processes one occurrence of the argument and, on success,
// writes the result to s under the destination key.
func (in *Instance[T]) Invoke(s Store, input Input[T]) error {
	v, err := in.Resolve(input)
	if err != nil {
		return err
	}
	return s.Set(in.dest, v)
}

// Resolve converts and validates input without storing it. The result is
// a T for [Token] and [Converted], a []T for [Tokens] and nil for [Absent].
func (in *Instance[T]) Resolve(input Input[T]) (any, error) {
	switch x := input.(type) {
	case Tokens[T]:
		vs := make([]T, len(x.Raw))
		for i, tok := range x.Raw {
			v, err := in.Convert(tok)
			if err != nil {
				return nil, err
			}
			vs[i] = v
		}
		for _, v := range vs {
			err := in.check(v)
			if err != nil {
				return nil, err
			}
		}
		return vs, nil
	case Token[T]:
		v, err := in.Convert(x.Raw)
		if err != nil {
			return nil, err
		}
		err = in.check(v)
		if err != nil {
			return nil, err
		}
		return v, nil
	case Absent[T]:
		return nil, nil
	case Converted[T]:
		err := in.check(x.Value)
		if err != nil {
			return nil, err
		}
		return x.Value, nil
	default:
		return nil, errUnknownInput
	}
}

func (in *Instance[T]) check(v T) error {
	if !in.bounds.Contains(v) {
		return ValidationError{
			Arg:    in.name,
			Value:  formatNumber(v),
			Bounds: in.bounds.String(),
		}
	}
	if len(in.choices) > 0 && !slices.Contains(in.choices, v) {
		choices := make([]string, len(in.choices))
		for i, c := range in.choices {
			choices[i] = formatNumber(c)
		}
		return ChoiceError{
			Arg:     in.name,
			Value:   formatNumber(v),
			Choices: choices,
		}
	}
	return nil
}
