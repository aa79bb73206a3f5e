// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package argrange

import (
	"fmt"
	"strings"
)

// BoundsError is returned when a range is defined with a minimum
// which is not strictly less than its maximum.
type BoundsError struct {
	Min string
	Max string
}

// Error implements the [builtin.error] interface.
func (e BoundsError) Error() string {
	return fmt.Sprintf("minimum %s must be less than maximum %s", e.Min, e.Max)
}

// ArgConfigError represents a mistake in an argument definition.
type ArgConfigError struct {
	Arg    string
	Reason string
}

// Error implements the [builtin.error] interface.
func (e ArgConfigError) Error() string {
	return fmt.Sprintf("invalid definition for argument %s: %s", e.Arg, e.Reason)
}

// ValidationError is returned when a value falls outside of its bounds.
type ValidationError struct {
	Arg    string
	Value  string
	Bounds string
}

// Error implements the [builtin.error] interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("argument %s: invalid value %s (must be in range %s)", e.Arg, e.Value, e.Bounds)
}

// ChoiceError is returned when a value is in range but not one of
// the allowed choices.
type ChoiceError struct {
	Arg     string
	Value   string
	Choices []string
}

// Error implements the [builtin.error] interface.
func (e ChoiceError) Error() string {
	return fmt.Sprintf("argument %s: invalid choice %s (choose from %s)", e.Arg, e.Value, strings.Join(e.Choices, ", "))
}

// ConversionError is returned when a raw token can not be converted
// into a number.
type ConversionError struct {
	Arg   string
	Token string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ConversionError) Error() string {
	return fmt.Sprintf("argument %s: invalid value %q: %s", e.Arg, e.Token, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ConversionError) Unwrap() error {
	return e.Cause
}

// ArgCountError is returned when the number of tokens supplied does not
// fit the arity of the argument(s) receiving them.
type ArgCountError struct {
	Arg string
	Min int
	// Max is negative when there is no upper limit.
	Max int
	Got int
}

// Error implements the [builtin.error] interface.
func (e ArgCountError) Error() string {
	prefix := ""
	if e.Arg != "" {
		prefix = "argument " + e.Arg + ": "
	}
	switch {
	case e.Min == e.Max:
		return fmt.Sprintf("%saccepts %d arg(s), received %d", prefix, e.Min, e.Got)
	case e.Got < e.Min:
		return fmt.Sprintf("%srequires at least %d arg(s), only received %d", prefix, e.Min, e.Got)
	default:
		return fmt.Sprintf("%saccepts at most %d arg(s), received %d", prefix, e.Max, e.Got)
	}
}

// DefaultTypeWarning is reported, never returned, when an argument is given
// a textual default without an explicit converter. The default is stored
// as is when the argument is absent, so it will not be the same type as a
// parsed value.
type DefaultTypeWarning struct {
	Arg     string
	Default any
}

// Error implements the [builtin.error] interface.
func (e DefaultTypeWarning) Error() string {
	return fmt.Sprintf(
		"argument %s has default %v with type %T, which may lead to inconsistent types in the parsed namespace",
		e.Arg,
		e.Default,
		e.Default,
	)
}
