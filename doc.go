// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package argrange constrains numeric command line arguments to an inclusive range.
//
// An [Action] is created once per range and can be attached to any number of
// arguments. Attaching it to an argument definition, an [ArgConfig], produces
// an [Instance] which:
//
//   - appends "(must be in range min..=max)" to the help text
//   - converts raw tokens into numbers, using an explicit [Converter] if one is given
//   - rejects any value outside of the range with a [ValidationError]
//
// # Basic Usage
//
// Create the action during program setup. Invalid bounds are reported
// immediately, before any arguments are parsed:
//
//	workers, err := argrange.New(1, 64)
//	if err != nil {
//	    return err
//	}
//
// Attach it to a cobra command through a [Binder]:
//
//	b := argrange.Bind(cmd)
//	_, err = argrange.Add(b, workers, argrange.ArgConfig[int]{
//	    Names:   []string{"--workers", "-w"},
//	    Default: 4,
//	    Help:    "number of workers",
//	})
//
// After cmd executes, the parsed values are available from b.Namespace().
// Out of range values surface as the error returned by cmd.Execute.
//
// # Input Shapes
//
// A parse event hands an [Instance] one of four inputs: [Token] for a
// single raw value, [Tokens] for the raw values of a list argument,
// [Converted] for a value the host already converted and [Absent] for an
// optional argument which was not given. Lists are validated atomically,
// one bad element rejects the whole occurrence.
//
// # Parsing
//
// A [Binder] parses the command's flags itself so that in range negative
// numbers such as -3 are accepted as positional values. This is disabled
// when any flag uses a digit as its shorthand. Because of this, the args
// passed to RunE still contain the flags. Each execution starts over from
// the defaults.
package argrange
