// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package argrange

import (
	"fmt"
	"strings"
)

const boundsSep = "..="

// Bounds is an inclusive numeric range. The zero value only contains
// zero, use [NewBounds] to construct a valid range.
type Bounds[T Number] struct {
	min T
	max T
}

// NewBounds returns the inclusive range minimum..=maximum. A [BoundsError]
// is returned if minimum is not strictly less than maximum.
func NewBounds[T Number](minimum, maximum T) (Bounds[T], error) {
	if !(minimum < maximum) {
		return Bounds[T]{}, BoundsError{
			Min: formatNumber(minimum),
			Max: formatNumber(maximum),
		}
	}
	return Bounds[T]{min: minimum, max: maximum}, nil
}

// Min returns the smallest value in the range.
func (b Bounds[T]) Min() T {
	return b.min
}

// Max returns the largest value in the range.
func (b Bounds[T]) Max() T {
	return b.max
}

// Contains reports whether v lies within the range, ends included.
func (b Bounds[T]) Contains(v T) bool {
	return b.min <= v && v <= b.max
}

// String implements the [fmt.Stringer] interface.
func (b Bounds[T]) String() string {
	return formatNumber(b.min) + boundsSep + formatNumber(b.max)
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (b Bounds[T]) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
// The expected format is the same as the one produced by [Bounds.String],
// e.g. 1..=10.
func (b *Bounds[T]) UnmarshalText(text []byte) error {
	lo, hi, found := strings.Cut(string(text), boundsSep)
	if !found {
		return fmt.Errorf("bounds must be formatted as min%smax: %q", boundsSep, text)
	}
	minimum, err := parseNumber[T](lo)
	if err != nil {
		return fmt.Errorf("invalid minimum: %w", err)
	}
	maximum, err := parseNumber[T](hi)
	if err != nil {
		return fmt.Errorf("invalid maximum: %w", err)
	}
	nb, err := NewBounds(minimum, maximum)
	if err != nil {
		return err
	}
	*b = nb
	return nil
}

func (b Bounds[T]) annotation() string {
	return fmt.Sprintf("(must be in range %s)", b)
}
