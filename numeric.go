// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package argrange

import (
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Number is the set of numeric types a range can be defined over.
type Number interface {
	constraints.Integer | constraints.Float
}

func isFloat[T Number]() bool {
	var x T = 1
	x /= 2
	return x != 0
}

func isSigned[T Number]() bool {
	var x T
	x--
	return x < 0
}

func bitSize[T Number]() int {
	var zero T
	return reflect.TypeOf(zero).Bits()
}

// kindName returns the name of the underlying kind of T, e.g. int or float64.
func kindName[T Number]() string {
	var zero T
	return reflect.TypeOf(zero).Kind().String()
}

// parseNumber is the converter used when an argument has no explicit one.
func parseNumber[T Number](s string) (T, error) {
	s = strings.TrimSpace(s)
	switch {
	case isFloat[T]():
		f, err := strconv.ParseFloat(s, bitSize[T]())
		return T(f), err
	case isSigned[T]():
		i, err := strconv.ParseInt(s, 10, bitSize[T]())
		return T(i), err
	default:
		u, err := strconv.ParseUint(s, 10, bitSize[T]())
		return T(u), err
	}
}

// formatNumber renders v so that float values always read as floats,
// e.g. 1 for an int but 1.0 for a float64.
func formatNumber[T Number](v T) string {
	switch {
	case isFloat[T]():
		s := strconv.FormatFloat(float64(v), 'g', -1, bitSize[T]())
		if strings.ContainsAny(s, ".eEnN") {
			return s
		}
		return s + ".0"
	case isSigned[T]():
		return strconv.FormatInt(int64(v), 10)
	default:
		return strconv.FormatUint(uint64(v), 10)
	}
}

func formatNumbers[T Number](vs []T) string {
	ss := make([]string, len(vs))
	for i, v := range vs {
		ss[i] = formatNumber(v)
	}
	return "[" + strings.Join(ss, ",") + "]"
}
