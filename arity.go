// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package argrange

import "strconv"

type arityKind int

const (
	aritySingle arityKind = iota
	arityOptional
	arityZeroOrMore
	arityOneOrMore
	arityExactly
)

// Arity describes how many tokens an argument consumes. The zero value
// consumes exactly one token and produces a single value, every other
// arity except [Optional] produces a list.
type Arity struct {
	kind arityKind
	n    int
}

var (
	// Single consumes exactly one token and produces a single value.
	Single = Arity{}

	// Optional consumes zero or one token and produces a single value
	// or nil.
	Optional = Arity{kind: arityOptional}

	// ZeroOrMore consumes any number of tokens.
	ZeroOrMore = Arity{kind: arityZeroOrMore}

	// OneOrMore consumes at least one token.
	OneOrMore = Arity{kind: arityOneOrMore}
)

// Exactly consumes exactly n tokens and, unlike [Single], always
// produces a list even when n is 1.
func Exactly(n int) Arity {
	return Arity{kind: arityExactly, n: n}
}

// IsList reports whether values for this arity are stored as a slice.
func (a Arity) IsList() bool {
	switch a.kind {
	case aritySingle, arityOptional:
		return false
	default:
		return true
	}
}

// Min returns the fewest tokens the arity accepts.
func (a Arity) Min() int {
	switch a.kind {
	case aritySingle, arityOneOrMore:
		return 1
	case arityExactly:
		return a.n
	default:
		return 0
	}
}

// Max returns the most tokens the arity accepts or -1 when unbounded.
func (a Arity) Max() int {
	switch a.kind {
	case arityZeroOrMore, arityOneOrMore:
		return -1
	case arityExactly:
		return a.n
	default:
		return 1
	}
}

// String implements the [fmt.Stringer] interface.
func (a Arity) String() string {
	switch a.kind {
	case arityOptional:
		return "?"
	case arityZeroOrMore:
		return "*"
	case arityOneOrMore:
		return "+"
	case arityExactly:
		return strconv.Itoa(a.n)
	default:
		return ""
	}
}

func (a Arity) accepts(n int) bool {
	return n >= a.Min() && (a.Max() < 0 || n <= a.Max())
}
