// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package argrange

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// Flag adapts an [Instance] to the [pflag.Value] interface. List arities
// also implement [pflag.SliceValue].
type Flag[T Number] struct {
	in      *Instance[T]
	store   Store
	value   any
	changed bool
	report  func(error)
}

var (
	_ pflag.Value      = (*Flag[int])(nil)
	_ pflag.SliceValue = (*Flag[int])(nil)
)

// NewFlag returns a Flag which writes to s. The default of the instance is
// stored immediately, without validation.
func NewFlag[T Number](in *Instance[T], s Store) (*Flag[T], error) {
	f := &Flag[T]{
		in:    in,
		store: s,
		value: in.Default(),
	}
	err := s.Set(in.Dest(), f.value)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Flag[T]) reset() error {
	f.value = f.in.Default()
	f.changed = false
	return f.store.Set(f.in.Dest(), f.value)
}

// Changed reports whether the flag was set at least once.
func (f *Flag[T]) Changed() bool {
	return f.changed
}

// String implements the [pflag.Value] interface.
func (f *Flag[T]) String() string {
	switch v := f.value.(type) {
	case nil:
		if f.in.Arity().IsList() {
			return "[]"
		}
		return ""
	case T:
		return formatNumber(v)
	case []T:
		return formatNumbers(v)
	default:
		return fmt.Sprint(v)
	}
}

// Type implements the [pflag.Value] interface.
func (f *Flag[T]) Type() string {
	if mv := f.in.Metavar(); mv != "" {
		return mv
	}
	if f.in.Arity().IsList() {
		return kindName[T]() + "Slice"
	}
	return kindName[T]()
}

// Set implements the [pflag.Value] interface. It is called once per
// occurrence of the flag.
func (f *Flag[T]) Set(s string) (err error) {
	defer func() {
		if err != nil && f.report != nil {
			f.report(err)
		}
	}()

	arity := f.in.Arity()
	if !arity.IsList() {
		return f.apply(Token[T]{Raw: s}, false)
	}

	raw := splitTokens(s)
	if !arity.accepts(len(raw)) {
		return ArgCountError{Arg: f.in.Name(), Min: arity.Min(), Max: arity.Max(), Got: len(raw)}
	}
	// fixed size lists are replaced on every occurrence like single values
	appendTo := f.changed && arity.kind != arityExactly
	return f.apply(Tokens[T]{Raw: raw}, appendTo)
}

func (f *Flag[T]) apply(input Input[T], appendTo bool) error {
	v, err := f.in.Resolve(input)
	if err != nil {
		return err
	}
	if appendTo {
		prev, _ := f.value.([]T)
		v = append(slices.Clone(prev), v.([]T)...)
	}
	err = f.store.Set(f.in.Dest(), v)
	if err != nil {
		return err
	}
	f.value = v
	f.changed = true
	return nil
}

// Append implements the [pflag.SliceValue] interface.
func (f *Flag[T]) Append(s string) error {
	return f.apply(Tokens[T]{Raw: []string{s}}, true)
}

// Replace implements the [pflag.SliceValue] interface. All values are
// validated before any of them replace the current ones.
func (f *Flag[T]) Replace(ss []string) error {
	return f.apply(Tokens[T]{Raw: ss}, false)
}

// GetSlice implements the [pflag.SliceValue] interface.
func (f *Flag[T]) GetSlice() []string {
	vs, _ := f.value.([]T)
	ss := make([]string, len(vs))
	for i, v := range vs {
		ss[i] = formatNumber(v)
	}
	return ss
}

func splitTokens(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
