// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package argrange

// Input is the shape of the value(s) handed to [Instance.Invoke] for a
// single parse event. It is implemented only by [Absent], [Token],
// [Tokens] and [Converted].
type Input[T Number] interface {
	isInput()
}

// Absent means an optional argument was not supplied.
type Absent[T Number] struct{}

// Token is a single raw token which still needs converting.
type Token[T Number] struct {
	Raw string
}

// Tokens are the raw tokens of a list argument.
type Tokens[T Number] struct {
	Raw []string
}

// Converted is a single value which the host already converted.
type Converted[T Number] struct {
	Value T
}

func (Absent[T]) isInput()    {}
func (Token[T]) isInput()     {}
func (Tokens[T]) isInput()    {}
func (Converted[T]) isInput() {}
