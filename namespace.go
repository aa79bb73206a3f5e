// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package argrange

// Store represents where parsed values are written to.
type Store interface {
	Set(string, any) error
}

// Namespace is an ordinary map[string]any which implements the [Store]
// interface. It holds parsed values keyed by their destination.
type Namespace map[string]any

// Set implements the [Store] interface.
func (ns Namespace) Set(dest string, v any) error {
	ns[dest] = v
	return nil
}

// Get returns the value stored under dest if it is present and of type T.
func Get[T any](ns Namespace, dest string) (T, bool) {
	v, ok := ns[dest].(T)
	return v, ok
}
