// Package optional provides a three-state input field: not provided, provided as null,
// or provided with a value. A plain pointer cannot tell "leave unchanged" from "clear".
package optional

import (
	"bytes"
	"encoding/json"
)

// Field holds an input value that may be absent, explicitly null, or set.
// The zero value is an absent field.
type Field[T any] struct {
	present bool
	null    bool
	value   T
}

// Unset returns an absent field.
func Unset[T any]() Field[T] { return Field[T]{} }

// Null returns a field that was provided as null.
func Null[T any]() Field[T] { return Field[T]{present: true, null: true} }

// Of returns a field provided with v.
func Of[T any](v T) Field[T] { return Field[T]{present: true, value: v} }

// Provided reports whether the field was supplied at all, null included.
func (f Field[T]) Provided() bool { return f.present }

// IsNull reports whether the field was supplied as an explicit null.
func (f Field[T]) IsNull() bool { return f.present && f.null }

// Get returns the value and true only when the field carries a non-null value.
func (f Field[T]) Get() (T, bool) {
	if !f.present || f.null {
		var zero T
		return zero, false
	}
	return f.value, true
}

// Ptr returns nil for absent and null fields, otherwise a pointer to a copy of the value.
func (f Field[T]) Ptr() *T {
	v, ok := f.Get()
	if !ok {
		return nil
	}
	return &v
}

// UnmarshalJSON marks the field as provided. encoding/json only calls it when the key
// is present in the document, which is what separates absent from null.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.null = true
		var zero T
		f.value = zero
		return nil
	}
	f.null = false
	return json.Unmarshal(data, &f.value)
}

// MarshalJSON writes null for absent and null fields.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	v, ok := f.Get()
	if !ok {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}
