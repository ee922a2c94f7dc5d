// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package vartype provides optional values for statistics that may not exist, such as the
// average of an empty table.
package vartype

import (
	"encoding/json"
	"fmt"
)

// VarFloat64 is an optional float64.
type VarFloat64 = Variable[float64]

// Variable holds a value and whether it was ever set.
type Variable[T any] struct {
	value T
	isset bool
}

// NewVariable returns a Variable set to value.
func NewVariable[T any](value T) Variable[T] {
	return Variable[T]{
		isset: true,
		value: value,
	}
}

// Reset unsets the Variable.
func (v *Variable[T]) Reset() {
	var newVal T
	v.value = newVal
	v.isset = false
}

// Value returns the value, or the zero value if unset.
func (v *Variable[T]) Value() T {
	return v.value
}

// Set stores val.
func (v *Variable[T]) Set(val T) {
	v.value = val
	v.isset = true
}

func (v *Variable[T]) IsSet() bool {
	return v.isset
}

// String formats the value, or "n/a" if unset.
func (v Variable[T]) String() string {
	if !v.isset {
		return "n/a"
	}
	return fmt.Sprint(v.value)
}

// MarshalJSON encodes an unset Variable as null.
func (v Variable[T]) MarshalJSON() ([]byte, error) {
	if !v.isset {
		return []byte("null"), nil
	}
	return json.Marshal(v.value)
}

// UnmarshalJSON resets the Variable on null.
func (v *Variable[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		v.Reset()
		return nil
	}
	var val T
	if err := json.Unmarshal(data, &val); err != nil {
		return fmt.Errorf("failed to decode variable: %w", err)
	}
	v.Set(val)
	return nil
}
