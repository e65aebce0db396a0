package actor

import (
	"encoding/json"
	"fmt"
)

// Opt is an optional value, carried on the wire as a zero or one element
// array.
type Opt[T any] struct {
	set bool
	val T
}

func Some[T any](v T) Opt[T] {
	return Opt[T]{set: true, val: v}
}

func None[T any]() Opt[T] {
	return Opt[T]{}
}

// OptOf maps a nil pointer to None.
func OptOf[T any](v *T) Opt[T] {
	if v == nil {
		return Opt[T]{}
	}
	return Some(*v)
}

func (o Opt[T]) Get() (T, bool) {
	return o.val, o.set
}

func (o Opt[T]) Ptr() *T {
	if !o.set {
		return nil
	}
	v := o.val
	return &v
}

func (o *Opt[T]) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = Opt[T]{}
		return nil
	}
	var vs []json.RawMessage
	if err := json.Unmarshal(b, &vs); err != nil {
		return fmt.Errorf("opt: %v", err)
	}
	switch len(vs) {
	case 0:
		*o = Opt[T]{}
	case 1:
		var v T
		if err := json.Unmarshal(vs[0], &v); err != nil {
			return fmt.Errorf("opt: %v", err)
		}
		*o = Some(v)
	default:
		return fmt.Errorf("opt: %d elements", len(vs))
	}
	return nil
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("[]"), nil
	}
	return json.Marshal([]T{o.val})
}
