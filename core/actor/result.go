package actor

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Result is a call outcome carrying either a value or an error payload.
type Result[T any] struct {
	ok  bool
	val T
	err json.RawMessage
}

func Ok[T any](v T) Result[T] {
	return Result[T]{ok: true, val: v}
}

func Err[T any](payload interface{}) Result[T] {
	b, _ := json.Marshal(payload)
	return Result[T]{err: b}
}

func (r Result[T]) IsOk() bool {
	return r.ok
}

func (r Result[T]) Unwrap() (T, error) {
	if r.ok {
		return r.val, nil
	}
	var zero T
	return zero, newRejection(r.err)
}

func (r *Result[T]) UnmarshalJSON(b []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("result: %v", err)
	}
	if len(m) != 1 {
		return errors.New("result must have exactly one of ok, err")
	}
	for k, v := range m {
		switch k {
		case "ok", "Ok":
			var val T
			if err := json.Unmarshal(v, &val); err != nil {
				return fmt.Errorf("result ok: %v", err)
			}
			*r = Result[T]{ok: true, val: val}
		case "err", "Err":
			*r = Result[T]{err: v}
		default:
			return fmt.Errorf("result has unknown branch %q", k)
		}
	}
	return nil
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.ok {
		return json.Marshal(map[string]T{"Ok": r.val})
	}
	return json.Marshal(map[string]json.RawMessage{"Err": r.err})
}
