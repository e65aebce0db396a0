package actor

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrTransport = errors.New("actor call failed")
	ErrRejected  = errors.New("actor rejected call")
)

// TransportError means the call itself did not complete: network failure,
// gateway failure or a canister trap.
type TransportError struct {
	Canister string
	Method   string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Canister, e.Method, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// RejectionError is the err branch of a call result. Variant is the name of
// the error case when the payload is a variant.
type RejectionError struct {
	Canister string
	Method   string
	Variant  string
	Payload  json.RawMessage
}

func (e *RejectionError) Error() string {
	if e.Canister == "" {
		return fmt.Sprintf("rejected: %s", e.Variant)
	}
	return fmt.Sprintf("%s.%s rejected: %s", e.Canister, e.Method, e.Variant)
}

func (e *RejectionError) Is(target error) bool {
	return target == ErrRejected
}

// Decode unmarshals the variant payload into v.
func (e *RejectionError) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

func newRejection(payload json.RawMessage) *RejectionError {
	r := &RejectionError{Payload: payload}
	var s string
	if json.Unmarshal(payload, &s) == nil {
		r.Variant = s
		return r
	}
	var m map[string]json.RawMessage
	if json.Unmarshal(payload, &m) == nil && len(m) == 1 {
		for k := range m {
			r.Variant = k
		}
		return r
	}
	r.Variant = string(payload)
	return r
}
