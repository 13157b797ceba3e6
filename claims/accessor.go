package claims

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
)

// DecodeError reports a claim value that cannot be converted to or from
// the requested shape. The store is left unchanged when it is returned.
type DecodeError struct {
	Claim string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("claim %q: %s", e.Claim, e.Err.Error())
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Get returns the claim named name decoded into T.
//
// An absent claim yields the zero value of T, not an error. A []string
// target accepts either a native array of strings or a bare string,
// which is treated as a single-element list; senders commonly collapse
// a one-element audience to a scalar. A string target yields the stored
// value's literal text for native strings and its compact JSON text for
// every other shape. Any other target decodes the stored value's JSON
// text directly. Unsupported combinations return *DecodeError.
func Get[T any](s *Store, name string) (T, error) {
	var out T

	v, ok := s.Get(name)
	if !ok {
		return out, nil
	}

	switch any(out).(type) {
	case []string:
		list, err := stringList(name, v)
		if err != nil {
			return out, err
		}
		return any(list).(T), nil
	case string:
		return any(stringLiteral(v)).(T), nil
	}

	if err := json.Unmarshal([]byte(v.JSON()), &out); err != nil {
		var zero T
		return zero, &DecodeError{Claim: name, Err: err}
	}
	return out, nil
}

// Set serializes val to its canonical JSON text, re-parses it into a
// generic value and stores it under name, so that a later Get observes
// the same shape family regardless of the input's Go representation.
// The claim moves to the end of the iteration order. On failure the
// store is left unchanged.
func Set[T any](s *Store, name string, val T) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return &DecodeError{Claim: name, Err: err}
	}
	v, err := ParseValue(raw)
	if err != nil {
		return &DecodeError{Claim: name, Err: err}
	}
	s.Set(name, v)
	return nil
}

// stringLiteral extracts consistent string form: the literal value for
// native strings, the compact JSON text otherwise.
func stringLiteral(v Value) string {
	if v.Kind() == KindString {
		return v.Str()
	}
	return v.JSON()
}

func stringList(name string, v Value) ([]string, error) {
	switch v.Kind() {
	case KindString:
		return []string{v.Str()}, nil
	case KindArray:
		items := v.Items()
		list := make([]string, 0, len(items))
		for _, item := range items {
			if item.Kind() != KindString {
				return nil, &DecodeError{
					Claim: name,
					Err:   errors.Errorf("array element is %s, expected string", item.Kind()),
				}
			}
			list = append(list, item.Str())
		}
		return list, nil
	}
	return nil, &DecodeError{
		Claim: name,
		Err:   errors.Errorf("unable to read %s value as string list", v.Kind()),
	}
}
