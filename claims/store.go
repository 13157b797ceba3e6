package claims

import (
	"bytes"

	"github.com/cockroachdb/errors"
)

// Store is an ordered claim-name to value mapping representing a token
// payload. A name maps to at most one value; setting an existing name
// replaces the value and moves the claim to the end of the iteration
// order. Insertion order is preserved for serialization determinism
// only and carries no meaning to readers.
//
// A Store is not safe for concurrent mutation.
type Store struct {
	names  []string
	values map[string]Value
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		values: map[string]Value{},
	}
}

// Set stores the value under name, removing any existing entry first.
func (s *Store) Set(name string, v Value) {
	if s.values == nil {
		s.values = map[string]Value{}
	}
	if _, ok := s.values[name]; ok {
		s.remove(name)
	}
	s.names = append(s.names, name)
	s.values[name] = v
}

// Get returns the value stored under name.
func (s *Store) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Has returns true if the store contains the named claim.
func (s *Store) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Delete removes the named claim, if present.
func (s *Store) Delete(name string) {
	if _, ok := s.values[name]; ok {
		s.remove(name)
		delete(s.values, name)
	}
}

func (s *Store) remove(name string) {
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
}

// Names returns claim names in iteration order.
func (s *Store) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of claims in the store.
func (s *Store) Len() int {
	return len(s.names)
}

// MarshalJSON encodes the store as a JSON object in iteration order.
func (s *Store) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := NewString(name).MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		raw, err := s.values[name].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into the store, replacing its
// content and preserving member order.
func (s *Store) UnmarshalJSON(data []byte) error {
	v, err := ParseValue(data)
	if err != nil {
		return err
	}
	if v.Kind() != KindObject {
		return errors.Errorf("unable to unmarshal %s into claim store", v.Kind())
	}
	*s = *v.Fields()
	return nil
}

// Marshal returns JSON encoded string
func (s *Store) Marshal() string {
	raw, _ := s.MarshalJSON()
	return string(raw)
}
