package claims

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
)

// Kind identifies the native JSON shape of a claim value.
type Kind int

// Supported value kinds. Integer and Double are separate kinds so that
// projection can report whole numbers in their decimal form.
const (
	KindInvalid Kind = iota
	KindString
	KindInteger
	KindDouble
	KindBoolean
	KindNull
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindDouble:
		return "double"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "invalid"
}

// Value is a tagged union over the JSON shapes a claim may carry.
// The zero Value has KindInvalid and is returned for absent claims.
type Value struct {
	kind Kind
	str  string
	num  int64
	dbl  float64
	bln  bool
	arr  []Value
	obj  *Store
}

// NewString returns a string Value.
func NewString(s string) Value {
	return Value{kind: KindString, str: s}
}

// NewInteger returns an integer Value.
func NewInteger(n int64) Value {
	return Value{kind: KindInteger, num: n}
}

// NewArray returns an array Value with the given items.
func NewArray(items ...Value) Value {
	return Value{kind: KindArray, arr: items}
}

// NewObject returns an object Value backed by the given store.
func NewObject(fields *Store) Value {
	if fields == nil {
		fields = NewStore()
	}
	return Value{kind: KindObject, obj: fields}
}

// Kind returns the native shape of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Str returns the string payload, valid for KindString.
func (v Value) Str() string {
	return v.str
}

// Int returns the integer payload, valid for KindInteger.
func (v Value) Int() int64 {
	return v.num
}

// Items returns the array payload, valid for KindArray.
func (v Value) Items() []Value {
	return v.arr
}

// Fields returns the object payload, valid for KindObject.
func (v Value) Fields() *Store {
	return v.obj
}

// JSON returns the compact JSON text of the value.
func (v Value) JSON() string {
	raw, _ := v.MarshalJSON()
	return string(raw)
}

// MarshalJSON implements json.Marshaler, preserving the insertion order
// of object members.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindInteger:
		return strconv.AppendInt(nil, v.num, 10), nil
	case KindDouble:
		return json.Marshal(v.dbl)
	case KindBoolean:
		return strconv.AppendBool(nil, v.bln), nil
	case KindNull:
		return []byte("null"), nil
	case KindArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			raw, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(raw)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case KindObject:
		return v.obj.MarshalJSON()
	}
	return nil, errors.Errorf("unable to marshal value of kind: %s", v.kind)
}

// ParseValue parses JSON text into a Value, preserving object member order.
// Whole numbers are stored as integers, other numbers as doubles.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return Value{}, err
	}
	if dec.More() {
		return Value{}, errors.Errorf("unexpected data after JSON value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, errors.WithMessage(err, "unable to parse JSON value")
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			fields := NewStore()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, errors.WithMessage(err, "unable to parse object member")
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, errors.Errorf("invalid object member: %v", keyTok)
				}
				val, err := parseValue(dec)
				if err != nil {
					return Value{}, err
				}
				fields.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, errors.WithMessage(err, "unterminated object")
			}
			return NewObject(fields), nil
		case '[':
			items := []Value{}
			for dec.More() {
				item, err := parseValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, errors.WithMessage(err, "unterminated array")
			}
			return NewArray(items...), nil
		}
		return Value{}, errors.Errorf("unexpected delimiter: %v", t)
	case string:
		return NewString(t), nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return NewInteger(n), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, errors.WithMessagef(err, "invalid number: %s", t)
		}
		return Value{kind: KindDouble, dbl: f}, nil
	case bool:
		return Value{kind: KindBoolean, bln: t}, nil
	case nil:
		return Value{kind: KindNull}, nil
	}
	return Value{}, errors.Errorf("unsupported JSON token: %v", tok)
}
