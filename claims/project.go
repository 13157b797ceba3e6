package claims

import "strconv"

// Claim value types reported by Project.
const (
	ValueTypeString     = "string"
	ValueTypeInteger    = "integer"
	ValueTypeJSONArray  = "json-array"
	ValueTypeJSONObject = "json-object"
)

// PropertyValueType is the key of the side-channel property attached to
// array and object claims so a downstream identity model can
// reconstruct the JSON shape instead of treating the value as an
// opaque string.
const PropertyValueType = "json_type"

// ProjectedClaim is the flat form of one store entry, suitable for a
// generic claims-based identity model.
type ProjectedClaim struct {
	Name       string
	Value      string
	ValueType  string
	Issuer     string
	Properties map[string]string
}

// Project flattens the store into an ordered list of claims. Strings
// and integers project to their literal and decimal forms; arrays and
// objects project to compact JSON text tagged with PropertyValueType.
// Other native shapes are skipped.
func Project(s *Store, issuer string) []ProjectedClaim {
	out := make([]ProjectedClaim, 0, s.Len())
	for _, name := range s.Names() {
		v, _ := s.Get(name)

		pc := ProjectedClaim{
			Name:   name,
			Issuer: issuer,
		}
		switch v.Kind() {
		case KindString:
			pc.Value = v.Str()
			pc.ValueType = ValueTypeString
		case KindInteger:
			pc.Value = strconv.FormatInt(v.Int(), 10)
			pc.ValueType = ValueTypeInteger
		case KindArray:
			pc.Value = v.JSON()
			pc.ValueType = ValueTypeJSONArray
			pc.Properties = map[string]string{PropertyValueType: ValueTypeJSONArray}
		case KindObject:
			pc.Value = v.JSON()
			pc.ValueType = ValueTypeJSONObject
			pc.Properties = map[string]string{PropertyValueType: ValueTypeJSONObject}
		default:
			continue
		}
		out = append(out, pc)
	}
	return out
}
