package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MarshalJSON encodes the value as a plain JSON scalar, the layout the on-disk
// row documents use. Integral floats are written with a trailing ".0" so the
// INT/FLOAT tag split survives a round trip.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindInt:
		return strconv.AppendInt(nil, v.i, 10), nil
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, fmt.Errorf("value: cannot encode %v as JSON", v.f)
		}
		s := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return []byte(s), nil
	case KindText:
		return json.Marshal(v.s)
	case KindBool:
		return strconv.AppendBool(nil, v.b), nil
	default:
		return nil, fmt.Errorf("value: cannot encode kind %s", v.kind)
	}
}

// UnmarshalJSON decodes a plain JSON scalar. Numbers without a fractional or
// exponent part become INT, everything else FLOAT.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("value: decode scalar: %w", err)
	}
	switch t := raw.(type) {
	case nil:
		*v = Null()
	case bool:
		*v = NewBool(t)
	case string:
		*v = NewText(t)
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			*v = NewInt(i)
			return nil
		}
		f, err := t.Float64()
		if err != nil {
			return fmt.Errorf("value: decode number %q: %w", t.String(), err)
		}
		*v = NewFloat(f)
	default:
		return fmt.Errorf("value: unsupported JSON scalar %T", raw)
	}
	return nil
}
