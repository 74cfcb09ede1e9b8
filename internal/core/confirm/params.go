package confirm

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// EncodeParams marshals action params so DecodeParams gives back the same Go types:
// integers as int and floats as float64, even when a float has no fractional part
func EncodeParams(p map[string]any) ([]byte, error) {
	return json.Marshal(marked(p))
}

// DecodeParams is the inverse of EncodeParams; a null or empty document yields nil
func DecodeParams(b []byte) (map[string]any, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var p map[string]any
	if err := unmarshalNumbers(b, &p); err != nil {
		return nil, err
	}
	return typed(p).(map[string]any), nil
}

func unmarshalNumbers(b []byte, dst any) error {
	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()
	return d.Decode(dst)
}

// marked rewrites whole floats as "N.0" so they keep a decimal point on the wire
func marked(v any) any {
	switch x := v.(type) {
	case map[string]any:
		if x == nil {
			return x
		}
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = marked(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = marked(e)
		}
		return out
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) || x != math.Trunc(x) || math.Abs(x) >= 1e21 {
			return x
		}
		return json.Number(strconv.FormatFloat(x, 'f', 1, 64))
	case float32:
		return marked(float64(x))
	}
	return v
}

// typed turns json.Number back into int or float64
func typed(v any) any {
	switch x := v.(type) {
	case map[string]any:
		if x == nil {
			return x
		}
		for k, e := range x {
			x[k] = typed(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = typed(e)
		}
		return x
	case json.Number:
		s := x.String()
		if !strings.ContainsAny(s, ".eE") {
			if n, err := strconv.ParseInt(s, 10, strconv.IntSize); err == nil {
				return int(n)
			}
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return s
	}
	return v
}
