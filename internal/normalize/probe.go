package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Raw is one decoded JSON object as returned by the content API.
type Raw = map[string]any

const attributesKey = "attributes"

// Probe returns the first defined value among aliases. Every alias is looked
// up under raw.attributes before any alias is tried on raw itself, so a nested
// field always wins over a flat one. Null values count as undefined.
func Probe(raw Raw, aliases ...string) (any, bool) {
	if raw == nil {
		return nil, false
	}
	attrs, _ := raw[attributesKey].(map[string]any)
	for _, source := range []map[string]any{attrs, raw} {
		for _, alias := range aliases {
			if value, ok := source[alias]; ok && value != nil {
				return value, true
			}
		}
	}
	return nil, false
}

// String probes aliases and renders the value as text. Objects and arrays
// yield an empty string.
func String(raw Raw, aliases ...string) string {
	value, ok := Probe(raw, aliases...)
	if !ok {
		return ""
	}
	return asString(value)
}

// StringOr is String with a fallback for missing or blank values.
func StringOr(raw Raw, fallback string, aliases ...string) string {
	if value := String(raw, aliases...); strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

// Int probes aliases and converts numbers or numeric strings. Anything else
// yields zero.
func Int(raw Raw, aliases ...string) int {
	value, ok := Probe(raw, aliases...)
	if !ok {
		return 0
	}
	return asInt(value)
}

// Bool probes aliases and falls back to def when the value is missing or not
// a recognizable boolean.
func Bool(raw Raw, def bool, aliases ...string) bool {
	value, ok := Probe(raw, aliases...)
	if !ok {
		return def
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n != 0
		}
	}
	return def
}

// Object probes aliases for a nested JSON object.
func Object(raw Raw, aliases ...string) Raw {
	value, ok := Probe(raw, aliases...)
	if !ok {
		return nil
	}
	obj, _ := value.(map[string]any)
	return obj
}

func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func asInt(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
		if f, err := v.Float64(); err == nil {
			return asInt(f)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

func describe(value any) string {
	return fmt.Sprintf("%T", value)
}
