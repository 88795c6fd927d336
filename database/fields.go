package database

import (
	"strconv"
	"strings"
	"time"
)

// Documents in these collections were written by several clients over time,
// so field types drift. The helpers below read a field out of a raw
// Firestore map and quietly fall back to the zero value when it has an
// unexpected type.

// String returns m[key] as a string. Numbers are formatted.
func String(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Bool returns m[key] as a bool. The strings "true"/"false" are accepted.
func Bool(m map[string]interface{}, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	default:
		return false
	}
}

// Float returns m[key] as a float64.
func Float(m map[string]interface{}, key string) float64 {
	f, _ := FloatOK(m, key)
	return f
}

// FloatOK returns m[key] as a float64 and whether a usable number was found.
func FloatOK(m map[string]interface{}, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// FloatPtr returns m[key] as a *float64, nil when absent or unusable.
func FloatPtr(m map[string]interface{}, key string) *float64 {
	f, ok := FloatOK(m, key)
	if !ok {
		return nil
	}
	return &f
}

// Int returns m[key] as an int.
func Int(m map[string]interface{}, key string) int {
	return int(Float(m, key))
}

// StringSlice returns m[key] as a []string, dropping non-string members.
func StringSlice(m map[string]interface{}, key string) []string {
	raw, ok := m[key].([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Map returns m[key] as a nested map, nil when it is not one.
func Map(m map[string]interface{}, key string) map[string]interface{} {
	nested, _ := m[key].(map[string]interface{})
	return nested
}

// Time interprets v as a timestamp. Firestore timestamps, RFC3339 / ISO 8601
// strings and {seconds, nanoseconds} maps are understood; anything else
// yields nil.
func Time(v interface{}) *time.Time {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return nil
		}
		return &t
	case *time.Time:
		if t == nil || t.IsZero() {
			return nil
		}
		return t
	case string:
		return parseTimeString(t)
	case map[string]interface{}:
		secs, ok := FloatOK(t, "seconds")
		if !ok {
			secs, ok = FloatOK(t, "_seconds")
		}
		if !ok {
			return nil
		}
		nanos, _ := FloatOK(t, "nanoseconds")
		if nanos == 0 {
			nanos, _ = FloatOK(t, "_nanoseconds")
		}
		ts := time.Unix(int64(secs), int64(nanos)).UTC()
		return &ts
	default:
		return nil
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimeString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
