package tools

import "strconv"

// unsetMarker is the sentinel callers send for "no value"; it normalizes to
// an absent string parameter.
const unsetMarker = "unset"

// stringParam reads an optional string parameter. A missing, non-string, or
// "unset" value yields the empty string.
func stringParam(params Params, key string) string {
	v, ok := params[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok || s == unsetMarker {
		return ""
	}
	return s
}

// intParam reads an optional integer parameter. JSON numbers arrive as
// float64; numeric strings are also accepted. Anything unparsable falls
// back to def.
func intParam(params Params, key string, def int) int {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return def
		}
		return parsed
	default:
		return def
	}
}

// boolParam reads an optional boolean parameter, accepting native booleans
// and their textual representations. Anything unparsable falls back to def.
func boolParam(params Params, key string, def bool) bool {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(b)
		if err != nil {
			return def
		}
		return parsed
	default:
		return def
	}
}

// clamp bounds n to [lo, hi].
func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
