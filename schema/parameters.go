package schema

// Parameters holds per-check tunables keyed by check name.
type Parameters map[string]CheckParameters

// CheckParameters holds the tunables of one check.
type CheckParameters map[string]any

// For returns the parameters of the named check, never nil.
func (p Parameters) For(check string) CheckParameters {
	if params, ok := p[check]; ok && params != nil {
		return params
	}
	return CheckParameters{}
}

// Float returns the numeric parameter key, or def when missing or not a number.
func (c CheckParameters) Float(key string, def float64) float64 {
	switch v := c[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

// Int returns the integer parameter key, or def when missing or not an integer.
func (c CheckParameters) Int(key string, def int) int {
	switch v := c[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return def
}

// String returns the string parameter key, or def.
func (c CheckParameters) String(key string, def string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return def
}

// Bool returns the boolean parameter key, or def.
func (c CheckParameters) Bool(key string, def bool) bool {
	if v, ok := c[key].(bool); ok {
		return v
	}
	return def
}
