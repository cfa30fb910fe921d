package domain

// Credentials is the opaque credential mapping for one repository,
// loaded once at collector construction and read-only afterwards.
// Field names are repository-specific ("token", "api_key", ...).
type Credentials map[string]string

// tokenFields are the field names probed by Token, in priority order.
var tokenFields = []string{"token", "api_key", "key"}

// Token returns the bearer token from the mapping, probing the common
// field names. Returns empty string when no token field is present.
func (c Credentials) Token() string {
	for _, field := range tokenFields {
		if v := c[field]; v != "" {
			return v
		}
	}
	return ""
}

// Empty reports whether the mapping holds no usable values.
func (c Credentials) Empty() bool {
	for _, v := range c {
		if v != "" {
			return false
		}
	}
	return true
}
