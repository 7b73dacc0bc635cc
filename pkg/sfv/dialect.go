package sfv

// Dialect selects a version of the structured-field grammar. RFC 9651 is a
// superset of RFC 8941 that adds the Date and Display String value types.
//
// The zero value resolves to RFC 9651, so a "no dialect given" call site
// always gets the superset grammar. The dialect is threaded explicitly
// through every parse and render call; it is never process-wide state.
type Dialect int

const (
	// RFC9651 is the current grammar (the default).
	RFC9651 Dialect = iota
	// RFC8941 is the older grammar without Date and Display String.
	RFC8941
)

// String returns the RFC name of the dialect.
func (d Dialect) String() string {
	if d == RFC8941 {
		return "RFC 8941"
	}
	return "RFC 9651"
}

// supports reports whether the dialect can express the given value type.
func (d Dialect) supports(t ValueType) bool {
	if d == RFC8941 {
		return t != TypeDate && t != TypeDisplayString
	}
	return true
}
