package sfv

import "fmt"

// The helpers below fix the dialect to RFC 9651, the superset grammar and
// the package default. Use the Parse* functions directly to pin RFC 8941.

// MustList parses a list and panics on error. Useful for tests and
// initialization.
func MustList(input string) *List {
	l, err := ParseList(input, RFC9651)
	if err != nil {
		panic(fmt.Sprintf("sfv.MustList: %v", err))
	}
	return l
}

// MustDictionary parses a dictionary and panics on error.
func MustDictionary(input string) *Dictionary {
	d, err := ParseDictionary(input, RFC9651)
	if err != nil {
		panic(fmt.Sprintf("sfv.MustDictionary: %v", err))
	}
	return d
}

// MustItem parses an item and panics on error.
func MustItem(input string) *Item {
	it, err := ParseItem(input, RFC9651)
	if err != nil {
		panic(fmt.Sprintf("sfv.MustItem: %v", err))
	}
	return it
}

// ValidList checks whether the input is a well-formed list under the
// dialect. Returns nil if valid, or an error describing the problem.
func ValidList(input string, d Dialect) error {
	_, err := ParseList(input, d)
	return err
}

// ValidDictionary checks whether the input is a well-formed dictionary
// under the dialect.
func ValidDictionary(input string, d Dialect) error {
	_, err := ParseDictionary(input, d)
	return err
}

// ValidItem checks whether the input is a well-formed item under the
// dialect.
func ValidItem(input string, d Dialect) error {
	_, err := ParseItem(input, d)
	return err
}

// IsValidList reports whether the input is a well-formed list under the
// dialect.
func IsValidList(input string, d Dialect) bool {
	return ValidList(input, d) == nil
}

// IsValidDictionary reports whether the input is a well-formed dictionary
// under the dialect.
func IsValidDictionary(input string, d Dialect) bool {
	return ValidDictionary(input, d) == nil
}

// IsValidItem reports whether the input is a well-formed item under the
// dialect.
func IsValidItem(input string, d Dialect) bool {
	return ValidItem(input, d) == nil
}
