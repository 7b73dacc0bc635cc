package sfv

import (
	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

// ValidateKey checks a dictionary or parameter key against the key
// grammar: a lowercase letter or '*' followed by characters from
// [a-z0-9_.*-]. It is the single gate used by every keyed-container
// constructor and every key-taking operation.
func ValidateKey(key string) error {
	if len(key) == 0 || !isKeyStart(key[0]) {
		return errors.New("SYNTAX-0011", map[string]any{"Key": key})
	}
	for i := 1; i < len(key); i++ {
		if !isKeyChar(key[i]) {
			return errors.New("SYNTAX-0011", map[string]any{"Key": key})
		}
	}
	return nil
}

func isKeyStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || c == '*'
}

func isKeyChar(c byte) bool {
	return isKeyStart(c) || isDigit(c) || c == '_' || c == '-' || c == '.'
}
