package sfv

import (
	"encoding/base64"
	"strings"

	"github.com/k00ni/http-structured-fields/pkg/sfv/errors"
)

// ByteSequence is an arbitrary byte string, serialized as base64 between
// colons. The bytes are copied on construction and on access, so a
// ByteSequence is immutable like every other value in the model.
type ByteSequence struct {
	value []byte
}

// NewByteSequence returns a ByteSequence bare value holding a copy of v.
// Any byte content is valid.
func NewByteSequence(v []byte) ByteSequence {
	cp := make([]byte, len(v))
	copy(cp, v)
	return ByteSequence{value: cp}
}

// ByteSequenceFromEncoded decodes standard base64 text (the wire form
// without the surrounding colons) into a ByteSequence. Malformed base64 is
// a grammar violation.
func ByteSequenceFromEncoded(encoded string) (ByteSequence, error) {
	decoded, err := base64.StdEncoding.Strict().DecodeString(encoded)
	if err != nil {
		return ByteSequence{}, errors.New("SYNTAX-0010", map[string]any{"Reason": err.Error()})
	}
	return ByteSequence{value: decoded}, nil
}

// Bytes returns a copy of the underlying bytes.
func (b ByteSequence) Bytes() []byte {
	cp := make([]byte, len(b.value))
	copy(cp, b.value)
	return cp
}

// Encoded returns the standard base64 text of the bytes.
func (b ByteSequence) Encoded() string {
	return base64.StdEncoding.EncodeToString(b.value)
}

// Type identifies the value as a byte sequence.
func (b ByteSequence) Type() ValueType { return TypeByteSequence }

func (b ByteSequence) render(sb *strings.Builder, _ Dialect) error {
	sb.WriteByte(':')
	sb.WriteString(b.Encoded())
	sb.WriteByte(':')
	return nil
}

func (b ByteSequence) isBareItem() {}
