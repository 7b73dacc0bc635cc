// Package sfv implements HTTP Structured Field Values, the constrained
// typed grammar used to encode structured values inside header fields.
//
// The package parses the ASCII text representation into a typed, immutable
// in-memory model and serializes that model back into canonical text form.
// Two grammar dialects are supported: RFC 8941 and its superset RFC 9651,
// which adds Date and Display String values.
//
// The model mirrors the grammar:
//
//   - Bare values: Token, String, ByteSequence, Boolean, Integer, Decimal,
//     Date, DisplayString
//   - Item: a bare value with attached Parameters
//   - Parameters: an ordered key->bare-item map attached to an Item or InnerList
//   - InnerList: an ordered sequence of Items with its own Parameters
//   - List: a top-level ordered sequence of Items and InnerLists
//   - Dictionary: a top-level ordered key->member map
//
// All containers are persistent values: every structural operation returns
// a new instance (or the receiver itself when the operation is a no-op) and
// never mutates in place, so instances are safe for concurrent readers.
//
// Example:
//
//	list, err := sfv.ParseList(`a, b;q=0.5, (c d);v=1`, sfv.RFC9651)
//	if err != nil { ... }
//	out, _ := list.Render(sfv.RFC9651) // canonical form
package sfv
