package models

import (
	"bytes"
	"encoding/json"
)

// JSONKind is the closed set of value kinds a message's data field can hold.
// The tags mirror the runtime type names the routing service's consumers
// expect, which is why the absent case reads "undefined".
type JSONKind string

const (
	KindUndefined JSONKind = "undefined"
	KindNull      JSONKind = "null"
	KindBoolean   JSONKind = "boolean"
	KindNumber    JSONKind = "number"
	KindString    JSONKind = "string"
	KindArray     JSONKind = "array"
	KindObject    JSONKind = "object"
)

// KindOf classifies a raw JSON value by its leading token. The input must be
// a valid JSON value (or empty for an absent field); anything that is not an
// object, array, string, boolean or null is a number by elimination.
func KindOf(raw json.RawMessage) JSONKind {
	token := bytes.TrimSpace(raw)
	if len(token) == 0 {
		return KindUndefined
	}
	switch token[0] {
	case '{':
		return KindObject
	case '[':
		return KindArray
	case '"':
		return KindString
	case 't', 'f':
		return KindBoolean
	case 'n':
		return KindNull
	default:
		return KindNumber
	}
}
