package triple

import (
	"time"

	"github.com/google/uuid"
)

// Value is any value storable in a Datom. As in the teacher's value.go, we
// lean on interface{} with a fixed set of concrete Go types rather than a
// closed sum type, and let ValueType/codec carry the declared type tag.
//
// Valid concrete types:
//   - Keyword   (TypeKeyword)
//   - Symbol    (TypeSymbol)
//   - string    (TypeString)
//   - bool      (TypeBoolean)
//   - int64     (TypeLong)
//   - float64   (TypeDouble)
//   - float32   (TypeFloat)
//   - Eid       (TypeRef)
//   - time.Time (TypeInstant)
//   - uuid.UUID (TypeUUID)
//   - []byte    (TypeBytes)
type Value interface{}

// ValueType is the declared type of an attribute's values.
type ValueType byte

const (
	TypeKeyword ValueType = iota
	TypeSymbol
	TypeString
	TypeBoolean
	TypeLong
	TypeDouble
	TypeFloat
	TypeRef
	TypeInstant
	TypeUUID
	TypeBytes
)

func (t ValueType) String() string {
	switch t {
	case TypeKeyword:
		return "keyword"
	case TypeSymbol:
		return "symbol"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	case TypeLong:
		return "long"
	case TypeDouble:
		return "double"
	case TypeFloat:
		return "float"
	case TypeRef:
		return "ref"
	case TypeInstant:
		return "instant"
	case TypeUUID:
		return "uuid"
	case TypeBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Helper constructors, mirroring the teacher's value.go helpers.
func String(s string) Value        { return s }
func Long(i int64) Value           { return i }
func Double(f float64) Value       { return f }
func Float(f float32) Value        { return f }
func Bool(b bool) Value            { return b }
func Instant(t time.Time) Value    { return t }
func BytesVal(b []byte) Value      { return b }
func Ref(e Eid) Value              { return e }
func KeywordVal(k Keyword) Value   { return k }
func SymbolVal(s Symbol) Value     { return s }
func UUIDVal(u uuid.UUID) Value    { return u }
