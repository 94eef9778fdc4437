package triple

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TypeOf reports the declared ValueType a concrete Go value would encode
// as. Used by the transaction pipeline to check a value against the
// schema's declared valueType for an attribute (spec.md §3 invariant 5).
func TypeOf(v Value) (ValueType, error) {
	switch v.(type) {
	case Keyword:
		return TypeKeyword, nil
	case Symbol:
		return TypeSymbol, nil
	case string:
		return TypeString, nil
	case bool:
		return TypeBoolean, nil
	case int64:
		return TypeLong, nil
	case int:
		return TypeLong, nil
	case float64:
		return TypeDouble, nil
	case float32:
		return TypeFloat, nil
	case Eid:
		return TypeRef, nil
	case time.Time:
		return TypeInstant, nil
	case uuid.UUID:
		return TypeUUID, nil
	case []byte:
		return TypeBytes, nil
	default:
		return 0, fmt.Errorf("unrepresentable value type: %T", v)
	}
}

// Normalize coerces a few convenience Go types (int -> int64) to the
// canonical representation used everywhere else.
func Normalize(v Value) Value {
	switch val := v.(type) {
	case int:
		return int64(val)
	default:
		return v
	}
}
