package triple

import (
	"strings"
	"time"
)

// CompareValues compares two values, returning -1/0/1. Ported from the
// teacher's datalog/compare.go CompareValues, generalized to this module's
// value set (Keyword/Symbol/Eid/uuid.UUID in place of Identity, plus
// float32 for the distinct "float" value type).
func CompareValues(left, right Value) int {
	if left == nil && right == nil {
		return 0
	}
	if left == nil {
		return -1
	}
	if right == nil {
		return 1
	}

	if kw1, ok := left.(Keyword); ok {
		if kw2, ok := right.(Keyword); ok {
			return kw1.Compare(kw2)
		}
		return -1
	}
	if s1, ok := left.(Symbol); ok {
		if s2, ok := right.(Symbol); ok {
			return strings.Compare(string(s1), string(s2))
		}
		return -1
	}
	if e1, ok := left.(Eid); ok {
		if e2, ok := right.(Eid); ok {
			return compareUint64(uint64(e1), uint64(e2))
		}
		return -1
	}

	switch l := left.(type) {
	case int64:
		return compareNumeric(float64(l), right)
	case int:
		return compareNumeric(float64(l), right)
	case float64:
		return compareNumeric(l, right)
	case float32:
		return compareNumeric(float64(l), right)
	case string:
		if r, ok := right.(string); ok {
			return strings.Compare(l, r)
		}
		return -1
	case bool:
		if r, ok := right.(bool); ok {
			switch {
			case !l && r:
				return -1
			case l && !r:
				return 1
			default:
				return 0
			}
		}
		return -1
	case time.Time:
		if r, ok := right.(time.Time); ok {
			switch {
			case l.Before(r):
				return -1
			case l.After(r):
				return 1
			default:
				return 0
			}
		}
		return -1
	case []byte:
		if r, ok := right.([]byte); ok {
			n := len(l)
			if len(r) < n {
				n = len(r)
			}
			for i := 0; i < n; i++ {
				if l[i] != r[i] {
					if l[i] < r[i] {
						return -1
					}
					return 1
				}
			}
			return compareInts(len(l), len(r))
		}
		return -1
	}

	return strings.Compare(stringValue(left), stringValue(right))
}

func compareNumeric(left float64, right Value) int {
	var r float64
	switch rv := right.(type) {
	case int64:
		r = float64(rv)
	case int:
		r = float64(rv)
	case float64:
		r = rv
	case float32:
		r = float64(rv)
	default:
		return -1
	}
	switch {
	case left < r:
		return -1
	case left > r:
		return 1
	default:
		return 0
	}
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ValuesEqual reports whether two values are equal, matching CompareValues
// for consistency (ported from the teacher's ValuesEqual).
func ValuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if kw1, ok := a.(Keyword); ok {
		kw2, ok := b.(Keyword)
		return ok && kw1.value == kw2.value
	}
	if t1, ok := a.(time.Time); ok {
		t2, ok := b.(time.Time)
		return ok && t1.Equal(t2)
	}
	return CompareValues(a, b) == 0
}

func stringValue(v Value) string {
	if v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case Keyword:
		return val.String()
	case Symbol:
		return string(val)
	default:
		return ""
	}
}

// CompareEAVT compares two datoms in EAVT order: E, A, V, then Tx.
func CompareEAVT(a, b Datom) int {
	if c := compareUint64(uint64(a.E), uint64(b.E)); c != 0 {
		return c
	}
	if c := compareUint32(uint32(a.A), uint32(b.A)); c != 0 {
		return c
	}
	if c := CompareValues(a.V, b.V); c != 0 {
		return c
	}
	return compareUint64(uint64(a.Tx), uint64(b.Tx))
}

// CompareAEVT compares two datoms in AEVT order: A, E, V, then Tx.
func CompareAEVT(a, b Datom) int {
	if c := compareUint32(uint32(a.A), uint32(b.A)); c != 0 {
		return c
	}
	if c := compareUint64(uint64(a.E), uint64(b.E)); c != 0 {
		return c
	}
	if c := CompareValues(a.V, b.V); c != 0 {
		return c
	}
	return compareUint64(uint64(a.Tx), uint64(b.Tx))
}

// CompareAVET compares two datoms in AVET order: A, V, E, then Tx.
func CompareAVET(a, b Datom) int {
	if c := compareUint32(uint32(a.A), uint32(b.A)); c != 0 {
		return c
	}
	if c := CompareValues(a.V, b.V); c != 0 {
		return c
	}
	if c := compareUint64(uint64(a.E), uint64(b.E)); c != 0 {
		return c
	}
	return compareUint64(uint64(a.Tx), uint64(b.Tx))
}

// CompareVAET compares two ref-typed datoms in VAET order: V(as Eid), A, E,
// then Tx.
func CompareVAET(a, b Datom) int {
	av, _ := a.V.(Eid)
	bv, _ := b.V.(Eid)
	if c := compareUint64(uint64(av), uint64(bv)); c != 0 {
		return c
	}
	if c := compareUint32(uint32(a.A), uint32(b.A)); c != 0 {
		return c
	}
	if c := compareUint64(uint64(a.E), uint64(b.E)); c != 0 {
		return c
	}
	return compareUint64(uint64(a.Tx), uint64(b.Tx))
}

func compareUint32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
