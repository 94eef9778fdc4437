// Package triple holds the datom data model: entity/attribute/transaction
// ids, the tagged value union, keywords, datoms, schema records and the
// four index comparators. It has no knowledge of storage or the
// transaction pipeline.
package triple

import "fmt"

// Eid is an entity identifier. Entity ids are positive integers; e0/emax
// bound the id space from below/above.
type Eid uint64

// TxId is a transaction identifier. Transaction ids live strictly above any
// entity id (tx0 > emax) so the same uint64 key space can carry both without
// collision when a tx id is embedded in an index key.
type TxId uint64

// AttrId is the small, process-stable integer assigned to an attribute
// keyword the first time it is registered (see store.Store.RegisterAttr).
type AttrId uint32

const (
	// E0 is the minimum entity id.
	E0 Eid = 0
	// EMax is the maximum entity id.
	EMax Eid = 1<<62 - 1

	// Tx0 is the minimum transaction id. It sits above EMax so that a
	// datom's tx suffix never collides with any valid entity id.
	Tx0 TxId = 1 << 62
	// TxMax is the maximum transaction id.
	TxMax TxId = 1<<63 - 1
)

// Keyword is an interned attribute name, e.g. ":person/name".
type Keyword struct {
	value string
}

// NewKeyword builds a keyword from its string form. Use InternKeyword to
// get a shared, pointer-comparable instance.
func NewKeyword(s string) Keyword {
	return Keyword{value: s}
}

func (k Keyword) String() string { return k.value }

// Compare orders keywords lexicographically by their string form.
func (k Keyword) Compare(other Keyword) int {
	switch {
	case k.value < other.value:
		return -1
	case k.value > other.value:
		return 1
	default:
		return 0
	}
}

func (k Keyword) Bytes() []byte { return []byte(k.value) }

// Symbol is a Datalog symbol value, distinct from a plain string so the
// codec can round-trip the declared value type.
type Symbol string

// Datom is the fundamental unit of state: an (entity, attribute, value,
// transaction, added?) tuple. Datoms are immutable; equality is structural
// over (E, A, V).
type Datom struct {
	E     Eid
	A     AttrId
	V     Value
	Tx    TxId
	Added bool
}

func (d Datom) String() string {
	op := "+"
	if !d.Added {
		op = "-"
	}
	return fmt.Sprintf("%s[%d %d %v %d]", op, d.E, d.A, d.V, d.Tx)
}

// Equal compares two datoms structurally over (E, A, V), ignoring Tx and
// Added, matching spec.md's definition of datom equality.
func (d Datom) Equal(other Datom) bool {
	return d.E == other.E && d.A == other.A && ValuesEqual(d.V, other.V)
}
