package tx

import "github.com/chronodb/chrono/triple"

// Op is any of the operation forms spec.md §4.5 accepts: MapEntity,
// AddOp, RetractOp, RetractAttributeOp, RetractEntityOp, CasOp, CallOp,
// FnCallOp, or RawDatom.
type Op any

// IdentKey is the reserved :db/id key inside a MapEntity.
var IdentKey = triple.NewKeyword(":db/id")

// MapEntity is the {:db/id ?id, a1 v1, ...} form. IdentKey carries the
// entity reference; every other key is an attribute ident mapped to its
// value, or to a collection of values for multivalued/reverse attributes.
type MapEntity map[triple.Keyword]any

// AddOp is [:db/add e a v].
type AddOp struct{ E, A, V any }

// RetractOp is [:db/retract e a v].
type RetractOp struct{ E, A, V any }

// RetractAttributeOp is [:db.fn/retractAttribute e a].
type RetractAttributeOp struct{ E, A any }

// RetractEntityOp is [:db.fn/retractEntity e].
type RetractEntityOp struct{ E any }

// CasOp is [:db.fn/cas e a old new] (aliased as :db/cas).
type CasOp struct{ E, A, Old, New any }

// CallOp is [:db.fn/call fn & args]: fn is invoked directly with the
// pre-transaction store and args, and its returned ops are spliced into
// the remaining operation stream.
type CallOp struct {
	Fn   StoredFn
	Args []any
}

// FnCallOp is [ident & args]: a dispatch to a stored transaction function
// named by the entity's :db/fn attribute.
type FnCallOp struct {
	Ident any
	Args  []any
}

// RawDatom is the (e a v tx added?) form, routed to add or retract by
// Added. Tx is accepted for input-form symmetry but ignored: every datom
// actually applied is stamped with the transaction id this Transact call
// allocates.
type RawDatom struct {
	E, A, V any
	Tx      any
	Added   bool
}

// IsTempId reports whether v is a tempid: a negative int/int64, or a
// string that isn't one of the :db/current-tx spellings.
func IsTempId(v any) bool {
	switch t := v.(type) {
	case int64:
		return t < 0
	case int:
		return t < 0
	case string:
		return !IsTxSentinel(v)
	default:
		return false
	}
}

// IsTxSentinel reports whether v is one of the recognized
// :db/current-tx spellings.
func IsTxSentinel(v any) bool {
	switch t := v.(type) {
	case triple.Keyword:
		return t.String() == ":db/current-tx"
	case string:
		switch t {
		case ":db/current-tx", "datomic.tx", "datalevin.tx":
			return true
		}
	}
	return false
}
