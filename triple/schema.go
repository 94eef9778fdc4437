package triple

// Cardinality controls whether an attribute holds one value per entity or
// a set of values.
type Cardinality byte

const (
	CardinalityOne Cardinality = iota
	CardinalityMany
)

// Unique controls the uniqueness constraint carried by an attribute.
type Unique byte

const (
	UniqueNone Unique = iota
	UniqueValue
	UniqueIdentity
)

// AttrSchema is the schema record for one attribute.
type AttrSchema struct {
	Ident       Keyword
	ValueType   ValueType
	Cardinality Cardinality
	Unique      Unique
	IsComponent bool
	Aid         AttrId
}

// RSchema is the reverse schema index: property -> set of attribute ids
// carrying that property, mirroring spec.md §3's rschema.
type RSchema struct {
	UniqueIdentity map[AttrId]bool
	UniqueValue    map[AttrId]bool
	CardinalityMany map[AttrId]bool
	Refs           map[AttrId]bool
	Components     map[AttrId]bool
}

// NewRSchema derives the reverse index from a forward schema map.
func NewRSchema(schema map[Keyword]AttrSchema) *RSchema {
	r := &RSchema{
		UniqueIdentity:  make(map[AttrId]bool),
		UniqueValue:     make(map[AttrId]bool),
		CardinalityMany: make(map[AttrId]bool),
		Refs:            make(map[AttrId]bool),
		Components:      make(map[AttrId]bool),
	}
	for _, s := range schema {
		switch s.Unique {
		case UniqueIdentity:
			r.UniqueIdentity[s.Aid] = true
		case UniqueValue:
			r.UniqueValue[s.Aid] = true
		}
		if s.Cardinality == CardinalityMany {
			r.CardinalityMany[s.Aid] = true
		}
		if s.ValueType == TypeRef {
			r.Refs[s.Aid] = true
		}
		if s.IsComponent {
			r.Components[s.Aid] = true
		}
	}
	return r
}

// Well-known implicit attribute idents, always merged into user schema
// (spec.md §3 "Implicit schema").
var (
	KwIdent = NewKeyword(":db/ident")
	KwFn    = NewKeyword(":db/fn")
)

// AidIdent and AidFn are the fixed, pre-assigned attribute ids for the
// implicit schema, assigned before any user attribute so they never
// collide with a registry-assigned id.
const (
	AidIdent AttrId = 1
	AidFn    AttrId = 2
)

// ImplicitSchema returns the built-in attributes always merged into a
// database's schema.
func ImplicitSchema() map[Keyword]AttrSchema {
	return map[Keyword]AttrSchema{
		KwIdent: {
			Ident:       KwIdent,
			ValueType:   TypeKeyword,
			Cardinality: CardinalityOne,
			Unique:      UniqueIdentity,
			Aid:         AidIdent,
		},
		KwFn: {
			Ident:       KwFn,
			ValueType:   TypeString,
			Cardinality: CardinalityOne,
			Aid:         AidFn,
		},
	}
}

// ValidOption reports whether v is one of allowed, for rejecting schema
// option values outside the allowed set (spec.md §7 schema/validation).
func ValidOption[T comparable](v T, allowed ...T) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}
