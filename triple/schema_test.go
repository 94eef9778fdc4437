package triple

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImplicitSchemaIncludesIdentAndFn(t *testing.T) {
	s := ImplicitSchema()
	ident, ok := s[KwIdent]
	assert.True(t, ok)
	assert.Equal(t, AidIdent, ident.Aid)
	assert.Equal(t, UniqueIdentity, ident.Unique)

	fn, ok := s[KwFn]
	assert.True(t, ok)
	assert.Equal(t, AidFn, fn.Aid)
	assert.Equal(t, TypeString, fn.ValueType)
}

func TestNewRSchemaDerivesReverseIndex(t *testing.T) {
	name := NewKeyword(":person/name")
	friends := NewKeyword(":person/friend")
	schema := map[Keyword]AttrSchema{
		name: {
			Ident: name, ValueType: TypeString,
			Cardinality: CardinalityOne, Unique: UniqueIdentity, Aid: 10,
		},
		friends: {
			Ident: friends, ValueType: TypeRef,
			Cardinality: CardinalityMany, IsComponent: true, Aid: 11,
		},
	}

	rs := NewRSchema(schema)
	assert.True(t, rs.UniqueIdentity[10])
	assert.True(t, rs.CardinalityMany[11])
	assert.True(t, rs.Refs[11])
	assert.True(t, rs.Components[11])
	assert.False(t, rs.CardinalityMany[10])
}

func TestValidOption(t *testing.T) {
	assert.True(t, ValidOption(CardinalityOne, CardinalityOne, CardinalityMany))
	assert.False(t, ValidOption(Unique(99), UniqueNone, UniqueValue, UniqueIdentity))
}
