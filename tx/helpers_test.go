package tx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chronodb/chrono/triple"
)

func TestIsTempId(t *testing.T) {
	assert.True(t, IsTempId("alice"))
	assert.True(t, IsTempId(int64(-1)))
	assert.False(t, IsTempId(int64(1)))
	assert.False(t, IsTempId(":db/current-tx"))
	assert.False(t, IsTempId(triple.NewKeyword(":db/current-tx")))
}

func TestIsTxSentinel(t *testing.T) {
	assert.True(t, IsTxSentinel(":db/current-tx"))
	assert.True(t, IsTxSentinel("datomic.tx"))
	assert.True(t, IsTxSentinel(triple.NewKeyword(":db/current-tx")))
	assert.False(t, IsTxSentinel("alice"))
}

func TestReverseRefShorthandNamespaced(t *testing.T) {
	straight, ok := reverseRefShorthand(triple.NewKeyword(":person/_friend"))
	assert.True(t, ok)
	assert.Equal(t, triple.NewKeyword(":person/friend"), straight)
}

func TestReverseRefShorthandUnnamespaced(t *testing.T) {
	straight, ok := reverseRefShorthand(triple.NewKeyword(":_friend"))
	assert.True(t, ok)
	assert.Equal(t, triple.NewKeyword(":friend"), straight)
}

func TestReverseRefShorthandRejectsStraightAttr(t *testing.T) {
	_, ok := reverseRefShorthand(triple.NewKeyword(":person/friend"))
	assert.False(t, ok)
}

func TestInjectedReverseKeyIsInverse(t *testing.T) {
	straight := triple.NewKeyword(":person/friend")
	rev, ok := reverseRefShorthand(injectedReverseKey(straight))
	assert.True(t, ok)
	assert.Equal(t, straight, rev)
}

func TestValuesOfFoldsCollectionForMany(t *testing.T) {
	vals := valuesOf([]any{"a", "b", "c"}, true)
	assert.Equal(t, []any{"a", "b", "c"}, vals)
}

func TestValuesOfSingleForCardinalityOne(t *testing.T) {
	vals := valuesOf([]any{"a", "b"}, false)
	assert.Equal(t, []any{[]any{"a", "b"}}, vals)
}

func TestValuesOfDoesNotFoldLookupRefShape(t *testing.T) {
	lr := []any{triple.NewKeyword(":person/email"), "alice@x.com"}
	vals := valuesOf(lr, true)
	assert.Equal(t, []any{lr}, vals)
}

func TestAsLookupRef(t *testing.T) {
	lr, ok := asLookupRef([]any{triple.NewKeyword(":person/email"), "alice@x.com"})
	assert.True(t, ok)
	assert.Equal(t, "alice@x.com", lr.Value)

	_, ok = asLookupRef("alice")
	assert.False(t, ok)
}
