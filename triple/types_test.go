package triple

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordString(t *testing.T) {
	kw := NewKeyword(":user/name")
	assert.Equal(t, ":user/name", kw.String())
}

func TestKeywordCompare(t *testing.T) {
	a := NewKeyword(":a/one")
	b := NewKeyword(":a/two")
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(NewKeyword(":a/one")))
}

func TestDatomString(t *testing.T) {
	d := Datom{E: 1, A: 2, V: "Alice", Tx: Tx0, Added: true}
	s := d.String()
	assert.Contains(t, s, "+")
	assert.Contains(t, s, "Alice")

	d.Added = false
	assert.Contains(t, d.String(), "-")
}

func TestDatomEqualIgnoresTxAndAdded(t *testing.T) {
	a := Datom{E: 1, A: 2, V: "x", Tx: Tx0, Added: true}
	b := Datom{E: 1, A: 2, V: "x", Tx: Tx0 + 1, Added: false}
	assert.True(t, a.Equal(b))

	c := Datom{E: 1, A: 2, V: "y", Tx: Tx0, Added: true}
	assert.False(t, a.Equal(c))
}

func TestTxIdAboveEidSpace(t *testing.T) {
	assert.Greater(t, uint64(Tx0), uint64(EMax))
}

func TestInternKeywordSharesPointer(t *testing.T) {
	ClearInterns()
	a := InternKeyword(":user/name")
	b := InternKeyword(":user/name")
	assert.Same(t, a, b)

	c := InternKeyword(":user/email")
	assert.NotSame(t, a, c)
}
