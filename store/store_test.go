package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronodb/chrono/engine"
	"github.com/chronodb/chrono/triple"
)

func openTest(t *testing.T, userSchema map[triple.Keyword]triple.AttrSchema) *Store {
	t.Helper()
	s, err := Open(t.TempDir(), userSchema, engine.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenMergesImplicitSchema(t *testing.T) {
	s := openTest(t, nil)
	ident, ok := s.AttrByIdent(triple.KwIdent)
	require.True(t, ok)
	assert.Equal(t, triple.AidIdent, ident.Aid)

	fn, ok := s.AttrByIdent(triple.KwFn)
	require.True(t, ok)
	assert.Equal(t, triple.AidFn, fn.Aid)
}

func TestRegisterAttrAssignsFreshAid(t *testing.T) {
	s := openTest(t, nil)
	name := triple.NewKeyword(":person/name")

	attr, err := s.RegisterAttr(triple.AttrSchema{
		Ident: name, ValueType: triple.TypeString, Cardinality: triple.CardinalityOne,
	})
	require.NoError(t, err)
	assert.Greater(t, attr.Aid, triple.AidFn)

	again, err := s.RegisterAttr(triple.AttrSchema{Ident: name, ValueType: triple.TypeString})
	require.NoError(t, err)
	assert.Equal(t, attr.Aid, again.Aid)
}

func TestRegisterAttrRejectsComponentNonRef(t *testing.T) {
	s := openTest(t, nil)
	_, err := s.RegisterAttr(triple.AttrSchema{
		Ident: triple.NewKeyword(":bad/attr"), ValueType: triple.TypeString, IsComponent: true,
	})
	assert.Error(t, err)
}

func TestLoadDatomsAndFetch(t *testing.T) {
	s := openTest(t, nil)
	name := triple.NewKeyword(":person/name")
	attr, err := s.RegisterAttr(triple.AttrSchema{Ident: name, ValueType: triple.TypeString, Cardinality: triple.CardinalityOne})
	require.NoError(t, err)

	tx := s.NextTx()
	e := s.NextEid()
	require.NoError(t, s.LoadDatoms([]triple.Datom{
		{E: e, A: attr.Aid, V: "Alice", Tx: tx, Added: true},
	}))

	d, err := s.Fetch(e, attr.Aid, "Alice")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "Alice", d.V)

	missing, err := s.Fetch(e, attr.Aid, "Bob")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLoadDatomsRetract(t *testing.T) {
	s := openTest(t, nil)
	name := triple.NewKeyword(":person/name")
	attr, err := s.RegisterAttr(triple.AttrSchema{Ident: name, ValueType: triple.TypeString})
	require.NoError(t, err)

	e := s.NextEid()
	tx1 := s.NextTx()
	require.NoError(t, s.LoadDatoms([]triple.Datom{{E: e, A: attr.Aid, V: "Alice", Tx: tx1, Added: true}}))

	tx2 := s.NextTx()
	require.NoError(t, s.LoadDatoms([]triple.Datom{{E: e, A: attr.Aid, V: "Alice", Tx: tx2, Added: false}}))

	d, err := s.Fetch(e, attr.Aid, "Alice")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestSliceByEntity(t *testing.T) {
	s := openTest(t, nil)
	name, _ := s.RegisterAttr(triple.AttrSchema{Ident: triple.NewKeyword(":p/name"), ValueType: triple.TypeString})
	email, _ := s.RegisterAttr(triple.AttrSchema{Ident: triple.NewKeyword(":p/email"), ValueType: triple.TypeString})

	e := s.NextEid()
	tx := s.NextTx()
	require.NoError(t, s.LoadDatoms([]triple.Datom{
		{E: e, A: name.Aid, V: "Alice", Tx: tx, Added: true},
		{E: e, A: email.Aid, V: "alice@example.com", Tx: tx, Added: true},
	}))

	datoms, err := s.Slice(Components{E: &e})
	require.NoError(t, err)
	assert.Len(t, datoms, 2)
}

func TestSliceByAttributeValue(t *testing.T) {
	s := openTest(t, nil)
	name, _ := s.RegisterAttr(triple.AttrSchema{
		Ident: triple.NewKeyword(":p/email"), ValueType: triple.TypeString, Unique: triple.UniqueIdentity,
	})

	e1 := s.NextEid()
	e2 := s.NextEid()
	tx := s.NextTx()
	require.NoError(t, s.LoadDatoms([]triple.Datom{
		{E: e1, A: name.Aid, V: "a@x.com", Tx: tx, Added: true},
		{E: e2, A: name.Aid, V: "b@x.com", Tx: tx, Added: true},
	}))

	aid := name.Aid
	var v triple.Value = "a@x.com"
	datoms, err := s.Slice(Components{A: &aid, V: &v})
	require.NoError(t, err)
	require.Len(t, datoms, 1)
	assert.Equal(t, e1, datoms[0].E)
}

func TestAVETRangeIsInclusiveOfEnd(t *testing.T) {
	s := openTest(t, nil)
	age, _ := s.RegisterAttr(triple.AttrSchema{Ident: triple.NewKeyword(":p/age"), ValueType: triple.TypeLong})

	tx := s.NextTx()
	var datoms []triple.Datom
	for i, age2 := range []int64{10, 20, 30, 40} {
		e := s.NextEid()
		datoms = append(datoms, triple.Datom{E: e, A: age.Aid, V: age2, Tx: tx, Added: true})
		_ = i
	}
	require.NoError(t, s.LoadDatoms(datoms))

	got, err := s.AVETRange(age.Aid, int64(20), int64(30))
	require.NoError(t, err)
	var vals []int64
	for _, d := range got {
		vals = append(vals, d.V.(int64))
	}
	assert.ElementsMatch(t, []int64{20, 30}, vals)
}

func TestMaxEidAndMaxTxAdvance(t *testing.T) {
	s := openTest(t, nil)
	before := s.MaxEid()
	e := s.NextEid()
	assert.Equal(t, before+1, e)
	assert.Equal(t, e, s.MaxEid())

	beforeTx := s.MaxTx()
	tx := s.NextTx()
	assert.Equal(t, beforeTx+1, tx)
	assert.Equal(t, tx, s.MaxTx())
}
