package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronodb/chrono/triple"
)

func TestEntidResolvesIntegerToItself(t *testing.T) {
	s := openTest(t, nil)
	e, ok, err := s.Entid(int64(42))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, triple.Eid(42), e)
}

func TestEntidResolvesLookupRef(t *testing.T) {
	s := openTest(t, nil)
	email, err := s.RegisterAttr(triple.AttrSchema{
		Ident: triple.NewKeyword(":person/email"), ValueType: triple.TypeString, Unique: triple.UniqueIdentity,
	})
	require.NoError(t, err)

	e := s.NextEid()
	tx := s.NextTx()
	require.NoError(t, s.LoadDatoms([]triple.Datom{{E: e, A: email.Aid, V: "alice@x.com", Tx: tx, Added: true}}))

	got, ok, err := s.Entid(LookupRef{Attr: email.Ident, Value: "alice@x.com"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, e, got)

	_, ok, err = s.Entid(LookupRef{Attr: email.Ident, Value: "missing@x.com"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEntidLookupRefRequiresUnique(t *testing.T) {
	s := openTest(t, nil)
	age, err := s.RegisterAttr(triple.AttrSchema{Ident: triple.NewKeyword(":p/age"), ValueType: triple.TypeLong})
	require.NoError(t, err)

	_, _, err = s.Entid(LookupRef{Attr: age.Ident, Value: int64(5)})
	assert.Error(t, err)
}

func TestEntidVectorForm(t *testing.T) {
	s := openTest(t, nil)
	email, err := s.RegisterAttr(triple.AttrSchema{
		Ident: triple.NewKeyword(":person/email"), ValueType: triple.TypeString, Unique: triple.UniqueValue,
	})
	require.NoError(t, err)

	e := s.NextEid()
	tx := s.NextTx()
	require.NoError(t, s.LoadDatoms([]triple.Datom{{E: e, A: email.Aid, V: "bob@x.com", Tx: tx, Added: true}}))

	got, ok, err := s.Entid([]any{email.Ident, "bob@x.com"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, e, got)
}

func TestEntidRejectsUnrecognizedForm(t *testing.T) {
	s := openTest(t, nil)
	_, _, err := s.Entid(3.14)
	assert.Error(t, err)
}

func TestEntidStrictErrorsOnMissing(t *testing.T) {
	s := openTest(t, nil)
	email, err := s.RegisterAttr(triple.AttrSchema{
		Ident: triple.NewKeyword(":person/email"), ValueType: triple.TypeString, Unique: triple.UniqueIdentity,
	})
	require.NoError(t, err)

	_, err = s.EntidStrict(LookupRef{Attr: email.Ident, Value: "nobody@x.com"})
	assert.Error(t, err)
}

func TestEntidSomeLiftsNil(t *testing.T) {
	s := openTest(t, nil)
	e, ok, err := s.EntidSome(nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, triple.Eid(0), e)
}
