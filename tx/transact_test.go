package tx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronodb/chrono/engine"
	"github.com/chronodb/chrono/store"
	"github.com/chronodb/chrono/triple"
)

func openTest(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(t.TempDir(), nil, engine.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func registerPerson(t *testing.T, s *store.Store) (name, email, age, friend triple.AttrSchema) {
	t.Helper()
	var err error
	name, err = s.RegisterAttr(triple.AttrSchema{
		Ident: triple.NewKeyword(":person/name"), ValueType: triple.TypeString, Cardinality: triple.CardinalityOne,
	})
	require.NoError(t, err)
	email, err = s.RegisterAttr(triple.AttrSchema{
		Ident: triple.NewKeyword(":person/email"), ValueType: triple.TypeString, Unique: triple.UniqueIdentity,
	})
	require.NoError(t, err)
	age, err = s.RegisterAttr(triple.AttrSchema{
		Ident: triple.NewKeyword(":person/age"), ValueType: triple.TypeLong, Cardinality: triple.CardinalityOne,
	})
	require.NoError(t, err)
	friend, err = s.RegisterAttr(triple.AttrSchema{
		Ident: triple.NewKeyword(":person/friend"), ValueType: triple.TypeRef,
		Cardinality: triple.CardinalityMany, IsComponent: true,
	})
	require.NoError(t, err)
	return
}

func TestTransactSimpleAdd(t *testing.T) {
	s := openTest(t)
	name, _, _, _ := registerPerson(t, s)

	report, err := Transact(NewReport(s), []Op{
		MapEntity{IdentKey: "alice", name.Ident: "Alice"},
	}, nil)
	require.NoError(t, err)
	require.Len(t, report.TxData, 1)
	assert.Equal(t, "Alice", report.TxData[0].V)
	assert.True(t, report.TxData[0].Added)

	eid, ok := report.TempIds["alice"]
	require.True(t, ok)
	assert.NotZero(t, eid)
}

func TestTransactUpsertReusesEntity(t *testing.T) {
	s := openTest(t)
	name, email, _, _ := registerPerson(t, s)

	r1, err := Transact(NewReport(s), []Op{
		MapEntity{IdentKey: "alice", email.Ident: "alice@x.com", name.Ident: "Alice"},
	}, nil)
	require.NoError(t, err)
	eid := r1.TempIds["alice"]

	r2, err := Transact(NewReport(s), []Op{
		MapEntity{email.Ident: "alice@x.com", name.Ident: "Alice Smith"},
	}, nil)
	require.NoError(t, err)

	got, err := s.Fetch(eid, name.Aid, "Alice Smith")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, eid, got.E)
	assert.NotEmpty(t, r2.TxData)
}

func TestTransactUpsertBindsTempIdToExistingEntity(t *testing.T) {
	s := openTest(t)
	_, email, _, _ := registerPerson(t, s)

	report, err := Transact(NewReport(s), []Op{
		MapEntity{IdentKey: "p1", email.Ident: "a@x.com"},
	}, nil)
	require.NoError(t, err)
	existing := report.TempIds["p1"]

	r2, err := Transact(NewReport(s), []Op{
		MapEntity{IdentKey: "p2", email.Ident: "a@x.com"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, existing, r2.TempIds["p2"])
}

func TestTransactComponentCascade(t *testing.T) {
	s := openTest(t)
	_, _, _, friend := registerPerson(t, s)

	report, err := Transact(NewReport(s), []Op{
		MapEntity{IdentKey: "alice", friend.Ident: []any{MapEntity{IdentKey: "bob"}}},
	}, nil)
	require.NoError(t, err)
	alice := report.TempIds["alice"]
	bob := report.TempIds["bob"]
	require.NotZero(t, bob)

	_, err = Transact(NewReport(s), []Op{RetractEntityOp{E: alice}}, nil)
	require.NoError(t, err)

	remaining, err := s.Slice(store.Components{E: &bob})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestTransactCASSucceedsAndFails(t *testing.T) {
	s := openTest(t)
	_, _, age, _ := registerPerson(t, s)

	report, err := Transact(NewReport(s), []Op{
		MapEntity{IdentKey: "alice", age.Ident: int64(30)},
	}, nil)
	require.NoError(t, err)
	alice := report.TempIds["alice"]

	_, err = Transact(NewReport(s), []Op{
		CasOp{E: alice, A: age.Ident, Old: int64(30), New: int64(31)},
	}, nil)
	require.NoError(t, err)

	got, err := s.Fetch(alice, age.Aid, int64(31))
	require.NoError(t, err)
	require.NotNil(t, got)

	_, err = Transact(NewReport(s), []Op{
		CasOp{E: alice, A: age.Ident, Old: int64(30), New: int64(32)},
	}, nil)
	assert.Error(t, err)
}

func TestTransactRetractAttributeAliasesNilValueRetract(t *testing.T) {
	s := openTest(t)
	name, _, _, _ := registerPerson(t, s)

	report, err := Transact(NewReport(s), []Op{
		MapEntity{IdentKey: "alice", name.Ident: "Alice"},
	}, nil)
	require.NoError(t, err)
	alice := report.TempIds["alice"]

	_, err = Transact(NewReport(s), []Op{
		RetractOp{E: alice, A: name.Ident, V: nil},
	}, nil)
	require.NoError(t, err)

	got, err := s.Fetch(alice, name.Aid, "Alice")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTransactCardinalityManyRetractThenAddSameTx(t *testing.T) {
	s := openTest(t)
	_, _, _, friend := registerPerson(t, s)

	report, err := Transact(NewReport(s), []Op{
		MapEntity{IdentKey: "alice", friend.Ident: []any{MapEntity{IdentKey: "bob"}}},
	}, nil)
	require.NoError(t, err)
	alice := report.TempIds["alice"]
	bob := report.TempIds["bob"]

	_, err = Transact(NewReport(s), []Op{
		RetractOp{E: alice, A: friend.Ident, V: bob},
		AddOp{E: alice, A: friend.Ident, V: bob},
	}, nil)
	require.NoError(t, err)

	aid := friend.Aid
	datoms, err := s.Slice(store.Components{E: &alice, A: &aid})
	require.NoError(t, err)
	require.Len(t, datoms, 1)
	assert.Equal(t, bob, datoms[0].V)
}

func TestTransactUniqueConflict(t *testing.T) {
	s := openTest(t)
	_, email, _, _ := registerPerson(t, s)

	_, err := Transact(NewReport(s), []Op{
		MapEntity{IdentKey: "alice", email.Ident: "a@x.com"},
		MapEntity{IdentKey: "eve", email.Ident: "a@x.com"},
	}, nil)
	assert.Error(t, err)
}

func TestTransactStoredFunctionDispatch(t *testing.T) {
	s := openTest(t)
	name, _, _, _ := registerPerson(t, s)

	fnName, err := s.RegisterAttr(triple.AttrSchema{
		Ident: triple.NewKeyword(":fn/greet"), ValueType: triple.TypeString,
	})
	require.NoError(t, err)
	_ = fnName

	report, err := Transact(NewReport(s), []Op{
		MapEntity{IdentKey: "greeter", triple.KwFn: "greet"},
	}, nil)
	require.NoError(t, err)
	greeter := report.TempIds["greeter"]

	fns := NewFnRegistry()
	fns.Register("greet", func(db *store.Store, args ...any) ([]Op, error) {
		return []Op{AddOp{E: args[0], A: name.Ident, V: "Hello"}}, nil
	})

	_, err = Transact(NewReport(s), []Op{
		FnCallOp{Ident: greeter, Args: []any{greeter}},
	}, fns)
	require.NoError(t, err)

	got, err := s.Fetch(greeter, name.Aid, "Hello")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestTransactReverseRefShorthand(t *testing.T) {
	s := openTest(t)
	_, _, _, friend := registerPerson(t, s)

	report, err := Transact(NewReport(s), []Op{
		MapEntity{IdentKey: "alice"},
		MapEntity{IdentKey: "bob", triple.NewKeyword(":person/_friend"): []any{"alice"}},
	}, nil)
	require.NoError(t, err)
	alice := report.TempIds["alice"]
	bob := report.TempIds["bob"]

	aid := friend.Aid
	datoms, err := s.Slice(store.Components{E: &alice, A: &aid})
	require.NoError(t, err)
	require.Len(t, datoms, 1)
	assert.Equal(t, bob, datoms[0].V)
}
