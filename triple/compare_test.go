package triple

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompareValuesNumeric(t *testing.T) {
	assert.Equal(t, -1, CompareValues(int64(1), int64(2)))
	assert.Equal(t, 1, CompareValues(int64(2), int64(1)))
	assert.Equal(t, 0, CompareValues(int64(2), float64(2)))
}

func TestCompareValuesStrings(t *testing.T) {
	assert.Equal(t, -1, CompareValues("alice", "bob"))
	assert.Equal(t, 0, CompareValues("alice", "alice"))
}

func TestCompareValuesBooleans(t *testing.T) {
	assert.Equal(t, -1, CompareValues(false, true))
	assert.Equal(t, 1, CompareValues(true, false))
	assert.Equal(t, 0, CompareValues(true, true))
}

func TestCompareValuesTime(t *testing.T) {
	earlier := time.Unix(100, 0)
	later := time.Unix(200, 0)
	assert.Equal(t, -1, CompareValues(earlier, later))
	assert.Equal(t, 1, CompareValues(later, earlier))
}

func TestCompareValuesNil(t *testing.T) {
	assert.Equal(t, 0, CompareValues(nil, nil))
	assert.Equal(t, -1, CompareValues(nil, "x"))
	assert.Equal(t, 1, CompareValues("x", nil))
}

func TestValuesEqualKeyword(t *testing.T) {
	assert.True(t, ValuesEqual(NewKeyword(":a/b"), NewKeyword(":a/b")))
	assert.False(t, ValuesEqual(NewKeyword(":a/b"), NewKeyword(":a/c")))
}

func TestCompareEAVTOrdersByEThenA(t *testing.T) {
	d1 := Datom{E: 1, A: 1, V: "x", Tx: Tx0}
	d2 := Datom{E: 1, A: 2, V: "x", Tx: Tx0}
	d3 := Datom{E: 2, A: 1, V: "x", Tx: Tx0}

	assert.Equal(t, -1, CompareEAVT(d1, d2))
	assert.Equal(t, -1, CompareEAVT(d2, d3))
}

func TestCompareAVETOrdersByAThenV(t *testing.T) {
	d1 := Datom{E: 5, A: 1, V: "a", Tx: Tx0}
	d2 := Datom{E: 1, A: 1, V: "b", Tx: Tx0}
	assert.Equal(t, -1, CompareAVET(d1, d2))
}

func TestCompareVAETUsesRefValue(t *testing.T) {
	d1 := Datom{E: 10, A: 1, V: Eid(1), Tx: Tx0}
	d2 := Datom{E: 10, A: 1, V: Eid(2), Tx: Tx0}
	assert.Equal(t, -1, CompareVAET(d1, d2))
}
