package codec

import (
	"bytes"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chronodb/chrono/triple"
)

func roundTrip(t *testing.T, v triple.Value, vt triple.ValueType) triple.Value {
	t.Helper()
	enc, err := Encode(v, vt)
	require.NoError(t, err)
	dec, gotType, err := Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, vt, gotType)
	return dec
}

func TestEncodeDecodeString(t *testing.T) {
	got := roundTrip(t, "hello", triple.TypeString)
	assert.Equal(t, "hello", got)
}

func TestEncodeDecodeKeyword(t *testing.T) {
	got := roundTrip(t, triple.NewKeyword(":a/b"), triple.TypeKeyword)
	assert.Equal(t, triple.NewKeyword(":a/b"), got)
}

func TestEncodeDecodeLong(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 42, -42, 1 << 40, -(1 << 40)} {
		got := roundTrip(t, v, triple.TypeLong)
		assert.Equal(t, v, got)
	}
}

func TestEncodeDecodeDouble(t *testing.T) {
	for _, v := range []float64{0, 1.5, -1.5, 3.14159, -3.14159} {
		got := roundTrip(t, v, triple.TypeDouble)
		assert.Equal(t, v, got)
	}
}

func TestEncodeDecodeBool(t *testing.T) {
	assert.Equal(t, true, roundTrip(t, true, triple.TypeBoolean))
	assert.Equal(t, false, roundTrip(t, false, triple.TypeBoolean))
}

func TestEncodeDecodeUUID(t *testing.T) {
	u := uuid.New()
	got := roundTrip(t, u, triple.TypeUUID)
	assert.Equal(t, u, got)
}

func TestEncodeDecodeInstant(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	got := roundTrip(t, now, triple.TypeInstant)
	assert.True(t, now.Equal(got.(time.Time)))
}

func TestEncodeDecodeBytes(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	got := roundTrip(t, b, triple.TypeBytes)
	assert.Equal(t, b, got)
}

func TestEncodeDecodeRef(t *testing.T) {
	got := roundTrip(t, triple.Eid(123), triple.TypeRef)
	assert.Equal(t, triple.Eid(123), got)
}

func TestEncodeRejectsEmbeddedNUL(t *testing.T) {
	_, err := Encode("bad\x00value", triple.TypeString)
	assert.Error(t, err)
}

// TestEncodeLongOrderPreserving verifies that the byte encoding of a set of
// longs sorts in the same order as the longs themselves, the property
// spec.md §4.1 requires for index keys.
func TestEncodeLongOrderPreserving(t *testing.T) {
	values := []int64{-100, -5, -1, 0, 1, 5, 100, 1 << 40}
	encoded := make([][]byte, len(values))
	for i, v := range values {
		enc, err := Encode(v, triple.TypeLong)
		require.NoError(t, err)
		encoded[i] = enc
	}
	sorted := make([][]byte, len(encoded))
	copy(sorted, encoded)
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i], sorted[j]) < 0 })
	assert.Equal(t, encoded, sorted)
}

func TestEncodeDoubleOrderPreserving(t *testing.T) {
	values := []float64{-100.5, -1.1, 0, 1.1, 100.5}
	encoded := make([][]byte, len(values))
	for i, v := range values {
		enc, err := Encode(v, triple.TypeDouble)
		require.NoError(t, err)
		encoded[i] = enc
	}
	sorted := make([][]byte, len(encoded))
	copy(sorted, encoded)
	sort.Slice(sorted, func(i, j int) bool { return bytes.Compare(sorted[i], sorted[j]) < 0 })
	assert.Equal(t, encoded, sorted)
}

func TestEncodedValueType(t *testing.T) {
	enc, err := Encode("x", triple.TypeString)
	require.NoError(t, err)
	vt, err := EncodedValueType(enc)
	require.NoError(t, err)
	assert.Equal(t, triple.TypeString, vt)
}
