// Package codec encodes typed values into order-preserving, self-describing
// byte strings suitable as B-tree keys, and decodes them back. Ported from
// the teacher's datalog/value_encoding.go (ValueBytes/ValueFromBytes/Type),
// reworked so the byte order matches value order (spec.md §4.1): the
// teacher's encoding is fixed-width big-endian but not sign-corrected, so
// negative longs/doubles would sort after positives under bytes.Compare.
package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/chronodb/chrono/terr"
	"github.com/chronodb/chrono/triple"
)

// MaxKeyLen is the largest encoded value this codec will produce, per
// spec.md §4.1.
const MaxKeyLen = 511

// Encode serializes v (whose declared type is vt) to a self-describing,
// order-preserving byte string: a 1-byte type tag followed by the typed
// payload.
func Encode(v triple.Value, vt triple.ValueType) ([]byte, error) {
	var payload []byte
	var err error

	switch vt {
	case triple.TypeString, triple.TypeSymbol, triple.TypeKeyword:
		payload, err = encodeText(v, vt)
	case triple.TypeLong:
		payload, err = encodeLong(v)
	case triple.TypeDouble:
		payload, err = encodeDouble(v)
	case triple.TypeFloat:
		payload, err = encodeFloat(v)
	case triple.TypeBoolean:
		payload, err = encodeBool(v)
	case triple.TypeInstant:
		payload, err = encodeInstant(v)
	case triple.TypeUUID:
		payload, err = encodeUUID(v)
	case triple.TypeBytes:
		payload, err = encodeBytes(v)
	case triple.TypeRef:
		payload, err = encodeRef(v)
	default:
		return nil, fmt.Errorf("codec: unknown value type %v", vt)
	}
	if err != nil {
		return nil, err
	}

	out := make([]byte, 1+len(payload))
	out[0] = byte(vt)
	copy(out[1:], payload)
	if len(out) > MaxKeyLen {
		return nil, terr.Newf(terr.KindSchemaValidation, map[string]any{"maxLen": MaxKeyLen, "len": len(out)},
			"encoded value exceeds max key length %d (got %d)", MaxKeyLen, len(out))
	}
	return out, nil
}

// Decode parses a self-describing encoded value (as produced by Encode)
// back into a typed Value.
func Decode(data []byte) (triple.Value, triple.ValueType, error) {
	if len(data) < 1 {
		return nil, 0, fmt.Errorf("codec: empty encoded value")
	}
	vt := triple.ValueType(data[0])
	payload := data[1:]

	switch vt {
	case triple.TypeString:
		return decodeText(payload), vt, nil
	case triple.TypeSymbol:
		return triple.Symbol(decodeText(payload)), vt, nil
	case triple.TypeKeyword:
		return triple.NewKeyword(decodeText(payload)), vt, nil
	case triple.TypeLong:
		v, err := decodeLong(payload)
		return v, vt, err
	case triple.TypeDouble:
		v, err := decodeDouble(payload)
		return v, vt, err
	case triple.TypeFloat:
		v, err := decodeFloat(payload)
		return v, vt, err
	case triple.TypeBoolean:
		v, err := decodeBool(payload)
		return v, vt, err
	case triple.TypeInstant:
		v, err := decodeInstant(payload)
		return v, vt, err
	case triple.TypeUUID:
		v, err := decodeUUID(payload)
		return v, vt, err
	case triple.TypeBytes:
		b, err := decodeBytesPayload(payload)
		return b, vt, err
	case triple.TypeRef:
		v, err := decodeRef(payload)
		return v, vt, err
	default:
		return nil, 0, fmt.Errorf("codec: unknown value type tag %d", data[0])
	}
}

// EncodedValueType returns the ValueType tag of an already-encoded value
// without fully decoding it.
func EncodedValueType(data []byte) (triple.ValueType, error) {
	if len(data) < 1 {
		return 0, fmt.Errorf("codec: empty encoded value")
	}
	return triple.ValueType(data[0]), nil
}

func encodeText(v triple.Value, vt triple.ValueType) ([]byte, error) {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case triple.Symbol:
		s = string(val)
	case triple.Keyword:
		s = val.String()
	default:
		return nil, fmt.Errorf("codec: expected %s value, got %T", vt, v)
	}
	for i := 0; i < len(s); i++ {
		if s[i] == 0x00 {
			return nil, terr.Newf(terr.KindSchemaValidation, map[string]any{"valueType": vt.String()},
				"%s value must not contain a 0x00 byte", vt)
		}
	}
	out := make([]byte, len(s)+1)
	copy(out, s)
	out[len(s)] = 0x00
	return out, nil
}

func decodeText(data []byte) string {
	if n := len(data); n > 0 && data[n-1] == 0x00 {
		data = data[:n-1]
	}
	return string(data)
}

// flipSignInt64 maps a signed two's-complement int64 into an unsigned
// big-endian ordering: flipping the sign bit puts negatives before
// positives under unsigned byte comparison.
func flipSignInt64(v int64) uint64 {
	u := uint64(v)
	return u ^ (1 << 63)
}

func unflipSignInt64(u uint64) int64 {
	return int64(u ^ (1 << 63))
}

func encodeLong(v triple.Value) ([]byte, error) {
	i, ok := asInt64(v)
	if !ok {
		return nil, fmt.Errorf("codec: expected long value, got %T", v)
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, flipSignInt64(i))
	return buf, nil
}

func decodeLong(data []byte) (triple.Value, error) {
	if len(data) != 8 {
		return nil, fmt.Errorf("codec: long value must be 8 bytes, got %d", len(data))
	}
	return unflipSignInt64(binary.BigEndian.Uint64(data)), nil
}

func asInt64(v triple.Value) (int64, bool) {
	switch val := v.(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	case triple.Eid:
		return int64(val), true
	default:
		return 0, false
	}
}

// flipDoubleBits implements spec.md §4.1's "sign/magnitude flip": for
// negative numbers flip every bit, for non-negative flip only the sign
// bit. Applied to the IEEE-754 bit pattern so unsigned byte order matches
// numeric order.
func flipDoubleBits(bits uint64) uint64 {
	if bits&(1<<63) != 0 {
		return ^bits
	}
	return bits | (1 << 63)
}

func unflipDoubleBits(bits uint64) uint64 {
	if bits&(1<<63) != 0 {
		return bits &^ (1 << 63)
	}
	return ^bits
}

func encodeDouble(v triple.Value) ([]byte, error) {
	f, ok := asFloat64(v)
	if !ok {
		return nil, fmt.Errorf("codec: expected double value, got %T", v)
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, flipDoubleBits(math.Float64bits(f)))
	return buf, nil
}

func decodeDouble(data []byte) (triple.Value, error) {
	if len(data) != 8 {
		return nil, fmt.Errorf("codec: double value must be 8 bytes, got %d", len(data))
	}
	bits := unflipDoubleBits(binary.BigEndian.Uint64(data))
	return math.Float64frombits(bits), nil
}

func asFloat64(v triple.Value) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	default:
		return 0, false
	}
}

func flipFloatBits(bits uint32) uint32 {
	if bits&(1<<31) != 0 {
		return ^bits
	}
	return bits | (1 << 31)
}

func unflipFloatBits(bits uint32) uint32 {
	if bits&(1<<31) != 0 {
		return bits &^ (1 << 31)
	}
	return ^bits
}

func encodeFloat(v triple.Value) ([]byte, error) {
	var f float32
	switch val := v.(type) {
	case float32:
		f = val
	case float64:
		f = float32(val)
	default:
		return nil, fmt.Errorf("codec: expected float value, got %T", v)
	}
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, flipFloatBits(math.Float32bits(f)))
	return buf, nil
}

func decodeFloat(data []byte) (triple.Value, error) {
	if len(data) != 4 {
		return nil, fmt.Errorf("codec: float value must be 4 bytes, got %d", len(data))
	}
	bits := unflipFloatBits(binary.BigEndian.Uint32(data))
	return math.Float32frombits(bits), nil
}

func encodeBool(v triple.Value) ([]byte, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("codec: expected bool value, got %T", v)
	}
	if b {
		return []byte{0x01}, nil
	}
	return []byte{0x02}, nil
}

func decodeBool(data []byte) (triple.Value, error) {
	if len(data) != 1 {
		return nil, fmt.Errorf("codec: bool value must be 1 byte, got %d", len(data))
	}
	switch data[0] {
	case 0x01:
		return true, nil
	case 0x02:
		return false, nil
	default:
		return nil, fmt.Errorf("codec: invalid bool byte %x", data[0])
	}
}

func encodeInstant(v triple.Value) ([]byte, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, fmt.Errorf("codec: expected instant value, got %T", v)
	}
	millis := t.UnixMilli()
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, flipSignInt64(millis))
	return buf, nil
}

func decodeInstant(data []byte) (triple.Value, error) {
	if len(data) != 8 {
		return nil, fmt.Errorf("codec: instant value must be 8 bytes, got %d", len(data))
	}
	millis := unflipSignInt64(binary.BigEndian.Uint64(data))
	return time.UnixMilli(millis).UTC(), nil
}

func encodeUUID(v triple.Value) ([]byte, error) {
	u, ok := v.(uuid.UUID)
	if !ok {
		return nil, fmt.Errorf("codec: expected uuid value, got %T", v)
	}
	b := u
	return b[:], nil
}

func decodeUUID(data []byte) (triple.Value, error) {
	if len(data) != 16 {
		return nil, fmt.Errorf("codec: uuid value must be 16 bytes, got %d", len(data))
	}
	var u uuid.UUID
	copy(u[:], data)
	return u, nil
}

func encodeBytes(v triple.Value) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("codec: expected bytes value, got %T", v)
	}
	buf := make([]byte, 4+len(b))
	binary.BigEndian.PutUint32(buf[:4], uint32(len(b)))
	copy(buf[4:], b)
	return buf, nil
}

func decodeBytesPayload(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("codec: bytes value too short for length prefix")
	}
	n := binary.BigEndian.Uint32(data[:4])
	if uint32(len(data)-4) != n {
		return nil, fmt.Errorf("codec: bytes value length mismatch: prefix %d, got %d", n, len(data)-4)
	}
	return data[4:], nil
}

func encodeRef(v triple.Value) ([]byte, error) {
	e, ok := v.(triple.Eid)
	if !ok {
		if i, ok2 := asInt64(v); ok2 {
			e = triple.Eid(i)
		} else {
			return nil, fmt.Errorf("codec: expected ref value, got %T", v)
		}
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, flipSignInt64(int64(e)))
	return buf, nil
}

func decodeRef(data []byte) (triple.Value, error) {
	if len(data) != 8 {
		return nil, fmt.Errorf("codec: ref value must be 8 bytes, got %d", len(data))
	}
	return triple.Eid(unflipSignInt64(binary.BigEndian.Uint64(data))), nil
}
