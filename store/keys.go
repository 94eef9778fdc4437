package store

import (
	"encoding/binary"
	"fmt"

	"github.com/chronodb/chrono/codec"
	"github.com/chronodb/chrono/triple"
)

func putUint64(b []byte, v uint64) { binary.BigEndian.PutUint64(b, v) }
func putUint32(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }

func encodeEid(e triple.Eid) []byte {
	b := make([]byte, 8)
	putUint64(b, uint64(e))
	return b
}

func encodeAid(a triple.AttrId) []byte {
	b := make([]byte, 4)
	putUint32(b, uint32(a))
	return b
}

func decodeEid(b []byte) triple.Eid   { return triple.Eid(binary.BigEndian.Uint64(b)) }
func decodeAid(b []byte) triple.AttrId { return triple.AttrId(binary.BigEndian.Uint32(b)) }

// encodeValue looks up the declared value type for aid and encodes v
// through the order-preserving codec.
func (s *Store) encodeValue(a triple.AttrId, v triple.Value) ([]byte, error) {
	attr, ok := s.AttrByID(a)
	if !ok {
		return nil, fmt.Errorf("store: unknown attribute id %d", a)
	}
	return codec.Encode(v, attr.ValueType)
}

// eavtKey builds the e∥a∥v key for the EAVT index.
func eavtKey(e triple.Eid, a triple.AttrId, vEnc []byte) []byte {
	out := make([]byte, 0, 8+4+len(vEnc))
	out = append(out, encodeEid(e)...)
	out = append(out, encodeAid(a)...)
	out = append(out, vEnc...)
	return out
}

// aevtKey builds the a∥e∥v key for the AEVT index.
func aevtKey(e triple.Eid, a triple.AttrId, vEnc []byte) []byte {
	out := make([]byte, 0, 4+8+len(vEnc))
	out = append(out, encodeAid(a)...)
	out = append(out, encodeEid(e)...)
	out = append(out, vEnc...)
	return out
}

// avetKey builds the a∥v∥e key for the AVET index.
func avetKey(e triple.Eid, a triple.AttrId, vEnc []byte) []byte {
	out := make([]byte, 0, 4+len(vEnc)+8)
	out = append(out, encodeAid(a)...)
	out = append(out, vEnc...)
	out = append(out, encodeEid(e)...)
	return out
}

// vaetKey builds the v∥a∥e key for the VAET index (ref-typed datoms only;
// v is itself an Eid, encoded as a plain 8-byte big-endian integer rather
// than through the typed codec since it's always a reference).
func vaetKey(e triple.Eid, a triple.AttrId, v triple.Eid) []byte {
	out := make([]byte, 0, 8+4+8)
	out = append(out, encodeEid(v)...)
	out = append(out, encodeAid(a)...)
	out = append(out, encodeEid(e)...)
	return out
}

// decodeEAVTKey splits an EAVT key into (e, a, vEnc).
func decodeEAVTKey(key []byte) (triple.Eid, triple.AttrId, []byte, error) {
	if len(key) < 12 {
		return 0, 0, nil, fmt.Errorf("store: EAVT key too short")
	}
	return decodeEid(key[0:8]), decodeAid(key[8:12]), key[12:], nil
}

// decodeAEVTKey splits an AEVT key into (a, e, vEnc).
func decodeAEVTKey(key []byte) (triple.AttrId, triple.Eid, []byte, error) {
	if len(key) < 12 {
		return 0, 0, nil, fmt.Errorf("store: AEVT key too short")
	}
	return decodeAid(key[0:4]), decodeEid(key[4:12]), key[12:], nil
}

// decodeAVETKey splits an AVET key into (a, vEnc, e). Value length is
// variable, so e (fixed 8 bytes) is read from the tail.
func decodeAVETKey(key []byte) (triple.AttrId, []byte, triple.Eid, error) {
	if len(key) < 12 {
		return 0, nil, 0, fmt.Errorf("store: AVET key too short")
	}
	a := decodeAid(key[0:4])
	e := decodeEid(key[len(key)-8:])
	v := key[4 : len(key)-8]
	return a, v, e, nil
}

// decodeVAETKey splits a VAET key into (v, a, e).
func decodeVAETKey(key []byte) (triple.Eid, triple.AttrId, triple.Eid, error) {
	if len(key) != 20 {
		return 0, 0, 0, fmt.Errorf("store: VAET key must be 20 bytes, got %d", len(key))
	}
	return decodeEid(key[0:8]), decodeAid(key[8:12]), decodeEid(key[12:20]), nil
}
