package store

import (
	"encoding/binary"
	"fmt"

	"github.com/chronodb/chrono/codec"
	"github.com/chronodb/chrono/engine"
	"github.com/chronodb/chrono/triple"
)

func decodeUint64(b []byte) uint64 { return binary.BigEndian.Uint64(b) }

func decodeValueBytes(b []byte) (triple.Value, triple.ValueType, error) {
	return codec.Decode(b)
}

// Components names which of (e, a, v) a caller has bound for a scan.
type Components struct {
	E *triple.Eid
	A *triple.AttrId
	V *triple.Value
}

// Plan is the result of ISearch: which index to scan, the byte range
// within it, and an optional post-filter for the cases where the bound
// components don't fully determine a contiguous key range.
type Plan struct {
	Index  IndexType
	Sub    engine.Sub
	Range  engine.Range
	Filter func(triple.Datom) bool
}

func incrementPrefix(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return end
		}
		end[i] = 0
	}
	return append(end, 0x00)
}

func prefixRange(prefix []byte, reverse bool) engine.Range {
	return engine.ClosedOpen(prefix, incrementPrefix(prefix), reverse)
}

// ISearch implements spec.md §4.3's eight-case index-selection truth table.
func (s *Store) ISearch(c Components, reverse bool) (Plan, error) {
	switch {
	case c.E != nil && c.A != nil && c.V != nil:
		vEnc, err := s.encodeValue(*c.A, *c.V)
		if err != nil {
			return Plan{}, err
		}
		key := eavtKey(*c.E, *c.A, vEnc)
		return Plan{Index: EAVT, Sub: s.eav, Range: engine.Closed(key, key, reverse)}, nil

	case c.E != nil && c.A != nil && c.V == nil:
		prefix := append(encodeEid(*c.E), encodeAid(*c.A)...)
		return Plan{Index: EAVT, Sub: s.eav, Range: prefixRange(prefix, reverse)}, nil

	case c.E != nil && c.A == nil && c.V != nil:
		prefix := encodeEid(*c.E)
		want := *c.V
		return Plan{Index: EAVT, Sub: s.eav, Range: prefixRange(prefix, reverse),
			Filter: func(d triple.Datom) bool { return triple.ValuesEqual(d.V, want) }}, nil

	case c.E != nil && c.A == nil && c.V == nil:
		prefix := encodeEid(*c.E)
		return Plan{Index: EAVT, Sub: s.eav, Range: prefixRange(prefix, reverse)}, nil

	case c.E == nil && c.A != nil && c.V != nil:
		vEnc, err := s.encodeValue(*c.A, *c.V)
		if err != nil {
			return Plan{}, err
		}
		prefix := append(encodeAid(*c.A), vEnc...)
		return Plan{Index: AVET, Sub: s.ave, Range: prefixRange(prefix, reverse)}, nil

	case c.E == nil && c.A != nil && c.V == nil:
		prefix := encodeAid(*c.A)
		return Plan{Index: AEVT, Sub: s.aev, Range: prefixRange(prefix, reverse)}, nil

	case c.E == nil && c.A == nil && c.V != nil:
		if ref, ok := (*c.V).(triple.Eid); ok {
			prefix := encodeEid(ref)
			return Plan{Index: VAET, Sub: s.vae, Range: prefixRange(prefix, reverse)}, nil
		}
		want := *c.V
		return Plan{Index: EAVT, Sub: s.eav, Range: engine.All(reverse),
			Filter: func(d triple.Datom) bool { return triple.ValuesEqual(d.V, want) }}, nil

	default: // none bound
		return Plan{Index: EAVT, Sub: s.eav, Range: engine.All(reverse)}, nil
	}
}

func (s *Store) decodeDatom(index IndexType, key, val []byte) (triple.Datom, error) {
	tx := triple.TxId(decodeUint64(val))

	switch index {
	case EAVT:
		e, a, vEnc, err := decodeEAVTKey(key)
		if err != nil {
			return triple.Datom{}, err
		}
		v, _, err := decodeValueBytes(vEnc)
		if err != nil {
			return triple.Datom{}, err
		}
		return triple.Datom{E: e, A: a, V: v, Tx: tx, Added: true}, nil
	case AEVT:
		a, e, vEnc, err := decodeAEVTKey(key)
		if err != nil {
			return triple.Datom{}, err
		}
		v, _, err := decodeValueBytes(vEnc)
		if err != nil {
			return triple.Datom{}, err
		}
		return triple.Datom{E: e, A: a, V: v, Tx: tx, Added: true}, nil
	case AVET:
		a, vEnc, e, err := decodeAVETKey(key)
		if err != nil {
			return triple.Datom{}, err
		}
		v, _, err := decodeValueBytes(vEnc)
		if err != nil {
			return triple.Datom{}, err
		}
		return triple.Datom{E: e, A: a, V: v, Tx: tx, Added: true}, nil
	case VAET:
		v, a, e, err := decodeVAETKey(key)
		if err != nil {
			return triple.Datom{}, err
		}
		return triple.Datom{E: e, A: a, V: v, Tx: tx, Added: true}, nil
	default:
		return triple.Datom{}, fmt.Errorf("store: unknown index type %v", index)
	}
}
