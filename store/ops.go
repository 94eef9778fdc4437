package store

import (
	"encoding/binary"
	"fmt"

	"github.com/chronodb/chrono/engine"
	"github.com/chronodb/chrono/triple"
)

// NextTx allocates (but does not persist) the next transaction id. It is
// persisted atomically with the batch's datoms by the following LoadDatoms
// call.
func (s *Store) NextTx() triple.TxId {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxTx++
	return s.maxTx
}

// LoadDatoms applies a batch of primitive add/retract datoms to all
// applicable indexes and commits the updated max-eid/max-tx meta in the
// same engine write, per spec.md §4.3 load_datoms. Datoms must already
// carry resolved Eid/AttrId and the transaction id assigned by NextTx.
// max-eid is advanced to cover any entity id present in the batch, so a
// caller that seeds datoms directly (bypassing NextEid, as init_db does)
// still leaves the store's next-id counter past every seeded entity.
func (s *Store) LoadDatoms(datoms []triple.Datom) error {
	if len(datoms) == 0 {
		return nil
	}

	var ops []engine.Op
	for _, d := range datoms {
		attr, ok := s.AttrByID(d.A)
		if !ok {
			return errUnknownAttr(d.A)
		}

		vEnc, err := s.encodeValue(d.A, d.V)
		if err != nil {
			return err
		}

		txBuf := make([]byte, 8)
		putUint64(txBuf, uint64(d.Tx))

		kind := engine.OpPut
		if !d.Added {
			kind = engine.OpDel
		}

		ops = append(ops,
			engine.Op{Kind: kind, Sub: s.eav, Key: eavtKey(d.E, d.A, vEnc), Val: txBuf},
			engine.Op{Kind: kind, Sub: s.aev, Key: aevtKey(d.E, d.A, vEnc), Val: txBuf},
			engine.Op{Kind: kind, Sub: s.ave, Key: avetKey(d.E, d.A, vEnc), Val: txBuf},
		)

		if attr.ValueType == triple.TypeRef {
			if ref, ok := d.V.(triple.Eid); ok {
				ops = append(ops, engine.Op{Kind: kind, Sub: s.vae, Key: vaetKey(d.E, d.A, ref), Val: txBuf})
			}
		}
	}

	s.mu.Lock()
	for _, d := range datoms {
		if d.E < triple.Eid(triple.Tx0) && d.E > s.maxEid {
			s.maxEid = d.E
		}
	}
	maxEid, maxTx := s.maxEid, s.maxTx
	s.mu.Unlock()
	ops = append(ops, metaOps(s.metaSub, maxEid, maxTx)...)

	return s.eng.Write(ops)
}

// Fetch returns the datom with the given e, a and v if it currently
// exists (spec.md §4.3 fetch), used to test existence before emitting a new
// primitive datom.
func (s *Store) Fetch(e triple.Eid, a triple.AttrId, v triple.Value) (*triple.Datom, error) {
	vEnc, err := s.encodeValue(a, v)
	if err != nil {
		return nil, err
	}
	key := eavtKey(e, a, vEnc)
	val, ok, err := s.eng.Get(s.eav, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	tx := triple.TxId(binary.BigEndian.Uint64(val))
	return &triple.Datom{E: e, A: a, V: v, Tx: tx, Added: true}, nil
}

func errUnknownAttr(a triple.AttrId) error {
	return fmt.Errorf("store: unknown attribute id %d", a)
}
