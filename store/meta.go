package store

import (
	"encoding/binary"

	"github.com/chronodb/chrono/engine"
	"github.com/chronodb/chrono/triple"
)

const (
	metaKeyMaxEid  = "max-eid"
	metaKeyMaxTx   = "max-tx"
	metaKeyVersion = "version"
)

// StorageVersion is written to the meta sub-database on first open, per
// spec.md §6 ("Format is version-tagged via a meta entry :version").
const StorageVersion = 1

func (s *Store) loadMeta() error {
	s.maxTx = triple.Tx0

	if v, ok, err := s.eng.Get(s.metaSub, []byte(metaKeyMaxEid)); err != nil {
		return err
	} else if ok {
		s.maxEid = triple.Eid(binary.BigEndian.Uint64(v))
	}

	if v, ok, err := s.eng.Get(s.metaSub, []byte(metaKeyMaxTx)); err != nil {
		return err
	} else if ok {
		s.maxTx = triple.TxId(binary.BigEndian.Uint64(v))
	}

	if _, ok, err := s.eng.Get(s.metaSub, []byte(metaKeyVersion)); err != nil {
		return err
	} else if !ok {
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, StorageVersion)
		if err := s.eng.Write([]engine.Op{{Kind: engine.OpPut, Sub: s.metaSub, Key: []byte(metaKeyVersion), Val: buf}}); err != nil {
			return err
		}
	}

	return nil
}

// initMaxEid scans the EAV sub-database in reverse and returns the largest
// entity id observed, or E0 if the store is empty. Used on first open of a
// store with no persisted max-eid meta entry (spec.md §4.3 init_max_eid).
func (s *Store) initMaxEid() (triple.Eid, error) {
	cur, err := s.eng.Scan(s.eav, engine.All(true))
	if err != nil {
		return triple.E0, err
	}
	defer cur.Close()

	if cur.Next() {
		if len(cur.Key()) >= 8 {
			return triple.Eid(binary.BigEndian.Uint64(cur.Key()[:8])), nil
		}
	}
	return triple.E0, nil
}

func metaOps(sub engine.Sub, maxEid triple.Eid, maxTx triple.TxId) []engine.Op {
	eidBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(eidBuf, uint64(maxEid))
	txBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(txBuf, uint64(maxTx))
	return []engine.Op{
		{Kind: engine.OpPut, Sub: sub, Key: []byte(metaKeyMaxEid), Val: eidBuf},
		{Kind: engine.OpPut, Sub: sub, Key: []byte(metaKeyMaxTx), Val: txBuf},
	}
}
