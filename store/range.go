package store

import (
	"github.com/chronodb/chrono/engine"
	"github.com/chronodb/chrono/triple"
)

// AVETRange returns the forward AVET slice for attribute aid between
// start and end inclusive; either bound may be nil for an open end,
// matching spec.md §6's index_range(db, attr, start, end).
func (s *Store) AVETRange(aid triple.AttrId, start, end triple.Value) ([]triple.Datom, error) {
	prefix := encodeAid(aid)

	from := prefix
	if start != nil {
		enc, err := s.encodeValue(aid, start)
		if err != nil {
			return nil, err
		}
		from = append(append([]byte{}, prefix...), enc...)
	}

	to := incrementPrefix(prefix)
	if end != nil {
		enc, err := s.encodeValue(aid, end)
		if err != nil {
			return nil, err
		}
		to = incrementPrefix(append(append([]byte{}, prefix...), enc...))
	}

	it, err := s.Run(Plan{Index: AVET, Sub: s.ave, Range: engine.ClosedOpen(from, to, false)})
	if err != nil {
		return nil, err
	}
	defer it.Close()

	var out []triple.Datom
	for it.Next() {
		out = append(out, it.Datom())
	}
	if it.Err() != nil {
		return nil, it.Err()
	}
	return out, nil
}
