package store

import (
	"github.com/chronodb/chrono/triple"
)

// DatomIterator lazily yields decoded datoms from a Plan, applying the
// plan's post-filter (if any) transparently.
type DatomIterator struct {
	store *Store
	plan  Plan
	cur   interface {
		Next() bool
		Key() []byte
		Value() []byte
		Close()
	}
	current triple.Datom
	err     error
}

// Run executes a search plan and returns a lazy iterator over the matching
// datoms, in the plan's index order (ascending, or descending if
// plan.Range.Reverse).
func (s *Store) Run(plan Plan) (*DatomIterator, error) {
	cur, err := s.eng.Scan(plan.Sub, plan.Range)
	if err != nil {
		return nil, err
	}
	return &DatomIterator{store: s, plan: plan, cur: cur}, nil
}

// Next advances the iterator, returning false at end of range or on error
// (check Err after a false return).
func (it *DatomIterator) Next() bool {
	for it.cur.Next() {
		d, err := it.store.decodeDatom(it.plan.Index, it.cur.Key(), it.cur.Value())
		if err != nil {
			it.err = err
			return false
		}
		if it.plan.Filter != nil && !it.plan.Filter(d) {
			continue
		}
		it.current = d
		return true
	}
	return false
}

// Datom returns the datom at the iterator's current position.
func (it *DatomIterator) Datom() triple.Datom { return it.current }

// Err returns any error encountered during iteration.
func (it *DatomIterator) Err() error { return it.err }

// Close releases the iterator's underlying cursor.
func (it *DatomIterator) Close() { it.cur.Close() }

// Slice collects every datom matching components into a slice, in forward
// index order (spec.md §4.3 slice).
func (s *Store) Slice(c Components) ([]triple.Datom, error) {
	return s.collect(c, false, nil)
}

// RSlice collects every datom matching components into a slice, in reverse
// index order (spec.md §4.3 rslice).
func (s *Store) RSlice(c Components) ([]triple.Datom, error) {
	return s.collect(c, true, nil)
}

// SliceFilter is Slice with an additional predicate applied after decoding
// (spec.md §4.3 slice_filter).
func (s *Store) SliceFilter(c Components, pred func(triple.Datom) bool) ([]triple.Datom, error) {
	return s.collect(c, false, pred)
}

func (s *Store) collect(c Components, reverse bool, extra func(triple.Datom) bool) ([]triple.Datom, error) {
	plan, err := s.ISearch(c, reverse)
	if err != nil {
		return nil, err
	}
	if extra != nil {
		base := plan.Filter
		plan.Filter = func(d triple.Datom) bool {
			if base != nil && !base(d) {
				return false
			}
			return extra(d)
		}
	}

	it, err := s.Run(plan)
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
