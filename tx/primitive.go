package tx

import (
	"github.com/chronodb/chrono/store"
	"github.com/chronodb/chrono/terr"
	"github.com/chronodb/chrono/triple"
)

// primitiveAdd implements spec.md §4.5's ":db/add e a v": resolve e/a/v,
// then hand off to applyAdd for the cardinality-aware no-op/uniqueness
// logic.
func (p *pipeline) primitiveAdd(eRef, aRef, vRef any) error {
	_, attr, err := p.resolveAttr(aRef)
	if err != nil {
		return err
	}
	e, err := p.resolveRef(eRef)
	if err != nil {
		return err
	}
	v, err := p.resolveValue(attr, vRef)
	if err != nil {
		return err
	}
	return p.applyAdd(e, attr, v)
}

// applyAdd emits the datom(s) needed to assert (e, attr, v): for
// cardinality-one it retracts the prior value if different, and for
// cardinality-many it dedupes against the current value set, consulting
// this pipeline run's own pending overlay as well as the committed store
// (repeated ops on the same (e, a) within a single Transact call must see
// each other's effect before anything is persisted).
func (p *pipeline) applyAdd(e triple.Eid, attr triple.AttrSchema, v triple.Value) error {
	key := pendingKey{e, attr.Aid}

	if attr.Cardinality == triple.CardinalityOne {
		cur, err := p.currentValue(key, e, attr.Aid)
		if err != nil {
			return err
		}
		if cur != nil && triple.ValuesEqual(*cur, v) {
			return nil
		}
		if err := p.checkUnique(attr, v, e); err != nil {
			return err
		}
		if cur != nil {
			p.emit(triple.Datom{E: e, A: attr.Aid, V: *cur, Tx: p.tx, Added: false})
		}
		p.emit(triple.Datom{E: e, A: attr.Aid, V: v, Tx: p.tx, Added: true})
		p.setOneValue(key, v)
		return nil
	}

	if p.manyContains(key, v) {
		return nil
	}
	if !p.manyRetractedContains(key, v) {
		d, err := p.db.Fetch(e, attr.Aid, v)
		if err != nil {
			return err
		}
		if d != nil {
			p.markMany(key, v)
			return nil
		}
	}
	if err := p.checkUnique(attr, v, e); err != nil {
		return err
	}
	p.emit(triple.Datom{E: e, A: attr.Aid, V: v, Tx: p.tx, Added: true})
	p.markMany(key, v)
	return nil
}

// currentValue returns attr's current cardinality-one value for e,
// preferring this run's pending overlay over the committed store.
func (p *pipeline) currentValue(key pendingKey, e triple.Eid, aid triple.AttrId) (*triple.Value, error) {
	if st, ok := p.oneValues[key]; ok {
		if !st.known {
			return nil, nil
		}
		v := st.value
		return &v, nil
	}
	d, err := p.storeCurrentOne(e, aid)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, nil
	}
	return &d.V, nil
}

func (p *pipeline) storeCurrentOne(e triple.Eid, aid triple.AttrId) (*triple.Datom, error) {
	ds, err := p.db.Slice(store.Components{E: &e, A: &aid})
	if err != nil {
		return nil, err
	}
	if len(ds) == 0 {
		return nil, nil
	}
	return &ds[0], nil
}

func (p *pipeline) setOneValue(key pendingKey, v triple.Value) {
	p.oneValues[key] = oneState{known: true, value: v}
}

func (p *pipeline) clearOneValue(key pendingKey) {
	p.oneValues[key] = oneState{known: false}
}

func (p *pipeline) manyContains(key pendingKey, v triple.Value) bool {
	set, ok := p.manyAdded[key]
	if !ok {
		return false
	}
	return set[valueKey(v)]
}

func (p *pipeline) markMany(key pendingKey, v triple.Value) {
	set, ok := p.manyAdded[key]
	if !ok {
		set = make(map[string]bool)
		p.manyAdded[key] = set
	}
	set[valueKey(v)] = true
	if rset, ok := p.manyRetracted[key]; ok {
		delete(rset, valueKey(v))
	}
}

func (p *pipeline) manyRetractedContains(key pendingKey, v triple.Value) bool {
	set, ok := p.manyRetracted[key]
	if !ok {
		return false
	}
	return set[valueKey(v)]
}

func (p *pipeline) markManyRetracted(key pendingKey, v triple.Value) {
	set, ok := p.manyRetracted[key]
	if !ok {
		set = make(map[string]bool)
		p.manyRetracted[key] = set
	}
	set[valueKey(v)] = true
}

// checkUnique enforces spec.md §4.5's validate-datom rule: fails with
// transact/unique if AVET (or an uncommitted claim from earlier in this
// same Transact call) already holds (a, v) for a different entity.
func (p *pipeline) checkUnique(attr triple.AttrSchema, v triple.Value, e triple.Eid) error {
	if attr.Unique == triple.UniqueNone {
		return nil
	}
	aid := attr.Aid
	existing, err := p.db.Slice(store.Components{A: &aid, V: &v})
	if err != nil {
		return err
	}
	for _, d := range existing {
		if d.E != e {
			return terr.Newf(terr.KindTransactUnique, map[string]any{"attr": attr.Ident.String(), "value": v},
				"unique conflict on %s: value already held by entity %d", attr.Ident, d.E)
		}
	}

	ck := claimKey{aid, valueKey(v)}
	if holder, ok := p.uniqueClaims[ck]; ok && holder != e {
		return terr.Newf(terr.KindTransactUnique, map[string]any{"attr": attr.Ident.String(), "value": v},
			"unique conflict on %s within this transaction", attr.Ident)
	}
	p.uniqueClaims[ck] = e
	return nil
}

// primitiveRetract implements spec.md §4.5's ":db/retract e a v": a
// missing entity or missing datom is a no-op.
func (p *pipeline) primitiveRetract(eRef, aRef, vRef any) error {
	e, found, err := p.resolveRefSoft(eRef)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	_, attr, err := p.resolveAttr(aRef)
	if err != nil {
		return err
	}
	v, err := p.resolveValue(attr, vRef)
	if err != nil {
		return err
	}
	return p.retractValue(e, attr, v)
}

func (p *pipeline) retractValue(e triple.Eid, attr triple.AttrSchema, v triple.Value) error {
	key := pendingKey{e, attr.Aid}

	if attr.Cardinality == triple.CardinalityOne {
		cur, err := p.currentValue(key, e, attr.Aid)
		if err != nil {
			return err
		}
		if cur == nil || !triple.ValuesEqual(*cur, v) {
			return nil
		}
		p.emit(triple.Datom{E: e, A: attr.Aid, V: *cur, Tx: p.tx, Added: false})
		p.clearOneValue(key)
		return nil
	}

	if p.manyContains(key, v) {
		p.unmarkMany(key, v)
		p.emit(triple.Datom{E: e, A: attr.Aid, V: v, Tx: p.tx, Added: false})
		return nil
	}
	d, err := p.db.Fetch(e, attr.Aid, v)
	if err != nil {
		return err
	}
	if d == nil {
		return nil
	}
	p.emit(triple.Datom{E: e, A: attr.Aid, V: v, Tx: p.tx, Added: false})
	p.markManyRetracted(key, v)
	return nil
}

func (p *pipeline) unmarkMany(key pendingKey, v triple.Value) {
	if set, ok := p.manyAdded[key]; ok {
		delete(set, valueKey(v))
	}
}

// cas implements spec.md §4.5's ":db.fn/cas e a old new" (aliased
// ":db/cas"): fails with transact/cas if the current value doesn't match
// old (for cardinality-many, if no current value equals old).
func (p *pipeline) cas(eRef, aRef, oldRef, newRef any) error {
	e, err := p.resolveRef(eRef)
	if err != nil {
		return err
	}
	_, attr, err := p.resolveAttr(aRef)
	if err != nil {
		return err
	}
	oldV, err := p.resolveValue(attr, oldRef)
	if err != nil {
		return err
	}

	key := pendingKey{e, attr.Aid}
	ok := false
	if attr.Cardinality == triple.CardinalityOne {
		cur, err := p.currentValue(key, e, attr.Aid)
		if err != nil {
			return err
		}
		ok = cur != nil && triple.ValuesEqual(*cur, oldV)
	} else {
		switch {
		case p.manyContains(key, oldV):
			ok = true
		case p.manyRetractedContains(key, oldV):
			ok = false
		default:
			d, err := p.db.Fetch(e, attr.Aid, oldV)
			if err != nil {
				return err
			}
			ok = d != nil
		}
	}
	if !ok {
		return terr.Newf(terr.KindTransactCAS, map[string]any{"attr": attr.Ident.String(), "expected": oldRef},
			"cas precondition failed on %s: current value is not %v", attr.Ident, oldRef)
	}

	newV, err := p.resolveValue(attr, newRef)
	if err != nil {
		return err
	}
	return p.applyAdd(e, attr, newV)
}
