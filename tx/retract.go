package tx

import (
	"github.com/chronodb/chrono/store"
	"github.com/chronodb/chrono/triple"
)

// retractAttribute implements spec.md §4.5's ":db.fn/retractAttribute e
// a": retract every (e, a, *) datom, then cascade a
// ":db.fn/retractEntity" onto any isComponent ref value.
//
// The open question of ":db/retract with a missing value" vs
// ":db.fn/retractAttribute" is resolved here per spec.md §9: a ":db/retract"
// (RetractOp) whose value is nil is routed to this same function,
// treating the two forms as aliases.
func (p *pipeline) retractAttribute(eRef, aRef any) error {
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
	return p.doRetractAttribute(e, attr)
}

func (p *pipeline) doRetractAttribute(e triple.Eid, attr triple.AttrSchema) error {
	aid := attr.Aid
	ds, err := p.db.Slice(store.Components{E: &e, A: &aid})
	if err != nil {
		return err
	}
	isComponent := p.db.RSchema().Components[aid]

	for _, d := range ds {
		p.emit(triple.Datom{E: d.E, A: d.A, V: d.V, Tx: p.tx, Added: false})
		if isComponent {
			if ref, ok := d.V.(triple.Eid); ok {
				if err := p.doRetractEntity(ref); err != nil {
					return err
				}
			}
		}
	}
	if attr.Cardinality == triple.CardinalityOne {
		p.clearOneValue(pendingKey{e, aid})
	} else {
		delete(p.manyAdded, pendingKey{e, aid})
	}
	return nil
}

// retractEntity implements spec.md §4.5's ":db.fn/retractEntity e":
// retract every datom with subject e and every datom with value e,
// cascading onto component references in the subject set.
func (p *pipeline) retractEntity(eRef any) error {
	e, found, err := p.resolveRefSoft(eRef)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	return p.doRetractEntity(e)
}

func (p *pipeline) doRetractEntity(e triple.Eid) error {
	if p.retracted[e] {
		return nil
	}
	p.retracted[e] = true

	subj, err := p.db.Slice(store.Components{E: &e})
	if err != nil {
		return err
	}
	vVal := triple.Value(e)
	asVal, err := p.db.Slice(store.Components{V: &vVal})
	if err != nil {
		return err
	}

	rs := p.db.RSchema()
	for _, d := range subj {
		p.emit(triple.Datom{E: d.E, A: d.A, V: d.V, Tx: p.tx, Added: false})
		if rs.Components[d.A] {
			if ref, ok := d.V.(triple.Eid); ok {
				if err := p.doRetractEntity(ref); err != nil {
					return err
				}
			}
		}
	}
	for _, d := range asVal {
		p.emit(triple.Datom{E: d.E, A: d.A, V: d.V, Tx: p.tx, Added: false})
	}
	return nil
}
