package tx

import (
	"github.com/chronodb/chrono/store"
	"github.com/chronodb/chrono/terr"
	"github.com/chronodb/chrono/triple"
)

// mapEntity implements spec.md §4.5's map-entity processing: reduce
// {:db/id ?id, a1 v1, ...} down to a concrete entity id (resolving
// sentinels, lookup refs, upserts and tempids along the way), then
// explode the remaining attributes into primitive vector ops.
func (p *pipeline) mapEntity(m MapEntity) ([]Op, *restartSignal, error) {
	rawID := m[IdentKey]

	// 1. :db/current-tx sentinel.
	if IsTxSentinel(rawID) {
		m2 := cloneMapEntity(m)
		m2[IdentKey] = triple.Eid(p.tx)
		return []Op{m2}, nil, nil
	}

	// 2. explicit [attr value] lookup ref.
	if lr, ok := asLookupRef(rawID); ok {
		eid, found, err := p.db.Entid(lr)
		if err != nil {
			return nil, nil, err
		}
		m2 := cloneMapEntity(m)
		if found {
			m2[IdentKey] = eid
		} else {
			// Unresolved: fall through to allocation, but keep the
			// identifying attribute so it gets asserted on the new entity.
			m2[IdentKey] = nil
			m2[lr.Attr] = lr.Value
		}
		return []Op{m2}, nil, nil
	}

	// 3. upsert scan over unique-identity attributes.
	upsertEid, upsertAttr, err := p.scanUpsert(m)
	if err != nil {
		return nil, nil, err
	}

	var oldEid triple.Eid
	oldIsTemp := false
	if rawID != nil {
		if IsTempId(rawID) {
			oldIsTemp = true
			oldEid = p.tempIds[rawID]
		} else {
			oldEid, err = p.db.EntidStrict(rawID)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	var eid triple.Eid
	switch {
	case upsertEid != 0:
		if oldEid != 0 && oldEid != upsertEid {
			if oldIsTemp {
				return nil, &restartSignal{tempID: rawID, eid: upsertEid}, nil
			}
			return nil, nil, terr.Newf(terr.KindTransactUpsert,
				map[string]any{"attr": upsertAttr.String(), "db/id": oldEid, "upsert": upsertEid},
				":db/id %d disagrees with upsert resolution %d via %s", oldEid, upsertEid, upsertAttr)
		}
		eid = upsertEid
		if rawID != nil && oldIsTemp {
			p.tempIds[rawID] = eid
		}

	case rawID == nil:
		eid = p.db.NextEid()

	case oldIsTemp:
		if oldEid != 0 {
			eid = oldEid
		} else {
			eid = p.db.NextEid()
			p.tempIds[rawID] = eid
		}

	default:
		eid = oldEid
	}

	ops, err := p.explode(eid, m)
	if err != nil {
		return nil, nil, err
	}
	return ops, nil, nil
}

// scanUpsert folds every unique-identity attribute present in m against
// AVET, failing if two such attributes resolve to different entities.
func (p *pipeline) scanUpsert(m MapEntity) (triple.Eid, triple.Keyword, error) {
	rs := p.db.RSchema()

	var found triple.Eid
	var foundAttr triple.Keyword

	for k, v := range m {
		if k == IdentKey {
			continue
		}
		attr, ok := p.db.AttrByIdent(k)
		if !ok || !rs.UniqueIdentity[attr.Aid] {
			continue
		}

		for _, raw := range valuesOf(v, attr.Cardinality == triple.CardinalityMany) {
			norm := triple.Normalize(raw)
			eid, ok, err := p.db.Entid(store.LookupRef{Attr: k, Value: norm})
			if err != nil {
				return 0, triple.Keyword{}, err
			}
			if !ok {
				continue
			}
			if found != 0 && found != eid {
				return 0, triple.Keyword{}, terr.Newf(terr.KindTransactUpsert,
					map[string]any{"attr1": foundAttr.String(), "attr2": k.String()},
					"conflicting upserts: %s and %s resolve to different entities", foundAttr, k)
			}
			found, foundAttr = eid, k
		}
	}
	return found, foundAttr, nil
}

// explode converts {:db/id e, a vs, ...} into vector ops, per spec.md
// §4.5: reverse-ref shorthand flips subject and value, multivalued
// attributes fold collections element-by-element (except when the value
// is itself a lookup ref), and a nested map under a ref attribute is
// injected with its reverse-ref back to e and re-fed as its own entity.
func (p *pipeline) explode(e triple.Eid, m MapEntity) ([]Op, error) {
	var out []Op
	for k, v := range m {
		if k == IdentKey {
			continue
		}

		if straight, ok := reverseRefShorthand(k); ok {
			attr, known := p.db.AttrByIdent(straight)
			if !known || attr.ValueType != triple.TypeRef {
				return nil, terr.Newf(terr.KindTransactSyntax, map[string]any{"attr": straight.String()},
					"%s: reverse-ref shorthand requires %s to be a ref attribute", k, straight)
			}
			for _, val := range valuesOf(v, true) {
				out = append(out, AddOp{E: val, A: straight, V: e})
			}
			continue
		}

		attr, known := p.db.AttrByIdent(k)
		many := known && attr.Cardinality == triple.CardinalityMany

		for _, val := range valuesOf(v, many) {
			if nested, ok := val.(MapEntity); ok && known && attr.ValueType == triple.TypeRef {
				injected := cloneMapEntity(nested)
				injected[injectedReverseKey(k)] = e
				out = append(out, injected)
				continue
			}
			out = append(out, AddOp{E: e, A: k, V: val})
		}
	}
	return out, nil
}
