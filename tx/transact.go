// Package tx implements the transaction pipeline: it normalizes the
// heterogeneous operation forms of spec.md §4.5 (map entities, vector
// ops, raw datoms) into primitive :db/add / :db/retract datoms, resolving
// tempids and upserts along the way, and commits the result to a
// store.Store. The teacher has no transactor of its own — its
// datalog/storage/database.go Transaction/Commit pair only timestamps
// and writes already-concrete datoms — so the pipeline here is new,
// built around that same accumulate-then-commit skeleton.
package tx

import (
	"github.com/chronodb/chrono/store"
	"github.com/chronodb/chrono/terr"
	"github.com/chronodb/chrono/triple"
)

// restartSignal is returned internally when a map-entity's upsert
// resolution conflicts with a tempid already pinned earlier in this same
// Transact call, per spec.md §4.5 step 4: the whole attempt is discarded
// and replayed with the tempid pinned to the upserted eid.
type restartSignal struct {
	tempID any
	eid    triple.Eid
}

// pipeline holds one attempt's mutable state: the transaction id it was
// assigned, the tempids resolved so far, and the pending-state overlay
// that lets ops within the same attempt see each other's effects before
// anything is committed.
type pipeline struct {
	db  *store.Store
	tx  triple.TxId
	fns *FnRegistry

	tempIds map[any]triple.Eid

	oneValues     map[pendingKey]oneState
	manyAdded     map[pendingKey]map[string]bool
	manyRetracted map[pendingKey]map[string]bool
	uniqueClaims  map[claimKey]triple.Eid
	retracted     map[triple.Eid]bool

	txData []triple.Datom
}

func newPipeline(db *store.Store, tx triple.TxId, tempIds map[any]triple.Eid, fns *FnRegistry) *pipeline {
	return &pipeline{
		db:            db,
		tx:            tx,
		fns:           fns,
		tempIds:       tempIds,
		oneValues:     make(map[pendingKey]oneState),
		manyAdded:     make(map[pendingKey]map[string]bool),
		manyRetracted: make(map[pendingKey]map[string]bool),
		uniqueClaims:  make(map[claimKey]triple.Eid),
		retracted:     make(map[triple.Eid]bool),
	}
}

func (p *pipeline) emit(d triple.Datom) {
	p.txData = append(p.txData, d)
}

// Transact runs ops through the full pipeline against report.DbBefore,
// returning a new report whose TxData holds every primitive datom
// actually applied and whose TempIds maps every tempid (and
// :db/current-tx) to a concrete id. Implements spec.md §4.5 end to end:
// map-entity reduction, explode, upsert resolution with a bounded
// restart loop, primitive add/retract, cas, retractAttribute/
// retractEntity with component cascade, stored transaction-function
// dispatch, uniqueness enforcement, and final commit.
//
// fns may be nil if ops contains no stored-function dispatches.
func Transact(report *Report, ops []Op, fns *FnRegistry) (*Report, error) {
	db := report.DbBefore

	pinned := make(map[any]triple.Eid, len(report.TempIds))
	for k, v := range report.TempIds {
		pinned[k] = v
	}

	budget := maxRestarts(ops)
	for attempt := 0; attempt <= budget; attempt++ {
		tx := db.NextTx()
		p := newPipeline(db, tx, cloneTempIds(pinned), fns)

		restart, err := p.run(ops)
		if err != nil {
			return nil, err
		}
		if restart != nil {
			if existing, ok := pinned[restart.tempID]; ok && existing != restart.eid {
				return nil, terr.Newf(terr.KindTransactUpsert, map[string]any{"tempid": restart.tempID},
					"tempid %v resolves to conflicting entities %d and %d", restart.tempID, existing, restart.eid)
			}
			pinned[restart.tempID] = restart.eid
			continue
		}

		p.tempIds[currentTxKey] = triple.Eid(tx)
		if err := db.LoadDatoms(p.txData); err != nil {
			return nil, err
		}

		return &Report{
			DbBefore: db,
			DbAfter:  db,
			TxData:   p.txData,
			TempIds:  p.tempIds,
			TxMeta:   report.TxMeta,
		}, nil
	}

	return nil, terr.New(terr.KindTransactUpsert, "transaction did not converge within its restart budget", nil)
}

// currentTxKey is the TempIds key recording :db/current-tx's resolution.
const currentTxKey = ":db/current-tx"

func cloneTempIds(m map[any]triple.Eid) map[any]triple.Eid {
	out := make(map[any]triple.Eid, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// maxRestarts bounds the upsert-conflict restart loop by (twice) the
// number of distinct tempids reachable from ops without first exploding
// nested maps, plus a small constant margin for sentinel-only or
// lookup-ref-only transactions. Each genuine restart pins at least one
// more tempid, so this is a safe, generous ceiling rather than a tight
// one (spec.md §4.5: "bounded by the number of tempids").
func maxRestarts(ops []Op) int {
	seen := map[any]bool{}
	var walk func(v any)
	walk = func(v any) {
		switch t := v.(type) {
		case MapEntity:
			if id, ok := t[IdentKey]; ok && IsTempId(id) {
				seen[id] = true
			}
			for k, val := range t {
				if k != IdentKey {
					walk(val)
				}
			}
		case []any:
			for _, e := range t {
				walk(e)
			}
		}
	}
	for _, op := range ops {
		switch t := op.(type) {
		case MapEntity:
			walk(t)
		case AddOp:
			walk(t.E)
			walk(t.V)
		case RetractOp:
			walk(t.E)
			walk(t.V)
		case CasOp:
			walk(t.E)
			walk(t.Old)
			walk(t.New)
		case RetractAttributeOp:
			walk(t.E)
		case RetractEntityOp:
			walk(t.E)
		case RawDatom:
			walk(t.E)
			walk(t.V)
		}
	}
	return 2*len(seen) + 4
}

// run drains a work queue seeded with ops, where map-entity and stored-
// function steps may push freshly-derived ops back onto the front of the
// queue (explode's vector ops, a nested map re-fed as its own entity, or
// a stored function's spliced result).
func (p *pipeline) run(ops []Op) (*restartSignal, error) {
	queue := append([]Op(nil), ops...)
	for len(queue) > 0 {
		op := queue[0]
		queue = queue[1:]

		more, restart, err := p.step(op)
		if err != nil {
			return nil, err
		}
		if restart != nil {
			return restart, nil
		}
		if len(more) > 0 {
			queue = append(append([]Op(nil), more...), queue...)
		}
	}
	return nil, nil
}

func (p *pipeline) step(op Op) ([]Op, *restartSignal, error) {
	switch t := op.(type) {
	case MapEntity:
		return p.mapEntity(t)
	case AddOp:
		return nil, nil, p.primitiveAdd(t.E, t.A, t.V)
	case RetractOp:
		if t.V == nil {
			return nil, nil, p.retractAttribute(t.E, t.A)
		}
		return nil, nil, p.primitiveRetract(t.E, t.A, t.V)
	case RetractAttributeOp:
		return nil, nil, p.retractAttribute(t.E, t.A)
	case RetractEntityOp:
		return nil, nil, p.retractEntity(t.E)
	case CasOp:
		return nil, nil, p.cas(t.E, t.A, t.Old, t.New)
	case CallOp:
		more, err := t.Fn(p.db, t.Args...)
		return more, nil, err
	case FnCallOp:
		return p.dispatchFn(t)
	case RawDatom:
		if t.Added {
			return nil, nil, p.primitiveAdd(t.E, t.A, t.V)
		}
		return nil, nil, p.primitiveRetract(t.E, t.A, t.V)
	default:
		return nil, nil, terr.Newf(terr.KindTransactSyntax, map[string]any{"op": op},
			"unrecognized operation form: %v (%T)", op, op)
	}
}

func (p *pipeline) dispatchFn(op FnCallOp) ([]Op, *restartSignal, error) {
	e, err := p.db.EntidStrict(op.Ident)
	if err != nil {
		return nil, nil, err
	}
	aid := triple.AidFn
	ds, err := p.db.Slice(store.Components{E: &e, A: &aid})
	if err != nil {
		return nil, nil, err
	}
	if len(ds) == 0 {
		return nil, nil, terr.Newf(terr.KindTransactSyntax, map[string]any{"ident": op.Ident},
			"entity %v has no :db/fn", op.Ident)
	}
	name, ok := ds[0].V.(string)
	if !ok {
		return nil, nil, terr.Newf(terr.KindTransactSyntax, map[string]any{"ident": op.Ident},
			":db/fn value must be a string")
	}
	if p.fns == nil {
		return nil, nil, terr.Newf(terr.KindTransactSyntax, map[string]any{"fn": name},
			"no transaction function registry configured")
	}
	fn, ok := p.fns.lookup(name)
	if !ok {
		return nil, nil, terr.Newf(terr.KindTransactSyntax, map[string]any{"fn": name},
			"unregistered transaction function %q", name)
	}
	more, err := fn(p.db, op.Args...)
	return more, nil, err
}
