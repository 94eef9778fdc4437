// Package chrono is the public surface of the triple-store: the
// functions a query layer or connection wrapper (both out of scope
// here) would call to open a database, transact against it, and scan
// its indexes. It is a thin facade over store.Store and tx.Transact.
package chrono

import (
	"github.com/chronodb/chrono/engine"
	"github.com/chronodb/chrono/store"
	"github.com/chronodb/chrono/triple"
	"github.com/chronodb/chrono/tx"
)

// DB wraps one open database directory.
type DB struct {
	store *store.Store
	fns   *tx.FnRegistry
}

// EmptyDB opens (creating if absent) dir as a fresh database, merging
// schema with the implicit attribute set. Matches spec.md §6's
// empty_db(schema?, dir?).
func EmptyDB(dir string, schema map[triple.Keyword]triple.AttrSchema, opts engine.Options) (*DB, error) {
	s, err := store.Open(dir, schema, opts)
	if err != nil {
		return nil, err
	}
	return &DB{store: s, fns: tx.NewFnRegistry()}, nil
}

// InitDB opens dir and, if it was freshly created (max-eid still zero),
// seeds it with datoms before returning. Matches spec.md §6's
// init_db(datoms, schema?, dir?).
func InitDB(dir string, datoms []triple.Datom, schema map[triple.Keyword]triple.AttrSchema, opts engine.Options) (*DB, error) {
	db, err := EmptyDB(dir, schema, opts)
	if err != nil {
		return nil, err
	}
	if db.store.MaxEid() == triple.E0 && len(datoms) > 0 {
		if err := db.store.LoadDatoms(datoms); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Close releases the database's underlying storage handles.
func (db *DB) Close() error { return db.store.Close() }

// Store exposes the underlying storage layer for callers (e.g. the CLI)
// that need direct index access alongside Transact.
func (db *DB) Store() *store.Store { return db.store }

// Functions returns the registry of stored transaction functions,
// letting a caller register named :db/fn implementations before
// transacting.
func (db *DB) Functions() *tx.FnRegistry { return db.fns }

// Transact runs ops through the transaction pipeline against db,
// matching spec.md §6's transact(report, operations) -> report. Pass a
// fresh *tx.Report (tx.NewReport(db.Store())) for a standalone call, or
// thread an existing report's TxMeta through for a caller that tracks
// metadata across calls.
func (db *DB) Transact(report *tx.Report, ops []tx.Op) (*tx.Report, error) {
	if report == nil {
		report = tx.NewReport(db.store)
	}
	return tx.Transact(report, ops, db.fns)
}

// RegisterAttr adds attr to the schema if it isn't already present.
func (db *DB) RegisterAttr(attr triple.AttrSchema) (triple.AttrSchema, error) {
	return db.store.RegisterAttr(attr)
}

// Datoms returns the ordered slice of datoms in index consistent with
// the bound components, matching spec.md §6's datoms(db, index,
// components).
func (db *DB) Datoms(c store.Components) ([]triple.Datom, error) {
	return db.store.Slice(c)
}

// SeekDatoms returns the datoms matching components in forward index order,
// the same result as Datoms (spec.md §6 seek_datoms). The scan stops at the
// end of the matching range; datoms that sort after it are not returned.
func (db *DB) SeekDatoms(c store.Components) ([]triple.Datom, error) {
	return db.store.Slice(c)
}

// RSeekDatoms returns the datoms matching components in reverse index order
// (spec.md §6 rseek_datoms). The scan stops at the start of the matching
// range; datoms that sort before it are not returned.
func (db *DB) RSeekDatoms(c store.Components) ([]triple.Datom, error) {
	return db.store.RSlice(c)
}

// IndexRange returns the forward AVET slice for attr between start and
// end (both inclusive), matching spec.md §6's index_range(db, attr,
// start, end). Either bound may be nil for an open range.
func (db *DB) IndexRange(attr triple.Keyword, start, end triple.Value) ([]triple.Datom, error) {
	a, ok := db.store.AttrByIdent(attr)
	if !ok {
		return nil, unknownAttrErr(attr)
	}
	return db.store.AVETRange(a.Aid, start, end)
}
