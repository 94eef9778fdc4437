package tx

import (
	"crypto/sha1"
	"fmt"

	"github.com/chronodb/chrono/store"
	"github.com/chronodb/chrono/triple"
)

// Report is the value threaded through the transaction pipeline,
// mirroring spec.md §4.5's {db-before, db-after, tx-data, tempids,
// tx-meta}. DbBefore and DbAfter both point at the same *store.Store:
// snapshots are computed views over one on-disk store rather than
// distinct copies, so a successful Transact leaves DbAfter able to see
// everything DbBefore could plus the newly committed tx-data.
type Report struct {
	DbBefore *store.Store
	DbAfter  *store.Store

	TxData  []triple.Datom
	TempIds map[any]triple.Eid
	TxMeta  map[triple.Keyword]triple.Value

	hash []byte
}

// NewReport starts a fresh report against db, ready to be passed to
// Transact.
func NewReport(db *store.Store) *Report {
	return &Report{
		DbBefore: db,
		DbAfter:  db,
		TempIds:  make(map[any]triple.Eid),
	}
}

// Hash lazily memoizes a sha1 content hash over TxData's canonical byte
// encoding, letting a caller (e.g. a connection wrapper deduping listener
// notifications) cheaply compare two reports for equality.
func (r *Report) Hash() []byte {
	if r.hash != nil {
		return r.hash
	}
	h := sha1.New()
	for _, d := range r.TxData {
		fmt.Fprintf(h, "%d|%d|%v|%d|%t\n", d.E, d.A, d.V, d.Tx, d.Added)
	}
	r.hash = h.Sum(nil)
	return r.hash
}
