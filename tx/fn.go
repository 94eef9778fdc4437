package tx

import "github.com/chronodb/chrono/store"

// StoredFn is the signature every :db/fn-registered implementation must
// satisfy: given the pre-transaction store and the op's trailing
// arguments, it returns the operations to splice into the remaining
// stream. No serialized code is ever executed; implementations are named
// Go functions registered at process startup.
type StoredFn func(db *store.Store, args ...any) ([]Op, error)

// FnRegistry maps a :db/fn value (a function name, since :db/fn is
// schema'd as a plain string) to its implementation.
type FnRegistry struct {
	byName map[string]StoredFn
}

// NewFnRegistry returns an empty registry.
func NewFnRegistry() *FnRegistry {
	return &FnRegistry{byName: make(map[string]StoredFn)}
}

// Register binds name to fn. Re-registering a name overwrites the prior
// implementation.
func (r *FnRegistry) Register(name string, fn StoredFn) {
	r.byName[name] = fn
}

func (r *FnRegistry) lookup(name string) (StoredFn, bool) {
	fn, ok := r.byName[name]
	return fn, ok
}
