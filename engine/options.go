package engine

// Options configures an Engine. Mirrors the tuning knobs the teacher sets
// directly on badger.Options in datalog/storage/badger_store.go, plus the
// pool/retry knobs spec.md §4.2/§5 ask for that the teacher's fresh-
// transaction-per-call style didn't need.
type Options struct {
	// InitialSizeMB is the initial map size hint, per spec.md §4.2's
	// open(dir, initial_size_mb, flags). Badger has no fixed mmap to size
	// up front; the value is recorded only, and neither Open nor Write
	// reads it.
	InitialSizeMB int

	// MaxReaders bounds the read-transaction pool (spec.md §5).
	MaxReaders int

	// SyncWrites forces fsync on every commit, trading latency for
	// durability. Off by default, matching the teacher's defaults.
	SyncWrites bool
}

// DefaultOptions returns the tuning the teacher uses in NewBadgerStore.
func DefaultOptions() Options {
	return Options{
		InitialSizeMB: 16,
		MaxReaders:    126,
		SyncWrites:    false,
	}
}
