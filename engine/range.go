package engine

// RangeKind names one of the range shapes spec.md §4.2 requires a scan to
// support, each with a "-back" (descending) variant carried by Range.Reverse
// rather than as a separate kind.
type RangeKind byte

const (
	KindAll RangeKind = iota
	KindAtLeast
	KindAtMost
	KindClosed
	KindClosedOpen
	KindOpen
	KindOpenClosed
	KindGreaterThan
	KindLessThan
)

// Range describes a key range to scan within a sub-database.
type Range struct {
	Kind    RangeKind
	From    []byte
	To      []byte
	Reverse bool
}

// All matches every key in the sub-database.
func All(reverse bool) Range { return Range{Kind: KindAll, Reverse: reverse} }

// AtLeast matches keys >= from.
func AtLeast(from []byte, reverse bool) Range {
	return Range{Kind: KindAtLeast, From: from, Reverse: reverse}
}

// AtMost matches keys <= to.
func AtMost(to []byte, reverse bool) Range {
	return Range{Kind: KindAtMost, To: to, Reverse: reverse}
}

// Closed matches keys in [from, to].
func Closed(from, to []byte, reverse bool) Range {
	return Range{Kind: KindClosed, From: from, To: to, Reverse: reverse}
}

// ClosedOpen matches keys in [from, to).
func ClosedOpen(from, to []byte, reverse bool) Range {
	return Range{Kind: KindClosedOpen, From: from, To: to, Reverse: reverse}
}

// OpenRange matches keys in (from, to).
func OpenRange(from, to []byte, reverse bool) Range {
	return Range{Kind: KindOpen, From: from, To: to, Reverse: reverse}
}

// OpenClosed matches keys in (from, to].
func OpenClosed(from, to []byte, reverse bool) Range {
	return Range{Kind: KindOpenClosed, From: from, To: to, Reverse: reverse}
}

// GreaterThan matches keys > from.
func GreaterThan(from []byte, reverse bool) Range {
	return Range{Kind: KindGreaterThan, From: from, Reverse: reverse}
}

// LessThan matches keys < to.
func LessThan(to []byte, reverse bool) Range {
	return Range{Kind: KindLessThan, To: to, Reverse: reverse}
}

// includesLowerBound/includesUpperBound/bounds below translate a Range into
// the (start, end, startInclusive, endInclusive) shape the cursor actually
// iterates with.
func (r Range) bounds() (start, end []byte, startInclusive, endInclusive bool) {
	switch r.Kind {
	case KindAll:
		return nil, nil, true, true
	case KindAtLeast:
		return r.From, nil, true, true
	case KindAtMost:
		return nil, r.To, true, true
	case KindClosed:
		return r.From, r.To, true, true
	case KindClosedOpen:
		return r.From, r.To, true, false
	case KindOpen:
		return r.From, r.To, false, false
	case KindOpenClosed:
		return r.From, r.To, false, true
	case KindGreaterThan:
		return r.From, nil, false, true
	case KindLessThan:
		return nil, r.To, true, false
	default:
		return nil, nil, true, true
	}
}
