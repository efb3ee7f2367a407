package internlist

// Stats is a snapshot of the list's population, as passed to cutover
// predicates and reclaim callbacks.
type Stats struct {
	// Count is the logical length of the list.
	Count int
	// UniqueCount is the number of distinct live values.
	UniqueCount int
	// InternPoolCount is the number of pool slots in use, live plus
	// reclaimable.
	InternPoolCount int
}

// ReclaimableCount is the number of pool slots whose value is no longer
// referenced but has not yet been compacted away.
func (s Stats) ReclaimableCount() int {
	return s.InternPoolCount - s.UniqueCount
}

// CutoverPredicate decides whether deduplication is still worth the
// bookkeeping. It is consulted just before a new distinct value is admitted
// at an index-widening boundary, with the statistics as they stand before
// the admission. Returning true permanently abandons interning for that
// list: the logical sequence is materialized into a plain slice and every
// later operation uses plain list semantics. Predicates must be pure - they
// may be called at any widening checkpoint and must not touch the list.
type CutoverPredicate func(Stats) bool

// internOverheadBytes is the approximate bookkeeping cost of one distinct
// value: its pool slot, refcount and occupancy table entry. Measured rather
// than derived, and deliberately pessimistic.
const internOverheadBytes = 72

// NeverCutover keeps deduplicating no matter what. This is the default.
func NeverCutover(Stats) bool { return false }

// CutoverAboveUnique abandons deduplication once the list would hold more
// than n distinct values.
func CutoverAboveUnique(n int) CutoverPredicate {
	return func(s Stats) bool {
		return s.UniqueCount > n
	}
}

// CutoverOutsideWidth abandons deduplication as soon as admitting another
// distinct value would force the offset index beyond width t. Use this to
// cap the per-position cost: CutoverOutsideWidth(Index1Byte) guarantees the
// index never spends more than one byte per element.
func CutoverOutsideWidth(t IndexType) CutoverPredicate {
	limit := t.maxUniques()
	return func(s Stats) bool {
		return s.InternPoolCount+1 > limit
	}
}

// CutoverWhenUneconomic abandons deduplication when the per-unique
// bookkeeping overhead outweighs the bytes saved by storing repeats once.
// elemBytes is the in-memory size of one element; for strings, a typical
// payload length. The decision is only taken once the list is big enough
// for the ratio to be meaningful.
func CutoverWhenUneconomic(elemBytes int) CutoverPredicate {
	return func(s Stats) bool {
		if s.Count < 1024 {
			return false
		}
		saved := (s.Count - s.UniqueCount) * elemBytes
		spent := s.InternPoolCount * internOverheadBytes
		return saved < spent
	}
}
