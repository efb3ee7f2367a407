// Package internlist is a deduplicating list. It behaves like an ordered,
// mutable list of values, but each distinct value is stored once in an
// intern pool and the logical sequence is a list of small integer offsets
// into that pool. When a sequence repeats its values a lot - tags, enum-ish
// strings, status codes - this is much cheaper than storing every
// occurrence, and the offset index itself shrinks to as little as one bit
// per element.
//
// The index storage widens automatically as distinct values accumulate, and
// a cutover predicate can declare deduplication no longer worthwhile, at
// which point the list permanently falls back to plain slice storage.
// Removing the last occurrence of a value does not release its pool slot
// immediately; call Cleanup to compact the pool and renumber the index.
//
// A List is not safe for concurrent use. Any number of readers are fine
// while no writer is active; mutation needs external locking. The list
// detects the usual symptom of a broken locking discipline - bookkeeping
// that no longer adds up - and panics with a CorruptionError rather than
// limping on.
package internlist

import "iter"

// List is an ordered, mutable sequence of values that stores each distinct
// value once. The zero value is not usable: allocate with New or From.
type List[T comparable] struct {
	pool   bank[T]
	refs   []int32
	active occupancy[T]
	recl   occupancy[T]
	index  offsetIndex

	// plain holds the sequence after cutover; everything above is discarded.
	plain []T
	cut   bool

	cmp       *Comparer[T]
	predicate CutoverPredicate
	reclaim   ReclaimFunc
	capHint   int
	inReclaim bool
}

// New creates an empty List.
func New[T comparable](opts ...Option[T]) *List[T] {
	l := &List[T]{predicate: NeverCutover}
	for _, o := range opts {
		o(l)
	}
	if l.cmp != nil {
		l.active = newChainTable[T](*l.cmp, l.capHint)
		l.recl = newChainTable[T](*l.cmp, 0)
	} else {
		l.active = newSwissTable[T](l.capHint)
		l.recl = newSwissTable[T](0)
	}
	l.index = &zeroIndex{}
	return l
}

// From creates a List holding the values of src in order.
func From[T comparable](src iter.Seq[T], opts ...Option[T]) *List[T] {
	l := New(opts...)
	for v := range src {
		l.Add(v)
	}
	return l
}

// FromList creates a List holding src's values in order, inheriting src's
// comparer, cutover predicate and reclaim callback unless overridden by
// opts. Re-adding every element re-runs interning from scratch, so this is
// also the way to get a deduplicating list back from one that has cut over.
func FromList[T comparable](src *List[T], opts ...Option[T]) *List[T] {
	inherited := make([]Option[T], 0, len(opts)+3)
	if src.cmp != nil {
		inherited = append(inherited, WithComparer(*src.cmp))
	}
	inherited = append(inherited, WithCutover[T](src.predicate))
	if src.reclaim != nil {
		inherited = append(inherited, WithReclaimFunc[T](src.reclaim))
	}
	inherited = append(inherited, opts...)
	l := New(inherited...)
	for v := range src.Values() {
		l.Add(v)
	}
	return l
}

// Len returns the number of logical positions in the list.
func (l *List[T]) Len() int {
	if l.cut {
		return len(l.plain)
	}
	return l.index.len()
}

// Get returns the value at position i.
func (l *List[T]) Get(i int) T {
	l.checkPos(i)
	if l.cut {
		return l.plain[i]
	}
	return l.pool.at(int(l.index.at(i)))
}

// Set replaces the value at position i. The old value's reference count is
// dropped first (firing the reclaim callback if it hits zero), then v is
// interned and the position rewritten.
func (l *List[T]) Set(i int, v T) {
	l.mutating()
	l.checkPos(i)
	if l.cut {
		l.plain[i] = v
		return
	}
	compact := l.decRef(l.index.at(i))
	off, ok := l.intern(v)
	if ok {
		l.index.setAt(i, off)
	} else {
		// Interning was abandoned while admitting v; the materialized slice
		// still holds the old value at i.
		l.plain[i] = v
	}
	if compact {
		l.Cleanup()
	}
}

// Add appends v to the list.
func (l *List[T]) Add(v T) {
	l.mutating()
	if l.cut {
		l.plain = append(l.plain, v)
		return
	}
	if off, ok := l.intern(v); ok {
		l.index.append(off)
	} else {
		l.plain = append(l.plain, v)
	}
}

// Insert places v at position i, shifting later values up. i may equal
// Len(), which appends. Bounds are checked before any bookkeeping changes,
// so a bad position never disturbs reference counts.
func (l *List[T]) Insert(i int, v T) {
	l.mutating()
	if i < 0 || i > l.Len() {
		panic("internlist: index out of range")
	}
	if l.cut {
		l.plain = append(l.plain, v)
		copy(l.plain[i+1:], l.plain[i:])
		l.plain[i] = v
		return
	}
	if off, ok := l.intern(v); ok {
		l.index.insert(i, off)
	} else {
		l.plain = append(l.plain, v)
		copy(l.plain[i+1:], l.plain[i:])
		l.plain[i] = v
	}
}

// RemoveAt deletes position i and returns the value that was there.
func (l *List[T]) RemoveAt(i int) T {
	l.mutating()
	l.checkPos(i)
	if l.cut {
		v := l.plain[i]
		copy(l.plain[i:], l.plain[i+1:])
		var zero T
		l.plain[len(l.plain)-1] = zero
		l.plain = l.plain[:len(l.plain)-1]
		return v
	}
	off := l.index.removeAt(i)
	v := l.pool.at(int(off))
	if l.decRef(off) {
		l.Cleanup()
	}
	return v
}

// Remove deletes the first occurrence of v, reporting whether one was found.
func (l *List[T]) Remove(v T) bool {
	l.mutating()
	if l.cut {
		for i, got := range l.plain {
			if l.equal(got, v) {
				copy(l.plain[i:], l.plain[i+1:])
				var zero T
				l.plain[len(l.plain)-1] = zero
				l.plain = l.plain[:len(l.plain)-1]
				return true
			}
		}
		return false
	}
	i := l.IndexOf(v)
	if i < 0 {
		return false
	}
	off := l.index.removeAt(i)
	if l.decRef(off) {
		l.Cleanup()
	}
	return true
}

// Contains reports whether v is currently in the list. While the list is
// interning this is a single table lookup, not a scan.
func (l *List[T]) Contains(v T) bool {
	if l.cut {
		for _, got := range l.plain {
			if l.equal(got, v) {
				return true
			}
		}
		return false
	}
	off, ok := l.active.get(v)
	return ok && l.refs[off] > 0
}

// IndexOf returns the position of the first occurrence of v, or -1. Unlike
// Contains this walks the offset index, so it is O(Len); use Uniques for
// aggregate work that only needs per-distinct-value information.
func (l *List[T]) IndexOf(v T) int {
	if l.cut {
		for i, got := range l.plain {
			if l.equal(got, v) {
				return i
			}
		}
		return -1
	}
	off, ok := l.active.get(v)
	if !ok {
		return -1
	}
	n := l.index.len()
	for i := 0; i < n; i++ {
		if l.index.at(i) == off {
			return i
		}
	}
	corrupt("live value for pool slot %d not present in offset index", off)
	return -1
}

// Clear empties the list, keeping allocated capacity where it can. Reclaim
// callbacks are not fired. A cut-over list stays cut over.
func (l *List[T]) Clear() {
	l.mutating()
	if l.cut {
		clear(l.plain)
		l.plain = l.plain[:0]
		return
	}
	l.pool.clear()
	l.refs = l.refs[:0]
	l.active.clear()
	l.recl.clear()
	l.index.clear()
}

// All returns an iterator over (position, value) pairs in logical order. The
// sequence is lazy and can be ranged over more than once; the list must not
// be mutated while iterating.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if l.cut {
			for i, v := range l.plain {
				if !yield(i, v) {
					return
				}
			}
			return
		}
		n := l.index.len()
		for i := 0; i < n; i++ {
			if !yield(i, l.pool.at(int(l.index.at(i)))) {
				return
			}
		}
	}
}

// Values returns an iterator over the values in logical order.
func (l *List[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range l.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Uniques returns an iterator over (value, refcount) pairs for every
// distinct live value, in no particular order. This is the surface aggregate
// helpers should build on: it is O(UniqueCount), where anything going
// through the offset index is O(Len). Empty after cutover.
func (l *List[T]) Uniques() iter.Seq2[T, int] {
	return func(yield func(T, int) bool) {
		if l.cut {
			return
		}
		l.active.all(func(v T, off int32) bool {
			return yield(v, int(l.refs[off]))
		})
	}
}

// UniqueCount returns the number of distinct live values, or -1 after
// cutover.
func (l *List[T]) UniqueCount() int {
	if l.cut {
		return -1
	}
	return l.active.len()
}

// InternPoolCount returns the number of pool slots in use, live plus
// reclaimable, or -1 after cutover.
func (l *List[T]) InternPoolCount() int {
	if l.cut {
		return -1
	}
	return l.pool.len()
}

// ReclaimableCount returns the number of pool slots waiting for Cleanup, or
// -1 after cutover.
func (l *List[T]) ReclaimableCount() int {
	if l.cut {
		return -1
	}
	return l.recl.len()
}

// IndexType returns the width of the active offset index, or IndexNone
// after cutover.
func (l *List[T]) IndexType() IndexType {
	if l.cut {
		return IndexNone
	}
	return l.index.typ()
}

// HasCutover reports whether this list has permanently abandoned
// deduplication.
func (l *List[T]) HasCutover() bool { return l.cut }

// Stats returns a snapshot of the list's population. After cutover the
// unique and pool counts are -1.
func (l *List[T]) Stats() Stats {
	return Stats{
		Count:           l.Len(),
		UniqueCount:     l.UniqueCount(),
		InternPoolCount: l.InternPoolCount(),
	}
}

// intern resolves v to a pool offset with its reference counted, admitting
// it as a new distinct value if needed. Admission at a width boundary
// consults the cutover predicate first; if it fires, the list cuts over and
// intern reports ok=false.
func (l *List[T]) intern(v T) (off int32, ok bool) {
	if off, ok := l.active.get(v); ok {
		l.refs[off]++
		return off, true
	}
	if off, ok := l.recl.get(v); ok {
		// Resurrect: the pool slot is still there, reuse it.
		l.recl.delete(v)
		l.active.put(v, off)
		l.refs[off] = 1
		return off, true
	}

	poolCount := l.pool.len()
	if atWidthCheckpoint(poolCount) {
		if l.predicate(l.Stats()) {
			l.cutoverNow()
			return 0, false
		}
		if need := widthFor(poolCount + 1); need > l.index.typ() {
			l.index = copyIndex(need, l.index, nil)
		}
	}

	off = int32(poolCount)
	l.pool.append(v)
	l.refs = append(l.refs, 1)
	l.active.put(v, off)
	return off, true
}

// atWidthCheckpoint reports whether admitting one more distinct value on top
// of poolCount existing slots is a point where the index might need to widen
// and the cutover predicate gets a say: the 0-bit/1-bit/1-byte/2-byte/4-byte
// boundaries, then every 1000 new distinct values beyond the last one.
func atWidthCheckpoint(poolCount int) bool {
	switch poolCount {
	case 1, 2, 1 << 8, 1 << 16:
		return true
	}
	return poolCount > 1<<16 && (poolCount-1<<16)%1000 == 0
}

// cutoverNow materializes the logical sequence into a plain slice and
// discards all interning state. One-way.
func (l *List[T]) cutoverNow() {
	n := l.index.len()
	plain := make([]T, 0, n)
	for i := 0; i < n; i++ {
		plain = append(plain, l.pool.at(int(l.index.at(i))))
	}
	l.plain = plain
	l.cut = true
	l.pool = bank[T]{}
	l.refs = nil
	l.active = nil
	l.recl = nil
	l.index = nil
}

// decRef drops the reference count of the pool slot at off. On the
// transition to zero the value moves to the reclaimable table and the
// reclaim callback runs; decRef reports whether it asked for compaction,
// which the caller honours once its own bookkeeping is consistent again.
func (l *List[T]) decRef(off int32) (compact bool) {
	l.refs[off]--
	if l.refs[off] < 0 {
		corrupt("refcount for pool slot %d went negative", off)
	}
	if l.refs[off] > 0 {
		return false
	}
	v := l.pool.at(int(off))
	if _, ok := l.active.get(v); !ok {
		corrupt("pool slot %d dropped to zero refs but is not in the active table", off)
	}
	l.active.delete(v)
	l.recl.put(v, off)
	if l.reclaim == nil {
		return false
	}
	l.inReclaim = true
	defer func() { l.inReclaim = false }()
	return l.reclaim(l.Stats()) == CompactNow
}

// equal applies the configured comparer, or == when none was given. The
// cut-over scan paths use this so WithComparer keeps meaning the same thing
// on both sides of the transition.
func (l *List[T]) equal(a, b T) bool {
	if l.cmp != nil {
		return l.cmp.Equal(a, b)
	}
	return a == b
}

func (l *List[T]) mutating() {
	if l.inReclaim {
		panic(ErrReentrantCall)
	}
}

func (l *List[T]) checkPos(i int) {
	if i < 0 || i >= l.Len() {
		panic("internlist: index out of range")
	}
}
