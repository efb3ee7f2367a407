package internlist

// ReclaimDecision is returned by a ReclaimFunc to say what the list should
// do about the newly unreferenced value.
type ReclaimDecision int

const (
	// DoNothing leaves the value in the reclaimable table. Its pool slot is
	// reused if the value is re-added, and released by the next Cleanup.
	DoNothing ReclaimDecision = iota
	// CompactNow asks the list to run Cleanup as soon as the mutation that
	// dropped the refcount has completed.
	CompactNow
)

// ReclaimFunc is called synchronously, inside the mutating call, whenever a
// value's reference count reaches zero. It is not called by Clear, and never
// after cutover. The callback must not mutate the list: doing so panics with
// ErrReentrantCall.
type ReclaimFunc func(Stats) ReclaimDecision

// Option configures a List at construction time.
type Option[T comparable] func(*List[T])

// WithCapacity sizes the list for an expected element count up front.
func WithCapacity[T comparable](n int) Option[T] {
	return func(l *List[T]) {
		if n < 0 {
			panic("internlist: negative capacity")
		}
		l.capHint = n
	}
}

// WithComparer interns values using cmp's hash and equality instead of ==.
// Both functions must be set.
func WithComparer[T comparable](cmp Comparer[T]) Option[T] {
	return func(l *List[T]) {
		if cmp.Hash == nil || cmp.Equal == nil {
			panic("internlist: comparer needs both Hash and Equal")
		}
		l.cmp = &cmp
	}
}

// WithCutover installs the predicate that decides when to abandon
// deduplication. The default is NeverCutover.
func WithCutover[T comparable](p CutoverPredicate) Option[T] {
	return func(l *List[T]) {
		if p == nil {
			panic("internlist: nil cutover predicate")
		}
		l.predicate = p
	}
}

// WithReclaimFunc installs the callback fired when a value's reference count
// reaches zero.
func WithReclaimFunc[T comparable](f ReclaimFunc) Option[T] {
	return func(l *List[T]) {
		l.reclaim = f
	}
}
