package internlist

import "github.com/cockroachdb/swiss"

// occupancy maps distinct values to their intern-pool offsets. The list
// keeps two of these: one for live values and one for reclaimable values
// (refcount zero, pool slot not yet compacted away). Refcounts themselves
// live in a slice parallel to the pool, not here.
type occupancy[T comparable] interface {
	get(v T) (off int32, ok bool)
	put(v T, off int32)
	delete(v T)
	len() int
	all(yield func(v T, off int32) bool)
	clear()
}

// swissTable is the default occupancy table, used when values are compared
// with ==.
type swissTable[T comparable] struct {
	m *swiss.Map[T, int32]
}

func newSwissTable[T comparable](capHint int) *swissTable[T] {
	return &swissTable[T]{m: swiss.New[T, int32](capHint)}
}

func (t *swissTable[T]) get(v T) (int32, bool) { return t.m.Get(v) }
func (t *swissTable[T]) put(v T, off int32)    { t.m.Put(v, off) }
func (t *swissTable[T]) delete(v T)            { t.m.Delete(v) }
func (t *swissTable[T]) len() int              { return t.m.Len() }

func (t *swissTable[T]) all(yield func(v T, off int32) bool) {
	t.m.All(yield)
}

func (t *swissTable[T]) clear() {
	// swiss.Map has no reset operation, so clearing drops the table's
	// capacity along with its contents.
	t.m = swiss.New[T, int32](0)
}

// Comparer supplies hashing and equality for values that should not be
// compared with ==, for example to intern case-insensitively. Hash must be
// consistent with Equal: equal values must hash alike.
type Comparer[T any] struct {
	Hash  func(T) uint64
	Equal func(T, T) bool
}

// chainTable is the occupancy table used with a custom Comparer. Values
// sharing a hash sit in a chain searched with the comparer's Equal.
type chainTable[T comparable] struct {
	cmp    Comparer[T]
	chains map[uint64][]chainEntry[T]
	n      int
}

type chainEntry[T comparable] struct {
	v   T
	off int32
}

func newChainTable[T comparable](cmp Comparer[T], capHint int) *chainTable[T] {
	return &chainTable[T]{
		cmp:    cmp,
		chains: make(map[uint64][]chainEntry[T], capHint),
	}
}

func (t *chainTable[T]) get(v T) (int32, bool) {
	for _, e := range t.chains[t.cmp.Hash(v)] {
		if t.cmp.Equal(e.v, v) {
			return e.off, true
		}
	}
	return 0, false
}

func (t *chainTable[T]) put(v T, off int32) {
	h := t.cmp.Hash(v)
	chain := t.chains[h]
	for i, e := range chain {
		if t.cmp.Equal(e.v, v) {
			chain[i].off = off
			return
		}
	}
	t.chains[h] = append(chain, chainEntry[T]{v: v, off: off})
	t.n++
}

func (t *chainTable[T]) delete(v T) {
	h := t.cmp.Hash(v)
	chain := t.chains[h]
	for i, e := range chain {
		if t.cmp.Equal(e.v, v) {
			chain[i] = chain[len(chain)-1]
			chain = chain[:len(chain)-1]
			if len(chain) == 0 {
				delete(t.chains, h)
			} else {
				t.chains[h] = chain
			}
			t.n--
			return
		}
	}
}

func (t *chainTable[T]) len() int { return t.n }

func (t *chainTable[T]) all(yield func(v T, off int32) bool) {
	for _, chain := range t.chains {
		for _, e := range chain {
			if !yield(e.v, e.off) {
				return
			}
		}
	}
}

func (t *chainTable[T]) clear() {
	t.chains = make(map[uint64][]chainEntry[T])
	t.n = 0
}
