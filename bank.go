package internlist

const bankSlabSize = 1 << 9

// bank is a slab-allocated vector. It backs the intern pool: the pool only
// ever appends until a Cleanup compacts it, and slabs mean growth never
// copies or re-zeroes the values already stored, which matters once the pool
// is large.
type bank[T any] struct {
	slabs [][]T
	n     int
}

func (b *bank[T]) len() int { return b.n }

func (b *bank[T]) append(v T) {
	slabNo := b.n / bankSlabSize
	slabOffset := b.n % bankSlabSize

	for len(b.slabs) <= slabNo {
		b.slabs = append(b.slabs, make([]T, bankSlabSize))
	}

	b.slabs[slabNo][slabOffset] = v
	b.n++
}

func (b *bank[T]) at(i int) T {
	return b.slabs[i/bankSlabSize][i%bankSlabSize]
}

func (b *bank[T]) setAt(i int, v T) {
	b.slabs[i/bankSlabSize][i%bankSlabSize] = v
}

// truncate shortens the bank to n entries, zeroing the dropped tail so the
// values it held can be collected. Slabs are kept for reuse.
func (b *bank[T]) truncate(n int) {
	var zero T
	for i := n; i < b.n; i++ {
		b.setAt(i, zero)
	}
	b.n = n
}

func (b *bank[T]) clear() {
	b.truncate(0)
}
