package internlist

// IndexType identifies which representation of the offset index is active.
// The index stores one entry per logical position, each entry being the
// intern-pool offset of that position's value. The representation is chosen
// by how many distinct offsets it must be able to address, from a degenerate
// zero-bit form (every entry is implicitly offset 0) up to four bytes per
// entry. Widening happens automatically as distinct values are added;
// narrowing only ever happens inside Cleanup.
type IndexType uint8

const (
	// IndexNone means the list has cut over and no offset index exists.
	IndexNone IndexType = iota
	// Index0Bit stores nothing per entry. Valid while the pool holds at most
	// one distinct value.
	Index0Bit
	// Index1Bit stores one bit per entry. Valid for exactly two distinct
	// values.
	Index1Bit
	// Index1Byte addresses up to 256 distinct values.
	Index1Byte
	// Index2Byte addresses up to 65536 distinct values.
	Index2Byte
	// Index4Byte addresses up to 2^31 distinct values.
	Index4Byte
)

func (t IndexType) String() string {
	switch t {
	case IndexNone:
		return "none"
	case Index0Bit:
		return "0-bit"
	case Index1Bit:
		return "1-bit"
	case Index1Byte:
		return "1-byte"
	case Index2Byte:
		return "2-byte"
	case Index4Byte:
		return "4-byte"
	}
	return "unknown"
}

// maxUniques returns how many distinct pool offsets this index width can
// address.
func (t IndexType) maxUniques() int {
	switch t {
	case Index0Bit:
		return 1
	case Index1Bit:
		return 2
	case Index1Byte:
		return 1 << 8
	case Index2Byte:
		return 1 << 16
	case Index4Byte:
		return 1 << 31
	}
	return 0
}

// widthFor returns the narrowest index type able to address unique distinct
// offsets.
func widthFor(unique int) IndexType {
	switch {
	case unique <= 1:
		return Index0Bit
	case unique <= 2:
		return Index1Bit
	case unique <= 1<<8:
		return Index1Byte
	case unique <= 1<<16:
		return Index2Byte
	default:
		return Index4Byte
	}
}

// offsetIndex is the ordered sequence of pool offsets, one per logical
// position. Implementations differ only in storage width.
type offsetIndex interface {
	typ() IndexType
	len() int
	at(i int) int32
	setAt(i int, off int32)
	append(off int32)
	insert(i int, off int32)
	// removeAt deletes position i and returns the offset that was stored
	// there.
	removeAt(i int) int32
	clear()
}

func newIndex(t IndexType, capHint int) offsetIndex {
	switch t {
	case Index0Bit:
		return &zeroIndex{}
	case Index1Bit:
		return &bitIndex{}
	case Index1Byte:
		return &intIndex[uint8]{offs: make([]uint8, 0, capHint)}
	case Index2Byte:
		return &intIndex[uint16]{offs: make([]uint16, 0, capHint)}
	case Index4Byte:
		return &intIndex[uint32]{offs: make([]uint32, 0, capHint)}
	}
	corrupt("no index representation for %s", t)
	return nil
}

// copyIndex copies every entry of src into a fresh index of type t,
// translating offsets through translate as it goes. A nil translate copies
// offsets unchanged. Used when widening and, with a translation table, when
// Cleanup renumbers the pool.
func copyIndex(t IndexType, src offsetIndex, translate []int32) offsetIndex {
	n := src.len()
	dst := newIndex(t, n)
	for i := 0; i < n; i++ {
		off := src.at(i)
		if translate != nil {
			off = translate[off]
			if off < 0 {
				corrupt("offset index references removed pool slot %d", src.at(i))
			}
		}
		dst.append(off)
	}
	return dst
}

// zeroIndex is the degenerate index used while the pool holds at most one
// distinct value. Every entry is implicitly offset zero, so it stores only a
// count.
type zeroIndex struct {
	n int
}

func (z *zeroIndex) typ() IndexType { return Index0Bit }
func (z *zeroIndex) len() int       { return z.n }

func (z *zeroIndex) at(i int) int32 {
	z.check(i)
	return 0
}

func (z *zeroIndex) setAt(i int, off int32) {
	z.check(i)
	z.checkOff(off)
}

func (z *zeroIndex) append(off int32) {
	z.checkOff(off)
	z.n++
}

func (z *zeroIndex) insert(i int, off int32) {
	if i != z.n {
		z.check(i)
	}
	z.checkOff(off)
	z.n++
}

func (z *zeroIndex) removeAt(i int) int32 {
	z.check(i)
	z.n--
	return 0
}

func (z *zeroIndex) clear() { z.n = 0 }

func (z *zeroIndex) check(i int) {
	if i < 0 || i >= z.n {
		panic("internlist: index out of range")
	}
}

func (z *zeroIndex) checkOff(off int32) {
	if off != 0 {
		corrupt("offset %d stored in 0-bit index", off)
	}
}

// bitIndex stores one bit per entry, backed by bitvec. Valid while the pool
// holds exactly two distinct values (offsets 0 and 1).
type bitIndex struct {
	bv bitvec
}

func (b *bitIndex) typ() IndexType { return Index1Bit }
func (b *bitIndex) len() int       { return b.bv.len() }

func (b *bitIndex) at(i int) int32 {
	if b.bv.get(i) {
		return 1
	}
	return 0
}

func (b *bitIndex) setAt(i int, off int32) { b.bv.set(i, b.bit(off)) }
func (b *bitIndex) append(off int32)       { b.bv.append(b.bit(off)) }

func (b *bitIndex) insert(i int, off int32) {
	b.bv.insert(i, b.bit(off))
}

func (b *bitIndex) removeAt(i int) int32 {
	if b.bv.removeAt(i) {
		return 1
	}
	return 0
}

func (b *bitIndex) clear() { b.bv.clear() }

func (b *bitIndex) bit(off int32) bool {
	if off != 0 && off != 1 {
		corrupt("offset %d stored in 1-bit index", off)
	}
	return off == 1
}

// intIndex is the fixed-width integer index covering the 1, 2 and 4 byte
// representations.
type intIndex[U uint8 | uint16 | uint32] struct {
	offs []U
}

func (x *intIndex[U]) typ() IndexType {
	switch any(U(0)).(type) {
	case uint8:
		return Index1Byte
	case uint16:
		return Index2Byte
	default:
		return Index4Byte
	}
}

func (x *intIndex[U]) len() int             { return len(x.offs) }
func (x *intIndex[U]) at(i int) int32       { return int32(x.offs[i]) }
func (x *intIndex[U]) setAt(i int, o int32) { x.offs[i] = U(o) }
func (x *intIndex[U]) append(o int32)       { x.offs = append(x.offs, U(o)) }

func (x *intIndex[U]) insert(i int, o int32) {
	x.offs = append(x.offs, 0)
	copy(x.offs[i+1:], x.offs[i:])
	x.offs[i] = U(o)
}

func (x *intIndex[U]) removeAt(i int) int32 {
	o := x.offs[i]
	copy(x.offs[i:], x.offs[i+1:])
	x.offs = x.offs[:len(x.offs)-1]
	return int32(o)
}

func (x *intIndex[U]) clear() { x.offs = x.offs[:0] }
