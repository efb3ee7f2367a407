package internlist

import "math/bits"

// bitvec is a resizable sequence of single-bit booleans packed into 64-bit
// words. It backs the 1-bit offset index, so as well as the usual get/set and
// append it supports insert and remove at arbitrary positions by shifting
// the tail of the vector. That shift is O(words after the position), which is
// fine here: the 1-bit index is only in use while the list holds exactly two
// distinct values.
type bitvec struct {
	words []uint64
	n     int
}

func (bv *bitvec) len() int { return bv.n }

func (bv *bitvec) get(i int) bool {
	bv.check(i)
	return bv.words[i>>6]&(1<<(uint(i)&63)) != 0
}

func (bv *bitvec) set(i int, v bool) {
	bv.check(i)
	if v {
		bv.words[i>>6] |= 1 << (uint(i) & 63)
	} else {
		bv.words[i>>6] &^= 1 << (uint(i) & 63)
	}
}

func (bv *bitvec) append(v bool) {
	bv.grow()
	bv.n++
	bv.set(bv.n-1, v)
}

// insert places v at position i, shifting everything from i onwards up by
// one. i == len is an append.
func (bv *bitvec) insert(i int, v bool) {
	if i == bv.n {
		bv.append(v)
		return
	}
	bv.check(i)
	bv.grow()
	bv.n++

	word := i >> 6
	last := (bv.n - 1) >> 6
	// Shift whole words above the insertion word up by one bit, carrying the
	// top bit of each word into the bottom of the next.
	for w := last; w > word; w-- {
		bv.words[w] = bv.words[w]<<1 | bv.words[w-1]>>63
	}
	// Within the insertion word only bits at and above position i move.
	bit := uint(i) & 63
	low := bv.words[word] & (1<<bit - 1)
	high := bv.words[word] &^ (1<<bit - 1)
	bv.words[word] = high<<1 | low
	bv.set(i, v)
}

// removeAt deletes the bit at position i, shifting everything above it down
// by one, and returns the removed value.
func (bv *bitvec) removeAt(i int) bool {
	bv.check(i)
	v := bv.get(i)

	word := i >> 6
	last := (bv.n - 1) >> 6
	bit := uint(i) & 63
	low := bv.words[word] & (1<<bit - 1)
	high := bv.words[word] &^ (1<<(bit+1) - 1)
	bv.words[word] = high>>1 | low
	// Carry the bottom bit of each higher word down into the top of the word
	// below it.
	for w := word + 1; w <= last; w++ {
		bv.words[w-1] |= bv.words[w] << 63
		bv.words[w] >>= 1
	}
	bv.n--
	return v
}

// indexOf returns the position of the first bit equal to v, or -1. Scans a
// word at a time using trailing-zero counts rather than testing bits one by
// one.
func (bv *bitvec) indexOf(v bool) int {
	for w := 0; w*64 < bv.n; w++ {
		word := bv.words[w]
		if !v {
			word = ^word
		}
		if word == 0 {
			continue
		}
		i := w*64 + bits.TrailingZeros64(word)
		if i >= bv.n {
			return -1
		}
		return i
	}
	return -1
}

func (bv *bitvec) clear() {
	bv.words = bv.words[:0]
	bv.n = 0
}

// grow makes room for one more bit, growing the backing array by ~1.25x when
// it is full.
func (bv *bitvec) grow() {
	need := (bv.n + 1 + 63) >> 6
	if need <= len(bv.words) {
		return
	}
	if need <= cap(bv.words) {
		bv.words = bv.words[:need]
		return
	}
	newCap := cap(bv.words) + cap(bv.words)/4
	if newCap < need {
		newCap = need
	}
	words := make([]uint64, need, newCap)
	copy(words, bv.words)
	bv.words = words
}

func (bv *bitvec) check(i int) {
	if i < 0 || i >= bv.n {
		panic("internlist: bitvec index out of range")
	}
}
