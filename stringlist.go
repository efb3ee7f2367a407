package internlist

import (
	"iter"
	"math/bits"

	"github.com/philpearl/aeshash"
	"github.com/philpearl/stringbank"
)

// StringList is List[string] with the intern pool's string data held in a
// stringbank. A List[string] keeps every distinct string as a normal Go
// string, which the GC has to trace forever; StringList copies each distinct
// string once into stringbank's big flat allocations, so a list with
// millions of distinct strings costs the GC almost nothing. The occupancy
// table is keyed by hash and compares through the bank, so it holds no
// string headers either.
//
// The contract is the same as List[string]: positional get/set,
// insert/remove, interning with refcounts, widening, cutover and Cleanup.
// Cleanup additionally rebuilds the bank so reclaimed string bytes really
// are released.
type StringList struct {
	sb   stringbank.Stringbank
	pool bank[int32] // pool offset -> stringbank offset
	refs []int32

	active stable
	// recl maps hash -> pool offsets of reclaimable strings.
	recl  map[uint32][]int32
	reclN int

	index offsetIndex

	plain []string
	cut   bool

	predicate CutoverPredicate
	reclaim   ReclaimFunc
	capHint   int
	inReclaim bool
}

// Our space costs per distinct string are the table entry, the refcount and
// the pool slot. With a load factor of 2 the table dominates.
const stringTableLoadFactor = 2

// StringOption configures a StringList at construction time.
type StringOption func(*StringList)

// WithStringCapacity sizes the list for an expected distinct-string count up
// front.
func WithStringCapacity(n int) StringOption {
	return func(l *StringList) {
		if n < 0 {
			panic("internlist: negative capacity")
		}
		l.capHint = n
	}
}

// WithStringCutover installs the cutover predicate. Default NeverCutover.
func WithStringCutover(p CutoverPredicate) StringOption {
	return func(l *StringList) {
		if p == nil {
			panic("internlist: nil cutover predicate")
		}
		l.predicate = p
	}
}

// WithStringReclaimFunc installs the zero-refcount callback. The same
// reentrancy rule as List applies.
func WithStringReclaimFunc(f ReclaimFunc) StringOption {
	return func(l *StringList) {
		l.reclaim = f
	}
}

// NewStringList creates an empty StringList.
func NewStringList(opts ...StringOption) *StringList {
	l := &StringList{
		predicate: NeverCutover,
		recl:      map[uint32][]int32{},
	}
	for _, o := range opts {
		o(l)
	}
	l.active = newStable(l.capHint)
	l.index = &zeroIndex{}
	return l
}

// stable is the occupancy table: open addressing with linear probing, keyed
// by string hash, entries pointing at pool offsets. Strings themselves stay
// in the bank; comparisons fetch them out as needed. Slots hold the pool
// offset + 1 so that zero means empty; -1 marks a deleted slot the probe
// must walk through.
type stable struct {
	hashes []uint32
	slots  []int32
	live   int
	used   int // occupied plus tombstones; drives growth
}

func newStable(capHint int) stable {
	n := capHint * stringTableLoadFactor
	if n < 16 {
		n = 16
	} else {
		n = 1 << uint(64-bits.LeadingZeros(uint(n-1)))
	}
	return stable{
		hashes: make([]uint32, n),
		slots:  make([]int32, n),
	}
}

func (t *stable) len() int { return len(t.hashes) }

// str fetches the pool slot's string out of the bank.
func (l *StringList) str(poolOff int32) string {
	return l.sb.Get(int(l.pool.at(int(poolOff))))
}

// findInTable looks val up in the active table. If present it returns its
// pool offset with found=true. Either way cursor is where an insert of val
// should go: the first tombstone seen, or the empty slot that ended the
// probe.
func (l *StringList) findInTable(val string, hash uint32) (cursor int, off int32, found bool) {
	t := &l.active
	mask := t.len() - 1
	cursor = int(hash) & mask
	start := cursor
	insertAt := -1
	for t.slots[cursor] != 0 {
		if t.slots[cursor] == -1 {
			if insertAt == -1 {
				insertAt = cursor
			}
		} else if t.hashes[cursor] == hash {
			if off := t.slots[cursor] - 1; l.str(off) == val {
				return cursor, off, true
			}
		}
		cursor = (cursor + 1) & mask
		if cursor == start {
			corrupt("active table full during probe")
		}
	}
	if insertAt != -1 {
		return insertAt, 0, false
	}
	return cursor, 0, false
}

// putActive stores val's pool offset at cursor, as located by findInTable.
func (l *StringList) putActive(cursor int, hash uint32, off int32) {
	t := &l.active
	if t.slots[cursor] == 0 {
		t.used++
	}
	t.hashes[cursor] = hash
	t.slots[cursor] = off + 1
	t.live++
	if t.used*stringTableLoadFactor >= t.len() {
		l.growTable()
	}
}

func (l *StringList) deleteActive(val string, hash uint32) int32 {
	cursor, off, found := l.findInTable(val, hash)
	if !found {
		corrupt("string for pool slot is not in the active table")
	}
	l.active.slots[cursor] = -1
	l.active.live--
	return off
}

// growTable rehashes every live entry into a table big enough that the dead
// slots accumulated by deletions stop costing probe time. The entries being
// copied are guaranteed distinct, so the copy loop only looks for an empty
// slot.
func (l *StringList) growTable() {
	old := l.active
	n := old.len()
	if old.live*stringTableLoadFactor*2 > n {
		n *= 2
	}
	l.active = stable{
		hashes: make([]uint32, n),
		slots:  make([]int32, n),
		live:   old.live,
		used:   old.live,
	}
	mask := n - 1
	for i, slot := range old.slots {
		if slot <= 0 {
			continue
		}
		hash := old.hashes[i]
		cursor := int(hash) & mask
		start := cursor
		for l.active.slots[cursor] != 0 {
			cursor = (cursor + 1) & mask
			if cursor == start {
				corrupt("active table full during rehash")
			}
		}
		l.active.hashes[cursor] = hash
		l.active.slots[cursor] = slot
	}
}

// Len returns the number of logical positions in the list.
func (l *StringList) Len() int {
	if l.cut {
		return len(l.plain)
	}
	return l.index.len()
}

// Get returns the string at position i.
func (l *StringList) Get(i int) string {
	l.checkPos(i)
	if l.cut {
		return l.plain[i]
	}
	return l.str(l.index.at(i))
}

// Set replaces the string at position i, dropping the old value's reference
// first.
func (l *StringList) Set(i int, val string) {
	l.mutating()
	l.checkPos(i)
	if l.cut {
		l.plain[i] = val
		return
	}
	compact := l.decRef(l.index.at(i))
	off, ok := l.intern(val)
	if ok {
		l.index.setAt(i, off)
	} else {
		l.plain[i] = val
	}
	if compact {
		l.Cleanup()
	}
}

// Add appends val to the list.
func (l *StringList) Add(val string) {
	l.mutating()
	if l.cut {
		l.plain = append(l.plain, val)
		return
	}
	if off, ok := l.intern(val); ok {
		l.index.append(off)
	} else {
		l.plain = append(l.plain, val)
	}
}

// Insert places val at position i, shifting later values up. i may equal
// Len().
func (l *StringList) Insert(i int, val string) {
	l.mutating()
	if i < 0 || i > l.Len() {
		panic("internlist: index out of range")
	}
	if l.cut {
		l.plain = append(l.plain, val)
		copy(l.plain[i+1:], l.plain[i:])
		l.plain[i] = val
		return
	}
	if off, ok := l.intern(val); ok {
		l.index.insert(i, off)
	} else {
		l.plain = append(l.plain, val)
		copy(l.plain[i+1:], l.plain[i:])
		l.plain[i] = val
	}
}

// RemoveAt deletes position i and returns the string that was there.
func (l *StringList) RemoveAt(i int) string {
	l.mutating()
	l.checkPos(i)
	if l.cut {
		v := l.plain[i]
		copy(l.plain[i:], l.plain[i+1:])
		l.plain[len(l.plain)-1] = ""
		l.plain = l.plain[:len(l.plain)-1]
		return v
	}
	off := l.index.removeAt(i)
	v := l.str(off)
	if l.decRef(off) {
		l.Cleanup()
	}
	return v
}

// Remove deletes the first occurrence of val, reporting whether one was
// found.
func (l *StringList) Remove(val string) bool {
	l.mutating()
	if l.cut {
		for i, got := range l.plain {
			if got == val {
				copy(l.plain[i:], l.plain[i+1:])
				l.plain[len(l.plain)-1] = ""
				l.plain = l.plain[:len(l.plain)-1]
				return true
			}
		}
		return false
	}
	i := l.IndexOf(val)
	if i < 0 {
		return false
	}
	off := l.index.removeAt(i)
	if l.decRef(off) {
		l.Cleanup()
	}
	return true
}

// Contains reports whether val is currently in the list.
func (l *StringList) Contains(val string) bool {
	if l.cut {
		for _, got := range l.plain {
			if got == val {
				return true
			}
		}
		return false
	}
	_, off, found := l.findInTable(val, aeshash.Hash(val))
	return found && l.refs[off] > 0
}

// IndexOf returns the position of the first occurrence of val, or -1.
func (l *StringList) IndexOf(val string) int {
	if l.cut {
		for i, got := range l.plain {
			if got == val {
				return i
			}
		}
		return -1
	}
	_, off, found := l.findInTable(val, aeshash.Hash(val))
	if !found {
		return -1
	}
	n := l.index.len()
	for i := 0; i < n; i++ {
		if l.index.at(i) == off {
			return i
		}
	}
	corrupt("live string for pool slot %d not present in offset index", off)
	return -1
}

// Clear empties the list. Reclaim callbacks are not fired; a cut-over list
// stays cut over.
func (l *StringList) Clear() {
	l.mutating()
	if l.cut {
		clear(l.plain)
		l.plain = l.plain[:0]
		return
	}
	l.sb = stringbank.Stringbank{}
	l.pool.clear()
	l.refs = l.refs[:0]
	clear(l.active.hashes)
	clear(l.active.slots)
	l.active.live = 0
	l.active.used = 0
	clear(l.recl)
	l.reclN = 0
	l.index.clear()
}

// All returns an iterator over (position, value) pairs in logical order.
func (l *StringList) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
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
			if !yield(i, l.str(l.index.at(i))) {
				return
			}
		}
	}
}

// Values returns an iterator over the strings in logical order.
func (l *StringList) Values() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, v := range l.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Uniques returns an iterator over (value, refcount) pairs for every
// distinct live string, in no particular order. Empty after cutover.
func (l *StringList) Uniques() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		if l.cut {
			return
		}
		for _, slot := range l.active.slots {
			if slot <= 0 {
				continue
			}
			off := slot - 1
			if !yield(l.str(off), int(l.refs[off])) {
				return
			}
		}
	}
}

// UniqueCount returns the number of distinct live strings, or -1 after
// cutover.
func (l *StringList) UniqueCount() int {
	if l.cut {
		return -1
	}
	return l.active.live
}

// InternPoolCount returns the number of pool slots in use, or -1 after
// cutover.
func (l *StringList) InternPoolCount() int {
	if l.cut {
		return -1
	}
	return l.pool.len()
}

// ReclaimableCount returns the number of pool slots waiting for Cleanup, or
// -1 after cutover.
func (l *StringList) ReclaimableCount() int {
	if l.cut {
		return -1
	}
	return l.reclN
}

// IndexType returns the width of the active offset index, or IndexNone
// after cutover.
func (l *StringList) IndexType() IndexType {
	if l.cut {
		return IndexNone
	}
	return l.index.typ()
}

// HasCutover reports whether this list has permanently abandoned
// deduplication.
func (l *StringList) HasCutover() bool { return l.cut }

// Stats returns a snapshot of the list's population.
func (l *StringList) Stats() Stats {
	return Stats{
		Count:           l.Len(),
		UniqueCount:     l.UniqueCount(),
		InternPoolCount: l.InternPoolCount(),
	}
}

// SymbolSize is the approximate size of string storage in the bank,
// including as yet unused and wasted space.
func (l *StringList) SymbolSize() int {
	if l.cut {
		return -1
	}
	return l.sb.Size()
}

func (l *StringList) intern(val string) (off int32, ok bool) {
	hash := aeshash.Hash(val)

	// One probe serves all three outcomes: nothing below touches the table
	// until putActive, so the insertion cursor stays valid.
	cursor, off, found := l.findInTable(val, hash)
	if found {
		l.refs[off]++
		return off, true
	}
	if off, found := l.takeReclaimable(val, hash); found {
		l.putActive(cursor, hash, off)
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
	l.pool.append(int32(l.sb.Save(val)))
	l.refs = append(l.refs, 1)
	l.putActive(cursor, hash, off)
	return off, true
}

// takeReclaimable removes val from the reclaimable table if present,
// returning its pool offset so the slot can be reused.
func (l *StringList) takeReclaimable(val string, hash uint32) (int32, bool) {
	chain := l.recl[hash]
	for i, off := range chain {
		if l.str(off) != val {
			continue
		}
		chain[i] = chain[len(chain)-1]
		chain = chain[:len(chain)-1]
		if len(chain) == 0 {
			delete(l.recl, hash)
		} else {
			l.recl[hash] = chain
		}
		l.reclN--
		return off, true
	}
	return 0, false
}

func (l *StringList) cutoverNow() {
	n := l.index.len()
	plain := make([]string, 0, n)
	for i := 0; i < n; i++ {
		plain = append(plain, l.str(l.index.at(i)))
	}
	l.plain = plain
	l.cut = true
	l.sb = stringbank.Stringbank{}
	l.pool = bank[int32]{}
	l.refs = nil
	l.active = stable{}
	l.recl = nil
	l.reclN = 0
	l.index = nil
}

func (l *StringList) decRef(off int32) (compact bool) {
	l.refs[off]--
	if l.refs[off] < 0 {
		corrupt("refcount for pool slot %d went negative", off)
	}
	if l.refs[off] > 0 {
		return false
	}
	val := l.str(off)
	hash := aeshash.Hash(val)
	l.deleteActive(val, hash)
	l.recl[hash] = append(l.recl[hash], off)
	l.reclN++
	if l.reclaim == nil {
		return false
	}
	l.inReclaim = true
	defer func() { l.inReclaim = false }()
	return l.reclaim(l.Stats()) == CompactNow
}

// Cleanup compacts the intern pool and rebuilds the bank so that reclaimed
// string bytes are released, renumbering and possibly narrowing the offset
// index. Returns the number of pool slots released, or ErrCutOver once the
// list has cut over.
func (l *StringList) Cleanup() (removed int, err error) {
	l.mutating()
	if l.cut {
		return 0, ErrCutOver
	}
	if l.reclN == 0 {
		return 0, nil
	}
	if l.pool.len() < l.active.live {
		corrupt("intern pool size %d is below active table size %d", l.pool.len(), l.active.live)
	}

	dead := make([]bool, l.pool.len())
	for _, chain := range l.recl {
		for _, off := range chain {
			dead[off] = true
		}
	}

	translate := make([]int32, l.pool.len())
	next := 0
	for old := 0; old < l.pool.len(); old++ {
		if dead[old] {
			translate[old] = -1
			removed++
			continue
		}
		translate[old] = int32(next)
		if next != old {
			l.pool.setAt(next, l.pool.at(old))
			l.refs[next] = l.refs[old]
		}
		next++
	}
	l.pool.truncate(next)
	l.refs = l.refs[:next]

	// Re-save the survivors into a fresh bank so the dead strings' bytes can
	// actually be collected.
	var sb stringbank.Stringbank
	for i := 0; i < next; i++ {
		l.pool.setAt(i, int32(sb.Save(l.sb.Get(int(l.pool.at(i))))))
	}
	l.sb = sb

	// The table is keyed by hash, so offsets can be rewritten in place.
	for i, slot := range l.active.slots {
		if slot <= 0 {
			continue
		}
		off := translate[slot-1]
		if off < 0 {
			corrupt("active string maps to removed pool slot %d", slot-1)
		}
		l.active.slots[i] = off + 1
	}

	if t := widthFor(next); t < l.index.typ() {
		l.index = copyIndex(t, l.index, translate)
	} else {
		n := l.index.len()
		for i := 0; i < n; i++ {
			off := translate[l.index.at(i)]
			if off < 0 {
				corrupt("offset index references removed pool slot %d", l.index.at(i))
			}
			l.index.setAt(i, off)
		}
	}

	clear(l.recl)
	l.reclN = 0
	return removed, nil
}

func (l *StringList) mutating() {
	if l.inReclaim {
		panic(ErrReentrantCall)
	}
}

func (l *StringList) checkPos(i int) {
	if i < 0 || i >= l.Len() {
		panic("internlist: index out of range")
	}
}
