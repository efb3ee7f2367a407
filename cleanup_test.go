package internlist

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanupNothingToDo(t *testing.T) {
	l := New[int]()
	removed, err := l.Cleanup()
	assert.NoError(t, err)
	assert.Equal(t, 0, removed)

	l.Add(1)
	l.Add(2)
	removed, err = l.Cleanup()
	assert.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestCleanupIdempotent(t *testing.T) {
	l := New[int]()
	for i := 0; i < 30; i++ {
		l.Add(i % 3)
	}
	l.Remove(1)
	for l.Remove(1) {
	}
	assert.Equal(t, 1, l.ReclaimableCount())

	removed, err := l.Cleanup()
	assert.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = l.Cleanup()
	assert.NoError(t, err)
	assert.Equal(t, 0, removed)
	assertInvariants(t, l)
}

func TestCleanupRoundTrip(t *testing.T) {
	l := New[string]()
	words := []string{"red", "green", "blue", "red", "green", "red", "cyan"}
	for _, w := range words {
		l.Add(w)
	}
	l.Remove("cyan")
	l.Remove("blue")

	before := slices.Collect(l.Values())
	removed, err := l.Cleanup()
	assert.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, before, slices.Collect(l.Values()))
	assertInvariants(t, l)
}

// Cleanup is the one place the index narrows: dropping below a width
// boundary reallocates the narrower representation in the same pass.
func TestCleanupNarrowsIndex(t *testing.T) {
	l := New[int]()
	for i := 0; i < 300; i++ {
		l.Add(i)
	}
	assert.Equal(t, Index2Byte, l.IndexType())

	for i := l.Len() - 1; i >= 2; i-- {
		l.RemoveAt(i)
	}
	assert.Equal(t, Index2Byte, l.IndexType(), "no narrowing before Cleanup")
	assert.Equal(t, 300, l.InternPoolCount())

	removed, err := l.Cleanup()
	assert.NoError(t, err)
	assert.Equal(t, 298, removed)
	assert.Equal(t, Index1Bit, l.IndexType())
	assert.Equal(t, 2, l.InternPoolCount())
	assert.Equal(t, []int{0, 1}, slices.Collect(l.Values()))
	assertInvariants(t, l)

	l.RemoveAt(1)
	_, err = l.Cleanup()
	assert.NoError(t, err)
	assert.Equal(t, Index0Bit, l.IndexType())
	assert.Equal(t, []int{0}, slices.Collect(l.Values()))
}

// Offsets surviving a compaction must be renumbered consistently everywhere:
// reads, membership and further mutation all keep working.
func TestCleanupRenumbering(t *testing.T) {
	l := New[int]()
	for i := 0; i < 20; i++ {
		l.Add(i)
		l.Add(i)
	}
	// Remove both copies of the even values.
	for v := 0; v < 20; v += 2 {
		l.Remove(v)
		l.Remove(v)
	}
	removed, err := l.Cleanup()
	assert.NoError(t, err)
	assert.Equal(t, 10, removed)
	assert.Equal(t, 10, l.UniqueCount())
	assert.Equal(t, 10, l.InternPoolCount())
	assertInvariants(t, l)

	for v := 1; v < 20; v += 2 {
		assert.True(t, l.Contains(v), "value %d", v)
		assert.Equal(t, v, l.Get(l.IndexOf(v)))
	}

	// Interning still lines up after renumbering.
	l.Add(1)
	l.Add(100)
	assert.Equal(t, 11, l.UniqueCount())
	assertInvariants(t, l)
}

func TestCleanupCorruptionCheck(t *testing.T) {
	l := New[int]()
	l.Add(1)
	l.Add(2)
	l.Remove(1)
	// Sabotage: shrink the pool behind the bookkeeping's back, as a second
	// unsynchronized writer might.
	l.pool.truncate(0)
	assert.PanicsWithError(t, "internlist: corrupt: intern pool size 0 is below active table size 1", func() {
		l.Cleanup()
	})
}
