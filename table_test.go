package internlist

import (
	"hash/maphash"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwissTable(t *testing.T) {
	tab := newSwissTable[string](0)
	_, ok := tab.get("a")
	assert.False(t, ok)

	tab.put("a", 0)
	tab.put("b", 1)
	off, ok := tab.get("b")
	assert.True(t, ok)
	assert.EqualValues(t, 1, off)
	assert.Equal(t, 2, tab.len())

	tab.delete("a")
	_, ok = tab.get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, tab.len())

	tab.clear()
	assert.Equal(t, 0, tab.len())
}

func foldSeed() maphash.Seed { return maphash.MakeSeed() }

func TestChainTableCaseInsensitive(t *testing.T) {
	seed := foldSeed()
	cmp := Comparer[string]{
		Hash:  func(s string) uint64 { return maphash.String(seed, strings.ToLower(s)) },
		Equal: strings.EqualFold,
	}
	tab := newChainTable(cmp, 0)

	tab.put("Hello", 0)
	off, ok := tab.get("HELLO")
	assert.True(t, ok)
	assert.EqualValues(t, 0, off)
	assert.Equal(t, 1, tab.len())

	// put with an equal key overwrites rather than duplicating.
	tab.put("hello", 7)
	off, _ = tab.get("Hello")
	assert.EqualValues(t, 7, off)
	assert.Equal(t, 1, tab.len())

	tab.delete("hellO")
	_, ok = tab.get("hello")
	assert.False(t, ok)
	assert.Equal(t, 0, tab.len())
}

func TestChainTableCollisions(t *testing.T) {
	// Constant hash forces every entry into one chain; equality must still
	// tell them apart.
	cmp := Comparer[int]{
		Hash:  func(int) uint64 { return 42 },
		Equal: func(a, b int) bool { return a == b },
	}
	tab := newChainTable(cmp, 0)
	for i := 0; i < 10; i++ {
		tab.put(i, int32(i))
	}
	assert.Equal(t, 10, tab.len())
	for i := 0; i < 10; i++ {
		off, ok := tab.get(i)
		assert.True(t, ok)
		assert.EqualValues(t, i, off)
	}
	tab.delete(5)
	_, ok := tab.get(5)
	assert.False(t, ok)
	assert.Equal(t, 9, tab.len())

	seen := map[int]int32{}
	tab.all(func(v int, off int32) bool {
		seen[v] = off
		return true
	})
	assert.Len(t, seen, 9)
}
