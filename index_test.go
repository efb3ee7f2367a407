package internlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWidthFor(t *testing.T) {
	tests := []struct {
		unique int
		want   IndexType
	}{
		{0, Index0Bit},
		{1, Index0Bit},
		{2, Index1Bit},
		{3, Index1Byte},
		{256, Index1Byte},
		{257, Index2Byte},
		{65536, Index2Byte},
		{65537, Index4Byte},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, widthFor(test.unique), "unique=%d", test.unique)
	}
}

func TestIndexTypeString(t *testing.T) {
	assert.Equal(t, "none", IndexNone.String())
	assert.Equal(t, "0-bit", Index0Bit.String())
	assert.Equal(t, "1-bit", Index1Bit.String())
	assert.Equal(t, "1-byte", Index1Byte.String())
	assert.Equal(t, "2-byte", Index2Byte.String())
	assert.Equal(t, "4-byte", Index4Byte.String())
}

func TestZeroIndex(t *testing.T) {
	var z zeroIndex
	z.append(0)
	z.append(0)
	z.insert(1, 0)
	assert.Equal(t, 3, z.len())
	assert.EqualValues(t, 0, z.at(2))
	assert.EqualValues(t, 0, z.removeAt(0))
	assert.Equal(t, 2, z.len())
	assert.Panics(t, func() { z.at(2) })
	assert.Panics(t, func() { z.append(1) })
}

func TestIntIndexOps(t *testing.T) {
	for _, typ := range []IndexType{Index1Byte, Index2Byte, Index4Byte} {
		idx := newIndex(typ, 0)
		assert.Equal(t, typ, idx.typ())

		idx.append(3)
		idx.append(7)
		idx.insert(1, 5)
		idx.insert(3, 9) // insert at end
		assert.Equal(t, 4, idx.len())
		assert.EqualValues(t, 3, idx.at(0))
		assert.EqualValues(t, 5, idx.at(1))
		assert.EqualValues(t, 7, idx.at(2))
		assert.EqualValues(t, 9, idx.at(3))

		idx.setAt(0, 1)
		assert.EqualValues(t, 1, idx.at(0))

		assert.EqualValues(t, 5, idx.removeAt(1))
		assert.Equal(t, 3, idx.len())
		assert.EqualValues(t, 7, idx.at(1))
	}
}

func TestBitIndexOps(t *testing.T) {
	idx := newIndex(Index1Bit, 0)
	assert.Equal(t, Index1Bit, idx.typ())
	idx.append(0)
	idx.append(1)
	idx.insert(1, 1)
	assert.EqualValues(t, 0, idx.at(0))
	assert.EqualValues(t, 1, idx.at(1))
	assert.EqualValues(t, 1, idx.at(2))
	assert.EqualValues(t, 1, idx.removeAt(2))
	assert.Equal(t, 2, idx.len())

	assert.Panics(t, func() { idx.append(2) })
}

func TestCopyIndexWiden(t *testing.T) {
	idx := newIndex(Index1Bit, 0)
	for i := 0; i < 100; i++ {
		idx.append(int32(i % 2))
	}
	wide := copyIndex(Index1Byte, idx, nil)
	assert.Equal(t, Index1Byte, wide.typ())
	assert.Equal(t, 100, wide.len())
	for i := 0; i < 100; i++ {
		assert.EqualValues(t, i%2, wide.at(i))
	}
}

func TestCopyIndexTranslate(t *testing.T) {
	idx := newIndex(Index2Byte, 0)
	idx.append(0)
	idx.append(2)
	idx.append(4)
	// Slots 1 and 3 removed: 0->0, 2->1, 4->2.
	translate := []int32{0, -1, 1, -1, 2}
	narrow := copyIndex(Index1Byte, idx, translate)
	assert.Equal(t, Index1Byte, narrow.typ())
	assert.EqualValues(t, 0, narrow.at(0))
	assert.EqualValues(t, 1, narrow.at(1))
	assert.EqualValues(t, 2, narrow.at(2))

	// An index entry pointing at a removed slot is corruption.
	idx.append(1)
	assert.Panics(t, func() { copyIndex(Index1Byte, idx, translate) })
}
