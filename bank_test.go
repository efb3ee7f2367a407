package internlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBank(t *testing.T) {
	var b bank[int]
	for i := 0; i < bankSlabSize*3+17; i++ {
		b.append(i * 2)
	}
	assert.Equal(t, bankSlabSize*3+17, b.len())
	// Read back across slab boundaries.
	assert.Equal(t, 0, b.at(0))
	assert.Equal(t, (bankSlabSize-1)*2, b.at(bankSlabSize-1))
	assert.Equal(t, bankSlabSize*2, b.at(bankSlabSize))
	assert.Equal(t, (bankSlabSize*3+16)*2, b.at(bankSlabSize*3+16))

	b.setAt(bankSlabSize, -1)
	assert.Equal(t, -1, b.at(bankSlabSize))
}

func TestBankTruncate(t *testing.T) {
	var b bank[string]
	for i := 0; i < bankSlabSize+10; i++ {
		b.append("x")
	}
	b.truncate(3)
	assert.Equal(t, 3, b.len())
	assert.Equal(t, "x", b.at(2))

	// Slabs are kept: appending reuses them and the dropped tail was zeroed.
	b.append("y")
	assert.Equal(t, "y", b.at(3))

	b.clear()
	assert.Equal(t, 0, b.len())
}
