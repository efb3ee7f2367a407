package internlist

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBitvecAppendGet(t *testing.T) {
	var bv bitvec
	for i := 0; i < 200; i++ {
		bv.append(i%3 == 0)
	}
	assert.Equal(t, 200, bv.len())
	for i := 0; i < 200; i++ {
		assert.Equal(t, i%3 == 0, bv.get(i), "bit %d", i)
	}
}

func TestBitvecSet(t *testing.T) {
	var bv bitvec
	for i := 0; i < 70; i++ {
		bv.append(false)
	}
	bv.set(0, true)
	bv.set(63, true)
	bv.set(64, true)
	assert.True(t, bv.get(0))
	assert.True(t, bv.get(63))
	assert.True(t, bv.get(64))
	assert.False(t, bv.get(1))
	bv.set(63, false)
	assert.False(t, bv.get(63))
}

func TestBitvecInsertCarriesAcrossWords(t *testing.T) {
	var bv bitvec
	for i := 0; i < 64; i++ {
		bv.append(i == 63)
	}
	// Bit 63 is set; inserting below it must push it into the next word.
	bv.insert(0, false)
	assert.Equal(t, 65, bv.len())
	assert.False(t, bv.get(63))
	assert.True(t, bv.get(64))
}

func TestBitvecRemoveCarriesAcrossWords(t *testing.T) {
	var bv bitvec
	for i := 0; i < 65; i++ {
		bv.append(i == 64)
	}
	bv.removeAt(0)
	assert.Equal(t, 64, bv.len())
	assert.True(t, bv.get(63))
	for i := 0; i < 63; i++ {
		assert.False(t, bv.get(i), "bit %d", i)
	}
}

func TestBitvecInsertRemoveAgainstModel(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var bv bitvec
	var model []bool

	for step := 0; step < 3000; step++ {
		switch op := rng.Intn(3); {
		case op == 0 || len(model) == 0:
			i := rng.Intn(len(model) + 1)
			v := rng.Intn(2) == 0
			if i == len(model) {
				bv.append(v)
				model = append(model, v)
			} else {
				bv.insert(i, v)
				model = append(model, false)
				copy(model[i+1:], model[i:])
				model[i] = v
			}
		case op == 1:
			i := rng.Intn(len(model))
			got := bv.removeAt(i)
			assert.Equal(t, model[i], got)
			model = append(model[:i], model[i+1:]...)
		default:
			i := rng.Intn(len(model))
			v := rng.Intn(2) == 0
			bv.set(i, v)
			model[i] = v
		}

		if !assert.Equal(t, len(model), bv.len(), "step %d", step) {
			t.FailNow()
		}
		for i, v := range model {
			if !assert.Equal(t, v, bv.get(i), "step %d bit %d", step, i) {
				t.FailNow()
			}
		}
	}
}

func TestBitvecIndexOf(t *testing.T) {
	var bv bitvec
	assert.Equal(t, -1, bv.indexOf(true))
	assert.Equal(t, -1, bv.indexOf(false))

	for i := 0; i < 130; i++ {
		bv.append(false)
	}
	assert.Equal(t, -1, bv.indexOf(true))
	assert.Equal(t, 0, bv.indexOf(false))

	bv.set(129, true)
	assert.Equal(t, 129, bv.indexOf(true))
	bv.set(70, true)
	assert.Equal(t, 70, bv.indexOf(true))
	bv.set(3, true)
	assert.Equal(t, 3, bv.indexOf(true))
}

func TestBitvecClearReuse(t *testing.T) {
	var bv bitvec
	for i := 0; i < 100; i++ {
		bv.append(true)
	}
	bv.clear()
	assert.Equal(t, 0, bv.len())
	bv.append(false)
	bv.append(true)
	assert.False(t, bv.get(0))
	assert.True(t, bv.get(1))
}

func TestBitvecBounds(t *testing.T) {
	var bv bitvec
	bv.append(true)
	assert.Panics(t, func() { bv.get(1) })
	assert.Panics(t, func() { bv.get(-1) })
	assert.Panics(t, func() { bv.set(1, true) })
	assert.Panics(t, func() { bv.removeAt(1) })
}
