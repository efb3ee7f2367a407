package internlist

// Cleanup compacts the intern pool, releasing every reclaimable slot, and
// renumbers the offset index to match. If the surviving distinct values fit
// a strictly narrower index width the index is narrowed in the same pass -
// this is the only place the index ever narrows. Returns the number of pool
// slots released.
//
// Cleanup never runs implicitly; the usual trigger is a ReclaimFunc
// returning CompactNow. It is O(pool size + Len), so keep it off latency
// sensitive paths. Returns ErrCutOver once the list has cut over.
func (l *List[T]) Cleanup() (removed int, err error) {
	l.mutating()
	if l.cut {
		return 0, ErrCutOver
	}
	if l.recl.len() == 0 {
		return 0, nil
	}
	if l.pool.len() < l.active.len() {
		corrupt("intern pool size %d is below active table size %d", l.pool.len(), l.active.len())
	}

	// Mark the condemned slots.
	dead := make([]bool, l.pool.len())
	l.recl.all(func(_ T, off int32) bool {
		dead[off] = true
		return true
	})

	// Compact the pool and refcounts in one order-preserving pass, building
	// the old-offset to new-offset translation as we go. Dead slots get -1.
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

	// Retranslate the active table. Collect first: rewriting entries while
	// walking the table is asking for trouble.
	type pair struct {
		v   T
		off int32
	}
	pairs := make([]pair, 0, l.active.len())
	l.active.all(func(v T, off int32) bool {
		pairs = append(pairs, pair{v: v, off: off})
		return true
	})
	for _, p := range pairs {
		off := translate[p.off]
		if off < 0 {
			corrupt("active value maps to removed pool slot %d", p.off)
		}
		l.active.put(p.v, off)
	}

	// Retranslate the index, narrowing if the survivors allow it.
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

	l.recl.clear()
	return removed, nil
}
