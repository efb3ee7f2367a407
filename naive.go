package internlist

// naiveList is a plain slice implementation of the same contract. Tests run
// random operation sequences against it and the real thing and expect the
// answers to agree; it is deliberately too simple to be wrong.
type naiveList[T comparable] struct {
	vs []T
}

func (n *naiveList[T]) len() int       { return len(n.vs) }
func (n *naiveList[T]) get(i int) T    { return n.vs[i] }
func (n *naiveList[T]) set(i int, v T) { n.vs[i] = v }
func (n *naiveList[T]) add(v T)        { n.vs = append(n.vs, v) }

func (n *naiveList[T]) insert(i int, v T) {
	n.vs = append(n.vs, v)
	copy(n.vs[i+1:], n.vs[i:])
	n.vs[i] = v
}

func (n *naiveList[T]) removeAt(i int) T {
	v := n.vs[i]
	n.vs = append(n.vs[:i], n.vs[i+1:]...)
	return v
}

func (n *naiveList[T]) remove(v T) bool {
	if i := n.indexOf(v); i >= 0 {
		n.removeAt(i)
		return true
	}
	return false
}

func (n *naiveList[T]) indexOf(v T) int {
	for i, got := range n.vs {
		if got == v {
			return i
		}
	}
	return -1
}

func (n *naiveList[T]) contains(v T) bool { return n.indexOf(v) >= 0 }
