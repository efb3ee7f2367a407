package internlist

import (
	"errors"
	"fmt"
)

var (
	// ErrCutOver is returned by operations that only make sense while the
	// list is still interning, after the cutover predicate has fired.
	ErrCutOver = errors.New("internlist: list has cut over to plain storage")

	// ErrReentrantCall is the panic value raised when a reclaim callback
	// mutates the list that invoked it.
	ErrReentrantCall = errors.New("internlist: mutation from inside a reclaim callback")
)

// CorruptionError indicates the list's internal bookkeeping no longer agrees
// with itself. This is not recoverable: the instance must be discarded. The
// usual cause is unsynchronized concurrent mutation - the list requires
// external locking for any mutation.
type CorruptionError struct {
	msg string
}

func (e *CorruptionError) Error() string {
	return "internlist: corrupt: " + e.msg
}

// corrupt panics with a CorruptionError. Used wherever an invariant that
// cannot fail under the single-writer contract turns out to have failed.
func corrupt(format string, args ...any) {
	panic(&CorruptionError{msg: fmt.Sprintf(format, args...)})
}
