package memocache

import (
	"errors"
	"fmt"
)

// ErrNoStore is reported when the engine is enabled but has no store.
var ErrNoStore = errors.New("memocache: no store configured")

// OpError describes a contained store failure. The engine never returns it
// from cache operations; it is what loggers and hooks receive.
type OpError struct {
	Op  string // get, set, delete, keys, close
	Key string // storage key, scan prefix, or first key of a bulk delete
	N   int    // number of keys for bulk deletes
	Err error
}

func (e *OpError) Error() string {
	if e.N > 1 {
		return fmt.Sprintf("memocache: %s %q (+%d more): %v", e.Op, e.Key, e.N-1, e.Err)
	}
	return fmt.Sprintf("memocache: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
