package db

import "sync/atomic"

// WriteLock reports whether inserts and updates are currently refused, e.g. while the
// database volume is out of space. Deletes stay allowed so users can free room.
// A nil *WriteLock is never locked.
type WriteLock struct {
	locked atomic.Bool
}

func NewWriteLock(locked bool) *WriteLock {
	l := &WriteLock{}
	l.locked.Store(locked)
	return l
}

func (l *WriteLock) Locked() bool {
	return l != nil && l.locked.Load()
}

func (l *WriteLock) Set(locked bool) {
	l.locked.Store(locked)
}
