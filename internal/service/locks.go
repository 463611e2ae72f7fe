package service

import "sync"

// tableLocks serializes mutations per table. Entries are reference counted
// and dropped once nobody holds or waits for them.
type tableLocks struct {
	mu    sync.Mutex
	locks map[int64]*tableLock
}

type tableLock struct {
	mu   sync.Mutex
	refs int
}

func newTableLocks() *tableLocks {
	return &tableLocks{locks: make(map[int64]*tableLock)}
}

// lock blocks until the table is free and returns the unlock func.
func (l *tableLocks) lock(tableID int64) func() {
	l.mu.Lock()
	tl, ok := l.locks[tableID]
	if !ok {
		tl = &tableLock{}
		l.locks[tableID] = tl
	}
	tl.refs++
	l.mu.Unlock()

	tl.mu.Lock()
	return func() {
		tl.mu.Unlock()
		l.mu.Lock()
		tl.refs--
		if tl.refs == 0 {
			delete(l.locks, tableID)
		}
		l.mu.Unlock()
	}
}

func (l *tableLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
