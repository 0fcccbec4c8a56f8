package service

import (
	"sync"
)

// lockArena hands out one mutex per document id so create/update/delete/
// restore sequences on the same document are serialized. Locks are
// created on demand and never removed; the arena grows with the number
// of distinct ids touched, which is bounded by the document count.
type lockArena struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockArena() *lockArena {
	return &lockArena{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for id and returns the unlock function.
func (a *lockArena) acquire(id string) func() {
	a.mu.Lock()
	lock, ok := a.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[id] = lock
	}
	a.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
