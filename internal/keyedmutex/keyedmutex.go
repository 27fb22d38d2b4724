// Package keyedmutex serializes writers per entity key so that concurrent
// mutations of the same audit, bounty or commitment are applied one at a
// time while unrelated entities never contend.
package keyedmutex

import "sync"

// KeyedMutex provides at-most-one-writer-at-a-time semantics per key.
// Locks are created lazily and kept for the lifetime of the mutex; the
// entity key space is bounded by the append-only stores, so entries are
// not reaped.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for key, blocking until it is available, and
// returns the matching unlock function.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
