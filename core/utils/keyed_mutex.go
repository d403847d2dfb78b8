package utils

import "sync"

// KeyedMutex hands out one mutex per key so that writers of the same key run
// one at a time while different keys proceed in parallel.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock blocks until the caller holds key's lock and returns its release func.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	lk, ok := k.locks[key]
	if !ok {
		lk = &keyedLock{}
		k.locks[key] = lk
	}
	lk.refs++
	k.mu.Unlock()

	lk.mu.Lock()
	return func() {
		lk.mu.Unlock()
		k.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
