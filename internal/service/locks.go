package service

import "sync"

// keyedLocks serializes critical sections per key. Admission locks the book
// key and the user key so two concurrent attempts can never both pass their
// count checks before either writes.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedLocks) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	return lock
}

// lockPair acquires both keys in a fixed order to avoid lock inversion when
// two admissions touch the same book/user pair from opposite directions.
func (k *keyedLocks) lockPair(a, b string) func() {
	if b < a {
		a, b = b, a
	}
	first := k.get(a)
	first.Lock()
	if a == b {
		return first.Unlock
	}
	second := k.get(b)
	second.Lock()
	return func() {
		second.Unlock()
		first.Unlock()
	}
}

func (k *keyedLocks) lock(key string) func() {
	lock := k.get(key)
	lock.Lock()
	return lock.Unlock
}
