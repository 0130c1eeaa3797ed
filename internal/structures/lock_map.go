package structures

import "sync"

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// LockMap hands out one mutex per key. Entries are dropped once no caller holds or waits on them.
type LockMap struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

func NewLockMap() *LockMap {
	return &LockMap{
		locks: make(map[string]*keyLock),
	}
}

// Lock blocks until key is free and returns the function releasing it.
func (m *LockMap) Lock(key string) func() {
	m.mu.Lock()
	lock, exists := m.locks[key]
	if !exists {
		lock = &keyLock{}
		m.locks[key] = lock
	}
	lock.refs++
	m.mu.Unlock()

	lock.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			lock.mu.Unlock()

			m.mu.Lock()
			lock.refs--
			if lock.refs == 0 {
				delete(m.locks, key)
			}
			m.mu.Unlock()
		})
	}
}

func (m *LockMap) Length() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
