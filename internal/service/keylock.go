package service

import "sync"

// keyLock provides mutual exclusion per string key. Attendance transitions
// lock on the member ID and event registrations lock on the event ID, so
// the read-check-write sequences in those services are serialized per
// entity without blocking unrelated requests.
//
// Entries are reference counted and removed once the last holder releases
// them, so the map does not grow with the number of keys ever seen.
type keyLock struct {
	mu      sync.Mutex
	entries map[string]*keyLockEntry
}

type keyLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{entries: make(map[string]*keyLockEntry)}
}

// Lock acquires the mutex for key, blocking until it is free.
func (l *keyLock) Lock(key string) {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &keyLockEntry{}
		l.entries[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
}

// Unlock releases the mutex for key. Must pair with a prior Lock.
func (l *keyLock) Unlock(key string) {
	l.mu.Lock()
	entry, ok := l.entries[key]
	if !ok {
		l.mu.Unlock()
		panic("keylock: unlock of unheld key " + key)
	}
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()

	entry.mu.Unlock()
}
