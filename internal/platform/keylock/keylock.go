// Package keylock provides mutexes scoped to a string key.
package keylock

import "github.com/sasha-s/go-deadlock"

type entry struct {
	mu   deadlock.Mutex
	refs int
}

// Map hands out one mutex per key and drops it again once no goroutine holds
// or waits for it. The zero value is ready to use.
type Map struct {
	mu      deadlock.Mutex
	entries map[string]*entry
}

func New() *Map {
	return &Map{}
}

// Lock blocks until key is free and returns the matching unlock. The unlock
// must be called exactly once.
func (m *Map) Lock(key string) func() {
	m.mu.Lock()
	if m.entries == nil {
		m.entries = make(map[string]*entry)
	}
	item, ok := m.entries[key]
	if !ok {
		item = &entry{}
		m.entries[key] = item
	}
	item.refs++
	m.mu.Unlock()

	item.mu.Lock()
	return func() {
		item.mu.Unlock()

		m.mu.Lock()
		item.refs--
		if item.refs == 0 {
			delete(m.entries, key)
		}
		m.mu.Unlock()
	}
}

// Len reports how many keys currently have holders or waiters.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
