/*
memo.go - Caller-owned cache for derived random occurrences

PURPOSE:
  The engine is side-effect-free; the only mutable state in the system
  is this cache, and it belongs to the caller. The contract is
  read-or-populate-once: the Matcher calls Get, and on a miss derives
  and calls Put exactly once for that key. Implementations own their
  synchronization.

  MemoryMemo is the default in-process implementation (and the test
  double). A persistent implementation backed by SQLite lives in
  store/sqlite so derived sets survive across sessions.
*/
package recurrence

import "sync"

// MemoKey identifies one derived occurrence set.
type MemoKey struct {
	EventID string
	Seed    uint64
}

// Memo is the caller-supplied cache of derived random occurrences.
// Values are sorted absolute-day lists and must be treated as
// immutable once stored.
type Memo interface {
	Get(key MemoKey) ([]int64, bool)
	Put(key MemoKey, days []int64)
}

// MemoryMemo is a mutex-guarded in-process Memo.
type MemoryMemo struct {
	mu   sync.RWMutex
	sets map[MemoKey][]int64
}

// NewMemoryMemo creates an empty in-process memo.
func NewMemoryMemo() *MemoryMemo {
	return &MemoryMemo{sets: make(map[MemoKey][]int64)}
}

func (m *MemoryMemo) Get(key MemoKey) ([]int64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	days, ok := m.sets[key]
	return days, ok
}

func (m *MemoryMemo) Put(key MemoKey, days []int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sets[key]; exists {
		return // populate-once: first derivation wins
	}
	m.sets[key] = days
}

// Len reports the number of cached sets.
func (m *MemoryMemo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sets)
}
