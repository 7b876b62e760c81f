package command

import (
	"fmt"
	"sort"
	"sync"
)

// EntityLocks serializes operations that touch overlapping entities. Every
// transfer locks its two accounts and its bank; locks are always acquired in
// a fixed global order (account keys ascending by id, then the bank key) so
// two overlapping transfers can never deadlock. Transfers with disjoint
// entity sets take disjoint locks and proceed in parallel.
type EntityLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEntityLocks() *EntityLocks {
	return &EntityLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for key, creating it on first use. The registry is
// bounded by the number of live entities and is never pruned.
func (l *EntityLocks) get(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}

// lockTransfer acquires the locks for one transfer and returns the matching
// unlock function. Unlock order is the reverse of acquisition.
func (l *EntityLocks) lockTransfer(sourceID, destinationID, bankID int64) func() {
	first, second := sourceID, destinationID
	if second < first {
		first, second = second, first
	}
	keys := []string{
		accountLockKey(first),
		accountLockKey(second),
		bankLockKey(bankID),
	}

	held := make([]*sync.Mutex, 0, len(keys))
	for _, key := range keys {
		m := l.get(key)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

// lockAccounts acquires locks for an arbitrary account set, ascending by id.
func (l *EntityLocks) lockAccounts(ids ...int64) func() {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, id := range sorted {
		m := l.get(accountLockKey(id))
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}

func accountLockKey(id int64) string {
	return fmt.Sprintf("account:%d", id)
}

func bankLockKey(id int64) string {
	return fmt.Sprintf("bank:%d", id)
}
