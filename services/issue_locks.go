package services

import "sync"

// Per-issue locks serialize the capacity check-then-insert sequence and the
// derived-stats recomputation, both read-modify-write against the issue row.
var (
	issueLocksMu sync.Mutex
	issueLocks   = make(map[uint]*sync.Mutex)
)

func issueLock(issueID uint) *sync.Mutex {
	issueLocksMu.Lock()
	defer issueLocksMu.Unlock()

	lock, ok := issueLocks[issueID]
	if !ok {
		lock = &sync.Mutex{}
		issueLocks[issueID] = lock
	}
	return lock
}

func withIssueLock(issueID uint, fn func() error) error {
	lock := issueLock(issueID)
	lock.Lock()
	defer lock.Unlock()
	return fn()
}
