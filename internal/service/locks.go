package service

import "sync"

// userLocks serializes read-modify-write cycles per user.
type userLocks struct {
	m sync.Map // int64 -> *sync.Mutex
}

func (l *userLocks) lock(userID int64) func() {
	mu, _ := l.m.LoadOrStore(userID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
