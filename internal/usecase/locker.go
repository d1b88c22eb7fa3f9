package usecase

import "sync"

// MemberLocker serializes check-then-write sequences per member. Every
// operation that reads a balance, validates, and appends entries brackets the
// whole sequence with Acquire for that member. Operations on different
// members proceed independently; no operation ever holds two member locks, so
// lock-ordering deadlock is structurally impossible.
type MemberLocker struct {
	mu    sync.Mutex
	locks map[string]*memberLock
}

type memberLock struct {
	mu   sync.Mutex
	refs int
}

// NewMemberLocker creates a new MemberLocker.
func NewMemberLocker() *MemberLocker {
	return &MemberLocker{locks: make(map[string]*memberLock)}
}

// Acquire takes the exclusive lock for a member and returns the release
// function. Callers defer the release immediately so it runs on every exit
// path.
func (l *MemberLocker) Acquire(memberID string) (release func()) {
	l.mu.Lock()
	entry, ok := l.locks[memberID]
	if !ok {
		entry = &memberLock{}
		l.locks[memberID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			entry.mu.Unlock()

			l.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(l.locks, memberID)
			}
			l.mu.Unlock()
		})
	}
}
