package services

import "sync"

// callLocker serializes work per call id. Entries are reference counted and
// dropped once no goroutine holds or waits on them.
type callLocker struct {
	mu    sync.Mutex
	locks map[string]*callLock
}

type callLock struct {
	mu   sync.Mutex
	refs int
}

func newCallLocker() *callLocker {
	return &callLocker{locks: make(map[string]*callLock)}
}

func (l *callLocker) Lock(callID string) (unlock func()) {
	l.mu.Lock()
	cl, ok := l.locks[callID]
	if !ok {
		cl = &callLock{}
		l.locks[callID] = cl
	}
	cl.refs++
	l.mu.Unlock()

	cl.mu.Lock()
	return func() {
		cl.mu.Unlock()

		l.mu.Lock()
		cl.refs--
		if cl.refs == 0 {
			delete(l.locks, callID)
		}
		l.mu.Unlock()
	}
}

func (l *callLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
