package tracker

import (
	"context"
	"sync"
)

// videoLocks serializes work per video id. Entries are dropped once nobody
// holds or waits for them.
type videoLocks struct {
	mu    sync.Mutex
	locks map[string]*videoLock
}

type videoLock struct {
	ch   chan struct{}
	refs int
}

func newVideoLocks() *videoLocks {
	return &videoLocks{locks: make(map[string]*videoLock)}
}

// acquire blocks until the lock for id is held or ctx is done.
// The returned func releases the lock.
func (l *videoLocks) acquire(ctx context.Context, id string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	vl, ok := l.locks[id]
	if !ok {
		vl = &videoLock{ch: make(chan struct{}, 1)}
		l.locks[id] = vl
	}
	vl.refs++
	l.mu.Unlock()

	select {
	case vl.ch <- struct{}{}:
		return func() {
			<-vl.ch
			l.unref(id, vl)
		}, nil
	case <-ctx.Done():
		l.unref(id, vl)
		return nil, ctx.Err()
	}
}

func (l *videoLocks) unref(id string, vl *videoLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	vl.refs--
	if vl.refs == 0 {
		delete(l.locks, id)
	}
}

// size reports the number of tracked lock entries.
func (l *videoLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
