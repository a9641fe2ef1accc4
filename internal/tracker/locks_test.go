package tracker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestVideoLocks(t *testing.T) {
	t.Run("excludes holders of the same id", func(t *testing.T) {
		l := newVideoLocks()
		release, err := l.acquire(context.Background(), "a")
		if err != nil {
			t.Fatalf("acquire() error = %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		if _, err := l.acquire(ctx, "a"); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("second acquire() error = %v, want deadline exceeded", err)
		}

		other, err := l.acquire(context.Background(), "b")
		if err != nil {
			t.Fatalf("acquire(b) error = %v", err)
		}
		other()
		release()

		if n := l.size(); n != 0 {
			t.Errorf("size() = %d after release, want 0", n)
		}
	})

	t.Run("cancelled context fails fast", func(t *testing.T) {
		l := newVideoLocks()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := l.acquire(ctx, "a"); !errors.Is(err, context.Canceled) {
			t.Errorf("acquire() error = %v, want canceled", err)
		}
		if n := l.size(); n != 0 {
			t.Errorf("size() = %d, want 0", n)
		}
	})

	t.Run("serializes concurrent holders", func(t *testing.T) {
		l := newVideoLocks()
		var (
			inside  atomic.Int32
			maxSeen atomic.Int32
			wg      sync.WaitGroup
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, err := l.acquire(context.Background(), "v")
				if err != nil {
					t.Errorf("acquire() error = %v", err)
					return
				}
				n := inside.Add(1)
				if n > maxSeen.Load() {
					maxSeen.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				release()
			}()
		}
		wg.Wait()
		if got := maxSeen.Load(); got != 1 {
			t.Errorf("max concurrent holders = %d, want 1", got)
		}
		if n := l.size(); n != 0 {
			t.Errorf("size() = %d, want 0", n)
		}
	})
}
