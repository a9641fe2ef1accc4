package vault

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"tubetracker/internal/tracker"
)

type memorySnapshot struct {
	data      []byte
	createdAt time.Time
}

// MemoryVault keeps snapshots in memory. It is safe for concurrent use.
type MemoryVault struct {
	name      string
	snapshots map[string]memorySnapshot
	now       func() time.Time
	mu        sync.RWMutex
}

var _ tracker.Archive = (*MemoryVault)(nil)

// NewMemoryVault creates a new in-memory vault with the given name.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:      name,
		snapshots: make(map[string]memorySnapshot),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryVault) PutSnapshot(name string, r io.Reader, size int64) error {
	if err := checkName(name); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[name] = memorySnapshot{data: data, createdAt: m.now()}
	return nil
}

func (m *MemoryVault) GetSnapshot(name string, w io.Writer) error {
	m.mu.RLock()
	snap, ok := m.snapshots[name]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if _, err := io.Copy(w, bytes.NewReader(snap.data)); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func (m *MemoryVault) ListSnapshots() ([]tracker.SnapshotInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]tracker.SnapshotInfo, 0, len(m.snapshots))
	for name, snap := range m.snapshots {
		infos = append(infos, tracker.SnapshotInfo{
			Name:      name,
			Size:      int64(len(snap.data)),
			CreatedAt: snap.createdAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// ValidateSetup always succeeds for in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}
