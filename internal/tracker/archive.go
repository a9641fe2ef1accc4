package tracker

import (
	"io"
	"time"
)

// SnapshotInfo describes a stored database snapshot.
type SnapshotInfo struct {
	Name      string
	Size      int64
	CreatedAt time.Time
}

// Archive stores database snapshots.
// All operations stream through io.Reader/io.Writer.
type Archive interface {
	// PutSnapshot stores a snapshot under name. size is the number of bytes
	// that will be read from r. Storing the same name twice overwrites it.
	PutSnapshot(name string, r io.Reader, size int64) error

	// GetSnapshot writes the named snapshot to w.
	GetSnapshot(name string, w io.Writer) error

	// ListSnapshots returns stored snapshots, oldest first.
	ListSnapshots() ([]SnapshotInfo, error)

	// ValidateSetup verifies that the archive is accessible and properly configured.
	ValidateSetup() error
}
