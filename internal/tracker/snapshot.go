package tracker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	snapshotPrefix = "snapshots/"
	encryptedExt   = ".age"
)

// BackupDatabase copies the database into the archive as
// snapshots/<UTC timestamp>.db, age-encrypted to .db.age when encrypt is set.
func (s *TrackerService) BackupDatabase(ctx context.Context, encrypt bool) (*SnapshotInfo, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("no archive configured")
	}
	if encrypt && (s.encryptor == nil || !s.encryptor.IsConfigured()) {
		return nil, fmt.Errorf("snapshot encryption requested but no keys are configured")
	}

	tmpDir, err := os.MkdirTemp("", "tubetracker-snapshot-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	plainPath := filepath.Join(tmpDir, "snapshot.db")
	if err := s.database.BackupTo(ctx, plainPath); err != nil {
		return nil, err
	}

	now := s.now()
	name := snapshotPrefix + now.Format("20060102T150405Z") + ".db"
	uploadPath := plainPath

	if encrypt {
		uploadPath = plainPath + encryptedExt
		if err := s.encryptFile(plainPath, uploadPath); err != nil {
			return nil, err
		}
		name += encryptedExt
	}

	f, err := os.Open(uploadPath)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat snapshot: %w", err)
	}

	if err := s.archive.PutSnapshot(name, f, info.Size()); err != nil {
		return nil, fmt.Errorf("uploading snapshot: %w", err)
	}

	s.logger.Info("database snapshot stored", "name", name, "size", info.Size(), "encrypted", encrypt)
	return &SnapshotInfo{Name: name, Size: info.Size(), CreatedAt: now}, nil
}

func (s *TrackerService) encryptFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening snapshot for encryption: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("creating encrypted snapshot: %w", err)
	}
	if err := s.encryptor.Encrypt(in, out); err != nil {
		out.Close()
		return fmt.Errorf("encrypting snapshot: %w", err)
	}
	return out.Close()
}

// ListSnapshots returns the archived database snapshots, oldest first.
func (s *TrackerService) ListSnapshots() ([]SnapshotInfo, error) {
	if s.archive == nil {
		return nil, fmt.Errorf("no archive configured")
	}
	return s.archive.ListSnapshots()
}

// RestoreSnapshot writes the named snapshot to dest, which must not exist.
// Encrypted snapshots are decrypted with the private key unlocked by passphrase.
func (s *TrackerService) RestoreSnapshot(name, dest, passphrase string) error {
	if s.archive == nil {
		return fmt.Errorf("no archive configured")
	}
	if !strings.HasPrefix(name, snapshotPrefix) {
		name = snapshotPrefix + name
	}

	var dc DecryptionContext
	if strings.HasSuffix(name, encryptedExt) {
		if s.encryptor == nil {
			return fmt.Errorf("snapshot %s is encrypted but no encryptor is configured", name)
		}
		var err error
		dc, err = s.encryptor.Unlock(passphrase)
		if err != nil {
			return fmt.Errorf("unlocking private key: %w", err)
		}
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("creating restore target: %w", err)
	}

	if err := s.copySnapshot(name, out, dc); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing restore target: %w", err)
	}

	s.logger.Info("database snapshot restored", "name", name, "dest", dest)
	return nil
}

func (s *TrackerService) copySnapshot(name string, w io.Writer, dc DecryptionContext) error {
	if dc == nil {
		if err := s.archive.GetSnapshot(name, w); err != nil {
			return fmt.Errorf("downloading snapshot: %w", err)
		}
		return nil
	}

	pr, pw := io.Pipe()
	defer pr.Close()
	go func() {
		pw.CloseWithError(s.archive.GetSnapshot(name, pw))
	}()
	if err := dc.Decrypt(pr, w); err != nil {
		pr.CloseWithError(err)
		return fmt.Errorf("decrypting snapshot: %w", err)
	}
	return nil
}
