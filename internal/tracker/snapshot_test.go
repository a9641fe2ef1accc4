package tracker_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tubetracker/internal/database"
)

func TestTrackerService_BackupAndRestore(t *testing.T) {
	h := newHarness(t, defaultSettings())
	ctx := context.Background()
	h.track(t, "vid1", remote("C1", "kept", pub))

	snap, err := h.svc.BackupDatabase(ctx, false)
	if err != nil {
		t.Fatalf("BackupDatabase() error = %v", err)
	}
	if snap.Name != "snapshots/20240115T103000Z.db" || snap.Size == 0 {
		t.Errorf("snapshot = %+v", snap)
	}

	list, err := h.svc.ListSnapshots()
	if err != nil || len(list) != 1 || list[0].Name != snap.Name {
		t.Fatalf("ListSnapshots() = %+v, %v", list, err)
	}

	dest := filepath.Join(t.TempDir(), "restored.db")
	if err := h.svc.RestoreSnapshot(strings.TrimPrefix(snap.Name, "snapshots/"), dest, ""); err != nil {
		t.Fatalf("RestoreSnapshot() error = %v", err)
	}

	restored, err := database.NewSQLiteDatabase(dest)
	if err != nil {
		t.Fatalf("opening restored db: %v", err)
	}
	defer restored.Close()
	v, err := restored.FindVideoByExternalID(ctx, "vid1")
	if err != nil || v == nil {
		t.Fatalf("restored video = %v, %v", v, err)
	}
	c, err := restored.FindCommentByExternalID(ctx, "C1")
	if err != nil || c == nil || c.Text != "kept" {
		t.Errorf("restored comment = %+v, %v", c, err)
	}

	if err := h.svc.RestoreSnapshot(snap.Name, dest, ""); err == nil {
		t.Error("RestoreSnapshot() over an existing file should fail")
	}
}

func TestTrackerService_EncryptedBackup(t *testing.T) {
	h := newHarness(t, defaultSettings())
	ctx := context.Background()
	h.track(t, "vid1")
	if err := h.enc.Setup("correct horse"); err != nil {
		t.Fatal(err)
	}

	snap, err := h.svc.BackupDatabase(ctx, true)
	if err != nil {
		t.Fatalf("BackupDatabase() error = %v", err)
	}
	if !strings.HasSuffix(snap.Name, ".db.age") {
		t.Errorf("name = %q, want .db.age suffix", snap.Name)
	}

	dir := t.TempDir()
	wrong := filepath.Join(dir, "wrong.db")
	if err := h.svc.RestoreSnapshot(snap.Name, wrong, "battery staple"); err == nil {
		t.Error("RestoreSnapshot() with wrong passphrase should fail")
	}
	if _, err := os.Stat(wrong); !os.IsNotExist(err) {
		t.Errorf("failed restore left %s behind", wrong)
	}

	dest := filepath.Join(dir, "restored.db")
	if err := h.svc.RestoreSnapshot(snap.Name, dest, "correct horse"); err != nil {
		t.Fatalf("RestoreSnapshot() error = %v", err)
	}
	header := make([]byte, 16)
	f, err := os.Open(dest)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.Read(header); err != nil {
		t.Fatal(err)
	}
	if string(header) != "SQLite format 3\x00" {
		t.Errorf("restored header = %q", header)
	}
}

func TestTrackerService_RestoreMissingSnapshot(t *testing.T) {
	h := newHarness(t, defaultSettings())
	dest := filepath.Join(t.TempDir(), "out.db")
	if err := h.svc.RestoreSnapshot("nope.db", dest, ""); err == nil {
		t.Fatal("RestoreSnapshot(missing) should fail")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("failed restore left the target behind")
	}
}
