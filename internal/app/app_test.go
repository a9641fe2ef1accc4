package app

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tubetracker/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig(t.TempDir())
	cfg.Database = config.DatabaseConfig{Type: "memory"}
	cfg.Archive = config.ArchiveConfig{Type: "memory"}
	cfg.Encryption = config.EncryptionConfig{Type: "test"}
	cfg.Sentiment.Type = "test"
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, "Test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tubetracker.toml")
	if err := config.Init(path, config.NewConfig(dir)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("SYNC_INTERVAL_HOURS=6\nYOUTUBE_API_KEY=from-dotenv\n"), 0600); err != nil {
		t.Fatal(err)
	}
	// Register restoration, then clear so the .env values are applied.
	for _, k := range []string{"SYNC_INTERVAL_HOURS", "YOUTUBE_API_KEY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := LoadConfig(path, envFile)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Sync.IntervalHours != 6 {
		t.Errorf("IntervalHours = %d, want 6", cfg.Sync.IntervalHours)
	}
	if cfg.YouTube.APIKey != "from-dotenv" {
		t.Errorf("APIKey = %q, want from-dotenv", cfg.YouTube.APIKey)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(dir, "missing.toml"), ""); err == nil {
			t.Error("LoadConfig() succeeded, want error")
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		if err := os.WriteFile(path, []byte("[sentiment]\nmin_confidence = 2.0\n"), 0600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("SENTIMENT_MIN_CONFIDENCE", "")
		os.Unsetenv("SENTIMENT_MIN_CONFIDENCE")

		_, err := LoadConfig(path, filepath.Join(dir, "no.env"))
		if err == nil || !strings.Contains(err.Error(), "min_confidence") {
			t.Errorf("LoadConfig() error = %v, want min_confidence error", err)
		}
	})
}

func TestApp_QueriesOnEmptyStore(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	ctx := context.Background()

	stats, err := a.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalVideos != 0 || stats.TotalComments != 0 {
		t.Errorf("stats = %+v, want zeros", stats)
	}

	videos, err := a.ListVideos(ctx)
	if err != nil || len(videos) != 0 {
		t.Errorf("ListVideos() = %d, %v; want none", len(videos), err)
	}

	if _, err := a.Compare(ctx, "a", "", 10, "even"); err == nil {
		t.Error("Compare() with one id succeeded, want error")
	}

	res, err := a.SyncAll(ctx)
	if err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}
	if res.Synced+res.Skipped+res.Failed != 0 {
		t.Errorf("SyncAll() = %+v, want empty sweep", res)
	}
	runs, err := a.SyncRuns(ctx, 10)
	if err != nil || len(runs) != 1 {
		t.Errorf("SyncRuns() = %d, %v; want one run", len(runs), err)
	}
}

func TestApp_EncryptedBackupRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	cfg.Archive.Encrypt = true
	a := newTestApp(t, cfg)
	ctx := context.Background()

	if err := a.CheckArchive(); err != nil {
		t.Fatalf("CheckArchive() error = %v", err)
	}
	if err := a.InitKeys("secret"); err != nil {
		t.Fatalf("InitKeys() error = %v", err)
	}

	info, err := a.Backup(ctx)
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if !strings.HasSuffix(info.Name, ".db.age") {
		t.Errorf("snapshot name = %q, want .db.age suffix", info.Name)
	}

	snaps, err := a.Snapshots()
	if err != nil || len(snaps) != 1 {
		t.Fatalf("Snapshots() = %v, %v; want one", snaps, err)
	}

	dest := filepath.Join(t.TempDir(), "restored.db")
	if err := a.Restore(info.Name, dest, "wrong"); err == nil {
		t.Error("Restore() with wrong passphrase succeeded, want error")
	}
	if err := a.Restore(info.Name, dest, "secret"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if fi, err := os.Stat(dest); err != nil || fi.Size() == 0 {
		t.Errorf("restored file stat = %v, %v; want non-empty file", fi, err)
	}
}

func TestApp_SweepSnapshotsWhenConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.Archive.AfterSweep = true
	a := newTestApp(t, cfg)

	if _, err := a.SyncAll(context.Background()); err != nil {
		t.Fatalf("SyncAll() error = %v", err)
	}
	snaps, err := a.Snapshots()
	if err != nil || len(snaps) != 1 {
		t.Errorf("Snapshots() = %v, %v; want one after sweep", snaps, err)
	}
}

func TestNew_RejectsUnknownBackends(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"database", func(c *config.Config) { c.Database.Type = "oracle" }},
		{"archive", func(c *config.Config) { c.Archive.Type = "tape" }},
		{"encryption", func(c *config.Config) { c.Encryption.Type = "rot13" }},
		{"sentiment", func(c *config.Config) { c.Sentiment.Type = "crystal-ball" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			if a, err := New(context.Background(), cfg, "Test"); err == nil {
				a.Close()
				t.Error("New() succeeded, want error")
			}
		})
	}
}

func TestApp_Serve(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sync.SyncOnStart = true
	a := newTestApp(t, cfg)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, ln) }()

	// The startup sweep shows up in the run history.
	deadline := time.Now().Add(5 * time.Second)
	for {
		var runs []map[string]any
		if getJSON(t, base+"/api/sync/runs", &runs) == http.StatusOK && len(runs) == 1 {
			if runs[0]["triggered_by"] != "startup" {
				t.Errorf("triggered_by = %v, want startup", runs[0]["triggered_by"])
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("startup sweep not recorded")
		}
		time.Sleep(20 * time.Millisecond)
	}

	var health map[string]string
	if code := getJSON(t, base+"/api/health", &health); code != http.StatusOK || health["status"] != "healthy" {
		t.Errorf("health = %d %v", code, health)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("serve() did not return after cancel")
	}
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		return 0
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return 0
	}
	return resp.StatusCode
}
