package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLineHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		runID   string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			runID:   "op-123",
			level:   slog.LevelInfo,
			message: "video added",
			want:    "2024-06-15T14:30:45Z\tINFO\top-123\tvideo added\n",
		},
		{
			name:    "debug level",
			runID:   "op-456",
			level:   slog.LevelDebug,
			message: "job already registered",
			want:    "2024-06-15T14:30:45Z\tDEBUG\top-456\tjob already registered\n",
		},
		{
			name:    "with record attrs",
			runID:   "op-789",
			level:   slog.LevelInfo,
			message: "reconcile finished",
			attrs:   []slog.Attr{slog.String("video", "id-1"), slog.Int("created", 42)},
			want:    "2024-06-15T14:30:45Z\tINFO\top-789\treconcile finished\tvideo=id-1\tcreated=42\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := newLineHandler(&buf, tt.runID)

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestLineHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := newLineHandler(&buf, "op-1")

	// Add pre-set attrs
	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "scheduler")}).(*lineHandler)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "sweep finished", 0)
	r.AddAttrs(slog.String("synced", "3"))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "component=scheduler") {
		t.Errorf("expected pre-set attr component=scheduler, got: %q", got)
	}
	if !strings.Contains(got, "synced=3") {
		t.Errorf("expected record attr synced=3, got: %q", got)
	}
}

func TestLineHandler_WithAttrs_doesNotMutateOriginal(t *testing.T) {
	var buf bytes.Buffer
	h := newLineHandler(&buf, "op-1")
	h.attrs = []slog.Attr{slog.String("a", "1")}

	h2 := h.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*lineHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}
	if len(h2.attrs) != 2 {
		t.Errorf("new handler attrs: got %d, want 2", len(h2.attrs))
	}
}

func TestLineHandler_Enabled(t *testing.T) {
	h := &lineHandler{}
	// All levels should be enabled
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if !h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = false, want true", level)
		}
	}
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()

	logger, f, err := newLogger(dir, "20240115T103000Z-serve")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	if logger == nil {
		t.Fatal("newLogger() returned nil logger")
	}
	if f == nil {
		t.Fatal("newLogger() returned nil file")
	}
}

func TestLineHandler_ConcurrentLinesDoNotInterleave(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLineHandler(&buf, "run"))

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				logger.Info("reconcile finished", "worker", i, "created", 1)
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 16*50 {
		t.Fatalf("got %d lines, want %d", len(lines), 16*50)
	}
	for _, line := range lines {
		if fields := strings.Split(line, "\t"); len(fields) != 6 {
			t.Fatalf("malformed line %q", line)
		}
	}
}
