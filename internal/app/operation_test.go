package app

import (
	"testing"
	"time"
)

func TestNewOperation(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.FixedZone("CET", 3600))

	tests := []struct {
		name   string
		opName string
		wantID string
	}{
		{name: "named", opName: "Serve", wantID: "20240115T093000Z-serve"},
		{name: "unnamed", opName: "", wantID: "20240115T093000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation(tt.opName, start)

			if op.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", op.ID, tt.wantID)
			}
			if op.Name != tt.opName {
				t.Errorf("Name = %q, want %q", op.Name, tt.opName)
			}
			if op.StartedAt.Location() != time.UTC {
				t.Errorf("StartedAt location = %v, want UTC", op.StartedAt.Location())
			}
		})
	}
}

func TestOperation_Elapsed(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	op := NewOperation("SyncAll", start)

	if got := op.Elapsed(start.Add(90 * time.Second)); got != 90*time.Second {
		t.Errorf("Elapsed() = %v, want 1m30s", got)
	}
}
