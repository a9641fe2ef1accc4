package migrations

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	tables := []string{"videos", "video_metrics", "comments", "comment_history", "sync_runs", "schema_migrations"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s was not created: %v", table, err)
		}
	}
}

func TestMigrateUp_AddsSentimentColumns(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	rows, err := db.Query("PRAGMA table_info('comments')")
	if err != nil {
		t.Fatalf("table_info: %v", err)
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols[name] = true
	}

	for _, c := range []string{"sentiment", "sentiment_score", "sentiment_label", "last_seen", "reinstated_at"} {
		if !cols[c] {
			t.Errorf("comments.%s missing after migration", c)
		}
	}
}

func TestCheckDBMigrationStatus_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	err := CheckDBMigrationStatus(db)
	if err == nil {
		t.Fatal("CheckDBMigrationStatus() expected error for fresh database, got nil")
	}
	if err.Error() != "database has no schema version (needs migration)" {
		t.Errorf("CheckDBMigrationStatus() error = %q, want error about needing migration", err.Error())
	}
}

func TestCheckDBMigrationStatus_AfterMigration(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}
	if err := CheckDBMigrationStatus(db); err != nil {
		t.Errorf("CheckDBMigrationStatus() after migration returned error: %v", err)
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first MigrateUp() failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Errorf("second MigrateUp() failed: %v (should be idempotent)", err)
	}
	if err := CheckDBMigrationStatus(db); err != nil {
		t.Errorf("CheckDBMigrationStatus() after double migration returned error: %v", err)
	}
}

func TestLatestVersion(t *testing.T) {
	v, err := LatestVersion()
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	if v != 3 {
		t.Errorf("LatestVersion() = %d, want 3", v)
	}
}

func TestForeignKeyConstraints(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	_, err := db.Exec(`
		INSERT INTO video_metrics (id, video_id, recorded_at, view_count, like_count, comment_count)
		VALUES ('m-1', 'missing-video', datetime('now'), 1, 1, 1)
	`)
	if err == nil {
		t.Error("expected foreign key constraint violation, but insert succeeded")
	}
}

func TestSchema_CommentIDUnique(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	if _, err := db.Exec(`INSERT INTO videos (id, video_id, added_at) VALUES ('v-1', 'dQw4w9WgXcQ', datetime('now'))`); err != nil {
		t.Fatalf("insert video: %v", err)
	}

	insert := `INSERT INTO comments (id, video_id, comment_id, first_seen) VALUES (?, 'v-1', 'yt-c1', datetime('now'))`
	if _, err := db.Exec(insert, "c-1"); err != nil {
		t.Fatalf("insert first comment: %v", err)
	}
	if _, err := db.Exec(insert, "c-2"); err == nil {
		t.Error("expected unique constraint violation for duplicate comment_id, but insert succeeded")
	}
}

func TestSchema_HistoryActionChecked(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	db.Exec(`INSERT INTO videos (id, video_id, added_at) VALUES ('v-1', 'abc', datetime('now'))`)
	db.Exec(`INSERT INTO comments (id, video_id, comment_id, first_seen) VALUES ('c-1', 'v-1', 'yt-c1', datetime('now'))`)

	_, err := db.Exec(`INSERT INTO comment_history (comment_id, action, created_at) VALUES ('c-1', 'vanished', datetime('now'))`)
	if err == nil {
		t.Error("expected check constraint violation for unknown action, but insert succeeded")
	}
}

// openTestDB opens a single-connection in-memory SQLite database with
// foreign keys enabled.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=1")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	return db
}
