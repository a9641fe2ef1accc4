package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tubetracker/internal/database/migrations"
	"tubetracker/internal/database/sqlc"
	"tubetracker/internal/tracker"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements tracker.Database using SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
}

var _ tracker.Database = (*SQLiteDatabase)(nil)

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    path,
	}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
	}
}

// OpenConnection opens and configures a SQLite database connection.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for in-memory database.
//
// Pragmas are passed in the DSN so that every pooled connection gets them.
// An in-memory database lives and dies with its connection, so the pool is
// pinned to one.
func OpenConnection(path string) (*sql.DB, error) {
	dsn := path + "?_foreign_keys=1&_busy_timeout=5000"
	if path != ":memory:" {
		dsn += "&_journal_mode=WAL"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate applies pending schema migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Video operations

func (s *SQLiteDatabase) FindVideoByID(ctx context.Context, id string) (*sqlc.Video, error) {
	v, err := s.queries.GetVideoByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding video by id: %w", err)
	}
	return &v, nil
}

func (s *SQLiteDatabase) FindVideoByExternalID(ctx context.Context, videoID string) (*sqlc.Video, error) {
	v, err := s.queries.GetVideoByVideoID(ctx, videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding video by external id: %w", err)
	}
	return &v, nil
}

func (s *SQLiteDatabase) ListActiveVideos(ctx context.Context) ([]*sqlc.Video, error) {
	videos, err := s.queries.ListActiveVideos(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active videos: %w", err)
	}

	result := make([]*sqlc.Video, len(videos))
	for i := range videos {
		result[i] = &videos[i]
	}
	return result, nil
}

func (s *SQLiteDatabase) SetVideoActive(ctx context.Context, id string, active bool) error {
	err := s.queries.SetVideoActive(ctx, sqlc.SetVideoActiveParams{IsActive: active, ID: id})
	if err != nil {
		return fmt.Errorf("setting video active=%t: %w", active, err)
	}
	return nil
}

func (s *SQLiteDatabase) CreateVideo(ctx context.Context, batch *tracker.SyncBatch) error {
	return s.inTx(ctx, func(ctx context.Context, qtx *sqlc.Queries) error {
		v := batch.Video
		err := qtx.InsertVideo(ctx, sqlc.InsertVideoParams{
			ID:           v.ID,
			VideoID:      v.VideoID,
			Title:        v.Title,
			ChannelTitle: v.ChannelTitle,
			Description:  v.Description,
			PublishedAt:  v.PublishedAt,
			ThumbnailUrl: v.ThumbnailUrl,
			AddedAt:      v.AddedAt,
			LastSynced:   v.LastSynced,
			IsActive:     v.IsActive,
		})
		if err != nil {
			return fmt.Errorf("inserting video: %w", err)
		}
		return applyBatch(ctx, qtx, batch)
	})
}

func (s *SQLiteDatabase) CommitSync(ctx context.Context, batch *tracker.SyncBatch) error {
	return s.inTx(ctx, func(ctx context.Context, qtx *sqlc.Queries) error {
		v := batch.Video
		err := qtx.UpdateVideoDetails(ctx, sqlc.UpdateVideoDetailsParams{
			Title:        v.Title,
			ChannelTitle: v.ChannelTitle,
			Description:  v.Description,
			PublishedAt:  v.PublishedAt,
			ThumbnailUrl: v.ThumbnailUrl,
			LastSynced:   v.LastSynced,
			ID:           v.ID,
		})
		if err != nil {
			return fmt.Errorf("updating video: %w", err)
		}
		return applyBatch(ctx, qtx, batch)
	})
}

// inTx runs fn inside a transaction. A context that is already done aborts
// before BEGIN; after that the transaction runs detached from ctx so that a
// deadline can never leave a half-applied batch.
func (s *SQLiteDatabase) inTx(ctx context.Context, fn func(context.Context, *sqlc.Queries) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", tracker.ErrStorage, err)
	}
	ctx = context.WithoutCancel(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: starting transaction: %w", tracker.ErrStorage, err)
	}
	defer tx.Rollback()

	if err := fn(ctx, s.queries.WithTx(tx)); err != nil {
		return fmt.Errorf("%w: %w", tracker.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %w", tracker.ErrStorage, err)
	}
	return nil
}

// applyBatch writes the metric, comments and history events of a batch.
func applyBatch(ctx context.Context, qtx *sqlc.Queries, batch *tracker.SyncBatch) error {
	if m := batch.Metric; m != nil {
		err := qtx.InsertVideoMetric(ctx, sqlc.InsertVideoMetricParams{
			ID:           m.ID,
			VideoID:      m.VideoID,
			RecordedAt:   m.RecordedAt,
			ViewCount:    m.ViewCount,
			LikeCount:    m.LikeCount,
			CommentCount: m.CommentCount,
		})
		if err != nil {
			return fmt.Errorf("inserting metric: %w", err)
		}
	}

	for _, c := range batch.Created {
		err := qtx.InsertComment(ctx, sqlc.InsertCommentParams{
			ID:              c.ID,
			VideoID:         c.VideoID,
			CommentID:       c.CommentID,
			ParentID:        c.ParentID,
			Author:          c.Author,
			AuthorChannelID: c.AuthorChannelID,
			Text:            c.Text,
			LikeCount:       c.LikeCount,
			PublishedAt:     c.PublishedAt,
			UpdatedAt:       c.UpdatedAt,
			Status:          c.Status,
			DeletedAt:       c.DeletedAt,
			FirstSeen:       c.FirstSeen,
			LastSeen:        c.LastSeen,
			ReinstatedAt:    c.ReinstatedAt,
			Sentiment:       c.Sentiment,
			SentimentScore:  c.SentimentScore,
			SentimentLabel:  c.SentimentLabel,
		})
		if err != nil {
			return fmt.Errorf("inserting comment %s: %w", c.CommentID, err)
		}
	}

	for _, c := range batch.Updated {
		err := qtx.UpdateComment(ctx, sqlc.UpdateCommentParams{
			Text:           c.Text,
			LikeCount:      c.LikeCount,
			UpdatedAt:      c.UpdatedAt,
			Status:         c.Status,
			DeletedAt:      c.DeletedAt,
			LastSeen:       c.LastSeen,
			ReinstatedAt:   c.ReinstatedAt,
			Sentiment:      c.Sentiment,
			SentimentScore: c.SentimentScore,
			SentimentLabel: c.SentimentLabel,
			ID:             c.ID,
		})
		if err != nil {
			return fmt.Errorf("updating comment %s: %w", c.CommentID, err)
		}
	}

	for _, ev := range batch.Events {
		err := qtx.InsertCommentHistory(ctx, sqlc.InsertCommentHistoryParams{
			CommentID: ev.CommentID,
			Action:    ev.Action,
			Meta:      sql.NullString{String: ev.Meta, Valid: ev.Meta != ""},
			CreatedAt: batch.At,
		})
		if err != nil {
			return fmt.Errorf("inserting %s event for comment %s: %w", ev.Action, ev.CommentID, err)
		}
	}

	return nil
}

// Metric operations

func (s *SQLiteDatabase) ListMetrics(ctx context.Context, videoID string) ([]*sqlc.VideoMetric, error) {
	metrics, err := s.queries.ListVideoMetrics(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("listing metrics: %w", err)
	}

	result := make([]*sqlc.VideoMetric, len(metrics))
	for i := range metrics {
		result[i] = &metrics[i]
	}
	return result, nil
}

func (s *SQLiteDatabase) LatestMetric(ctx context.Context, videoID string) (*sqlc.VideoMetric, error) {
	m, err := s.queries.GetLatestVideoMetric(ctx, videoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding latest metric: %w", err)
	}
	return &m, nil
}

// Comment operations

func (s *SQLiteDatabase) FindCommentsByVideo(ctx context.Context, videoID string) ([]*sqlc.Comment, error) {
	comments, err := s.queries.GetCommentsByVideoID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("finding comments by video: %w", err)
	}

	result := make([]*sqlc.Comment, len(comments))
	for i := range comments {
		result[i] = &comments[i]
	}
	return result, nil
}

func (s *SQLiteDatabase) FindCommentByExternalID(ctx context.Context, commentID string) (*sqlc.Comment, error) {
	c, err := s.queries.GetCommentByCommentID(ctx, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding comment by external id: %w", err)
	}
	return &c, nil
}

// lookupChunk keeps IN lists under SQLite's bound parameter limit.
const lookupChunk = 500

func (s *SQLiteDatabase) FindCommentsByExternalIDs(ctx context.Context, commentIDs []string) ([]*sqlc.Comment, error) {
	var result []*sqlc.Comment
	for start := 0; start < len(commentIDs); start += lookupChunk {
		end := min(start+lookupChunk, len(commentIDs))
		comments, err := s.queries.GetCommentsByCommentIDs(ctx, commentIDs[start:end])
		if err != nil {
			return nil, fmt.Errorf("finding comments by external ids: %w", err)
		}
		for i := range comments {
			result = append(result, &comments[i])
		}
	}
	return result, nil
}

func (s *SQLiteDatabase) CommentTotals(ctx context.Context, videoID string) (*tracker.CommentTotals, error) {
	row, err := s.queries.GetCommentTotals(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("counting comments: %w", err)
	}
	return &tracker.CommentTotals{
		All:      row.Total,
		Deleted:  row.Deleted,
		Positive: row.Positive,
		Neutral:  row.Neutral,
		Negative: row.Negative,
	}, nil
}

func (s *SQLiteDatabase) ListCommentHistory(ctx context.Context, commentID string) ([]*sqlc.CommentHistory, error) {
	events, err := s.queries.ListCommentHistory(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("listing comment history: %w", err)
	}

	result := make([]*sqlc.CommentHistory, len(events))
	for i := range events {
		result[i] = &events[i]
	}
	return result, nil
}

func (s *SQLiteDatabase) Stats(ctx context.Context) (*tracker.Stats, error) {
	videos, err := s.queries.CountActiveVideos(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting videos: %w", err)
	}
	comments, err := s.queries.CountComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting comments: %w", err)
	}
	deleted, err := s.queries.CountDeletedComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting deleted comments: %w", err)
	}
	return &tracker.Stats{
		TotalVideos:     videos,
		TotalComments:   comments,
		DeletedComments: deleted,
	}, nil
}

// Sync run operations

func (s *SQLiteDatabase) CreateSyncRun(ctx context.Context, trigger string, startedAt time.Time) (int64, error) {
	id, err := s.queries.InsertSyncRun(ctx, sqlc.InsertSyncRunParams{
		TriggeredBy: trigger,
		StartedAt:   startedAt,
	})
	if err != nil {
		return 0, fmt.Errorf("creating sync run: %w", err)
	}
	return id, nil
}

func (s *SQLiteDatabase) FinishSyncRun(ctx context.Context, id int64, finishedAt time.Time, status string, result tracker.SweepResult) error {
	err := s.queries.FinishSyncRun(ctx, sqlc.FinishSyncRunParams{
		FinishedAt: sql.NullTime{Time: finishedAt, Valid: true},
		Status:     status,
		Synced:     int64(result.Synced),
		Skipped:    int64(result.Skipped),
		Failed:     int64(result.Failed),
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing sync run: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListSyncRuns(ctx context.Context, limit int) ([]*sqlc.SyncRun, error) {
	runs, err := s.queries.ListSyncRuns(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing sync runs: %w", err)
	}

	result := make([]*sqlc.SyncRun, len(runs))
	for i := range runs {
		result[i] = &runs[i]
	}
	return result, nil
}

// BackupTo writes a consistent snapshot of the database to path using VACUUM INTO.
// The target file must not already exist.
func (s *SQLiteDatabase) BackupTo(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}
