package tracker

import (
	"context"
	"time"

	"tubetracker/internal/database/sqlc"
)

// Comment status values.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// Comment history actions.
const (
	ActionCreated    = "created"
	ActionDeleted    = "deleted"
	ActionReinstated = "reinstated"
	ActionEdited     = "edited"
)

// HistoryEvent is an audit record queued for insertion with a SyncBatch.
// CommentID is the internal comment id.
type HistoryEvent struct {
	CommentID string
	Action    string
	Meta      string
}

// SyncBatch holds every mutation of one reconciliation (or of the initial
// import of a video). It is committed as a single transaction.
type SyncBatch struct {
	At      time.Time
	Video   *sqlc.Video
	Metric  *sqlc.VideoMetric
	Created []*sqlc.Comment
	Updated []*sqlc.Comment
	Events  []HistoryEvent
}

// CommentFilter selects and orders comments for listing.
// Exactly one of VideoID and ParentID is set.
type CommentFilter struct {
	VideoID        string
	ParentID       string
	DeletedOnly    bool
	IncludeDeleted bool
	Sentiment      string
	Sort           string
	Limit          int
	Offset         int
}

// CommentTotals are per-video counters independent of any filter.
type CommentTotals struct {
	All      int64
	Deleted  int64
	Positive int64
	Neutral  int64
	Negative int64
}

// Stats are fleet-wide counters.
type Stats struct {
	TotalVideos     int64
	TotalComments   int64
	DeletedComments int64
}

// Database provides persistent storage for videos, metrics, comments and
// their history. Lookups return nil, nil when nothing matches.
type Database interface {
	// Video operations

	FindVideoByID(ctx context.Context, id string) (*sqlc.Video, error)

	// FindVideoByExternalID looks a video up by its YouTube id.
	FindVideoByExternalID(ctx context.Context, videoID string) (*sqlc.Video, error)

	// ListActiveVideos returns every active video, most recently added first.
	ListActiveVideos(ctx context.Context) ([]*sqlc.Video, error)

	SetVideoActive(ctx context.Context, id string, active bool) error

	// CreateVideo inserts batch.Video and then applies the rest of the batch,
	// all in one transaction.
	CreateVideo(ctx context.Context, batch *SyncBatch) error

	// CommitSync updates batch.Video and applies the rest of the batch in one
	// transaction. Once the transaction has begun it is not cancelled by ctx.
	CommitSync(ctx context.Context, batch *SyncBatch) error

	// Metric operations

	// ListMetrics returns the full metric history of a video, oldest first.
	ListMetrics(ctx context.Context, videoID string) ([]*sqlc.VideoMetric, error)

	LatestMetric(ctx context.Context, videoID string) (*sqlc.VideoMetric, error)

	// Comment operations

	// FindCommentsByVideo returns all stored comments of a video regardless of status.
	FindCommentsByVideo(ctx context.Context, videoID string) ([]*sqlc.Comment, error)

	// FindCommentByExternalID looks a comment up by its YouTube id.
	FindCommentByExternalID(ctx context.Context, commentID string) (*sqlc.Comment, error)

	// FindCommentsByExternalIDs returns the stored comments among commentIDs,
	// in no particular order. Unknown ids are left out.
	FindCommentsByExternalIDs(ctx context.Context, commentIDs []string) ([]*sqlc.Comment, error)

	// QueryComments returns one page of comments matching the filter and the
	// total number of matches.
	QueryComments(ctx context.Context, filter CommentFilter) ([]*sqlc.Comment, int64, error)

	CommentTotals(ctx context.Context, videoID string) (*CommentTotals, error)

	// ListCommentHistory returns the audit events of a comment, oldest first.
	ListCommentHistory(ctx context.Context, commentID string) ([]*sqlc.CommentHistory, error)

	Stats(ctx context.Context) (*Stats, error)

	// Sync run operations

	CreateSyncRun(ctx context.Context, trigger string, startedAt time.Time) (int64, error)
	FinishSyncRun(ctx context.Context, id int64, finishedAt time.Time, status string, result SweepResult) error
	ListSyncRuns(ctx context.Context, limit int) ([]*sqlc.SyncRun, error)

	// BackupTo writes a consistent copy of the database to path.
	BackupTo(ctx context.Context, path string) error

	// CheckMigrations verifies the schema is up to date.
	CheckMigrations() error

	Close() error
}
