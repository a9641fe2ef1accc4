package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/api/option"

	"tubetracker/internal/align"
	"tubetracker/internal/config"
	"tubetracker/internal/database"
	"tubetracker/internal/database/sqlc"
	"tubetracker/internal/encryption"
	"tubetracker/internal/sentiment"
	"tubetracker/internal/tracker"
	"tubetracker/internal/vault"
	"tubetracker/internal/youtube"
)

// App is the application layer between the CLI or HTTP server and
// TrackerService. It constructs all dependencies from config, exposes
// high-level operations that accept raw user input, and releases resources
// on Close.
type App struct {
	cfg       *config.Config
	db        *database.SQLiteDatabase
	archive   tracker.Archive
	encryptor tracker.Encryptor
	service   *tracker.TrackerService
	registry  *prometheus.Registry
	logger    tracker.Logger
	op        *Operation
	logFile   *os.File
}

// LoadConfig reads the config file at path, then applies envFile (when it
// exists) and the process environment on top of it.
func LoadConfig(path, envFile string) (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg, err := config.ReadFromFile(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// New creates a fully wired App from the given config.
// operation names the command being run and tags every log line.
// The caller must call Close when done.
func New(ctx context.Context, cfg *config.Config, operation string) (*App, error) {
	op := NewOperation(operation, time.Now())

	slogger, logFile, err := newLogger(cfg.LogDir, op.ID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	a := &App{cfg: cfg, logger: logger, op: op, logFile: logFile}
	if err := a.wire(ctx); err != nil {
		a.Close()
		return nil, err
	}
	logger.Debug("app ready", "operation", operation)
	return a, nil
}

func (a *App) wire(ctx context.Context) error {
	cfg := a.cfg

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	a.db = db
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	if err := db.CheckMigrations(); err != nil {
		return fmt.Errorf("database schema out of date: %w", err)
	}

	if cfg.Archive.Type != "" {
		archive, err := vault.NewVaultFromConfig(ctx, cfg.Archive)
		if err != nil {
			return fmt.Errorf("creating archive: %w", err)
		}
		a.archive = archive
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	a.encryptor = enc

	scorer, err := sentiment.NewScorerFromConfig(cfg.Sentiment, a.logger)
	if err != nil {
		return fmt.Errorf("creating classifier: %w", err)
	}

	var ytOpts []option.ClientOption
	if cfg.YouTube.APIKey == "" {
		a.logger.Warn("youtube.api_key is not set, fetches will be rejected")
		ytOpts = append(ytOpts, option.WithoutAuthentication())
	}
	source, err := youtube.NewClient(ctx, cfg.YouTube.APIKey, cfg.YouTube.RequestsPerSecond, a.logger, ytOpts...)
	if err != nil {
		return fmt.Errorf("creating youtube client: %w", err)
	}

	a.service = tracker.NewTrackerService(db, source, scorer, a.archive, enc, a.logger,
		tracker.RealClock{}, tracker.UUIDGenerator{}, settingsFromConfig(cfg))

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := a.service.Metrics().Register(a.registry); err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}
	return nil
}

func settingsFromConfig(cfg *config.Config) tracker.Settings {
	return tracker.Settings{
		SentimentEnabled: cfg.Sentiment.Enabled,
		MinConfidence:    cfg.Sentiment.MinConfidence,
		MaxComments:      cfg.YouTube.MaxComments,
		Workers:          cfg.Sync.Workers,
		SyncTimeout:      time.Duration(cfg.Sync.TimeoutSeconds) * time.Second,
	}
}

// AddVideo starts tracking the video named by a URL or a bare id.
func (a *App) AddVideo(ctx context.Context, urlOrID string) (*sqlc.Video, error) {
	return a.service.AddVideo(ctx, youtube.ExtractVideoID(urlOrID))
}

// RemoveVideo stops tracking a video.
func (a *App) RemoveVideo(ctx context.Context, id string) error {
	return a.service.DeactivateVideo(ctx, id)
}

// ListVideos returns the tracked videos with their latest counts.
func (a *App) ListVideos(ctx context.Context) ([]*tracker.VideoSummary, error) {
	return a.service.ListVideos(ctx)
}

// SyncVideo reconciles one video now.
func (a *App) SyncVideo(ctx context.Context, id string) (*tracker.SyncResult, error) {
	return a.service.SyncVideo(ctx, id)
}

// SyncAll runs a manual sweep, followed by a snapshot when configured.
func (a *App) SyncAll(ctx context.Context) (*tracker.SweepResult, error) {
	return a.sweep(ctx, tracker.TriggerManual)
}

// Compare aligns two videos' metric histories. strategy is parsed leniently.
func (a *App) Compare(ctx context.Context, idA, idB string, maxPoints int, strategy string) (*tracker.Comparison, error) {
	return a.service.Compare(ctx, idA, idB, maxPoints, align.ParseStrategy(strategy))
}

// Comments returns one page of a video's comments.
func (a *App) Comments(ctx context.Context, videoID string, q tracker.CommentQuery) (*tracker.CommentPage, error) {
	return a.service.ListComments(ctx, videoID, q)
}

// Replies returns the replies to a comment.
func (a *App) Replies(ctx context.Context, commentID string, q tracker.CommentQuery) ([]*sqlc.Comment, error) {
	return a.service.Replies(ctx, commentID, q)
}

// CommentHistory returns the lifecycle events of a comment.
func (a *App) CommentHistory(ctx context.Context, id string) ([]*sqlc.CommentHistory, error) {
	return a.service.CommentHistory(ctx, id)
}

// Stats returns fleet-wide counters.
func (a *App) Stats(ctx context.Context) (*tracker.Stats, error) {
	return a.service.Stats(ctx)
}

// SyncRuns returns the most recent sweeps.
func (a *App) SyncRuns(ctx context.Context, limit int) ([]*sqlc.SyncRun, error) {
	return a.service.SyncHistory(ctx, limit)
}

// Backup stores a database snapshot in the archive, encrypted when
// archive.encrypt is set.
func (a *App) Backup(ctx context.Context) (*tracker.SnapshotInfo, error) {
	return a.service.BackupDatabase(ctx, a.cfg.Archive.Encrypt)
}

// Snapshots lists archived database snapshots.
func (a *App) Snapshots() ([]tracker.SnapshotInfo, error) {
	return a.service.ListSnapshots()
}

// Restore writes a snapshot to dest. passphrase is only used for
// encrypted snapshots.
func (a *App) Restore(name, dest, passphrase string) error {
	return a.service.RestoreSnapshot(name, dest, passphrase)
}

// InitKeys generates the snapshot encryption key pair.
func (a *App) InitKeys(passphrase string) error {
	if err := a.encryptor.Setup(passphrase); err != nil {
		return fmt.Errorf("generating keys: %w", err)
	}
	a.logger.Info("encryption keys generated",
		"public_key", a.cfg.Encryption.PublicKeyPath,
		"private_key", a.cfg.Encryption.PrivateKeyPath)
	return nil
}

// CheckArchive verifies the archive is reachable.
func (a *App) CheckArchive() error {
	if a.archive == nil {
		return fmt.Errorf("no archive configured")
	}
	return a.archive.ValidateSetup()
}

// sweep reconciles the fleet and then, when archive.after_sweep is set,
// stores a snapshot. A failed snapshot is logged and does not fail the sweep.
func (a *App) sweep(ctx context.Context, trigger string) (*tracker.SweepResult, error) {
	res, err := a.service.SyncAll(ctx, trigger)
	if err != nil {
		return nil, err
	}
	if a.cfg.Archive.AfterSweep && a.archive != nil {
		if _, err := a.Backup(ctx); err != nil {
			a.logger.Error("snapshot after sweep failed", "trigger", trigger, "error", err)
		}
	}
	return res, nil
}

// Close releases the database and the log file.
func (a *App) Close() error {
	a.logger.Debug("operation finished", "operation", a.op.Name, "elapsed", a.op.Elapsed(time.Now()))

	var firstErr error
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			firstErr = fmt.Errorf("closing database: %w", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// background runs fn in a goroutine tracked by wg.
func background(wg *sync.WaitGroup, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		fn()
	}()
}
