package tracker

import (
	"time"
)

// Settings are the tunables the service reads from configuration.
type Settings struct {
	// SentimentEnabled turns comment scoring on or off.
	SentimentEnabled bool

	// MinConfidence is the lowest score that is stored as a verdict.
	MinConfidence float64

	// MaxComments caps the comment threads fetched per video.
	MaxComments int

	// Workers bounds the parallelism of SyncAll.
	Workers int

	// SyncTimeout bounds the network phases of one reconciliation.
	// Zero means no timeout.
	SyncTimeout time.Duration
}

// TrackerService is the orchestration layer that coordinates the store, the
// remote video source and the classifier to implement the operations needed
// by the CLI, the HTTP API and the scheduler.
type TrackerService struct {
	database  Database
	source    VideoSource
	scorer    SentimentScorer
	archive   Archive
	encryptor Encryptor
	logger    Logger
	clock     Clock
	idgen     IDGenerator
	settings  Settings
	metrics   *Metrics
	locks     *videoLocks
}

// NewTrackerService creates a new TrackerService with the provided dependencies.
// archive and encryptor may be nil when snapshots are not used.
func NewTrackerService(database Database, source VideoSource, scorer SentimentScorer, archive Archive, encryptor Encryptor, logger Logger, clock Clock, idgen IDGenerator, settings Settings) *TrackerService {
	if settings.Workers < 1 {
		settings.Workers = 1
	}
	return &TrackerService{
		database:  database,
		source:    source,
		scorer:    scorer,
		archive:   archive,
		encryptor: encryptor,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
		settings:  settings,
		metrics:   NewMetrics(),
		locks:     newVideoLocks(),
	}
}

// Metrics returns the service's Prometheus collectors for registration.
func (s *TrackerService) Metrics() *Metrics {
	return s.metrics
}

// now returns the clock time in UTC. Stored timestamps are always UTC so
// that their text form sorts chronologically.
func (s *TrackerService) now() time.Time {
	return s.clock.Now().UTC()
}
