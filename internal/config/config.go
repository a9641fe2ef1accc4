package config

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Defaults applied when a value is absent from the file.
const (
	DefaultMaxComments       = 1000
	DefaultRequestsPerSecond = 5.0
	DefaultMinConfidence     = 0.6
	DefaultModel             = "cardiffnlp/twitter-xlm-roberta-base-sentiment"
	DefaultEndpoint          = "https://router.huggingface.co/hf-inference/models"
	DefaultSentimentTimeout  = 30
	DefaultIntervalHours     = 24
	DefaultWorkers           = 4
	DefaultSyncTimeout       = 120
	DefaultListen            = ":5055"
)

// Config represents the main configuration for tubetracker.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Database   DatabaseConfig   `toml:"database"`
	YouTube    YouTubeConfig    `toml:"youtube"`
	Sentiment  SentimentConfig  `toml:"sentiment"`
	Sync       SyncConfig       `toml:"sync"`
	HTTP       HTTPConfig       `toml:"http"`
	Archive    ArchiveConfig    `toml:"archive"`
	Encryption EncryptionConfig `toml:"encryption"`
}

// DatabaseConfig represents configuration for the tracker database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// YouTubeConfig configures the YouTube Data API client.
type YouTubeConfig struct {
	APIKey            string  `toml:"api_key"`
	MaxComments       int     `toml:"max_comments"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// SentimentConfig configures the comment classifier.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type SentimentConfig struct {
	Type          string  `toml:"type"` // "huggingface" or "test"
	Enabled       bool    `toml:"enabled"`
	MinConfidence float64 `toml:"min_confidence"`

	// Hugging Face fields (only used when Type == "huggingface")
	Model          string `toml:"model,omitempty"`
	Endpoint       string `toml:"endpoint,omitempty"`
	APIToken       string `toml:"api_token,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds,omitempty"`
}

// SyncConfig controls the recurring sweep. Cron takes precedence over IntervalHours.
type SyncConfig struct {
	Cron           string `toml:"cron"`
	IntervalHours  int    `toml:"interval_hours"`
	Workers        int    `toml:"workers"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	SyncOnStart    bool   `toml:"sync_on_start"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Listen string `toml:"listen"`
}

// ArchiveConfig represents configuration for the database snapshot archive.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ArchiveConfig struct {
	Type       string `toml:"type"` // "memory", "s3", or "filesystem"
	Encrypt    bool   `toml:"encrypt"`
	AfterSweep bool   `toml:"after_sweep"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket   string `toml:"s3_bucket,omitempty"`
	S3Prefix   string `toml:"s3_prefix,omitempty"`
	S3Region   string `toml:"s3_region,omitempty"`
	S3Endpoint string `toml:"s3_endpoint,omitempty"`

	// Static credentials; when empty the default AWS credential chain is used.
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSRoot string `toml:"fs_root,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used for snapshot encryption.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// NewConfig creates a new Config rooted at baseDir with default values.
func NewConfig(baseDir string) *Config {
	cfg := defaultConfig()
	cfg.BaseDir = baseDir
	cfg.LogDir = filepath.Join(baseDir, "log")
	cfg.Database = DatabaseConfig{Type: "sqlite", DataDir: filepath.Join(baseDir, "db")}
	cfg.Archive = ArchiveConfig{Type: "filesystem", FSRoot: filepath.Join(baseDir, "archive")}
	cfg.Encryption = EncryptionConfig{
		Type:           "age",
		PublicKeyPath:  filepath.Join(baseDir, "keys", "tubetracker.pub"),
		PrivateKeyPath: filepath.Join(baseDir, "keys", "tubetracker.key"),
	}
	return cfg
}

func defaultConfig() *Config {
	return &Config{
		YouTube: YouTubeConfig{
			MaxComments:       DefaultMaxComments,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		Sentiment: SentimentConfig{
			Type:           "huggingface",
			Enabled:        true,
			MinConfidence:  DefaultMinConfidence,
			Model:          DefaultModel,
			Endpoint:       DefaultEndpoint,
			TimeoutSeconds: DefaultSentimentTimeout,
		},
		Sync: SyncConfig{
			IntervalHours:  DefaultIntervalHours,
			Workers:        DefaultWorkers,
			TimeoutSeconds: DefaultSyncTimeout,
		},
		HTTP: HTTPConfig{Listen: DefaultListen},
	}
}

// ApplyEnv overrides file values with the process environment.
// lookup is os.LookupEnv outside of tests. Values that do not parse are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("YOUTUBE_API_KEY"); ok && v != "" {
		c.YouTube.APIKey = v
	}
	if v, ok := lookup("HF_API_TOKEN"); ok && v != "" {
		c.Sentiment.APIToken = v
	}
	if v, ok := lookup("SYNC_CRON"); ok {
		c.Sync.Cron = strings.TrimSpace(v)
	}
	if v, ok := lookup("SYNC_INTERVAL_HOURS"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			c.Sync.IntervalHours = n
		}
	}
	if v, ok := lookup("SENTIMENT_ENABLED"); ok {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			c.Sentiment.Enabled = true
		default:
			c.Sentiment.Enabled = false
		}
	}
	if v, ok := lookup("SENTIMENT_MIN_CONFIDENCE"); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			c.Sentiment.MinConfidence = f
		}
	}
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	if !(c.Sentiment.MinConfidence >= 0 && c.Sentiment.MinConfidence <= 1) {
		return fmt.Errorf("sentiment.min_confidence must be within [0,1], got %v", c.Sentiment.MinConfidence)
	}
	if c.Sync.Workers < 1 {
		return fmt.Errorf("sync.workers must be positive, got %d", c.Sync.Workers)
	}
	if c.Sync.Cron == "" && c.Sync.IntervalHours < 1 {
		return fmt.Errorf("sync.interval_hours must be positive when sync.cron is empty, got %d", c.Sync.IntervalHours)
	}
	if c.YouTube.MaxComments < 1 {
		return fmt.Errorf("youtube.max_comments must be positive, got %d", c.YouTube.MaxComments)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader. Keys missing from the
// input keep their default values.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	cfg := defaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file may hold API keys.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
