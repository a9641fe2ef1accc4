package sentiment

import (
	"fmt"
	"time"

	"tubetracker/internal/config"
	"tubetracker/internal/tracker"
)

// NewScorerFromConfig creates a SentimentScorer based on the configuration type.
// The Hugging Face client is built lazily on the first batch.
func NewScorerFromConfig(cfg config.SentimentConfig, logger tracker.Logger) (tracker.SentimentScorer, error) {
	switch cfg.Type {
	case "huggingface", "":
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		return NewProvider(func() (tracker.SentimentScorer, error) {
			return NewHFClient(cfg.Endpoint, cfg.Model, cfg.APIToken, timeout)
		}, logger), nil
	case "test":
		return KeywordScorer{}, nil
	default:
		return nil, fmt.Errorf("unknown sentiment type: %q", cfg.Type)
	}
}
