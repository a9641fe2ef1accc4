package tracker

import "context"

// Normalized sentiment values stored on a comment.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// SentimentResult is one classifier verdict. All fields are always present.
type SentimentResult struct {
	Label     string
	Score     float64
	Sentiment string
}

// SentimentScorer classifies a batch of texts.
type SentimentScorer interface {
	// ScoreBatch returns exactly one entry per input, aligned by position.
	// A nil entry means the classifier produced nothing for that input.
	// An error means the whole batch failed.
	ScoreBatch(ctx context.Context, texts []string) ([]*SentimentResult, error)
}
