package sentiment

import (
	"context"
	"strings"

	"tubetracker/internal/tracker"
)

// KeywordScorer is an offline scorer driven by word lists. It backs the
// "test" sentiment type so the service runs without network access.
type KeywordScorer struct{}

var _ tracker.SentimentScorer = KeywordScorer{}

var (
	positiveWords = []string{"love", "great", "good", "awesome", "gut", "super", "toll"}
	negativeWords = []string{"hate", "bad", "awful", "terrible", "schlecht", "boring"}
)

func (KeywordScorer) ScoreBatch(_ context.Context, texts []string) ([]*tracker.SentimentResult, error) {
	out := make([]*tracker.SentimentResult, len(texts))
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		lower := strings.ToLower(truncate(t, MaxTextLength))
		pos, neg := countWords(lower, positiveWords), countWords(lower, negativeWords)
		switch {
		case pos > neg:
			out[i] = &tracker.SentimentResult{Label: "LABEL_2", Score: 0.9, Sentiment: tracker.SentimentPositive}
		case neg > pos:
			out[i] = &tracker.SentimentResult{Label: "LABEL_0", Score: 0.9, Sentiment: tracker.SentimentNegative}
		default:
			out[i] = &tracker.SentimentResult{Label: "LABEL_1", Score: 0.5, Sentiment: tracker.SentimentNeutral}
		}
	}
	return out, nil
}

func countWords(s string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(s, w) {
			n++
		}
	}
	return n
}
