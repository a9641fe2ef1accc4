package testutil

import (
	"context"
	"sync"

	"tubetracker/internal/tracker"
)

// FakeScorer returns canned sentiment results keyed by comment text.
// Texts without an entry score as nil.
type FakeScorer struct {
	mu      sync.Mutex
	results map[string]*tracker.SentimentResult
	err     error
	batches [][]string

	// Block, when set, makes ScoreBatch wait for ctx to end and return its error.
	Block bool
}

var _ tracker.SentimentScorer = (*FakeScorer)(nil)

func NewFakeScorer() *FakeScorer {
	return &FakeScorer{results: make(map[string]*tracker.SentimentResult)}
}

// Set registers the result returned for text.
func (f *FakeScorer) Set(text, sentiment string, score float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[text] = &tracker.SentimentResult{Label: sentiment, Score: score, Sentiment: sentiment}
}

// FailWith makes every batch fail with err. A nil err clears it.
func (f *FakeScorer) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Batches returns the text batches received so far.
func (f *FakeScorer) Batches() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.batches...)
}

func (f *FakeScorer) ScoreBatch(ctx context.Context, texts []string) ([]*tracker.SentimentResult, error) {
	f.mu.Lock()
	f.batches = append(f.batches, append([]string(nil), texts...))
	err := f.err
	block := f.Block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*tracker.SentimentResult, len(texts))
	for i, text := range texts {
		if r, ok := f.results[text]; ok {
			cp := *r
			out[i] = &cp
		}
	}
	return out, nil
}
