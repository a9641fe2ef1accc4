package sentiment

import (
	"context"
	"fmt"
	"sync"

	"tubetracker/internal/tracker"
)

// Provider builds its scorer on first use and shares it for the life of the
// process. A failed build is remembered; every later batch reports it as
// tracker.ErrClassifierFailed without retrying.
type Provider struct {
	build  func() (tracker.SentimentScorer, error)
	logger tracker.Logger

	once   sync.Once
	scorer tracker.SentimentScorer
	err    error
}

var _ tracker.SentimentScorer = (*Provider)(nil)

func NewProvider(build func() (tracker.SentimentScorer, error), logger tracker.Logger) *Provider {
	return &Provider{build: build, logger: logger}
}

func (p *Provider) get() (tracker.SentimentScorer, error) {
	p.once.Do(func() {
		p.scorer, p.err = p.build()
		if p.err != nil {
			p.logger.Error("sentiment classifier unavailable", "error", p.err)
			return
		}
		p.logger.Info("sentiment classifier ready")
	})
	return p.scorer, p.err
}

func (p *Provider) ScoreBatch(ctx context.Context, texts []string) ([]*tracker.SentimentResult, error) {
	scorer, err := p.get()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tracker.ErrClassifierFailed, err)
	}
	return scorer.ScoreBatch(ctx, texts)
}
