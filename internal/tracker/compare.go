package tracker

import (
	"context"
	"fmt"

	"tubetracker/internal/align"
	"tubetracker/internal/database/sqlc"
)

// DefaultMaxPoints is the comparison cap used when the caller gives none.
const DefaultMaxPoints = 250

// Comparison is two videos' metric histories on a shared, downsampled axis.
type Comparison struct {
	VideoA   *sqlc.Video
	VideoB   *sqlc.Video
	Aligned  *align.Result
	Strategy align.Strategy
	// MaxPoints is the cap as requested; zero or less means unlimited.
	MaxPoints int
}

// Compare aligns the full metric histories of two videos.
func (s *TrackerService) Compare(ctx context.Context, idA, idB string, maxPoints int, strategy align.Strategy) (*Comparison, error) {
	if idA == "" || idB == "" {
		return nil, fmt.Errorf("%w: two video ids required", ErrInvalidRequest)
	}

	videoA, err := s.requireVideo(ctx, idA)
	if err != nil {
		return nil, err
	}
	videoB, err := s.requireVideo(ctx, idB)
	if err != nil {
		return nil, err
	}

	seriesA, err := s.loadSeries(ctx, idA)
	if err != nil {
		return nil, err
	}
	seriesB, err := s.loadSeries(ctx, idB)
	if err != nil {
		return nil, err
	}

	if strategy != align.Even {
		strategy = align.CoverBoth
	}

	return &Comparison{
		VideoA:    videoA,
		VideoB:    videoB,
		Aligned:   align.Align(seriesA, seriesB, maxPoints, strategy),
		Strategy:  strategy,
		MaxPoints: maxPoints,
	}, nil
}

func (s *TrackerService) loadSeries(ctx context.Context, id string) ([]align.Point, error) {
	metrics, err := s.database.ListMetrics(ctx, id)
	if err != nil {
		return nil, err
	}
	points := make([]align.Point, len(metrics))
	for i, m := range metrics {
		points[i] = align.Point{
			At:       m.RecordedAt,
			Views:    m.ViewCount,
			Likes:    m.LikeCount,
			Comments: m.CommentCount,
		}
	}
	return points, nil
}
