package tracker

import (
	"context"
	"fmt"
	"strings"

	"tubetracker/internal/database/sqlc"
)

// VideoSummary is a tracked video with its most recent counts.
// Latest is nil until the first metric is recorded.
type VideoSummary struct {
	Video  *sqlc.Video
	Latest *sqlc.VideoMetric
}

// AddVideo starts tracking a YouTube video. videoID must already be extracted
// from any URL. A video tracked earlier and then removed is reactivated as-is.
// A new video is imported with its first metric and its full comment set in a
// single transaction.
func (s *TrackerService) AddVideo(ctx context.Context, videoID string) (*sqlc.Video, error) {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, fmt.Errorf("%w: video id required", ErrInvalidRequest)
	}

	release, err := s.locks.acquire(ctx, "add:"+videoID)
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := s.database.FindVideoByExternalID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("checking for existing video: %w", err)
	}
	if existing != nil {
		if existing.IsActive {
			return nil, fmt.Errorf("%w: %s", ErrVideoAlreadyTracked, videoID)
		}
		if err := s.database.SetVideoActive(ctx, existing.ID, true); err != nil {
			return nil, fmt.Errorf("reactivating video: %w", err)
		}
		existing.IsActive = true
		s.logger.Info("video reactivated", "video", existing.ID, "youtube_id", videoID)
		return existing, nil
	}

	netCtx := ctx
	if s.settings.SyncTimeout > 0 {
		var cancel context.CancelFunc
		netCtx, cancel = context.WithTimeout(ctx, s.settings.SyncTimeout)
		defer cancel()
	}

	details, fetched, err := s.fetch(netCtx, videoID)
	if err != nil {
		s.logger.Error("adding video failed", "youtube_id", videoID, "error", err)
		return nil, err
	}
	fetched, err = s.dropForeignComments(ctx, nil, fetched)
	if err != nil {
		return nil, err
	}

	now := s.now()
	video := &sqlc.Video{
		ID:       s.idgen.New(),
		VideoID:  videoID,
		AddedAt:  now,
		IsActive: true,
	}
	applyDetails(video, details, now)

	p := planReconciliation(video.ID, nil, fetched, true, now, s.idgen.New)
	scored, err := s.scoreComments(netCtx, p.candidates)
	if err != nil {
		s.logger.Warn("sentiment scoring skipped", "youtube_id", videoID, "error", err)
	}

	batch := &SyncBatch{
		At:      now,
		Video:   video,
		Metric:  s.newMetric(video.ID, details, now),
		Created: p.created,
		Events:  p.events,
	}
	if err := s.database.CreateVideo(context.WithoutCancel(ctx), batch); err != nil {
		return nil, fmt.Errorf("storing video: %w", err)
	}

	s.countEvents(p.events)
	s.logger.Info("video added", "video", video.ID, "youtube_id", videoID,
		"comments", len(p.created), "scored", scored)
	return video, nil
}

// DeactivateVideo stops tracking a video. Its history is kept.
func (s *TrackerService) DeactivateVideo(ctx context.Context, id string) error {
	video, err := s.requireVideo(ctx, id)
	if err != nil {
		return err
	}
	if err := s.database.SetVideoActive(ctx, video.ID, false); err != nil {
		return err
	}
	s.logger.Info("video deactivated", "video", id)
	return nil
}

// GetVideo returns a video by internal id, or ErrVideoNotFound.
func (s *TrackerService) GetVideo(ctx context.Context, id string) (*sqlc.Video, error) {
	return s.requireVideo(ctx, id)
}

// ListVideos returns the active videos with their latest counts.
func (s *TrackerService) ListVideos(ctx context.Context) ([]*VideoSummary, error) {
	videos, err := s.database.ListActiveVideos(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*VideoSummary, len(videos))
	for i, v := range videos {
		latest, err := s.database.LatestMetric(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		out[i] = &VideoSummary{Video: v, Latest: latest}
	}
	return out, nil
}

// VideoMetrics returns the full metric history of a video, oldest first.
func (s *TrackerService) VideoMetrics(ctx context.Context, id string) ([]*sqlc.VideoMetric, error) {
	if _, err := s.requireVideo(ctx, id); err != nil {
		return nil, err
	}
	return s.database.ListMetrics(ctx, id)
}

func (s *TrackerService) requireVideo(ctx context.Context, id string) (*sqlc.Video, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: video id required", ErrInvalidRequest)
	}
	video, err := s.database.FindVideoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	}
	return video, nil
}

// LatestCounts returns the view, like and comment counts of m, or zeros.
func LatestCounts(m *sqlc.VideoMetric) (views, likes, comments int64) {
	if m == nil {
		return 0, 0, 0
	}
	return m.ViewCount, m.LikeCount, m.CommentCount
}
