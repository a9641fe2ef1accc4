package tracker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tubetracker/internal/database/sqlc"
)

// SyncResult summarizes one reconciliation.
type SyncResult struct {
	VideoID    string
	Skipped    bool
	SkipReason string
	Created    int
	Updated    int
	Deleted    int
	Reinstated int
	Edited     int
	Scored     int
}

// Reconcile pulls the current remote state of a tracked video and merges it
// into the store: one new metric snapshot, comment status transitions with
// their history events, and sentiment for comments that have none yet.
//
// Missing and inactive videos are skipped, as is a video whose lock could not
// be taken before ctx expired. A fetch failure aborts without changing stored
// state. A classifier failure only skips scoring. Everything else commits in
// one transaction.
func (s *TrackerService) Reconcile(ctx context.Context, id string) (*SyncResult, error) {
	result := &SyncResult{VideoID: id}

	release, err := s.locks.acquire(ctx, id)
	if err != nil {
		s.logger.Info("reconcile skipped, video busy", "video", id, "error", err)
		s.metrics.Reconciliations.WithLabelValues("skipped").Inc()
		result.Skipped, result.SkipReason = true, "busy"
		return result, nil
	}
	defer release()

	video, err := s.database.FindVideoByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading video %s: %w", id, err)
	}
	if video == nil || !video.IsActive {
		reason := "inactive"
		if video == nil {
			reason = "not found"
		}
		s.logger.Debug("reconcile skipped", "video", id, "reason", reason)
		s.metrics.Reconciliations.WithLabelValues("skipped").Inc()
		result.Skipped, result.SkipReason = true, reason
		return result, nil
	}

	netCtx := ctx
	if s.settings.SyncTimeout > 0 {
		var cancel context.CancelFunc
		netCtx, cancel = context.WithTimeout(ctx, s.settings.SyncTimeout)
		defer cancel()
	}

	s.logger.Info("reconcile started", "video", id, "youtube_id", video.VideoID)

	details, comments, err := s.fetch(netCtx, video.VideoID)
	if err != nil {
		s.logger.Error("reconcile aborted", "video", id, "error", err)
		s.metrics.Reconciliations.WithLabelValues("fetch_failed").Inc()
		return nil, err
	}

	// A fetch that reached the cap may be missing comments that still exist,
	// so absence from it proves nothing.
	complete := s.settings.MaxComments <= 0 || len(comments) < s.settings.MaxComments
	if !complete {
		s.logger.Warn("comment fetch reached the cap, skipping deletions", "video", id, "fetched", len(comments), "max", s.settings.MaxComments)
	}

	stored, err := s.database.FindCommentsByVideo(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading comments: %w", err)
	}
	comments, err = s.dropForeignComments(ctx, stored, comments)
	if err != nil {
		return nil, err
	}

	now := s.now()
	p := planReconciliation(id, stored, comments, complete, now, s.idgen.New)

	scored, err := s.scoreComments(netCtx, p.candidates)
	if err != nil {
		s.logger.Warn("sentiment scoring skipped", "video", id, "error", err)
	}

	applyDetails(video, details, now)
	batch := &SyncBatch{
		At:      now,
		Video:   video,
		Metric:  s.newMetric(id, details, now),
		Created: p.created,
		Updated: p.updated,
		Events:  p.events,
	}

	// The deadline bounds the network phases only; the commit always runs.
	if err := s.database.CommitSync(context.WithoutCancel(ctx), batch); err != nil {
		s.logger.Error("reconcile commit failed", "video", id, "error", err)
		s.metrics.Reconciliations.WithLabelValues("storage_failed").Inc()
		return nil, fmt.Errorf("committing reconciliation: %w", err)
	}

	result.Created = len(p.created)
	result.Updated = len(p.updated) - p.deleted
	result.Deleted = p.deleted
	result.Reinstated = p.reinstated
	result.Edited = p.edited
	result.Scored = scored

	s.metrics.Reconciliations.WithLabelValues("synced").Inc()
	s.countEvents(p.events)
	s.logger.Info("reconcile finished", "video", id,
		"created", result.Created, "deleted", result.Deleted,
		"reinstated", result.Reinstated, "edited", result.Edited, "scored", result.Scored)

	return result, nil
}

// fetch loads remote details and comments. Any failure, including a missing
// video, is reported as ErrFetchFailed.
func (s *TrackerService) fetch(ctx context.Context, videoID string) (*VideoDetails, []RemoteComment, error) {
	details, err := s.source.FetchVideoDetails(ctx, videoID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: video details for %s: %w", ErrFetchFailed, videoID, err)
	}
	if details == nil {
		return nil, nil, fmt.Errorf("%w: no details returned for %s", ErrFetchFailed, videoID)
	}

	comments, err := s.source.FetchComments(ctx, videoID, s.settings.MaxComments)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: comments for %s: %w", ErrFetchFailed, videoID, err)
	}
	return details, comments, nil
}

// dropForeignComments removes fetched comments whose id is already stored
// under a different video. Comment ids are unique across the store.
func (s *TrackerService) dropForeignComments(ctx context.Context, stored []*sqlc.Comment, fetched []RemoteComment) ([]RemoteComment, error) {
	known := make(map[string]bool, len(stored))
	for _, c := range stored {
		known[c.CommentID] = true
	}

	var unknown []string
	for _, rc := range fetched {
		if !known[rc.CommentID] {
			unknown = append(unknown, rc.CommentID)
		}
	}
	if len(unknown) == 0 {
		return fetched, nil
	}

	others, err := s.database.FindCommentsByExternalIDs(ctx, unknown)
	if err != nil {
		return nil, fmt.Errorf("checking comment ownership: %w", err)
	}
	foreign := make(map[string]string, len(others))
	for _, c := range others {
		foreign[c.CommentID] = c.VideoID
	}
	if len(foreign) == 0 {
		return fetched, nil
	}

	out := fetched[:0:0]
	for _, rc := range fetched {
		if owner, ok := foreign[rc.CommentID]; ok && !known[rc.CommentID] {
			s.logger.Warn("comment belongs to another video, ignoring", "comment", rc.CommentID, "video", owner)
			continue
		}
		out = append(out, rc)
	}
	return out, nil
}

// reconcilePlan is the set of mutations derived from one fetch.
type reconcilePlan struct {
	created    []*sqlc.Comment
	updated    []*sqlc.Comment
	events     []HistoryEvent
	candidates []*sqlc.Comment

	deleted    int
	reinstated int
	edited     int
}

// planReconciliation merges fetched into stored (all comments of videoID,
// any status). Stored comments are modified in place. Active comments missing
// from fetched are marked deleted only when complete is set.
func planReconciliation(videoID string, stored []*sqlc.Comment, fetched []RemoteComment, complete bool, now time.Time, newID func() string) *reconcilePlan {
	p := &reconcilePlan{}

	byID := make(map[string]*sqlc.Comment, len(stored))
	for _, c := range stored {
		byID[c.CommentID] = c
	}

	present := make(map[string]bool, len(fetched))
	for _, rc := range fetched {
		present[rc.CommentID] = true
	}

	for _, c := range stored {
		if !complete || c.Status != StatusActive || present[c.CommentID] {
			continue
		}
		c.Status = StatusDeleted
		c.DeletedAt = sql.NullTime{Time: now, Valid: true}
		p.updated = append(p.updated, c)
		p.events = append(p.events, HistoryEvent{CommentID: c.ID, Action: ActionDeleted})
		p.deleted++
	}

	seen := make(map[string]bool, len(fetched))
	for _, rc := range fetched {
		if seen[rc.CommentID] {
			continue
		}
		seen[rc.CommentID] = true

		c, ok := byID[rc.CommentID]
		if !ok {
			c = newComment(newID(), videoID, rc, now)
			p.created = append(p.created, c)
			p.events = append(p.events, HistoryEvent{CommentID: c.ID, Action: ActionCreated})
			p.candidates = append(p.candidates, c)
			continue
		}

		if c.Text != rc.Text {
			p.events = append(p.events, HistoryEvent{CommentID: c.ID, Action: ActionEdited, Meta: editMeta(c.Text)})
			p.edited++
		}
		c.Text = rc.Text
		c.LikeCount = rc.LikeCount
		c.UpdatedAt = nullTime(rc.UpdatedAt)
		c.LastSeen = sql.NullTime{Time: now, Valid: true}

		if c.Status == StatusDeleted {
			c.Status = StatusActive
			c.DeletedAt = sql.NullTime{}
			c.ReinstatedAt = sql.NullTime{Time: now, Valid: true}
			p.events = append(p.events, HistoryEvent{CommentID: c.ID, Action: ActionReinstated})
			p.reinstated++
		}

		p.updated = append(p.updated, c)
		if !c.Sentiment.Valid {
			p.candidates = append(p.candidates, c)
		}
	}

	return p
}

func newComment(id, videoID string, rc RemoteComment, now time.Time) *sqlc.Comment {
	return &sqlc.Comment{
		ID:              id,
		VideoID:         videoID,
		CommentID:       rc.CommentID,
		ParentID:        sql.NullString{String: rc.ParentID, Valid: rc.ParentID != ""},
		Author:          rc.Author,
		AuthorChannelID: rc.AuthorChannelID,
		Text:            rc.Text,
		LikeCount:       rc.LikeCount,
		PublishedAt:     nullTime(rc.PublishedAt),
		UpdatedAt:       nullTime(rc.UpdatedAt),
		Status:          StatusActive,
		FirstSeen:       now,
		LastSeen:        sql.NullTime{Time: now, Valid: true},
	}
}

func editMeta(previous string) string {
	b, err := json.Marshal(map[string]string{"previous_text": previous})
	if err != nil {
		return ""
	}
	return string(b)
}

// scoreComments classifies the candidates in one batch and applies the
// confidence threshold. It returns the number of comments that received a
// verdict. On error no candidate is modified.
func (s *TrackerService) scoreComments(ctx context.Context, candidates []*sqlc.Comment) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}
	if !s.settings.SentimentEnabled || s.scorer == nil {
		s.logger.Debug("sentiment disabled, leaving comments unscored", "count", len(candidates))
		return 0, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}

	results, err := s.scorer.ScoreBatch(ctx, texts)
	if err == nil && len(results) != len(texts) {
		err = fmt.Errorf("%w: got %d results for %d texts", ErrClassifierFailed, len(results), len(texts))
	}
	if err != nil {
		s.metrics.ClassifierFailures.Inc()
		if !errors.Is(err, ErrClassifierFailed) {
			err = fmt.Errorf("%w: %w", ErrClassifierFailed, err)
		}
		return 0, err
	}

	scored := 0
	for i, c := range candidates {
		if applySentiment(c, results[i], s.settings.MinConfidence) {
			scored++
		}
	}
	s.logger.Debug("sentiment scored", "candidates", len(candidates), "verdicts", scored)
	return scored, nil
}

// applySentiment stores r on c. A verdict is kept only at or above threshold;
// below it, or when either value is NaN, only the score is kept. It reports
// whether a verdict was stored.
func applySentiment(c *sqlc.Comment, r *SentimentResult, threshold float64) bool {
	c.Sentiment = sql.NullString{}
	c.SentimentScore = sql.NullFloat64{}
	c.SentimentLabel = sql.NullString{}
	if r == nil {
		return false
	}

	c.SentimentScore = sql.NullFloat64{Float64: r.Score, Valid: true}
	if !(r.Score >= threshold) || !validSentiment(r.Sentiment) {
		return false
	}
	c.Sentiment = sql.NullString{String: r.Sentiment, Valid: true}
	c.SentimentLabel = sql.NullString{String: r.Label, Valid: r.Label != ""}
	return true
}

func validSentiment(s string) bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

func applyDetails(v *sqlc.Video, d *VideoDetails, now time.Time) {
	v.Title = d.Title
	v.ChannelTitle = d.ChannelTitle
	v.Description = d.Description
	v.ThumbnailUrl = d.ThumbnailURL
	if !d.PublishedAt.IsZero() {
		v.PublishedAt = nullTime(d.PublishedAt)
	}
	v.LastSynced = sql.NullTime{Time: now, Valid: true}
}

func (s *TrackerService) newMetric(videoID string, d *VideoDetails, now time.Time) *sqlc.VideoMetric {
	return &sqlc.VideoMetric{
		ID:           s.idgen.New(),
		VideoID:      videoID,
		RecordedAt:   now,
		ViewCount:    d.ViewCount,
		LikeCount:    d.LikeCount,
		CommentCount: d.CommentCount,
	}
}

func (s *TrackerService) countEvents(events []HistoryEvent) {
	for _, ev := range events {
		s.metrics.CommentTransitions.WithLabelValues(ev.Action).Inc()
	}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
