package tracker

import (
	"context"
	"fmt"
	"math"

	"tubetracker/internal/database/sqlc"
)

// Comment sort keys.
const (
	SortDateDesc     = "date_desc"
	SortDateAsc      = "date_asc"
	SortLikesDesc    = "likes_desc"
	SortLikesAsc     = "likes_asc"
	SortSentimentPos = "sentiment_pos"
	SortSentimentNeg = "sentiment_neg"
)

// Paging bounds for ListComments.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

const maxPage = math.MaxInt / MaxPageSize

// CommentQuery holds caller-supplied listing options. Empty Sort, Page and
// PageSize select newest first, page 1 and 50 per page.
type CommentQuery struct {
	DeletedOnly    bool
	IncludeDeleted bool
	Sentiment      string
	Sort           string
	Page           int
	PageSize       int
}

// CommentPage is one page of a comment listing.
type CommentPage struct {
	Items      []*sqlc.Comment
	Page       int
	PageSize   int
	Total      int64
	TotalPages int64
	Totals     *CommentTotals
}

// ListComments returns a page of a video's comments. Totals cover every
// comment of the video regardless of the filter.
func (s *TrackerService) ListComments(ctx context.Context, videoID string, q CommentQuery) (*CommentPage, error) {
	if _, err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}

	// Bounded so the offset below cannot overflow.
	page := min(max(q.Page, 1), maxPage)
	size := q.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	size = min(size, MaxPageSize)

	f := filterFor(q)
	f.VideoID = videoID
	f.Limit = size
	f.Offset = (page - 1) * size

	items, total, err := s.database.QueryComments(ctx, f)
	if err != nil {
		return nil, err
	}
	totals, err := s.database.CommentTotals(ctx, videoID)
	if err != nil {
		return nil, err
	}

	return &CommentPage{
		Items:      items,
		Page:       page,
		PageSize:   size,
		Total:      total,
		TotalPages: (total + int64(size) - 1) / int64(size),
		Totals:     totals,
	}, nil
}

// Replies returns every reply to the comment with the given YouTube id.
// Paging fields of q are ignored.
func (s *TrackerService) Replies(ctx context.Context, parentCommentID string, q CommentQuery) ([]*sqlc.Comment, error) {
	if parentCommentID == "" {
		return nil, fmt.Errorf("%w: comment id required", ErrInvalidRequest)
	}
	f := filterFor(q)
	f.ParentID = parentCommentID
	items, _, err := s.database.QueryComments(ctx, f)
	return items, err
}

// CommentHistory returns the lifecycle events of a comment, oldest first.
// id is the internal comment id.
func (s *TrackerService) CommentHistory(ctx context.Context, id string) ([]*sqlc.CommentHistory, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: comment id required", ErrInvalidRequest)
	}
	return s.database.ListCommentHistory(ctx, id)
}

// Stats returns fleet-wide counters.
func (s *TrackerService) Stats(ctx context.Context) (*Stats, error) {
	return s.database.Stats(ctx)
}

// SyncHistory returns the most recent sweeps, newest first.
func (s *TrackerService) SyncHistory(ctx context.Context, limit int) ([]*sqlc.SyncRun, error) {
	if limit < 1 {
		limit = 20
	}
	return s.database.ListSyncRuns(ctx, limit)
}

func filterFor(q CommentQuery) CommentFilter {
	sentiment := q.Sentiment
	if !validSentiment(sentiment) {
		sentiment = ""
	}
	return CommentFilter{
		DeletedOnly:    q.DeletedOnly,
		IncludeDeleted: q.IncludeDeleted,
		Sentiment:      sentiment,
		Sort:           q.Sort,
	}
}
