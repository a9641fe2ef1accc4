package httpapi

import (
	"database/sql"
	"time"

	"tubetracker/internal/align"
	"tubetracker/internal/database/sqlc"
	"tubetracker/internal/tracker"
)

type videoJSON struct {
	ID           string     `json:"id"`
	VideoID      string     `json:"video_id"`
	Title        string     `json:"title"`
	ChannelTitle string     `json:"channel_title"`
	Description  string     `json:"description"`
	PublishedAt  *time.Time `json:"published_at"`
	ThumbnailURL string     `json:"thumbnail_url"`
	AddedAt      time.Time  `json:"added_at"`
	LastSynced   *time.Time `json:"last_synced"`
	IsActive     bool       `json:"is_active"`
}

type videoSummaryJSON struct {
	videoJSON
	LatestViews    int64 `json:"latest_views"`
	LatestLikes    int64 `json:"latest_likes"`
	LatestComments int64 `json:"latest_comments"`
}

type metricJSON struct {
	ID           string    `json:"id"`
	VideoID      string    `json:"video_id"`
	RecordedAt   time.Time `json:"recorded_at"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
}

type commentJSON struct {
	ID              string     `json:"id"`
	VideoID         string     `json:"video_id"`
	CommentID       string     `json:"comment_id"`
	ParentID        *string    `json:"parent_id"`
	Author          string     `json:"author"`
	AuthorChannelID string     `json:"author_channel_id"`
	Text            string     `json:"text"`
	LikeCount       int64      `json:"like_count"`
	PublishedAt     *time.Time `json:"published_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
	Status          string     `json:"status"`
	DeletedAt       *time.Time `json:"deleted_at"`
	FirstSeen       time.Time  `json:"first_seen"`
	LastSeen        *time.Time `json:"last_seen"`
	ReinstatedAt    *time.Time `json:"reinstated_at"`
	Sentiment       *string    `json:"sentiment"`
	SentimentScore  *float64   `json:"sentiment_score"`
	SentimentLabel  *string    `json:"sentiment_label"`
}

type historyJSON struct {
	ID        int64     `json:"id"`
	CommentID string    `json:"comment_id"`
	Action    string    `json:"action"`
	Meta      *string   `json:"meta"`
	CreatedAt time.Time `json:"created_at"`
}

type paginationJSON struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

type sentimentTotalsJSON struct {
	Positive int64 `json:"positive"`
	Neutral  int64 `json:"neutral"`
	Negative int64 `json:"negative"`
}

type totalsJSON struct {
	All       int64               `json:"all"`
	Deleted   int64               `json:"deleted"`
	Sentiment sentimentTotalsJSON `json:"sentiment"`
}

type commentPageJSON struct {
	Items      []commentJSON  `json:"items"`
	Pagination paginationJSON `json:"pagination"`
	Totals     totalsJSON     `json:"totals"`
}

type syncResultJSON struct {
	VideoID    string `json:"video_id"`
	Skipped    bool   `json:"skipped"`
	SkipReason string `json:"skip_reason,omitempty"`
	Created    int    `json:"created"`
	Updated    int    `json:"updated"`
	Deleted    int    `json:"deleted"`
	Reinstated int    `json:"reinstated"`
	Edited     int    `json:"edited"`
	Scored     int    `json:"scored"`
}

type syncRunJSON struct {
	ID          int64      `json:"id"`
	TriggeredBy string     `json:"triggered_by"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at"`
	Status      string     `json:"status"`
	Synced      int64      `json:"synced"`
	Skipped     int64      `json:"skipped"`
	Failed      int64      `json:"failed"`
}

type statsJSON struct {
	TotalVideos     int64 `json:"total_videos"`
	TotalComments   int64 `json:"total_comments"`
	DeletedComments int64 `json:"deleted_comments"`
}

type videoRefJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type seriesJSON struct {
	ViewCount    []*int64 `json:"view_count"`
	LikeCount    []*int64 `json:"like_count"`
	CommentCount []*int64 `json:"comment_count"`
}

type alignedJSON struct {
	Timestamps []time.Time `json:"timestamps"`
	Video1     seriesJSON  `json:"video1"`
	Video2     seriesJSON  `json:"video2"`
}

type pointJSON struct {
	RecordedAt   time.Time `json:"recorded_at"`
	ViewCount    int64     `json:"view_count"`
	LikeCount    int64     `json:"like_count"`
	CommentCount int64     `json:"comment_count"`
}

type deltaJSON struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

type latestJSON struct {
	Video1 *pointJSON `json:"video1"`
	Video2 *pointJSON `json:"video2"`
	Delta  *deltaJSON `json:"delta"`
}

type samplingJSON struct {
	Strategy      string `json:"strategy"`
	MaxPoints     int    `json:"max_points"`
	UnionLength   int    `json:"union_length"`
	SelectedCount int    `json:"selected_count"`
}

type comparisonJSON struct {
	Video1   videoRefJSON `json:"video1"`
	Video2   videoRefJSON `json:"video2"`
	Aligned  alignedJSON  `json:"aligned"`
	Latest   latestJSON   `json:"latest"`
	Sampling samplingJSON `json:"sampling"`
}

func toVideo(v *sqlc.Video) videoJSON {
	return videoJSON{
		ID:           v.ID,
		VideoID:      v.VideoID,
		Title:        v.Title,
		ChannelTitle: v.ChannelTitle,
		Description:  v.Description,
		PublishedAt:  nullTime(v.PublishedAt),
		ThumbnailURL: v.ThumbnailUrl,
		AddedAt:      v.AddedAt,
		LastSynced:   nullTime(v.LastSynced),
		IsActive:     v.IsActive,
	}
}

func toVideoSummary(s *tracker.VideoSummary) videoSummaryJSON {
	views, likes, comments := tracker.LatestCounts(s.Latest)
	return videoSummaryJSON{
		videoJSON:      toVideo(s.Video),
		LatestViews:    views,
		LatestLikes:    likes,
		LatestComments: comments,
	}
}

func toMetric(m *sqlc.VideoMetric) metricJSON {
	return metricJSON{
		ID:           m.ID,
		VideoID:      m.VideoID,
		RecordedAt:   m.RecordedAt,
		ViewCount:    m.ViewCount,
		LikeCount:    m.LikeCount,
		CommentCount: m.CommentCount,
	}
}

func toComment(c *sqlc.Comment) commentJSON {
	out := commentJSON{
		ID:              c.ID,
		VideoID:         c.VideoID,
		CommentID:       c.CommentID,
		ParentID:        nullString(c.ParentID),
		Author:          c.Author,
		AuthorChannelID: c.AuthorChannelID,
		Text:            c.Text,
		LikeCount:       c.LikeCount,
		PublishedAt:     nullTime(c.PublishedAt),
		UpdatedAt:       nullTime(c.UpdatedAt),
		Status:          c.Status,
		DeletedAt:       nullTime(c.DeletedAt),
		FirstSeen:       c.FirstSeen,
		LastSeen:        nullTime(c.LastSeen),
		ReinstatedAt:    nullTime(c.ReinstatedAt),
		Sentiment:       nullString(c.Sentiment),
		SentimentLabel:  nullString(c.SentimentLabel),
	}
	if c.SentimentScore.Valid {
		score := c.SentimentScore.Float64
		out.SentimentScore = &score
	}
	return out
}

func toComments(cs []*sqlc.Comment) []commentJSON {
	out := make([]commentJSON, len(cs))
	for i, c := range cs {
		out[i] = toComment(c)
	}
	return out
}

func toHistory(h *sqlc.CommentHistory) historyJSON {
	return historyJSON{
		ID:        h.ID,
		CommentID: h.CommentID,
		Action:    h.Action,
		Meta:      nullString(h.Meta),
		CreatedAt: h.CreatedAt,
	}
}

func toCommentPage(p *tracker.CommentPage) commentPageJSON {
	return commentPageJSON{
		Items: toComments(p.Items),
		Pagination: paginationJSON{
			Page:       p.Page,
			PageSize:   p.PageSize,
			Total:      p.Total,
			TotalPages: p.TotalPages,
		},
		Totals: totalsJSON{
			All:     p.Totals.All,
			Deleted: p.Totals.Deleted,
			Sentiment: sentimentTotalsJSON{
				Positive: p.Totals.Positive,
				Neutral:  p.Totals.Neutral,
				Negative: p.Totals.Negative,
			},
		},
	}
}

func toSyncResult(r *tracker.SyncResult) syncResultJSON {
	return syncResultJSON{
		VideoID:    r.VideoID,
		Skipped:    r.Skipped,
		SkipReason: r.SkipReason,
		Created:    r.Created,
		Updated:    r.Updated,
		Deleted:    r.Deleted,
		Reinstated: r.Reinstated,
		Edited:     r.Edited,
		Scored:     r.Scored,
	}
}

func toSyncRun(r *sqlc.SyncRun) syncRunJSON {
	return syncRunJSON{
		ID:          r.ID,
		TriggeredBy: r.TriggeredBy,
		StartedAt:   r.StartedAt,
		FinishedAt:  nullTime(r.FinishedAt),
		Status:      r.Status,
		Synced:      r.Synced,
		Skipped:     r.Skipped,
		Failed:      r.Failed,
	}
}

func toComparison(c *tracker.Comparison) comparisonJSON {
	res := c.Aligned
	out := comparisonJSON{
		Video1: videoRefJSON{ID: c.VideoA.ID, Title: c.VideoA.Title},
		Video2: videoRefJSON{ID: c.VideoB.ID, Title: c.VideoB.Title},
		Aligned: alignedJSON{
			Timestamps: res.Timestamps,
			Video1:     toSeries(res.A),
			Video2:     toSeries(res.B),
		},
		Latest: latestJSON{
			Video1: toPoint(res.LatestA),
			Video2: toPoint(res.LatestB),
		},
		Sampling: samplingJSON{
			Strategy:      string(c.Strategy),
			MaxPoints:     c.MaxPoints,
			UnionLength:   res.UnionLength,
			SelectedCount: len(res.Timestamps),
		},
	}
	if out.Aligned.Timestamps == nil {
		out.Aligned.Timestamps = []time.Time{}
	}
	if res.Delta != nil {
		out.Latest.Delta = &deltaJSON{
			Views:    res.Delta.Views,
			Likes:    res.Delta.Likes,
			Comments: res.Delta.Comments,
		}
	}
	return out
}

func toSeries(s align.Series) seriesJSON {
	return seriesJSON{
		ViewCount:    nonNil(s.Views),
		LikeCount:    nonNil(s.Likes),
		CommentCount: nonNil(s.Comments),
	}
}

func toPoint(p *align.Point) *pointJSON {
	if p == nil {
		return nil
	}
	return &pointJSON{
		RecordedAt:   p.At,
		ViewCount:    p.Views,
		LikeCount:    p.Likes,
		CommentCount: p.Comments,
	}
}

func nonNil(v []*int64) []*int64 {
	if v == nil {
		return []*int64{}
	}
	return v
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
