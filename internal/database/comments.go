package database

import (
	"context"
	"fmt"
	"strings"

	"tubetracker/internal/database/sqlc"
	"tubetracker/internal/tracker"
)

const commentColumns = `id, video_id, comment_id, parent_id, author, author_channel_id, text, like_count,
published_at, updated_at, status, deleted_at, first_seen, last_seen, reinstated_at,
sentiment, sentiment_score, sentiment_label`

// commentOrder maps a sort key to its ORDER BY clause. Keys not listed here
// sort newest first. The trailing id keeps pagination stable.
var commentOrder = map[string]string{
	tracker.SortDateDesc:  "published_at DESC, id",
	tracker.SortDateAsc:   "published_at ASC, id",
	tracker.SortLikesDesc: "like_count DESC, id",
	tracker.SortLikesAsc:  "like_count ASC, id",
	tracker.SortSentimentPos: `CASE sentiment WHEN 'positive' THEN 1 WHEN 'neutral' THEN 2 WHEN 'negative' THEN 3 ELSE 4 END,
		sentiment_score IS NULL, sentiment_score DESC, id`,
	tracker.SortSentimentNeg: `CASE sentiment WHEN 'negative' THEN 1 WHEN 'neutral' THEN 2 WHEN 'positive' THEN 3 ELSE 4 END,
		sentiment_score IS NULL, sentiment_score ASC, id`,
}

// QueryComments builds the listing query by hand: sqlc cannot express the
// optional filters and the selectable ORDER BY.
func (s *SQLiteDatabase) QueryComments(ctx context.Context, f tracker.CommentFilter) ([]*sqlc.Comment, int64, error) {
	var (
		where []string
		args  []any
	)

	switch {
	case f.ParentID != "":
		where = append(where, "parent_id = ?")
		args = append(args, f.ParentID)
	case f.VideoID != "":
		where = append(where, "video_id = ?")
		args = append(args, f.VideoID)
	default:
		return nil, 0, fmt.Errorf("comment query needs a video or parent id")
	}

	if f.DeletedOnly {
		where = append(where, "status = 'deleted'")
	} else if !f.IncludeDeleted {
		where = append(where, "status = 'active'")
	}

	switch f.Sentiment {
	case tracker.SentimentPositive, tracker.SentimentNeutral, tracker.SentimentNegative:
		where = append(where, "sentiment = ?")
		args = append(args, f.Sentiment)
	}

	cond := strings.Join(where, " AND ")

	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting comments: %w", err)
	}

	order, ok := commentOrder[f.Sort]
	if !ok {
		order = commentOrder[tracker.SortDateDesc]
	}

	query := "SELECT " + commentColumns + " FROM comments WHERE " + cond + " ORDER BY " + order
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying comments: %w", err)
	}
	defer rows.Close()

	var result []*sqlc.Comment
	for rows.Next() {
		var c sqlc.Comment
		if err := rows.Scan(
			&c.ID,
			&c.VideoID,
			&c.CommentID,
			&c.ParentID,
			&c.Author,
			&c.AuthorChannelID,
			&c.Text,
			&c.LikeCount,
			&c.PublishedAt,
			&c.UpdatedAt,
			&c.Status,
			&c.DeletedAt,
			&c.FirstSeen,
			&c.LastSeen,
			&c.ReinstatedAt,
			&c.Sentiment,
			&c.SentimentScore,
			&c.SentimentLabel,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning comment: %w", err)
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating comments: %w", err)
	}

	return result, total, nil
}
