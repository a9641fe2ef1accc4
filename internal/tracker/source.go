package tracker

import (
	"context"
	"time"
)

// VideoDetails is the remote state of a video at fetch time.
type VideoDetails struct {
	VideoID      string
	Title        string
	ChannelTitle string
	Description  string
	PublishedAt  time.Time
	ThumbnailURL string
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
}

// RemoteComment is one top-level comment or reply as returned by the source.
// ParentID is empty for top-level comments.
type RemoteComment struct {
	CommentID       string
	ParentID        string
	Author          string
	AuthorChannelID string
	Text            string
	LikeCount       int64
	PublishedAt     time.Time
	UpdatedAt       time.Time
}

// VideoSource fetches the current remote state of a video.
type VideoSource interface {
	// FetchVideoDetails returns nil, nil when the video does not exist remotely.
	FetchVideoDetails(ctx context.Context, videoID string) (*VideoDetails, error)

	// FetchComments returns top-level comments followed by their replies, in
	// the order the source delivered them, up to maxResults top-level threads.
	FetchComments(ctx context.Context, videoID string, maxResults int) ([]RemoteComment, error)
}
