// Package youtube fetches video details and comment threads from the
// YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"tubetracker/internal/tracker"
)

// maxPageSize is the API's upper bound for commentThreads.list.
const maxPageSize = 100

// Client implements tracker.VideoSource over the Data API. Every request
// waits on a token bucket so a sweep cannot burn through the quota in a burst.
type Client struct {
	service *youtube.Service
	limiter *rate.Limiter
	logger  tracker.Logger
}

var _ tracker.VideoSource = (*Client)(nil)

// NewClient creates a client authenticated with apiKey. requestsPerSecond <= 0
// disables pacing. Extra options are appended after the key (tests use them to
// point the client at a local server).
func NewClient(ctx context.Context, apiKey string, requestsPerSecond float64, logger tracker.Logger, opts ...option.ClientOption) (*Client, error) {
	if apiKey != "" {
		opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	}
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Client{
		service: service,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}, nil
}

// FetchVideoDetails returns nil, nil when the API knows no such video.
func (c *Client) FetchVideoDetails(ctx context.Context, videoID string) (*tracker.VideoDetails, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.service.Videos.List([]string{"snippet", "statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("videos.list %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}

	item := resp.Items[0]
	d := &tracker.VideoDetails{VideoID: videoID}
	if s := item.Snippet; s != nil {
		d.Title = s.Title
		d.ChannelTitle = s.ChannelTitle
		d.Description = s.Description
		d.PublishedAt = parseTime(s.PublishedAt)
		if s.Thumbnails != nil && s.Thumbnails.High != nil {
			d.ThumbnailURL = s.Thumbnails.High.Url
		}
	}
	if st := item.Statistics; st != nil {
		d.ViewCount = int64(st.ViewCount)
		d.LikeCount = int64(st.LikeCount)
		d.CommentCount = int64(st.CommentCount)
	}
	return d, nil
}

// FetchComments pages through commentThreads with their inline replies until
// the API runs out of pages or at least maxResults comments (replies included)
// have been collected. A video with comments disabled yields an empty list.
func (c *Client) FetchComments(ctx context.Context, videoID string, maxResults int) ([]tracker.RemoteComment, error) {
	var (
		comments []tracker.RemoteComment
		token    string
	)
	pageSize := int64(min(max(maxResults, 1), maxPageSize))

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := c.service.CommentThreads.List([]string{"snippet", "replies"}).
			VideoId(videoID).
			MaxResults(pageSize).
			TextFormat("plainText").
			Context(ctx)
		if token != "" {
			call = call.PageToken(token)
		}

		resp, err := call.Do()
		if err != nil {
			if commentsDisabled(err) {
				c.logger.Warn("comments are disabled", "youtube_id", videoID)
				return []tracker.RemoteComment{}, nil
			}
			return nil, fmt.Errorf("commentThreads.list %s: %w", videoID, err)
		}

		for _, thread := range resp.Items {
			if thread.Snippet == nil || thread.Snippet.TopLevelComment == nil {
				continue
			}
			top := thread.Snippet.TopLevelComment
			comments = append(comments, toRemote(top, ""))

			var replies []*youtube.Comment
			if thread.Replies != nil {
				replies = thread.Replies.Comments
			}
			// Threads carry only a few replies inline.
			if thread.Snippet.TotalReplyCount > int64(len(replies)) {
				replies, err = c.fetchReplies(ctx, top.Id)
				if err != nil {
					return nil, err
				}
			}
			for _, reply := range replies {
				comments = append(comments, toRemote(reply, top.Id))
			}
		}

		token = resp.NextPageToken
		if token == "" || len(comments) >= maxResults {
			return comments, nil
		}
	}
}

// fetchReplies pages through comments.list for every reply to parentID.
func (c *Client) fetchReplies(ctx context.Context, parentID string) ([]*youtube.Comment, error) {
	var (
		replies []*youtube.Comment
		token   string
	)
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := c.service.Comments.List([]string{"snippet"}).
			ParentId(parentID).
			MaxResults(maxPageSize).
			TextFormat("plainText").
			Context(ctx)
		if token != "" {
			call = call.PageToken(token)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("comments.list %s: %w", parentID, err)
		}
		replies = append(replies, resp.Items...)

		token = resp.NextPageToken
		if token == "" {
			return replies, nil
		}
	}
}

func toRemote(c *youtube.Comment, parentID string) tracker.RemoteComment {
	rc := tracker.RemoteComment{CommentID: c.Id, ParentID: parentID}
	s := c.Snippet
	if s == nil {
		return rc
	}
	rc.Author = s.AuthorDisplayName
	if s.AuthorChannelId != nil {
		rc.AuthorChannelID = s.AuthorChannelId.Value
	}
	rc.Text = s.TextDisplay
	if rc.Text == "" {
		rc.Text = s.TextOriginal
	}
	rc.LikeCount = s.LikeCount
	rc.PublishedAt = parseTime(s.PublishedAt)
	rc.UpdatedAt = parseTime(s.UpdatedAt)
	return rc
}

// commentsDisabled reports a 403 whose reason is commentsDisabled. Other 403s
// (quota, forbidden) stay errors so they never read as "all comments gone".
func commentsDisabled(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != 403 {
		return false
	}
	for _, item := range gerr.Errors {
		if item.Reason == "commentsDisabled" {
			return true
		}
	}
	return false
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
