package testutil

import (
	"context"
	"sync"

	"tubetracker/internal/tracker"
)

// FakeVideoSource serves canned video details and comments.
// Safe for concurrent use.
type FakeVideoSource struct {
	mu       sync.Mutex
	details  map[string]*tracker.VideoDetails
	comments map[string][]tracker.RemoteComment
	errs     map[string]error

	// Gate, when set, is received from before every fetch returns. Tests use
	// it to hold a reconciliation in flight.
	Gate chan struct{}

	// Started, when set, receives the video id as each detail fetch begins.
	Started chan string

	detailCalls  int
	commentCalls int
}

var _ tracker.VideoSource = (*FakeVideoSource)(nil)

func NewFakeVideoSource() *FakeVideoSource {
	return &FakeVideoSource{
		details:  make(map[string]*tracker.VideoDetails),
		comments: make(map[string][]tracker.RemoteComment),
		errs:     make(map[string]error),
	}
}

// SetVideo registers details for a video. Missing videos fetch as nil.
func (s *FakeVideoSource) SetVideo(d tracker.VideoDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details[d.VideoID] = &d
}

// SetComments replaces the remote comment list of a video.
func (s *FakeVideoSource) SetComments(videoID string, comments ...tracker.RemoteComment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[videoID] = append([]tracker.RemoteComment(nil), comments...)
}

// FailWith makes every fetch for videoID return err. A nil err clears it.
func (s *FakeVideoSource) FailWith(videoID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.errs, videoID)
		return
	}
	s.errs[videoID] = err
}

// Calls returns how many detail and comment fetches were made.
func (s *FakeVideoSource) Calls() (details, comments int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detailCalls, s.commentCalls
}

func (s *FakeVideoSource) wait(ctx context.Context, videoID string) error {
	if s.Started != nil {
		s.Started <- videoID
	}
	if s.Gate == nil {
		return nil
	}
	select {
	case <-s.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *FakeVideoSource) FetchVideoDetails(ctx context.Context, videoID string) (*tracker.VideoDetails, error) {
	if err := s.wait(ctx, videoID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detailCalls++
	if err := s.errs[videoID]; err != nil {
		return nil, err
	}
	d, ok := s.details[videoID]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (s *FakeVideoSource) FetchComments(ctx context.Context, videoID string, maxResults int) ([]tracker.RemoteComment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commentCalls++
	if err := s.errs[videoID]; err != nil {
		return nil, err
	}
	out := append([]tracker.RemoteComment(nil), s.comments[videoID]...)
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}
