package tracker_test

import (
	"context"
	"testing"
	"time"

	"tubetracker/internal/database"
	"tubetracker/internal/database/sqlc"
	"tubetracker/internal/encryption"
	"tubetracker/internal/testutil"
	"tubetracker/internal/tracker"
	"tubetracker/internal/vault"
)

type harness struct {
	db      *database.SQLiteDatabase
	source  *testutil.FakeVideoSource
	scorer  *testutil.FakeScorer
	archive *vault.MemoryVault
	enc     *encryption.TestEncryptor
	clock   *testutil.StubClock
	svc     *tracker.TrackerService
}

func defaultSettings() tracker.Settings {
	return tracker.Settings{
		SentimentEnabled: true,
		MinConfidence:    0.6,
		MaxComments:      100,
		Workers:          2,
	}
}

func newHarness(t *testing.T, settings tracker.Settings) *harness {
	t.Helper()
	h := &harness{
		db:      testutil.NewTestDatabase(t),
		source:  testutil.NewFakeVideoSource(),
		scorer:  testutil.NewFakeScorer(),
		archive: testutil.NewTestArchive(),
		enc:     testutil.NewTestEncryptor(),
		clock:   testutil.FixedClock(),
	}
	h.svc = tracker.NewTrackerService(h.db, h.source, h.scorer, h.archive, h.enc,
		tracker.NewNopLogger(), h.clock, testutil.NewStubIDGenerator(), settings)
	return h
}

func remote(id, text string, published time.Time) tracker.RemoteComment {
	return tracker.RemoteComment{
		CommentID:   id,
		Author:      "author-" + id,
		Text:        text,
		LikeCount:   1,
		PublishedAt: published,
		UpdatedAt:   published,
	}
}

// track registers ytID remotely with comments and adds it.
func (h *harness) track(t *testing.T, ytID string, comments ...tracker.RemoteComment) *sqlc.Video {
	t.Helper()
	h.source.SetVideo(tracker.VideoDetails{
		VideoID:      ytID,
		Title:        "title " + ytID,
		ChannelTitle: "channel",
		ViewCount:    100,
		LikeCount:    10,
		CommentCount: int64(len(comments)),
	})
	h.source.SetComments(ytID, comments...)
	v, err := h.svc.AddVideo(context.Background(), ytID)
	if err != nil {
		t.Fatalf("AddVideo(%s) error = %v", ytID, err)
	}
	return v
}

func (h *harness) comment(t *testing.T, commentID string) *sqlc.Comment {
	t.Helper()
	c, err := h.db.FindCommentByExternalID(context.Background(), commentID)
	if err != nil {
		t.Fatalf("FindCommentByExternalID(%s) error = %v", commentID, err)
	}
	if c == nil {
		t.Fatalf("comment %s not stored", commentID)
	}
	return c
}

func (h *harness) actions(t *testing.T, commentID string) []string {
	t.Helper()
	c := h.comment(t, commentID)
	events, err := h.svc.CommentHistory(context.Background(), c.ID)
	if err != nil {
		t.Fatalf("CommentHistory(%s) error = %v", c.ID, err)
	}
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Action
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
