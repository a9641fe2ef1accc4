package tracker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tubetracker/internal/tracker"
)

func TestTrackerService_AddVideo(t *testing.T) {
	t.Run("imports details, metric and comments", func(t *testing.T) {
		h := newHarness(t, defaultSettings())
		h.scorer.Set("love it", tracker.SentimentPositive, 0.95)

		reply := remote("R1", "reply", pub)
		reply.ParentID = "C1"
		v := h.track(t, "vid1", remote("C1", "love it", pub), reply)

		if v.Title != "title vid1" || !v.IsActive || !v.LastSynced.Valid {
			t.Errorf("video = %+v", v)
		}

		summaries, err := h.svc.ListVideos(context.Background())
		if err != nil {
			t.Fatalf("ListVideos() error = %v", err)
		}
		if len(summaries) != 1 || summaries[0].Latest == nil {
			t.Fatalf("ListVideos() = %+v, want one video with a metric", summaries)
		}
		if views, _, comments := tracker.LatestCounts(summaries[0].Latest); views != 100 || comments != 2 {
			t.Errorf("latest counts = %d views, %d comments", views, comments)
		}

		if c := h.comment(t, "C1"); c.Sentiment.String != tracker.SentimentPositive {
			t.Errorf("C1 sentiment = %v, want positive", c.Sentiment)
		}
		if r := h.comment(t, "R1"); r.ParentID.String != "C1" {
			t.Errorf("R1 parent = %v, want C1", r.ParentID)
		}
		if got := h.actions(t, "R1"); !equalStrings(got, []string{tracker.ActionCreated}) {
			t.Errorf("R1 history = %v", got)
		}
	})

	t.Run("rejects empty id", func(t *testing.T) {
		h := newHarness(t, defaultSettings())
		if _, err := h.svc.AddVideo(context.Background(), "  "); !errors.Is(err, tracker.ErrInvalidRequest) {
			t.Errorf("AddVideo(\"\") error = %v, want ErrInvalidRequest", err)
		}
	})

	t.Run("rejects active duplicate", func(t *testing.T) {
		h := newHarness(t, defaultSettings())
		h.track(t, "vid1")
		if _, err := h.svc.AddVideo(context.Background(), "vid1"); !errors.Is(err, tracker.ErrVideoAlreadyTracked) {
			t.Errorf("second AddVideo() error = %v, want ErrVideoAlreadyTracked", err)
		}
	})

	t.Run("reactivates removed video", func(t *testing.T) {
		h := newHarness(t, defaultSettings())
		ctx := context.Background()
		v := h.track(t, "vid1", remote("C1", "a", pub))

		if err := h.svc.DeactivateVideo(ctx, v.ID); err != nil {
			t.Fatalf("DeactivateVideo() error = %v", err)
		}
		if list, _ := h.svc.ListVideos(ctx); len(list) != 0 {
			t.Errorf("ListVideos() after deactivate = %d, want 0", len(list))
		}

		again, err := h.svc.AddVideo(ctx, "vid1")
		if err != nil {
			t.Fatalf("AddVideo() error = %v", err)
		}
		if again.ID != v.ID || !again.IsActive {
			t.Errorf("AddVideo() = %+v, want reactivated %s", again, v.ID)
		}
		if c := h.comment(t, "C1"); c.VideoID != v.ID {
			t.Errorf("history lost: C1 video = %s", c.VideoID)
		}
	})

	t.Run("unknown remote video stores nothing", func(t *testing.T) {
		h := newHarness(t, defaultSettings())
		ctx := context.Background()

		if _, err := h.svc.AddVideo(ctx, "ghost"); !errors.Is(err, tracker.ErrFetchFailed) {
			t.Fatalf("AddVideo(ghost) error = %v, want ErrFetchFailed", err)
		}
		v, err := h.db.FindVideoByExternalID(ctx, "ghost")
		if err != nil || v != nil {
			t.Errorf("FindVideoByExternalID(ghost) = %v, %v; want nil", v, err)
		}
	})
}

func TestTrackerService_VideoNotFound(t *testing.T) {
	h := newHarness(t, defaultSettings())
	ctx := context.Background()

	if _, err := h.svc.GetVideo(ctx, "nope"); !errors.Is(err, tracker.ErrVideoNotFound) {
		t.Errorf("GetVideo() error = %v", err)
	}
	if err := h.svc.DeactivateVideo(ctx, "nope"); !errors.Is(err, tracker.ErrVideoNotFound) {
		t.Errorf("DeactivateVideo() error = %v", err)
	}
	if _, err := h.svc.VideoMetrics(ctx, "nope"); !errors.Is(err, tracker.ErrVideoNotFound) {
		t.Errorf("VideoMetrics() error = %v", err)
	}
	if _, err := h.svc.GetVideo(ctx, ""); !errors.Is(err, tracker.ErrInvalidRequest) {
		t.Errorf("GetVideo(\"\") error = %v", err)
	}
}

func TestTrackerService_VideoMetricsOrder(t *testing.T) {
	h := newHarness(t, defaultSettings())
	ctx := context.Background()
	v := h.track(t, "vid1")

	for i := 0; i < 3; i++ {
		h.clock.Advance(24 * time.Hour)
		if _, err := h.svc.Reconcile(ctx, v.ID); err != nil {
			t.Fatalf("Reconcile() error = %v", err)
		}
	}

	metrics, err := h.svc.VideoMetrics(ctx, v.ID)
	if err != nil {
		t.Fatalf("VideoMetrics() error = %v", err)
	}
	if len(metrics) != 4 {
		t.Fatalf("metrics = %d, want 4", len(metrics))
	}
	for i := 1; i < len(metrics); i++ {
		if !metrics[i].RecordedAt.After(metrics[i-1].RecordedAt) {
			t.Errorf("metrics not ascending at %d", i)
		}
	}
}
