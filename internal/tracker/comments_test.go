package tracker_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"tubetracker/internal/tracker"
)

func TestTrackerService_ListComments(t *testing.T) {
	h := newHarness(t, defaultSettings())
	ctx := context.Background()
	h.scorer.Set("c0", tracker.SentimentPositive, 0.9)
	h.scorer.Set("c1", tracker.SentimentNegative, 0.8)

	var comments []tracker.RemoteComment
	for i := 0; i < 5; i++ {
		comments = append(comments, remote(fmt.Sprintf("C%d", i), fmt.Sprintf("c%d", i), pub.Add(time.Duration(i)*time.Hour)))
	}
	v := h.track(t, "vid1", comments...)

	// C4 disappears.
	h.source.SetComments("vid1", comments[:4]...)
	if _, err := h.svc.Reconcile(ctx, v.ID); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		q         tracker.CommentQuery
		wantIDs   []string
		wantTotal int64
		wantPages int64
	}{
		{
			name:      "active newest first, page 1",
			q:         tracker.CommentQuery{PageSize: 2},
			wantIDs:   []string{"C3", "C2"},
			wantTotal: 4,
			wantPages: 2,
		},
		{
			name:      "page 2",
			q:         tracker.CommentQuery{PageSize: 2, Page: 2},
			wantIDs:   []string{"C1", "C0"},
			wantTotal: 4,
			wantPages: 2,
		},
		{
			name:      "include deleted oldest first",
			q:         tracker.CommentQuery{IncludeDeleted: true, Sort: tracker.SortDateAsc},
			wantIDs:   []string{"C0", "C1", "C2", "C3", "C4"},
			wantTotal: 5,
			wantPages: 1,
		},
		{
			name:      "deleted only",
			q:         tracker.CommentQuery{DeletedOnly: true},
			wantIDs:   []string{"C4"},
			wantTotal: 1,
			wantPages: 1,
		},
		{
			name:      "sentiment filter",
			q:         tracker.CommentQuery{Sentiment: tracker.SentimentNegative},
			wantIDs:   []string{"C1"},
			wantTotal: 1,
			wantPages: 1,
		},
		{
			name:      "unknown sentiment ignored",
			q:         tracker.CommentQuery{Sentiment: "angry", Sort: tracker.SortSentimentPos, PageSize: 2},
			wantIDs:   []string{"C0", "C1"},
			wantTotal: 4,
			wantPages: 2,
		},
		{
			name:      "page past the end",
			q:         tracker.CommentQuery{PageSize: 2, Page: 9},
			wantIDs:   []string{},
			wantTotal: 4,
			wantPages: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := h.svc.ListComments(ctx, v.ID, tt.q)
			if err != nil {
				t.Fatalf("ListComments() error = %v", err)
			}
			got := make([]string, len(page.Items))
			for i, c := range page.Items {
				got[i] = c.CommentID
			}
			if !equalStrings(got, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", got, tt.wantIDs)
			}
			if page.Total != tt.wantTotal || page.TotalPages != tt.wantPages {
				t.Errorf("total = %d/%d pages, want %d/%d", page.Total, page.TotalPages, tt.wantTotal, tt.wantPages)
			}
			if page.Totals.All != 5 || page.Totals.Deleted != 1 || page.Totals.Positive != 1 || page.Totals.Negative != 1 {
				t.Errorf("totals = %+v", page.Totals)
			}
		})
	}
}

func TestTrackerService_ListCommentsPageBounds(t *testing.T) {
	h := newHarness(t, defaultSettings())
	v := h.track(t, "vid1")

	page, err := h.svc.ListComments(context.Background(), v.ID, tracker.CommentQuery{PageSize: 10000, Page: -3})
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if page.Page != 1 || page.PageSize != tracker.MaxPageSize {
		t.Errorf("page = %d size = %d, want 1/%d", page.Page, page.PageSize, tracker.MaxPageSize)
	}

	page, err = h.svc.ListComments(context.Background(), v.ID, tracker.CommentQuery{Page: math.MaxInt, PageSize: tracker.MaxPageSize})
	if err != nil {
		t.Fatalf("ListComments(huge page) error = %v", err)
	}
	if len(page.Items) != 0 || page.Page < 1 {
		t.Errorf("huge page = %d items, page %d; want empty positive page", len(page.Items), page.Page)
	}

	page, _ = h.svc.ListComments(context.Background(), v.ID, tracker.CommentQuery{})
	if page.PageSize != tracker.DefaultPageSize || page.TotalPages != 0 {
		t.Errorf("default page = %+v", page)
	}

	if _, err := h.svc.ListComments(context.Background(), "nope", tracker.CommentQuery{}); !errors.Is(err, tracker.ErrVideoNotFound) {
		t.Errorf("ListComments(missing) error = %v", err)
	}
}

func TestTrackerService_Replies(t *testing.T) {
	h := newHarness(t, defaultSettings())
	r1 := remote("R1", "first reply", pub.Add(time.Hour))
	r1.ParentID = "C1"
	r2 := remote("R2", "second reply", pub.Add(2*time.Hour))
	r2.ParentID = "C1"
	h.track(t, "vid1", remote("C1", "top", pub), r1, r2)

	replies, err := h.svc.Replies(context.Background(), "C1", tracker.CommentQuery{Sort: tracker.SortDateAsc})
	if err != nil {
		t.Fatalf("Replies() error = %v", err)
	}
	if len(replies) != 2 || replies[0].CommentID != "R1" || replies[1].CommentID != "R2" {
		t.Errorf("Replies() = %v", replies)
	}

	if _, err := h.svc.Replies(context.Background(), "", tracker.CommentQuery{}); !errors.Is(err, tracker.ErrInvalidRequest) {
		t.Errorf("Replies(\"\") error = %v", err)
	}
}

func TestTrackerService_Stats(t *testing.T) {
	h := newHarness(t, defaultSettings())
	ctx := context.Background()
	v := h.track(t, "vid1", remote("C1", "a", pub), remote("C2", "b", pub))
	h.track(t, "vid2", remote("C3", "c", pub))

	h.source.SetComments("vid1", remote("C1", "a", pub))
	if _, err := h.svc.Reconcile(ctx, v.ID); err != nil {
		t.Fatal(err)
	}

	stats, err := h.svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalVideos != 2 || stats.TotalComments != 3 || stats.DeletedComments != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
}
