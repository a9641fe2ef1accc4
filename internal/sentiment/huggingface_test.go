package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeHF answers every input with LABEL_2 unless the text contains "bad".
type fakeHF struct {
	mu       sync.Mutex
	requests [][]string
	flat     bool
}

func (f *fakeHF) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") != "Bearer hf_test" {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	if !strings.HasSuffix(r.URL.Path, "/org/model") {
		http.NotFound(w, r)
		return
	}
	var req hfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.requests = append(f.requests, req.Inputs)
	f.mu.Unlock()

	var parts []string
	for _, in := range req.Inputs {
		top, other := "LABEL_2", "LABEL_0"
		if strings.Contains(in, "bad") {
			top, other = other, top
		}
		if f.flat {
			parts = append(parts, fmt.Sprintf(`{"label":%q,"score":0.8}`, top))
			continue
		}
		parts = append(parts, fmt.Sprintf(`[{"label":%q,"score":0.15},{"label":%q,"score":0.8},{"label":"LABEL_1","score":0.05}]`, other, top))
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, "[%s]", strings.Join(parts, ","))
}

func newTestHF(t *testing.T, fake *fakeHF) *HFClient {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	c, err := NewHFClient(srv.URL+"/", "org/model", "hf_test", 5*time.Second)
	if err != nil {
		t.Fatalf("NewHFClient() error = %v", err)
	}
	return c
}

func TestHFClient_ScoreBatch(t *testing.T) {
	for _, flat := range []bool{false, true} {
		t.Run(fmt.Sprintf("flat=%v", flat), func(t *testing.T) {
			fake := &fakeHF{flat: flat}
			c := newTestHF(t, fake)

			texts := []string{"great video", "   ", "bad audio", ""}
			got, err := c.ScoreBatch(context.Background(), texts)
			if err != nil {
				t.Fatalf("ScoreBatch() error = %v", err)
			}
			if len(got) != len(texts) {
				t.Fatalf("ScoreBatch() returned %d results, want %d", len(got), len(texts))
			}
			if got[1] != nil || got[3] != nil {
				t.Errorf("blank texts scored: %v, %v", got[1], got[3])
			}
			if got[0] == nil || got[0].Sentiment != "positive" || got[0].Label != "LABEL_2" || got[0].Score != 0.8 {
				t.Errorf("result[0] = %+v", got[0])
			}
			if got[2] == nil || got[2].Sentiment != "negative" {
				t.Errorf("result[2] = %+v", got[2])
			}
			if len(fake.requests) != 1 || len(fake.requests[0]) != 2 {
				t.Errorf("requests = %v, want one request with 2 inputs", fake.requests)
			}
		})
	}
}

func TestHFClient_BatchingAndTruncation(t *testing.T) {
	fake := &fakeHF{}
	c := newTestHF(t, fake)
	c.batchSize = 2

	texts := []string{strings.Repeat("a", 700), "b", "c", "d", "e"}
	got, err := c.ScoreBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("ScoreBatch() error = %v", err)
	}
	for i, r := range got {
		if r == nil {
			t.Errorf("result[%d] is nil", i)
		}
	}
	if len(fake.requests) != 3 {
		t.Fatalf("requests = %d, want 3", len(fake.requests))
	}
	if n := len(fake.requests[0][0]); n != MaxTextLength {
		t.Errorf("first input sent with %d chars, want %d", n, MaxTextLength)
	}
}

func TestHFClient_Errors(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"Model is loading"}`, http.StatusServiceUnavailable)
		}))
		defer srv.Close()
		c, _ := NewHFClient(srv.URL, "m", "tok", time.Second)
		if _, err := c.ScoreBatch(context.Background(), []string{"x"}); err == nil {
			t.Error("ScoreBatch() should fail on 503")
		}
	})

	t.Run("count mismatch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[{"label":"LABEL_2","score":0.9}]`)
		}))
		defer srv.Close()
		c, _ := NewHFClient(srv.URL, "m", "tok", time.Second)
		if _, err := c.ScoreBatch(context.Background(), []string{"x", "y"}); err == nil {
			t.Error("ScoreBatch() should fail when the response is short")
		}
	})

	t.Run("missing token", func(t *testing.T) {
		if _, err := NewHFClient("http://localhost", "m", "", time.Second); err == nil {
			t.Error("NewHFClient() without token should fail")
		}
	})
}
