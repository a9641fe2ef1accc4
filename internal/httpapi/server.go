// Package httpapi exposes the tracker service as a JSON API.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"tubetracker/internal/align"
	"tubetracker/internal/tracker"
	"tubetracker/internal/youtube"
)

// Server routes API requests to a TrackerService.
type Server struct {
	svc     *tracker.TrackerService
	logger  tracker.Logger
	metrics *httpMetrics
	router  chi.Router
}

// NewServer builds the router. Request metrics are registered in reg, and
// everything in reg is served at /metrics.
func NewServer(svc *tracker.TrackerService, reg *prometheus.Registry, logger tracker.Logger) (*Server, error) {
	m, err := newHTTPMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("registering http metrics: %w", err)
	}

	s := &Server{svc: svc, logger: logger, metrics: m}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(m.middleware)

	r.Handle("/metrics", metricsHandler(reg))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)
		r.Get("/stats", s.stats)
		r.Get("/sync/runs", s.syncRuns)

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", s.listVideos)
			r.Post("/", s.addVideo)
			r.Get("/compare", s.compare)

			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", s.removeVideo)
				r.Get("/metrics", s.videoMetrics)
				r.Get("/comments", s.listComments)
				r.Post("/sync", s.syncVideo)
			})
		})

		r.Route("/comments/{commentID}", func(r chi.Router) {
			r.Get("/replies", s.replies)
			r.Get("/history", s.history)
		})
	})

	s.router = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// fail writes err with its mapped status. Server-side failures are logged.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeError(w, code, err)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Stats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsJSON{
		TotalVideos:     st.TotalVideos,
		TotalComments:   st.TotalComments,
		DeletedComments: st.DeletedComments,
	})
}

func (s *Server) syncRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.svc.SyncHistory(r.Context(), queryInt(r, "limit", 20))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]syncRunJSON, len(runs))
	for i, run := range runs {
		out[i] = toSyncRun(run)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.svc.ListVideos(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]videoSummaryJSON, len(videos))
	for i, v := range videos {
		out[i] = toVideoSummary(v)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) addVideo(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL     string `json:"url"`
		VideoID string `json:"video_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	input := req.URL
	if input == "" {
		input = req.VideoID
	}
	if input == "" {
		writeError(w, http.StatusBadRequest, errors.New("url or video_id required"))
		return
	}

	video, err := s.svc.AddVideo(r.Context(), youtube.ExtractVideoID(input))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toVideo(video))
}

func (s *Server) removeVideo(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeactivateVideo(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Video removed from tracking"})
}

func (s *Server) videoMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.svc.VideoMetrics(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]metricJSON, len(metrics))
	for i, m := range metrics {
		out[i] = toMetric(m)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cmp, err := s.svc.Compare(r.Context(),
		q.Get("video1"), q.Get("video2"),
		queryInt(r, "max_points", tracker.DefaultMaxPoints),
		align.ParseStrategy(q.Get("strategy")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toComparison(cmp))
}

func commentQuery(r *http.Request) tracker.CommentQuery {
	q := r.URL.Query()
	return tracker.CommentQuery{
		DeletedOnly:    queryBool(r, "deleted_only", false),
		IncludeDeleted: queryBool(r, "include_deleted", true),
		Sentiment:      q.Get("sentiment"),
		Sort:           q.Get("sort"),
		Page:           queryInt(r, "page", 1),
		PageSize:       queryInt(r, "page_size", tracker.DefaultPageSize),
	}
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	page, err := s.svc.ListComments(r.Context(), chi.URLParam(r, "id"), commentQuery(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommentPage(page))
}

func (s *Server) syncVideo(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.SyncVideo(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSyncResult(res))
}

func (s *Server) replies(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.Replies(r.Context(), chi.URLParam(r, "commentID"), commentQuery(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toComments(items))
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	events, err := s.svc.CommentHistory(r.Context(), chi.URLParam(r, "commentID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]historyJSON, len(events))
	for i, e := range events {
		out[i] = toHistory(e)
	}
	writeJSON(w, http.StatusOK, out)
}
