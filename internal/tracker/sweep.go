package tracker

import (
	"context"
	"fmt"
	"sync"
)

// Sweep triggers recorded on sync runs.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
	TriggerStartup  = "startup"
)

// SweepResult counts the outcome of a fleet-wide sync.
type SweepResult struct {
	Synced  int
	Skipped int
	Failed  int
}

// SyncAll reconciles every active video with at most Settings.Workers running
// at once. A failing video is logged and counted; it never stops the others.
// The run is recorded in the sync history under trigger.
func (s *TrackerService) SyncAll(ctx context.Context, trigger string) (*SweepResult, error) {
	start := s.now()
	timer := s.metrics.SweepDuration
	defer func() {
		timer.Observe(s.now().Sub(start).Seconds())
	}()

	videos, err := s.database.ListActiveVideos(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing active videos: %w", err)
	}

	runID, err := s.database.CreateSyncRun(ctx, trigger, start)
	if err != nil {
		return nil, err
	}

	s.logger.Info("sweep started", "trigger", trigger, "videos", len(videos), "workers", s.settings.Workers)

	var (
		mu     sync.Mutex
		result SweepResult
		wg     sync.WaitGroup
	)
	jobs := make(chan string)

	for w := 0; w < min(s.settings.Workers, len(videos)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				res, err := s.Reconcile(ctx, id)

				mu.Lock()
				switch {
				case err != nil:
					result.Failed++
				case res.Skipped:
					result.Skipped++
				default:
					result.Synced++
				}
				mu.Unlock()

				if err != nil {
					s.logger.Error("video sync failed", "video", id, "error", err)
				}
			}
		}()
	}

	for _, v := range videos {
		jobs <- v.ID
	}
	close(jobs)
	wg.Wait()

	status := "completed"
	if result.Failed > 0 {
		status = "completed_with_errors"
	}
	if err := s.database.FinishSyncRun(context.WithoutCancel(ctx), runID, s.now(), status, result); err != nil {
		s.logger.Warn("recording sync run failed", "run", runID, "error", err)
	}

	s.logger.Info("sweep finished", "trigger", trigger,
		"synced", result.Synced, "skipped", result.Skipped, "failed", result.Failed)
	return &result, nil
}

// SyncVideo reconciles one video on demand. Unlike a sweep it reports a
// missing video as ErrVideoNotFound.
func (s *TrackerService) SyncVideo(ctx context.Context, id string) (*SyncResult, error) {
	video, err := s.database.FindVideoByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading video: %w", err)
	}
	if video == nil {
		return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, id)
	}
	return s.Reconcile(ctx, id)
}
