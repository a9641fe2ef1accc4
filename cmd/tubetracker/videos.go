package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tubetracker/internal/tracker"
)

const timeFormat = "2006-01-02 15:04:05"

// video command
var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Manage tracked videos",
}

var videoAddCmd = &cobra.Command{
	Use:   "add URL_OR_ID",
	Short: "Start tracking a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "AddVideo")
		if err != nil {
			return err
		}
		defer a.Close()

		v, err := a.AddVideo(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("adding video: %w", err)
		}
		fmt.Printf("Tracking %s (%s) as %s\n", v.Title, v.VideoID, v.ID)
		return nil
	},
}

var videoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked videos",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "ListVideos")
		if err != nil {
			return err
		}
		defer a.Close()

		videos, err := a.ListVideos(cmd.Context())
		if err != nil {
			return err
		}
		if len(videos) == 0 {
			fmt.Println("No videos tracked.")
			return nil
		}

		for _, s := range videos {
			views, likes, comments := tracker.LatestCounts(s.Latest)
			synced := "never"
			if s.Video.LastSynced.Valid {
				synced = s.Video.LastSynced.Time.Format(timeFormat)
			}
			fmt.Printf("%s  %-11s  %10d views  %8d likes  %7d comments  synced %s  %s\n",
				s.Video.ID, s.Video.VideoID, views, likes, comments, synced, s.Video.Title)
		}
		return nil
	},
}

var videoRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Stop tracking a video (history is kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "RemoveVideo")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.RemoveVideo(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Stopped tracking %s\n", args[0])
		return nil
	},
}

// sync command
var syncCmd = &cobra.Command{
	Use:   "sync [ID]",
	Short: "Reconcile one video, or every tracked video",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Sync")
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 0 {
			res, err := a.SyncAll(cmd.Context())
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}
			fmt.Printf("Synced %d, skipped %d, failed %d\n", res.Synced, res.Skipped, res.Failed)
			return nil
		}

		res, err := a.SyncVideo(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		if res.Skipped {
			fmt.Printf("Skipped %s: %s\n", res.VideoID, res.SkipReason)
			return nil
		}
		fmt.Printf("Synced %s: %d new, %d updated, %d deleted, %d reinstated, %d edited, %d scored\n",
			res.VideoID, res.Created, res.Updated, res.Deleted, res.Reinstated, res.Edited, res.Scored)
		return nil
	},
}

// runs command
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "View sync run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd.Context(), "SyncRuns")
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.SyncRuns(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No sync runs recorded.")
			return nil
		}

		for _, r := range runs {
			duration := ""
			if r.FinishedAt.Valid {
				duration = r.FinishedAt.Time.Sub(r.StartedAt).Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-9s  %s  %-21s  synced=%d skipped=%d failed=%d  %s\n",
				r.ID,
				r.TriggeredBy,
				r.StartedAt.Format(timeFormat),
				r.Status,
				r.Synced, r.Skipped, r.Failed,
				duration,
			)
		}
		return nil
	},
}

// compare command
var compareCmd = &cobra.Command{
	Use:   "compare ID1 ID2",
	Short: "Compare the metric histories of two videos",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxPoints, _ := cmd.Flags().GetInt("max-points")
		strategy, _ := cmd.Flags().GetString("strategy")

		a, err := newApp(cmd.Context(), "Compare")
		if err != nil {
			return err
		}
		defer a.Close()

		cmp, err := a.Compare(cmd.Context(), args[0], args[1], maxPoints, strategy)
		if err != nil {
			return err
		}
		res := cmp.Aligned

		fmt.Printf("A: %s\nB: %s\n", cmp.VideoA.Title, cmp.VideoB.Title)
		fmt.Printf("%d of %d timestamps (%s)\n\n", len(res.Timestamps), res.UnionLength, cmp.Strategy)
		fmt.Printf("%-19s  %12s  %12s\n", "recorded", "views A", "views B")
		for i, ts := range res.Timestamps {
			fmt.Printf("%-19s  %12s  %12s\n", ts.Format(timeFormat), cell(res.A.Views[i]), cell(res.B.Views[i]))
		}
		if res.Delta != nil {
			fmt.Printf("\nLatest B-A: views %+d, likes %+d, comments %+d\n",
				res.Delta.Views, res.Delta.Likes, res.Delta.Comments)
		}
		return nil
	},
}

func cell(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func init() {
	videoCmd.AddCommand(videoAddCmd)
	videoCmd.AddCommand(videoListCmd)
	videoCmd.AddCommand(videoRemoveCmd)
	rootCmd.AddCommand(videoCmd)

	rootCmd.AddCommand(syncCmd)

	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show")

	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Int("max-points", tracker.DefaultMaxPoints, "Maximum timestamps to show (0 for all)")
	compareCmd.Flags().String("strategy", "cover_both", "Downsampling strategy: even or cover_both")
}
