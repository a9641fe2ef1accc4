package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tubetracker/internal/database/sqlc"
	"tubetracker/internal/tracker"
)

func commentQueryFromFlags(cmd *cobra.Command) tracker.CommentQuery {
	deletedOnly, _ := cmd.Flags().GetBool("deleted-only")
	includeDeleted, _ := cmd.Flags().GetBool("include-deleted")
	sentiment, _ := cmd.Flags().GetString("sentiment")
	sort, _ := cmd.Flags().GetString("sort")
	page, _ := cmd.Flags().GetInt("page")
	pageSize, _ := cmd.Flags().GetInt("page-size")
	return tracker.CommentQuery{
		DeletedOnly:    deletedOnly,
		IncludeDeleted: includeDeleted,
		Sentiment:      sentiment,
		Sort:           sort,
		Page:           page,
		PageSize:       pageSize,
	}
}

func addCommentFilterFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("deleted-only", false, "Only show deleted comments")
	cmd.Flags().Bool("include-deleted", true, "Include deleted comments")
	cmd.Flags().String("sentiment", "all", "Filter by sentiment: all, positive, neutral or negative")
	cmd.Flags().String("sort", tracker.SortDateDesc,
		"Sort order: date_desc, date_asc, likes_desc, likes_asc, sentiment_pos or sentiment_neg")
}

func printComment(c *sqlc.Comment) {
	status := c.Status
	if c.ReinstatedAt.Valid && c.Status == tracker.StatusActive {
		status = "reinstated"
	}
	sentiment := "-"
	if c.Sentiment.Valid {
		sentiment = c.Sentiment.String
		if c.SentimentScore.Valid {
			sentiment += fmt.Sprintf(" %.2f", c.SentimentScore.Float64)
		}
	}
	published := ""
	if c.PublishedAt.Valid {
		published = c.PublishedAt.Time.Format(timeFormat)
	}
	text := strings.ReplaceAll(c.Text, "\n", " ")
	fmt.Printf("%s  %-10s  %s  %4d likes  %-14s  %s: %s\n",
		c.CommentID, status, published, c.LikeCount, sentiment, c.Author, text)
}

// comments command
var commentsCmd = &cobra.Command{
	Use:   "comments VIDEO_ID",
	Short: "List a video's comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Comments")
		if err != nil {
			return err
		}
		defer a.Close()

		page, err := a.Comments(cmd.Context(), args[0], commentQueryFromFlags(cmd))
		if err != nil {
			return err
		}
		for _, c := range page.Items {
			printComment(c)
		}
		t := page.Totals
		fmt.Printf("\nPage %d/%d (%d matching)  all=%d deleted=%d positive=%d neutral=%d negative=%d\n",
			page.Page, page.TotalPages, page.Total, t.All, t.Deleted, t.Positive, t.Neutral, t.Negative)
		return nil
	},
}

// replies command
var repliesCmd = &cobra.Command{
	Use:   "replies COMMENT_ID",
	Short: "List the replies to a comment (YouTube comment id)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Replies")
		if err != nil {
			return err
		}
		defer a.Close()

		replies, err := a.Replies(cmd.Context(), args[0], commentQueryFromFlags(cmd))
		if err != nil {
			return err
		}
		if len(replies) == 0 {
			fmt.Println("No replies.")
			return nil
		}
		for _, c := range replies {
			printComment(c)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history COMMENT_ID",
	Short: "View the lifecycle of a comment (internal id)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "CommentHistory")
		if err != nil {
			return err
		}
		defer a.Close()

		events, err := a.CommentHistory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No history recorded.")
			return nil
		}
		for _, e := range events {
			meta := ""
			if e.Meta.Valid {
				meta = "  " + e.Meta.String
			}
			fmt.Printf("%s  %-10s%s\n", e.CreatedAt.Format(timeFormat), e.Action, meta)
		}
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View fleet-wide counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), "Stats")
		if err != nil {
			return err
		}
		defer a.Close()

		st, err := a.Stats(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Videos:           %d\n", st.TotalVideos)
		fmt.Printf("Comments:         %d\n", st.TotalComments)
		fmt.Printf("Deleted comments: %d\n", st.DeletedComments)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commentsCmd)
	addCommentFilterFlags(commentsCmd)
	commentsCmd.Flags().Int("page", 1, "Page number")
	commentsCmd.Flags().Int("page-size", tracker.DefaultPageSize, "Comments per page (max 200)")

	rootCmd.AddCommand(repliesCmd)
	addCommentFilterFlags(repliesCmd)

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
}
