package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/kubika/internal/questionbank"
	"github.com/abhisek/kubika/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := setup(cmd, logToStderr)
		if err != nil {
			return err
		}
		defer svc.close()

		ctx := cmd.Context()
		userID, err := svc.userID()
		if err != nil {
			return printUsers(ctx, svc)
		}
		limit, _ := cmd.Flags().GetInt("limit")

		agg := svc.tracker.Load(ctx, userID)
		fmt.Printf("Progress for %s\n", userID)
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("%-16s  %8s  %8s  %6s\n", "Topic", "Answered", "Correct", "Score")
		for _, t := range questionbank.AllTopics() {
			tp := agg.TopicProgress[string(t)]
			fmt.Printf("%-16s  %8d  %8d  %5d%%\n",
				t.DisplayName(), tp.Answered, tp.Correct, tp.Percentage())
		}
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("%-16s  %8d  %8d  %5d%%\n",
			"Total", agg.AnsweredQuestions, agg.CorrectAnswers, agg.OverallPercentage())

		last, err := svc.events.LatestAnswerTime(ctx, userID)
		if err != nil {
			return err
		}
		if !last.IsZero() {
			fmt.Printf("Last answer: %s\n", last.Local().Format("2006-01-02 15:04"))
		}

		history, err := svc.events.SessionHistory(ctx, userID, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query session history: %w", err)
		}
		fmt.Printf("\nRecent sessions\n")
		if len(history) == 0 {
			fmt.Println("  none yet")
			return nil
		}
		for _, h := range history {
			pct := 0
			if h.TotalQuestions > 0 {
				pct = h.CorrectAnswers * 100 / h.TotalQuestions
			}
			fmt.Printf("  %s  %-10s %-8s  %2d/%-2d  %3d%%  %ds\n",
				h.Timestamp.Local().Format("2006-01-02 15:04"),
				h.Topic, h.Difficulty,
				h.CorrectAnswers, h.TotalQuestions, pct, h.DurationSecs)
		}
		return nil
	},
}

// printUsers lists learners when no --user is given.
func printUsers(ctx context.Context, svc *services) error {
	users, err := svc.users(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("No learners yet. Pass --user to see one learner's progress.")
		return nil
	}
	fmt.Println("Learners with saved progress (pass --user for details):")
	for _, u := range users {
		agg := svc.tracker.Load(ctx, u)
		fmt.Printf("  %-16s  %4d answered  %3d%%\n", u, agg.AnsweredQuestions, agg.OverallPercentage())
	}
	return nil
}

func init() {
	statsCmd.Flags().Int("limit", 10, "Number of recent sessions to show")
}
