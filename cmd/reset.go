package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset a learner's progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := setup(cmd, logToStderr)
		if err != nil {
			return err
		}
		defer svc.close()

		userID, err := svc.userID()
		if err != nil {
			return err
		}
		if err := svc.tracker.Purge(cmd.Context(), userID); err != nil {
			return err
		}
		svc.logger.Info("progress reset", zap.String("user_id", userID))
		fmt.Printf("Progress for %s has been reset.\n", userID)
		return nil
	},
}
