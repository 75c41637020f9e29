package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/kubika/internal/app"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	svc, err := setup(cmd, logToFile)
	if err != nil {
		return err
	}
	defer svc.close()

	svc.logger.Info("starting tui")
	return app.Run(svc.deps())
}
