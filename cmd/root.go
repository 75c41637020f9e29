package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/kubika/internal/config"
	"github.com/abhisek/kubika/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "kubika",
	Short: "Geometry quiz for solid figures",
	Long:  "Kubika: terminal quiz for practising surface area and volume of 3D shapes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides KUBIKA_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides KUBIKA_CONFIG env var)")
	rootCmd.PersistentFlags().String("user", "", "Learner name (overrides KUBIKA_USER env var)")
	rootCmd.PersistentFlags().String("bank", "", "Path to a question bank JSON file (default: built-in bank)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(bankCmd)
	rootCmd.AddCommand(calcCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db or KUBIKA_DB (already
// folded into cfg), then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if p := cfg.Storage.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}
