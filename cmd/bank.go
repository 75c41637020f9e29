package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/kubika/internal/questionbank"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "List questions in the bank (optionally filtered by topic or difficulty)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		topic, _ := cmd.Flags().GetString("topic")
		difficulty, _ := cmd.Flags().GetString("difficulty")

		filter, err := questionbank.ParseFilter(topic, difficulty)
		if err != nil {
			return err
		}
		bank, err := questionbank.Load(cfg.Bank)
		if err != nil {
			return err
		}

		questions := bank.Filter(filter)

		// Header.
		fmt.Printf("%-12s  %-8s  %-6s  %s\n", "ID", "Topic", "Level", "Question")
		fmt.Println(strings.Repeat("─", 100))

		for _, q := range questions {
			text := firstLine(q.Text)
			if r := []rune(text); len(r) > 68 {
				text = string(r[:65]) + "..."
			}
			fmt.Printf("%-12s  %-8s  %-6s  %s\n",
				q.ID, q.Topic.DisplayName(), q.Difficulty.DisplayName(), text)
		}

		fmt.Printf("\n%d questions (%s, %s)\n",
			len(questions), filter.TopicLabel(), filter.DifficultyLabel())
		return nil
	},
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a question bank JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bank, err := questionbank.LoadFile(args[0])
		if err != nil {
			return err
		}
		counts := bank.CountByTopic()
		fmt.Printf("%s: %d questions OK\n", args[0], bank.Len())
		for _, t := range questionbank.AllTopics() {
			if n := counts[t]; n > 0 {
				fmt.Printf("  %-10s %d\n", t.DisplayName(), n)
			}
		}
		return nil
	},
}

func init() {
	bankCmd.Flags().String("topic", "", "Filter by topic (cube, cuboid, cylinder, cone, sphere, prism, pyramid)")
	bankCmd.Flags().String("difficulty", "", "Filter by difficulty (easy, medium, hard)")

	bankCmd.AddCommand(bankValidateCmd)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
