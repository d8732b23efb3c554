package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Leaderboard read and score submission commands",
	}

	cmd.AddCommand(newLeaderboardGetCmd())
	cmd.AddCommand(newLeaderboardSubmitCmd())

	return cmd
}

func newLeaderboardGetCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "get <leaderboard-id>",
		Short: "Show a page of a leaderboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/leaderboards/" + args[0]
			if page > 0 {
				path += fmt.Sprintf("?page=%d", page)
			}

			var result LeaderboardPage
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number (1-based)")

	return cmd
}

func newLeaderboardSubmitCmd() *cobra.Command {
	var score int64

	cmd := &cobra.Command{
		Use:   "submit <leaderboard-id>",
		Short: "Submit the player's score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int64{"score": score}
			if err := client.Post("/api/v1/leaderboards/"+args[0]+"/scores", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Score submitted")
			return nil
		},
	}

	cmd.Flags().Int64Var(&score, "score", 0, "Score value (required)")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}
