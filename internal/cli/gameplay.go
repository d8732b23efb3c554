package cli

import (
	"github.com/spf13/cobra"
)

func newGameplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gameplay",
		Short: "Session lifecycle commands (game-client side)",
		Long: `Session lifecycle commands. All of them require --project-key and
--player-id (or the PLAYTRACE_PROJECT_KEY / PLAYTRACE_PLAYER_ID env vars).`,
	}

	cmd.AddCommand(newGameplayStartCmd())
	cmd.AddCommand(newGameplayHeartbeatCmd())
	cmd.AddCommand(newGameplayEndCmd())

	return cmd
}

func newGameplayStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a play session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session
			if err := client.Post("/api/v1/gameplay/start", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameplayHeartbeatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heartbeat",
		Short: "Renew the open session's liveness",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/gameplay/heartbeat", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Heartbeat accepted")
			return nil
		},
	}
}

func newGameplayEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the open session and credit playtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result EndResult
			if err := client.Post("/api/v1/gameplay/end", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
