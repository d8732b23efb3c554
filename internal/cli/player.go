package cli

import (
	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Game-client player commands",
	}

	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerMeCmd())
	cmd.AddCommand(newPlayerDataCmd())

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var guest bool

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register the player identified by --player-id",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]bool{"guest": guest}
			var result Player

			if err := client.Post("/api/v1/players", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&guest, "guest", false, "Register as a guest player")

	return cmd
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the player identified by --player-id",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Player
			if err := client.Get("/api/v1/players/me", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Manage the player's custom data",
	}

	var data string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Set the player's custom data",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"data": data}
			var result CustomData

			if err := client.Put("/api/v1/players/data", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
	setCmd.Flags().StringVar(&data, "data", "", "Data blob (required)")
	_ = setCmd.MarkFlagRequired("data")

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Show the player's custom data",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CustomData
			if err := client.Get("/api/v1/players/data", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the player's custom data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/players/data"); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Custom data deleted")
			return nil
		},
	}

	cmd.AddCommand(setCmd)
	cmd.AddCommand(getCmd)
	cmd.AddCommand(deleteCmd)

	return cmd
}
