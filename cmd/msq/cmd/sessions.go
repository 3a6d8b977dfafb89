package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func sessionsCmd() *cobra.Command {
	sessionsRoot := &cobra.Command{
		Use:   "sessions",
		Short: "Manage pagination sessions",
		Long: "Inspect and reset the per-query pagination sessions kept by the\n" +
			"API server.",
	}

	sessionsRoot.AddCommand(
		sessionsListCmd(),
		sessionsResetCmd(),
	)

	return sessionsRoot
}

func sessionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active sessions",
		Example: `  msq sessions list
  msq sessions list --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			infos, err := c.ListSessions(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(infos)
			}
			if len(infos) == 0 {
				fmt.Println("No active sessions.")
				return nil
			}
			return printSessionTable(infos)
		},
	}
}

func sessionsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <query>",
		Short: "Reset the session for a query",
		Long: "Drops the pagination session for a query so the next search\n" +
			"starts from page 1.",
		Example: `  msq sessions reset "thinkpad x260"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.ResetSession(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Session reset for %q.\n", args[0])
			return nil
		},
	}
}
