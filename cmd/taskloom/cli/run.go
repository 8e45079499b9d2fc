package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <task-id> [task-id...]",
		Short: "Drive one or more tasks through a session in-process",
		Long: `Loads each task, runs it through the orchestration graph via the
in-process runner (no Temporal worker required), and reports how each
session ended. Multiple task ids run concurrently.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newComposition()
			if err != nil {
				return err
			}
			defer c.Close()

			if len(args) == 1 {
				result, err := c.orch.RunSession(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], result.Ended)
				return nil
			}

			if err := c.orch.RunSessions(cmd.Context(), args); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all sessions complete")
			return nil
		},
	}
	return cmd
}
