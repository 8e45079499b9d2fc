package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arclight-dev/taskloom/internal/domain"
)

func newSubmitCmd() *cobra.Command {
	var assignee, reasoning string
	var run bool

	cmd := &cobra.Command{
		Use:   "submit <title>",
		Short: "Submit a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newComposition()
			if err != nil {
				return err
			}
			defer c.Close()

			saved, err := c.orch.SubmitTask(domain.Task{
				Title:     args[0],
				Assignee:  assignee,
				Reasoning: reasoning,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "submitted task %s (%s)\n", saved.ID, saved.Status)

			if run {
				result, err := c.orch.RunSession(cmd.Context(), saved.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "session ended: %s\n", result.Ended)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&assignee, "assignee", "", "optional assignee")
	cmd.Flags().StringVar(&reasoning, "reasoning", "", "optional reasoning/context for the task")
	cmd.Flags().BoolVar(&run, "run", false, "immediately drive the task through a session after submitting")
	return cmd
}
