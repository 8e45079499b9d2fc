package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arclight-dev/taskloom/internal/flowruntime"
)

func newWorkerCmd() *cobra.Command {
	var hostPort string

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the Temporal worker that drives orchestration sessions durably",
		Long: `Connects to Temporal and registers the orchestration workflow and its
activities, built from the same store- and factory-backed dependencies the
"run" command uses in-process. Blocks until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newComposition()
			if err != nil {
				return err
			}
			defer c.Close()

			broadcast := c.orch.Broadcaster()
			acts := &flowruntime.Activities{
				Store:   c.store,
				Deps:    c.orch.NodeDeps(),
				Emitter: broadcast,
			}

			c.logger.Info("starting temporal worker", "host_port", hostPort)
			if err := flowruntime.StartWorker(hostPort, acts); err != nil {
				return fmt.Errorf("temporal worker: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&hostPort, "temporal", "localhost:7233", "Temporal server host:port")
	return cmd
}
