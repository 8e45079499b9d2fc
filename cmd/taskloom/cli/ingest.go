package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest a transcript or PRD into new tasks",
	}
	cmd.AddCommand(newIngestTranscriptCmd(), newIngestPRDCmd())
	return cmd
}

func newIngestTranscriptCmd() *cobra.Command {
	var file, transcriptID string

	cmd := &cobra.Command{
		Use:   "transcript",
		Short: "Extract action-item tasks from a meeting transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(file)
			if err != nil {
				return err
			}

			c, err := newComposition()
			if err != nil {
				return err
			}
			defer c.Close()

			tasks, err := c.orch.IngestTranscript(cmd.Context(), transcriptID, text)
			if err != nil {
				return err
			}
			for _, t := range tasks {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t.ID, t.Title)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the transcript (default: stdin)")
	cmd.Flags().StringVar(&transcriptID, "transcript-id", "", "optional id to tag the source transcript with")
	return cmd
}

func newIngestPRDCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "prd",
		Short: "Extract candidate tasks from a markdown PRD",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(file)
			if err != nil {
				return err
			}

			c, err := newComposition()
			if err != nil {
				return err
			}
			defer c.Close()

			prd, tasks, err := c.orch.IngestPRD(cmd.Context(), text)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "prd %s: %s\n", prd.ID, prd.Title)
			for _, t := range tasks {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t.ID, t.Title)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to the PRD markdown (default: stdin)")
	return cmd
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
