// Command taskloom is the CLI entry point: submit tasks, ingest transcripts
// and PRDs, drive sessions synchronously, or run the Temporal worker.
//
// Grounded on the teacher's cmd/cortex/main.go composition root (config load
// -> logger -> store -> dependent services) and yarlson-ralph's cmd package
// split (the root command built by a constructor, one file per verb).
package main

import (
	"os"

	"github.com/arclight-dev/taskloom/cmd/taskloom/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
