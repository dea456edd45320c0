// Package main is the entrypoint of the sparkline CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/sparkline/cmd"
	"github.com/huangsam/sparkline/internal/iocache"
)

func main() {
	os.Exit(run())
}

// run executes the CLI and releases stores and profiles before the process exits.
func run() int {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseStores()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
