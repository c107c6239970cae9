package main

import (
	"fmt"
	"os"

	"github.com/MirrorChyan/dxvk-manager/internal/cli"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred flushes happen before exit.
func run() int {
	defer func() {
		_ = zap.L().Sync()
	}()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
