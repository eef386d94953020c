// ABOUTME: Entry point for the vm-sizer CLI
// ABOUTME: Command-line tool for migration cluster sizing and CI/CD checks

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/markalston/vm-migration-sizer/cli/cmd"
	"github.com/markalston/vm-migration-sizer/logger"
)

func main() {
	logger.InitWithWriter(os.Stderr, slog.LevelWarn)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
