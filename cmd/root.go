package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set during build using ldflags
var Version = "dev"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "depcheck",
	Short:   "Finds declared dependencies that are never used",
	Long:    `depcheck scans a project's source files for require() calls and import declarations and reports the dependencies in package.json that none of them reference.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, ErrUnusedFound) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
