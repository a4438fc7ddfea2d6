package main

import (
	"fmt"
	"os"

	"f2g/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "f2g",
		Short: "Convert takeout weight history into FIT files",
		Long: `f2g turns takeout weight exports (JSON) into FIT weight files that
can be imported into fitness platforms.

Run it as an HTTP service with "serve", or convert files locally with
"convert" and check the result with "inspect".`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewConvertCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
