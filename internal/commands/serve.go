package commands

import (
	"f2g/internal/di"
	"f2g/internal/structures"

	"github.com/spf13/cobra"
)

// NewServeCommand runs the HTTP conversion service.
func NewServeCommand() *cobra.Command {
	flags := &structures.CliFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the upload and conversion HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := di.InitApp(flags)
			return err
		},
	}

	cmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "Path to the YAML config file")
	cmd.Flags().BoolVarP(&flags.DebugMode, "debug", "d", false, "Also log to the console")
	return cmd
}
