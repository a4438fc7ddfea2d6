package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"f2g/internal/fit"

	"github.com/spf13/cobra"
)

// NewInspectCommand prints the contents of a FIT weight file.
func NewInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.fit>",
		Short: "Decode a FIT weight file and print its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args[0])
		},
	}
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func runInspect(out io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f, err := fit.Decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	d := f.Descriptor
	fmt.Fprintf(out, "Protocol %d, profile %d, %d data bytes\n", f.Header.ProtocolVersion, f.Header.ProfileVersion, f.Header.DataSize)
	fmt.Fprintf(out, "File: type=%d manufacturer=%d product=%d serial=%d name=%q created=%s\n",
		d.FileType, d.Manufacturer, d.Product, d.SerialNumber, d.ProductName, formatMillis(d.TimeCreated))
	fmt.Fprintf(out, "%d weight records\n", len(f.Records))
	for _, r := range f.Records {
		fat := "-"
		if r.BodyFatPercent != nil {
			fat = fmt.Sprintf("%.1f%%", *r.BodyFatPercent)
		}
		fmt.Fprintf(out, "  %s  %.2f kg  fat %s\n", formatMillis(r.Timestamp), r.WeightKg, fat)
	}
	return nil
}
