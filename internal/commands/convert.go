package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"f2g/internal/converter"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

const defaultPattern = "weight-*.json"

// NewConvertCommand converts takeout files on disk. Each file is converted
// on its own, so one broken export does not stop the rest.
func NewConvertCommand() *cobra.Command {
	var strategy string
	var outDir string

	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert takeout weight JSON files to FIT",
		Long: `Convert takeout weight JSON files into FIT weight files.

Without arguments every weight-*.json file in the current directory is
converted. Output files are named after the ISO week of the export.

Example:
  f2g convert weight-2024-06-01.json --out fit/
  f2g convert --timestamps logid`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.OutOrStdout(), args, strategy, outDir)
		},
	}

	cmd.Flags().StringVarP(&strategy, "timestamps", "t", string(converter.StrategyDateTime), "Timestamp source: logid or datetime")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory for the produced .fit files")
	return cmd
}

func readInput(path string) (converter.Input, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return converter.Input{}, err
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return converter.Input{}, fmt.Errorf("invalid JSON: %w", err)
	}
	return converter.Input{Name: filepath.Base(path), Data: data}, nil
}

func runConvert(out io.Writer, files []string, strategy, outDir string) error {
	s, err := converter.ParseStrategy(strategy)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		if files, err = filepath.Glob(defaultPattern); err != nil {
			return err
		}
		sort.Strings(files)
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found", defaultPattern)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	c := converter.NewConverter(s)
	taken := make(map[string]bool, len(files))
	created := 0
	for _, path := range files {
		fmt.Fprintf(out, "Processing %s...\n", path)
		in, err := readInput(path)
		if err != nil {
			fmt.Fprintf(out, "  Skipping %s: %s\n", path, err)
			continue
		}
		res, err := c.ConvertOne(in)
		if err != nil {
			fmt.Fprintf(out, "  Skipping %s: %s\n", path, err)
			continue
		}
		for _, skip := range res.Skipped {
			fmt.Fprintf(out, "  Dropped %s\n", skip)
		}

		name := converter.UniqueName(res.Name, taken)
		taken[name] = true
		if err := os.WriteFile(filepath.Join(outDir, name), res.Bytes, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		created++
		fmt.Fprintf(out, "  Created %s with %d weight entries\n", name, res.Records)
	}

	fmt.Fprintf(out, "Converted %d of %d files\n", created, len(files))
	if created == 0 {
		return errors.New("no files converted")
	}
	return nil
}
