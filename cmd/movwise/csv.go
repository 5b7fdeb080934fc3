package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/movwise/internal/config"
	"github.com/verte-zerg/movwise/internal/csvschema"
)

const defaultSampleRows = 5

var (
	validateSchema string
	sampleSchema   string
	sampleRows     int
	sampleOutput   string
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file.csv>",
		Short: "Validate a CSV file against a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSchema(validateSchema)
			if err != nil {
				return err
			}
			return validateFile(cmd.OutOrStdout(), args[0], s)
		},
	}
	cmd.Flags().StringVar(&validateSchema, "schema", "prompts", "built-in schema name or TOML schema file")
	return cmd
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write sample CSV rows for a schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sampleRows <= 0 {
				return fmt.Errorf("--rows must be > 0")
			}
			s, err := resolveSchema(sampleSchema)
			if err != nil {
				return err
			}
			rows := csvschema.GenerateSampleData(s, sampleRows)
			if sampleOutput == "" {
				return csvschema.WriteCSV(cmd.OutOrStdout(), s, rows)
			}
			f, err := os.Create(sampleOutput)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", sampleOutput, err)
			}
			if err := csvschema.WriteCSV(f, s, rows); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", sampleOutput, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sampleSchema, "schema", "prompts", "built-in schema name or TOML schema file")
	cmd.Flags().IntVar(&sampleRows, "rows", defaultSampleRows, "number of rows")
	cmd.Flags().StringVarP(&sampleOutput, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect CSV schemas",
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List built-in schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range csvschema.BuiltinNames() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			}
			return nil
		},
	}
	doc := &cobra.Command{
		Use:   "doc <schema>",
		Short: "Print Markdown documentation for a schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSchema(args[0])
			if err != nil {
				return err
			}
			if _, err := io.WriteString(cmd.OutOrStdout(), csvschema.GenerateDocumentation(s)); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
	cmd.AddCommand(list, doc)
	return cmd
}

// resolveSchema accepts a built-in name, a TOML path, or the name of a TOML file
// in the user schema directory.
func resolveSchema(ref string) (csvschema.Schema, error) {
	s, err := csvschema.Resolve(ref)
	if err == nil {
		return s, nil
	}
	custom := filepath.Join(config.DefaultSchemaDir(), ref+".toml")
	if _, statErr := os.Stat(custom); statErr == nil {
		return csvschema.LoadFile(custom)
	}
	return csvschema.Schema{}, err
}

func validateFile(w io.Writer, path string, s csvschema.Schema) error {
	rows, header, err := csvschema.ReadCSVFile(path)
	if err != nil {
		return err
	}
	if missing := csvschema.MissingColumns(s, header); len(missing) > 0 {
		return fmt.Errorf("%s is missing required columns: %s", path, strings.Join(missing, ", "))
	}
	batch := csvschema.ValidateRows(rows, s)
	report := csvschema.Quality(batch)

	lines := []string{
		fmt.Sprintf("File: %s (schema %s)", path, s.Name),
		fmt.Sprintf("Rows: %d  Valid: %d  Invalid: %d", report.Total, report.Valid, report.Invalid),
		fmt.Sprintf("Quality: %.1f%% (%s)", report.Score, report.Band),
	}
	if len(batch.Errors) > 0 {
		lines = append(lines, "", "Errors:")
		for _, e := range batch.Errors {
			lines = append(lines, "  "+e)
		}
	}
	lines = append(lines, "", "Recommendations:")
	for _, r := range report.Recommendations {
		lines = append(lines, "  - "+r)
	}
	if _, err := fmt.Fprintln(w, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if report.Invalid > 0 {
		return fmt.Errorf("%d of %d rows are invalid", report.Invalid, report.Total)
	}
	return nil
}
