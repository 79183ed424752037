package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/booky/internal/export"
)

func newExportCmd(load loader) *cobra.Command {
	var (
		out  string
		xlsx bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the document as a zip of CSV files or as a spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := load(cmd)
			if err != nil {
				return err
			}

			if out == "" {
				out = export.ArchiveName
				if xlsx {
					out = "booky.xlsx"
				}
			}

			write := app.Export.Archive
			if xlsx {
				write = app.Export.Workbook
			}

			if err := writeFile(out, func(w io.Writer) error {
				return write(cmd.Context(), w)
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)

			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default booky.zip, or booky.xlsx with --xlsx)")
	cmd.Flags().BoolVar(&xlsx, "xlsx", false, "write an XLSX workbook instead of a zip of CSV files")

	return cmd
}

// writeFile creates path and fills it with fn. The file is removed when
// anything fails.
func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	err = fn(f)
	if err != nil {
		err = fmt.Errorf("exporting: %w", err)
	}

	if cerr := f.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing %s: %w", path, cerr)
	}

	if err != nil {
		return errors.Join(err, removeIfExists(path))
	}

	return nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", path, err)
	}

	return nil
}
