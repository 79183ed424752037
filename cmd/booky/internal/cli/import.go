package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/booky/internal/importer"
)

func newImportCmd(load loader) *cobra.Command {
	var clients bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the document with a JSON file, or add clients from a CSV list",
		Long: `Import reads files in any common text encoding.

By default the file must be a whole JSON document and replaces the stored
one. With --clients the file is a CSV list with a name column, and each
client whose name is not known yet is added.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := load(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			format := importer.FormatDocument
			if clients {
				format = importer.FormatClients
			}

			res, err := app.Import.Import(cmd.Context(), format, f)
			if err != nil {
				return fmt.Errorf("importing %s: %w", args[0], err)
			}

			w := cmd.OutOrStdout()
			if clients {
				fmt.Fprintf(w, "Added %d clients, skipped %d already known\n", res.Clients, res.Skipped)
			} else {
				fmt.Fprintf(w, "Imported %d invoices and %d clients\n", res.Invoices, res.Clients)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&clients, "clients", false, "treat the file as a CSV client list")

	return cmd
}
