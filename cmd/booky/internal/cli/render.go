package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/booky/internal/invoice"
	"github.com/MrJamesThe3rd/booky/internal/render"
)

func newRenderCmd(load loader) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "render <invoiceID>",
		Short: "Render an invoice to HTML with the saved template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := load(cmd)
			if err != nil {
				return err
			}

			doc, err := app.Docs.Document(cmd.Context())
			if err != nil {
				return err
			}

			inv := doc.Invoice(args[0])
			if inv == nil {
				return fmt.Errorf("%s: %w", args[0], invoice.ErrInvoiceNotFound)
			}

			html, _ := render.Render(inv, doc.Client(inv.ClientID), doc.Template)

			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), html)
				return nil
			}

			if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s to %s\n", inv.ID, out)

			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write to a file instead of stdout")

	return cmd
}
