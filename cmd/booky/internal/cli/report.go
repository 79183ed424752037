package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/booky/internal/render"
	"github.com/MrJamesThe3rd/booky/internal/report"
)

func newReportCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print revenue, expenses and income",
	}

	var year int

	monthly := &cobra.Command{
		Use:   "monthly",
		Short: "Per-month totals for one year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := load(cmd)
			if err != nil {
				return err
			}

			doc, err := app.Docs.Document(cmd.Context())
			if err != nil {
				return err
			}

			if year == 0 {
				year = time.Now().Year()
			}

			fmt.Fprintln(cmd.OutOrStdout(), seriesTable(report.Monthly(doc.Invoices, year)))

			return nil
		},
	}
	monthly.Flags().IntVar(&year, "year", 0, "calendar year (default current year)")

	yearly := &cobra.Command{
		Use:   "yearly",
		Short: fmt.Sprintf("Per-year totals for the last %d years", report.YearWindow),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := load(cmd)
			if err != nil {
				return err
			}

			doc, err := app.Docs.Document(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), seriesTable(report.Yearly(doc.Invoices, time.Now())))

			return nil
		},
	}

	cmd.AddCommand(monthly, yearly)

	return cmd
}

func seriesTable(s report.Series) string {
	t := table.New().Headers("Period", "Revenue", "Expenses", "Income")

	for i, label := range s.Labels {
		t.Row(label, render.Money(s.Revenue[i]), render.Money(s.Expenses[i]), render.Money(s.Income[i]))
	}

	return t.Render()
}
