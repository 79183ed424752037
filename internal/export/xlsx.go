package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/booky/internal/invoice"
	"github.com/MrJamesThe3rd/booky/internal/report"
)

// Worksheet names of the workbook export.
const (
	InvoicesSheet = "Invoices"
	ClientsSheet  = "Clients"
	ExpensesSheet = "Expenses"
)

// WriteXLSX writes the three export tables as worksheets of one workbook.
// Numbers stay numeric so the sheet can be summed directly.
func WriteXLSX(w io.Writer, doc *invoice.Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), InvoicesSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	for _, name := range []string{ClientsSheet, ExpensesSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("adding sheet %s: %w", name, err)
		}
	}

	if err := writeSheet(f, InvoicesSheet, doc.Invoices); err != nil {
		return err
	}

	if err := writeSheet(f, ClientsSheet, doc.Clients); err != nil {
		return err
	}

	if err := writeSheet(f, ExpensesSheet, report.FlattenExpenses(doc.Invoices)); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}

func writeSheet[T any](f *excelize.File, sheet string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}

	cols := columns(rows[0])

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}

	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for r, row := range rows {
		cells := values(row, cols)
		for i, v := range cells {
			if v == nil {
				cells[i] = ""
			}
		}

		if err := setRow(f, sheet, r+2, cells); err != nil {
			return err
		}
	}

	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("locating row %d: %w", row, err)
	}

	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}

	return nil
}
