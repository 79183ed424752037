package export

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/booky/internal/invoice"
	"github.com/MrJamesThe3rd/booky/internal/report"
)

// File names inside an export bundle.
const (
	InvoicesFile = "invoices.csv"
	ClientsFile  = "clients.csv"
	ExpensesFile = "expenses.csv"
	TemplateFile = "template.html"

	// ArchiveName is the suggested download name of a zipped bundle.
	ArchiveName = "booky.zip"
)

// File is one named text blob of a bundle.
type File struct {
	Name    string
	Content string
}

// Bundle is the set of files handed to an archiver, in a stable order.
type Bundle []File

// Get returns the content of the named file.
func (b Bundle) Get(name string) (string, bool) {
	for _, f := range b {
		if f.Name == name {
			return f.Content, true
		}
	}

	return "", false
}

// Build flattens doc into the invoices, clients and expenses tables plus the
// raw template.
func Build(doc *invoice.Document, mode Mode) (Bundle, error) {
	invoices, err := Encode(mode, doc.Invoices)
	if err != nil {
		return nil, fmt.Errorf("encoding invoices: %w", err)
	}

	clients, err := Encode(mode, doc.Clients)
	if err != nil {
		return nil, fmt.Errorf("encoding clients: %w", err)
	}

	expenses, err := Encode(mode, report.FlattenExpenses(doc.Invoices))
	if err != nil {
		return nil, fmt.Errorf("encoding expenses: %w", err)
	}

	return Bundle{
		{Name: InvoicesFile, Content: invoices},
		{Name: ClientsFile, Content: clients},
		{Name: ExpensesFile, Content: expenses},
		{Name: TemplateFile, Content: doc.Template},
	}, nil
}

// WriteZip packages the bundle as a zip archive.
func WriteZip(w io.Writer, b Bundle) error {
	zw := zip.NewWriter(w)

	for _, f := range b {
		fw, err := zw.Create(f.Name)
		if err != nil {
			return fmt.Errorf("adding %s: %w", f.Name, err)
		}

		if _, err := io.WriteString(fw, f.Content); err != nil {
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}

	return nil
}
