// Package importer reads documents and client lists produced outside the
// application, in whatever text encoding they were saved.
package importer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	enc "github.com/MrJamesThe3rd/booky/internal/encoding"
	"github.com/MrJamesThe3rd/booky/internal/invoice"
)

type Format string

const (
	// FormatDocument is a whole JSON document as served by GET /data.
	FormatDocument Format = "document"
	// FormatClients is a CSV client list with a header row, such as clients.csv
	// from an export bundle.
	FormatClients Format = "clients"
)

// ParseDocument decodes a JSON document and checks that identifiers are
// present and unique.
func ParseDocument(r io.Reader) (*invoice.Document, error) {
	body, err := enc.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	var doc invoice.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding document: %v", invoice.ErrInvalidInput, err)
	}

	doc.Normalize()

	if err := validate(&doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

func validate(doc *invoice.Document) error {
	clients := make(map[string]bool, len(doc.Clients))
	for i, c := range doc.Clients {
		if c.ID == "" || clients[c.ID] {
			return fmt.Errorf("%w: client %d has a missing or duplicate id %q", invoice.ErrInvalidInput, i+1, c.ID)
		}

		clients[c.ID] = true
	}

	invoices := make(map[string]bool, len(doc.Invoices))
	for i, inv := range doc.Invoices {
		if inv.ID == "" || invoices[inv.ID] {
			return fmt.Errorf("%w: invoice %d has a missing or duplicate id %q", invoice.ErrInvalidInput, i+1, inv.ID)
		}

		invoices[inv.ID] = true

		items := make(map[string]bool, len(inv.Items))
		for _, it := range inv.Items {
			if it.ID == "" || items[it.ID] {
				return fmt.Errorf("%w: invoice %s has a missing or duplicate item id %q", invoice.ErrInvalidInput, inv.ID, it.ID)
			}

			items[it.ID] = true
		}
	}

	return nil
}

// ClientRow is one parsed line of a client list.
type ClientRow struct {
	Name  string
	Patch invoice.ClientPatch
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// ParseClients reads a client list. Only the name column is required; email,
// phone, address and company are picked up when present. Rows without a name
// are skipped.
func ParseClients(r io.Reader) ([]ClientRow, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	cols := make(colIndex)
	for i, cell := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(cell))] = i
	}

	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("%w: client list has no name column", invoice.ErrInvalidInput)
	}

	var out []ClientRow

	for _, row := range rows[1:] {
		name := cellValue(row, cols, "name")
		if name == "" {
			continue
		}

		out = append(out, ClientRow{
			Name: name,
			Patch: invoice.ClientPatch{
				Email:   optional(row, cols, "email"),
				Phone:   optional(row, cols, "phone"),
				Address: optional(row, cols, "address"),
				Company: optional(row, cols, "company"),
			},
		})
	}

	return out, nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, cols colIndex, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func optional(row []string, cols colIndex, name string) *string {
	v := cellValue(row, cols, name)
	if v == "" {
		return nil
	}

	return &v
}
