package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/booky/internal/invoice"
)

type Service struct {
	docs *invoice.Service
}

func NewService(docs *invoice.Service) *Service {
	return &Service{docs: docs}
}

// Result summarises an import.
type Result struct {
	Invoices int
	Clients  int
	Skipped  int
}

func (s *Service) Import(ctx context.Context, format Format, r io.Reader) (Result, error) {
	switch format {
	case FormatDocument:
		return s.importDocument(ctx, r)
	case FormatClients:
		return s.importClients(ctx, r)
	}

	return Result{}, fmt.Errorf("unknown import format: %s", format)
}

// importDocument replaces the stored document.
func (s *Service) importDocument(ctx context.Context, r io.Reader) (Result, error) {
	doc, err := ParseDocument(r)
	if err != nil {
		return Result{}, err
	}

	if err := s.docs.Replace(ctx, doc); err != nil {
		return Result{}, err
	}

	return Result{Invoices: len(doc.Invoices), Clients: len(doc.Clients)}, nil
}

// importClients appends the listed clients in one save. A client whose name
// already exists is skipped so the same list can be imported twice.
func (s *Service) importClients(ctx context.Context, r io.Reader) (Result, error) {
	rows, err := ParseClients(r)
	if err != nil {
		return Result{}, err
	}

	var res Result

	err = s.docs.Update(ctx, func(d *invoice.Document) error {
		seen := make(map[string]bool, len(d.Clients))
		for _, c := range d.Clients {
			seen[strings.ToLower(c.Name)] = true
		}

		now := s.docs.Now()

		for _, row := range rows {
			key := strings.ToLower(row.Name)
			if seen[key] {
				res.Skipped++
				continue
			}

			c, err := d.AddClient(row.Name, now)
			if err != nil {
				return err
			}

			if _, err := d.UpdateClient(c.ID, row.Patch, now); err != nil {
				return err
			}

			seen[key] = true
			res.Clients++
		}

		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return res, nil
}
