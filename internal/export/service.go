package export

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/booky/internal/invoice"
)

// DocumentSource provides the document being exported.
type DocumentSource interface {
	Document(ctx context.Context) (*invoice.Document, error)
}

type Service struct {
	docs DocumentSource
	mode Mode
}

func NewService(docs DocumentSource, mode Mode) *Service {
	if mode == "" {
		mode = ModeLegacy
	}

	return &Service{docs: docs, mode: mode}
}

// Bundle builds the export files for the current document.
func (s *Service) Bundle(ctx context.Context) (Bundle, error) {
	doc, err := s.docs.Document(ctx)
	if err != nil {
		return nil, err
	}

	return Build(doc, s.mode)
}

// Archive writes the zipped export bundle to w.
func (s *Service) Archive(ctx context.Context, w io.Writer) error {
	b, err := s.Bundle(ctx)
	if err != nil {
		return fmt.Errorf("building bundle: %w", err)
	}

	return WriteZip(w, b)
}

// Workbook writes the spreadsheet export to w.
func (s *Service) Workbook(ctx context.Context, w io.Writer) error {
	doc, err := s.docs.Document(ctx)
	if err != nil {
		return err
	}

	return WriteXLSX(w, doc)
}
