package invoice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	// Load returns the last saved document, or ErrNotFound.
	Load(ctx context.Context) (*Document, error)
	// Save overwrites the stored document.
	Save(ctx context.Context, doc *Document) error
}

// Service owns the load-mutate-save cycle. Saves are last-write-wins; the
// service serializes its own cycles so in-process callers never lose updates.
type Service struct {
	repo Repository
	now  func() time.Time

	mu sync.Mutex
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// WithClock replaces the time source used for created/updated stamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Document returns the stored document, falling back to Default when nothing
// has been saved yet.
func (s *Service) Document(ctx context.Context) (*Document, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Default(), nil
		}

		return nil, fmt.Errorf("loading document: %w", err)
	}

	doc.Normalize()

	return doc, nil
}

// Replace saves doc as the whole document.
func (s *Service) Replace(ctx context.Context, doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc.Normalize()

	if err := s.repo.Save(ctx, doc); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	return nil
}

func (s *Service) CreateClient(ctx context.Context, name string) (*Client, error) {
	var c *Client

	err := s.mutate(ctx, func(d *Document) (err error) {
		c, err = d.AddClient(name, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) UpdateClient(ctx context.Context, id string, p ClientPatch) (*Client, error) {
	var c *Client

	err := s.mutate(ctx, func(d *Document) (err error) {
		c, err = d.UpdateClient(id, p, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) DeleteClient(ctx context.Context, id string) error {
	return s.mutate(ctx, func(d *Document) error {
		return d.DeleteClient(id)
	})
}

func (s *Service) CreateInvoice(ctx context.Context, p CreateInvoiceParams) (*Invoice, error) {
	var inv *Invoice

	err := s.mutate(ctx, func(d *Document) (err error) {
		inv, err = d.AddInvoice(p, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Service) UpdateInvoice(ctx context.Context, id string, p InvoicePatch) (*Invoice, error) {
	var inv *Invoice

	err := s.mutate(ctx, func(d *Document) (err error) {
		inv, err = d.UpdateInvoice(id, p, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	return inv, nil
}

func (s *Service) DeleteInvoice(ctx context.Context, id string) error {
	return s.mutate(ctx, func(d *Document) error {
		return d.DeleteInvoice(id)
	})
}

func (s *Service) AddItem(ctx context.Context, invoiceID string, p ItemParams) (*Item, error) {
	var it Item

	err := s.mutate(ctx, func(d *Document) error {
		added, err := d.AddItem(invoiceID, p, s.now())
		if err != nil {
			return err
		}

		it = *added

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &it, nil
}

func (s *Service) UpdateItem(ctx context.Context, invoiceID, itemID string, p ItemPatch) (*Item, error) {
	var it Item

	err := s.mutate(ctx, func(d *Document) error {
		updated, err := d.UpdateItem(invoiceID, itemID, p, s.now())
		if err != nil {
			return err
		}

		it = *updated

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &it, nil
}

func (s *Service) RemoveItem(ctx context.Context, invoiceID, itemID string) error {
	return s.mutate(ctx, func(d *Document) error {
		return d.RemoveItem(invoiceID, itemID, s.now())
	})
}

func (s *Service) SetTemplate(ctx context.Context, template string) error {
	return s.mutate(ctx, func(d *Document) error {
		d.Template = template
		return nil
	})
}

// Update applies fn to the stored document and saves the result, for changes
// that span several entities at once.
func (s *Service) Update(ctx context.Context, fn func(*Document) error) error {
	return s.mutate(ctx, fn)
}

// Now is the service clock, for callers stamping entities they add through Update.
func (s *Service) Now() time.Time {
	return s.now()
}

// mutate loads the document, applies fn and saves the result. Nothing is
// saved when fn fails, so a rejected change leaves the stored document as it was.
func (s *Service) mutate(ctx context.Context, fn func(*Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.Document(ctx)
	if err != nil {
		return err
	}

	if err := fn(doc); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, doc); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	return nil
}
