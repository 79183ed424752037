package invoice

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// Document is the unit of persistence: every client, every invoice and the
// print template, loaded and saved as a whole.
type Document struct {
	Invoices []*Invoice `json:"invoices"`
	Clients  []*Client  `json:"clients"`
	Template string     `json:"template"`
}

// Default returns the document used before anything has been saved.
func Default() *Document {
	return &Document{
		Invoices: []*Invoice{},
		Clients:  []*Client{},
		Template: DefaultTemplate,
	}
}

// Normalize replaces nil collections with empty ones so the document always
// encodes as arrays, and drops nil entries.
func (d *Document) Normalize() {
	d.Invoices = slices.DeleteFunc(d.Invoices, func(i *Invoice) bool { return i == nil })
	if d.Invoices == nil {
		d.Invoices = []*Invoice{}
	}

	d.Clients = slices.DeleteFunc(d.Clients, func(c *Client) bool { return c == nil })
	if d.Clients == nil {
		d.Clients = []*Client{}
	}

	for _, inv := range d.Invoices {
		if inv.Items == nil {
			inv.Items = []Item{}
		}
	}
}

// Client returns the client with the given id, or nil.
func (d *Document) Client(id string) *Client {
	for _, c := range d.Clients {
		if c.ID == id {
			return c
		}
	}

	return nil
}

// Invoice returns the invoice with the given id, or nil.
func (d *Document) Invoice(id string) *Invoice {
	for _, inv := range d.Invoices {
		if inv.ID == id {
			return inv
		}
	}

	return nil
}

// ClientReferenced reports whether any invoice is assigned to the client.
func (d *Document) ClientReferenced(id string) bool {
	return slices.ContainsFunc(d.Invoices, func(inv *Invoice) bool { return inv.ClientID == id })
}

type ClientPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Company *string
}

type CreateInvoiceParams struct {
	Summary  string
	ClientID string
}

type InvoicePatch struct {
	Summary    *string
	ClientID   *string
	Details    *string
	DueDate    *Date
	AmountPaid *float64
	PaidDate   *Date
}

type ItemParams struct {
	Summary      string
	Type         string
	Amount       float64
	PurchaseDate Date
}

type ItemPatch struct {
	Summary      *string
	Type         *string
	Amount       *float64
	PurchaseDate *Date
}

// AddClient appends a client with only its name set.
func (d *Document) AddClient(name string, now time.Time) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}

	ts := millis(now)
	c := &Client{
		ID:      NewID("", func(id string) bool { return d.Client(id) != nil }),
		Name:    name,
		Created: ts,
		Updated: ts,
	}
	d.Clients = append(d.Clients, c)

	return c, nil
}

func (d *Document) UpdateClient(id string, p ClientPatch, now time.Time) (*Client, error) {
	c := d.Client(id)
	if c == nil {
		return nil, ErrClientNotFound
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: client name is required", ErrInvalidInput)
		}

		c.Name = name
	}

	setNullable(&c.Email, p.Email)
	setNullable(&c.Phone, p.Phone)
	setNullable(&c.Address, p.Address)
	setNullable(&c.Company, p.Company)
	c.Updated = millis(now)

	return c, nil
}

// DeleteClient removes a client. A client still assigned to an invoice is
// rejected before anything changes.
func (d *Document) DeleteClient(id string) error {
	idx := slices.IndexFunc(d.Clients, func(c *Client) bool { return c.ID == id })
	if idx < 0 {
		return ErrClientNotFound
	}

	if d.ClientReferenced(id) {
		return fmt.Errorf("%w: %s must be unassigned from every invoice before it is deleted",
			ErrClientReferenced, d.Clients[idx].Name)
	}

	d.Clients = slices.Delete(d.Clients, idx, idx+1)

	return nil
}

// AddInvoice appends an invoice with no items. The client id is not checked.
func (d *Document) AddInvoice(p CreateInvoiceParams, now time.Time) (*Invoice, error) {
	summary := strings.TrimSpace(p.Summary)
	if summary == "" {
		return nil, fmt.Errorf("%w: invoice summary is required", ErrInvalidInput)
	}

	ts := millis(now)
	inv := &Invoice{
		ID:       NewID(invoicePrefix, func(id string) bool { return d.Invoice(id) != nil }),
		Summary:  summary,
		ClientID: p.ClientID,
		Created:  ts,
		Updated:  ts,
		Items:    []Item{},
	}
	d.Invoices = append(d.Invoices, inv)

	return inv, nil
}

// UpdateInvoice applies the patch. AmountDue is derived and cannot be patched.
func (d *Document) UpdateInvoice(id string, p InvoicePatch, now time.Time) (*Invoice, error) {
	inv := d.Invoice(id)
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}

	if p.AmountPaid != nil {
		if err := checkAmount("amount paid", *p.AmountPaid); err != nil {
			return nil, err
		}
	}

	if p.Summary != nil {
		summary := strings.TrimSpace(*p.Summary)
		if summary == "" {
			return nil, fmt.Errorf("%w: invoice summary is required", ErrInvalidInput)
		}

		inv.Summary = summary
	}

	if p.ClientID != nil {
		inv.ClientID = *p.ClientID
	}

	setNullable(&inv.Details, p.Details)

	if p.DueDate != nil {
		inv.DueDate = *p.DueDate
	}

	if p.AmountPaid != nil {
		inv.AmountPaid = *p.AmountPaid
	}

	if p.PaidDate != nil {
		inv.PaidDate = *p.PaidDate
	}

	inv.Updated = millis(now)

	return inv, nil
}

// DeleteInvoice removes the invoice together with its items.
func (d *Document) DeleteInvoice(id string) error {
	idx := slices.IndexFunc(d.Invoices, func(inv *Invoice) bool { return inv.ID == id })
	if idx < 0 {
		return ErrInvoiceNotFound
	}

	d.Invoices = slices.Delete(d.Invoices, idx, idx+1)

	return nil
}

// AddItem appends an item to the invoice and refreshes its AmountDue.
func (d *Document) AddItem(invoiceID string, p ItemParams, now time.Time) (*Item, error) {
	inv := d.Invoice(invoiceID)
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}

	summary := strings.TrimSpace(p.Summary)
	if summary == "" {
		return nil, fmt.Errorf("%w: item summary is required", ErrInvalidInput)
	}

	if err := checkAmount("item amount", p.Amount); err != nil {
		return nil, err
	}

	ts := millis(now)
	inv.Items = append(inv.Items, Item{
		ID:           NewID("", func(id string) bool { return inv.Item(id) != nil }),
		Summary:      summary,
		Type:         p.Type,
		Amount:       p.Amount,
		PurchaseDate: p.PurchaseDate,
		Created:      ts,
		Updated:      ts,
	})
	inv.RecalculateAmountDue()
	inv.Updated = ts

	return &inv.Items[len(inv.Items)-1], nil
}

func (d *Document) UpdateItem(invoiceID, itemID string, p ItemPatch, now time.Time) (*Item, error) {
	inv := d.Invoice(invoiceID)
	if inv == nil {
		return nil, ErrInvoiceNotFound
	}

	it := inv.Item(itemID)
	if it == nil {
		return nil, ErrItemNotFound
	}

	if p.Amount != nil {
		if err := checkAmount("item amount", *p.Amount); err != nil {
			return nil, err
		}
	}

	if p.Summary != nil {
		summary := strings.TrimSpace(*p.Summary)
		if summary == "" {
			return nil, fmt.Errorf("%w: item summary is required", ErrInvalidInput)
		}

		it.Summary = summary
	}

	if p.Type != nil {
		it.Type = *p.Type
	}

	if p.Amount != nil {
		it.Amount = *p.Amount
	}

	if p.PurchaseDate != nil {
		it.PurchaseDate = *p.PurchaseDate
	}

	ts := millis(now)
	it.Updated = ts
	inv.RecalculateAmountDue()
	inv.Updated = ts

	return it, nil
}

// RemoveItem deletes an item from the invoice and refreshes its AmountDue.
func (d *Document) RemoveItem(invoiceID, itemID string, now time.Time) error {
	inv := d.Invoice(invoiceID)
	if inv == nil {
		return ErrInvoiceNotFound
	}

	idx := slices.IndexFunc(inv.Items, func(it Item) bool { return it.ID == itemID })
	if idx < 0 {
		return ErrItemNotFound
	}

	inv.Items = slices.Delete(inv.Items, idx, idx+1)
	inv.RecalculateAmountDue()
	inv.Updated = millis(now)

	return nil
}

// setNullable assigns v to dst, treating an empty string as null. A nil v
// leaves dst untouched.
func setNullable(dst **string, v *string) {
	if v == nil {
		return
	}

	if *v == "" {
		*dst = nil
		return
	}

	*dst = new(*v)
}

// checkAmount rejects NaN and infinities, which have no decimal form.
func checkAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, field)
	}

	return nil
}
