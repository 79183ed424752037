package invoice

import "errors"

var (
	// ErrNotFound is returned by a Repository when no document has been saved yet.
	ErrNotFound = errors.New("document not found")

	ErrClientNotFound  = errors.New("client not found")
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrItemNotFound    = errors.New("item not found")

	// ErrClientReferenced rejects deleting a client that is still assigned to an invoice.
	ErrClientReferenced = errors.New("client is assigned to existing invoices")

	ErrInvalidInput = errors.New("invalid input")
)
