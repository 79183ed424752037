package invoice

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTemplate is the template of a document that has never been saved.
const DefaultTemplate = "[invoice.summary]"

// Date is a calendar date in YYYY-MM-DD form. The zero value means "not set"
// and is encoded as JSON null.
type Date string

// Time parses the date. Values that are unset or cannot be parsed report false.
func (d Date) Time() (time.Time, bool) {
	if d == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.DateOnly, string(d)); err == nil {
		return t, true
	}

	// Some clients send full timestamps for date inputs.
	if t, err := time.Parse(time.RFC3339, string(d)); err == nil {
		return t, true
	}

	return time.Time{}, false
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("null"), nil
	}

	return json.Marshal(string(d))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	*d = Date(s)

	return nil
}

// Client is the party an invoice is addressed to.
type Client struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Company *string `json:"company"`
	Created int64   `json:"created"`
	Updated int64   `json:"updated"`
}

// Invoice is a bill to a client. AmountDue is a cache of the item total and is
// only written by RecalculateAmountDue.
type Invoice struct {
	ID         string  `json:"id"`
	Summary    string  `json:"summary"`
	ClientID   string  `json:"clientId"`
	Details    *string `json:"details"`
	AmountDue  float64 `json:"amountDue"`
	DueDate    Date    `json:"dueDate"`
	AmountPaid float64 `json:"amountPaid"`
	PaidDate   Date    `json:"paidDate"`
	Created    int64   `json:"created"`
	Updated    int64   `json:"updated"`
	Items      []Item  `json:"items"`
}

// Item is a line on an invoice. An item with a purchase date is a
// reimbursable expense rather than billable revenue.
type Item struct {
	ID           string  `json:"id"`
	Summary      string  `json:"summary"`
	Type         string  `json:"type"`
	Amount       float64 `json:"amount"`
	PurchaseDate Date    `json:"purchaseDate"`
	Created      int64   `json:"created"`
	Updated      int64   `json:"updated"`
}

// IsExpense reports whether the item carries a purchase date.
func (i Item) IsExpense() bool {
	return i.PurchaseDate != ""
}

// Sum adds the amounts of the items accepted by keep (all items when keep is
// nil) and rounds the result to two decimals once, at the end.
func Sum(items []Item, keep func(Item) bool) float64 {
	total := decimal.Zero

	for _, it := range items {
		if keep != nil && !keep(it) {
			continue
		}

		total = total.Add(decimal.NewFromFloat(it.Amount))
	}

	f, _ := total.Round(2).Float64()

	return f
}

// RecalculateAmountDue stores the rounded item total in AmountDue and returns it.
func (inv *Invoice) RecalculateAmountDue() float64 {
	inv.AmountDue = Sum(inv.Items, nil)
	return inv.AmountDue
}

// Item returns the item with the given id, or nil.
func (inv *Invoice) Item(id string) *Item {
	for i := range inv.Items {
		if inv.Items[i].ID == id {
			return &inv.Items[i]
		}
	}

	return nil
}

func millis(t time.Time) int64 {
	return t.UnixMilli()
}
