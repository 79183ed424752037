// Package report derives invoice totals and revenue/expense series from the
// document. Revenue is recognised on the paid date, expenses on the purchase
// date of each item, independently of the invoice they sit on.
package report

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/booky/internal/invoice"
)

// YearWindow is the number of years covered by Yearly.
const YearWindow = 5

// InvoiceTotal sums every item of inv, rounds once to two decimals and stores
// the result in inv.AmountDue.
func InvoiceTotal(inv *invoice.Invoice) float64 {
	return inv.RecalculateAmountDue()
}

// ExpenseTotal sums the items of inv that carry a purchase date.
func ExpenseTotal(inv *invoice.Invoice) float64 {
	return invoice.Sum(inv.Items, invoice.Item.IsExpense)
}

// ExpectedNet is the cached AmountDue minus the expense total. A stale
// AmountDue gives a stale net.
func ExpectedNet(inv *invoice.Invoice) float64 {
	f, _ := decimal.NewFromFloat(inv.AmountDue).Sub(decimal.NewFromFloat(ExpenseTotal(inv))).Float64()
	return f
}

// Totals is the per-invoice summary shown next to an invoice.
type Totals struct {
	AmountDue   float64 `json:"amountDue"`
	Expenses    float64 `json:"expenses"`
	ExpectedNet float64 `json:"expectedNet"`
}

// Summarize refreshes AmountDue and then derives the expense total and net
// from it.
func Summarize(inv *invoice.Invoice) Totals {
	due := InvoiceTotal(inv)

	return Totals{
		AmountDue:   due,
		Expenses:    ExpenseTotal(inv),
		ExpectedNet: ExpectedNet(inv),
	}
}

// Series holds one value per bucket for each measure. Income is always
// Revenue minus Expenses.
type Series struct {
	Labels   []string  `json:"labels"`
	Revenue  []float64 `json:"revenue"`
	Expenses []float64 `json:"expenses"`
	Income   []float64 `json:"income"`
}

// Dataset is one line of a chart.
type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// Datasets returns the series in the label/data shape chart widgets consume.
func (s Series) Datasets() []Dataset {
	return []Dataset{
		{Label: "Revenue", Data: s.Revenue},
		{Label: "Expenses", Data: s.Expenses},
		{Label: "Income", Data: s.Income},
	}
}

// Monthly buckets revenue and expenses by calendar month of year.
func Monthly(invoices []*invoice.Invoice, year int) Series {
	labels := make([]string, 12)
	for m := range 12 {
		labels[m] = time.Month(m + 1).String()[:3]
	}

	return aggregate(invoices, labels, func(t time.Time) (int, bool) {
		if t.Year() != year {
			return 0, false
		}

		return int(t.Month()) - 1, true
	})
}

// Yearly buckets revenue and expenses over the five calendar years ending
// with the year of now.
func Yearly(invoices []*invoice.Invoice, now time.Time) Series {
	first := now.Year() - (YearWindow - 1)

	labels := make([]string, YearWindow)
	for i := range YearWindow {
		labels[i] = strconv.Itoa(first + i)
	}

	return aggregate(invoices, labels, func(t time.Time) (int, bool) {
		idx := t.Year() - first
		return idx, idx >= 0 && idx < YearWindow
	})
}

// FlattenExpenses returns every expense item, in invoice order and then item
// order.
func FlattenExpenses(invoices []*invoice.Invoice) []invoice.Item {
	items := []invoice.Item{}

	for _, inv := range invoices {
		for _, it := range inv.Items {
			if it.IsExpense() {
				items = append(items, it)
			}
		}
	}

	return items
}

// aggregate sums paid amounts and expense items into the bucket chosen by
// bucket. Values without a usable date are left out entirely.
func aggregate(invoices []*invoice.Invoice, labels []string, bucket func(time.Time) (int, bool)) Series {
	revenue := make([]decimal.Decimal, len(labels))
	expenses := make([]decimal.Decimal, len(labels))

	for _, inv := range invoices {
		if paid, ok := inv.PaidDate.Time(); ok {
			if idx, ok := bucket(paid); ok {
				revenue[idx] = revenue[idx].Add(decimal.NewFromFloat(inv.AmountPaid))
			}
		}

		for _, it := range inv.Items {
			purchased, ok := it.PurchaseDate.Time()
			if !ok {
				continue
			}

			if idx, ok := bucket(purchased); ok {
				expenses[idx] = expenses[idx].Add(decimal.NewFromFloat(it.Amount))
			}
		}
	}

	s := Series{
		Labels:   labels,
		Revenue:  make([]float64, len(labels)),
		Expenses: make([]float64, len(labels)),
		Income:   make([]float64, len(labels)),
	}

	for i := range labels {
		s.Revenue[i] = revenue[i].InexactFloat64()
		s.Expenses[i] = expenses[i].InexactFloat64()
		s.Income[i] = revenue[i].Sub(expenses[i]).InexactFloat64()
	}

	return s
}
