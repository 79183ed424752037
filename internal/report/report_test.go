package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/booky/internal/invoice"
	"github.com/MrJamesThe3rd/booky/internal/report"
)

func TestInvoiceTotal(t *testing.T) {
	type testCase struct {
		name  string
		items []invoice.Item
		want  float64
	}

	tests := []testCase{
		{name: "Empty", items: nil, want: 0},
		{name: "RoundsOnceAtTheEnd", items: []invoice.Item{{Amount: 0.004}, {Amount: 0.004}}, want: 0.01},
		{name: "Mixed", items: []invoice.Item{{Amount: 100}, {Amount: 20.25, PurchaseDate: "2024-01-02"}}, want: 120.25},
		{name: "FloatNoise", items: []invoice.Item{{Amount: 0.1}, {Amount: 0.2}}, want: 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &invoice.Invoice{AmountDue: -1, Items: tt.items}

			got := report.InvoiceTotal(inv)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, inv.AmountDue, "total is cached on the invoice")
		})
	}
}

func TestExpenseTotal_OnlyPurchasedItems(t *testing.T) {
	inv := &invoice.Invoice{Items: []invoice.Item{
		{Amount: 1000},
		{Amount: 12.345, PurchaseDate: "2024-02-10"},
		{Amount: 7.66, PurchaseDate: "2024-02-11"},
	}}

	assert.Equal(t, 20.01, report.ExpenseTotal(inv))
	assert.Zero(t, report.ExpenseTotal(&invoice.Invoice{Items: []invoice.Item{{Amount: 5}}}))
}

func TestExpectedNet_UsesCachedAmountDue(t *testing.T) {
	inv := &invoice.Invoice{
		AmountDue: 50,
		Items: []invoice.Item{
			{Amount: 100},
			{Amount: 30, PurchaseDate: "2024-02-10"},
		},
	}

	assert.Equal(t, 20.0, report.ExpectedNet(inv), "stale cache gives stale net")

	report.InvoiceTotal(inv)
	assert.Equal(t, 100.0, report.ExpectedNet(inv))
}

func TestSummarize(t *testing.T) {
	inv := &invoice.Invoice{Items: []invoice.Item{
		{Amount: 200},
		{Amount: 45.5, PurchaseDate: "2024-05-05"},
	}}

	got := report.Summarize(inv)

	assert.Equal(t, report.Totals{AmountDue: 245.5, Expenses: 45.5, ExpectedNet: 200}, got)
	assert.Equal(t, 245.5, inv.AmountDue)
}

func TestMonthly_CashBasisScenario(t *testing.T) {
	invoices := []*invoice.Invoice{
		{ID: "INV00001", AmountPaid: 500, PaidDate: "2024-03-14"},
		{ID: "INV00002", Items: []invoice.Item{{Amount: 120, PurchaseDate: "2024-03-02"}}},
	}

	s := report.Monthly(invoices, 2024)

	require.Len(t, s.Labels, 12)
	assert.Equal(t, "Jan", s.Labels[0])
	assert.Equal(t, "Mar", s.Labels[2])
	assert.Equal(t, "Dec", s.Labels[11])

	assert.Equal(t, 500.0, s.Revenue[2])
	assert.Equal(t, 120.0, s.Expenses[2])
	assert.Equal(t, 380.0, s.Income[2])

	for i := range 12 {
		if i == 2 {
			continue
		}

		assert.Zero(t, s.Revenue[i])
		assert.Zero(t, s.Expenses[i])
	}
}

func TestMonthly_ExcludesOtherYearsAndMissingDates(t *testing.T) {
	invoices := []*invoice.Invoice{
		{AmountPaid: 999},
		{AmountPaid: 50, PaidDate: "2023-03-01"},
		{AmountPaid: 70, PaidDate: "not a date"},
		{Items: []invoice.Item{
			{Amount: 10},
			{Amount: 11, PurchaseDate: "2025-03-01"},
			{Amount: 12, PurchaseDate: "2024-12-31"},
		}},
	}

	s := report.Monthly(invoices, 2024)

	assert.Equal(t, make([]float64, 12), s.Revenue)
	assert.Equal(t, 12.0, s.Expenses[11])
	assert.Equal(t, -12.0, s.Income[11])
}

func TestYearly(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	invoices := []*invoice.Invoice{
		{AmountPaid: 100, PaidDate: "2022-06-01"},
		{AmountPaid: 250.5, PaidDate: "2026-01-15", Items: []invoice.Item{{Amount: 40, PurchaseDate: "2025-07-07"}}},
		{AmountPaid: 1000, PaidDate: "2021-12-31"},
		{AmountPaid: 1000, PaidDate: "2027-01-01"},
	}

	s := report.Yearly(invoices, now)

	assert.Equal(t, []string{"2022", "2023", "2024", "2025", "2026"}, s.Labels)
	assert.Equal(t, []float64{100, 0, 0, 0, 250.5}, s.Revenue)
	assert.Equal(t, []float64{0, 0, 0, 40, 0}, s.Expenses)
	assert.Equal(t, []float64{100, 0, 0, -40, 250.5}, s.Income)
}

func TestSeries_IncomeIsRevenueMinusExpenses(t *testing.T) {
	invoices := []*invoice.Invoice{
		{AmountPaid: 10.1, PaidDate: "2024-01-03", Items: []invoice.Item{{Amount: 0.3, PurchaseDate: "2024-01-09"}}},
		{AmountPaid: 99.99, PaidDate: "2024-07-03", Items: []invoice.Item{{Amount: 150, PurchaseDate: "2024-07-04"}}},
		{AmountPaid: 1, PaidDate: "2023-07-03", Items: []invoice.Item{{Amount: 2, PurchaseDate: "2022-07-04"}}},
	}

	for _, s := range []report.Series{
		report.Monthly(invoices, 2024),
		report.Yearly(invoices, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	} {
		for i := range s.Labels {
			assert.InDelta(t, s.Revenue[i]-s.Expenses[i], s.Income[i], 1e-9, "bucket %s", s.Labels[i])
		}
	}
}

func TestFlattenExpenses(t *testing.T) {
	invoices := []*invoice.Invoice{
		{Items: []invoice.Item{{ID: "A"}, {ID: "B", PurchaseDate: "2024-01-01"}, {ID: "C", PurchaseDate: "2024-01-02"}}},
		{Items: nil},
		{Items: []invoice.Item{{ID: "D", PurchaseDate: "2023-05-05"}, {ID: "E"}}},
	}

	got := report.FlattenExpenses(invoices)

	ids := make([]string, 0, len(got))
	for _, it := range got {
		ids = append(ids, it.ID)
	}

	assert.Equal(t, []string{"B", "C", "D"}, ids)
	assert.NotNil(t, report.FlattenExpenses(nil))
}

func TestSeries_Datasets(t *testing.T) {
	s := report.Series{Revenue: []float64{1}, Expenses: []float64{2}, Income: []float64{-1}}

	ds := s.Datasets()

	require.Len(t, ds, 3)
	assert.Equal(t, "Revenue", ds[0].Label)
	assert.Equal(t, []float64{2}, ds[1].Data)
	assert.Equal(t, "Income", ds[2].Label)
}
