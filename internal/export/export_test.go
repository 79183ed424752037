package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/booky/internal/export"
	"github.com/MrJamesThe3rd/booky/internal/invoice"
)

type pair struct {
	A int    `json:"a"`
	B string `json:"b"`
}

func sampleDocument() *invoice.Document {
	return &invoice.Document{
		Invoices: []*invoice.Invoice{
			{
				ID:        "INV00001",
				Summary:   "Build",
				ClientID:  "C1",
				AmountDue: 1500,
				DueDate:   "2024-04-01",
				Created:   1,
				Updated:   2,
				Items: []invoice.Item{
					{ID: "I1", Summary: "Design", Type: "labor", Amount: 1200},
					{ID: "I2", Summary: "Hosting", Type: "expense", Amount: 300, PurchaseDate: "2024-03-02"},
				},
			},
			{
				ID:      "INV00002",
				Summary: "Support",
				Items: []invoice.Item{
					{ID: "I3", Summary: "Domain", Type: "expense", Amount: 15, PurchaseDate: "2024-05-10"},
				},
			},
		},
		Clients: []*invoice.Client{
			{ID: "C1", Name: "Acme", Email: new("ap@acme.test")},
		},
		Template: "<h1>[invoice.summary]</h1>",
	}
}

func TestToCSV(t *testing.T) {
	type testCase struct {
		name string
		rows []pair
		want string
	}

	tests := []testCase{
		{name: "no rows", rows: nil, want: ""},
		{name: "single row", rows: []pair{{A: 1, B: "x"}}, want: "a,b\n1,\"x\""},
		{name: "numeric strings stay bare", rows: []pair{{A: 2, B: "3.5"}}, want: "a,b\n2,3.5"},
		{name: "no escaping", rows: []pair{{A: 0, B: `say "hi", ok`}}, want: "a,b\n0,\"say \"hi\", ok\""},
		{name: "many rows", rows: []pair{{A: 1, B: "x"}, {A: 2, B: "y"}}, want: "a,b\n1,\"x\"\n2,\"y\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, export.ToCSV(tt.rows))
		})
	}
}

func TestToCSV_Invoices(t *testing.T) {
	doc := sampleDocument()

	got := export.ToCSV(doc.Invoices[:1])

	want := "id,summary,clientId,details,amountDue,dueDate,amountPaid,paidDate,created,updated\n" +
		`"INV00001","Build","C1","",1500,"2024-04-01",0,"",1,2`
	assert.Equal(t, want, got)
}

func TestToStrictCSV(t *testing.T) {
	got, err := export.ToStrictCSV([]pair{{A: 1, B: `say "hi", ok`}, {A: 2, B: "plain"}})
	require.NoError(t, err)

	assert.Equal(t, "a,b\n1,\"say \"\"hi\"\", ok\"\n2,plain\n", got)

	empty, err := export.ToStrictCSV([]pair{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEncode_UnknownMode(t *testing.T) {
	_, err := export.Encode(export.Mode("tsv"), []pair{{A: 1}})
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	b, err := export.Build(sampleDocument(), export.ModeLegacy)
	require.NoError(t, err)

	names := make([]string, len(b))
	for i, f := range b {
		names[i] = f.Name
	}

	assert.Equal(t, []string{"invoices.csv", "clients.csv", "expenses.csv", "template.html"}, names)

	expenses, ok := b.Get(export.ExpensesFile)
	require.True(t, ok)
	assert.Equal(t,
		"id,summary,type,amount,purchaseDate,created,updated\n"+
			`"I2","Hosting","expense",300,"2024-03-02",0,0`+"\n"+
			`"I3","Domain","expense",15,"2024-05-10",0,0`,
		expenses)

	clients, _ := b.Get(export.ClientsFile)
	assert.Equal(t,
		"id,name,email,phone,address,company,created,updated\n"+
			`"C1","Acme","ap@acme.test","","","",0,0`,
		clients)

	tmpl, _ := b.Get(export.TemplateFile)
	assert.Equal(t, "<h1>[invoice.summary]</h1>", tmpl)
}

func TestBuild_EmptyDocument(t *testing.T) {
	b, err := export.Build(invoice.Default(), export.ModeStrict)
	require.NoError(t, err)

	for _, name := range []string{export.InvoicesFile, export.ClientsFile, export.ExpensesFile} {
		content, ok := b.Get(name)
		require.True(t, ok)
		assert.Empty(t, content, name)
	}

	tmpl, _ := b.Get(export.TemplateFile)
	assert.Equal(t, invoice.DefaultTemplate, tmpl)
}

func TestWriteZip(t *testing.T) {
	b, err := export.Build(sampleDocument(), export.ModeLegacy)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.WriteZip(&buf, b))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 4)

	for i, f := range zr.File {
		assert.Equal(t, b[i].Name, f.Name)

		rc, err := f.Open()
		require.NoError(t, err)

		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()

		assert.Equal(t, b[i].Content, string(content))
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, sampleDocument()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Invoices", "Clients", "Expenses"}, f.GetSheetList())

	rows, err := f.GetRows(export.InvoicesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "INV00001", rows[1][0])

	due, err := f.GetCellValue(export.InvoicesSheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "1500", due)

	expenses, err := f.GetRows(export.ExpensesSheet)
	require.NoError(t, err)
	assert.Len(t, expenses, 3)
}

func TestService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	svc := export.NewService(invoice.NewService(repo), export.ModeLegacy)

	t.Run("archive", func(t *testing.T) {
		repo.EXPECT().Load(gomock.Any()).Return(sampleDocument(), nil)

		var buf bytes.Buffer
		require.NoError(t, svc.Archive(context.Background(), &buf))

		zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		require.NoError(t, err)
		assert.Len(t, zr.File, 4)
	})

	t.Run("nothing saved yet", func(t *testing.T) {
		repo.EXPECT().Load(gomock.Any()).Return(nil, invoice.ErrNotFound)

		b, err := svc.Bundle(context.Background())
		require.NoError(t, err)

		tmpl, _ := b.Get(export.TemplateFile)
		assert.Equal(t, invoice.DefaultTemplate, tmpl)
	})

	t.Run("load failure", func(t *testing.T) {
		repo.EXPECT().Load(gomock.Any()).Return(nil, errors.New("disk gone"))

		var buf bytes.Buffer
		err := svc.Workbook(context.Background(), &buf)
		assert.ErrorContains(t, err, "disk gone")
	})
}
