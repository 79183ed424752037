package importer_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/booky/internal/importer"
	"github.com/MrJamesThe3rd/booky/internal/invoice"
)

func TestParseDocument(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		wantErr bool
	}

	tests := []testCase{
		{
			name:  "valid",
			input: `{"invoices":[{"id":"INV00001","summary":"A","items":[{"id":"I1","amount":5}]}],"clients":[{"id":"C1","name":"Acme"}],"template":"x"}`,
		},
		{name: "not json", input: "invoices,clients", wantErr: true},
		{name: "duplicate client id", input: `{"clients":[{"id":"C1","name":"A"},{"id":"C1","name":"B"}]}`, wantErr: true},
		{name: "missing invoice id", input: `{"invoices":[{"summary":"A"}]}`, wantErr: true},
		{name: "duplicate item id", input: `{"invoices":[{"id":"INV1","items":[{"id":"I"},{"id":"I"}]}]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := importer.ParseDocument(strings.NewReader(tt.input))
			if tt.wantErr {
				assert.ErrorIs(t, err, invoice.ErrInvalidInput)
				return
			}

			require.NoError(t, err)
			assert.Len(t, doc.Invoices, 1)
			assert.Len(t, doc.Clients, 1)
		})
	}
}

func TestParseDocument_Windows1252(t *testing.T) {
	// "Café" with é as the single byte 0xE9.
	input := []byte(`{"clients":[{"id":"C1","name":"Caf` + "\xe9" + `"}],"invoices":[]}`)

	doc, err := importer.ParseDocument(strings.NewReader(string(input)))
	require.NoError(t, err)
	assert.Equal(t, "Café", doc.Clients[0].Name)
}

func TestParseClients(t *testing.T) {
	input := "id,name,email,phone,address,company,created,updated\n" +
		`"AAAA1111","Acme","ap@acme.test","","","Acme Ltd",1,2` + "\n" +
		`"BBBB2222","","","","","",1,2` + "\n" +
		`"CCCC3333","Globex","","555-0100","","",1,2`

	rows, err := importer.ParseClients(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Acme", rows[0].Name)
	assert.Equal(t, "ap@acme.test", *rows[0].Patch.Email)
	assert.Nil(t, rows[0].Patch.Phone)
	assert.Equal(t, "Acme Ltd", *rows[0].Patch.Company)
	assert.Equal(t, "555-0100", *rows[1].Patch.Phone)
}

func TestParseClients_NoNameColumn(t *testing.T) {
	_, err := importer.ParseClients(strings.NewReader("id,email\n1,a@b.c"))
	assert.ErrorIs(t, err, invoice.ErrInvalidInput)
}

func TestService_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	docs := invoice.NewService(repo).WithClock(func() time.Time {
		return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	})
	svc := importer.NewService(docs)

	t.Run("document", func(t *testing.T) {
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d *invoice.Document) error {
			assert.Equal(t, "x", d.Template)
			return nil
		})

		res, err := svc.Import(context.Background(), importer.FormatDocument,
			strings.NewReader(`{"invoices":[],"clients":[{"id":"C1","name":"Acme"}],"template":"x"}`))
		require.NoError(t, err)
		assert.Equal(t, importer.Result{Clients: 1}, res)
	})

	t.Run("clients skip existing names", func(t *testing.T) {
		existing := &invoice.Document{Clients: []*invoice.Client{{ID: "C1", Name: "Acme"}}}
		repo.EXPECT().Load(gomock.Any()).Return(existing, nil)
		repo.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, d *invoice.Document) error {
			require.Len(t, d.Clients, 2)
			assert.Equal(t, "Globex", d.Clients[1].Name)
			assert.Equal(t, "g@globex.test", *d.Clients[1].Email)
			assert.Equal(t, int64(1710496800000), d.Clients[1].Created)

			return nil
		})

		res, err := svc.Import(context.Background(), importer.FormatClients,
			strings.NewReader("name,email\nacme,\nGlobex,g@globex.test\n"))
		require.NoError(t, err)
		assert.Equal(t, importer.Result{Clients: 1, Skipped: 1}, res)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := svc.Import(context.Background(), importer.Format("ofx"), strings.NewReader(""))
		assert.Error(t, err)
	})
}
