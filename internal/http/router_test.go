package http_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/booky/internal/export"
	bookyHttp "github.com/MrJamesThe3rd/booky/internal/http"
	"github.com/MrJamesThe3rd/booky/internal/http/client"
	"github.com/MrJamesThe3rd/booky/internal/http/document"
	exportHandler "github.com/MrJamesThe3rd/booky/internal/http/export"
	invoiceHandler "github.com/MrJamesThe3rd/booky/internal/http/invoice"
	reportHandler "github.com/MrJamesThe3rd/booky/internal/http/report"
	"github.com/MrJamesThe3rd/booky/internal/invoice"
	"github.com/MrJamesThe3rd/booky/internal/invoice/store"
)

var now = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newServer(t *testing.T) http.Handler {
	t.Helper()

	svc := invoice.NewService(store.NewFile(filepath.Join(t.TempDir(), "data.json"))).
		WithClock(func() time.Time { return now })

	return bookyHttp.New(bookyHttp.Handlers{
		Document: document.NewHandler(svc),
		Export:   exportHandler.NewHandler(export.NewService(svc, export.ModeLegacy)),
		Clients:  client.NewHandler(svc),
		Invoices: invoiceHandler.NewHandler(svc),
		Reports:  reportHandler.NewHandler(svc).WithClock(func() time.Time { return now }),
	}, []string{"*"})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)

		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))

	return v
}

func TestDocument_DefaultAndReplace(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodGet, "/data", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"invoices":[],"clients":[],"template":"[invoice.summary]"}`, rec.Body.String())

	rec = do(t, h, http.MethodPut, "/data", map[string]any{
		"invoices": []any{},
		"clients":  []any{map[string]any{"id": "ABCD1234", "name": "Acme"}},
		"template": "<p>[client.name]</p>",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result":true}`, rec.Body.String())

	doc := decode[invoice.Document](t, do(t, h, http.MethodGet, "/data", nil))
	require.Len(t, doc.Clients, 1)
	assert.Equal(t, "Acme", doc.Clients[0].Name)
	assert.Equal(t, "<p>[client.name]</p>", doc.Template)
}

func TestInvoiceLifecycle(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/api/v1/clients", map[string]string{"name": "Acme"})
	require.Equal(t, http.StatusCreated, rec.Code)
	c := decode[invoice.Client](t, rec)
	assert.Len(t, c.ID, 8)

	rec = do(t, h, http.MethodPost, "/api/v1/invoices", map[string]string{"summary": "Website", "clientId": c.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	inv := decode[invoice.Invoice](t, rec)
	assert.True(t, strings.HasPrefix(inv.ID, "INV"))

	rec = do(t, h, http.MethodPost, "/api/v1/invoices/"+inv.ID+"/items",
		map[string]any{"summary": "Design", "type": "labor", "amount": 500})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/invoices/"+inv.ID+"/items",
		map[string]any{"summary": "Hosting", "type": "expense", "amount": 120, "purchaseDate": "2024-03-02"})
	require.Equal(t, http.StatusCreated, rec.Code)
	hosting := decode[invoice.Item](t, rec)

	rec = do(t, h, http.MethodPatch, "/api/v1/invoices/"+inv.ID,
		map[string]any{"amountPaid": 500, "paidDate": "2024-03-20"})
	require.Equal(t, http.StatusOK, rec.Code)

	totals := decode[map[string]float64](t, do(t, h, http.MethodGet, "/api/v1/invoices/"+inv.ID+"/totals", nil))
	assert.Equal(t, map[string]float64{"amountDue": 620, "expenses": 120, "expectedNet": 500}, totals)

	rec = do(t, h, http.MethodDelete, "/api/v1/clients/"+c.ID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme")

	rec = do(t, h, http.MethodGet, "/api/v1/invoices/"+inv.ID+"/preview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<title>Invoice - "+inv.ID+"</title>")
	assert.True(t, strings.HasSuffix(rec.Body.String(), "Website"))

	monthly := decode[map[string]any](t, do(t, h, http.MethodGet, "/api/v1/reports/monthly?year=2024", nil))
	assert.Equal(t, 500.0, monthly["revenue"].([]any)[2])
	assert.Equal(t, 120.0, monthly["expenses"].([]any)[2])
	assert.Equal(t, 380.0, monthly["income"].([]any)[2])
	assert.Len(t, monthly["datasets"], 3)

	expenses := decode[[]invoice.Item](t, do(t, h, http.MethodGet, "/api/v1/expenses", nil))
	require.Len(t, expenses, 1)
	assert.Equal(t, hosting.ID, expenses[0].ID)

	rec = do(t, h, http.MethodDelete, "/api/v1/invoices/"+inv.ID+"/items/"+hosting.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/invoices/"+inv.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/v1/clients/"+c.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestErrors(t *testing.T) {
	h := newServer(t)

	type testCase struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}

	tests := []testCase{
		{name: "unknown client", method: http.MethodDelete, path: "/api/v1/clients/NOPE0000", want: http.StatusNotFound},
		{name: "unknown invoice", method: http.MethodGet, path: "/api/v1/invoices/INV00000/totals", want: http.StatusNotFound},
		{name: "blank client name", method: http.MethodPost, path: "/api/v1/clients", body: map[string]string{"name": " "}, want: http.StatusBadRequest},
		{name: "bad year", method: http.MethodGet, path: "/api/v1/reports/monthly?year=soon", want: http.StatusBadRequest},
		{name: "missing template", method: http.MethodPut, path: "/api/v1/template", body: map[string]string{}, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestExport(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPut, "/api/v1/template", map[string]string{"template": "<b>[invoice.id]</b>"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/export/csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="booky.zip"`, rec.Header().Get("Content-Disposition"))

	body := rec.Body.Bytes()
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	require.NoError(t, err)
	require.Len(t, zr.File, 4)
	assert.Equal(t, "template.html", zr.File[3].Name)

	rec = do(t, h, http.MethodGet, "/export/xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.Bytes())
}
