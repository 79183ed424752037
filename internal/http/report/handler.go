package report

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/booky/internal/http/respond"
	"github.com/MrJamesThe3rd/booky/internal/invoice"
	"github.com/MrJamesThe3rd/booky/internal/report"
)

type Handler struct {
	svc *invoice.Service
	now func() time.Time
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// WithClock replaces the clock that anchors the current year.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/monthly", h.monthly)
	r.Get("/yearly", h.yearly)
}

func (h *Handler) ExpenseRoutes(r chi.Router) {
	r.Get("/", h.expenses)
}

type seriesResponse struct {
	report.Series
	Datasets []report.Dataset `json:"datasets"`
}

func toResponse(s report.Series) seriesResponse {
	return seriesResponse{Series: s, Datasets: s.Datasets()}
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	year := h.now().Year()

	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}

		year = y
	}

	doc, err := h.svc.Document(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(report.Monthly(doc.Invoices, year)))
}

func (h *Handler) yearly(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Document(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(report.Yearly(doc.Invoices, h.now())))
}

func (h *Handler) expenses(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Document(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, report.FlattenExpenses(doc.Invoices))
}
