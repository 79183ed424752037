package invoice

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/booky/internal/http/respond"
	"github.com/MrJamesThe3rd/booky/internal/invoice"
	"github.com/MrJamesThe3rd/booky/internal/render"
	"github.com/MrJamesThe3rd/booky/internal/report"
)

type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/totals", h.totals)
	r.Get("/{id}/preview", h.preview)

	r.Route("/{id}/items", func(r chi.Router) {
		r.Post("/", h.addItem)
		r.Patch("/{itemId}", h.updateItem)
		r.Delete("/{itemId}", h.removeItem)
	})
}

type createInvoiceRequest struct {
	Summary  string `json:"summary"`
	ClientID string `json:"clientId"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	inv, err := h.svc.CreateInvoice(r.Context(), invoice.CreateInvoiceParams{
		Summary:  req.Summary,
		ClientID: req.ClientID,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, inv)
}

// amountDue is not patchable; it follows the items.
type updateInvoiceRequest struct {
	Summary    *string       `json:"summary,omitempty"`
	ClientID   *string       `json:"clientId,omitempty"`
	Details    *string       `json:"details,omitempty"`
	DueDate    *invoice.Date `json:"dueDate,omitempty"`
	AmountPaid *float64      `json:"amountPaid,omitempty"`
	PaidDate   *invoice.Date `json:"paidDate,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateInvoiceRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	inv, err := h.svc.UpdateInvoice(r.Context(), chi.URLParam(r, "id"), invoice.InvoicePatch{
		Summary:    req.Summary,
		ClientID:   req.ClientID,
		Details:    req.Details,
		DueDate:    req.DueDate,
		AmountPaid: req.AmountPaid,
		PaidDate:   req.PaidDate,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, inv)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteInvoice(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type itemRequest struct {
	Summary      string       `json:"summary"`
	Type         string       `json:"type"`
	Amount       float64      `json:"amount"`
	PurchaseDate invoice.Date `json:"purchaseDate"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	it, err := h.svc.AddItem(r.Context(), chi.URLParam(r, "id"), invoice.ItemParams{
		Summary:      req.Summary,
		Type:         req.Type,
		Amount:       req.Amount,
		PurchaseDate: req.PurchaseDate,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, it)
}

type updateItemRequest struct {
	Summary      *string       `json:"summary,omitempty"`
	Type         *string       `json:"type,omitempty"`
	Amount       *float64      `json:"amount,omitempty"`
	PurchaseDate *invoice.Date `json:"purchaseDate,omitempty"`
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	it, err := h.svc.UpdateItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemId"), invoice.ItemPatch{
		Summary:      req.Summary,
		Type:         req.Type,
		Amount:       req.Amount,
		PurchaseDate: req.PurchaseDate,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, it)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemId")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) totals(w http.ResponseWriter, r *http.Request) {
	inv, _, err := h.lookup(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, report.Summarize(inv))
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	inv, doc, err := h.lookup(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	html, _ := render.Render(inv, doc.Client(inv.ClientID), doc.Template)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if _, err := w.Write([]byte(html)); err != nil {
		slog.Error("failed to write preview", "error", err)
	}
}

func (h *Handler) lookup(r *http.Request) (*invoice.Invoice, *invoice.Document, error) {
	doc, err := h.svc.Document(r.Context())
	if err != nil {
		return nil, nil, err
	}

	inv := doc.Invoice(chi.URLParam(r, "id"))
	if inv == nil {
		return nil, nil, invoice.ErrInvoiceNotFound
	}

	return inv, doc, nil
}
