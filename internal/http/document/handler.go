package document

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/booky/internal/http/respond"
	"github.com/MrJamesThe3rd/booky/internal/invoice"
)

// Handler serves the whole document and its template.
type Handler struct {
	svc *invoice.Service
}

func NewHandler(svc *invoice.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.replace)
}

func (h *Handler) TemplateRoutes(r chi.Router) {
	r.Put("/", h.setTemplate)
}

type resultResponse struct {
	Result bool `json:"result"`
}

// get never fails: a document that cannot be loaded is logged and the
// default document is served so the client can still start.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.Document(r.Context())
	if err != nil {
		slog.Error("failed to load document", "error", err)

		doc = invoice.Default()
	}

	respond.JSON(w, http.StatusOK, doc)
}

func (h *Handler) replace(w http.ResponseWriter, r *http.Request) {
	var doc invoice.Document
	if !respond.Decode(w, r, &doc) {
		return
	}

	if err := h.svc.Replace(r.Context(), &doc); err != nil {
		slog.Error("failed to save document", "error", err)
		respond.JSON(w, http.StatusInternalServerError, resultResponse{Result: false})

		return
	}

	respond.JSON(w, http.StatusOK, resultResponse{Result: true})
}

type templateRequest struct {
	Template *string `json:"template"`
}

func (h *Handler) setTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if req.Template == nil {
		http.Error(w, "template is required", http.StatusBadRequest)
		return
	}

	if err := h.svc.SetTemplate(r.Context(), *req.Template); err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, resultResponse{Result: true})
}
