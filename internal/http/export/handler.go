package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/booky/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/csv", h.archive)
	r.Get("/xlsx", h.workbook)
}

func (h *Handler) archive(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.Archive(r.Context(), &buf); err != nil {
		slog.Error("failed to build export archive", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	send(w, buf.Bytes(), "application/zip", export.ArchiveName)
}

func (h *Handler) workbook(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.Workbook(r.Context(), &buf); err != nil {
		slog.Error("failed to build export workbook", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	send(w, buf.Bytes(), xlsxContentType, "booky.xlsx")
}

func send(w http.ResponseWriter, body []byte, contentType, filename string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))

	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}
