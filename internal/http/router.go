package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/booky/internal/http/client"
	"github.com/MrJamesThe3rd/booky/internal/http/document"
	"github.com/MrJamesThe3rd/booky/internal/http/export"
	"github.com/MrJamesThe3rd/booky/internal/http/invoice"
	"github.com/MrJamesThe3rd/booky/internal/http/report"
)

type Handlers struct {
	Document *document.Handler
	Export   *export.Handler
	Clients  *client.Handler
	Invoices *invoice.Handler
	Reports  *report.Handler
}

func New(h Handlers, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/data", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		h.Document.Routes(r)
	})

	router.Route("/export", h.Export.Routes)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/clients", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Clients.Routes(r)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Invoices.Routes(r)
		})

		r.Route("/template", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Document.TemplateRoutes(r)
		})

		r.Route("/expenses", h.Reports.ExpenseRoutes)
		r.Route("/reports", h.Reports.Routes)
	})

	return router
}
