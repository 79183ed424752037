package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/booky/internal/config"
	"github.com/MrJamesThe3rd/booky/internal/export"
	bookyHttp "github.com/MrJamesThe3rd/booky/internal/http"
	clientHandler "github.com/MrJamesThe3rd/booky/internal/http/client"
	documentHandler "github.com/MrJamesThe3rd/booky/internal/http/document"
	exportHandler "github.com/MrJamesThe3rd/booky/internal/http/export"
	invoiceHandler "github.com/MrJamesThe3rd/booky/internal/http/invoice"
	reportHandler "github.com/MrJamesThe3rd/booky/internal/http/report"
	"github.com/MrJamesThe3rd/booky/internal/invoice"
	"github.com/MrJamesThe3rd/booky/internal/invoice/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	repo, closeStore, err := store.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	var (
		invoiceService = invoice.NewService(repo)
		exportService  = export.NewService(invoiceService, export.Mode(cfg.Export.CSVMode))
	)

	router := bookyHttp.New(bookyHttp.Handlers{
		Document: documentHandler.NewHandler(invoiceService),
		Export:   exportHandler.NewHandler(exportService),
		Clients:  clientHandler.NewHandler(invoiceService),
		Invoices: invoiceHandler.NewHandler(invoiceService),
		Reports:  reportHandler.NewHandler(invoiceService),
	}, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
