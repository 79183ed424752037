package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/booky/internal/config"
	"github.com/MrJamesThe3rd/booky/internal/export"
	"github.com/MrJamesThe3rd/booky/internal/importer"
	"github.com/MrJamesThe3rd/booky/internal/invoice"
	"github.com/MrJamesThe3rd/booky/internal/invoice/store"
)

// App is what the commands operate on.
type App struct {
	Docs   *invoice.Service
	Export *export.Service
	Import *importer.Service

	close func() error
}

// NewApp wires the services over repo.
func NewApp(repo invoice.Repository, mode export.Mode) *App {
	docs := invoice.NewService(repo)

	return &App{
		Docs:   docs,
		Export: export.NewService(docs, mode),
		Import: importer.NewService(docs),
		close:  func() error { return nil },
	}
}

// Open builds the App from the environment configuration.
func Open(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	repo, closeStore, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	app := NewApp(repo, export.Mode(cfg.Export.CSVMode))
	app.close = closeStore

	return app, nil
}

func (a *App) Close() error {
	return a.close()
}

// NewRootCmd builds the command tree. open is called once, before the first
// subcommand that needs data, so help output never touches storage.
func NewRootCmd(open func(ctx context.Context) (*App, error)) *cobra.Command {
	var app *App

	load := func(cmd *cobra.Command) (*App, error) {
		if app != nil {
			return app, nil
		}

		a, err := open(cmd.Context())
		if err != nil {
			return nil, err
		}

		app = a

		return app, nil
	}

	root := &cobra.Command{
		Use:   "booky",
		Short: "Invoices, clients and expenses for a single freelancer",
		Long: `Booky keeps invoices, their line items and clients in one document.

Use the subcommands to export the document, print reports, render an
invoice with the saved template or import data from another install.`,
		SilenceUsage: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}

			return app.Close()
		},
	}

	root.AddCommand(
		newExportCmd(load),
		newReportCmd(load),
		newRenderCmd(load),
		newImportCmd(load),
	)

	return root
}

type loader func(cmd *cobra.Command) (*App, error)
