package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/booky/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/booky/internal/config"
	"github.com/MrJamesThe3rd/booky/internal/export"
	"github.com/MrJamesThe3rd/booky/internal/invoice"
	"github.com/MrJamesThe3rd/booky/internal/invoice/store"
)

type model struct {
	appName        string
	invoiceService *invoice.Service
	exportService  *export.Service

	currentView View

	invoicesView view.InvoicesModel
	clientsView  view.ClientsModel
	reportsView  view.ReportsModel
	exportView   view.ExportModel
}

type View int

const (
	ViewMenu     View = 0
	ViewInvoices View = 1
	ViewClients  View = 2
	ViewReports  View = 3
	ViewExport   View = 4
)

func initialModel() (model, func() error) {
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

	invSvc := invoice.NewService(repo)
	expSvc := export.NewService(invSvc, export.Mode(cfg.Export.CSVMode))

	return model{
		appName:        cfg.App.Name,
		invoiceService: invSvc,
		exportService:  expSvc,
		currentView:    ViewMenu,
	}, closeStore
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewInvoices
				m.invoicesView = view.NewInvoicesModel(m.invoiceService)

				return m, m.invoicesView.Init()
			case "2":
				m.currentView = ViewClients
				m.clientsView = view.NewClientsModel(m.invoiceService)

				return m, m.clientsView.Init()
			case "3":
				m.currentView = ViewReports
				m.reportsView = view.NewReportsModel(m.invoiceService, time.Now)

				return m, m.reportsView.Init()
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewInvoices:
		var newModel tea.Model
		newModel, cmd = m.invoicesView.Update(msg)
		m.invoicesView = newModel.(view.InvoicesModel)
	case ViewClients:
		var newModel tea.Model
		newModel, cmd = m.clientsView.Update(msg)
		m.clientsView = newModel.(view.ClientsModel)
	case ViewReports:
		var newModel tea.Model
		newModel, cmd = m.reportsView.Update(msg)
		m.reportsView = newModel.(view.ReportsModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var (
		current view.View
		help    string
	)

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Invoices\n" +
				"2. Clients\n" +
				"3. Reports\n" +
				"4. Export\n\n" +
				"q. Quit",
		)
	case ViewInvoices:
		current = m.invoicesView
	case ViewClients:
		current = m.clientsView
	case ViewReports:
		current = m.reportsView
	case ViewExport:
		current = m.exportView
	default:
		return "Unknown View"
	}

	help = lipgloss.NewStyle().Faint(true).Render(current.ShortHelp())
	title := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(current.Title())

	return lipgloss.JoinVertical(lipgloss.Left, title, current.View(), help)
}

func main() {
	m, closeStore := initialModel()
	defer closeStore()

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
