package view

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/booky/internal/invoice"
	"github.com/MrJamesThe3rd/booky/internal/report"
)

type invoicesState int

const (
	invoicesStateBrowse invoicesState = iota
	invoicesStateCreate
	invoicesStateAddItem
	invoicesStateDelete
)

type InvoicesModel struct {
	CommonModel
	svc *invoice.Service

	state   invoicesState
	table   table.Model
	doc     *invoice.Document
	form    *huh.Form
	loading bool
	status  string
}

func NewInvoicesModel(svc *invoice.Service) InvoicesModel {
	columns := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Summary", Width: 28},
		{Title: "Client", Width: 18},
		{Title: "Due", Width: 12},
		{Title: "Paid", Width: 12},
		{Title: "Expenses", Width: 12},
		{Title: "Expected Net", Width: 13},
		{Title: "Due Date", Width: 11},
	}

	return InvoicesModel{
		svc:     svc,
		table:   newTable(columns),
		doc:     invoice.Default(),
		loading: true,
	}
}

func (m InvoicesModel) Title() string { return "Invoices" }

func (m InvoicesModel) ShortHelp() string {
	if m.state != invoicesStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | a: add item | x: delete | r: refresh"
}

func (m InvoicesModel) Init() tea.Cmd {
	return loadDocumentCmd(m.svc)
}

func (m InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case documentLoadedMsg:
		m.loading = false
		m.doc = msg.doc

		if msg.err != nil {
			m.status = fmt.Sprintf("Could not load data, showing an empty document: %v", msg.err)
		}

		m.refreshTable()

		return m, nil

	case documentSavedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.closeForm()

		return m, loadDocumentCmd(m.svc)

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == invoicesStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m InvoicesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, loadDocumentCmd(m.svc)
		case "n":
			return m.openForm(invoicesStateCreate, m.buildCreateForm())
		case "a":
			if inv := m.selected(); inv != nil {
				return m.openForm(invoicesStateAddItem, buildItemForm())
			}
		case "x":
			if inv := m.selected(); inv != nil {
				return m.openForm(invoicesStateDelete, buildConfirmForm(
					fmt.Sprintf("Delete invoice %s (%s) and all its items?", inv.ID, inv.Summary)))
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoicesModel) openForm(state invoicesState, form *huh.Form) (tea.Model, tea.Cmd) {
	m.state = state
	m.form = form
	m.table.Blur()

	return m, m.form.Init()
}

func (m *InvoicesModel) closeForm() {
	m.state = invoicesStateBrowse
	m.form = nil
	m.table.Focus()
}

func (m InvoicesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	inv := m.selected()

	switch m.state {
	case invoicesStateCreate:
		return m, m.createCmd(m.form.GetString("summary"), m.form.GetString("client"))
	case invoicesStateAddItem:
		if inv == nil {
			break
		}

		p, err := itemParams(m.form)
		if err != nil {
			return m, savedCmd(err, "")
		}

		return m, m.addItemCmd(inv.ID, p)
	case invoicesStateDelete:
		if inv != nil && m.form.GetBool("confirm") {
			return m, m.deleteCmd(inv.ID)
		}
	}

	m.closeForm()

	return m, nil
}

func (m InvoicesModel) selected() *invoice.Invoice {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.doc.Invoices) {
		return nil
	}

	return m.doc.Invoices[idx]
}

func (m InvoicesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading invoices...")
	}

	content := boxed(m.table.View())

	if len(m.doc.Invoices) == 0 {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "No invoices yet. Press n to create one.")
	}

	if m.form != nil {
		titles := map[invoicesState]string{
			invoicesStateCreate:  "New Invoice",
			invoicesStateAddItem: "Add Item",
			invoicesStateDelete:  "Delete Invoice",
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, content,
			panel(fmt.Sprintf("%s\n\n%s", titles[m.state], m.form.View())))
	}

	return withStatus(m.status, content)
}

func (m *InvoicesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.doc.Invoices))

	for _, inv := range m.doc.Invoices {
		client := ""
		if c := m.doc.Client(inv.ClientID); c != nil {
			client = c.Name
		}

		totals := report.Summarize(inv)

		rows = append(rows, table.Row{
			inv.ID,
			inv.Summary,
			client,
			FormatAmount(totals.AmountDue),
			FormatAmount(inv.AmountPaid),
			FormatAmount(totals.Expenses),
			FormatAmount(totals.ExpectedNet),
			FormatDate(inv.DueDate),
		})
	}

	m.table.SetRows(rows)
}

func (m InvoicesModel) buildCreateForm() *huh.Form {
	options := []huh.Option[string]{huh.NewOption("(no client)", "")}
	for _, c := range m.doc.Clients {
		options = append(options, huh.NewOption(c.Name, c.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("summary").
				Title("Summary").
				Validate(required("summary")),

			huh.NewSelect[string]().
				Key("client").
				Title("Client").
				Options(options...),
		),
	).WithWidth(45).WithShowHelp(false)
}

func buildItemForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("summary").
				Title("Summary").
				Validate(required("summary")),

			huh.NewInput().
				Key("type").
				Title("Type").
				Placeholder("labor"),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Validate(func(s string) error {
					_, err := parseAmount(s)
					return err
				}),

			huh.NewInput().
				Key("purchaseDate").
				Title("Purchase Date").
				Description("Set only for reimbursable expenses").
				Placeholder("YYYY-MM-DD").
				Validate(func(s string) error {
					if s = strings.TrimSpace(s); s == "" {
						return nil
					}

					if _, err := time.Parse(time.DateOnly, s); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}

					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)
}

func itemParams(form *huh.Form) (invoice.ItemParams, error) {
	amount, err := parseAmount(form.GetString("amount"))
	if err != nil {
		return invoice.ItemParams{}, err
	}

	return invoice.ItemParams{
		Summary:      form.GetString("summary"),
		Type:         strings.TrimSpace(form.GetString("type")),
		Amount:       amount,
		PurchaseDate: invoice.Date(strings.TrimSpace(form.GetString("purchaseDate"))),
	}, nil
}

var errAmount = errors.New("amount must be a number")

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errAmount
	}

	return v, nil
}

func buildConfirmForm(title string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(title).
				Affirmative("Delete").
				Negative("Cancel"),
		),
	).WithWidth(45).WithShowHelp(false)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}

		return nil
	}
}

func (m InvoicesModel) createCmd(summary, clientID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		inv, err := m.svc.CreateInvoice(ctx, invoice.CreateInvoiceParams{Summary: summary, ClientID: clientID})
		if err != nil {
			return documentSavedMsg{err: err}
		}

		return documentSavedMsg{status: "Created invoice " + inv.ID}
	}
}

func (m InvoicesModel) addItemCmd(invoiceID string, p invoice.ItemParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.svc.AddItem(ctx, invoiceID, p); err != nil {
			return documentSavedMsg{err: err}
		}

		return documentSavedMsg{status: "Added " + p.Summary + " to " + invoiceID}
	}
}

func (m InvoicesModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.DeleteInvoice(ctx, id); err != nil {
			return documentSavedMsg{err: err}
		}

		return documentSavedMsg{status: "Deleted invoice " + id}
	}
}
