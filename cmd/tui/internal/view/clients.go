package view

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/booky/internal/invoice"
)

type clientsState int

const (
	clientsStateBrowse clientsState = iota
	clientsStateCreate
	clientsStateDelete
)

type ClientsModel struct {
	CommonModel
	svc *invoice.Service

	state   clientsState
	table   table.Model
	doc     *invoice.Document
	form    *huh.Form
	loading bool
	status  string
}

func NewClientsModel(svc *invoice.Service) ClientsModel {
	columns := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Name", Width: 22},
		{Title: "Company", Width: 20},
		{Title: "Email", Width: 26},
		{Title: "Phone", Width: 14},
		{Title: "Invoices", Width: 9},
	}

	return ClientsModel{
		svc:     svc,
		table:   newTable(columns),
		doc:     invoice.Default(),
		loading: true,
	}
}

func (m ClientsModel) Title() string { return "Clients" }

func (m ClientsModel) ShortHelp() string {
	if m.state != clientsStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | x: delete | r: refresh"
}

func (m ClientsModel) Init() tea.Cmd {
	return loadDocumentCmd(m.svc)
}

func (m ClientsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

		switch {
		case errors.Is(msg.err, invoice.ErrClientReferenced):
			m.status = errorStyle(msg.err.Error())
		case msg.err != nil:
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.closeForm()

		return m, loadDocumentCmd(m.svc)

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == clientsStateBrowse {
		return m.updateBrowse(msg)
	}

	return m.updateForm(msg)
}

func (m ClientsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, loadDocumentCmd(m.svc)
		case "n":
			return m.openForm(clientsStateCreate, buildClientForm())
		case "x":
			c := m.selected()
			if c == nil {
				break
			}

			if m.doc.ClientReferenced(c.ID) {
				m.status = errorStyle(fmt.Sprintf("%s must be unassigned from every invoice before it is deleted", c.Name))
				return m, nil
			}

			return m.openForm(clientsStateDelete, buildConfirmForm(fmt.Sprintf("Delete client %s?", c.Name)))
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ClientsModel) openForm(state clientsState, form *huh.Form) (tea.Model, tea.Cmd) {
	m.state = state
	m.form = form
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m *ClientsModel) closeForm() {
	m.state = clientsStateBrowse
	m.form = nil
	m.table.Focus()
}

func (m ClientsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
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

	switch m.state {
	case clientsStateCreate:
		return m, m.createCmd(m.form.GetString("name"), invoice.ClientPatch{
			Email:   optional(m.form.GetString("email")),
			Phone:   optional(m.form.GetString("phone")),
			Address: optional(m.form.GetString("address")),
			Company: optional(m.form.GetString("company")),
		})
	case clientsStateDelete:
		if c := m.selected(); c != nil && m.form.GetBool("confirm") {
			return m, m.deleteCmd(c.ID)
		}
	}

	m.closeForm()

	return m, nil
}

func (m ClientsModel) selected() *invoice.Client {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.doc.Clients) {
		return nil
	}

	return m.doc.Clients[idx]
}

func (m ClientsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading clients...")
	}

	content := boxed(m.table.View())

	if m.form != nil {
		title := "New Client"
		if m.state == clientsStateDelete {
			title = "Delete Client"
		}

		content = lipgloss.JoinHorizontal(lipgloss.Top, content,
			panel(fmt.Sprintf("%s\n\n%s", title, m.form.View())))
	}

	return withStatus(m.status, content)
}

func (m *ClientsModel) refreshTable() {
	counts := make(map[string]int, len(m.doc.Clients))
	for _, inv := range m.doc.Invoices {
		counts[inv.ClientID]++
	}

	rows := make([]table.Row, 0, len(m.doc.Clients))
	for _, c := range m.doc.Clients {
		rows = append(rows, table.Row{
			c.ID,
			c.Name,
			deref(c.Company),
			deref(c.Email),
			deref(c.Phone),
			fmt.Sprint(counts[c.ID]),
		})
	}

	m.table.SetRows(rows)
}

func buildClientForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Key("name").Title("Name").Validate(required("name")),
			huh.NewInput().Key("company").Title("Company"),
			huh.NewInput().Key("email").Title("Email"),
			huh.NewInput().Key("phone").Title("Phone"),
			huh.NewText().Key("address").Title("Address").Lines(3),
		),
	).WithWidth(45).WithShowHelp(false)
}

// optional maps a blank form field to "leave unset".
func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func (m ClientsModel) createCmd(name string, p invoice.ClientPatch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var c *invoice.Client

		err := m.svc.Update(ctx, func(d *invoice.Document) (err error) {
			now := m.svc.Now()

			if c, err = d.AddClient(name, now); err != nil {
				return err
			}

			_, err = d.UpdateClient(c.ID, p, now)

			return err
		})
		if err != nil {
			return documentSavedMsg{err: err}
		}

		return documentSavedMsg{status: "Created client " + c.Name}
	}
}

func (m ClientsModel) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.DeleteClient(ctx, id); err != nil {
			return documentSavedMsg{err: err}
		}

		return documentSavedMsg{status: "Deleted client"}
	}
}
