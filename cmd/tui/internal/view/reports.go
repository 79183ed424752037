package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/booky/internal/invoice"
	"github.com/MrJamesThe3rd/booky/internal/report"
)

type ReportsModel struct {
	CommonModel
	svc *invoice.Service
	now func() time.Time

	year    int
	yearly  bool
	table   table.Model
	doc     *invoice.Document
	loading bool
	status  string
}

func NewReportsModel(svc *invoice.Service, now func() time.Time) ReportsModel {
	columns := []table.Column{
		{Title: "Period", Width: 8},
		{Title: "Revenue", Width: 14},
		{Title: "Expenses", Width: 14},
		{Title: "Income", Width: 14},
	}

	t := newTable(columns)
	t.SetHeight(13)

	return ReportsModel{
		svc:     svc,
		now:     now,
		year:    now().Year(),
		table:   t,
		doc:     invoice.Default(),
		loading: true,
	}
}

func (m ReportsModel) Title() string { return "Reports" }

func (m ReportsModel) ShortHelp() string {
	if m.yearly {
		return "Esc: back | y: monthly view | r: refresh"
	}

	return "Esc: back | ←/→: year | y: yearly view | r: refresh"
}

func (m ReportsModel) Init() tea.Cmd {
	return loadDocumentCmd(m.svc)
}

func (m ReportsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case documentLoadedMsg:
		m.loading = false
		m.doc = msg.doc
		m.status = ""

		if msg.err != nil {
			m.status = fmt.Sprintf("Could not load data, showing an empty document: %v", msg.err)
		}

		m.refreshTable()

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, loadDocumentCmd(m.svc)
		case "y":
			m.yearly = !m.yearly
			m.refreshTable()

			return m, nil
		case "left", "h":
			if !m.yearly {
				m.year--
				m.refreshTable()
			}

			return m, nil
		case "right", "l":
			if !m.yearly {
				m.year++
				m.refreshTable()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ReportsModel) series() report.Series {
	if m.yearly {
		return report.Yearly(m.doc.Invoices, m.now())
	}

	return report.Monthly(m.doc.Invoices, m.year)
}

func (m *ReportsModel) refreshTable() {
	s := m.series()

	rows := make([]table.Row, 0, len(s.Labels)+1)

	var revenue, expenses, income float64

	for i, label := range s.Labels {
		rows = append(rows, table.Row{
			label,
			FormatAmount(s.Revenue[i]),
			FormatAmount(s.Expenses[i]),
			FormatAmount(s.Income[i]),
		})

		revenue += s.Revenue[i]
		expenses += s.Expenses[i]
		income += s.Income[i]
	}

	rows = append(rows, table.Row{"Total", FormatAmount(revenue), FormatAmount(expenses), FormatAmount(income)})

	m.table.SetRows(rows)
}

func (m ReportsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading reports...")
	}

	header := "View: " + activeStyle("Monthly") + " | Year: " + activeStyle(fmt.Sprint(m.year))
	if m.yearly {
		header = "View: " + activeStyle(fmt.Sprintf("Last %d years", report.YearWindow))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		boxed(m.table.View()),
	)

	return withStatus(m.status, content)
}
