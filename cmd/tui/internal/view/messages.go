package view

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/booky/internal/invoice"
)

// documentLoadedMsg always carries a usable document. When loading failed,
// doc is the default document and err says why.
type documentLoadedMsg struct {
	doc *invoice.Document
	err error
}

type documentSavedMsg struct {
	status string
	err    error
}

func loadDocumentCmd(svc *invoice.Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		doc, err := svc.Document(ctx)
		if err != nil {
			return documentLoadedMsg{doc: invoice.Default(), err: err}
		}

		return documentLoadedMsg{doc: doc}
	}
}

func savedCmd(err error, status string) tea.Cmd {
	return func() tea.Msg {
		return documentSavedMsg{status: status, err: err}
	}
}
