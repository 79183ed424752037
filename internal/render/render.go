// Package render expands the user's print template for one invoice.
//
// Templates are free-form user content. Placeholders that name a missing
// field, or a field with no value, become empty strings; nothing is
// validated and nothing is escaped.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/booky/internal/invoice"
	"github.com/MrJamesThe3rd/booky/internal/record"
)

// ItemsTableToken is replaced with the generated line item table.
const ItemsTableToken = "[itemsTable]"

var (
	invoiceToken = regexp.MustCompile(`\[invoice\.(\w+)\]`)
	clientToken  = regexp.MustCompile(`\[client\.(\w+)\]`)

	printer = message.NewPrinter(language.AmericanEnglish)
)

const pageStyle = `<style>
body {
  max-inline-size: 8.5in;
  margin-inline: auto;
  aspect-ratio: 8.5/11;
}
</style>
`

// Render returns the printable HTML for inv. client may be nil when the
// invoice is not assigned or its client no longer exists. ok is false when
// there is no invoice to render, which callers must tell apart from a
// template that renders to nothing.
func Render(inv *invoice.Invoice, client *invoice.Client, template string) (doc string, ok bool) {
	if inv == nil {
		return "", false
	}

	body := invoiceToken.ReplaceAllStringFunc(template, func(m string) string {
		return field(inv, invoiceToken.FindStringSubmatch(m)[1])
	})

	body = clientToken.ReplaceAllStringFunc(body, func(m string) string {
		if client == nil {
			return ""
		}

		return field(client, clientToken.FindStringSubmatch(m)[1])
	})

	body = strings.ReplaceAll(body, ItemsTableToken, ItemsTable(inv))

	var sb strings.Builder
	fmt.Fprintf(&sb, "<title>Invoice - %s</title>\n", inv.ID)
	sb.WriteString(pageStyle)
	sb.WriteString(body)

	return sb.String(), true
}

// ItemsTable renders the invoice lines with a closing total row. The total is
// the cached AmountDue, not a fresh sum.
func ItemsTable(inv *invoice.Invoice) string {
	var sb strings.Builder

	sb.WriteString(`<table style="width:100%">` + "\n")
	sb.WriteString("<tr>\n")
	sb.WriteString(`<th align="left">Summary</th>` + "\n")
	sb.WriteString(`<th align="left">Type</th>` + "\n")
	sb.WriteString(`<th align="right">Amount</th>` + "\n")
	sb.WriteString("</tr>\n")

	for _, it := range inv.Items {
		sb.WriteString("<tr>\n")
		fmt.Fprintf(&sb, "<td>%s</td>\n", it.Summary)
		fmt.Fprintf(&sb, "<td>%s</td>\n", it.Type)
		fmt.Fprintf(&sb, "<td align=\"right\">%s</td>\n", Money(it.Amount))
		sb.WriteString("</tr>\n")
	}

	sb.WriteString("<tr>\n")
	sb.WriteString(`<th colspan="2" align="right">Total</th>` + "\n")
	fmt.Fprintf(&sb, "<td align=\"right\"><b>%s</b></td>\n", Money(inv.AmountDue))
	sb.WriteString("</tr>\n")
	sb.WriteString("</table>")

	return sb.String()
}

// Money formats an amount as US dollars, e.g. $1,234.50 or -$3.00.
func Money(amount float64) string {
	if amount < 0 {
		return "-$" + printer.Sprintf("%.2f", -amount)
	}

	return "$" + printer.Sprintf("%.2f", amount)
}

func field(v any, name string) string {
	val, ok := record.Lookup(v, name)
	if !ok || !record.Truthy(val) {
		return ""
	}

	return record.String(val)
}
