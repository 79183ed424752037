package view

import (
	"context"
	"time"

	"github.com/MrJamesThe3rd/booky/internal/invoice"
	"github.com/MrJamesThe3rd/booky/internal/render"
)

const dbTimeout = 5 * time.Second

// FormatAmount formats an amount as dollars.
func FormatAmount(amount float64) string {
	return render.Money(amount)
}

// FormatDate shows an unset date as a dash.
func FormatDate(d invoice.Date) string {
	if d == "" {
		return "-"
	}

	return string(d)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// DbCtx returns a context with a standard timeout for storage operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
