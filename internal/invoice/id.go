package invoice

import (
	"strings"

	"github.com/google/uuid"
)

const (
	idLength      = 8
	invoicePrefix = "INV"
)

// NewID returns an 8 character identifier made of prefix followed by the
// uppercase hex digits of a random UUID. taken is consulted so the id is
// unique within its collection; it may be nil.
func NewID(prefix string, taken func(string) bool) string {
	for {
		raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
		id := (prefix + raw)[:idLength]

		if taken == nil || !taken(id) {
			return id
		}
	}
}
