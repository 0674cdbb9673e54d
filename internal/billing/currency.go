package billing

import (
	"fmt"
	"time"

	"github.com/mgreer/chrono/internal/domain"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "$",
	"AUD": "$",
}

// FormatCurrency renders an amount with its currency symbol, falling
// back to an ISO-code prefix for unknown currencies.
func FormatCurrency(amount float64, currency string) string {
	if sym, ok := currencySymbols[currency]; ok {
		return fmt.Sprintf("%s%.2f", sym, amount)
	}
	if currency == "" {
		return fmt.Sprintf("%.2f", amount)
	}
	return fmt.Sprintf("%s %.2f", currency, amount)
}

// IsOverdue reports whether an unpaid invoice is past its due date.
func IsOverdue(inv *domain.Invoice, now time.Time) bool {
	if inv.Status == domain.InvoiceStatusPaid {
		return false
	}
	return inv.DueDate != nil && now.After(*inv.DueDate)
}
