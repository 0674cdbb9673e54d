package domain

import "time"

// InvoiceItem is a priced, grouped line derived from one or more time
// entries. The ID stays empty here; the invoicing backend assigns it
// when the candidate list is persisted.
type InvoiceItem struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Quantity     float64  `json:"quantity"` // fractional hours
	Rate         float64  `json:"rate"`     // hourly, blended when grouped
	Amount       float64  `json:"amount"`   // quantity * rate (within float tolerance)
	TimeEntryIDs []string `json:"timeEntryIds"`
}

// InvoiceStatus mirrors the server-side invoice lifecycle, read-only on
// this client.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Invoice is the server's view of an invoice, fetched for display only.
type Invoice struct {
	ID        string        `json:"id"`
	Number    string        `json:"number"`
	Status    InvoiceStatus `json:"status"`
	Total     float64       `json:"total"`
	DueDate   *time.Time    `json:"dueDate"`
	PaidDate  *time.Time    `json:"paidDate"`
	CreatedAt time.Time     `json:"createdAt"`
	Items     []InvoiceItem `json:"items"`
}
