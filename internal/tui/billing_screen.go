package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgreer/chrono/internal/app"
	"github.com/mgreer/chrono/internal/billing"
	"github.com/mgreer/chrono/internal/domain"
)

// BillingModel previews invoice line items built from unbilled entries
type BillingModel struct {
	app     *app.App
	groupBy billing.GroupBy
	items   []domain.InvoiceItem
	loading bool
	err     error
}

type billingDataMsg struct {
	items []domain.InvoiceItem
	err   error
}

// NewBillingModel creates a new billing preview model
func NewBillingModel(a *app.App) tea.Model {
	groupBy := billing.GroupBy(a.Config.Billing.DefaultGroupBy)
	switch groupBy {
	case billing.GroupByNone, billing.GroupByProject, billing.GroupByTask:
	default:
		groupBy = billing.GroupByNone
	}
	return &BillingModel{
		app:     a,
		groupBy: groupBy,
		loading: true,
	}
}

func (m *BillingModel) Init() tea.Cmd {
	return m.loadData()
}

// loadData builds a line item preview from the cached entries of the
// last 90 days
func (m *BillingModel) loadData() tea.Cmd {
	groupBy := m.groupBy
	return func() tea.Msg {
		now := time.Now()
		from := now.AddDate(0, 0, -90)
		entries, err := m.app.EntryService.ListLocal(context.Background(), &from, &now, "")
		if err != nil {
			return billingDataMsg{err: err}
		}
		return billingDataMsg{items: billing.BuildLineItems(entries, groupBy)}
	}
}

func (m *BillingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()

	case billingDataMsg:
		m.loading = false
		m.err = msg.err
		m.items = msg.items
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "g":
			switch m.groupBy {
			case billing.GroupByNone:
				m.groupBy = billing.GroupByProject
			case billing.GroupByProject:
				m.groupBy = billing.GroupByTask
			default:
				m.groupBy = billing.GroupByNone
			}
			m.loading = true
			return m, m.loadData()
		case "r":
			m.loading = true
			return m, m.loadData()
		}
	}

	return m, nil
}

// View renders the billing preview
func (m *BillingModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Billing Preview (last 90 days)")

	if m.loading {
		return title + "\n\nLoading..."
	}
	if m.err != nil {
		return title + "\n\n" +
			lipgloss.NewStyle().Foreground(errorColor).
				Render(fmt.Sprintf("Error: %s", m.err.Error()))
	}

	currency := m.app.Config.Billing.Currency
	var b string
	b += title + "\n"
	b += subtitleStyle.Render(fmt.Sprintf("Grouped by: %s", m.groupBy)) + "\n\n"

	if len(m.items) == 0 {
		b += "No unbilled billable entries.\n"
		b += "\nKeys: g=cycle grouping, r=refresh\n"
		return b
	}

	header := fmt.Sprintf("  %-40s  %8s  %10s  %12s", "DESCRIPTION", "HOURS", "RATE", "AMOUNT")
	b += subtitleStyle.Render(header) + "\n"

	var totalHours, totalAmount float64
	for _, item := range m.items {
		b += fmt.Sprintf("  %-40s  %8.2f  %10s  %12s\n",
			truncateStr(item.Description, 40),
			item.Quantity,
			formatMoney(item.Rate, currency),
			formatMoney(item.Amount, currency))
		totalHours += item.Quantity
		totalAmount += item.Amount
	}

	b += "\n"
	b += fmt.Sprintf("  %-40s  %8.2f  %10s  %12s\n",
		"Total", totalHours, "",
		timerValueStyle.Render(formatMoney(totalAmount, currency)))

	if rate := m.app.Config.Billing.DefaultTaxRate; rate > 0 {
		tax := totalAmount * rate
		b += fmt.Sprintf("  %-40s  %8s  %10s  %12s\n",
			fmt.Sprintf("Tax (%.1f%%)", rate*100), "", "",
			formatMoney(tax, currency))
		b += fmt.Sprintf("  %-40s  %8s  %10s  %12s\n",
			"Total with tax", "", "",
			timerValueStyle.Render(formatMoney(totalAmount+tax, currency)))
	}

	b += "\nKeys: g=cycle grouping, r=refresh\n"
	return b
}
