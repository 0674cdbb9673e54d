package tui

import (
	"fmt"
	"time"

	"github.com/mgreer/chrono/internal/billing"
)

// formatHours formats hours as "Xh Ym"
func formatHours(hours float64) string {
	h := int(hours)
	m := int((hours - float64(h)) * 60)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// formatElapsed formats a second count as "HH:MM:SS"
func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatMoney formats an amount in the configured currency
func formatMoney(amount float64, currency string) string {
	return billing.FormatCurrency(amount, currency)
}

// formatSyncAge renders how long ago the last successful sync was
func formatSyncAge(lastSync time.Time, now time.Time) string {
	if lastSync.IsZero() {
		return "never"
	}
	age := now.Sub(lastSync)
	if age < time.Minute {
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	}
	return fmt.Sprintf("%dm ago", int(age.Minutes()))
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
