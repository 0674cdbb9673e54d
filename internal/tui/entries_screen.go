package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgreer/chrono/internal/app"
	"github.com/mgreer/chrono/internal/domain"
)

type entriesMode int

const (
	entriesModeList entriesMode = iota
	entriesModeConfirmDelete
)

// EntriesModel displays a scrollable list of recent time entries
type EntriesModel struct {
	app        *app.App
	entries    []*domain.TimeEntry
	stale      bool
	cursor     int
	offset     int
	maxVisible int
	loading    bool
	err        error
	statusMsg  string

	mode entriesMode
}

type entriesDataMsg struct {
	entries []*domain.TimeEntry
	stale   bool
	err     error
}

type entryDeletedMsg struct {
	err error
}

// NewEntriesModel creates a new entries model
func NewEntriesModel(a *app.App) tea.Model {
	return &EntriesModel{
		app:        a,
		maxVisible: 15,
		loading:    true,
	}
}

func (m *EntriesModel) Init() tea.Cmd {
	return m.loadData()
}

// loadData refreshes the last 30 days of entries from the server,
// falling back to the cache when offline
func (m *EntriesModel) loadData() tea.Cmd {
	return func() tea.Msg {
		now := time.Now()
		from := now.AddDate(0, 0, -30)
		entries, stale, err := m.app.EntryService.Refresh(context.Background(), &from, &now)
		return entriesDataMsg{entries: entries, stale: stale, err: err}
	}
}

func (m *EntriesModel) deleteEntry(entryID string) tea.Cmd {
	return func() tea.Msg {
		err := m.app.EntryService.Delete(context.Background(), entryID)
		return entryDeletedMsg{err: err}
	}
}

func (m *EntriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()

	case entriesDataMsg:
		m.loading = false
		m.err = msg.err
		m.entries = msg.entries
		m.stale = msg.stale
		if m.cursor >= len(m.entries) {
			m.cursor = 0
			m.offset = 0
		}
		return m, nil

	case entryDeletedMsg:
		m.mode = entriesModeList
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = "Entry deleted"
		m.loading = true
		return m, m.loadData()

	case tea.KeyMsg:
		if m.mode == entriesModeConfirmDelete {
			switch msg.String() {
			case "y", "Y":
				return m, m.deleteEntry(m.entries[m.cursor].ID)
			default:
				m.mode = entriesModeList
			}
			return m, nil
		}

		m.statusMsg = ""
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.maxVisible {
					m.offset = m.cursor - m.maxVisible + 1
				}
			}
		case "x":
			if len(m.entries) > 0 {
				entry := m.entries[m.cursor]
				if entry.IsInvoiced() {
					m.err = fmt.Errorf("entry is invoiced and cannot be deleted")
					return m, nil
				}
				if entry.IsRunning() {
					m.err = fmt.Errorf("entry belongs to the running timer")
					return m, nil
				}
				m.mode = entriesModeConfirmDelete
			}
		case "r":
			m.loading = true
			return m, m.loadData()
		}
	}

	return m, nil
}

// View renders the entries list
func (m *EntriesModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Time Entries (last 30 days)")

	if m.loading {
		return title + "\n\nLoading..."
	}

	var b string
	b += title + "\n\n"

	if m.err != nil {
		b += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("Error: %s", m.err.Error())) + "\n\n"
	}
	if m.stale {
		b += staleStyle.Render("Offline: showing cached entries") + "\n\n"
	}
	if m.statusMsg != "" {
		b += lipgloss.NewStyle().Foreground(successColor).
			Render("  "+m.statusMsg) + "\n\n"
	}

	if len(m.entries) == 0 {
		b += "No entries in the last 30 days.\n"
		return b
	}

	header := fmt.Sprintf("  %-10s  %-12s  %-8s  %-8s  %s",
		"DATE", "TASK", "HOURS", "BILL", "DESCRIPTION")
	b += subtitleStyle.Render(header) + "\n"

	end := m.offset + m.maxVisible
	if end > len(m.entries) {
		end = len(m.entries)
	}
	var totalHours float64
	for _, e := range m.entries {
		totalHours += e.Hours()
	}
	for i := m.offset; i < end; i++ {
		e := m.entries[i]
		billable := "-"
		if e.Billable {
			billable = "yes"
		}
		hours := fmt.Sprintf("%.2f", e.Hours())
		if e.IsRunning() {
			hours = "running"
		}
		line := fmt.Sprintf("  %-10s  %-12s  %-8s  %-8s  %s",
			e.StartTime.Local().Format("2006-01-02"),
			truncateStr(e.TaskID, 12),
			hours,
			billable,
			truncateStr(e.Description, 40))
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b += line + "\n"
	}

	b += "\n" + fmt.Sprintf("%d entries, %s total\n", len(m.entries), formatHours(totalHours))

	if m.mode == entriesModeConfirmDelete {
		b += "\n" + lipgloss.NewStyle().Foreground(warningColor).
			Render("Delete this entry? (y/n)") + "\n"
	} else {
		b += "\nKeys: j/k=move, x=delete, r=refresh\n"
	}
	return b
}
