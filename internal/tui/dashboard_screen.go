package tui

import (
	"context"
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgreer/chrono/internal/app"
	"github.com/mgreer/chrono/internal/domain"
	"github.com/mgreer/chrono/internal/service"
)

// DashboardModel represents the dashboard home screen
type DashboardModel struct {
	app *app.App

	// Data
	week       *service.WeekSummary
	today      *service.DailySummary
	unbilled   float64
	timerState domain.TimerState

	loading bool
	err     error
}

type dashboardDataMsg struct {
	week     *service.WeekSummary
	today    *service.DailySummary
	unbilled float64
	err      error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(a *app.App) tea.Model {
	return &DashboardModel{
		app:        a,
		timerState: a.Timer.State(),
		loading:    true,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *DashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var msg dashboardDataMsg

		now := time.Now()

		// Week start (Monday)
		weekStart := now
		for weekStart.Weekday() != time.Monday {
			weekStart = weekStart.AddDate(0, 0, -1)
		}
		weekStart = time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, weekStart.Location())

		week, err := m.app.ReportService.GetWeekSummary(ctx, weekStart)
		if err != nil {
			msg.err = fmt.Errorf("week summary: %w", err)
			return msg
		}
		msg.week = week

		today, err := m.app.ReportService.GetDailySummary(ctx, now)
		if err != nil {
			msg.err = fmt.Errorf("daily summary: %w", err)
			return msg
		}
		msg.today = today

		msg.unbilled, _ = m.app.ReportService.GetUnbilledTotal(ctx)
		return msg
	}
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()

	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.week = msg.week
		m.today = msg.today
		m.unbilled = msg.unbilled
		return m, nil

	case TimerStateMsg:
		m.timerState = msg.State
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.loadData()
		}
	}

	return m, nil
}

// View renders the dashboard
func (m *DashboardModel) View() string {
	title := lipgloss.NewStyle().Bold(true).Render("Dashboard")

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
	b += title + "\n\n"

	// Timer line
	if m.timerState.Running {
		task := ""
		if m.timerState.ActiveEntry != nil {
			task = m.timerState.ActiveEntry.TaskID
		}
		b += fmt.Sprintf("Timer: %s  %s on %s\n\n",
			timerRunningStyle.Render("RUNNING"),
			formatElapsed(m.timerState.ElapsedSeconds),
			task)
	} else {
		b += fmt.Sprintf("Timer: %s\n\n", timerIdleStyle.Render("idle"))
	}

	if m.today != nil {
		b += subtitleStyle.Render("Today") + "\n"
		b += fmt.Sprintf("  Hours: %s  Value: %s\n\n",
			formatHours(m.today.TotalHours),
			formatMoney(m.today.TotalValue, currency))
	}

	if m.week != nil {
		b += subtitleStyle.Render("This Week") + "\n"
		b += fmt.Sprintf("  Hours: %s (%s billable)  Value: %s\n",
			formatHours(m.week.TotalHours),
			formatHours(m.week.BillableHours),
			formatMoney(m.week.TotalValue, currency))

		if len(m.week.ByProject) > 0 {
			projects := make([]string, 0, len(m.week.ByProject))
			for p := range m.week.ByProject {
				projects = append(projects, p)
			}
			sort.Strings(projects)
			for _, p := range projects {
				name := p
				if name == "" {
					name = "(no project)"
				}
				b += fmt.Sprintf("    %-20s %s\n", truncateStr(name, 20), formatHours(m.week.ByProject[p]))
			}
		}
		b += "\n"
	}

	b += subtitleStyle.Render("Unbilled") + "\n"
	b += fmt.Sprintf("  %s\n", timerValueStyle.Render(formatMoney(m.unbilled, currency)))

	b += "\nKeys: r=refresh\n"
	return b
}
