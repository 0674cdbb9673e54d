package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgreer/chrono/internal/app"
	"github.com/mgreer/chrono/internal/domain"
)

// timer form field indices
const (
	timerFieldTask = iota
	timerFieldDescription
	timerFieldCount
)

// timerStartedMsg is sent when a timer starts successfully
type timerStartedMsg struct {
	entry *domain.TimeEntry
}

// timerStoppedMsg is sent when a timer is stopped successfully
type timerStoppedMsg struct {
	entry *domain.TimeEntry
}

// TimerModel shows the live timer state and start/stop controls
type TimerModel struct {
	app   *app.App
	state domain.TimerState

	// Start form state
	formOpen   bool
	fields     []textinput.Model
	fieldFocus int
	billable   bool

	err       error
	statusMsg string
}

// NewTimerModel creates a new TimerModel seeded from the controller
func NewTimerModel(a *app.App) tea.Model {
	fields := make([]textinput.Model, timerFieldCount)
	for i := range fields {
		fields[i] = textinput.New()
	}
	fields[timerFieldTask].Placeholder = "task id"
	fields[timerFieldDescription].Placeholder = "description (optional)"

	return &TimerModel{
		app:      a,
		state:    a.Timer.State(),
		fields:   fields,
		billable: true,
	}
}

// IsCapturingInput returns true while the start form is open so that
// form keystrokes are not intercepted by global screen navigation.
func (m *TimerModel) IsCapturingInput() bool {
	return m.formOpen
}

func (m *TimerModel) Init() tea.Cmd {
	return nil
}

func (m *TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.state = m.app.Timer.State()
		return m, nil

	case TimerStateMsg:
		m.state = msg.State
		return m, nil

	case timerStartedMsg:
		m.formOpen = false
		m.statusMsg = "Timer started"
		return m, nil

	case timerStoppedMsg:
		hours := 0.0
		if msg.entry != nil {
			hours = msg.entry.Hours()
		}
		m.statusMsg = fmt.Sprintf("Entry saved: %.1fh", hours)
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		if m.formOpen {
			return m.updateForm(msg)
		}

		m.err = nil
		m.statusMsg = ""

		switch msg.String() {
		case "s":
			if !m.state.Running {
				m.openForm()
			}
			return m, nil
		case "x":
			if m.state.Running {
				return m, m.stopTimer()
			}
			return m, nil
		}
	}

	return m, nil
}

func (m *TimerModel) openForm() {
	m.formOpen = true
	m.fieldFocus = timerFieldTask
	m.billable = true
	for i := range m.fields {
		m.fields[i].SetValue("")
		m.fields[i].Blur()
	}
	m.fields[timerFieldTask].Focus()
}

func (m *TimerModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.formOpen = false
		return m, nil
	case "tab", "down":
		m.fields[m.fieldFocus].Blur()
		m.fieldFocus = (m.fieldFocus + 1) % timerFieldCount
		m.fields[m.fieldFocus].Focus()
		return m, nil
	case "shift+tab", "up":
		m.fields[m.fieldFocus].Blur()
		m.fieldFocus = (m.fieldFocus - 1 + timerFieldCount) % timerFieldCount
		m.fields[m.fieldFocus].Focus()
		return m, nil
	case "ctrl+b":
		m.billable = !m.billable
		return m, nil
	case "enter":
		taskID := m.fields[timerFieldTask].Value()
		if taskID == "" {
			m.err = fmt.Errorf("task id is required")
			return m, nil
		}
		return m, m.startTimer(taskID, m.fields[timerFieldDescription].Value(), m.billable)
	}

	var cmd tea.Cmd
	m.fields[m.fieldFocus], cmd = m.fields[m.fieldFocus].Update(msg)
	return m, cmd
}

func (m *TimerModel) startTimer(taskID, description string, billable bool) tea.Cmd {
	return func() tea.Msg {
		entry, err := m.app.Timer.Start(context.Background(), taskID, description, billable, nil)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return ErrorMsg{Err: fmt.Errorf("a timer is already running")}
			}
			return ErrorMsg{Err: err}
		}
		return timerStartedMsg{entry: entry}
	}
}

func (m *TimerModel) stopTimer() tea.Cmd {
	return func() tea.Msg {
		entry, err := m.app.Timer.Stop(context.Background(), false)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidState) {
				return ErrorMsg{Err: fmt.Errorf("no timer is running")}
			}
			return ErrorMsg{Err: err}
		}
		return timerStoppedMsg{entry: entry}
	}
}

// View renders the timer screen
func (m *TimerModel) View() string {
	var b string
	title := lipgloss.NewStyle().Bold(true).Render("Timer")

	if m.err != nil {
		return title + "\n\n" +
			lipgloss.NewStyle().Foreground(errorColor).
				Render(fmt.Sprintf("Error: %s", m.err.Error())) +
			"\n\nPress any key to dismiss"
	}

	if m.formOpen {
		b += title + "\n\n"
		b += "Start a new timer:\n\n"
		labels := []string{"Task:       ", "Description:"}
		for i, field := range m.fields {
			b += fmt.Sprintf("%s %s\n", labels[i], field.View())
		}
		billableStr := "yes"
		if !m.billable {
			billableStr = "no"
		}
		b += fmt.Sprintf("Billable:    %s (ctrl+b to toggle)\n", billableStr)
		b += "\nKeys: tab=next field, enter=start, esc=cancel\n"
		return b
	}

	if !m.state.Running {
		b += title + "\n\n"
		if m.statusMsg != "" {
			b += lipgloss.NewStyle().Foreground(successColor).
				Render("  "+m.statusMsg) + "\n\n"
		}
		b += fmt.Sprintf("State: %s\n\n", timerIdleStyle.Render("IDLE"))
		b += "No timer is running.\n"
		b += "\nKeys: s=start a timer\n"
		return b
	}

	entry := m.state.ActiveEntry

	b += title + "\n\n"
	b += fmt.Sprintf("State: %s\n", timerRunningStyle.Render("RUNNING"))
	if entry != nil {
		b += fmt.Sprintf("Task: %s\n", entry.TaskID)
		if entry.Description != "" {
			b += fmt.Sprintf("Description: %s\n", entry.Description)
		}
		b += fmt.Sprintf("Started: %s\n", entry.StartTime.Local().Format("2006-01-02 15:04:05"))
		if entry.Billable && entry.BillableRate != nil {
			rate := *entry.BillableRate
			accrued := float64(m.state.ElapsedSeconds) / 3600 * rate
			currency := m.app.Config.Billing.Currency
			b += fmt.Sprintf("Rate: %s/hr\n", formatMoney(rate, currency))
			b += fmt.Sprintf("Value accrued: %s\n", timerValueStyle.Render(formatMoney(accrued, currency)))
		}
	}
	b += fmt.Sprintf("Elapsed: %s\n", formatElapsed(m.state.ElapsedSeconds))
	b += subtitleStyle.Render(fmt.Sprintf("Last sync: %s", formatSyncAge(m.state.LastSyncAt, time.Now()))) + "\n"
	b += "\nKeys: x=stop\n"
	return b
}
