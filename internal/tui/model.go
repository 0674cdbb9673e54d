package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgreer/chrono/internal/app"
	"github.com/mgreer/chrono/internal/domain"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenTimer
	ScreenEntries
	ScreenBilling
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenDashboard:
		return "Dashboard"
	case ScreenTimer:
		return "Timer"
	case ScreenEntries:
		return "Time Entries"
	case ScreenBilling:
		return "Billing"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Timer state stream
	stateCh <-chan domain.TimerState
	cancel  func()

	// Screen models (lazy initialized)
	dashboard tea.Model
	timer     tea.Model
	entries   tea.Model
	billing   tea.Model

	// Error state
	err       error
	quitMsg   string // shown when quit is blocked
	notifyMsg string // shown when an out-of-band notification arrives
}

// New creates a new root model. It subscribes to the timer controller's
// state stream; the subscription is released when the program quits.
func New(a *app.App) Model {
	stateCh, cancel := a.Timer.Subscribe()
	return Model{
		app:           a,
		currentScreen: ScreenDashboard,
		stateCh:       stateCh,
		cancel:        cancel,
		dashboard:     NewDashboardModel(a),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitForState(m.stateCh),
	}
	if m.dashboard != nil {
		cmds = append(cmds, m.dashboard.Init())
	}
	return tea.Batch(cmds...)
}

// waitForState blocks on the subscription channel and converts the next
// snapshot into a message
func waitForState(ch <-chan domain.TimerState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-ch
		if !ok {
			return timerStreamClosedMsg{}
		}
		return TimerStateMsg{State: state}
	}
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	switch screen {
	case ScreenDashboard:
		if m.dashboard == nil {
			m.dashboard = NewDashboardModel(m.app)
			return m.dashboard.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	case ScreenTimer:
		if m.timer == nil {
			m.timer = NewTimerModel(m.app)
			return m.timer.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	case ScreenEntries:
		if m.entries == nil {
			m.entries = NewEntriesModel(m.app)
			return m.entries.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	case ScreenBilling:
		if m.billing == nil {
			m.billing = NewBillingModel(m.app)
			return m.billing.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	}
	return nil
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys (D, T, E, B, Q) are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// activeScreen returns the model for the currently visible screen
func (m *Model) activeScreen() tea.Model {
	switch m.currentScreen {
	case ScreenDashboard:
		return m.dashboard
	case ScreenTimer:
		return m.timer
	case ScreenEntries:
		return m.entries
	case ScreenBilling:
		return m.billing
	}
	return nil
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.activeScreen().(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		// Any interaction counts as user activity for the
		// inactivity auto-stop
		m.app.Activity.Touch()

	case tea.KeyMsg:
		m.app.Activity.Touch()

		// Clear transient messages on any keypress
		m.quitMsg = ""
		m.notifyMsg = ""

		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				if m.app.Timer.State().Running {
					m.quitMsg = "Timer is running. Stop it before quitting."
					return m, nil
				}
				m.cancel()
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Dashboard):
				m.currentScreen = ScreenDashboard
				return m, m.initScreen(ScreenDashboard)

			case key.Matches(msg, DefaultKeyMap.Timer):
				m.currentScreen = ScreenTimer
				return m, m.initScreen(ScreenTimer)

			case key.Matches(msg, DefaultKeyMap.Entries):
				m.currentScreen = ScreenEntries
				return m, m.initScreen(ScreenEntries)

			case key.Matches(msg, DefaultKeyMap.Billing):
				m.currentScreen = ScreenBilling
				return m, m.initScreen(ScreenBilling)
			}
		}

	case TimerStateMsg:
		// Fan the snapshot out to every initialized screen, then
		// re-arm the stream reader
		cmds := []tea.Cmd{waitForState(m.stateCh)}
		for _, screen := range []*tea.Model{&m.dashboard, &m.timer, &m.entries, &m.billing} {
			if *screen != nil {
				var cmd tea.Cmd
				*screen, cmd = (*screen).Update(msg)
				if cmd != nil {
					cmds = append(cmds, cmd)
				}
			}
		}
		return m, tea.Batch(cmds...)

	case timerStreamClosedMsg:
		// Controller shut down underneath us
		return m, tea.Quit

	case NotificationMsg:
		m.notifyMsg = fmt.Sprintf("%s: %s", msg.Title, msg.Body)
		return m, nil

	case SwitchScreenMsg:
		m.currentScreen = msg.Screen
		return m, m.initScreen(msg.Screen)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	switch m.currentScreen {
	case ScreenDashboard:
		if m.dashboard != nil {
			m.dashboard, cmd = m.dashboard.Update(msg)
		}
	case ScreenTimer:
		if m.timer != nil {
			m.timer, cmd = m.timer.Update(msg)
		}
	case ScreenEntries:
		if m.entries != nil {
			m.entries, cmd = m.entries.Update(msg)
		}
	case ScreenBilling:
		if m.billing != nil {
			m.billing, cmd = m.billing.Update(msg)
		}
	}

	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf("chrono - %s", m.currentScreen.String()))

	footer := footerStyle.Render("[D]ashboard  [T]imer  [E]ntries  [B]illing  [Q]uit")

	var content string
	if screen := m.activeScreen(); screen != nil {
		content = screen.View()
	} else {
		content = "Loading..."
	}

	var extra []string
	if m.quitMsg != "" {
		extra = append(extra, lipgloss.NewStyle().Foreground(warningColor).Render(m.quitMsg))
	}
	if m.notifyMsg != "" {
		extra = append(extra, lipgloss.NewStyle().Foreground(accentColor).Render(m.notifyMsg))
	}
	if m.err != nil {
		extra = append(extra, lipgloss.NewStyle().Foreground(errorColor).Render("Error: "+m.err.Error()))
	}

	parts := []string{header, "", content}
	if len(extra) > 0 {
		parts = append(parts, "", strings.Join(extra, "\n"))
	}
	parts = append(parts, "", footer)
	return strings.Join(parts, "\n")
}
