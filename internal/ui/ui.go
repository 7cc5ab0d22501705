package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/scoop/internal/services"
	"github.com/desertthunder/scoop/internal/session"
	"github.com/desertthunder/scoop/internal/shared"
	"github.com/desertthunder/scoop/internal/state"
)

const (
	headerText          = "Ice cream, we all scream for it!"
	logoutText          = "Log out"
	sessionTimeoutAlert = "Your session timed out."
)

// Model is the root of the TUI. It owns the only [state.State] and is the only place actions are applied.
type Model struct {
	ctx      context.Context
	api      services.Service
	logger   *log.Logger
	state    state.State
	events   <-chan session.Event
	requests *requests
	login    loginView
	flavors  flavorView
	alerts   []string
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	width    int
	height   int
}

// NewModel creates the root model. events may be nil when no session listener runs.
func NewModel(ctx context.Context, api services.Service, events <-chan session.Event, logger *log.Logger) *Model {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}

	req := &requests{}
	s := state.New(api.BaseURL())

	m := &Model{
		ctx:      ctx,
		api:      api,
		logger:   logger,
		state:    s,
		events:   events,
		requests: req,
		login:    newLoginView(ctx, api, req),
		flavors:  newFlavorView(ctx, api, req),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:     help.New(),
		keys:     newKeyMap(),
	}
	return m
}

// State returns the current application state.
func (m *Model) State() state.State {
	return m.state
}

// Init starts the cursor blink, the progress spinner, and the session event wait.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForSession())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.flavors.setSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m, m.handleMsg(msg)

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m.updateRoute(msg)
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgResponse:
		m.requests.done()
		a, _ := msg.data.(state.Action)
		return m.apply(a)

	case MsgAction:
		a, _ := msg.data.(state.Action)
		return m.apply(a)

	case MsgSessionEvent:
		ev, _ := msg.data.(session.Event)
		m.logger.Warn("session expired by server", "event", ev.Name, "id", ev.ID)
		m.alerts = append(m.alerts, sessionTimeoutAlert)
		return tea.Batch(m.Logout(), m.waitForSession())

	case MsgSessionEnded:
		m.logger.Info("session listener stopped")
	}
	return nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case len(m.alerts) > 0:
		if key.Matches(msg, m.keys.submit) || key.Matches(msg, m.keys.dismiss) {
			m.alerts = m.alerts[1:]
		}
		return m, nil

	case key.Matches(msg, m.keys.logout) && m.state.Authenticated:
		return m, m.Logout()

	case key.Matches(msg, m.keys.dismiss) && m.state.HasError() && !m.flavors.capturing():
		return m, m.apply(state.DismissError{})
	}

	return m.updateRoute(msg)
}

func (m *Model) updateRoute(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state.Route {
	case state.RouteLogin:
		m.login, cmd = m.login.Update(msg, m.loginProps())
	case state.RouteMain:
		m.flavors, cmd = m.flavors.Update(msg, m.mainProps())
	}
	return m, cmd
}

// apply reduces a into the state and runs route entry effects.
func (m *Model) apply(a state.Action) tea.Cmd {
	prev := m.state
	m.state = state.Reduce(m.state, a)

	var cmd tea.Cmd
	if prev.Route != state.RouteMain && m.state.Route == state.RouteMain {
		cmd = m.flavors.load(m.state.Token)
	}
	if prev.Route != state.RouteLogin && m.state.Route == state.RouteLogin {
		m.login.reset(m.loginProps())
	}
	m.flavors.sync(m.mainProps())

	return cmd
}

// Logout posts to the logout endpoint with the current token.
//
// A completed request resets the session and returns to the login view; a transport failure only sets the error banner.
func (m *Model) Logout() tea.Cmd {
	ctx, api, token := m.ctx, m.api, m.state.Token
	m.logger.Info("logging out", "username", m.state.Username)

	return m.requests.run(func() state.Action {
		if err := api.Logout(ctx, token); err != nil {
			return state.Failed{Err: err}
		}
		return state.LoggedOut{}
	})
}

func (m *Model) waitForSession() tea.Cmd {
	if m.events == nil {
		return nil
	}

	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return sessionEndedMsg()
		}
		return sessionEventMsg(ev)
	}
}

func (m *Model) loginProps() LoginProps {
	return LoginProps{
		Username: m.state.Username,
		Password: m.state.Password,
		RestURL:  m.state.RestURL,
	}
}

func (m *Model) mainProps() MainProps {
	return MainProps{
		Flavor:      m.state.Flavor,
		IceCreamMap: m.state.IceCreamMap,
		RestURL:     m.state.RestURL,
		Token:       m.state.Token,
		Username:    m.state.Username,
	}
}

// View renders the header, the current route, and the error banner.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if len(m.alerts) > 0 {
		b.WriteString(styles.alert.Render(fmt.Sprintf("%s\n\nPress enter to continue", m.alerts[0])))
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderBody())

	if m.state.HasError() {
		b.WriteString("\n\n")
		b.WriteString(styles.err.Render(m.state.Error))
	}

	if m.requests.pending() {
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View() + " Working...")
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m *Model) renderHeader() string {
	banner := styles.header.Render("🍦 " + headerText)
	if !m.state.Authenticated {
		return banner
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, banner, "  ", styles.button.Render(logoutText))
}

func (m *Model) renderBody() string {
	switch m.state.Route {
	case state.RouteLogin:
		return m.login.View(m.loginProps())
	case state.RouteMain:
		return m.flavors.View(m.mainProps())
	default:
		return fmt.Sprintf("Unknown route %s", m.state.Route)
	}
}

func (m *Model) renderHelp() string {
	bindings := []key.Binding{m.keys.quit}
	if m.state.Authenticated {
		bindings = append(bindings, m.keys.logout)
	}
	if m.state.HasError() {
		bindings = append(bindings, m.keys.dismiss)
	}
	return m.help.ShortHelpView(bindings)
}
