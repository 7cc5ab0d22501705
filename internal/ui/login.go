package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/scoop/internal/services"
	"github.com/desertthunder/scoop/internal/shared"
	"github.com/desertthunder/scoop/internal/state"
)

// LoginProps is the slice of [state.State] the login view reads.
type LoginProps struct {
	Username string
	Password string
	RestURL  string
}

const (
	focusUsername = iota
	focusPassword
)

// loginView collects credentials and exchanges them for a token.
type loginView struct {
	ctx      context.Context
	api      services.Service
	requests *requests
	username textinput.Model
	password textinput.Model
	focus    int
	help     help.Model
	keys     keyMap
}

func newLoginView(ctx context.Context, api services.Service, req *requests) loginView {
	username := textinput.New()
	username.Prompt = "Username: "
	username.Placeholder = "username"
	username.CharLimit = 64

	password := textinput.New()
	password.Prompt = "Password: "
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 64

	v := loginView{
		ctx:      ctx,
		api:      api,
		requests: req,
		username: username,
		password: password,
		help:     help.New(),
		keys:     newKeyMap(),
	}
	v.username.Focus()
	return v
}

// reset loads the inputs from p and returns focus to the username field.
func (v *loginView) reset(p LoginProps) {
	v.username.SetValue(p.Username)
	v.password.SetValue(p.Password)
	v.setFocus(focusUsername)
}

func (v *loginView) setFocus(f int) tea.Cmd {
	v.focus = f
	if f == focusUsername {
		v.password.Blur()
		return v.username.Focus()
	}
	v.username.Blur()
	return v.password.Focus()
}

func (v loginView) Update(msg tea.Msg, p LoginProps) (loginView, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, v.keys.next), msg.Type == tea.KeyUp, msg.Type == tea.KeyDown:
			return v, v.setFocus((v.focus + 1) % 2)
		case key.Matches(msg, v.keys.submit):
			if v.focus == focusUsername && v.password.Value() == "" {
				return v, v.setFocus(focusPassword)
			}
			return v, v.submit()
		}
	}

	var cmd tea.Cmd
	if v.focus == focusUsername {
		v.username, cmd = v.username.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v loginView) submit() tea.Cmd {
	username := strings.TrimSpace(v.username.Value())
	password := v.password.Value()

	if username == "" || password == "" {
		return dispatch(state.Failed{Err: fmt.Errorf("%w: enter a username and password", shared.ErrMissingCredentials)})
	}

	ctx, api := v.ctx, v.api
	return tea.Batch(
		dispatch(state.SetCredentials{Username: username, Password: password}),
		v.requests.run(func() state.Action {
			token, err := api.Login(ctx, username, password)
			if err != nil {
				return state.Failed{Err: err}
			}
			return state.LoggedIn{Token: token}
		}),
	)
}

func (v loginView) View(p LoginProps) string {
	title := styles.title.Render("Log in")
	server := styles.help.Render(fmt.Sprintf("Server: %s", p.RestURL))
	helpView := v.help.ShortHelpView([]key.Binding{v.keys.next, v.keys.submit, v.keys.quit})

	return fmt.Sprintf("%s\n%s\n%s\n\n%s\n\n%s", title, v.username.View(), v.password.View(), server, helpView)
}
