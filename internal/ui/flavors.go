package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/scoop/internal/services"
	"github.com/desertthunder/scoop/internal/shared"
	"github.com/desertthunder/scoop/internal/state"
)

// MainProps is the slice of [state.State] the main view reads.
type MainProps struct {
	Flavor      string
	IceCreamMap map[string]int
	RestURL     string
	Token       string
	Username    string
}

const (
	defaultListWidth  = 48
	defaultListHeight = 16
)

// flavorView lists flavors with their quantities and edits them through the API.
type flavorView struct {
	ctx      context.Context
	api      services.Service
	requests *requests
	list     list.Model
	input    textinput.Model
	adding   bool
	help     help.Model
	keys     keyMap
}

func newFlavorView(ctx context.Context, api services.Service, req *requests) flavorView {
	l := list.New(nil, list.NewDefaultDelegate(), defaultListWidth, defaultListHeight)
	l.Title = "Flavors"
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	input := textinput.New()
	input.Prompt = "New flavor: "
	input.Placeholder = "rocky road"
	input.CharLimit = 40

	return flavorView{
		ctx:      ctx,
		api:      api,
		requests: req,
		list:     l,
		input:    input,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// capturing reports whether the view is consuming raw keystrokes.
func (v flavorView) capturing() bool {
	return v.adding
}

func (v *flavorView) setSize(width, height int) {
	v.list.SetSize(max(width-4, defaultListWidth/2), max(height-10, 6))
}

// sync rebuilds the list from p, keeping the cursor on the selected flavor.
func (v *flavorView) sync(p MainProps) {
	names := state.FlavorNames(p.IceCreamMap)
	items := make([]list.Item, len(names))
	selected := 0
	for i, name := range names {
		items[i] = flavorItem{name: name, count: p.IceCreamMap[name]}
		if name == p.Flavor {
			selected = i
		}
	}
	v.list.SetItems(items)
	v.list.Select(selected)
}

func (v flavorView) selected() (flavorItem, bool) {
	item, ok := v.list.SelectedItem().(flavorItem)
	return item, ok
}

// load fetches the flavor map for token.
func (v flavorView) load(token string) tea.Cmd {
	ctx, api := v.ctx, v.api
	return v.requests.run(func() state.Action {
		flavors, err := api.Flavors(ctx, token)
		if err != nil {
			return state.Failed{Err: err}
		}
		return state.FlavorsLoaded{Flavors: flavors}
	})
}

func (v flavorView) setCount(token, flavor string, count int) tea.Cmd {
	ctx, api := v.ctx, v.api
	return v.requests.run(func() state.Action {
		if err := api.SetFlavor(ctx, token, flavor, count); err != nil {
			return state.Failed{Err: err}
		}
		return state.FlavorCountSet{Flavor: flavor, Count: count}
	})
}

func (v flavorView) remove(token, flavor string) tea.Cmd {
	ctx, api := v.ctx, v.api
	return v.requests.run(func() state.Action {
		if err := api.DeleteFlavor(ctx, token, flavor); err != nil {
			return state.Failed{Err: err}
		}
		return state.FlavorRemoved{Flavor: flavor}
	})
}

func (v flavorView) Update(msg tea.Msg, p MainProps) (flavorView, tea.Cmd) {
	if v.adding {
		return v.updateAdding(msg, p)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		item, hasItem := v.selected()
		switch {
		case key.Matches(msg, v.keys.more) && hasItem:
			return v, v.setCount(p.Token, item.name, p.IceCreamMap[item.name]+1)
		case key.Matches(msg, v.keys.less) && hasItem:
			count := p.IceCreamMap[item.name]
			if count == 0 {
				return v, nil
			}
			return v, v.setCount(p.Token, item.name, count-1)
		case key.Matches(msg, v.keys.remove) && hasItem:
			return v, v.remove(p.Token, item.name)
		case key.Matches(msg, v.keys.add):
			v.adding = true
			v.input.SetValue("")
			return v, v.input.Focus()
		case key.Matches(msg, v.keys.reload):
			return v, v.load(p.Token)
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)

	if item, ok := v.selected(); ok && item.name != p.Flavor {
		return v, tea.Batch(cmd, dispatch(state.SelectFlavor{Flavor: item.name}))
	}
	return v, cmd
}

func (v flavorView) updateAdding(msg tea.Msg, p MainProps) (flavorView, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, v.keys.dismiss):
			v.adding = false
			v.input.Blur()
			return v, nil
		case key.Matches(msg, v.keys.submit):
			v.adding = false
			v.input.Blur()

			name := shared.NormalizeFlavor(v.input.Value())
			if name == "" {
				return v, dispatch(state.Failed{Err: fmt.Errorf("%w: flavor name is required", shared.ErrInvalidInput)})
			}
			if _, exists := p.IceCreamMap[name]; exists {
				return v, dispatch(state.SelectFlavor{Flavor: name})
			}
			return v, v.setCount(p.Token, name, 0)
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v flavorView) View(p MainProps) string {
	title := styles.title.Render(fmt.Sprintf("Welcome, %s!", p.Username))

	if len(p.IceCreamMap) == 0 && !v.adding {
		empty := styles.help.Render("No flavors yet. Press a to add one.")
		return fmt.Sprintf("%s\n%s\n\n%s", title, empty, v.helpView())
	}

	body := v.list.View()
	if v.adding {
		body = fmt.Sprintf("%s\n\n%s", body, v.input.View())
	}

	return fmt.Sprintf("%s\n%s\n\n%s", title, body, v.helpView())
}

func (v flavorView) helpView() string {
	if v.adding {
		return v.help.ShortHelpView([]key.Binding{v.keys.submit, v.keys.dismiss})
	}
	return v.help.ShortHelpView([]key.Binding{v.keys.up, v.keys.down, v.keys.more, v.keys.less, v.keys.add, v.keys.remove, v.keys.reload})
}
