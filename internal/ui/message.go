package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/scoop/internal/session"
	"github.com/desertthunder/scoop/internal/state"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgAction MsgKind = iota
	MsgResponse
	MsgSessionEvent
	MsgSessionEnded
)

// actionMsg is the constructor for [MsgAction]
func actionMsg(a state.Action) Msg {
	return Msg{kind: MsgAction, data: a}
}

// responseMsg is the constructor for [MsgResponse], the action produced when a request finishes
func responseMsg(a state.Action) Msg {
	return Msg{kind: MsgResponse, data: a}
}

// sessionEventMsg is the constructor for [MsgSessionEvent]
func sessionEventMsg(ev session.Event) Msg {
	return Msg{kind: MsgSessionEvent, data: ev}
}

// sessionEndedMsg is the constructor for [MsgSessionEnded]
func sessionEndedMsg() Msg {
	return Msg{kind: MsgSessionEnded}
}

// dispatch returns a command that delivers a to the root model.
func dispatch(a state.Action) tea.Cmd {
	return func() tea.Msg { return actionMsg(a) }
}

// requests counts network calls started from Update so the root can show progress.
//
// Only touched from the bubbletea update loop.
type requests struct {
	inflight int
}

// run starts fn as a command and counts it until its response is applied.
func (r *requests) run(fn func() state.Action) tea.Cmd {
	r.inflight++
	return func() tea.Msg { return responseMsg(fn()) }
}

func (r *requests) done() {
	if r.inflight > 0 {
		r.inflight--
	}
}

func (r *requests) pending() bool {
	return r.inflight > 0
}
