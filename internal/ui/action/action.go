// Package action defines how UI components report user intent to the app.
package action

import tea "github.com/charmbracelet/bubbletea"

// Action is something a component asks the app to do. ActionType names it
// for logging.
type Action interface {
	ActionType() string
}

// Msg wraps an action with the name of the component that raised it.
type Msg struct {
	Source string // "notice", "prompt", "methods", ...
	Action Action
}

var _ tea.Msg = Msg{}
