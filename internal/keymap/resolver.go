package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Resolver maps key presses to actions. Bindings of the active workflow
// take precedence over global ones.
type Resolver struct {
	byContext map[string][]entry
	byAction  map[Action]key.Binding
}

type entry struct {
	action  Action
	binding key.Binding
}

// NewResolver creates a resolver from bindings.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		byContext: make(map[string][]entry),
		byAction:  make(map[Action]key.Binding),
	}
	for _, b := range bindings {
		kb := key.NewBinding(
			key.WithKeys(b.Keys...),
			key.WithHelp(strings.Join(b.Keys, "/"), b.Description),
		)
		r.byContext[b.Context] = append(r.byContext[b.Context], entry{b.Action, kb})
		if _, ok := r.byAction[b.Action]; !ok {
			r.byAction[b.Action] = kb
		}
	}
	return r
}

// Default returns a resolver for All.
func Default() *Resolver {
	return NewResolver(All)
}

// Resolve returns the action for msg in workflow context, or "" if unbound.
func (r *Resolver) Resolve(msg tea.KeyMsg, context string) Action {
	for _, ctx := range []string{context, "global"} {
		for _, e := range r.byContext[ctx] {
			if key.Matches(msg, e.binding) {
				return e.action
			}
		}
	}
	return ""
}

// KeysFor returns the keys bound to an action.
func (r *Resolver) KeysFor(action Action) []string {
	return r.byAction[action].Keys()
}

// Help returns the help entry of an action's binding.
func (r *Resolver) Help(action Action) key.Help {
	return r.byAction[action].Help()
}
