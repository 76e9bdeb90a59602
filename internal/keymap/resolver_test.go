package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/ipv/internal/ui/testutil"
)

func TestResolve(t *testing.T) {
	r := Default()

	tests := []struct {
		key     string
		context string
		want    Action
	}{
		{"q", "bw", ActionQuit},
		{"ctrl+c", "cutout", ActionQuit},
		{"r", "bw", ActionProcess},
		{"enter", "cutout", ActionProcess},
		{"s", "cutout", ActionSave},
		{"f1", "cutout", ActionWorkflowBW},
		{"f2", "bw", ActionWorkflowCutout},
		{"]", "bw", ActionNextMethod},
		{"down", "bw", ActionNextMethod},
		{"k", "bw", ActionPrevMethod},
		{"c", "cutout", ActionReset},
		{"t", "cutout", ActionToggleResultType},
		{"m", "cutout", ActionToggleMask},
		{"v", "bw", ActionToggleOriginal},
		{"tab", "bw", ActionNextWorkflow},
		// Workflow bindings do not leak into the other workflow.
		{"c", "bw", ""},
		{"]", "cutout", ""},
		{"unknown", "bw", ""},
	}

	for _, tt := range tests {
		t.Run(tt.context+"/"+tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(testutil.Key(tt.key), tt.context))
		})
	}
}

func TestWorkflowBindingWinsOverGlobal(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionQuit, []string{"x"}, "Quit", "global"},
		{ActionReset, []string{"x"}, "Clear", "cutout"},
	})

	assert.Equal(t, ActionReset, r.Resolve(testutil.Key("x"), "cutout"))
	assert.Equal(t, ActionQuit, r.Resolve(testutil.Key("x"), "bw"))
}

func TestKeysForAndHelp(t *testing.T) {
	r := Default()

	assert.Equal(t, []string{"o", "ctrl+o"}, r.KeysFor(ActionOpen))
	assert.Equal(t, "o/ctrl+o", r.Help(ActionOpen).Key)
	assert.Equal(t, "Open image", r.Help(ActionOpen).Desc)
	assert.Empty(t, r.KeysFor("missing"))
}

func TestEveryActionIsBound(t *testing.T) {
	actions := []Action{
		ActionQuit, ActionHelp, ActionOpen, ActionHistory, ActionToggleSidebar,
		ActionWorkflowBW, ActionWorkflowCutout, ActionNextWorkflow,
		ActionProcess, ActionSave, ActionReset,
		ActionNextMethod, ActionPrevMethod, ActionToggleResultType,
		ActionToggleMask, ActionToggleOriginal,
	}
	r := Default()
	for _, a := range actions {
		assert.NotEmpty(t, r.KeysFor(a), a)
	}
}

func TestByContext(t *testing.T) {
	for _, c := range Contexts {
		assert.NotEmpty(t, ByContext(c.Name), c.Name)
	}
	assert.Empty(t, ByContext("missing"))
}
