package app

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/ipv/internal/keymap"
	"github.com/llehouerou/ipv/internal/logging"
	"github.com/llehouerou/ipv/internal/params"
)

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	act := m.keys.Resolve(msg, m.workflow)
	if act == "" {
		return m, nil
	}
	logging.Debug().
		Add(logging.Workflow(m.workflow)).
		Add(logging.Str("action", string(act))).
		Msg("key action")

	switch act {
	case keymap.ActionQuit:
		m.persist()
		return m, tea.Quit

	case keymap.ActionHelp:
		m.help.SetContexts([]string{"global", m.workflow})
		m.popup = popupHelp

	case keymap.ActionOpen:
		return m.openPrompt()

	case keymap.ActionHistory:
		return m, m.historyCmd()

	case keymap.ActionToggleSidebar:
		m.sidebarHidden = !m.sidebarHidden
		m.persist()
		m.resize()

	case keymap.ActionWorkflowBW:
		m.switchWorkflow(WorkflowBW)
	case keymap.ActionWorkflowCutout:
		m.switchWorkflow(WorkflowCutout)
	case keymap.ActionNextWorkflow:
		if m.workflow == WorkflowBW {
			m.switchWorkflow(WorkflowCutout)
		} else {
			m.switchWorkflow(WorkflowBW)
		}

	case keymap.ActionProcess:
		call, err := m.active().Process()
		return m.startCall(m.workflow, call, err)

	case keymap.ActionSave:
		call, err := m.active().Save()
		return m.startCall(m.workflow, call, err)

	case keymap.ActionReset:
		if err := m.cutout.Reset(); err != nil {
			m.showInputError(err)
		}
		m.dragging = false
		m.showMask = false

	case keymap.ActionNextMethod:
		return m.selectMethod(params.Next(m.converter.Method()))
	case keymap.ActionPrevMethod:
		return m.selectMethod(params.Prev(m.converter.Method()))

	case keymap.ActionToggleResultType:
		return m.selectResultType(m.cutout.ResultType().Toggle())

	case keymap.ActionToggleMask:
		if res := m.cutout.Result(); res != nil && res.Mask != "" {
			m.showMask = !m.showMask
			m.showOriginal = false
		}

	case keymap.ActionToggleOriginal:
		if m.active().Result() != nil {
			m.showOriginal = !m.showOriginal
		}
	}
	return m, nil
}

func (m Model) openPrompt() (Model, tea.Cmd) {
	initial := m.lastDir
	if initial != "" {
		initial += string(filepath.Separator)
	}
	cmd := m.prompt.Start("Open image", initial, promptOpen, m.width, m.height)
	m.popup = popupPrompt
	return m, cmd
}

func (m *Model) switchWorkflow(workflow string) {
	if m.workflow == workflow {
		return
	}
	m.workflow = workflow
	m.dragging = false
	m.showOriginal = false
	m.showMask = false
	m.persist()
}

// selectMethod changes the conversion method; a held result is converted
// again with it.
func (m Model) selectMethod(method params.Method) (Model, tea.Cmd) {
	call, err := m.converter.SelectMethod(method)
	m.persist()
	return m.startCall(WorkflowBW, call, err)
}

// selectResultType changes the cutout result type; a held result is cut
// out again with it.
func (m Model) selectResultType(rt params.ResultType) (Model, tea.Cmd) {
	call, err := m.cutout.SetResultType(rt)
	m.persist()
	return m.startCall(WorkflowCutout, call, err)
}
