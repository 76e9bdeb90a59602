package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/ipv/internal/errmsg"
	"github.com/llehouerou/ipv/internal/logging"
	"github.com/llehouerou/ipv/internal/remote"
	"github.com/llehouerou/ipv/internal/session"
	"github.com/llehouerou/ipv/internal/state"
	"github.com/llehouerou/ipv/internal/ui/action"
	"github.com/llehouerou/ipv/internal/ui/helpbindings"
	"github.com/llehouerou/ipv/internal/ui/notice"
	"github.com/llehouerou/ipv/internal/ui/textinput"
)

type popupKind int

const (
	popupNone popupKind = iota
	popupNotice
	popupHelp
	popupPrompt
)

// promptOpen tags the file prompt result.
const promptOpen = "open"

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.syncPanel()
	m.layoutCanvas()
	return m, tea.Batch(cmd, m.syncBusy())
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.busy, cmd = m.busy.Update(msg)
		return m, cmd

	case action.Msg:
		return m.handleAction(msg)

	case ImageLoadedMsg:
		return m.handleImageLoaded(msg)

	case ImageLoadFailedMsg:
		m.sessionFor(msg.Workflow).LoadFailed(msg.Err)
		m.showNotice(notice.Error, "Error", errmsg.FormatWith(errmsg.OpImageLoad, filepath.Base(msg.Path), msg.Err))
		return m, nil

	case CallDoneMsg:
		return m.handleCallDone(msg)

	case HistoryMsg:
		m.showHistory(msg)
		return m, nil

	case SaveRecordedMsg:
		if msg.Err != nil {
			logging.Warn().Add(logging.ErrorField(msg.Err)).Msg("save history write failed")
		}
		return m, nil

	case tea.KeyMsg:
		if m.popup != popupNone {
			return m.updatePopup(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.popup != popupNone {
			return m, nil
		}
		return m.handleMouse(msg)
	}

	// Cursor blinks and the like belong to the prompt.
	if m.popup == popupPrompt {
		return m.updatePopup(msg)
	}
	return m, nil
}

func (m Model) updatePopup(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.popup {
	case popupNotice:
		_, cmd = m.notice.Update(msg)
	case popupHelp:
		_, cmd = m.help.Update(msg)
	case popupPrompt:
		_, cmd = m.prompt.Update(msg)
	case popupNone:
	}
	return m, cmd
}

func (m Model) handleAction(msg action.Msg) (Model, tea.Cmd) {
	switch a := msg.Action.(type) {
	case notice.Dismissed, helpbindings.Close:
		m.popup = popupNone
	case textinput.Result:
		m.popup = popupNone
		if a.Canceled || a.Context != promptOpen || a.Text == "" {
			return m, nil
		}
		return m.openImage(a.Text)
	}
	return m, nil
}

// openImage starts loading path into the active workflow.
func (m Model) openImage(path string) (Model, tea.Cmd) {
	path = textinput.ExpandHome(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	m.lastDir = filepath.Dir(path)
	m.persist()
	m.active().BeginLoad()
	return m, loadImageCmd(m.workflow, path)
}

func (m Model) handleImageLoaded(msg ImageLoadedMsg) (Model, tea.Cmd) {
	if err := m.sessionFor(msg.Workflow).Load(msg.Source); err != nil {
		return m, nil
	}
	delete(m.lastSaved, msg.Workflow)
	if msg.Workflow == m.workflow {
		m.showOriginal = false
		m.showMask = false
		m.dragging = false
	}
	return m, nil
}

func (m Model) handleCallDone(msg CallDoneMsg) (Model, tea.Cmd) {
	sess := m.sessionFor(msg.Workflow)
	st := sess.Settle(msg.Call, msg.Outcome)

	var cmd tea.Cmd
	if st.Saved != nil {
		src := ""
		if s := sess.Source(); s != nil {
			src = s.Path
		}
		cmd = m.recordSaveCmd(msg.Workflow, src, sess.Result(), st.Saved)
	}
	if st.Stale {
		return m, cmd
	}

	if st.Saved != nil {
		m.lastSaved[msg.Workflow] = st.Saved.ResultPath
	}
	if st.Notice != "" {
		m.showNotice(notice.Error, failureTitle(msg.Outcome.Err), st.Notice)
	} else if msg.Call.Kind == session.KindProcess && msg.Workflow == m.workflow {
		m.showOriginal = false
	}
	return m, cmd
}

// failureTitle tells a request the service turned down apart from one that
// never got an answer.
func failureTitle(err error) string {
	if remote.IsServiceError(err) {
		return "Service error"
	}
	return "Connection error"
}

// startCall hands a session call to the runtime, or reports why the
// session refused it.
func (m Model) startCall(workflow string, call *session.Call, err error) (Model, tea.Cmd) {
	if err != nil {
		m.showInputError(err)
		return m, nil
	}
	if call == nil {
		return m, nil
	}
	return m, m.runCallCmd(workflow, call)
}

func (m *Model) showInputError(err error) {
	text := session.Notice(err)
	if text == "" {
		text = err.Error()
	}
	m.showNotice(notice.Info, "Notice", text)
}

func (m *Model) showNotice(kind notice.Kind, title, message string) {
	m.notice.SetSize(m.width, m.height)
	m.notice.Show(kind, title, message, nil)
	m.popup = popupNotice
}

func (m *Model) showHistory(msg HistoryMsg) {
	if msg.Err != nil {
		m.showNotice(notice.Error, "Error", errmsg.Format(errmsg.OpHistory, msg.Err))
		return
	}
	m.showNotice(notice.Info, "Recent saves", formatHistory(msg.Records))
}

func formatHistory(records []state.SaveRecord) string {
	if len(records) == 0 {
		return "Nothing saved yet."
	}
	lines := make([]string, 0, len(records))
	for _, r := range records {
		detail := r.Method
		if r.Workflow == WorkflowCutout {
			detail = r.ResultType
		}
		lines = append(lines, fmt.Sprintf("%s · %s %s · %s",
			humanize.Time(r.SavedAt), r.Workflow, detail, filepath.Base(r.ResultPath)))
	}
	return strings.Join(lines, "\n")
}

// syncPanel mirrors session parameters into the sidebar.
func (m *Model) syncPanel() {
	m.panel.SetWorkflow(m.workflow)
	m.panel.SetMethod(m.converter.Method())
	m.panel.SetResultType(m.cutout.ResultType())
	rect, ok := m.cutout.Selection().Selection()
	m.panel.SetSelection(rect, ok)
	m.panel.SetEnabled(m.active().View().State != session.Saving)
}

// syncBusy mirrors the active session's busy flag into the indicator.
func (m *Model) syncBusy() tea.Cmd {
	v := m.active().View()
	if v.Busy == m.busy.Active() && v.Status == m.busy.Label() {
		return nil
	}
	return m.busy.SetBusy(v.Busy, v.Status)
}
