package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/ipv/internal/imagefile"
	"github.com/llehouerou/ipv/internal/session"
	"github.com/llehouerou/ipv/internal/state"
)

// historyLimit is how many saves the history popup lists.
const historyLimit = 20

func loadImageCmd(workflow, path string) tea.Cmd {
	return func() tea.Msg {
		src, err := imagefile.Load(path)
		if err != nil {
			return ImageLoadFailedMsg{Workflow: workflow, Path: path, Err: err}
		}
		return ImageLoadedMsg{Workflow: workflow, Source: src}
	}
}

// runCallCmd executes call off the UI loop. The outcome always comes back
// as a CallDoneMsg so the session can release its busy state.
func (m Model) runCallCmd(workflow string, call *session.Call) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return CallDoneMsg{Workflow: workflow, Call: call, Outcome: call.Run(ctx)}
	}
}

func (m Model) recordSaveCmd(workflow string, src string, res *session.Result, saved *session.Saved) tea.Cmd {
	if m.store == nil || saved == nil {
		return nil
	}
	rec := state.SaveRecord{
		Workflow:   workflow,
		Source:     src,
		ResultPath: saved.ResultPath,
		MaskPath:   saved.MaskPath,
		SavedAt:    time.Now(),
	}
	if res != nil {
		rec.Method = string(res.Method)
		rec.ResultType = string(res.ResultType)
	}
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return SaveRecordedMsg{Err: store.RecordSave(ctx, rec)}
	}
}

func (m Model) historyCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		recs, err := store.History(ctx, historyLimit)
		return HistoryMsg{Records: recs, Err: err}
	}
}
