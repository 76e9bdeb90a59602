package app

import (
	"github.com/llehouerou/ipv/internal/imagefile"
	"github.com/llehouerou/ipv/internal/session"
	"github.com/llehouerou/ipv/internal/state"
)

// ImageLoadedMsg carries a decoded image for a workflow.
type ImageLoadedMsg struct {
	Workflow string
	Source   *imagefile.Source
}

// ImageLoadFailedMsg reports an image that could not be read or decoded.
type ImageLoadFailedMsg struct {
	Workflow string
	Path     string
	Err      error
}

// CallDoneMsg carries the outcome of a service call back to its session.
type CallDoneMsg struct {
	Workflow string
	Call     *session.Call
	Outcome  session.Outcome
}

// HistoryMsg carries the recent saves for the history popup.
type HistoryMsg struct {
	Records []state.SaveRecord
	Err     error
}

// SaveRecordedMsg reports the result of writing a save to history.
type SaveRecordedMsg struct {
	Err error
}
