package session

import (
	"context"

	"github.com/llehouerou/ipv/internal/params"
)

// Kind distinguishes process calls from save calls.
type Kind int

const (
	KindProcess Kind = iota
	KindSave
)

func (k Kind) String() string {
	if k == KindSave {
		return "save"
	}
	return "process"
}

// Call is a pending service round trip. The session has already entered
// its busy state; the caller runs Run off the UI loop and hands the
// Outcome back to Settle.
type Call struct {
	Kind Kind
	// Gen is the process generation this call belongs to.
	Gen uint64
	// Epoch identifies the loaded image at issue time.
	Epoch uint64
	Run   func(ctx context.Context) Outcome
}

// Result is a processed artifact held for display and saving.
type Result struct {
	Image      string
	Mask       string
	Method     params.Method
	ResultType params.ResultType
	Gen        uint64
}

// Saved is where the service stored a saved result.
type Saved struct {
	ResultPath string
	MaskPath   string
}

// Outcome is what a Call produced.
type Outcome struct {
	Result *Result
	Saved  *Saved
	Err    error
}

// Settlement reports how Settle applied an outcome.
type Settlement struct {
	// Stale is set when a newer call or image superseded this one.
	Stale bool
	// Notice is dialog text for a failure, empty on success.
	Notice string
	Saved  *Saved
}
