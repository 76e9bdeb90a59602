package session

import "errors"

// InputError is a precondition failure. The action is aborted before any
// side effect and Notice is shown to the user in a blocking dialog.
type InputError struct {
	Reason string
	Notice string
}

func (e *InputError) Error() string { return e.Reason }

var (
	ErrNoImage = &InputError{
		Reason: "no image loaded",
		Notice: "Please upload an image first.",
	}
	ErrNoSelection = &InputError{
		Reason: "no selection",
		Notice: "Please upload an image and draw a rectangle first.",
	}
	ErrNoResult = &InputError{
		Reason: "no result",
		Notice: "No result to save",
	}
	ErrDrawing = &InputError{
		Reason: "selection in progress",
		Notice: "Please finish drawing the rectangle first.",
	}
	ErrBusy = &InputError{
		Reason: "request in progress",
		Notice: "Please wait for the current request to finish.",
	}
)

// Notice returns the dialog text for an input error, or "" for other errors.
func Notice(err error) string {
	var ie *InputError
	if errors.As(err, &ie) {
		return ie.Notice
	}
	return ""
}
