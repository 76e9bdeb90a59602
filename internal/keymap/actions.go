// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit          Action = "quit"
	ActionHelp          Action = "help"
	ActionOpen          Action = "open"
	ActionHistory       Action = "history"
	ActionToggleSidebar Action = "toggle_sidebar"

	// Workflow switching
	ActionWorkflowBW     Action = "workflow_bw"
	ActionWorkflowCutout Action = "workflow_cutout"
	ActionNextWorkflow   Action = "next_workflow"

	// Session actions
	ActionProcess Action = "process" // r - convert or run the cutout
	ActionSave    Action = "save"    // s
	ActionReset   Action = "reset"   // c - clear the rectangle

	// Parameters
	ActionNextMethod       Action = "next_method"
	ActionPrevMethod       Action = "prev_method"
	ActionToggleResultType Action = "toggle_result_type"

	// Display
	ActionToggleMask     Action = "toggle_mask"     // m - mask instead of result
	ActionToggleOriginal Action = "toggle_original" // v - source instead of result
)
