package keymap

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "bw", "cutout"
}

// All contains every binding, in help order.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},
	{ActionOpen, []string{"o", "ctrl+o"}, "Open image", "global"},
	{ActionHistory, []string{"H"}, "Save history", "global"},
	{ActionToggleSidebar, []string{"b"}, "Toggle sidebar", "global"},
	{ActionWorkflowBW, []string{"f1"}, "B&W converter", "global"},
	{ActionWorkflowCutout, []string{"f2"}, "Cutout", "global"},
	{ActionNextWorkflow, []string{"tab"}, "Switch workflow", "global"},
	{ActionProcess, []string{"r", "enter"}, "Convert / run cutout", "global"},
	{ActionSave, []string{"s"}, "Save result", "global"},
	{ActionToggleOriginal, []string{"v"}, "Show original / result", "global"},

	// B&W converter
	{ActionNextMethod, []string{"]", "j", "down"}, "Next method", "bw"},
	{ActionPrevMethod, []string{"[", "k", "up"}, "Previous method", "bw"},

	// Cutout
	{ActionReset, []string{"c"}, "Clear rectangle", "cutout"},
	{ActionToggleResultType, []string{"t"}, "Toggle result type", "cutout"},
	{ActionToggleMask, []string{"m"}, "Show mask / result", "cutout"},
}

// Contexts lists the binding contexts in help order with their titles.
var Contexts = []struct {
	Name  string
	Title string
}{
	{"global", "General"},
	{"bw", "B&W converter"},
	{"cutout", "Cutout"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
