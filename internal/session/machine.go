package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/llehouerou/ipv/internal/logging"
)

// State is the UI state of a session. Exactly one is active at a time.
type State string

const (
	Empty          State = "Empty"
	ImageLoaded    State = "ImageLoaded"
	Selecting      State = "Selecting"
	SelectionReady State = "SelectionReady"
	Processing     State = "Processing"
	ResultReady    State = "ResultReady"
	Saving         State = "Saving"
	Error          State = "Error"
)

// Event drives the session chart.
type Event string

const (
	EvLoad        Event = "LOAD"
	EvPress       Event = "PRESS"
	EvCommit      Event = "COMMIT"
	EvDiscard     Event = "DISCARD"
	EvReset       Event = "RESET"
	EvProcess     Event = "PROCESS"
	EvProcessOK   Event = "PROCESS_OK"
	EvProcessFail Event = "PROCESS_FAIL"
	EvSave        Event = "SAVE"
	EvSaveOK      Event = "SAVE_OK"
	EvSaveFail    Event = "SAVE_FAIL"
)

// transitions is the allowed (state, event) -> state table. statekit does
// not report rejected events, so Send consults this first.
var transitions = map[State]map[Event]State{
	Empty: {
		EvLoad: ImageLoaded,
	},
	ImageLoaded: {
		EvLoad:    ImageLoaded,
		EvPress:   Selecting,
		EvReset:   ImageLoaded,
		EvProcess: Processing,
	},
	Selecting: {
		EvLoad:    ImageLoaded,
		EvCommit:  SelectionReady,
		EvDiscard: ImageLoaded,
		EvReset:   ImageLoaded,
	},
	SelectionReady: {
		EvLoad:    ImageLoaded,
		EvPress:   Selecting,
		EvReset:   ImageLoaded,
		EvProcess: Processing,
		EvSave:    Saving,
	},
	Processing: {
		EvLoad:        ImageLoaded,
		EvReset:       ImageLoaded,
		EvProcessOK:   ResultReady,
		EvProcessFail: Error,
	},
	ResultReady: {
		EvLoad:    ImageLoaded,
		EvPress:   Selecting,
		EvReset:   ImageLoaded,
		EvProcess: Processing,
		EvSave:    Saving,
	},
	Saving: {
		EvLoad:     ImageLoaded,
		EvSaveOK:   ResultReady,
		EvSaveFail: Error,
	},
	Error: {
		EvLoad:    ImageLoaded,
		EvPress:   Selecting,
		EvReset:   ImageLoaded,
		EvProcess: Processing,
		EvSave:    Saving,
	},
}

// chartContext is threaded through statekit actions.
type chartContext struct {
	workflow string
	last     Event
	count    int
}

func recordEvent(ctx **chartContext, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	(*ctx).last = Event(event.Type)
	(*ctx).count++
}

func sid(s State) statekit.StateID { return statekit.StateID(string(s)) }

func buildChart() (*statekit.MachineConfig[*chartContext], error) {
	return statekit.NewMachine[*chartContext]("session").
		WithInitial(sid(Empty)).
		WithContext(&chartContext{}).
		WithAction("record", recordEvent).
		State(sid(Empty)).
			On("LOAD").Target(sid(ImageLoaded)).Do("record").
			Done().
		State(sid(ImageLoaded)).
			On("LOAD").Target(sid(ImageLoaded)).Do("record").
			On("PRESS").Target(sid(Selecting)).Do("record").
			On("RESET").Target(sid(ImageLoaded)).Do("record").
			On("PROCESS").Target(sid(Processing)).Do("record").
			Done().
		State(sid(Selecting)).
			On("LOAD").Target(sid(ImageLoaded)).Do("record").
			On("COMMIT").Target(sid(SelectionReady)).Do("record").
			On("DISCARD").Target(sid(ImageLoaded)).Do("record").
			On("RESET").Target(sid(ImageLoaded)).Do("record").
			Done().
		State(sid(SelectionReady)).
			On("LOAD").Target(sid(ImageLoaded)).Do("record").
			On("PRESS").Target(sid(Selecting)).Do("record").
			On("RESET").Target(sid(ImageLoaded)).Do("record").
			On("PROCESS").Target(sid(Processing)).Do("record").
			On("SAVE").Target(sid(Saving)).Do("record").
			Done().
		State(sid(Processing)).
			On("LOAD").Target(sid(ImageLoaded)).Do("record").
			On("RESET").Target(sid(ImageLoaded)).Do("record").
			On("PROCESS_OK").Target(sid(ResultReady)).Do("record").
			On("PROCESS_FAIL").Target(sid(Error)).Do("record").
			Done().
		State(sid(ResultReady)).
			On("LOAD").Target(sid(ImageLoaded)).Do("record").
			On("PRESS").Target(sid(Selecting)).Do("record").
			On("RESET").Target(sid(ImageLoaded)).Do("record").
			On("PROCESS").Target(sid(Processing)).Do("record").
			On("SAVE").Target(sid(Saving)).Do("record").
			Done().
		State(sid(Saving)).
			On("LOAD").Target(sid(ImageLoaded)).Do("record").
			On("SAVE_OK").Target(sid(ResultReady)).Do("record").
			On("SAVE_FAIL").Target(sid(Error)).Do("record").
			Done().
		State(sid(Error)).
			On("LOAD").Target(sid(ImageLoaded)).Do("record").
			On("PRESS").Target(sid(Selecting)).Do("record").
			On("RESET").Target(sid(ImageLoaded)).Do("record").
			On("PROCESS").Target(sid(Processing)).Do("record").
			On("SAVE").Target(sid(Saving)).Do("record").
			Done().
		Build()
}

// chart runs the session statechart for one workflow.
type chart struct {
	interp *statekit.Interpreter[*chartContext]
	ctx    *chartContext
	state  State
}

func newChart(workflow string) *chart {
	cfg, err := buildChart()
	if err != nil {
		// The chart is static; a build failure is a programming error.
		panic(fmt.Sprintf("session chart: %v", err))
	}
	ctx := &chartContext{workflow: workflow}
	interp := statekit.NewInterpreter(cfg)
	interp.UpdateContext(func(c **chartContext) {
		*c = ctx
	})
	interp.Start()
	return &chart{interp: interp, ctx: ctx, state: State(interp.State().Value)}
}

// Transitions returns how many events the interpreter has applied and the
// last of them.
func (c *chart) Transitions() (int, Event) { return c.ctx.count, c.ctx.last }

// State returns the active state.
func (c *chart) State() State { return c.state }

// Can reports whether ev is accepted in the active state.
func (c *chart) Can(ev Event) bool {
	_, ok := transitions[c.state][ev]
	return ok
}

// Send dispatches ev. It returns false and leaves the state untouched when
// the event is not accepted.
func (c *chart) Send(ev Event) bool {
	target, ok := transitions[c.state][ev]
	if !ok {
		logging.Debug().
			Add(logging.Workflow(c.ctx.workflow)).
			Add(logging.State(string(c.state))).
			Add(logging.Str("event", string(ev))).
			Msg("event ignored")
		return false
	}

	from := c.state
	c.interp.Send(statekit.Event{Type: statekit.EventType(ev)})
	c.state = State(c.interp.State().Value)
	if c.state != target {
		// Keep the table authoritative if the interpreter disagrees.
		logging.Warn().
			Add(logging.Workflow(c.ctx.workflow)).
			Add(logging.Transition(string(from), string(target), string(ev))).
			Add(logging.Str("interpreter_state", string(c.state))).
			Add(logging.Str("last_applied", string(c.ctx.last))).
			Add(logging.Str("applied", strconv.Itoa(c.ctx.count))).
			Msg("chart diverged from transition table")
		if err := c.interp.Restore(statekit.Snapshot[*chartContext]{
			MachineID:    "session",
			CurrentState: sid(target),
			Context:      c.ctx,
			CreatedAt:    time.Now(),
		}); err != nil {
			logging.Error().Add(logging.ErrorField(err)).Msg("restore chart state")
		}
		c.state = target
	}

	logging.Debug().
		Add(logging.Workflow(c.ctx.workflow)).
		Add(logging.Transition(string(from), string(c.state), string(ev))).
		Add(logging.Str("applied", strconv.Itoa(c.ctx.count))).
		Msg("session transition")
	return true
}
