// Package session holds the per-workflow interaction state: the loaded
// image, its preview geometry, the held result, the busy indicator and the
// UI state chart.
//
// Sessions are owned by a single goroutine. Service round trips are handed
// out as Calls whose Run closures only capture immutable request data, so
// they can execute anywhere; their outcomes must come back through Settle
// on the owning goroutine.
package session

import (
	"context"
	"errors"
	"strconv"

	"github.com/llehouerou/ipv/internal/errmsg"
	"github.com/llehouerou/ipv/internal/geometry"
	"github.com/llehouerou/ipv/internal/imagefile"
	"github.com/llehouerou/ipv/internal/logging"
	"github.com/llehouerou/ipv/internal/params"
	"github.com/llehouerou/ipv/internal/remote"
)

// Status line texts shared by both workflows.
const (
	StatusLoading   = "Loading image..."
	StatusLoadError = "Error loading image. Please try another file."
)

// Options configures a session.
type Options struct {
	MaxSize     int
	MinRectSize int
	Policy      geometry.Policy
	Method      params.Method
	ResultType  params.ResultType
}

func (o Options) withDefaults() Options {
	if o.MaxSize <= 0 {
		o.MaxSize = 800
	}
	if o.MinRectSize <= 0 {
		o.MinRectSize = 20
	}
	if o.Method == "" {
		o.Method = params.DefaultMethod
	}
	if o.ResultType == "" {
		o.ResultType = params.DefaultResultType
	}
	return o
}

// texts are the workflow specific status lines.
type texts struct {
	loaded     string
	processing string
	processed  string
	saving     string
	saved      string
	processOp  errmsg.Op
	saveOp     errmsg.Op
}

// View is a read-only snapshot for rendering.
type View struct {
	State      State
	Status     string
	Busy       bool
	HasImage   bool
	CanProcess bool
	CanSave    bool
	Result     *Result
}

type core struct {
	workflow string
	text     texts
	opts     Options
	chart    *chart

	source *imagefile.Source
	geom   geometry.Geometry
	result *Result
	status string

	busy       int
	processGen uint64
	epoch      uint64
}

func newCore(workflow string, text texts, opts Options) core {
	return core{
		workflow: workflow,
		text:     text,
		opts:     opts.withDefaults(),
		chart:    newChart(workflow),
	}
}

// State returns the active UI state.
func (c *core) State() State { return c.chart.State() }

// Status returns the status line.
func (c *core) Status() string { return c.status }

// Busy reports whether any call is outstanding.
func (c *core) Busy() bool { return c.busy > 0 }

// Source returns the loaded image, or nil.
func (c *core) Source() *imagefile.Source { return c.source }

// Geometry returns the preview geometry of the loaded image.
func (c *core) Geometry() geometry.Geometry { return c.geom }

// Result returns the held result, or nil.
func (c *core) Result() *Result { return c.result }

// Workflow names the workflow ("bw" or "cutout").
func (c *core) Workflow() string { return c.workflow }

// CanSave reports whether Save would start a call.
func (c *core) CanSave() bool {
	return c.result != nil && c.busy == 0 && c.chart.Can(EvSave)
}

// BeginLoad marks an image load in progress.
func (c *core) BeginLoad() {
	c.status = StatusLoading
}

// LoadFailed records a failed decode. The session keeps its previous image.
func (c *core) LoadFailed(err error) {
	c.status = StatusLoadError
	logging.Warn().
		Add(logging.Workflow(c.workflow)).
		Add(logging.ErrorField(err)).
		Msg("image load failed")
}

// load installs a new image, clearing any result and superseding
// outstanding calls.
func (c *core) load(src *imagefile.Source) error {
	g, err := geometry.Fit(src.Width, src.Height, c.opts.MaxSize, c.opts.Policy)
	if err != nil {
		c.LoadFailed(err)
		return err
	}

	c.source = src
	c.geom = g
	c.result = nil
	c.epoch++
	c.processGen++
	c.chart.Send(EvLoad)
	c.status = c.text.loaded

	logging.Info().
		Add(logging.Workflow(c.workflow)).
		Add(logging.Path(src.Path)).
		Add(logging.Size("source", src.Width, src.Height)).
		Add(logging.Size("preview", g.PreviewWidth, g.PreviewHeight)).
		Msg("image loaded")
	return nil
}

// clear drops the result and supersedes any outstanding process call.
func (c *core) clear() {
	c.result = nil
	c.processGen++
}

func (c *core) acquire() {
	c.busy++
}

func (c *core) release() {
	if c.busy == 0 {
		return
	}
	c.busy--
}

// canStartProcess checks the chart side of the process preconditions.
func (c *core) canStartProcess() error {
	switch c.chart.State() {
	case Processing:
		return nil
	case Saving:
		return ErrBusy
	}
	if !c.chart.Can(EvProcess) {
		return ErrBusy
	}
	return nil
}

// startProcess enters Processing and wraps run in a Call stamped with a
// fresh generation. Any older process call becomes stale.
func (c *core) startProcess(run func(context.Context) Outcome) *Call {
	c.processGen++
	gen := c.processGen
	if c.chart.State() != Processing {
		c.chart.Send(EvProcess)
	}
	c.acquire()
	c.status = c.text.processing

	logging.Info().
		Add(logging.Workflow(c.workflow)).
		Add(logging.Generation(gen)).
		Msg("process requested")

	return &Call{Kind: KindProcess, Gen: gen, Epoch: c.epoch, Run: run}
}

// startSave enters Saving for the held result.
func (c *core) startSave(run func(context.Context) Outcome) (*Call, error) {
	if c.result == nil {
		return nil, ErrNoResult
	}
	if c.chart.State() == Selecting {
		return nil, ErrDrawing
	}
	if c.busy > 0 || !c.chart.Can(EvSave) {
		return nil, ErrBusy
	}
	c.chart.Send(EvSave)
	c.acquire()
	c.status = c.text.saving

	logging.Info().
		Add(logging.Workflow(c.workflow)).
		Add(logging.Generation(c.result.Gen)).
		Msg("save requested")

	return &Call{Kind: KindSave, Gen: c.result.Gen, Epoch: c.epoch, Run: run}, nil
}

// Settle applies the outcome of a call. The busy indicator is always
// released, whether the outcome is applied, failed or stale.
func (c *core) Settle(call *Call, out Outcome) Settlement {
	c.release()

	if call.Kind == KindSave {
		return c.settleSave(call, out)
	}
	return c.settleProcess(call, out)
}

func (c *core) settleProcess(call *Call, out Outcome) Settlement {
	if call.Gen != c.processGen || call.Epoch != c.epoch {
		logging.Debug().
			Add(logging.Workflow(c.workflow)).
			Add(logging.Generation(call.Gen)).
			Add(logging.Str("latest_generation", strconv.FormatUint(c.processGen, 10))).
			Msg("stale process response discarded")
		return Settlement{Stale: true}
	}

	if out.Err != nil || out.Result == nil {
		return c.fail(EvProcessFail, c.text.processOp, out.Err)
	}

	res := *out.Result
	res.Gen = call.Gen
	c.result = &res
	c.chart.Send(EvProcessOK)
	c.status = c.text.processed

	logging.Info().
		Add(logging.Workflow(c.workflow)).
		Add(logging.Generation(call.Gen)).
		Msg("process complete")
	return Settlement{}
}

func (c *core) settleSave(call *Call, out Outcome) Settlement {
	if call.Epoch != c.epoch || c.chart.State() != Saving {
		logging.Debug().
			Add(logging.Workflow(c.workflow)).
			Add(logging.Generation(call.Gen)).
			Msg("stale save response discarded")
		return Settlement{Stale: true, Saved: out.Saved}
	}

	if out.Err != nil {
		return c.fail(EvSaveFail, c.text.saveOp, out.Err)
	}

	c.chart.Send(EvSaveOK)
	c.status = c.text.saved

	ev := logging.Info().Add(logging.Workflow(c.workflow))
	if out.Saved != nil {
		ev = ev.Add(logging.Path(out.Saved.ResultPath))
	}
	ev.Msg("result saved")
	return Settlement{Saved: out.Saved}
}

// fail moves to Error. The held result, if any, stays current.
func (c *core) fail(ev Event, op errmsg.Op, err error) Settlement {
	if err == nil {
		err = errors.New("empty response")
	}
	shown := errors.New(remote.Describe(err))
	c.chart.Send(ev)
	c.status = errmsg.Status(shown)

	logging.Warn().
		Add(logging.Workflow(c.workflow)).
		Add(logging.Str("event", string(ev))).
		Add(logging.ErrorField(err)).
		Msg("request failed")
	return Settlement{Notice: errmsg.Format(op, shown)}
}

func (c *core) view(canProcess bool) View {
	return View{
		State:      c.chart.State(),
		Status:     c.status,
		Busy:       c.busy > 0,
		HasImage:   c.source != nil,
		CanProcess: canProcess,
		CanSave:    c.CanSave(),
		Result:     c.result,
	}
}

func (s State) String() string { return string(s) }
