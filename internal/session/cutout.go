package session

import (
	"context"

	"github.com/llehouerou/ipv/internal/errmsg"
	"github.com/llehouerou/ipv/internal/geometry"
	"github.com/llehouerou/ipv/internal/imagefile"
	"github.com/llehouerou/ipv/internal/logging"
	"github.com/llehouerou/ipv/internal/params"
	"github.com/llehouerou/ipv/internal/remote"
	"github.com/llehouerou/ipv/internal/selection"
)

// CutoutService is the part of the processing service the cutout workflow
// uses.
type CutoutService interface {
	Cutout(ctx context.Context, req remote.CutoutRequest) (*remote.CutoutResponse, error)
	SaveCutout(ctx context.Context, req remote.CutoutSaveRequest) (*remote.SaveResponse, error)
}

// Cutout status lines that are not shared with the converter.
const (
	StatusSelectionDone = "Selection complete. Press r to run the cutout."
	StatusTooSmall      = "Rectangle too small. Please draw a larger rectangle."
	StatusCleared       = "Rectangle cleared. Draw a new selection."
)

var cutoutTexts = texts{
	loaded:     "Image loaded. Draw a rectangle around the object.",
	processing: "Processing image...",
	processed:  "Processing complete. You can save the results.",
	saving:     "Saving images...",
	saved:      "Images saved successfully!",
	processOp:  errmsg.OpCutout,
	saveOp:     errmsg.OpCutoutSave,
}

// Cutout is the foreground cutout session.
type Cutout struct {
	core
	svc        CutoutService
	sel        *selection.Machine
	resultType params.ResultType
}

// NewCutout creates an empty cutout session.
func NewCutout(svc CutoutService, opts Options) *Cutout {
	c := &Cutout{core: newCore("cutout", cutoutTexts, opts), svc: svc}
	c.sel = selection.New(c.opts.MinRectSize)
	c.resultType = c.opts.ResultType
	return c
}

// Load installs a decoded image and drops any selection.
func (c *Cutout) Load(src *imagefile.Source) error {
	if err := c.load(src); err != nil {
		return err
	}
	c.sel.SetGeometry(c.geom)
	return nil
}

// ResultType returns the active result type.
func (c *Cutout) ResultType() params.ResultType { return c.resultType }

// Selection exposes the drawing machine for rendering.
func (c *Cutout) Selection() *selection.Machine { return c.sel }

// Press starts a selection gesture at a preview point.
func (c *Cutout) Press(p geometry.Point) bool {
	if c.source == nil || !c.chart.Can(EvPress) {
		return false
	}
	if !c.sel.Press(p) {
		return false
	}
	c.chart.Send(EvPress)
	return true
}

// Move updates the live rectangle.
func (c *Cutout) Move(p geometry.Point) (geometry.Rect, bool) {
	return c.sel.Move(p)
}

// Release ends the gesture. A rectangle below the minimum size resets the
// canvas: the selection and any held result are dropped.
func (c *Cutout) Release(p geometry.Point) selection.Release {
	rel := c.sel.Release(p)
	switch rel.Outcome {
	case selection.Accepted:
		c.chart.Send(EvCommit)
		c.status = StatusSelectionDone
		logging.Debug().
			Add(logging.Workflow(c.workflow)).
			Add(logging.Str("rect", rel.Source.String())).
			Msg("selection committed")
	case selection.Discarded:
		c.clear()
		c.chart.Send(EvDiscard)
		c.status = StatusTooSmall
	case selection.Ignored:
	}
	return rel
}

// CommitRect installs a selection given in source pixels.
func (c *Cutout) CommitRect(source geometry.Rect) error {
	if c.source == nil {
		return ErrNoSelection
	}
	if !c.chart.Can(EvPress) {
		return ErrBusy
	}
	if !c.sel.Commit(source) {
		return &InputError{
			Reason: "rectangle outside image or too small",
			Notice: StatusTooSmall,
		}
	}
	c.chart.Send(EvPress)
	c.chart.Send(EvCommit)
	c.status = StatusSelectionDone
	return nil
}

// Reset clears the selection and hides any result.
func (c *Cutout) Reset() error {
	if c.source == nil {
		return ErrNoImage
	}
	if !c.chart.Can(EvReset) {
		return ErrBusy
	}
	c.sel.Reset()
	c.clear()
	c.chart.Send(EvReset)
	c.status = StatusCleared
	return nil
}

// SetResultType changes the result type. When a result is held the cutout
// runs again and the returned Call is non-nil. During a drag the type is
// only recorded; the next run uses it.
func (c *Cutout) SetResultType(rt params.ResultType) (*Call, error) {
	c.resultType = rt
	switch {
	case c.result == nil:
		return nil, nil
	case c.chart.State() == Saving, c.chart.State() == Selecting:
		return nil, nil
	}
	return c.Process()
}

// Process starts a cutout of the committed selection.
func (c *Cutout) Process() (*Call, error) {
	if c.source == nil {
		return nil, ErrNoSelection
	}
	if c.chart.State() == Selecting {
		return nil, ErrDrawing
	}
	rect, ok := c.sel.Selection()
	if !ok {
		return nil, ErrNoSelection
	}
	if err := c.canStartProcess(); err != nil {
		return nil, err
	}

	req := remote.CutoutRequest{Image: c.source.DataURI, Rect: rect, ResultType: c.resultType}
	svc := c.svc
	return c.startProcess(func(ctx context.Context) Outcome {
		resp, err := svc.Cutout(ctx, req)
		if err != nil {
			return Outcome{Err: err}
		}
		return Outcome{Result: &Result{
			Image:      resp.ResultImage,
			Mask:       resp.MaskImage,
			ResultType: req.ResultType,
		}}
	}), nil
}

// Save stores the held cutout and mask on the service.
func (c *Cutout) Save() (*Call, error) {
	if c.result == nil {
		return nil, ErrNoResult
	}
	req := remote.CutoutSaveRequest{
		ResultImage: c.result.Image,
		MaskImage:   c.result.Mask,
		ResultType:  c.resultType,
	}
	svc := c.svc
	return c.startSave(func(ctx context.Context) Outcome {
		resp, err := svc.SaveCutout(ctx, req)
		if err != nil {
			return Outcome{Err: err}
		}
		return Outcome{Saved: &Saved{ResultPath: resp.ResultPath, MaskPath: resp.MaskPath}}
	})
}

// CanProcess reports whether Process would start a call.
func (c *Cutout) CanProcess() bool {
	if c.source == nil {
		return false
	}
	if _, ok := c.sel.Selection(); !ok {
		return false
	}
	return c.canStartProcess() == nil
}

// View returns a snapshot for rendering.
func (c *Cutout) View() View {
	return c.view(c.CanProcess())
}
