package session

import (
	"context"

	"github.com/llehouerou/ipv/internal/errmsg"
	"github.com/llehouerou/ipv/internal/imagefile"
	"github.com/llehouerou/ipv/internal/params"
	"github.com/llehouerou/ipv/internal/remote"
)

// ConvertService is the part of the processing service the grayscale
// workflow uses.
type ConvertService interface {
	Convert(ctx context.Context, req remote.ConvertRequest) (*remote.ConvertResponse, error)
	SaveConversion(ctx context.Context, req remote.ConvertSaveRequest) (*remote.SaveResponse, error)
}

var converterTexts = texts{
	loaded:     "Image loaded. Choose a conversion method and convert it to B&W.",
	processing: "Converting image...",
	processed:  "Conversion complete!",
	saving:     "Saving image...",
	saved:      "Image saved successfully!",
	processOp:  errmsg.OpConvert,
	saveOp:     errmsg.OpConvertSave,
}

// Converter is the grayscale conversion session.
type Converter struct {
	core
	svc    ConvertService
	method params.Method
}

// NewConverter creates an empty conversion session.
func NewConverter(svc ConvertService, opts Options) *Converter {
	c := &Converter{core: newCore("bw", converterTexts, opts), svc: svc}
	c.method = c.opts.Method
	return c
}

// Load installs a decoded image.
func (c *Converter) Load(src *imagefile.Source) error {
	return c.load(src)
}

// Method returns the active conversion method.
func (c *Converter) Method() params.Method { return c.method }

// SelectMethod changes the active method. When a result is held the image
// is converted again with the new method and the returned Call is non-nil.
func (c *Converter) SelectMethod(m params.Method) (*Call, error) {
	c.method = m
	if c.result == nil || c.chart.State() == Saving {
		return nil, nil
	}
	return c.Process()
}

// Process starts a conversion of the loaded image with the active method.
func (c *Converter) Process() (*Call, error) {
	if c.source == nil {
		return nil, ErrNoImage
	}
	if err := c.canStartProcess(); err != nil {
		return nil, err
	}

	req := remote.ConvertRequest{Image: c.source.DataURI, Method: c.method}
	svc := c.svc
	return c.startProcess(func(ctx context.Context) Outcome {
		resp, err := svc.Convert(ctx, req)
		if err != nil {
			return Outcome{Err: err}
		}
		return Outcome{Result: &Result{Image: resp.ResultImage, Method: req.Method}}
	}), nil
}

// Save stores the held result on the service.
func (c *Converter) Save() (*Call, error) {
	if c.result == nil {
		return nil, ErrNoResult
	}
	req := remote.ConvertSaveRequest{ResultImage: c.result.Image, Method: c.method}
	svc := c.svc
	return c.startSave(func(ctx context.Context) Outcome {
		resp, err := svc.SaveConversion(ctx, req)
		if err != nil {
			return Outcome{Err: err}
		}
		return Outcome{Saved: &Saved{ResultPath: resp.ResultPath}}
	})
}

// CanProcess reports whether Process would start a call.
func (c *Converter) CanProcess() bool {
	return c.source != nil && c.canStartProcess() == nil
}

// View returns a snapshot for rendering.
func (c *Converter) View() View {
	return c.view(c.CanProcess())
}
