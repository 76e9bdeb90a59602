package session

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llehouerou/ipv/internal/imagefile"
	"github.com/llehouerou/ipv/internal/remote"
)

const resultURI = "data:image/png;base64,cmVzdWx0"

func testSource(t *testing.T, w, h int) *imagefile.Source {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}
	img.Set(0, 0, color.Gray{Y: 7})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	src, err := imagefile.FromBytes("photo.png", buf.Bytes())
	require.NoError(t, err)
	return src
}

// fakeService answers from canned values and records every request.
type fakeService struct {
	mu sync.Mutex

	convertErr error
	cutoutErr  error
	saveErr    error

	converts    []remote.ConvertRequest
	cutouts     []remote.CutoutRequest
	bwSaves     []remote.ConvertSaveRequest
	cutoutSaves []remote.CutoutSaveRequest
}

func (f *fakeService) Convert(_ context.Context, req remote.ConvertRequest) (*remote.ConvertResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.converts = append(f.converts, req)
	if f.convertErr != nil {
		return nil, f.convertErr
	}
	return &remote.ConvertResponse{Success: true, ResultImage: resultURI, Method: string(req.Method)}, nil
}

func (f *fakeService) SaveConversion(_ context.Context, req remote.ConvertSaveRequest) (*remote.SaveResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bwSaves = append(f.bwSaves, req)
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &remote.SaveResponse{Success: true, ResultPath: "/static/uploads/bw/result.png"}, nil
}

func (f *fakeService) Cutout(_ context.Context, req remote.CutoutRequest) (*remote.CutoutResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutouts = append(f.cutouts, req)
	if f.cutoutErr != nil {
		return nil, f.cutoutErr
	}
	return &remote.CutoutResponse{Success: true, ResultImage: resultURI, MaskImage: resultURI}, nil
}

func (f *fakeService) SaveCutout(_ context.Context, req remote.CutoutSaveRequest) (*remote.SaveResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoutSaves = append(f.cutoutSaves, req)
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &remote.SaveResponse{
		Success:    true,
		ResultPath: "/static/uploads/grabcut/result_1.png",
		MaskPath:   "/static/uploads/grabcut/mask_1.png",
	}, nil
}

func run(t *testing.T, s interface {
	Settle(*Call, Outcome) Settlement
}, call *Call) Settlement {
	t.Helper()
	require.NotNil(t, call)
	return s.Settle(call, call.Run(context.Background()))
}
