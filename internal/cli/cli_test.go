package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/ipv/internal/imagefile"
	"github.com/llehouerou/ipv/internal/remote"
	"github.com/llehouerou/ipv/internal/session"
	"github.com/llehouerou/ipv/internal/state"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func writeImage(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, pngBytes(t, w, h), 0o600))
	return path
}

// service is an in-process stand-in for the processing service.
type service struct {
	mu       sync.Mutex
	result   string
	fail     string
	converts []remote.ConvertRequest
	cutouts  []remote.CutoutRequest
	saves    int
}

func (s *service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail != "" {
		_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "error": s.fail})
		return
	}

	var resp any
	switch r.URL.Path {
	case remote.PathConvert:
		var req remote.ConvertRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.converts = append(s.converts, req)
		resp = remote.ConvertResponse{Success: true, ResultImage: s.result, Method: string(req.Method)}
	case remote.PathCutout:
		var req remote.CutoutRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.cutouts = append(s.cutouts, req)
		resp = remote.CutoutResponse{Success: true, ResultImage: s.result, MaskImage: s.result}
	case remote.PathConvertSave:
		s.saves++
		resp = remote.SaveResponse{Success: true, ResultPath: fmt.Sprintf("static/bw/%d.png", s.saves)}
	case remote.PathCutoutSave:
		s.saves++
		resp = remote.SaveResponse{
			Success:    true,
			ResultPath: fmt.Sprintf("static/cut/%d.png", s.saves),
			MaskPath:   fmt.Sprintf("static/cut/%d_mask.png", s.saves),
		}
	default:
		http.NotFound(w, r)
		return
	}
	_ = json.NewEncoder(w).Encode(resp)
}

type fixture struct {
	dir    string
	svc    *service
	store  *state.Mock
	stdout bytes.Buffer
	stderr bytes.Buffer
	config string
	server string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		dir:   t.TempDir(),
		svc:   &service{result: imagefile.EncodeDataURI("image/png", pngBytes(t, 4, 4))},
		store: state.NewMock(),
	}
	srv := httptest.NewServer(f.svc)
	t.Cleanup(srv.Close)
	f.server = srv.URL

	f.config = filepath.Join(f.dir, "config.toml")
	cfg := fmt.Sprintf("[log]\nfile = %q\n\n[batch]\nrate = 1000\n", filepath.Join(f.dir, "ipv.log"))
	require.NoError(t, os.WriteFile(f.config, []byte(cfg), 0o600))
	return f
}

func (f *fixture) run(args ...string) error {
	app := New().WithOutput(&f.stdout, &f.stderr).WithStore(func() (state.Interface, error) {
		return f.store, nil
	})
	args = append([]string{"--config", f.config, "--server", f.server}, args...)
	return app.ExecuteWithArgs(context.Background(), args)
}

func TestVersion(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.run("version"))
	assert.Contains(t, f.stdout.String(), "ipv version dev")
}

func TestMethods(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.run("methods"))
	out := f.stdout.String()
	assert.Contains(t, out, "* luminosity")
	assert.Contains(t, out, "green_channel")
	assert.Contains(t, out, "Gray = G")
	assert.Contains(t, out, "Foreground + B&W background")
}

func TestConvertWritesAndSaves(t *testing.T) {
	f := newFixture(t)
	a := writeImage(t, f.dir, "a.png", 30, 20)
	b := writeImage(t, f.dir, "b.png", 20, 30)
	out := filepath.Join(f.dir, "out")

	require.NoError(t, f.run("convert", "--method", "luma", "--out", out, "--save", a, b))

	require.Len(t, f.svc.converts, 2)
	for _, req := range f.svc.converts {
		assert.Equal(t, "luma", string(req.Method))
	}
	assert.FileExists(t, filepath.Join(out, "a_luma.png"))
	assert.FileExists(t, filepath.Join(out, "b_luma.png"))

	stdout := f.stdout.String()
	assert.Contains(t, stdout, a+": converted (luma)")
	assert.Contains(t, stdout, b+": converted (luma)")

	recs, err := f.store.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "bw", recs[0].Workflow)
	assert.Equal(t, "luma", recs[0].Method)
}

func TestConvertReportsServiceFailure(t *testing.T) {
	f := newFixture(t)
	f.svc.fail = "unsupported image"
	a := writeImage(t, f.dir, "a.png", 10, 10)

	err := f.run("convert", a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 conversions failed")
	assert.Contains(t, f.stderr.String(), "unsupported image")
	assert.Contains(t, f.stderr.String(), "Error converting image '"+a+"'")
}

func TestConvertUnknownMethod(t *testing.T) {
	f := newFixture(t)
	a := writeImage(t, f.dir, "a.png", 10, 10)
	err := f.run("convert", "--method", "sepia", a)
	require.Error(t, err)
	assert.Empty(t, f.svc.converts)
}

func TestConvertMissingFile(t *testing.T) {
	f := newFixture(t)
	err := f.run("convert", filepath.Join(f.dir, "missing.png"))
	require.Error(t, err)
	assert.Empty(t, f.svc.converts)
	assert.Contains(t, f.stderr.String(), "loading image")
}

func TestCutoutPreviewRectIsScaled(t *testing.T) {
	f := newFixture(t)
	img := writeImage(t, f.dir, "big.png", 1600, 1200)

	require.NoError(t, f.run("cutout", "--preview-rect", "100,100,200,150", img))

	require.Len(t, f.svc.cutouts, 1)
	got := f.svc.cutouts[0]
	assert.InDelta(t, 200, got.Rect.X, 1e-9)
	assert.InDelta(t, 200, got.Rect.Y, 1e-9)
	assert.InDelta(t, 400, got.Rect.Width, 1e-9)
	assert.InDelta(t, 300, got.Rect.Height, 1e-9)
	assert.Equal(t, "normal", string(got.ResultType))
	assert.Contains(t, f.stdout.String(), "preview 800x600")
}

func TestCutoutTooSmallPreviewRect(t *testing.T) {
	f := newFixture(t)
	img := writeImage(t, f.dir, "big.png", 1600, 1200)

	err := f.run("cutout", "--preview-rect", "10,10,15,50", img)
	require.Error(t, err)
	assert.Contains(t, err.Error(), session.StatusTooSmall)
	assert.Contains(t, err.Error(), "at least 20 preview pixels")
	assert.Empty(t, f.svc.cutouts)
}

func TestCutoutRectSaveAndOut(t *testing.T) {
	f := newFixture(t)
	img := writeImage(t, f.dir, "photo.png", 200, 100)
	out := filepath.Join(f.dir, "cut")

	require.NoError(t, f.run("cutout", "--rect", "10,10,100,50", "--result-type", "bw",
		"--out", out, "--save", img))

	require.Len(t, f.svc.cutouts, 1)
	assert.Equal(t, "bw", string(f.svc.cutouts[0].ResultType))
	assert.FileExists(t, filepath.Join(out, "photo_cutout_bw.png"))
	assert.FileExists(t, filepath.Join(out, "photo_cutout_bw_mask.png"))
	assert.Contains(t, f.stdout.String(), "saved as static/cut/1.png and static/cut/1_mask.png")

	recs, err := f.store.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "cutout", recs[0].Workflow)
	assert.Equal(t, "static/cut/1_mask.png", recs[0].MaskPath)
}

func TestCutoutRectOutsideImage(t *testing.T) {
	f := newFixture(t)
	img := writeImage(t, f.dir, "photo.png", 200, 100)
	err := f.run("cutout", "--rect", "150,50,100,100", img)
	require.Error(t, err)
	assert.Empty(t, f.svc.cutouts)
}

func TestCutoutNeedsOneRect(t *testing.T) {
	f := newFixture(t)
	img := writeImage(t, f.dir, "photo.png", 200, 100)

	require.Error(t, f.run("cutout", img))
	require.Error(t, f.run("cutout", "--rect", "0,0,50,50", "--preview-rect", "0,0,50,50", img))
	assert.Empty(t, f.svc.cutouts)
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.run("history"))
	assert.Contains(t, f.stdout.String(), "Nothing saved yet.")

	f.stdout.Reset()
	require.NoError(t, f.store.RecordSave(context.Background(), state.SaveRecord{
		Workflow:   "cutout",
		Source:     "/photos/cat.jpg",
		ResultType: "normal",
		ResultPath: "static/cut/cat.png",
		MaskPath:   "static/cut/cat_mask.png",
	}))
	require.NoError(t, f.run("history", "-n", "5"))
	out := f.stdout.String()
	assert.Contains(t, out, "static/cut/cat.png")
	assert.Contains(t, out, "mask static/cut/cat_mask.png")
	assert.Contains(t, out, "from /photos/cat.jpg")
}

func TestRootRejectsUnknownWorkflow(t *testing.T) {
	f := newFixture(t)
	err := f.run("--workflow", "sepia")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown workflow")
}

func TestMissingConfigFile(t *testing.T) {
	app := New().WithOutput(&bytes.Buffer{}, &bytes.Buffer{})
	err := app.ExecuteWithArgs(context.Background(), []string{"--config", "/nonexistent/ipv.toml", "methods"})
	// methods does not read the configuration.
	require.NoError(t, err)

	err = app.ExecuteWithArgs(context.Background(), []string{"--config", "/nonexistent/ipv.toml", "convert", "x.png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}
