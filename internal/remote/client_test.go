package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/ipv/internal/geometry"
	"github.com/llehouerou/ipv/internal/params"
)

const tinyPNG = "data:image/png;base64,iVBORw0KGgo="

// fakeService records requests and answers with a canned status and body.
type fakeService struct {
	mu       sync.Mutex
	status   int
	body     string
	bodies   [][]byte
	paths    []string
	headers  []http.Header
	requests int
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests++
	f.bodies = append(f.bodies, data)
	f.paths = append(f.paths, r.URL.Path)
	f.headers = append(f.headers, r.Header.Clone())
	status, body := f.status, f.body
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func newTestClient(t *testing.T, f *fakeService) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:          srv.URL + "/",
		Timeout:          5 * time.Second,
		UserAgent:        "ipv-test",
		BreakerThreshold: 2,
		BreakerCooldown:  time.Minute,
	})
}

func TestConvert_Success(t *testing.T) {
	f := &fakeService{body: `{"success":true,"result_image":"` + tinyPNG + `","method":"luma"}`}
	c := newTestClient(t, f)

	resp, err := c.Convert(context.Background(), ConvertRequest{Image: tinyPNG, Method: params.Luma})
	require.NoError(t, err)
	assert.Equal(t, tinyPNG, resp.ResultImage)

	require.Len(t, f.paths, 1)
	assert.Equal(t, PathConvert, f.paths[0])
	assert.JSONEq(t, `{"image":"`+tinyPNG+`","method":"luma"}`, string(f.bodies[0]))

	h := f.headers[0]
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.Equal(t, "ipv-test", h.Get("User-Agent"))
	assert.NotEmpty(t, h.Get("X-Request-ID"))
}

func TestCutout_SendsSourceRect(t *testing.T) {
	f := &fakeService{body: `{"success":true,"result_image":"` + tinyPNG + `","mask_image":"` + tinyPNG + `"}`}
	c := newTestClient(t, f)

	_, err := c.Cutout(context.Background(), CutoutRequest{
		Image:      tinyPNG,
		Rect:       geometry.Rect{X: 200, Y: 200, Width: 400, Height: 300},
		ResultType: params.BWBackground,
	})
	require.NoError(t, err)

	assert.Equal(t, PathCutout, f.paths[0])
	assert.JSONEq(t,
		`{"image":"`+tinyPNG+`","rect":{"x":200,"y":200,"width":400,"height":300},"result_type":"bw"}`,
		string(f.bodies[0]))
}

func TestCutout_MissingMask(t *testing.T) {
	f := &fakeService{body: `{"success":true,"result_image":"` + tinyPNG + `"}`}
	c := newTestClient(t, f)

	_, err := c.Cutout(context.Background(), CutoutRequest{Image: tinyPNG})
	assert.True(t, IsServiceError(err))
}

func TestFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		call    func(*Client) error
		wantMsg string
	}{
		{
			name: "application error carries message",
			body: `{"success":false,"error":"invalid rectangle"}`,
			call: func(c *Client) error {
				_, err := c.Cutout(context.Background(), CutoutRequest{Image: tinyPNG})
				return err
			},
			wantMsg: "invalid rectangle",
		},
		{
			name: "cutout fallback message",
			body: `{"success":false}`,
			call: func(c *Client) error {
				_, err := c.Cutout(context.Background(), CutoutRequest{Image: tinyPNG})
				return err
			},
			wantMsg: "Processing failed",
		},
		{
			name: "convert fallback message",
			body: `{"success":false}`,
			call: func(c *Client) error {
				_, err := c.Convert(context.Background(), ConvertRequest{Image: tinyPNG, Method: params.Average})
				return err
			},
			wantMsg: "Conversion failed",
		},
		{
			name: "save fallback message",
			body: `{"success":false}`,
			call: func(c *Client) error {
				_, err := c.SaveConversion(context.Background(), ConvertSaveRequest{ResultImage: tinyPNG})
				return err
			},
			wantMsg: "Saving failed",
		},
		{
			name:   "non-2xx with error body",
			status: http.StatusBadRequest,
			body:   `{"success":false,"error":"Missing required data"}`,
			call: func(c *Client) error {
				_, err := c.SaveCutout(context.Background(), CutoutSaveRequest{})
				return err
			},
			wantMsg: "Missing required data",
		},
		{
			name:   "non-2xx without json",
			status: http.StatusNotFound,
			body:   `<html>not found</html>`,
			call: func(c *Client) error {
				_, err := c.Convert(context.Background(), ConvertRequest{Image: tinyPNG})
				return err
			},
			wantMsg: "HTTP error! status: 404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeService{status: tt.status, body: tt.body})

			err := tt.call(c)

			var se *ServiceError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.Equal(t, tt.wantMsg, se.Message)
			assert.Equal(t, tt.wantMsg, Describe(err))
		})
	}
}

func TestMalformedJSON(t *testing.T) {
	c := newTestClient(t, &fakeService{body: `{"success":`})

	_, err := c.Convert(context.Background(), ConvertRequest{Image: tinyPNG})
	require.Error(t, err)
	assert.False(t, IsServiceError(err))
	assert.Contains(t, err.Error(), "decode response")
}

func TestSaveTwiceSendsIdenticalBodies(t *testing.T) {
	f := &fakeService{body: `{"success":true,"result_path":"/static/uploads/grabcut/result_1.png","mask_path":"/static/uploads/grabcut/mask_1.png"}`}
	c := newTestClient(t, f)
	req := CutoutSaveRequest{ResultImage: tinyPNG, MaskImage: tinyPNG, ResultType: params.Normal}

	first, err := c.SaveCutout(context.Background(), req)
	require.NoError(t, err)
	_, err = c.SaveCutout(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, f.bodies, 2)
	assert.Equal(t, f.bodies[0], f.bodies[1])
	assert.NotEqual(t, f.headers[0].Get("X-Request-ID"), f.headers[1].Get("X-Request-ID"))
	assert.Equal(t, "/static/uploads/grabcut/mask_1.png", first.MaskPath)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(f.bodies[0], &decoded))
	assert.ElementsMatch(t, []string{"result_image", "mask_image", "result_type"}, keys(decoded))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestBreakerOpensOnServerErrors(t *testing.T) {
	f := &fakeService{status: http.StatusBadGateway, body: `bad gateway`}
	c := newTestClient(t, f)

	for range 2 {
		_, err := c.Convert(context.Background(), ConvertRequest{Image: tinyPNG})
		assert.True(t, IsServiceError(err))
	}

	_, err := c.Convert(context.Background(), ConvertRequest{Image: tinyPNG})
	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.Equal(t, 2, f.requests)
	assert.Equal(t, ErrBreakerOpen.Error(), Describe(err))
}

func TestApplicationErrorsDoNotTripBreaker(t *testing.T) {
	f := &fakeService{body: `{"success":false,"error":"Failed to load image"}`}
	c := newTestClient(t, f)

	for range 5 {
		_, err := c.Convert(context.Background(), ConvertRequest{Image: tinyPNG})
		assert.True(t, IsServiceError(err))
	}
	assert.Equal(t, 5, f.requests)
}

func TestTransportError(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

	_, err := c.Convert(context.Background(), ConvertRequest{Image: tinyPNG})
	require.Error(t, err)
	assert.False(t, IsServiceError(err))
}

func TestCanceledContext(t *testing.T) {
	c := newTestClient(t, &fakeService{body: `{"success":true}`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.SaveConversion(ctx, ConvertSaveRequest{ResultImage: tinyPNG})
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	assert.Empty(t, Describe(nil))
	assert.Equal(t, "request timed out", Describe(context.DeadlineExceeded))
	assert.Equal(t, "boom", Describe(errors.New("boom")))
}
