// Package remote is the client for the image processing service.
//
// Every call is a single JSON POST. There is no automatic retry; a circuit
// breaker fails fast once the service has stopped answering.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/google/uuid"

	"github.com/llehouerou/ipv/internal/logging"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 256 << 20

// Config configures the client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string

	// BreakerThreshold is the number of consecutive transport failures
	// before the breaker opens.
	BreakerThreshold int
	// BreakerCooldown is how long the breaker stays open.
	BreakerCooldown time.Duration
}

// DefaultConfig returns a configuration for a local service.
func DefaultConfig() Config {
	return Config{
		BaseURL:          "http://127.0.0.1:5000",
		Timeout:          60 * time.Second,
		UserAgent:        "ipv/1.0",
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
	}
}

// Client talks to the processing service.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	breaker    circuitbreaker.CircuitBreaker[*reply]
}

type reply struct {
	status int
	body   []byte
}

// NewClient creates a client.
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.BreakerThreshold <= 0 {
		cfg.BreakerThreshold = def.BreakerThreshold
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = def.BreakerCooldown
	}
	threshold := uint32(cfg.BreakerThreshold) //nolint:gosec // validated positive above

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker: circuitbreaker.New[*reply](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    cfg.BreakerCooldown,
			Timeout:     cfg.BreakerCooldown,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
		}),
	}
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.baseURL }

// BreakerState reports the circuit breaker state for display.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

// Convert requests a grayscale conversion.
func (c *Client) Convert(ctx context.Context, req ConvertRequest) (*ConvertResponse, error) {
	var resp ConvertResponse
	if err := c.post(ctx, PathConvert, req, &resp); err != nil {
		return nil, err
	}
	if resp.ResultImage == "" {
		return nil, &ServiceError{Endpoint: PathConvert, Status: http.StatusOK, Message: "response has no result image"}
	}
	return &resp, nil
}

// SaveConversion stores a converted image on the service.
func (c *Client) SaveConversion(ctx context.Context, req ConvertSaveRequest) (*SaveResponse, error) {
	var resp SaveResponse
	if err := c.post(ctx, PathConvertSave, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Cutout requests a foreground cutout.
func (c *Client) Cutout(ctx context.Context, req CutoutRequest) (*CutoutResponse, error) {
	var resp CutoutResponse
	if err := c.post(ctx, PathCutout, req, &resp); err != nil {
		return nil, err
	}
	if resp.ResultImage == "" || resp.MaskImage == "" {
		return nil, &ServiceError{Endpoint: PathCutout, Status: http.StatusOK, Message: "response is missing result or mask image"}
	}
	return &resp, nil
}

// SaveCutout stores a cutout and its mask on the service.
func (c *Client) SaveCutout(ctx context.Context, req CutoutSaveRequest) (*SaveResponse, error) {
	var resp SaveResponse
	if err := c.post(ctx, PathCutoutSave, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// post sends body to path and decodes the response into out. Transport
// errors and 5xx responses count against the breaker; everything the
// service answers deliberately does not.
func (c *Client) post(ctx context.Context, path string, body any, out envelope) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	requestID := uuid.New().String()
	start := time.Now()
	called := false
	var rep *reply

	_, err = c.breaker.Execute(ctx, func(ctx context.Context) (*reply, error) {
		called = true
		var rtErr error
		rep, rtErr = c.roundTrip(ctx, path, requestID, payload)
		return rep, rtErr
	})

	event := logging.Debug()
	if err != nil {
		event = logging.Warn()
	}
	event = event.Add(logging.Endpoint(path)).
		Add(logging.RequestID(requestID)).
		Add(logging.Duration(time.Since(start))).
		Add(logging.ErrorField(err))
	if rep != nil {
		event = event.Add(logging.Status(rep.status))
	}
	event.Msg("service request")

	if !called {
		return fmt.Errorf("%w: %v", ErrBreakerOpen, err)
	}
	if rep == nil {
		return err
	}
	return decode(path, rep, out)
}

func (c *Client) roundTrip(ctx context.Context, path, requestID string, payload []byte) (*reply, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	rep := &reply{status: resp.StatusCode, body: data}
	if resp.StatusCode >= http.StatusInternalServerError {
		return rep, &ServiceError{Endpoint: path, Status: resp.StatusCode, Message: httpStatusMessage(resp.StatusCode)}
	}
	return rep, nil
}

// decode interprets a reply. Non-2xx statuses and success=false become
// ServiceErrors carrying the service's message when it sent one.
func decode(path string, rep *reply, out envelope) error {
	decodeErr := json.Unmarshal(rep.body, out)

	if rep.status < 200 || rep.status > 299 {
		msg := httpStatusMessage(rep.status)
		if decodeErr == nil && out.message() != "" {
			msg = out.message()
		}
		return &ServiceError{Endpoint: path, Status: rep.status, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if !out.ok() {
		msg := out.message()
		if msg == "" {
			msg = fallbackMessage(path)
		}
		return &ServiceError{Endpoint: path, Status: rep.status, Message: msg}
	}
	return nil
}

// Describe turns a client error into the text shown to the user.
func Describe(err error) string {
	var se *ServiceError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &se):
		return se.Message
	case errors.Is(err, ErrBreakerOpen):
		return ErrBreakerOpen.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	default:
		return err.Error()
	}
}
