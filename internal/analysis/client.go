package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/nao1215/imgshield/internal/config"
	"github.com/nao1215/imgshield/internal/model"
)

// FormField is the multipart field the image is sent in.
const FormField = "image"

// maxResponseSize bounds the JSON reply read into memory.
const maxResponseSize = 10 * 1024 * 1024

// AllowedExtensions are the file extensions the endpoint accepts, lowercase
// and without the dot.
var AllowedExtensions = []string{"png", "jpg", "jpeg", "gif", "bmp", "webp"}

// Client uploads images for analysis. It is safe for concurrent use.
type Client struct {
	endpoint      string
	httpClient    *http.Client
	profile       config.Profile
	maxUploadSize int64
	limiter       *rate.Limiter
	breaker       *gobreaker.CircuitBreaker[*model.AnalysisResponse]
	logger        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithLimiter replaces the request rate limiter. A nil limiter disables throttling.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// NewClient creates a client for cfg.Endpoint using the endpoint's profile.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	profile := cfg.Profile()
	timeout := cfg.Timeout
	if profile.Timeout > 0 {
		timeout = profile.Timeout
	}

	c := &Client{
		endpoint:      cfg.Endpoint,
		httpClient:    &http.Client{Timeout: timeout},
		profile:       profile,
		maxUploadSize: cfg.MaxUploadSize,
		limiter:       rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestBurst),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	failures := uint32(max(cfg.BreakerFailures, 1)) //nolint:gosec // validated positive
	c.breaker = gobreaker.NewCircuitBreaker[*model.AnalysisResponse](gobreaker.Settings{
		Name:        "analysis:" + cfg.Endpoint,
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: isSuccessful,
	})

	return c
}

// isSuccessful keeps rejections of a single request from opening the breaker.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return !serverErr.Temporary()
	}
	return errors.Is(err, context.Canceled)
}

// Endpoint returns the analysis URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// State returns the circuit breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// ValidateImage checks that path names an uploadable file and returns its size.
func (c *Client) ValidateImage(path string) (int64, error) {
	if path == "" {
		return 0, ErrNoImage
	}
	if !Allowed(path) {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Base(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat image: %w", err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%w: %s is a directory", ErrNoImage, path)
	}
	if c.maxUploadSize > 0 && info.Size() > c.maxUploadSize {
		return 0, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, info.Size(), c.maxUploadSize)
	}
	return info.Size(), nil
}

// Allowed reports whether the file extension of name is accepted by the endpoint.
func Allowed(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	return ext != "" && slices.Contains(AllowedExtensions, ext)
}

// Analyze uploads the image at path and returns the endpoint's analysis.
// Files are validated before anything is sent. A reply with success=false
// is returned as a *ServerError.
func (c *Client) Analyze(ctx context.Context, path string) (*model.AnalysisResponse, error) {
	size, err := c.ValidateImage(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	c.logger.Debug("uploading image", "image", filepath.Base(path), "size", size, "endpoint", c.endpoint)
	start := time.Now()

	resp, err := c.breaker.Execute(func() (*model.AnalysisResponse, error) {
		return c.upload(ctx, filepath.Base(path), data)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("endpoint %q circuit open: %w", c.endpoint, err)
		}
		return nil, err
	}

	c.logger.Debug("analysis completed",
		"image", filepath.Base(path),
		"duration", time.Since(start),
		"risk_level", resp.Analysis.Risk(),
	)
	return resp, nil
}

func (c *Client) upload(ctx context.Context, name string, data []byte) (*model.AnalysisResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(FormField, name)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	for k, v := range c.profile.Headers {
		req.Header.Set(k, v)
	}
	if c.profile.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.profile.APIKey)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}

	return decodeResponse(httpResp.StatusCode, raw)
}

// decodeResponse interprets an endpoint reply. Error replies usually carry
// JSON with an "error" field; anything else falls back to the body text.
func decodeResponse(status int, raw []byte) (*model.AnalysisResponse, error) {
	var resp model.AnalysisResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		if status != http.StatusOK {
			return nil, &ServerError{Status: status, Message: strings.TrimSpace(string(raw))}
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if !resp.Success || status != http.StatusOK {
		return nil, &ServerError{Status: status, Message: resp.Error}
	}
	return &resp, nil
}
