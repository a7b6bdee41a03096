package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/imgshield/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "imgshield"

	// DefaultEndpoint is the analysis endpoint of a locally running server.
	DefaultEndpoint = "http://127.0.0.1:5000/analyze"

	// DefaultTimeout bounds one analysis request. Vision model inference on a
	// large screenshot can take over a minute.
	DefaultTimeout = 120 * time.Second

	// DefaultMaxUploadSize matches the server's 16 MiB request limit.
	DefaultMaxUploadSize = 16 * 1024 * 1024

	// DefaultRequestsPerSecond and DefaultRequestBurst throttle uploads in batch mode.
	DefaultRequestsPerSecond = 1.0
	DefaultRequestBurst      = 2

	// DefaultBreakerFailures consecutive failures open the circuit breaker
	// for DefaultBreakerCooldown.
	DefaultBreakerFailures = 5
	DefaultBreakerCooldown = 30 * time.Second

	// DefaultConcurrency is the number of images processed in parallel.
	DefaultConcurrency = 4

	// DefaultHistorySize is the number of privacy scores kept.
	DefaultHistorySize = 6
)

// Config holds all configuration options for imgshield.
// It is built once per command and passed down explicitly.
type Config struct {
	// Endpoint is the URL images are POSTed to for analysis.
	Endpoint string

	// Timeout bounds each analysis request.
	Timeout time.Duration

	// MaxUploadSize is the largest file, in bytes, that is uploaded.
	// Larger files are rejected before any network traffic.
	MaxUploadSize int64

	// RequestsPerSecond and RequestBurst configure the client-side rate limiter.
	RequestsPerSecond float64
	RequestBurst      int

	// BreakerFailures is the number of consecutive failed requests that
	// opens the circuit breaker; BreakerCooldown is how long it stays open.
	BreakerFailures int
	BreakerCooldown time.Duration

	// Concurrency is the number of images reviewed or redacted in parallel.
	Concurrency int

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path given with --config. When empty,
	// .imgshield is searched in the current and home directories.
	ConfigFilePath string

	// File holds the parsed configuration file. It is never nil after
	// the CLI has built the config.
	File *File

	// JSONReport selects JSON report output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown report output with a mermaid pie chart.
	MarkdownReport bool

	// ReportFile is where the report is written. Empty means stdout.
	ReportFile string

	// Images are the files to process.
	Images []string

	// DBDir is the directory of the score history database.
	DBDir string

	// SaveToDB enables recording privacy scores in the history.
	SaveToDB bool

	// HistorySize is the number of scores kept in the history.
	HistorySize int

	// Tool is the redaction effect used for drags and --region values without a suffix.
	Tool model.EffectType

	// BlurStrength is the number of blur iterations of new blur regions.
	BlurStrength int

	// MaxWidth is the widest redaction surface; larger images are scaled down.
	MaxWidth int

	// FacesCascade is the path of a pigo face cascade. When set, detected
	// faces become initial redaction regions.
	FacesCascade string
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		Endpoint:          DefaultEndpoint,
		Timeout:           DefaultTimeout,
		MaxUploadSize:     DefaultMaxUploadSize,
		RequestsPerSecond: DefaultRequestsPerSecond,
		RequestBurst:      DefaultRequestBurst,
		BreakerFailures:   DefaultBreakerFailures,
		BreakerCooldown:   DefaultBreakerCooldown,
		Concurrency:       DefaultConcurrency,
		HistorySize:       DefaultHistorySize,
		Tool:              model.EffectGlassBlur,
		BlurStrength:      model.DefaultBlurStrength,
		MaxWidth:          800,
		File:              NewFile(),
	}
}

// ApplyFile copies the redaction and endpoint settings of f into c.
// Zero values in f leave c unchanged.
func (c *Config) ApplyFile(f *File) error {
	if f == nil {
		return nil
	}
	c.File = f

	if f.Endpoint != "" {
		c.Endpoint = f.Endpoint
	}
	r := f.Redact
	if r.Tool != "" {
		tool, err := model.ParseEffectType(r.Tool)
		if err != nil {
			return fmt.Errorf("config file: %w", err)
		}
		c.Tool = tool
	}
	if r.Strength > 0 {
		c.BlurStrength = r.Strength
	}
	if r.MaxWidth > 0 {
		c.MaxWidth = r.MaxWidth
	}
	if r.FacesCascade != "" {
		c.FacesCascade = r.FacesCascade
	}
	if f.HistorySize > 0 {
		c.HistorySize = f.HistorySize
	}
	return nil
}

// Profile returns the merged endpoint profile for c.Endpoint.
func (c *Config) Profile() Profile {
	if c.File == nil {
		return Profile{}
	}
	return c.File.GetProfile(c.Endpoint)
}

// XDGDataDir returns the XDG data directory for imgshield,
// e.g. ~/.local/share/imgshield on Linux.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for imgshield,
// e.g. ~/.config/imgshield on Linux.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the settings shared by every command and returns the
// first problem found. Commands check their own required inputs, such as
// Images, separately.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidEndpoint
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxUploadSize <= 0 {
		return ErrInvalidMaxUploadSize
	}
	if c.RequestsPerSecond <= 0 || c.RequestBurst <= 0 {
		return ErrInvalidRateLimit
	}
	if c.BreakerFailures <= 0 || c.BreakerCooldown <= 0 {
		return ErrInvalidBreaker
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.MaxWidth <= 0 {
		return ErrInvalidMaxWidth
	}
	if c.BlurStrength < 0 {
		return ErrInvalidBlurStrength
	}
	if c.HistorySize <= 0 {
		return ErrInvalidHistorySize
	}
	return nil
}

// RequireImages returns ErrNoImage when no image was given.
func (c *Config) RequireImages() error {
	if len(c.Images) == 0 {
		return ErrNoImage
	}
	return nil
}
