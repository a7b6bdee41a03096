package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoImage is returned when a command that needs images got none.
	ErrNoImage = errors.New("no image specified: provide one or more image files")

	// ErrInvalidEndpoint is returned when the analysis endpoint is not an http(s) URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint: must be an http or https URL")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the number of parallel workers is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown are set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxUploadSize is returned when the upload limit is not positive.
	ErrInvalidMaxUploadSize = errors.New("invalid max upload size: must be positive")

	// ErrInvalidRateLimit is returned when the request rate or burst is not positive.
	ErrInvalidRateLimit = errors.New("invalid rate limit: rate and burst must be positive")

	// ErrInvalidBreaker is returned when the circuit breaker threshold or cooldown is not positive.
	ErrInvalidBreaker = errors.New("invalid circuit breaker: failures and cooldown must be positive")

	// ErrInvalidMaxWidth is returned when the redaction surface width is not positive.
	ErrInvalidMaxWidth = errors.New("invalid max width: must be positive")

	// ErrInvalidBlurStrength is returned when the blur strength is negative.
	ErrInvalidBlurStrength = errors.New("invalid blur strength: must be non-negative")

	// ErrInvalidHistorySize is returned when the history size is not positive.
	ErrInvalidHistorySize = errors.New("invalid history size: must be positive")
)
