// Package log builds the application's slog loggers.
//
// Every logger returned here is wrapped in a SecureHandler, which masks
// attributes that could leak secrets or the personal data imgshield is
// meant to protect:
//   - HTTP credentials (Authorization, Cookie, X-Api-Key, bearer tokens)
//   - text the analysis endpoint read from an image
//   - GPS coordinates, device serial numbers and author names from EXIF
//   - values that look like payment card numbers or private keys
//
// Masking applies at every level, so verbose logs can be shared safely.
//
// # Usage
//
//	logger := log.New(os.Stderr, log.FormatText, verbose)
//	logger.Debug("uploading image", "endpoint", url, "authorization", header)
//	// authorization=***REDACTED***
package log
