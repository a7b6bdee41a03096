package config

import (
	"maps"
	"time"
)

// Profile holds per-endpoint request settings.
type Profile struct {
	// APIKey is sent as "Authorization: Bearer <key>" when set.
	APIKey string `yaml:"apiKey,omitempty"`

	// Headers are extra HTTP headers added to every upload.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Timeout overrides the global request timeout for this endpoint.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// RedactSettings are the redaction defaults read from the configuration file.
type RedactSettings struct {
	// Tool is blur, opaque-blur or blackout.
	Tool string `yaml:"tool,omitempty"`

	// Strength is the blur strength of new regions.
	Strength int `yaml:"strength,omitempty"`

	// MaxWidth is the widest redaction surface.
	MaxWidth int `yaml:"maxWidth,omitempty"`

	// FacesCascade is the path of a pigo face cascade file.
	FacesCascade string `yaml:"facesCascade,omitempty"`
}

// File represents the structure of the .imgshield configuration file.
type File struct {
	// Endpoint replaces the default analysis endpoint.
	Endpoint string `yaml:"endpoint,omitempty"`

	// HistorySize is the number of privacy scores kept.
	HistorySize int `yaml:"historySize,omitempty"`

	// Profiles maps endpoint URLs to their request settings.
	Profiles map[string]Profile `yaml:"profiles,omitempty"`

	// Defaults apply to every endpoint unless a profile overrides them.
	Defaults Profile `yaml:"defaults,omitempty"`

	// Redact holds redaction defaults.
	Redact RedactSettings `yaml:"redact,omitempty"`
}

// NewFile returns an empty configuration file.
func NewFile() *File {
	return &File{Profiles: make(map[string]Profile)}
}

// GetProfile returns the settings for an endpoint: the defaults, overridden
// by the endpoint's own profile. Headers are merged key by key.
func (f *File) GetProfile(endpoint string) Profile {
	result := f.Defaults
	if len(f.Defaults.Headers) > 0 {
		result.Headers = maps.Clone(f.Defaults.Headers)
	}

	p, ok := f.Profiles[endpoint]
	if !ok {
		return result
	}
	if p.APIKey != "" {
		result.APIKey = p.APIKey
	}
	if p.Timeout > 0 {
		result.Timeout = p.Timeout
	}
	if len(p.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(p.Headers))
		}
		maps.Copy(result.Headers, p.Headers)
	}
	return result
}
