// Package analysis uploads images to a privacy analysis endpoint.
//
// The endpoint accepts a multipart form with a single "image" field and
// replies with JSON: {success, extracted_text, analysis, error}. The Client
// validates files before uploading, throttles requests with a token bucket
// and stops calling an endpoint that keeps failing.
package analysis
