package analysis

import (
	"errors"
	"fmt"
)

// Sentinel errors returned before any request is sent.
var (
	// ErrNoImage is returned when no image path was given.
	ErrNoImage = errors.New("please select an image file")

	// ErrUnsupportedType is returned for files whose extension the endpoint rejects.
	ErrUnsupportedType = errors.New("invalid file type")

	// ErrTooLarge is returned for files over the upload limit.
	ErrTooLarge = errors.New("image exceeds upload limit")

	// ErrInvalidResponse is returned when the reply is not the expected JSON.
	ErrInvalidResponse = errors.New("invalid analysis response")
)

// defaultServerMessage is shown when the endpoint reports failure without a reason.
const defaultServerMessage = "analysis failed"

// ServerError is an analysis the endpoint reported as unsuccessful.
type ServerError struct {
	// Status is the HTTP status code of the reply.
	Status int

	// Message is the endpoint's error text.
	Message string
}

// Error implements error.
func (e *ServerError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = defaultServerMessage
	}
	return fmt.Sprintf("server error %d: %s", e.Status, msg)
}

// Temporary reports whether retrying later may succeed.
func (e *ServerError) Temporary() bool {
	return e.Status >= 500 || e.Status == 429
}
