// Package metadata inspects the EXIF block of an image for details that
// identify the photographer, the device or the place a photo was taken.
//
// The redaction export re-encodes pixels only, so none of these findings
// survive into a redacted copy.
package metadata
