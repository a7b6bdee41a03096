// Package redact is the interactive redaction engine.
//
// A Session ties together three parts:
//   - Store keeps the committed regions in the order they were drawn.
//   - Compositor owns the pristine base image and the visible surface, and
//     rebuilds the surface from the base plus every region on each redraw.
//   - The session's drag state machine turns pointer events into regions.
//
// Input arrives through an InputSource. The CLI feeds sessions from event
// scripts (see ParseScript); tests feed them from slices.
//
// A Session is single-threaded. Use one Session per image.
package redact
