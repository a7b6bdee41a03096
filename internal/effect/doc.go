// Package effect implements the pixel operations behind redaction regions.
//
// All operations work on *image.NRGBA so that channel values are the
// straight, non-premultiplied bytes a user would see. Blur, fill and
// overlay modify their destination in place; Crop returns a copy.
//
// Apply combines the primitives into the three redaction effects:
//
//	blackout     opaque black fill
//	blur         box blur, then a 10% white overlay
//	opaque-blur  box blur, then a 60% white overlay
package effect
