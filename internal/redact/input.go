package redact

import (
	"image"
	"iter"

	"github.com/nao1215/imgshield/internal/model"
)

// PointerKind is the kind of a pointer event.
type PointerKind int

const (
	// PointerDown starts a drag (mouse down or touch start).
	PointerDown PointerKind = iota
	// PointerMove updates a drag (mouse move or touch move).
	PointerMove
	// PointerUp ends a drag (mouse up or touch end).
	PointerUp
	// PointerLeave ends a drag because the pointer left the surface.
	PointerLeave
)

// String returns the script keyword of the kind.
func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerLeave:
		return "leave"
	default:
		return "unknown"
	}
}

// Event is anything a session can react to: pointer events and the
// toolbar commands between drags.
type Event interface {
	event()
}

// PointerEvent is a pointer position in surface coordinates.
type PointerEvent struct {
	Kind PointerKind
	X, Y int
}

// Point returns the event position.
func (e PointerEvent) Point() image.Point {
	return image.Pt(e.X, e.Y)
}

// ToolChange selects the tool used for the next committed region.
type ToolChange struct {
	Tool model.EffectType
}

// StrengthChange sets the global blur strength.
type StrengthChange struct {
	Strength int
}

// ClearAll removes every region.
type ClearAll struct{}

func (PointerEvent) event()   {}
func (ToolChange) event()     {}
func (StrengthChange) event() {}
func (ClearAll) event()       {}

// InputSource supplies events to a session.
type InputSource interface {
	Events() iter.Seq[Event]
}

// EventList is an InputSource backed by a slice.
type EventList []Event

// Events yields the events in order.
func (l EventList) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, ev := range l {
			if !yield(ev) {
				return
			}
		}
	}
}

// Drag returns the events of a complete drag from start to end with one move.
func Drag(start, end image.Point) EventList {
	return EventList{
		PointerEvent{Kind: PointerDown, X: start.X, Y: start.Y},
		PointerEvent{Kind: PointerMove, X: end.X, Y: end.Y},
		PointerEvent{Kind: PointerUp, X: end.X, Y: end.Y},
	}
}
