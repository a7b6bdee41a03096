package redact

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/imgshield/internal/model"
)

// ErrInvalidScript is returned when an event script line cannot be parsed.
var ErrInvalidScript = errors.New("invalid event script")

// ParseScript reads an event script, one command per line:
//
//	down X Y         (also touchstart)
//	move X Y         (also touchmove)
//	up X Y           (also touchend; coordinates optional)
//	leave X Y        (coordinates optional)
//	tool NAME        blur, opaque-blur or blackout
//	strength N
//	clear
//
// A drag ends where the last move left it; the coordinates of up and leave
// are recorded but do not move the pointer. Blank lines and lines starting
// with # are ignored.
func ParseScript(r io.Reader) (EventList, error) {
	var events EventList
	scanner := bufio.NewScanner(r)
	lineNo := 0
	last := PointerEvent{}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		ev, err := parseScriptLine(fields, last)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrInvalidScript, lineNo, err)
		}
		if p, ok := ev.(PointerEvent); ok {
			last = p
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event script: %w", err)
	}
	return events, nil
}

func parseScriptLine(fields []string, last PointerEvent) (Event, error) {
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "down", "touchstart":
		return pointerEvent(PointerDown, args, nil)
	case "move", "touchmove":
		return pointerEvent(PointerMove, args, nil)
	case "up", "touchend":
		return pointerEvent(PointerUp, args, &last)
	case "leave":
		return pointerEvent(PointerLeave, args, &last)
	case "tool":
		if len(args) != 1 {
			return nil, errors.New("tool takes one argument")
		}
		t, err := model.ParseEffectType(args[0])
		if err != nil {
			return nil, err
		}
		return ToolChange{Tool: t}, nil
	case "strength":
		if len(args) != 1 {
			return nil, errors.New("strength takes one argument")
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("bad strength %q", args[0])
		}
		return StrengthChange{Strength: v}, nil
	case "clear":
		if len(args) != 0 {
			return nil, errors.New("clear takes no arguments")
		}
		return ClearAll{}, nil
	default:
		return nil, fmt.Errorf("unknown command %q", fields[0])
	}
}

// pointerEvent parses "X Y". When fallback is set the coordinates may be
// omitted and the previous pointer position is used.
func pointerEvent(kind PointerKind, args []string, fallback *PointerEvent) (Event, error) {
	if len(args) == 0 && fallback != nil {
		return PointerEvent{Kind: kind, X: fallback.X, Y: fallback.Y}, nil
	}
	if len(args) != 2 {
		return nil, fmt.Errorf("%s takes X and Y", kind)
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, fmt.Errorf("bad X %q", args[0])
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, fmt.Errorf("bad Y %q", args[1])
	}
	return PointerEvent{Kind: kind, X: x, Y: y}, nil
}
