package redact

import (
	"context"
	"image"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/nao1215/imgshield/internal/model"
)

// DragState is the pointer state of a session: Idle or Dragging.
type DragState interface {
	dragState()
}

// Idle means no drag is in progress.
type Idle struct{}

// Dragging means the pointer went down at Start and was last seen at Current.
type Dragging struct {
	Start   image.Point
	Current image.Point
}

func (Idle) dragState()     {}
func (Dragging) dragState() {}

// Session is one redaction session over one image.
type Session struct {
	id         string
	tool       model.EffectType
	strength   int
	drag       DragState
	store      *Store
	compositor *Compositor
	logger     *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger used for session events.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithMaxWidth sets the widest surface an image is scaled down to.
func WithMaxWidth(width int) SessionOption {
	return func(s *Session) {
		s.compositor = NewCompositor(width)
	}
}

// WithTool sets the initial tool.
func WithTool(tool model.EffectType) SessionOption {
	return func(s *Session) {
		s.tool = tool
	}
}

// WithBlurStrength sets the initial blur strength.
func WithBlurStrength(strength int) SessionOption {
	return func(s *Session) {
		s.strength = strength
	}
}

// NewSession returns a session with the glass blur tool, the default blur
// strength and no image.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		id:         uuid.NewString(),
		tool:       model.EffectGlassBlur,
		strength:   model.DefaultBlurStrength,
		drag:       Idle{},
		store:      NewStore(),
		compositor: NewCompositor(DefaultMaxWidth),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("session", s.id)
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Tool returns the active tool.
func (s *Session) Tool() model.EffectType { return s.tool }

// BlurStrength returns the global blur strength.
func (s *Session) BlurStrength() int { return s.strength }

// Drag returns the current drag state.
func (s *Session) Drag() DragState { return s.drag }

// Regions returns the committed regions in drawing order.
func (s *Session) Regions() []model.Region { return s.store.List() }

// Surface returns the rendered image, or nil before LoadImage.
func (s *Session) Surface() *image.NRGBA { return s.compositor.Surface() }

// Loaded reports whether an image has been loaded.
func (s *Session) Loaded() bool { return s.compositor.Loaded() }

// LoadImage replaces the session image. Existing regions are discarded and
// any drag in progress is abandoned.
func (s *Session) LoadImage(img image.Image) {
	s.store.Clear()
	s.drag = Idle{}
	s.compositor.Load(img)
	s.logger.Debug("image loaded",
		"source_size", img.Bounds().Size(),
		"surface_size", s.compositor.Bounds().Size(),
	)
}

// SetTool selects the tool for subsequent regions. Existing regions keep theirs.
func (s *Session) SetTool(tool model.EffectType) {
	s.tool = tool
}

// SetBlurStrength sets the global blur strength and applies it to every
// existing blur region.
func (s *Session) SetBlurStrength(strength int) {
	s.strength = strength
	s.store.SetGlobalBlurParameter(strength)
	s.redraw()
}

// Clear removes every region.
func (s *Session) Clear() {
	s.store.Clear()
	s.redraw()
}

// AddRegion commits a region directly, bypassing the pointer. Regions that
// are too small are rejected with false, the same as short drags.
func (s *Session) AddRegion(r model.Region) bool {
	if !s.Loaded() || !r.Committable() {
		return false
	}
	s.store.Append(r)
	s.redraw()
	return true
}

// Export writes the redacted image as PNG. It reports false and writes
// nothing when no image is loaded.
func (s *Session) Export(w io.Writer) (bool, error) {
	ok, err := s.compositor.Export(w)
	if err == nil && !ok {
		s.logger.Debug("export skipped: no image loaded")
	}
	return ok, err
}

// Dispatch applies one event.
func (s *Session) Dispatch(ev Event) {
	switch e := ev.(type) {
	case PointerEvent:
		s.HandleEvent(e)
	case ToolChange:
		s.SetTool(e.Tool)
	case StrengthChange:
		s.SetBlurStrength(e.Strength)
	case ClearAll:
		s.Clear()
	}
}

// HandleEvent advances the drag state machine. Events are ignored until an
// image is loaded.
func (s *Session) HandleEvent(ev PointerEvent) {
	if !s.Loaded() {
		return
	}

	p := ev.Point()
	switch ev.Kind {
	case PointerDown:
		s.drag = Dragging{Start: p, Current: p}
	case PointerMove:
		d, ok := s.drag.(Dragging)
		if !ok {
			return
		}
		d.Current = p
		s.drag = d
		s.redraw()
		s.compositor.Preview(d.Start, d.Current, s.tool)
	case PointerUp, PointerLeave:
		d, ok := s.drag.(Dragging)
		if !ok {
			return
		}
		s.drag = Idle{}
		s.commit(d)
	}
}

// commit turns a finished drag into a region when it is large enough,
// then redraws to remove the preview.
func (s *Session) commit(d Dragging) {
	r, ok := model.RegionFromDrag(d.Start, d.Current, s.tool, s.strength)
	if ok {
		s.store.Append(r)
		s.logger.Debug("region committed", "region", r.String())
	} else {
		s.logger.Debug("drag too small", "width", r.Width, "height", r.Height)
	}
	s.redraw()
}

// Run dispatches every event from src until it is exhausted or ctx is done.
func (s *Session) Run(ctx context.Context, src InputSource) error {
	for ev := range src.Events() {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Dispatch(ev)
	}
	return nil
}

func (s *Session) redraw() {
	s.compositor.Redraw(s.store.List())
}
