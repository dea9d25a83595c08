package drawing

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/fieldplot/internal/shape"
	"github.com/Faultbox/fieldplot/pkg/math"
)

// Button is a pointer button.
type Button int

// Pointer buttons.
const (
	ButtonLeft Button = iota
	ButtonRight
)

// Key is a keyboard key the controller reacts to.
type Key int

// Keys.
const (
	KeyEscape Key = iota
	KeyEnter
	KeyBackspace
	Key1
	Key2
	Key3
)

// Input is the per-frame pointer and key state. Pressed and released are
// edge-triggered for the current frame.
type Input interface {
	IsButtonDown(b Button) bool
	IsButtonPressed(b Button) bool
	IsButtonReleased(b Button) bool
	IsKeyPressed(k Key) bool
	PointerPosition() (x, y float32)
}

// Picker maps a screen position to the ground point under it.
type Picker interface {
	PickGround(x, y float32) (math.Vec3, bool)
}

// PickerFunc adapts a function to Picker.
type PickerFunc func(x, y float32) (math.Vec3, bool)

// PickGround implements Picker.
func (f PickerFunc) PickGround(x, y float32) (math.Vec3, bool) {
	return f(x, y)
}

// Controller drives a Coordinator from polled input.
//
// Box and circle: left press fixes the start, dragging updates the preview and
// release finalizes. Freeform: left click adds a point, Backspace removes the
// last one and Enter finalizes. Right button or Escape resets; 1, 2 and 3
// choose box, circle and freeform.
type Controller struct {
	coord  *Coordinator
	picker Picker
	kind   Kind

	// OnFinalize receives every finalized shape.
	OnFinalize func(Result)
}

// NewController creates a controller drawing kind shapes.
func NewController(coord *Coordinator, picker Picker, kind Kind) *Controller {
	return &Controller{coord: coord, picker: picker, kind: kind}
}

// Kind returns the kind new sessions draw.
func (c *Controller) Kind() Kind {
	return c.kind
}

// SetKind switches the kind, discarding any session of another kind.
func (c *Controller) SetKind(k Kind) {
	if k == c.kind {
		return
	}
	c.coord.Reset()
	c.kind = k
	c.coord.log.Info("drawing mode", zap.Stringer("kind", k))
}

// Update processes one frame of input.
func (c *Controller) Update(in Input) {
	switch {
	case in.IsKeyPressed(Key1):
		c.SetKind(KindBox)
	case in.IsKeyPressed(Key2):
		c.SetKind(KindCircle)
	case in.IsKeyPressed(Key3):
		c.SetKind(KindFreeform)
	}

	if in.IsKeyPressed(KeyEscape) || in.IsButtonPressed(ButtonRight) {
		c.coord.Reset()
		return
	}

	if c.kind.IsDrag() {
		c.updateDrag(in)
	} else {
		c.updateFreeform(in)
	}
}

func (c *Controller) pick(in Input) (math.Vec3, bool) {
	return c.picker.PickGround(in.PointerPosition())
}

// session returns the active session, starting one when none is active.
func (c *Controller) session() *Session {
	if s := c.coord.Active(); s != nil {
		return s
	}
	s, err := c.coord.Start(c.kind)
	if err != nil {
		return nil
	}
	return s
}

func (c *Controller) updateDrag(in Input) {
	if in.IsButtonPressed(ButtonLeft) {
		p, ok := c.pick(in)
		if !ok {
			return
		}
		// A press on an open session resumes dragging after a rejected finalize.
		if s := c.coord.Active(); s != nil && len(s.points) > 0 {
			s.Drag(p)
			return
		}
		if s := c.session(); s != nil {
			_ = s.AddPoint(p)
		}
		return
	}

	s := c.coord.Active()
	if s == nil {
		return
	}
	if in.IsButtonDown(ButtonLeft) {
		if p, ok := c.pick(in); ok {
			s.Drag(p)
		}
	}
	if in.IsButtonReleased(ButtonLeft) {
		res, err := s.Finalize()
		switch {
		case err == nil:
			c.emit(res)
		case errors.Is(err, ErrInsufficientPoints), errors.Is(err, shape.ErrDegenerateShape):
			// A click without a drag places nothing.
			s.Reset()
		}
	}
}

func (c *Controller) updateFreeform(in Input) {
	if in.IsButtonPressed(ButtonLeft) {
		if p, ok := c.pick(in); ok {
			if s := c.session(); s != nil {
				_ = s.AddPoint(p)
			}
		}
	}

	s := c.coord.Active()
	if s == nil {
		return
	}
	if in.IsKeyPressed(KeyBackspace) {
		_ = s.RemoveLastPoint()
	}
	if in.IsKeyPressed(KeyEnter) {
		if res, err := s.Finalize(); err == nil {
			c.emit(res)
		}
	}
}

func (c *Controller) emit(res Result) {
	if c.OnFinalize != nil {
		c.OnFinalize(res)
	}
}
