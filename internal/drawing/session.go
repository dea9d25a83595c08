package drawing

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/fieldplot/internal/mesh"
	"github.com/Faultbox/fieldplot/pkg/math"
)

// Session collects the control points of one shape. Box and circle sessions
// hold a start point and an end point; freeform sessions hold the outline.
type Session struct {
	coord *Coordinator
	kind  Kind
	state State

	points []math.Vec3

	lastValid    math.Vec3
	hasLastValid bool

	preview      *mesh.Mesh
	previewValid bool
}

// Kind returns the shape kind.
func (s *Session) Kind() Kind {
	return s.kind
}

// State returns the lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Points returns a copy of the control points.
func (s *Session) Points() []math.Vec3 {
	return slices.Clone(s.points)
}

// Preview returns the live preview mesh, nil when there is nothing to show,
// and whether the current placement is valid.
func (s *Session) Preview() (*mesh.Mesh, bool) {
	return s.preview, s.previewValid
}

// AddPoint appends p. For box and circle the first point is the start and
// any later point replaces the end.
func (s *Session) AddPoint(p math.Vec3) error {
	if s.state != StateCollecting {
		return ErrNotCollecting
	}
	if s.kind.IsDrag() && len(s.points) >= 2 {
		s.points[1] = p
	} else {
		s.points = append(s.points, p)
	}
	if s.kind.IsDrag() && len(s.points) == 1 {
		s.hasLastValid = false
	}
	s.regenerate()
	return nil
}

// RemoveLastPoint drops the newest control point. It is a no-op when there
// are none.
func (s *Session) RemoveLastPoint() error {
	if s.state != StateCollecting {
		return ErrNotCollecting
	}
	if len(s.points) == 0 {
		return nil
	}
	s.points = s.points[:len(s.points)-1]
	if s.kind.IsDrag() {
		s.hasLastValid = false
	}
	s.regenerate()
	return nil
}

// Drag moves the end point of a box or circle to candidate. With slope
// validation on, a placement whose sample points are too steep keeps the
// last valid end point and marks the preview invalid. It reports whether the
// candidate was accepted.
func (s *Session) Drag(candidate math.Vec3) bool {
	if s.state != StateCollecting || !s.kind.IsDrag() || len(s.points) == 0 {
		return false
	}
	start := s.points[0]

	if s.placementValid(start, candidate) {
		s.lastValid, s.hasLastValid = candidate, true
		s.setEnd(candidate)
		s.regenerate()
		return true
	}

	s.coord.log.Debug("preview slope invalid",
		zap.Stringer("kind", s.kind),
		zap.Float32("x", candidate.X),
		zap.Float32("z", candidate.Z),
	)
	if s.hasLastValid {
		s.setEnd(s.lastValid)
		s.regenerate()
	}
	s.previewValid = false
	return false
}

func (s *Session) setEnd(p math.Vec3) {
	if len(s.points) >= 2 {
		s.points[1] = p
		return
	}
	s.points = append(s.points, p)
}

// placementValid checks the quad corners or the circle center and rim.
func (s *Session) placementValid(start, end math.Vec3) bool {
	opts := s.coord.opts
	if !opts.SlopeValidation {
		return true
	}
	b := s.coord.builder
	var samples []math.Vec3
	switch s.kind {
	case KindBox:
		corners, _ := b.QuadCorners(start, end)
		samples = corners[:]
	case KindCircle:
		samples = b.CircleSamples(start, end)
	}
	return b.Projector().AllSlopesValid(samples, opts.MaxSlopeAngleDeg)
}

// regenerate rebuilds the preview from the current points. Build errors
// (too few points, zero area) simply leave no preview.
func (s *Session) regenerate() {
	m, err := s.build()
	if err != nil {
		s.preview, s.previewValid = nil, false
		return
	}
	s.preview, s.previewValid = m, true
}

func (s *Session) build() (*mesh.Mesh, error) {
	if len(s.points) < s.kind.MinPoints() {
		return nil, fmt.Errorf("%s needs %d points, have %d: %w",
			s.kind, s.kind.MinPoints(), len(s.points), ErrInsufficientPoints)
	}
	b := s.coord.builder
	switch s.kind {
	case KindBox:
		return b.Quad(s.points[0], s.points[1])
	case KindCircle:
		return b.Circle(s.points[0], s.points[1])
	default:
		return b.Freeform(s.points)
	}
}

// Reset discards all points and the preview and returns to idle. Calling it
// again is a no-op.
func (s *Session) Reset() {
	if s.state == StateIdle {
		return
	}
	s.clear()
	s.coord.hideInvalidFeedback()
	s.coord.log.Debug("session reset", zap.Stringer("kind", s.kind))
}

func (s *Session) clear() {
	s.points = nil
	s.preview, s.previewValid = nil, false
	s.hasLastValid = false
	s.state = StateIdle
	s.coord.release(s)
}

// Finalize builds, uploads and registers the shape. On failure the session
// keeps collecting with its points intact; on success it returns to idle.
func (s *Session) Finalize() (Result, error) {
	if s.state != StateCollecting {
		return Result{}, ErrNotCollecting
	}
	s.state = StatePendingFinalize
	res, err := s.finalize()
	if err != nil {
		s.state = StateCollecting
		return Result{}, err
	}
	s.clear()
	return res, nil
}

func (s *Session) finalize() (Result, error) {
	c := s.coord
	log := c.log.With(zap.Stringer("kind", s.kind), zap.Int("points", len(s.points)))

	if len(s.points) < s.kind.MinPoints() {
		log.Warn("finalize rejected: insufficient points", zap.Int("need", s.kind.MinPoints()))
		return Result{}, fmt.Errorf("%s needs %d points, have %d: %w",
			s.kind, s.kind.MinPoints(), len(s.points), ErrInsufficientPoints)
	}

	if s.kind.IsDrag() && c.opts.SlopeValidation {
		end := s.points[1]
		if !c.builder.Projector().IsSlopeValid(end, c.opts.MaxSlopeAngleDeg) {
			log.Warn("finalize rejected: slope too steep",
				zap.Float32("x", end.X),
				zap.Float32("z", end.Z),
				zap.Float32("maxAngle", c.opts.MaxSlopeAngleDeg),
			)
			c.showInvalidFeedback()
			return Result{}, ErrInvalidSlope
		}
	}

	m, err := s.build()
	if err != nil {
		log.Warn("finalize build failed", zap.Error(err))
		return Result{}, err
	}

	if c.deps.Uploader == nil {
		log.Error("finalize upload failed: no uploader")
		return Result{}, fmt.Errorf("%w: no uploader configured", ErrUploadFailed)
	}
	handle, err := c.deps.Uploader.Upload(m)
	if err != nil {
		log.Error("finalize upload failed", zap.Error(err))
		return Result{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	res := Result{
		Kind:   s.kind,
		Handle: handle,
		Mesh:   m,
		Points: slices.Clone(s.points),
	}
	if m.MissedSamples > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%d of %d vertices missed the ground", m.MissedSamples, m.VertexCount()))
	}

	if c.deps.Colliders != nil {
		col, err := c.deps.Colliders.Create(uint32(handle), m, c.opts.MakeColliderConvex)
		if err != nil {
			log.Warn("collider creation failed", zap.Error(err))
			res.Warnings = append(res.Warnings, "no collider: "+err.Error())
		}
		res.Collider = col
	}
	if c.deps.Extras != nil && len(c.opts.Extras) > 0 {
		if err := c.deps.Extras.AttachExtras(handle, c.opts.Extras); err != nil {
			log.Warn("attach extras failed", zap.Error(err))
			res.Warnings = append(res.Warnings, "extras: "+err.Error())
		}
	}

	c.hideInvalidFeedback()
	log.Info("shape finalized",
		zap.Uint32("handle", uint32(handle)),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
		zap.Int("missed", m.MissedSamples),
	)
	return res, nil
}
