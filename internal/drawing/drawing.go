// Package drawing turns pointer and key input into field shapes. A single
// Coordinator owns the active Session; sessions collect control points,
// keep a live preview and finalize into an uploaded mesh.
package drawing

import (
	"errors"
	"time"

	"github.com/Faultbox/fieldplot/internal/collider"
	"github.com/Faultbox/fieldplot/internal/config"
	"github.com/Faultbox/fieldplot/internal/mesh"
	"github.com/Faultbox/fieldplot/internal/shape"
	"github.com/Faultbox/fieldplot/pkg/math"
)

var (
	// ErrSessionActive is returned by Start while another session is collecting.
	ErrSessionActive = errors.New("drawing session already active")
	// ErrNotCollecting is returned for edits on a session that is not collecting.
	ErrNotCollecting = errors.New("session is not collecting")
	// ErrInsufficientPoints is returned by Finalize below the kind's minimum point count.
	ErrInsufficientPoints = shape.ErrInsufficientPoints
	// ErrInvalidSlope is returned by Finalize when the placement is too steep.
	ErrInvalidSlope = errors.New("placement slope too steep")
	// ErrUploadFailed wraps Uploader errors.
	ErrUploadFailed = errors.New("mesh upload failed")
)

// MeshHandle identifies an uploaded mesh.
type MeshHandle uint32

// Uploader hands finished meshes to the renderer.
type Uploader interface {
	Upload(m *mesh.Mesh) (MeshHandle, error)
}

// ColliderFactory creates the collider of an uploaded mesh.
type ColliderFactory interface {
	Create(id uint32, m *mesh.Mesh, convex bool) (*collider.Collider, error)
}

// ExtrasAttacher copies template data onto a finalized field.
type ExtrasAttacher interface {
	AttachExtras(h MeshHandle, templates []string) error
}

// UploaderFunc adapts a function to Uploader.
type UploaderFunc func(m *mesh.Mesh) (MeshHandle, error)

// Upload implements Uploader.
func (f UploaderFunc) Upload(m *mesh.Mesh) (MeshHandle, error) {
	return f(m)
}

// Options controls placement validation and finalize side effects.
type Options struct {
	SlopeValidation      bool
	MaxSlopeAngleDeg     float32
	MakeColliderConvex   bool
	InvalidFeedbackDelay time.Duration
	Extras               []string // Templates passed to ExtrasAttacher
}

// OptionsFromConfig extracts the session options from the drawing config.
func OptionsFromConfig(cfg config.DrawingConfig) Options {
	return Options{
		SlopeValidation:      cfg.SlopeValidation,
		MaxSlopeAngleDeg:     cfg.MaxSlopeAngleDeg,
		MakeColliderConvex:   cfg.MakeColliderConvex,
		InvalidFeedbackDelay: cfg.InvalidFeedbackDelay.Std(),
	}
}

// Deps are the host services a Coordinator calls. Only Uploader is required.
type Deps struct {
	Uploader  Uploader
	Colliders ColliderFactory
	Extras    ExtrasAttacher
	Scheduler *Scheduler
}

// Result is a finalized shape.
type Result struct {
	Kind     Kind
	Handle   MeshHandle
	Mesh     *mesh.Mesh
	Collider *collider.Collider
	Points   []math.Vec3 // Control points the shape was built from
	Warnings []string
}
