package drawing

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/fieldplot/internal/logger"
	"github.com/Faultbox/fieldplot/internal/shape"
)

// Coordinator owns the single active drawing session and the shared
// invalid-placement indicator.
type Coordinator struct {
	builder *shape.Builder
	opts    Options
	deps    Deps
	log     *zap.Logger

	active *Session

	invalidVisible bool
	hideTimer      *Timer
}

// NewCoordinator creates a coordinator. A nil scheduler gets a private one;
// a nil logger uses the global one.
func NewCoordinator(builder *shape.Builder, opts Options, deps Deps, log *zap.Logger) *Coordinator {
	if deps.Scheduler == nil {
		deps.Scheduler = NewScheduler()
	}
	return &Coordinator{
		builder: builder,
		opts:    opts,
		deps:    deps,
		log:     logger.OrNamed(log, "drawing"),
	}
}

// Builder returns the mesh builder sessions use.
func (c *Coordinator) Builder() *shape.Builder {
	return c.builder
}

// Options returns the active options.
func (c *Coordinator) Options() Options {
	return c.opts
}

// SetOptions replaces the options. An active session picks them up on its
// next edit.
func (c *Coordinator) SetOptions(opts Options) {
	c.opts = opts
}

// Scheduler returns the scheduler deferred feedback runs on.
func (c *Coordinator) Scheduler() *Scheduler {
	return c.deps.Scheduler
}

// Active returns the collecting session, or nil.
func (c *Coordinator) Active() *Session {
	return c.active
}

// Start opens a new collecting session. It fails with ErrSessionActive while
// another session is collecting.
func (c *Coordinator) Start(kind Kind) (*Session, error) {
	if c.active != nil {
		c.log.Warn("start rejected: session already active",
			zap.Stringer("active", c.active.kind),
			zap.Stringer("requested", kind),
		)
		return nil, fmt.Errorf("start %s: %w", kind, ErrSessionActive)
	}
	s := &Session{coord: c, kind: kind, state: StateCollecting}
	c.active = s
	c.log.Debug("session started", zap.Stringer("kind", kind))
	return s, nil
}

// Reset discards the active session, if any.
func (c *Coordinator) Reset() {
	if c.active != nil {
		c.active.Reset()
	}
}

// InvalidFeedbackVisible reports whether the invalid-placement indicator is shown.
func (c *Coordinator) InvalidFeedbackVisible() bool {
	return c.invalidVisible
}

// showInvalidFeedback shows the indicator and schedules its hide. A pending
// hide from an earlier rejection is cancelled.
func (c *Coordinator) showInvalidFeedback() {
	c.invalidVisible = true
	c.hideTimer.Cancel()
	c.hideTimer = c.deps.Scheduler.After(c.opts.InvalidFeedbackDelay, func() {
		c.invalidVisible = false
		c.hideTimer = nil
	})
}

// hideInvalidFeedback hides the indicator immediately.
func (c *Coordinator) hideInvalidFeedback() {
	c.hideTimer.Cancel()
	c.hideTimer = nil
	c.invalidVisible = false
}

func (c *Coordinator) release(s *Session) {
	if c.active == s {
		c.active = nil
	}
}
