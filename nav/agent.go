package nav

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/milk9111/sentry/common"
)

// sameDestinationTolerance is how close a requested destination must be to the
// current one to keep the planned path.
const sameDestinationTolerance = 1e-9

// Agent follows grid paths at a fixed speed. It serves as both the enemy's
// navigator and its body: it owns the position and turns to face the
// direction it moves in.
//
// Paths are resolved lazily: SetDestination only marks the path pending and
// the next Step plans it.
type Agent struct {
	grid   *Grid
	speed  float64
	logger zerolog.Logger

	pos mgl64.Vec3
	rot mgl64.Quat

	dest        mgl64.Vec3
	hasDest     bool
	pending     bool
	unreachable bool
	stopped     bool
	path        []mgl64.Vec3
}

// NewAgent places an agent at pos facing +Z. A nil grid makes every path a
// straight line.
func NewAgent(grid *Grid, pos mgl64.Vec3, speed float64, logger zerolog.Logger) *Agent {
	return &Agent{
		grid:   grid,
		speed:  speed,
		logger: logger.With().Str("component", "nav").Logger(),
		pos:    pos,
		rot:    mgl64.QuatIdent(),
	}
}

// SetDestination requests a path to p. Asking again for the current
// destination keeps the existing path.
func (a *Agent) SetDestination(p mgl64.Vec3) {
	if a.hasDest && common.Near(a.dest, p, sameDestinationTolerance) {
		return
	}
	a.dest = p
	a.hasDest = true
	a.pending = true
	a.unreachable = false
	a.path = nil
}

func (a *Agent) PathPending() bool {
	return a.pending
}

// RemainingDistance is the length of the path still ahead: 0 without a
// destination, +Inf while pending or when the destination is unreachable.
func (a *Agent) RemainingDistance() float64 {
	if !a.hasDest {
		return 0
	}
	if a.pending || a.unreachable {
		return math.Inf(1)
	}
	total := 0.0
	prev := a.pos
	for _, wp := range a.path {
		total += common.Distance(prev, wp)
		prev = wp
	}
	return total
}

func (a *Agent) Stop() {
	a.stopped = true
}

func (a *Agent) Resume() {
	a.stopped = false
}

func (a *Agent) Stopped() bool {
	return a.stopped
}

func (a *Agent) Position() mgl64.Vec3 {
	return a.pos
}

func (a *Agent) Rotation() mgl64.Quat {
	return a.rot
}

func (a *Agent) SetRotation(q mgl64.Quat) {
	a.rot = q
}

func (a *Agent) Destination() (mgl64.Vec3, bool) {
	return a.dest, a.hasDest
}

// Path returns a copy of the waypoints still ahead.
func (a *Agent) Path() []mgl64.Vec3 {
	return append([]mgl64.Vec3(nil), a.path...)
}

// Step plans a pending path and advances along the current one.
func (a *Agent) Step(dt float64) {
	if a.pending {
		a.plan()
	}
	if a.stopped || len(a.path) == 0 || dt <= 0 {
		return
	}

	budget := a.speed * dt
	for budget > 0 && len(a.path) > 0 {
		next := a.path[0]
		delta := next.Sub(a.pos)
		d := delta.Len()
		if q, ok := common.LookRotation(common.Flatten(delta)); ok {
			a.rot = q
		}
		if d <= budget {
			a.pos = next
			a.path = a.path[1:]
			budget -= d
			continue
		}
		a.pos = a.pos.Add(delta.Mul(budget / d))
		budget = 0
	}
}

func (a *Agent) plan() {
	a.pending = false
	if a.grid == nil {
		a.path = []mgl64.Vec3{a.dest}
		return
	}
	path, ok := a.grid.FindPath(a.pos, a.dest)
	if !ok {
		a.unreachable = true
		a.path = nil
		a.logger.Warn().
			Floats64("from", a.pos[:]).
			Floats64("to", a.dest[:]).
			Msg("destination unreachable")
		return
	}
	a.path = path
	a.logger.Debug().Int("waypoints", len(path)).Float64("length", a.RemainingDistance()).Msg("path planned")
}
