package enemy

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sentry/common"
)

// Gizmo is the debug geometry of the agent's perception: the detection
// sphere and the two edges of the view cone, each scaled to the range.
type Gizmo struct {
	Position mgl64.Vec3
	Radius   float64
	Left     mgl64.Vec3
	Right    mgl64.Vec3
	State    State
	Health   int
	Dead     bool
}

func (c *Controller) Gizmo() Gizmo {
	c.mu.Lock()
	defer c.mu.Unlock()

	fwd := common.Forward(c.body.Rotation())
	half := c.cfg.FieldOfView / 2
	return Gizmo{
		Position: c.body.Position(),
		Radius:   c.cfg.DetectionRange,
		Left:     common.YawRotation(-half).Rotate(fwd).Mul(c.cfg.DetectionRange),
		Right:    common.YawRotation(half).Rotate(fwd).Mul(c.cfg.DetectionRange),
		State:    c.state,
		Health:   c.health,
		Dead:     c.dead,
	}
}
