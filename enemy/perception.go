package enemy

import (
	"github.com/milk9111/sentry/common"
)

// CanSeePlayer reports whether the player is inside the detection range,
// inside the view cone and not occluded.
func (c *Controller) CanSeePlayer() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canSeePlayer()
}

// HasLineOfSight reports whether a ray from eye height toward the player
// hits the player first.
func (c *Controller) HasLineOfSight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasLineOfSight()
}

func (c *Controller) detectPlayer() {
	if c.canSeePlayer() {
		c.setState(Combat)
	}
}

func (c *Controller) canSeePlayer() bool {
	if c.refs.Player == nil {
		return false
	}
	toPlayer := c.refs.Player.Position().Sub(c.body.Position())
	angle := common.Angle(common.Forward(c.body.Rotation()), toPlayer)
	c.logger.Debug().Float64("angle", angle).Float64("distance", toPlayer.Len()).Msg("detect player")
	if toPlayer.Len() > c.cfg.DetectionRange || angle > c.cfg.FieldOfView/2 {
		return false
	}
	c.logger.Debug().Msg("player in range")
	return c.hasLineOfSight()
}

func (c *Controller) hasLineOfSight() bool {
	if c.refs.Player == nil {
		return false
	}
	pos := c.body.Position()
	dir := common.Normalize(c.refs.Player.Position().Sub(pos))
	hit, ok := c.ray.Raycast(pos.Add(common.Up), dir, c.cfg.DetectionRange)
	if ok {
		c.logger.Debug().Uint64("hit", uint64(hit.Entity)).Float64("distance", hit.Distance).Msg("ray hit")
		if hit.Entity == c.refs.Player.ID() {
			return true
		}
	}
	c.logger.Debug().Msg("ray cast done")
	return false
}
