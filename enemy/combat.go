package enemy

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sentry/common"
)

func (c *Controller) combat(f Frame) {
	if c.refs.Player == nil {
		return
	}
	if !c.hasLineOfSight() {
		c.setState(Idle)
		return
	}

	c.nav.Stop()
	c.lookAtPlayer()

	if f.Time >= c.nextFire {
		c.shoot(f)
		c.nextFire = f.Time + 1/c.cfg.FireRate
	}

	if c.health < c.cfg.MaxHealth/2 {
		c.setState(TakingCover)
	}
}

// lookAtPlayer turns the agent fully toward the player, pitch included.
func (c *Controller) lookAtPlayer() {
	if q, ok := common.LookRotation(c.refs.Player.Position().Sub(c.body.Position())); ok {
		c.body.SetRotation(q)
	}
}

func (c *Controller) shoot(f Frame) {
	c.logger.Debug().Float64("time", f.Time).Msg("enemy shooting at player")
	if c.fire == nil {
		return
	}
	pos := c.body.Position()
	toPlayer := c.refs.Player.Position().Sub(pos)
	c.fire.Fire(Shot{
		Shooter:   c.refs.Self,
		Target:    c.refs.Player.ID(),
		Origin:    pos.Add(common.Up),
		Direction: common.Normalize(toPlayer),
		Distance:  toPlayer.Len(),
		Time:      f.Time,
	})
}

func (c *Controller) takeCover() {
	cover, ok := c.findClosestCover()
	if !ok {
		return
	}
	c.nav.Resume()
	c.nav.SetDestination(cover)
	if c.arrived() {
		c.setState(Combat)
	}
}

// FindClosestCover returns the cover point nearest to the agent. Ties go to
// the earliest point; ok is false when there are no cover points.
func (c *Controller) FindClosestCover() (mgl64.Vec3, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findClosestCover()
}

func (c *Controller) findClosestCover() (mgl64.Vec3, bool) {
	pos := c.body.Position()
	var best mgl64.Vec3
	found := false
	shortest := math.Inf(1)
	for _, cover := range c.refs.CoverPoints {
		if cover == nil {
			continue
		}
		p := cover.Position()
		if d := common.Distance(pos, p); d < shortest {
			shortest = d
			best = p
			found = true
		}
	}
	return best, found
}
