package enemy

import "github.com/milk9111/sentry/common"

// faceTurnRate scales the frame delta into a slerp fraction.
const faceTurnRate = 5.0

// OnOverlap handles trigger enter and stay events. Overlaps tagged as the
// player turn the agent a step toward the player on the horizontal plane,
// whatever state it is in.
func (c *Controller) OnOverlap(o Overlap, f Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dead || o.Tag != PlayerTag {
		return
	}
	c.facePlayer(f.Delta)
}

func (c *Controller) facePlayer(dt float64) {
	if c.refs.Player == nil {
		return
	}
	dir := common.Flatten(common.Normalize(c.refs.Player.Position().Sub(c.body.Position())))
	look, ok := common.LookRotation(dir)
	if !ok {
		return
	}
	c.body.SetRotation(common.Slerp(c.body.Rotation(), look, dt*faceTurnRate))
}
