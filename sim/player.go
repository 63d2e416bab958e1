package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/sentry/enemy"
	"github.com/milk9111/sentry/prefabs"
)

// player walks its route at a fixed speed and stands on the last point
// unless the route loops.
type player struct {
	route  []mgl64.Vec3
	speed  float64
	loop   bool
	pos    mgl64.Vec3
	next   int
	health int
}

func newPlayer(spec prefabs.PlayerSpec) *player {
	p := &player{
		speed:  spec.Speed,
		loop:   spec.Loop,
		health: spec.Health,
	}
	for _, r := range spec.Route {
		p.route = append(p.route, r.Vec())
	}
	p.pos = p.route[0]
	p.next = 1 % len(p.route)
	return p
}

func (p *player) Position() mgl64.Vec3 {
	return p.pos
}

func (p *player) ID() enemy.EntityID {
	return PlayerID
}

func (p *player) step(dt float64) {
	if len(p.route) < 2 || p.speed <= 0 {
		return
	}
	budget := p.speed * dt
	// Bounds the loop when every remaining waypoint is where the player
	// already stands.
	idle := 0
	for budget > 0 && idle <= len(p.route) {
		if p.next >= len(p.route) {
			if !p.loop {
				return
			}
			p.next = 0
		}
		target := p.route[p.next]
		delta := target.Sub(p.pos)
		d := delta.Len()
		if d > budget {
			p.pos = p.pos.Add(delta.Mul(budget / d))
			return
		}
		p.pos = target
		budget -= d
		p.next++
		if d == 0 {
			idle++
		} else {
			idle = 0
		}
	}
}
