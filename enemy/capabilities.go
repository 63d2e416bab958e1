package enemy

import "github.com/go-gl/mathgl/mgl64"

// EntityID identifies an entity in the host world.
type EntityID uint64

// PlayerTag is the overlap tag that makes the agent turn toward the player.
const PlayerTag = "Player"

// Locator is anything with a world position: a marker, a cover point, the
// player.
type Locator interface {
	Position() mgl64.Vec3
}

// Target is a locator the physics world can report as a ray hit.
type Target interface {
	Locator
	ID() EntityID
}

// Point is a fixed world position.
type Point mgl64.Vec3

func (p Point) Position() mgl64.Vec3 {
	return mgl64.Vec3(p)
}

// Points wraps fixed positions as locators.
func Points(ps ...mgl64.Vec3) []Locator {
	out := make([]Locator, 0, len(ps))
	for _, p := range ps {
		out = append(out, Point(p))
	}
	return out
}

// Frame carries the host clock for one update or overlap callback, in
// seconds.
type Frame struct {
	Time  float64
	Delta float64
}

// Overlap describes a trigger enter or stay event delivered by the host.
type Overlap struct {
	Entity EntityID
	Tag    string
}

// Body is the agent's transform as owned by the host.
type Body interface {
	Position() mgl64.Vec3
	Rotation() mgl64.Quat
	SetRotation(q mgl64.Quat)
}

// Navigator is the host's path-following agent.
type Navigator interface {
	SetDestination(p mgl64.Vec3)
	PathPending() bool
	RemainingDistance() float64
	Stop()
	Resume()
}

// Hit is the first collider struck by a ray.
type Hit struct {
	Entity   EntityID
	Point    mgl64.Vec3
	Distance float64
}

// Raycaster answers first-hit ray queries.
type Raycaster interface {
	Raycast(origin, dir mgl64.Vec3, maxDistance float64) (Hit, bool)
}

// Animator receives the animation matching the agent's state.
type Animator interface {
	Play(a Animation)
}

// Lifecycle lets the agent ask the host to remove its entity.
type Lifecycle interface {
	Destroy()
}

// Shot is emitted each time the agent fires.
type Shot struct {
	Shooter   EntityID
	Target    EntityID
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
	Distance  float64
	Time      float64
}

// FireHook handles shots. Projectiles and damage are the hook's business.
type FireHook interface {
	Fire(s Shot)
}

// FireFunc adapts a function to FireHook.
type FireFunc func(s Shot)

func (f FireFunc) Fire(s Shot) {
	f(s)
}

// Capabilities bundles the host services the controller drives. Body, Nav,
// Raycaster and Animator are required.
type Capabilities struct {
	Body      Body
	Nav       Navigator
	Raycaster Raycaster
	Animator  Animator
	Lifecycle Lifecycle
}
