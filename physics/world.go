package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/rs/zerolog"

	"github.com/milk9111/sentry/enemy"
)

// The space is a top-down projection: world X maps to cp X and world Z maps
// to cp Y. Heights are not simulated.

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypePlayer
	collisionTypeEnemy
	collisionTypeTrigger
)

// OverlapFunc receives trigger enter and stay events for one enemy.
type OverlapFunc func(o enemy.Overlap, dt float64)

// World owns the Chipmunk space, the arena walls and the actor bodies.
type World struct {
	space  *cp.Space
	logger zerolog.Logger

	// dt of the step in progress, handed to overlap callbacks.
	stepDelta float64

	shapeToEntity map[*cp.Shape]enemy.EntityID
	tags          map[enemy.EntityID]string
	triggers      map[*cp.Shape]enemy.EntityID
	listeners     map[enemy.EntityID]OverlapFunc
	bodies        map[enemy.EntityID]*cp.Body
}

func NewWorld(logger zerolog.Logger) *World {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})

	w := &World{
		space:         space,
		logger:        logger.With().Str("component", "physics").Logger(),
		shapeToEntity: make(map[*cp.Shape]enemy.EntityID),
		tags:          make(map[enemy.EntityID]string),
		triggers:      make(map[*cp.Shape]enemy.EntityID),
		listeners:     make(map[enemy.EntityID]OverlapFunc),
		bodies:        make(map[enemy.EntityID]*cp.Body),
	}
	w.setupHandlers()
	return w
}

func toCP(p mgl64.Vec3) cp.Vector {
	return cp.Vector{X: p.X(), Y: p.Z()}
}

func fromCP(v cp.Vector, y float64) mgl64.Vec3 {
	return mgl64.Vec3{v.X, y, v.Y}
}

// AddObstacle adds a static box covering the XZ rectangle. id may be zero
// for anonymous walls.
func (w *World) AddObstacle(id enemy.EntityID, minX, minZ, maxX, maxZ float64) {
	bb := cp.BB{L: minX, B: minZ, R: maxX, T: maxZ}
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeSolid)
	shape.UserData = id
	w.space.AddShape(shape)
	if id != 0 {
		w.shapeToEntity[shape] = id
		w.tags[id] = "Obstacle"
	}
}

// AddPlayer adds the player as a dynamic circle tagged "Player".
func (w *World) AddPlayer(id enemy.EntityID, pos mgl64.Vec3, radius float64) {
	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(toCP(pos))
	w.space.AddBody(body)

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetCollisionType(collisionTypePlayer)
	shape.UserData = id
	w.space.AddShape(shape)

	w.shapeToEntity[shape] = id
	w.tags[id] = enemy.PlayerTag
	w.bodies[id] = body
}

// AddEnemy adds a kinematic circle for the enemy plus a sensor trigger of
// triggerRadius. Both shapes share a filter group so the enemy's own rays
// pass through them.
func (w *World) AddEnemy(id enemy.EntityID, pos mgl64.Vec3, radius, triggerRadius float64, onOverlap OverlapFunc) {
	body := cp.NewKinematicBody()
	body.SetPosition(toCP(pos))
	w.space.AddBody(body)

	filter := cp.NewShapeFilter(uint(id), cp.ALL_CATEGORIES, cp.ALL_CATEGORIES)

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetCollisionType(collisionTypeEnemy)
	shape.SetFilter(filter)
	shape.UserData = id
	w.space.AddShape(shape)
	w.shapeToEntity[shape] = id

	if triggerRadius > 0 {
		trigger := cp.NewCircle(body, triggerRadius, cp.Vector{})
		trigger.SetSensor(true)
		trigger.SetCollisionType(collisionTypeTrigger)
		trigger.SetFilter(filter)
		trigger.UserData = id
		w.space.AddShape(trigger)
		w.triggers[trigger] = id
	}

	w.tags[id] = "Enemy"
	w.bodies[id] = body
	if onOverlap != nil {
		w.listeners[id] = onOverlap
	}
}

// Remove takes an actor's body and shapes out of the space.
func (w *World) Remove(id enemy.EntityID) {
	body, ok := w.bodies[id]
	if !ok {
		return
	}
	var shapes []*cp.Shape
	body.EachShape(func(s *cp.Shape) {
		shapes = append(shapes, s)
	})
	for _, s := range shapes {
		delete(w.shapeToEntity, s)
		delete(w.triggers, s)
		w.space.RemoveShape(s)
	}
	w.space.RemoveBody(body)
	delete(w.bodies, id)
	delete(w.listeners, id)
	delete(w.tags, id)
}

// SetPosition moves an actor's body. The y component is ignored.
func (w *World) SetPosition(id enemy.EntityID, p mgl64.Vec3) {
	if body, ok := w.bodies[id]; ok {
		body.SetPosition(toCP(p))
		body.SetVelocity(0, 0)
	}
}

// Position returns the body position of an actor at height y.
func (w *World) Position(id enemy.EntityID, y float64) (mgl64.Vec3, bool) {
	body, ok := w.bodies[id]
	if !ok {
		return mgl64.Vec3{}, false
	}
	return fromCP(body.Position(), y), true
}

// Tag returns the tag an entity was registered with.
func (w *World) Tag(id enemy.EntityID) string {
	return w.tags[id]
}

// Step advances the space. Overlap callbacks run inside this call.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.stepDelta = dt
	w.space.Step(dt)
}

// Raycaster returns a ray query that ignores the shapes of self.
func (w *World) Raycaster(self enemy.EntityID) enemy.Raycaster {
	return &raycaster{world: w, filter: cp.NewShapeFilter(uint(self), cp.ALL_CATEGORIES, cp.ALL_CATEGORIES)}
}

type raycaster struct {
	world  *World
	filter cp.ShapeFilter
}

// Raycast casts the horizontal projection of the ray. Sensors never block.
func (r *raycaster) Raycast(origin, dir mgl64.Vec3, maxDistance float64) (enemy.Hit, bool) {
	flat := mgl64.Vec2{dir.X(), dir.Z()}
	if flat.Len()*maxDistance < 1e-9 {
		return enemy.Hit{}, false
	}
	start := toCP(origin)
	end := toCP(origin.Add(dir.Mul(maxDistance)))

	info := r.world.space.SegmentQueryFirst(start, end, 0, r.filter)
	if info.Shape == nil {
		return enemy.Hit{}, false
	}
	id, _ := info.Shape.UserData.(enemy.EntityID)
	dist := info.Alpha * maxDistance
	return enemy.Hit{
		Entity:   id,
		Point:    fromCP(info.Point, origin.Y()+dir.Y()*dist),
		Distance: dist,
	}, true
}

func (w *World) setupHandlers() {
	triggerHandler := w.space.NewCollisionHandler(collisionTypeTrigger, collisionTypePlayer)
	triggerHandler.UserData = w
	triggerHandler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if world, ok := userData.(*World); ok {
			world.dispatchOverlap(arb, "enter")
		}
		return true
	}
	triggerHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		// Begin already reported the first frame.
		if arb.IsFirstContact() {
			return true
		}
		if world, ok := userData.(*World); ok {
			world.dispatchOverlap(arb, "stay")
		}
		return true
	}

	// Actors walk through each other.
	playerEnemyHandler := w.space.NewCollisionHandler(collisionTypePlayer, collisionTypeEnemy)
	playerEnemyHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		return false
	}
}

func (w *World) dispatchOverlap(arb *cp.Arbiter, phase string) {
	shapeA, shapeB := arb.Shapes()
	owner, ok := w.triggers[shapeA]
	other := shapeB
	if !ok {
		owner, ok = w.triggers[shapeB]
		other = shapeA
	}
	if !ok {
		return
	}
	fn := w.listeners[owner]
	if fn == nil {
		return
	}
	otherID := w.shapeToEntity[other]
	w.logger.Trace().Uint64("enemy", uint64(owner)).Uint64("other", uint64(otherID)).Str("phase", phase).Msg("trigger overlap")
	fn(enemy.Overlap{Entity: otherID, Tag: w.tags[otherID]}, w.stepDelta)
}
