package enemy

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

type fakeBody struct {
	pos mgl64.Vec3
	rot mgl64.Quat
}

func newFakeBody(pos mgl64.Vec3) *fakeBody {
	return &fakeBody{pos: pos, rot: mgl64.QuatIdent()}
}

func (b *fakeBody) Position() mgl64.Vec3     { return b.pos }
func (b *fakeBody) Rotation() mgl64.Quat     { return b.rot }
func (b *fakeBody) SetRotation(q mgl64.Quat) { b.rot = q }

type fakeNav struct {
	dest         mgl64.Vec3
	destinations []mgl64.Vec3
	pending      bool
	remaining    float64
	stopped      bool
	stops        int
	resumes      int
}

func (n *fakeNav) SetDestination(p mgl64.Vec3) {
	n.dest = p
	n.destinations = append(n.destinations, p)
}
func (n *fakeNav) PathPending() bool          { return n.pending }
func (n *fakeNav) RemainingDistance() float64 { return n.remaining }
func (n *fakeNav) Stop()                      { n.stopped = true; n.stops++ }
func (n *fakeNav) Resume()                    { n.stopped = false; n.resumes++ }

type rayCall struct {
	origin, dir mgl64.Vec3
	maxDistance float64
}

// fakeRay reports hitEntity as the first hit unless miss is set.
type fakeRay struct {
	hitEntity EntityID
	miss      bool
	calls     []rayCall
}

func (r *fakeRay) Raycast(origin, dir mgl64.Vec3, maxDistance float64) (Hit, bool) {
	r.calls = append(r.calls, rayCall{origin: origin, dir: dir, maxDistance: maxDistance})
	if r.miss {
		return Hit{}, false
	}
	return Hit{Entity: r.hitEntity, Distance: 1}, true
}

type fakeAnim struct {
	played []Animation
}

func (a *fakeAnim) Play(anim Animation) { a.played = append(a.played, anim) }

func (a *fakeAnim) last() Animation {
	if len(a.played) == 0 {
		return AnimNone
	}
	return a.played[len(a.played)-1]
}

type fakeLife struct {
	mu        sync.Mutex
	destroyed int
}

func (l *fakeLife) Destroy() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.destroyed++
}

type fakePlayer struct {
	id  EntityID
	pos mgl64.Vec3
}

func (p *fakePlayer) ID() EntityID         { return p.id }
func (p *fakePlayer) Position() mgl64.Vec3 { return p.pos }

const (
	testSelf   EntityID = 1
	testPlayer EntityID = 2
	testWall   EntityID = 3
)

type rig struct {
	body   *fakeBody
	nav    *fakeNav
	ray    *fakeRay
	anim   *fakeAnim
	life   *fakeLife
	player *fakePlayer
	shots  []Shot
	trans  [][2]State
}

func newRig() *rig {
	return &rig{
		body:   newFakeBody(mgl64.Vec3{}),
		nav:    &fakeNav{},
		ray:    &fakeRay{hitEntity: testPlayer},
		anim:   &fakeAnim{},
		life:   &fakeLife{},
		player: &fakePlayer{id: testPlayer, pos: mgl64.Vec3{0, 0, 10}},
	}
}

func (r *rig) caps() Capabilities {
	return Capabilities{Body: r.body, Nav: r.nav, Raycaster: r.ray, Animator: r.anim, Lifecycle: r.life}
}

func (r *rig) refs() Refs {
	return Refs{
		Self:     testSelf,
		Player:   r.player,
		EndPoint: Point{0, 0, 20},
		CoverPoints: Points(
			mgl64.Vec3{5, 0, 0},
			mgl64.Vec3{-8, 0, 0},
		),
	}
}

func (r *rig) build(cfg Config, refs Refs) (*Controller, error) {
	return New(cfg, refs, r.caps(),
		WithFireHook(FireFunc(func(s Shot) { r.shots = append(r.shots, s) })),
		WithTransitionObserver(func(from, to State) { r.trans = append(r.trans, [2]State{from, to}) }),
	)
}
