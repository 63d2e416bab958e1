package sim

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/milk9111/sentry/animation"
	"github.com/milk9111/sentry/common"
	"github.com/milk9111/sentry/enemy"
	"github.com/milk9111/sentry/nav"
	"github.com/milk9111/sentry/physics"
	"github.com/milk9111/sentry/prefabs"
	"github.com/milk9111/sentry/script"
)

const (
	EnemyID  enemy.EntityID = 1
	PlayerID enemy.EntityID = 2
	// Obstacles are numbered from here in arena order.
	firstObstacleID enemy.EntityID = 100
)

var ErrMissingSpec = errors.New("sim: missing spec")

// Transition is one state change of the enemy.
type Transition struct {
	Time float64
	From enemy.State
	To   enemy.State
}

// ShotRecord is one shot fired at the player and the damage it dealt.
type ShotRecord struct {
	Time     float64
	Distance float64
	Damage   int
}

type Options struct {
	Enemy *prefabs.EnemySpec
	Arena *prefabs.ArenaSpec
	// FireScript decides shot damage. Without it every shot deals the
	// enemy's base damage.
	FireScript []byte
	Logger     zerolog.Logger
}

// World hosts one enemy and one player in an arena. It owns the clock and
// drives every system in a fixed order each Step.
type World struct {
	logger zerolog.Logger
	arena  *prefabs.ArenaSpec
	spec   *prefabs.EnemySpec

	grid    *nav.Grid
	agent   *nav.Agent
	physics *physics.World
	flags   *animation.FlagSet
	shots   *script.ShotScript
	ctrl    *enemy.Controller
	player  *player

	time     float64
	frame    enemy.Frame
	schedule []prefabs.DamageSpec
	next     int

	removed     bool
	diedAt      float64
	transitions []Transition
	shotLog     []ShotRecord
}

// Load builds a world from prefab names, reading the enemy's fire script
// through the prefab loader.
func Load(enemyName, arenaName string, logger zerolog.Logger) (*World, error) {
	es, err := prefabs.LoadEnemySpec(enemyName)
	if err != nil {
		return nil, err
	}
	as, err := prefabs.LoadArenaSpec(arenaName)
	if err != nil {
		return nil, err
	}
	var src []byte
	if es.FireScript != "" {
		src, err = prefabs.LoadScript(es.FireScript)
		if err != nil {
			return nil, fmt.Errorf("sim: load script %s: %w", es.FireScript, err)
		}
	}
	return New(Options{Enemy: es, Arena: as, FireScript: src, Logger: logger})
}

func New(opts Options) (*World, error) {
	if opts.Enemy == nil || opts.Arena == nil {
		return nil, ErrMissingSpec
	}
	a := opts.Arena
	w := &World{
		logger: opts.Logger.With().Str("component", "sim").Logger(),
		arena:  a,
		spec:   opts.Enemy,
		diedAt: -1,
	}

	grid, err := nav.NewGrid(a.Grid.Width, a.Grid.Depth, a.Grid.CellSize, a.Grid.Origin.Vec())
	if err != nil {
		return nil, fmt.Errorf("sim: arena %s: %w", a.Name, err)
	}
	w.grid = grid
	w.physics = physics.NewWorld(opts.Logger)
	for i, o := range a.Obstacles {
		grid.Block(o.MinX, o.MinZ, o.MaxX, o.MaxZ)
		w.physics.AddObstacle(firstObstacleID+enemy.EntityID(i), o.MinX, o.MinZ, o.MaxX, o.MaxZ)
	}

	refs := enemy.Refs{
		Self:        EnemyID,
		StartPoint:  enemy.Point(a.Start.Vec()),
		CoverPoints: make([]enemy.Locator, 0, len(a.Cover)),
	}
	if a.End != nil {
		refs.EndPoint = enemy.Point(a.End.Vec())
	}
	for _, c := range a.Cover {
		refs.CoverPoints = append(refs.CoverPoints, enemy.Point(c.Vec()))
	}
	if len(a.Player.Route) > 0 {
		w.player = newPlayer(a.Player)
		w.physics.AddPlayer(PlayerID, w.player.pos, a.Player.Radius)
		refs.Player = w.player
	}

	w.agent = nav.NewAgent(grid, a.Start.Vec(), opts.Enemy.MoveSpeed, opts.Logger)
	w.flags = animation.NewFlagSet(nil)

	if opts.FireScript != nil {
		w.shots, err = script.Compile(opts.Enemy.FireScript, opts.FireScript, opts.Enemy.BaseDamage, w.damagePlayer, opts.Logger)
		if err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
	}

	w.ctrl, err = enemy.New(opts.Enemy.Config(), refs, enemy.Capabilities{
		Body:      w.agent,
		Nav:       w.agent,
		Raycaster: w.physics.Raycaster(EnemyID),
		Animator:  w.flags,
		Lifecycle: lifecycle{w},
	},
		enemy.WithLogger(opts.Logger),
		enemy.WithFireHook(enemy.FireFunc(w.fire)),
		enemy.WithTransitionObserver(w.recordTransition),
	)
	if err != nil {
		return nil, fmt.Errorf("sim: enemy %s: %w", opts.Enemy.Name, err)
	}

	w.physics.AddEnemy(EnemyID, a.Start.Vec(), opts.Enemy.Radius, opts.Enemy.TriggerRadius, w.overlap)

	w.schedule = append([]prefabs.DamageSpec(nil), a.Damage...)
	sort.SliceStable(w.schedule, func(i, j int) bool {
		return w.schedule[i].At < w.schedule[j].At
	})
	return w, nil
}

// Step advances the world by dt seconds: enemy tick, navigation, player
// movement, physics (which delivers trigger overlaps) and finally the
// damage scheduled up to the new time.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.time += dt
	w.frame = enemy.Frame{Time: w.time, Delta: dt}

	if !w.removed {
		w.ctrl.Update(w.frame)
		w.agent.Step(dt)
		w.physics.SetPosition(EnemyID, w.agent.Position())
	}
	if w.player != nil {
		w.player.step(dt)
		w.physics.SetPosition(PlayerID, w.player.pos)
	}
	w.physics.Step(dt)

	for w.next < len(w.schedule) && w.schedule[w.next].At <= w.time {
		d := w.schedule[w.next]
		w.next++
		w.logger.Debug().Float64("time", w.time).Int("amount", d.Amount).Msg("scheduled damage")
		w.ctrl.ApplyDamage(d.Amount)
	}

	if w.removed && w.diedAt < 0 {
		w.diedAt = w.time
		w.physics.Remove(EnemyID)
	}
}

// Run steps the world until duration has elapsed or the enemy is gone.
func (w *World) Run(duration, dt float64) {
	for w.time+dt/2 < duration && !w.removed {
		w.Step(dt)
	}
}

func (w *World) overlap(o enemy.Overlap, _ float64) {
	w.ctrl.OnOverlap(o, w.frame)
}

func (w *World) fire(s enemy.Shot) {
	w.shotLog = append(w.shotLog, ShotRecord{Time: s.Time, Distance: s.Distance})
	if w.shots != nil {
		w.shots.Fire(s)
		return
	}
	w.damagePlayer(s, w.spec.BaseDamage)
}

func (w *World) damagePlayer(s enemy.Shot, dmg int) {
	if n := len(w.shotLog); n > 0 {
		w.shotLog[n-1].Damage = dmg
	}
	if w.player == nil || dmg <= 0 {
		return
	}
	w.player.health = max(w.player.health-dmg, 0)
}

func (w *World) recordTransition(from, to enemy.State) {
	w.transitions = append(w.transitions, Transition{Time: w.time, From: from, To: to})
	w.logger.Info().
		Float64("time", w.time).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("enemy state")
}

type lifecycle struct {
	w *World
}

// Destroy runs inside ApplyDamage; the physics body is removed at the end of
// the step.
func (l lifecycle) Destroy() {
	l.w.removed = true
}

func (w *World) Time() float64 {
	return w.time
}

func (w *World) Controller() *enemy.Controller {
	return w.ctrl
}

func (w *World) Arena() *prefabs.ArenaSpec {
	return w.arena
}

func (w *World) Transitions() []Transition {
	return append([]Transition(nil), w.transitions...)
}

func (w *World) Shots() []ShotRecord {
	return append([]ShotRecord(nil), w.shotLog...)
}

// DiedAt is the time the enemy died, or -1 while it lives.
func (w *World) DiedAt() float64 {
	return w.diedAt
}

func (w *World) Removed() bool {
	return w.removed
}

// Snapshot is a read-only view of the world for rendering and reports.
type Snapshot struct {
	Time    float64
	Enemy   enemy.Gizmo
	Forward mgl64.Vec3
	Path    []mgl64.Vec3
	// Destination is the navigation target, valid when HasDestination.
	Destination    mgl64.Vec3
	HasDestination bool
	Flags          []string
	Removed        bool
	HasPlayer      bool
	Player         mgl64.Vec3
	PlayerHealth   int
}

func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Time:    w.time,
		Enemy:   w.ctrl.Gizmo(),
		Forward: common.Forward(w.agent.Rotation()),
		Path:    w.agent.Path(),
		Flags:   w.flags.Active(),
		Removed: w.removed,
	}
	s.Destination, s.HasDestination = w.agent.Destination()
	if w.player != nil {
		s.HasPlayer = true
		s.Player = w.player.pos
		s.PlayerHealth = w.player.health
	}
	return s
}
