package sim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/sentry/animation"
	"github.com/milk9111/sentry/common"
	"github.com/milk9111/sentry/enemy"
	"github.com/milk9111/sentry/nav"
	"github.com/milk9111/sentry/prefabs"
)

const tick = 1.0 / 60

func pt(x, z float64) prefabs.PointSpec {
	return prefabs.PointSpec{X: x, Z: z}
}

func testEnemy() *prefabs.EnemySpec {
	return &prefabs.EnemySpec{
		Name:           "test",
		DetectionRange: 15,
		FieldOfView:    90,
		FireRate:       1,
		MaxHealth:      100,
		MoveSpeed:      3,
		Radius:         0.5,
		TriggerRadius:  4,
		BaseDamage:     10,
	}
}

func openArena() *prefabs.ArenaSpec {
	end := pt(10.5, 5.5)
	return &prefabs.ArenaSpec{
		Name:  "open",
		Grid:  prefabs.GridSpec{Width: 20, Depth: 20, CellSize: 1},
		Start: pt(10.5, 2.5),
		End:   &end,
		Cover: []prefabs.PointSpec{pt(3.5, 2.5)},
		Player: prefabs.PlayerSpec{
			Radius: 0.5,
			Health: 100,
			Route:  []prefabs.PointSpec{pt(10.5, 12.5)},
		},
		Damage: []prefabs.DamageSpec{
			{At: 6, Amount: 40},
			{At: 1, Amount: 60},
		},
	}
}

func TestWorldEngagesRetreatsAndDies(t *testing.T) {
	w, err := New(Options{Enemy: testEnemy(), Arena: openArena(), Logger: zerolog.Nop()})
	require.NoError(t, err)

	w.Run(10, tick)

	tr := w.Transitions()
	require.GreaterOrEqual(t, len(tr), 3)
	assert.Equal(t, enemy.MovingToPoint, tr[0].From)
	assert.Equal(t, enemy.Combat, tr[0].To)
	assert.InDelta(t, tick, tr[0].Time, 1e-9)

	assert.Equal(t, Transition{Time: tr[1].Time, From: enemy.Combat, To: enemy.TakingCover}, tr[1])
	assert.GreaterOrEqual(t, tr[1].Time, 1.0)
	assert.Less(t, tr[1].Time, 1.1)

	assert.Equal(t, enemy.TakingCover, tr[2].From)
	assert.Equal(t, enemy.Combat, tr[2].To)
	assert.Greater(t, tr[2].Time, 2.5)
	assert.Less(t, tr[2].Time, 5.0)

	shots := w.Shots()
	require.GreaterOrEqual(t, len(shots), 3)
	for i, s := range shots {
		assert.Equal(t, 10, s.Damage)
		if i > 0 {
			assert.GreaterOrEqual(t, s.Time-shots[i-1].Time, 1.0-1e-9, "shots %d and %d too close", i-1, i)
		}
	}

	require.True(t, w.Removed())
	assert.InDelta(t, 6, w.DiedAt(), 0.05)
	assert.Less(t, w.Time(), 10.0, "run stops once the enemy is removed")
	assert.True(t, w.Controller().Dead())
	assert.Zero(t, w.Controller().Health())

	snap := w.Snapshot()
	assert.Equal(t, []string{animation.FlagDead}, snap.Flags)
	assert.Equal(t, 100-10*len(shots), snap.PlayerHealth)
	assert.True(t, snap.Removed)

	// Nothing moves the dead enemy's timeline.
	n, s := len(w.Transitions()), len(w.Shots())
	for i := 0; i < 120; i++ {
		w.Step(tick)
	}
	assert.Len(t, w.Transitions(), n)
	assert.Len(t, w.Shots(), s)
}

func TestWorldTriggerTurnsEnemyTowardPlayer(t *testing.T) {
	a := openArena()
	a.Start = pt(10.5, 10.5)
	end := pt(10.5, 10.5)
	a.End = &end
	a.Cover = nil
	a.Damage = nil
	a.Player.Route = []prefabs.PointSpec{pt(10.5, 7.5)}

	spec := testEnemy()
	spec.TriggerRadius = 5
	w, err := New(Options{Enemy: spec, Arena: a, Logger: zerolog.Nop()})
	require.NoError(t, err)

	// The player starts behind the enemy, outside its view cone.
	w.Step(tick)
	assert.Equal(t, enemy.MovingToPoint, w.Controller().State())

	w.Run(3, tick)

	tr := w.Transitions()
	require.Len(t, tr, 2)
	assert.Equal(t, enemy.Idle, tr[0].To)
	assert.Equal(t, enemy.Combat, tr[1].To)
	assert.Equal(t, enemy.Combat, w.Controller().State())

	fwd := w.Snapshot().Forward
	assert.True(t, common.Near(fwd, mgl64.Vec3{0, 0, -1}, 1e-6), "forward %v", fwd)
	assert.NotEmpty(t, w.Shots())
}

func TestWorldWithoutPlayerStaysIdle(t *testing.T) {
	a := openArena()
	a.Player.Route = nil
	a.Damage = nil

	w, err := New(Options{Enemy: testEnemy(), Arena: a, Logger: zerolog.Nop()})
	require.NoError(t, err)
	w.Run(5, tick)

	assert.Equal(t, enemy.Idle, w.Controller().State())
	assert.Empty(t, w.Shots())
	snap := w.Snapshot()
	assert.False(t, snap.HasPlayer)
	assert.True(t, common.Near(snap.Enemy.Position, mgl64.Vec3{10.5, 0, 5.5}, 1e-9))
	assert.True(t, snap.HasDestination)
	assert.Equal(t, mgl64.Vec3{10.5, 0, 5.5}, snap.Destination)
	assert.Empty(t, snap.Path)
}

func TestDefaultArena(t *testing.T) {
	w, err := Load("enemy.yaml", "arena.yaml", zerolog.Nop())
	require.NoError(t, err)

	w.Run(45, tick)

	tr := w.Transitions()
	require.NotEmpty(t, tr)
	assert.Equal(t, Transition{Time: tr[0].Time, From: enemy.MovingToPoint, To: enemy.Idle}, tr[0])

	sawCombat := false
	for _, x := range tr {
		if x.To == enemy.Combat {
			sawCombat = true
		}
	}
	assert.True(t, sawCombat, "timeline %v", tr)

	// Every shot goes through the falloff script and hurts the player.
	shots := w.Shots()
	require.NotEmpty(t, shots)
	total := 0
	for _, s := range shots {
		assert.Positive(t, s.Damage, "shot at %.3fs from %.2f", s.Time, s.Distance)
		total += s.Damage
	}
	assert.Equal(t, max(100-total, 0), w.Snapshot().PlayerHealth)

	// The scheduled damage adds up to more than the enemy's health.
	require.True(t, w.Removed())
	assert.GreaterOrEqual(t, w.DiedAt(), 30.0)
	assert.Less(t, w.DiedAt(), 30.1)
}

func TestNewErrors(t *testing.T) {
	badRate := testEnemy()
	badRate.FireRate = -1

	badGrid := openArena()
	badGrid.Grid.Width = 0

	cases := []struct {
		name   string
		opts   Options
		target error
	}{
		{name: "missing_specs", opts: Options{}, target: ErrMissingSpec},
		{name: "bad_config", opts: Options{Enemy: badRate, Arena: openArena(), Logger: zerolog.Nop()}, target: enemy.ErrInvalidConfig},
		{name: "bad_grid", opts: Options{Enemy: testEnemy(), Arena: badGrid, Logger: zerolog.Nop()}, target: nav.ErrInvalidGrid},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(c.opts)
			assert.ErrorIs(t, err, c.target)
		})
	}

	t.Run("bad_script", func(t *testing.T) {
		_, err := New(Options{Enemy: testEnemy(), Arena: openArena(), FireScript: []byte("damage = ("), Logger: zerolog.Nop()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "script: compile")
	})
}

func TestPlayerRoute(t *testing.T) {
	cases := []struct {
		name  string
		loop  bool
		steps int
		want  mgl64.Vec3
	}{
		{name: "midway", steps: 1, want: mgl64.Vec3{1, 0, 0}},
		{name: "turns_corner", steps: 3, want: mgl64.Vec3{2, 0, 1}},
		{name: "stops_at_end", steps: 10, want: mgl64.Vec3{2, 0, 2}},
		{name: "loops_back", loop: true, steps: 5, want: mgl64.Vec3{2 - math.Sqrt2/2, 0, 2 - math.Sqrt2/2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := newPlayer(prefabs.PlayerSpec{
				Speed: 1,
				Loop:  c.loop,
				Route: []prefabs.PointSpec{pt(0, 0), pt(2, 0), pt(2, 2)},
			})
			for i := 0; i < c.steps; i++ {
				p.step(1)
			}
			assert.True(t, common.Near(p.Position(), c.want, 1e-9), "got %v", p.Position())
		})
	}
}

func TestPlayerRouteOfRepeatedPoints(t *testing.T) {
	p := newPlayer(prefabs.PlayerSpec{
		Speed: 1,
		Loop:  true,
		Route: []prefabs.PointSpec{pt(1, 1), pt(1, 1)},
	})
	p.step(1)
	assert.Equal(t, mgl64.Vec3{1, 0, 1}, p.Position())
}

func TestPlayback(t *testing.T) {
	cases := []struct {
		name  string
		start float64
		ops   []func(*Playback)
		speed float64
	}{
		{name: "clamps_start", start: 100, speed: MaxSpeed},
		{name: "clamps_zero_start", start: 0, speed: MinSpeed},
		{name: "faster", start: 1, ops: []func(*Playback){(*Playback).Faster, (*Playback).Faster}, speed: 4},
		{name: "faster_caps", start: 4, ops: []func(*Playback){(*Playback).Faster, (*Playback).Faster}, speed: MaxSpeed},
		{name: "slower_floors", start: 0.25, ops: []func(*Playback){(*Playback).Slower, (*Playback).Slower}, speed: MinSpeed},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := NewPlayback(c.start)
			for _, op := range c.ops {
				op(p)
			}
			assert.Equal(t, c.speed, p.Speed)
		})
	}
}

func TestPlaybackAdvance(t *testing.T) {
	w, err := New(Options{Enemy: testEnemy(), Arena: openArena(), Logger: zerolog.Nop()})
	require.NoError(t, err)

	p := NewPlayback(2)
	p.Advance(w, tick)
	assert.InDelta(t, 2*tick, w.Time(), 1e-12)

	p.TogglePause()
	p.Advance(w, tick)
	assert.InDelta(t, 2*tick, w.Time(), 1e-12)

	p.TogglePause()
	p.Slower()
	p.Advance(w, tick)
	assert.InDelta(t, 3*tick, w.Time(), 1e-12)
}
