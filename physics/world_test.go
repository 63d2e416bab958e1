package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/sentry/enemy"
)

const (
	enemyID  enemy.EntityID = 1
	playerID enemy.EntityID = 2
	wallID   enemy.EntityID = 3
)

func TestRaycast(t *testing.T) {
	cases := []struct {
		name     string
		wall     bool
		dir      mgl64.Vec3
		maxDist  float64
		wantHit  bool
		wantID   enemy.EntityID
		wantDist float64
	}{
		{name: "player_in_clear", dir: mgl64.Vec3{0, 0, 1}, maxDist: 15, wantHit: true, wantID: playerID, wantDist: 9.5},
		{name: "wall_in_front", wall: true, dir: mgl64.Vec3{0, 0, 1}, maxDist: 15, wantHit: true, wantID: wallID, wantDist: 4},
		{name: "out_of_range", dir: mgl64.Vec3{0, 0, 1}, maxDist: 5, wantHit: false},
		{name: "pointing_away", dir: mgl64.Vec3{0, 0, -1}, maxDist: 15, wantHit: false},
		{name: "straight_up", dir: mgl64.Vec3{0, 1, 0}, maxDist: 15, wantHit: false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld(zerolog.Nop())
			w.AddEnemy(enemyID, mgl64.Vec3{}, 0.5, 3, nil)
			w.AddPlayer(playerID, mgl64.Vec3{0, 0, 10}, 0.5)
			if c.wall {
				w.AddObstacle(wallID, -2, 4, 2, 5)
			}
			w.Step(1.0 / 60)

			hit, ok := w.Raycaster(enemyID).Raycast(mgl64.Vec3{0, 1, 0}, c.dir, c.maxDist)
			require.Equal(t, c.wantHit, ok)
			if !ok {
				return
			}
			assert.Equal(t, c.wantID, hit.Entity)
			assert.InDelta(t, c.wantDist, hit.Distance, 1e-6)
		})
	}
}

func TestRaycastSkipsOwnShapes(t *testing.T) {
	w := NewWorld(zerolog.Nop())
	w.AddEnemy(enemyID, mgl64.Vec3{}, 0.5, 3, nil)
	w.AddPlayer(playerID, mgl64.Vec3{0, 0, 10}, 0.5)
	w.Step(1.0 / 60)

	// Another caster sees the enemy body first.
	hit, ok := w.Raycaster(wallID).Raycast(mgl64.Vec3{0, 0, -5}, mgl64.Vec3{0, 0, 1}, 20)
	require.True(t, ok)
	assert.Equal(t, enemyID, hit.Entity)

	hit, ok = w.Raycaster(enemyID).Raycast(mgl64.Vec3{0, 0, -5}, mgl64.Vec3{0, 0, 1}, 20)
	require.True(t, ok)
	assert.Equal(t, playerID, hit.Entity)
}

func TestTriggerOverlap(t *testing.T) {
	w := NewWorld(zerolog.Nop())
	var got []enemy.Overlap
	var deltas []float64
	w.AddEnemy(enemyID, mgl64.Vec3{}, 0.5, 3, func(o enemy.Overlap, dt float64) {
		got = append(got, o)
		deltas = append(deltas, dt)
	})
	w.AddPlayer(playerID, mgl64.Vec3{0, 0, 10}, 0.5)

	w.Step(0.1)
	assert.Empty(t, got, "player outside the trigger")

	w.SetPosition(playerID, mgl64.Vec3{0, 0, 2})
	for i := 0; i < 3; i++ {
		w.Step(0.1)
	}
	require.NotEmpty(t, got)
	for _, o := range got {
		assert.Equal(t, enemy.Overlap{Entity: playerID, Tag: enemy.PlayerTag}, o)
	}
	assert.InDelta(t, 0.1, deltas[0], 1e-12)

	// Player and enemy bodies do not push each other.
	w.SetPosition(playerID, mgl64.Vec3{0.2, 0, 0})
	w.Step(0.1)
	pos, ok := w.Position(playerID, 0)
	require.True(t, ok)
	assert.InDelta(t, 0.2, pos.X(), 1e-9)
	assert.InDelta(t, 0, pos.Z(), 1e-9)

	n := len(got)
	w.SetPosition(playerID, mgl64.Vec3{0, 0, 10})
	w.Step(0.1)
	w.Step(0.1)
	assert.Len(t, got, n, "no overlaps after leaving")
}

func TestRemove(t *testing.T) {
	w := NewWorld(zerolog.Nop())
	w.AddEnemy(enemyID, mgl64.Vec3{}, 0.5, 3, nil)
	w.AddPlayer(playerID, mgl64.Vec3{0, 0, 10}, 0.5)
	w.Step(1.0 / 60)

	w.Remove(enemyID)
	w.Step(1.0 / 60)
	_, ok := w.Position(enemyID, 0)
	assert.False(t, ok)
	assert.Empty(t, w.Tag(enemyID))

	hit, ok := w.Raycaster(wallID).Raycast(mgl64.Vec3{0, 0, -5}, mgl64.Vec3{0, 0, 1}, 20)
	require.True(t, ok)
	assert.Equal(t, playerID, hit.Entity)
}
