package enemy

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/sentry/common"
)

func TestOnOverlapFacesPlayerHorizontally(t *testing.T) {
	cases := []struct {
		name      string
		player    mgl64.Vec3
		delta     float64
		wantAngle float64 // degrees turned away from +Z
	}{
		{"full_turn", mgl64.Vec3{10, 0, 0}, 1, 90},
		{"player_above", mgl64.Vec3{10, 6, 0}, 1, 90},
		{"partial_turn", mgl64.Vec3{10, 0, 0}, 0.05, 22.5},
		{"no_time", mgl64.Vec3{10, 0, 0}, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig()
			r.player.pos = tc.player
			c, err := r.build(DefaultConfig(), r.refs())
			require.NoError(t, err)

			c.OnOverlap(Overlap{Entity: testPlayer, Tag: PlayerTag}, Frame{Time: 1, Delta: tc.delta})

			fwd := common.Forward(r.body.rot)
			assert.InDelta(t, 0, fwd.Y(), 1e-12, "pitch must stay level")
			assert.InDelta(t, tc.wantAngle, common.Angle(mgl64.Vec3{0, 0, 1}, fwd), 1e-6)
		})
	}
}

func TestOnOverlapIgnoresOtherTags(t *testing.T) {
	r := newRig()
	r.player.pos = mgl64.Vec3{10, 0, 0}
	c, err := r.build(DefaultConfig(), r.refs())
	require.NoError(t, err)

	c.OnOverlap(Overlap{Entity: testWall, Tag: "Wall"}, Frame{Time: 1, Delta: 1})
	assert.Equal(t, mgl64.QuatIdent(), r.body.rot)
}

func TestOnOverlapRunsInAnyState(t *testing.T) {
	r := newRig()
	c := enterCombat(t, r, DefaultConfig(), r.refs())
	c.ApplyDamage(60)
	c.Update(Frame{Time: 1, Delta: 0.1})
	require.Equal(t, TakingCover, c.State())

	r.player.pos = mgl64.Vec3{-10, 0, 0}
	c.OnOverlap(Overlap{Entity: testPlayer, Tag: PlayerTag}, Frame{Time: 1.1, Delta: 1})
	fwd := common.Forward(r.body.rot)
	assert.True(t, common.Near(fwd, mgl64.Vec3{-1, 0, 0}, 1e-9), "forward %v", fwd)
	assert.Equal(t, TakingCover, c.State())
}

func TestOnOverlapWithPlayerOverheadKeepsRotation(t *testing.T) {
	r := newRig()
	r.player.pos = mgl64.Vec3{0, 4, 0}
	c, err := r.build(DefaultConfig(), r.refs())
	require.NoError(t, err)

	c.OnOverlap(Overlap{Entity: testPlayer, Tag: PlayerTag}, Frame{Time: 1, Delta: 1})
	assert.Equal(t, mgl64.QuatIdent(), r.body.rot)
}

func TestGizmo(t *testing.T) {
	r := newRig()
	c, err := r.build(DefaultConfig(), r.refs())
	require.NoError(t, err)

	g := c.Gizmo()
	assert.Equal(t, 15.0, g.Radius)
	assert.Equal(t, MovingToPoint, g.State)
	assert.Equal(t, 100, g.Health)
	assert.InDelta(t, 45, common.Angle(mgl64.Vec3{0, 0, 1}, g.Left), 1e-9)
	assert.InDelta(t, 45, common.Angle(mgl64.Vec3{0, 0, 1}, g.Right), 1e-9)
	assert.InDelta(t, 15, g.Left.Len(), 1e-9)
	assert.Less(t, g.Left.X(), 0.0)
	assert.Greater(t, g.Right.X(), 0.0)
}
