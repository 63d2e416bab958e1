package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"
	"golang.org/x/image/colornames"

	"github.com/milk9111/sentry/config"
	"github.com/milk9111/sentry/enemy"
	"github.com/milk9111/sentry/prefabs"
	"github.com/milk9111/sentry/sim"
)

const (
	margin    = 16
	hudHeight = 64
)

var stateColors = map[enemy.State]color.Color{
	enemy.MovingToPoint: colornames.Skyblue,
	enemy.Idle:          colornames.Khaki,
	enemy.Combat:        colornames.Orangered,
	enemy.TakingCover:   colornames.Mediumpurple,
}

// Game is a top-down debug view of one simulated arena. Playback is driven
// from the control bar or its keyboard shortcuts (Space, R, arrow keys).
type Game struct {
	settings config.Settings
	logger   zerolog.Logger

	world    *sim.World
	watcher  *prefabs.Watcher
	controls *controls
	err      error
	playback *sim.Playback
}

func NewGame(settings config.Settings, logger zerolog.Logger) (*Game, error) {
	g := &Game{
		settings: settings,
		logger:   logger.With().Str("component", "viewer").Logger(),
		playback: sim.NewPlayback(settings.Viewer.Speed),
	}
	if err := g.reload(); err != nil {
		return nil, err
	}
	c, err := newControls(g)
	if err != nil {
		return nil, err
	}
	g.controls = c
	if settings.Watch {
		w, err := prefabs.NewWatcher()
		if err != nil {
			g.logger.Warn().Err(err).Msg("hot reload disabled")
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) reload() error {
	w, err := sim.Load(g.settings.EnemyPrefab, g.settings.ArenaPrefab, g.logger)
	if err != nil {
		return err
	}
	g.world = w
	g.err = nil
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case ch := <-g.watcher.Events:
			g.logger.Info().Str("file", ch.Path).Msg("prefab changed, reloading")
			if err := g.reload(); err != nil {
				// Keep showing the last good world until the file is fixed.
				g.err = err
				g.logger.Error().Err(err).Msg("reload failed")
			}
		case err := <-g.watcher.Errors:
			g.logger.Warn().Err(err).Msg("watcher error")
		default:
			return
		}
	}
}

func (g *Game) togglePause() {
	g.playback.TogglePause()
	g.syncControls()
}

func (g *Game) restart() {
	if err := g.reload(); err != nil {
		g.err = err
	}
}

func (g *Game) faster() {
	g.playback.Faster()
	g.syncControls()
}

func (g *Game) slower() {
	g.playback.Slower()
	g.syncControls()
}

func (g *Game) syncControls() {
	g.controls.sync(g.playback.Paused, g.playback.Speed)
}

func (g *Game) Update() error {
	g.pollWatcher()
	g.controls.ui.Update()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.togglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.restart()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.faster()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.slower()
	}

	g.playback.Advance(g.world, g.settings.Tick())
	return nil
}

// toScreen maps world XZ onto screen XY.
func (g *Game) toScreen(p mgl64.Vec3) (float32, float32) {
	origin := g.world.Arena().Grid.Origin
	s := g.settings.Viewer.Scale
	return float32(margin + (p.X()-origin.X)*s), float32(margin + (p.Z()-origin.Z)*s)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkslategray)

	arena := g.world.Arena()
	scale := float32(g.settings.Viewer.Scale)

	gw := float32(float64(arena.Grid.Width) * arena.Grid.CellSize)
	gd := float32(float64(arena.Grid.Depth) * arena.Grid.CellSize)
	x0, y0 := g.toScreen(arena.Grid.Origin.Vec())
	vector.StrokeRect(screen, x0, y0, gw*scale, gd*scale, 1, colornames.Gray, false)

	for _, o := range arena.Obstacles {
		var clr color.Color = colornames.Dimgray
		if o.Color != nil {
			clr = o.Color.Color
		}
		x, y := g.toScreen(mgl64.Vec3{o.MinX, 0, o.MinZ})
		vector.FillRect(screen, x, y, float32(o.MaxX-o.MinX)*scale, float32(o.MaxZ-o.MinZ)*scale, clr, false)
	}

	for _, c := range arena.Cover {
		x, y := g.toScreen(c.Vec())
		vector.StrokeCircle(screen, x, y, 0.4*scale, 2, colornames.Limegreen, true)
	}
	if arena.End != nil {
		x, y := g.toScreen(arena.End.Vec())
		vector.StrokeRect(screen, x-0.3*scale, y-0.3*scale, 0.6*scale, 0.6*scale, 1, colornames.White, false)
	}

	snap := g.world.Snapshot()
	g.drawEnemy(screen, snap, scale)

	if snap.HasPlayer {
		x, y := g.toScreen(snap.Player)
		vector.FillCircle(screen, x, y, float32(arena.Player.Radius)*scale, colornames.Dodgerblue, true)
	}

	g.drawHUD(screen, snap)
	g.controls.ui.Draw(screen)
}

func (g *Game) drawEnemy(screen *ebiten.Image, snap sim.Snapshot, scale float32) {
	giz := snap.Enemy
	ex, ey := g.toScreen(giz.Position)

	if snap.Removed {
		vector.StrokeLine(screen, ex-6, ey-6, ex+6, ey+6, 2, colornames.Red, true)
		vector.StrokeLine(screen, ex-6, ey+6, ex+6, ey-6, 2, colornames.Red, true)
		return
	}

	if snap.HasDestination {
		dx, dy := g.toScreen(snap.Destination)
		vector.StrokeCircle(screen, dx, dy, 0.25*scale, 1, colornames.Lightgray, true)
	}
	if len(snap.Path) > 0 {
		px, py := ex, ey
		for _, wp := range snap.Path {
			x, y := g.toScreen(wp)
			vector.StrokeLine(screen, px, py, x, y, 1, colornames.Lightgray, true)
			px, py = x, y
		}
	}

	// Perception gizmo: detection radius and the edges of the view cone.
	vector.StrokeCircle(screen, ex, ey, float32(giz.Radius)*scale, 1, colornames.Yellow, true)
	lx, ly := g.toScreen(giz.Position.Add(giz.Left))
	rx, ry := g.toScreen(giz.Position.Add(giz.Right))
	vector.StrokeLine(screen, ex, ey, lx, ly, 1, colornames.Yellow, true)
	vector.StrokeLine(screen, ex, ey, rx, ry, 1, colornames.Yellow, true)

	clr, ok := stateColors[giz.State]
	if !ok {
		clr = colornames.White
	}
	vector.FillCircle(screen, ex, ey, 0.5*scale, clr, true)
	fx, fy := g.toScreen(giz.Position.Add(snap.Forward))
	vector.StrokeLine(screen, ex, ey, fx, fy, 2, colornames.Black, true)
}

func (g *Game) drawHUD(screen *ebiten.Image, snap sim.Snapshot) {
	giz := snap.Enemy
	_, h := g.LayoutF(0, 0)

	lines := []string{
		fmt.Sprintf("t=%.2fs  %s  FPS %.0f%s", snap.Time, speedLabel(g.playback.Speed), ebiten.ActualFPS(), pausedLabel(g.playback.Paused)),
		fmt.Sprintf("enemy %s  health %d  anim [%s]", giz.State, giz.Health, strings.Join(snap.Flags, ",")),
		fmt.Sprintf("player health %d  shots %d", snap.PlayerHealth, len(g.world.Shots())),
	}
	if g.err != nil {
		lines = append(lines, "reload: "+g.err.Error())
	}
	ebitenutil.DebugPrintAt(screen, strings.Join(lines, "\n"), margin, int(h)-hudHeight-controlsHeight)
}

func pausedLabel(paused bool) string {
	if paused {
		return "  [paused]"
	}
	return ""
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	grid := g.world.Arena().Grid
	s := g.settings.Viewer.Scale
	w := float64(grid.Width)*grid.CellSize*s + 2*margin
	h := float64(grid.Depth)*grid.CellSize*s + 2*margin + hudHeight + controlsHeight
	return w, h
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
