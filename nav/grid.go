package nav

import (
	"container/heap"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidGrid = errors.New("nav: invalid grid")

// Grid is a walkability grid laid over the XZ plane. Cell (0,0) starts at
// Origin and cells grow toward +X and +Z.
type Grid struct {
	Width    int
	Depth    int
	CellSize float64
	Origin   mgl64.Vec3

	blocked []bool
}

type gridPos struct {
	x int
	z int
}

func NewGrid(width, depth int, cellSize float64, origin mgl64.Vec3) (*Grid, error) {
	if width <= 0 || depth <= 0 || cellSize <= 0 {
		return nil, fmt.Errorf("%w: %dx%d cells of size %v", ErrInvalidGrid, width, depth, cellSize)
	}
	return &Grid{
		Width:    width,
		Depth:    depth,
		CellSize: cellSize,
		Origin:   origin,
		blocked:  make([]bool, width*depth),
	}, nil
}

// Block marks every cell touched by the world-space rectangle as not
// walkable.
func (g *Grid) Block(minX, minZ, maxX, maxZ float64) {
	if g == nil {
		return
	}
	startX := int(math.Floor((minX - g.Origin.X()) / g.CellSize))
	startZ := int(math.Floor((minZ - g.Origin.Z()) / g.CellSize))
	endX := int(math.Floor((maxX - g.Origin.X() - 0.001) / g.CellSize))
	endZ := int(math.Floor((maxZ - g.Origin.Z() - 0.001) / g.CellSize))

	startX = max(startX, 0)
	startZ = max(startZ, 0)
	endX = min(endX, g.Width-1)
	endZ = min(endZ, g.Depth-1)

	for z := startZ; z <= endZ; z++ {
		for x := startX; x <= endX; x++ {
			g.blocked[z*g.Width+x] = true
		}
	}
}

// Blocked reports whether the cell at x, z is unwalkable. Cells outside the
// grid count as blocked.
func (g *Grid) Blocked(x, z int) bool {
	if x < 0 || z < 0 || x >= g.Width || z >= g.Depth {
		return true
	}
	return g.blocked[z*g.Width+x]
}

// Walkable reports whether p falls on a walkable cell.
func (g *Grid) Walkable(p mgl64.Vec3) bool {
	c, ok := g.cell(p)
	return ok && !g.Blocked(c.x, c.z)
}

func (g *Grid) cell(p mgl64.Vec3) (gridPos, bool) {
	x := int(math.Floor((p.X() - g.Origin.X()) / g.CellSize))
	z := int(math.Floor((p.Z() - g.Origin.Z()) / g.CellSize))
	if x < 0 || z < 0 || x >= g.Width || z >= g.Depth {
		return gridPos{}, false
	}
	return gridPos{x: x, z: z}, true
}

func (g *Grid) center(c gridPos, y float64) mgl64.Vec3 {
	half := g.CellSize * 0.5
	return mgl64.Vec3{
		g.Origin.X() + float64(c.x)*g.CellSize + half,
		y,
		g.Origin.Z() + float64(c.z)*g.CellSize + half,
	}
}

// FindPath returns waypoints from `from` to `to`, ending exactly at `to`.
// The starting cell is not part of the result. ok is false when `to` is off
// the grid, blocked, or cut off from `from`.
func (g *Grid) FindPath(from, to mgl64.Vec3) (path []mgl64.Vec3, ok bool) {
	goal, ok := g.cell(to)
	if !ok || g.Blocked(goal.x, goal.z) {
		return nil, false
	}
	start, ok := g.cell(from)
	if !ok {
		return nil, false
	}

	cells := g.astar(start, goal)
	if cells == nil {
		return nil, false
	}

	out := make([]mgl64.Vec3, 0, len(cells))
	for _, c := range cells[1:] {
		out = append(out, g.center(c, to.Y()))
	}
	if len(out) == 0 {
		return []mgl64.Vec3{to}, true
	}
	out[len(out)-1] = to
	return out, true
}

func (g *Grid) astar(start, goal gridPos) []gridPos {
	n := g.Width * g.Depth
	cameFrom := make([]int, n)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]float64, n)
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}

	startIdx := start.z*g.Width + start.x
	goalIdx := goal.z*g.Width + goal.x
	gScore[startIdx] = 0

	open := &openSet{}
	heap.Init(open)
	heap.Push(open, &openItem{pos: start, f: heuristic(start, goal)})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*openItem).pos
		curIdx := cur.z*g.Width + cur.x
		if curIdx == goalIdx {
			return reconstructPath(cameFrom, g.Width, startIdx, goalIdx)
		}

		for _, nb := range g.neighbors(cur) {
			idx := nb.z*g.Width + nb.x
			tentative := gScore[curIdx] + 1
			if tentative < gScore[idx] {
				cameFrom[idx] = curIdx
				gScore[idx] = tentative
				heap.Push(open, &openItem{pos: nb, f: tentative + heuristic(nb, goal)})
			}
		}
	}
	return nil
}

func (g *Grid) neighbors(p gridPos) []gridPos {
	out := make([]gridPos, 0, 4)
	for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		nx, nz := p.x+d[0], p.z+d[1]
		if g.Blocked(nx, nz) {
			continue
		}
		out = append(out, gridPos{x: nx, z: nz})
	}
	return out
}

func reconstructPath(cameFrom []int, width, startIdx, goalIdx int) []gridPos {
	if startIdx == goalIdx {
		return []gridPos{{x: startIdx % width, z: startIdx / width}}
	}
	if cameFrom[goalIdx] == -1 {
		return nil
	}

	path := make([]gridPos, 0, 32)
	for cur := goalIdx; cur != -1; cur = cameFrom[cur] {
		path = append(path, gridPos{x: cur % width, z: cur / width})
		if cur == startIdx {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func heuristic(a, b gridPos) float64 {
	return math.Abs(float64(a.x-b.x)) + math.Abs(float64(a.z-b.z))
}

type openItem struct {
	pos   gridPos
	f     float64
	index int
}

type openSet []*openItem

func (o openSet) Len() int           { return len(o) }
func (o openSet) Less(i, j int) bool { return o[i].f < o[j].f }
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
