package entity

import (
	"fmt"
	"slices"
)

type Position struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

// Manhattan 曼哈顿距离，地点间距与路网连边都用它。
func (p Position) Manhattan(o Position) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Cell 只由 WorldGrid 持有，只由坍缩与传播修改。
//
// 不变式：非冲突状态下 Possibilities 非空；Collapsed 后 Possibilities == [Terrain]。
type Cell struct {
	Pos           Position
	Possibilities []TerrainID
	Collapsed     bool
	Terrain       TerrainID
}

func (c *Cell) Entropy() int {
	return len(c.Possibilities)
}

func (c *Cell) Has(id TerrainID) bool {
	return slices.Contains(c.Possibilities, id)
}

// Collapse 把格子定为 id。调用方保证 id 在候选集内。
func (c *Cell) Collapse(id TerrainID) {
	c.Possibilities = []TerrainID{id}
	c.Terrain = id
	c.Collapsed = true
}

// Restrict 将候选集覆盖为单一地形但不标记坍缩（模板预置用）。
func (c *Cell) Restrict(id TerrainID) {
	c.Possibilities = []TerrainID{id}
	c.Collapsed = false
	c.Terrain = ""
}

type WorldGrid struct {
	Width  int
	Height int
	Cells  [][]*Cell // [y][x]
}

// neighborOffsets 固定顺序：左、右、上、下。顺序决定传播工作队列顺序。
var neighborOffsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// NewWorldGrid 所有格子的候选集为全部地形；尺寸或地形数 <= 0 返回错误。
func NewWorldGrid(width, height int, catalogs *Catalogs) (*WorldGrid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid size must be positive, got %dx%d", width, height)
	}
	if catalogs == nil || len(catalogs.Terrains) == 0 {
		return nil, fmt.Errorf("terrain catalog is empty")
	}
	all := catalogs.TerrainIDs()
	g := &WorldGrid{Width: width, Height: height, Cells: make([][]*Cell, height)}
	for y := 0; y < height; y++ {
		g.Cells[y] = make([]*Cell, width)
		for x := 0; x < width; x++ {
			g.Cells[y][x] = &Cell{
				Pos:           Position{X: x, Y: y},
				Possibilities: slices.Clone(all),
			}
		}
	}
	return g, nil
}

func (g *WorldGrid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Cell 越界返回 nil。
func (g *WorldGrid) Cell(x, y int) *Cell {
	if !g.InBounds(x, y) {
		return nil
	}
	return g.Cells[y][x]
}

// Neighbors 返回最多 4 个在界内的轴向邻居。
func (g *WorldGrid) Neighbors(x, y int) []*Cell {
	out := make([]*Cell, 0, 4)
	for _, d := range neighborOffsets {
		if c := g.Cell(x+d[0], y+d[1]); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (g *WorldGrid) IsComplete() bool {
	for _, row := range g.Cells {
		for _, c := range row {
			if !c.Collapsed {
				return false
			}
		}
	}
	return true
}

func (g *WorldGrid) CollapsedCount() int {
	n := 0
	for _, row := range g.Cells {
		for _, c := range row {
			if c.Collapsed {
				n++
			}
		}
	}
	return n
}

// Terrain 导出纯生成结果：每格一个地形 id，未坍缩为空串。
func (g *WorldGrid) Terrain() [][]TerrainID {
	out := make([][]TerrainID, g.Height)
	for y, row := range g.Cells {
		out[y] = make([]TerrainID, g.Width)
		for x, c := range row {
			if c.Collapsed {
				out[y][x] = c.Terrain
			}
		}
	}
	return out
}

// IntPicker 最小随机源：返回 [0,n) 的整数。
type IntPicker interface {
	IntN(n int) int
}

// SelectLowestEntropyCell 在未坍缩格中找最小熵；并列时用 rng 均匀选取。全部坍缩返回 false。
func (g *WorldGrid) SelectLowestEntropyCell(rng IntPicker) (*Cell, bool) {
	minEntropy := -1
	var candidates []*Cell
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.Cells[y][x]
			if c.Collapsed {
				continue
			}
			e := c.Entropy()
			switch {
			case minEntropy < 0 || e < minEntropy:
				minEntropy = e
				candidates = append(candidates[:0], c)
			case e == minEntropy:
				candidates = append(candidates, c)
			}
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}
	return candidates[rng.IntN(len(candidates))], true
}
