package service

import (
	"testing"

	"Wayfarer/internal/world/entity"
)

// scriptRNG 按脚本依次吐数；脚本用完后 Float64 返回 0，IntN 返回 0。
type scriptRNG struct {
	floats []float64
	ints   []int
}

func (r *scriptRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptRNG) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	if v >= n {
		return n - 1
	}
	return v
}

// lastRNG 总是取最后一个候选。
type lastRNG struct{}

func (lastRNG) Float64() float64 { return 0.999 }
func (lastRNG) IntN(n int) int   { return n - 1 }

func mustCatalogs(t *testing.T, terrains []entity.TerrainKind, locations []entity.LocationKind, templates []entity.Template) *entity.Catalogs {
	t.Helper()
	c, err := entity.NewCatalogs(terrains, locations, templates)
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	return c
}

func abCatalogs(t *testing.T) *entity.Catalogs {
	return mustCatalogs(t, []entity.TerrainKind{
		{ID: "A", Weight: 10, Adjacent: []entity.TerrainID{"A", "B"}},
		{ID: "B", Weight: 10, Adjacent: []entity.TerrainID{"A", "B"}},
	}, nil, nil)
}

// chainTerrains 对称链 A-B-C：A 与 C 不能相邻。
func chainTerrains() []entity.TerrainKind {
	return []entity.TerrainKind{
		{ID: "A", Label: "Lowlands", Weight: 5, Adjacent: []entity.TerrainID{"A", "B"}},
		{ID: "B", Label: "Hills", Weight: 3, Adjacent: []entity.TerrainID{"A", "B", "C"}},
		{ID: "C", Label: "Peaks", Weight: 2, Adjacent: []entity.TerrainID{"B", "C"}},
	}
}

func fantasyLikeCatalogs(t *testing.T) *entity.Catalogs {
	return mustCatalogs(t, []entity.TerrainKind{
		{ID: "spire", Label: "Ancient Peaks", Weight: 12, Adjacent: []entity.TerrainID{"spire", "forest", "barrens"}},
		{ID: "forest", Label: "Whispering Woods", Weight: 30, Adjacent: []entity.TerrainID{"forest", "meadow", "spire", "water", "barrens"}},
		{ID: "meadow", Label: "Sunlit Glades", Weight: 20, Adjacent: []entity.TerrainID{"meadow", "forest", "water", "barrens"}},
		{ID: "water", Label: "Glass Rivers", Weight: 18, Adjacent: []entity.TerrainID{"water", "meadow", "forest", "barrens"}},
		{ID: "barrens", Label: "Cursed Lands", Weight: 1, Adjacent: []entity.TerrainID{"barrens", "meadow", "spire", "forest", "water"}},
	}, []entity.LocationKind{
		{ID: "cottage", Label: "Hermit's Cottage", AllowedTerrain: []entity.TerrainID{"forest"}, RequiredAdjacent: []entity.TerrainID{"meadow"}},
		{ID: "grove", Label: "Sacred Grove", AllowedTerrain: []entity.TerrainID{"forest"}},
		{ID: "wharf", Label: "River Wharf", AllowedTerrain: []entity.TerrainID{"meadow"}, RequiredAdjacent: []entity.TerrainID{"water"}},
	}, []entity.Template{
		{ID: "river_flow", Weight: 4, Placement: entity.PlacementAny, Pattern: [][]entity.TerrainID{
			{"", "meadow", "water", "meadow", ""},
			{"forest", "forest", "water", "forest", "forest"},
		}},
	})
}

func fullyCollapsed(t *testing.T, c *entity.Catalogs, rows [][]entity.TerrainID) *entity.WorldGrid {
	t.Helper()
	g, err := entity.NewWorldGrid(len(rows[0]), len(rows), c)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	for y, row := range rows {
		for x, id := range row {
			g.Cell(x, y).Collapse(id)
		}
	}
	return g
}
