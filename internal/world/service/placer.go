package service

import (
	"cmp"
	"slices"

	"Wayfarer/internal/world/entity"

	"github.com/zyedidia/generic/mapset"
)

// MinLocationSpacing 任意两个地点的最小曼哈顿距离。
const MinLocationSpacing = 3

// PlaceLocations 在完全坍缩的网格上放置地点，尽力而为：某类地点没有合法格就跳过，放置 0 个也不算失败。
//
// 放置顺序按"合法格数量"升序（稀缺的先放），数量在任何放置之前计算，数量相同保持目录顺序。
func PlaceLocations(g *entity.WorldGrid, kinds []entity.LocationKind, rng RandomSource) []entity.PlacedLocation {
	pool := make([]entity.Position, 0, g.Width*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			pool = append(pool, entity.Position{X: x, Y: y})
		}
	}

	counts := make([]int, len(kinds))
	for i, k := range kinds {
		counts[i] = len(validSpots(g, pool, nil, k, nil))
	}
	order := make([]int, len(kinds))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(counts[a], counts[b])
	})

	taken := mapset.New[entity.Position]()
	var placed []entity.PlacedLocation
	for _, i := range order {
		spots := validSpots(g, pool, &taken, kinds[i], placed)
		if len(spots) == 0 {
			continue
		}
		pick := spots[rng.IntN(len(spots))]
		placed = append(placed, entity.PlacedLocation{Pos: pick, Kind: kinds[i].ID})
		taken.Put(pick)
	}
	return placed
}

func validSpots(g *entity.WorldGrid, pool []entity.Position, taken *mapset.Set[entity.Position], kind entity.LocationKind, placed []entity.PlacedLocation) []entity.Position {
	var out []entity.Position
	for _, p := range pool {
		if taken != nil && taken.Has(p) {
			continue
		}
		if IsValidLocationSpot(g, p, kind, placed) {
			out = append(out, p)
		}
	}
	return out
}

// IsValidLocationSpot 三条规则：
//  1. 地形在允许集合内（未配置则不限）
//  2. 要求的相邻地形都出现在已坍缩邻居里
//  3. 与所有已放置地点的曼哈顿距离 >= MinLocationSpacing
func IsValidLocationSpot(g *entity.WorldGrid, p entity.Position, kind entity.LocationKind, placed []entity.PlacedLocation) bool {
	cell := g.Cell(p.X, p.Y)
	if cell == nil {
		return false
	}
	if len(kind.AllowedTerrain) > 0 && !slices.Contains(kind.AllowedTerrain, cell.Terrain) {
		return false
	}
	if len(kind.RequiredAdjacent) > 0 {
		around := mapset.New[entity.TerrainID]()
		for _, n := range g.Neighbors(p.X, p.Y) {
			if n.Collapsed {
				around.Put(n.Terrain)
			}
		}
		for _, req := range kind.RequiredAdjacent {
			if !around.Has(req) {
				return false
			}
		}
	}
	for _, pl := range placed {
		if p.Manhattan(pl.Pos) < MinLocationSpacing {
			return false
		}
	}
	return true
}
