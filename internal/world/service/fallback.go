package service

import "Wayfarer/internal/world/entity"

const (
	DefaultFallbackMinLocations = 5
	DefaultFallbackMaxLocations = 8
)

// FallbackOptions 兜底布局的地点数量区间。
type FallbackOptions struct {
	MinLocations int
	MaxLocations int
}

// lcg 兜底布局专用的线性同余序列，与生成随机流无关。
type lcg struct {
	s int64
}

func newLCG(seed int64) *lcg {
	s := seed % 233280
	if s < 0 {
		s = -s
	}
	return &lcg{s: s}
}

func (l *lcg) next() float64 {
	l.s = (l.s*9301 + 49297) % 233280
	return float64(l.s) / 233280
}

func (l *lcg) intN(n int) int {
	if n <= 0 {
		return 0
	}
	return int(l.next() * float64(n))
}

// tierBand 距离档位对应的到中心曼哈顿距离区间。
func tierBand(tier int) (lo, hi int) {
	switch tier {
	case 1:
		return 1, 2
	case 2:
		return 3, 4
	case 3:
		return 5, 7
	case 4:
		return 8, 10
	}
	return 2, 4
}

// FallbackLayout 重启耗尽后的确定性布局，不走 WFC。
//
// 地形整图填充权重最大的地形；第一个地点放在中心，其余地点洗牌后按距离档位落在离中心的环带里，
// 环带内没有空格时取行优先的第一个空格。结果同样经过 BuildConnectivity 保证连通。
func FallbackLayout(catalogs *entity.Catalogs, width, height int, seed int64, opts FallbackOptions) (*Result, error) {
	if width <= 0 || height <= 0 || catalogs == nil || len(catalogs.Terrains) == 0 {
		return nil, ErrConfiguration.WithData("width", width).WithData("height", height)
	}
	if opts.MinLocations <= 0 {
		opts.MinLocations = DefaultFallbackMinLocations
	}
	if opts.MaxLocations < opts.MinLocations {
		opts.MaxLocations = max(DefaultFallbackMaxLocations, opts.MinLocations)
	}

	heaviest := catalogs.Terrains[0]
	for _, t := range catalogs.Terrains[1:] {
		if t.Weight > heaviest.Weight {
			heaviest = t
		}
	}
	terrain := make([][]entity.TerrainID, height)
	for y := range terrain {
		terrain[y] = make([]entity.TerrainID, width)
		for x := range terrain[y] {
			terrain[y][x] = heaviest.ID
		}
	}

	rng := newLCG(seed)
	count := opts.MinLocations + rng.intN(opts.MaxLocations-opts.MinLocations+1)
	kinds := catalogs.Locations
	var placed []entity.PlacedLocation
	if len(kinds) > 0 {
		center := entity.Position{X: width / 2, Y: height / 2}
		occupied := make([][]bool, height)
		for y := range occupied {
			occupied[y] = make([]bool, width)
		}
		placed = append(placed, entity.PlacedLocation{Pos: center, Kind: kinds[0].ID})
		occupied[center.Y][center.X] = true

		rest := make([]entity.LocationKind, len(kinds)-1)
		copy(rest, kinds[1:])
		for i := len(rest) - 1; i > 0; i-- {
			j := rng.intN(i + 1)
			rest[i], rest[j] = rest[j], rest[i]
		}
		if n := count - 1; n < len(rest) {
			rest = rest[:max(n, 0)]
		}

		for _, kind := range rest {
			pos, ok := pickTierCell(occupied, center, kind.DistanceTier, rng)
			if !ok {
				pos, ok = firstFreeCell(occupied)
			}
			if !ok {
				break
			}
			occupied[pos.Y][pos.X] = true
			placed = append(placed, entity.PlacedLocation{Pos: pos, Kind: kind.ID})
		}
	}

	return &Result{
		Seed:      seed,
		Width:     width,
		Height:    height,
		Terrain:   terrain,
		Locations: placed,
		Graph:     BuildConnectivity(placed),
		Fallback:  true,
	}, nil
}

func pickTierCell(occupied [][]bool, center entity.Position, tier int, rng *lcg) (entity.Position, bool) {
	lo, hi := tierBand(tier)
	var cands []entity.Position
	for y, row := range occupied {
		for x, used := range row {
			if used {
				continue
			}
			p := entity.Position{X: x, Y: y}
			if d := p.Manhattan(center); d >= lo && d <= hi {
				cands = append(cands, p)
			}
		}
	}
	if len(cands) == 0 {
		return entity.Position{}, false
	}
	return cands[rng.intN(len(cands))], true
}

func firstFreeCell(occupied [][]bool) (entity.Position, bool) {
	for y, row := range occupied {
		for x, used := range row {
			if !used {
				return entity.Position{X: x, Y: y}, true
			}
		}
	}
	return entity.Position{}, false
}
