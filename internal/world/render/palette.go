package render

import (
	"math/rand/v2"

	"Wayfarer/internal/world/entity"

	"github.com/gdamore/tcell/v2"
)

var fallbackColor = tcell.ColorGray

// Palette 地形到颜色的映射。颜色只来自主题装饰，抽色用自己的随机流，
// 与生成随机流无关，同一 seed 画出来的图一致。
type Palette struct {
	colors map[entity.TerrainID][]tcell.Color
	rng    *rand.Rand
}

func NewPalette(catalogs *entity.Catalogs, seed int64) *Palette {
	p := &Palette{
		colors: make(map[entity.TerrainID][]tcell.Color),
		rng:    rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15)),
	}
	if catalogs == nil {
		return p
	}
	for _, t := range catalogs.Terrains {
		var cs []tcell.Color
		for _, hex := range t.Colors {
			if c := tcell.GetColor(hex); c != tcell.ColorDefault {
				cs = append(cs, c)
			}
		}
		p.colors[t.ID] = cs
	}
	return p
}

// Color 每次调用都可能换一种同族颜色；没有装饰的地形画成灰色。
func (p *Palette) Color(id entity.TerrainID) tcell.Color {
	cs := p.colors[id]
	switch len(cs) {
	case 0:
		return fallbackColor
	case 1:
		return cs[0]
	}
	return cs[p.rng.IntN(len(cs))]
}
