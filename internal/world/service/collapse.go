package service

import "Wayfarer/internal/world/entity"

// DefaultBoost 聚簇偏置：每个同地形的已坍缩邻居把该地形权重乘一次。
const DefaultBoost = 1.7

// CollapseCell 按加权随机把格子坍缩为一个候选地形。
//
// 权重 = Weight × boost^k，k 为已坍缩且地形相同的邻居数。
// 抽取方式：r = Float64()*total，按候选顺序依次扣减，第一个 r <= 0 的胜出。
func CollapseCell(g *entity.WorldGrid, c *entity.Cell, catalogs *entity.Catalogs, rng RandomSource, boost float64) error {
	neighbors := g.Neighbors(c.Pos.X, c.Pos.Y)
	weights := make([]float64, len(c.Possibilities))
	total := 0.0
	for i, id := range c.Possibilities {
		t, ok := catalogs.Terrain(id)
		if !ok {
			continue
		}
		w := t.Weight
		for _, n := range neighbors {
			if n.Collapsed && n.Terrain == id {
				w *= boost
			}
		}
		weights[i] = w
		total += w
	}
	if !(total > 0) {
		return ErrNoValidOption.WithData("x", c.Pos.X).WithData("y", c.Pos.Y)
	}

	r := rng.Float64() * total
	chosen := c.Possibilities[0]
	for i, w := range weights {
		r -= w
		if r <= 0 {
			chosen = c.Possibilities[i]
			break
		}
	}
	c.Collapse(chosen)
	return nil
}
