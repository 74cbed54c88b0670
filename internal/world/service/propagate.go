package service

import "Wayfarer/internal/world/entity"

// Propagate 从刚坍缩的格子向外做局部约束传播。
//
// 只检查已坍缩邻居：候选 p 保留当且仅当每个已坍缩邻居 n 的邻接表包含 p（方向取邻居的声明）。
// 候选集缩小则把该格的邻居重新入队；候选集为空返回冲突，此时网格已部分修改，调用方必须整体丢弃。
func Propagate(g *entity.WorldGrid, from *entity.Cell, catalogs *entity.Catalogs) error {
	queue := g.Neighbors(from.Pos.X, from.Pos.Y)
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c.Collapsed {
			continue
		}

		neighbors := g.Neighbors(c.Pos.X, c.Pos.Y)
		kept := make([]entity.TerrainID, 0, len(c.Possibilities))
		for _, p := range c.Possibilities {
			if allowedByCollapsed(neighbors, p, catalogs) {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(c.Possibilities) {
			continue
		}
		c.Possibilities = kept
		if len(kept) == 0 {
			return contradictionAt(c.Pos)
		}
		queue = append(queue, neighbors...)
	}
	return nil
}

func allowedByCollapsed(neighbors []*entity.Cell, p entity.TerrainID, catalogs *entity.Catalogs) bool {
	for _, n := range neighbors {
		if n.Collapsed && !catalogs.Allows(n.Terrain, p) {
			return false
		}
	}
	return true
}
