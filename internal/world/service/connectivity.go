package service

import "Wayfarer/internal/world/entity"

// LinkDistance 曼哈顿距离不超过它的两个地点直接连边。
const LinkDistance = 4

// BuildConnectivity 在已放置地点上建无向图并修补成单一连通分量。
//
// 1. 距离 <= LinkDistance 的每对地点连边
// 2. 从 0 号做 BFS；取下标最小的未到达地点，连到离它最近的已到达地点（并列取下标小的）
// 3. 重复 2 直到全部可达
func BuildConnectivity(placed []entity.PlacedLocation) *entity.ConnectivityGraph {
	n := len(placed)
	g := entity.NewConnectivityGraph(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if placed[i].Pos.Manhattan(placed[j].Pos) <= LinkDistance {
				g.Connect(i, j)
			}
		}
	}
	if n == 0 {
		return g
	}

	for {
		reached := g.Reachable(0)
		orphan := -1
		for i, ok := range reached {
			if !ok {
				orphan = i
				break
			}
		}
		if orphan < 0 {
			return g
		}
		nearest, best := -1, 0
		for j, ok := range reached {
			if !ok {
				continue
			}
			if d := placed[orphan].Pos.Manhattan(placed[j].Pos); nearest < 0 || d < best {
				nearest, best = j, d
			}
		}
		g.Connect(orphan, nearest)
	}
}
