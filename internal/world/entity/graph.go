package entity

import "slices"

// ConnectivityGraph 以地点下标为键的邻接表；不变式：连通且对称。
type ConnectivityGraph struct {
	Adjacency [][]int `json:"adjacency" bson:"adjacency"`
}

func NewConnectivityGraph(n int) *ConnectivityGraph {
	adj := make([][]int, n)
	for i := range adj {
		adj[i] = []int{}
	}
	return &ConnectivityGraph{Adjacency: adj}
}

func (g *ConnectivityGraph) Len() int {
	return len(g.Adjacency)
}

func (g *ConnectivityGraph) Neighbors(i int) []int {
	if i < 0 || i >= len(g.Adjacency) {
		return nil
	}
	return g.Adjacency[i]
}

func (g *ConnectivityGraph) HasEdge(a, b int) bool {
	return slices.Contains(g.Neighbors(a), b)
}

// Connect 加一条无向边；自环与重复边忽略，返回是否新增。
func (g *ConnectivityGraph) Connect(a, b int) bool {
	if a == b || g.HasEdge(a, b) {
		return false
	}
	g.Adjacency[a] = append(g.Adjacency[a], b)
	g.Adjacency[b] = append(g.Adjacency[b], a)
	return true
}

// Reachable 从 start 做广度优先遍历，返回访问标记。
func (g *ConnectivityGraph) Reachable(start int) []bool {
	seen := make([]bool, len(g.Adjacency))
	if start < 0 || start >= len(seen) {
		return seen
	}
	seen[start] = true
	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.Adjacency[cur] {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return seen
}

// IsConnected 空图视为连通。
func (g *ConnectivityGraph) IsConnected() bool {
	for _, ok := range g.Reachable(0) {
		if !ok {
			return false
		}
	}
	return true
}

func (g *ConnectivityGraph) IsSymmetric() bool {
	for a, ns := range g.Adjacency {
		for _, b := range ns {
			if !g.HasEdge(b, a) {
				return false
			}
		}
	}
	return true
}
