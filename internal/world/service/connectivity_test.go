package service

import (
	"slices"
	"testing"

	"Wayfarer/internal/world/entity"
)

func at(x, y int) entity.PlacedLocation {
	return entity.PlacedLocation{Pos: entity.Position{X: x, Y: y}}
}

func TestBuildConnectivity_近距离直接连边(t *testing.T) {
	g := BuildConnectivity([]entity.PlacedLocation{at(0, 0), at(2, 2), at(4, 2)})
	if !g.HasEdge(0, 1) || !g.HasEdge(1, 2) {
		t.Fatalf("adj=%v", g.Adjacency)
	}
	if g.HasEdge(0, 2) {
		t.Fatalf("距离 6 不应直接连边")
	}
}

func TestBuildConnectivity_孤立点连到最近的已到达点(t *testing.T) {
	g := BuildConnectivity([]entity.PlacedLocation{at(0, 0), at(2, 0), at(10, 0), at(0, 10)})
	if !g.IsConnected() || !g.IsSymmetric() {
		t.Fatalf("adj=%v", g.Adjacency)
	}
	// 2 号离 1 号 8、离 0 号 10
	if !g.HasEdge(2, 1) || g.HasEdge(2, 0) {
		t.Fatalf("2 号应连到 1 号, adj=%v", g.Adjacency)
	}
	// 3 号离 0 号 10、离 1 号 12、离 2 号 20
	if !g.HasEdge(3, 0) {
		t.Fatalf("3 号应连到 0 号, adj=%v", g.Adjacency)
	}
	for i, row := range g.Adjacency {
		if slices.Contains(row, i) {
			t.Fatalf("不应有自环")
		}
	}
}

func TestBuildConnectivity_距离并列取下标小的(t *testing.T) {
	g := BuildConnectivity([]entity.PlacedLocation{at(0, 0), at(4, 0), at(2, 5)})
	// 2 号到 0 号、1 号距离都是 7
	if !g.HasEdge(2, 0) || g.HasEdge(2, 1) {
		t.Fatalf("adj=%v", g.Adjacency)
	}
}

func TestBuildConnectivity_空与单点(t *testing.T) {
	if g := BuildConnectivity(nil); g.Len() != 0 || !g.IsConnected() {
		t.Fatalf("空图 got=%v", g.Adjacency)
	}
	if g := BuildConnectivity([]entity.PlacedLocation{at(3, 3)}); g.Len() != 1 || len(g.Neighbors(0)) != 0 {
		t.Fatalf("单点 got=%v", g.Adjacency)
	}
}
