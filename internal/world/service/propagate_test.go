package service

import (
	"errors"
	"slices"
	"testing"

	"Wayfarer/internal/world/entity"
	"Wayfarer/modules/kit/errx"
)

func TestPropagate_按邻居声明有方向过滤(t *testing.T) {
	c := mustCatalogs(t, []entity.TerrainKind{
		{ID: "spire", Weight: 1, Adjacent: []entity.TerrainID{"barrens"}},
		{ID: "barrens", Weight: 1, Adjacent: []entity.TerrainID{"meadow", "spire"}},
		{ID: "meadow", Weight: 1, Adjacent: []entity.TerrainID{"meadow", "barrens", "spire"}},
	}, nil, nil)
	g, _ := entity.NewWorldGrid(3, 1, c)
	g.Cell(0, 0).Collapse("spire")

	if err := Propagate(g, g.Cell(0, 0), c); err != nil {
		t.Fatalf("err=%v", err)
	}
	if got := g.Cell(1, 0).Possibilities; !slices.Equal(got, []entity.TerrainID{"barrens"}) {
		t.Fatalf("期望只剩 spire 声明的 barrens, got=%v", got)
	}
	// 未坍缩的邻居不构成约束
	if got := g.Cell(2, 0).Entropy(); got != 3 {
		t.Fatalf("(2,0) 不应被约束, entropy=%d", got)
	}
}

func TestPropagate_候选清空返回冲突(t *testing.T) {
	c := mustCatalogs(t, []entity.TerrainKind{
		{ID: "A", Weight: 1, Adjacent: []entity.TerrainID{"A"}},
		{ID: "B", Weight: 1, Adjacent: []entity.TerrainID{"B"}},
	}, nil, nil)
	g, _ := entity.NewWorldGrid(3, 1, c)
	g.Cell(0, 0).Collapse("A")
	g.Cell(2, 0).Collapse("B")

	err := Propagate(g, g.Cell(0, 0), c)
	if !errors.Is(err, ErrContradiction) {
		t.Fatalf("期望冲突, got=%v", err)
	}
	if x, ok := errx.DataOf(err, "x"); !ok || x != 1 {
		t.Fatalf("期望冲突位置 x=1, got=%v", x)
	}
	if g.Cell(1, 0).Entropy() != 0 {
		t.Fatalf("冲突格候选集应为空")
	}
}

func TestPropagate_预置格与坍缩邻居不兼容时冲突(t *testing.T) {
	c := mustCatalogs(t, chainTerrains(), nil, nil)
	g, _ := entity.NewWorldGrid(3, 3, c)
	// 中心被预置为 C，左邻坍缩为 A，A 不允许 C
	g.Cell(1, 1).Restrict("C")
	g.Cell(0, 1).Collapse("A")

	err := Propagate(g, g.Cell(0, 1), c)
	if !errors.Is(err, ErrContradiction) {
		t.Fatalf("期望预置的 C 与 A 相邻时冲突, got=%v", err)
	}
}
