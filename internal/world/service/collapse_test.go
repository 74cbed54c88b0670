package service

import (
	"errors"
	"testing"

	"Wayfarer/internal/world/entity"
	"Wayfarer/modules/kit/errx"
)

func TestCollapseCell_同地形邻居提升权重(t *testing.T) {
	c := abCatalogs(t)
	g := fullyCollapsed(t, c, [][]entity.TerrainID{{"A", "A"}})
	cell := g.Cell(1, 0)
	cell.Collapsed = false
	cell.Possibilities = c.TerrainIDs()

	// 权重 A=17 B=10，总 27；r=0.6*27=16.2 落在 A
	if err := CollapseCell(g, cell, c, &scriptRNG{floats: []float64{0.6}}, DefaultBoost); err != nil {
		t.Fatalf("err=%v", err)
	}
	if cell.Terrain != "A" || !cell.Collapsed || len(cell.Possibilities) != 1 {
		t.Fatalf("期望坍缩为 A, got=%+v", cell)
	}

	cell.Collapsed = false
	cell.Possibilities = c.TerrainIDs()
	// r=0.65*27=17.55 越过 A 的 17，落在 B
	if err := CollapseCell(g, cell, c, &scriptRNG{floats: []float64{0.65}}, DefaultBoost); err != nil {
		t.Fatalf("err=%v", err)
	}
	if cell.Terrain != "B" {
		t.Fatalf("期望坍缩为 B, got=%s", cell.Terrain)
	}
}

func TestCollapseCell_空候选返回NoValidOption(t *testing.T) {
	c := abCatalogs(t)
	g := fullyCollapsed(t, c, [][]entity.TerrainID{{"A", "B"}})
	cell := g.Cell(0, 0)
	cell.Collapsed = false
	cell.Possibilities = nil

	err := CollapseCell(g, cell, c, &scriptRNG{}, DefaultBoost)
	if !errors.Is(err, ErrNoValidOption) {
		t.Fatalf("期望 NoValidOption, got=%v", err)
	}
	if errors.Is(err, ErrContradiction) {
		t.Fatalf("NoValidOption 与传播冲突是不同错误码")
	}
	if errx.CodeOf(err) != CodeNoValidOption || !IsRecoverable(err) {
		t.Fatalf("code=%s", errx.CodeOf(err))
	}
}
