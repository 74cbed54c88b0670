package service

import (
	"reflect"
	"testing"

	"Wayfarer/internal/world/entity"
)

func TestFallbackLayout_确定且连通(t *testing.T) {
	c := fantasyLikeCatalogs(t)
	a, err := FallbackLayout(c, 10, 10, 1234, FallbackOptions{})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	b, _ := FallbackLayout(c, 10, 10, 1234, FallbackOptions{})
	if !reflect.DeepEqual(a.Locations, b.Locations) || !reflect.DeepEqual(a.Graph, b.Graph) {
		t.Fatalf("同一种子兜底布局应一致")
	}
	if !a.Fallback {
		t.Fatalf("应标记为兜底")
	}
	if a.Locations[0].Pos != (entity.Position{X: 5, Y: 5}) || a.Locations[0].Kind != "cottage" {
		t.Fatalf("第一个地点应在中心, got=%v", a.Locations[0])
	}
	// 目录只有 3 种地点
	if len(a.Locations) != 3 {
		t.Fatalf("locations=%v", a.Locations)
	}
	if !a.Graph.IsConnected() {
		t.Fatalf("兜底布局也应连通")
	}
	for _, row := range a.Terrain {
		for _, id := range row {
			if id != "forest" {
				t.Fatalf("应填满权重最大的地形, got=%s", id)
			}
		}
	}
}

func TestFallbackLayout_档位环带(t *testing.T) {
	kinds := []entity.LocationKind{{ID: "hub"}}
	for _, id := range []entity.LocationID{"n1", "n2", "n3", "n4", "n5", "n6", "n7"} {
		kinds = append(kinds, entity.LocationKind{ID: id, DistanceTier: 2})
	}
	c := mustCatalogs(t, chainTerrains(), kinds, nil)
	res, err := FallbackLayout(c, 12, 12, 77, FallbackOptions{MinLocations: 8, MaxLocations: 8})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(res.Locations) != 8 {
		t.Fatalf("locations=%d", len(res.Locations))
	}
	center := res.Locations[0].Pos
	for _, l := range res.Locations[1:] {
		if d := l.Pos.Manhattan(center); d < 3 || d > 4 {
			t.Fatalf("%v 距中心 %d，不在档位 2 的 [3,4]", l, d)
		}
	}
}

func TestFallbackLayout_尺寸非法(t *testing.T) {
	if _, err := FallbackLayout(abCatalogs(t), 0, 5, 1, FallbackOptions{}); err == nil {
		t.Fatalf("期望配置错误")
	}
}
