package model

import (
	"reflect"
	"testing"
	"time"

	"Wayfarer/internal/world/entity"
)

func sampleState() entity.WorldState {
	return entity.WorldState{
		WorldID:   42,
		Name:      "Sunlit Glades",
		Seed:      7,
		Width:     2,
		Height:    1,
		Terrain:   [][]entity.TerrainID{{"meadow", "water"}},
		Locations: []entity.PlacedLocation{{Pos: entity.Position{X: 1}, Kind: "wharf"}},
		Graph:     entity.ConnectivityGraph{Adjacency: [][]int{{}}},
		Steps:     2,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestWorldRow_文本列往返(t *testing.T) {
	s := sampleState()
	row, err := WorldStateToRow(s, 3)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if row.ID != 42 || row.Version != 3 || row.TableName() != "generated_world" {
		t.Fatalf("row=%+v", row)
	}
	back, err := WorldRowToState(row)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !reflect.DeepEqual(back, s) {
		t.Fatalf("往返不一致:\n%+v\n%+v", back, s)
	}
}

func TestWorldRow_损坏的JSON报错(t *testing.T) {
	row := &GeneratedWorld{Terrain: "{", Locations: "[]", Graph: "[]"}
	if _, err := WorldRowToState(row); err == nil {
		t.Fatalf("期望解析错误")
	}
}

func TestWorldDoc_字段映射(t *testing.T) {
	doc := WorldStateToDoc(sampleState(), 9)
	if doc.WorldID != 42 || doc.Terrain[0][1] != "water" || doc.Locations[0].Kind != "wharf" {
		t.Fatalf("doc=%+v", doc)
	}
	back := WorldDocToState(doc)
	if back.Terrain[0][0] != "meadow" || back.Locations[0].Pos.X != 1 || back.Name != "Sunlit Glades" {
		t.Fatalf("back=%+v", back)
	}
}
