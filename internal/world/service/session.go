package service

import (
	"Wayfarer/internal/world/entity"

	"github.com/google/uuid"
)

// Session 一次生成的可变状态，只由所属 Driver 修改。
// 冲突时 Grid/Placed/Graph 被整体替换，计数器保留（Attempts 归零）。
type Session struct {
	ID        string
	Seed      int64
	Attempts  int
	Restarts  int
	Steps     int
	Grid      *entity.WorldGrid
	Templates []TemplatePlacement
	Placed    []entity.PlacedLocation
	Graph     *entity.ConnectivityGraph
}

func newSession(seed int64) *Session {
	return &Session{ID: uuid.NewString(), Seed: seed}
}

// reset 丢弃当前网格与产出，准备重新预置。
func (s *Session) reset() {
	s.Attempts = 0
	s.Grid = nil
	s.Templates = nil
	s.Placed = nil
	s.Graph = nil
}

// Result 一次成功生成的纯数据产出，不含任何渲染装饰。
type Result struct {
	SessionID string
	Seed      int64
	Width     int
	Height    int
	Terrain   [][]entity.TerrainID
	Locations []entity.PlacedLocation
	Graph     *entity.ConnectivityGraph
	Steps     int
	Restarts  int
	Templates []TemplatePlacement
	Fallback  bool
}

// State 转成 World 持久化状态（id/名字/创建时间由调用方补齐）。
func (r *Result) State() entity.WorldState {
	var graph entity.ConnectivityGraph
	if r.Graph != nil {
		graph = *r.Graph
	}
	return entity.WorldState{
		Seed:      r.Seed,
		Width:     r.Width,
		Height:    r.Height,
		Terrain:   r.Terrain,
		Locations: r.Locations,
		Graph:     graph,
		Steps:     r.Steps,
		Restarts:  r.Restarts,
		Fallback:  r.Fallback,
	}
}
