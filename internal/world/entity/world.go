package entity

import (
	"slices"
	"time"
)

type WorldID int64

// World 是一次生成的最终产物（纯生成结果，不含任何渲染装饰）。
type World struct {
	worldID   WorldID
	name      string
	seed      int64
	width     int
	height    int
	terrain   [][]TerrainID
	locations []PlacedLocation
	graph     *ConnectivityGraph
	steps     int
	restarts  int
	fallback  bool
	createdAt time.Time
	dirty     bool
}

// WorldState 是 World 的可导出视图，用于持久化与接口层。
type WorldState struct {
	WorldID   WorldID           `json:"world_id"`
	Name      string            `json:"name"`
	Seed      int64             `json:"seed"`
	Width     int               `json:"width"`
	Height    int               `json:"height"`
	Terrain   [][]TerrainID     `json:"terrain"`
	Locations []PlacedLocation  `json:"locations"`
	Graph     ConnectivityGraph `json:"graph"`
	Steps     int               `json:"steps"`
	Restarts  int               `json:"restarts"`
	Fallback  bool              `json:"fallback"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewWorld 新生成的世界默认是脏的，等待第一次落库。
func NewWorld(id WorldID, s WorldState) *World {
	w := HydrateWorld(s)
	w.worldID = id
	w.dirty = true
	return w
}

// HydrateWorld 从存储恢复，不标脏。
func HydrateWorld(s WorldState) *World {
	g := s.Graph
	if g.Adjacency == nil {
		g = *NewConnectivityGraph(len(s.Locations))
	}
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &World{
		worldID:   s.WorldID,
		name:      s.Name,
		seed:      s.Seed,
		width:     s.Width,
		height:    s.Height,
		terrain:   cloneTerrain(s.Terrain),
		locations: slices.Clone(s.Locations),
		graph:     &ConnectivityGraph{Adjacency: cloneAdjacency(g.Adjacency)},
		steps:     s.Steps,
		restarts:  s.Restarts,
		fallback:  s.Fallback,
		createdAt: createdAt,
	}
}

func (w *World) ID() WorldID                  { return w.worldID }
func (w *World) Name() string                 { return w.name }
func (w *World) Seed() int64                  { return w.seed }
func (w *World) Size() (int, int)             { return w.width, w.height }
func (w *World) Locations() []PlacedLocation  { return slices.Clone(w.locations) }
func (w *World) Graph() *ConnectivityGraph    { return w.graph }
func (w *World) Fallback() bool               { return w.fallback }
func (w *World) Terrain() [][]TerrainID       { return cloneTerrain(w.terrain) }
func (w *World) TerrainAt(x, y int) TerrainID { return w.terrain[y][x] }

func (w *World) Rename(name string) {
	if name == "" || w.name == name {
		return
	}
	w.name = name
	w.dirty = true
}

func (w *World) Dirty() bool {
	return w.dirty
}

func (w *World) ClearDirty() {
	w.dirty = false
}

func (w *World) State() WorldState {
	return WorldState{
		WorldID:   w.worldID,
		Name:      w.name,
		Seed:      w.seed,
		Width:     w.width,
		Height:    w.height,
		Terrain:   cloneTerrain(w.terrain),
		Locations: slices.Clone(w.locations),
		Graph:     ConnectivityGraph{Adjacency: cloneAdjacency(w.graph.Adjacency)},
		Steps:     w.steps,
		Restarts:  w.restarts,
		Fallback:  w.fallback,
		CreatedAt: w.createdAt,
	}
}

// WorldPersistSnapshot 落库快照，Version 单调递增，旧版本会被新版本覆盖。
type WorldPersistSnapshot struct {
	Version uint64
	State   WorldState
}

func (w *World) BuildPersistSnapshot(version uint64) (*WorldPersistSnapshot, bool) {
	if w == nil || !w.Dirty() {
		return nil, false
	}
	return &WorldPersistSnapshot{Version: version, State: w.State()}, true
}

func cloneTerrain(in [][]TerrainID) [][]TerrainID {
	if in == nil {
		return nil
	}
	out := make([][]TerrainID, len(in))
	for i, row := range in {
		out[i] = slices.Clone(row)
	}
	return out
}

func cloneAdjacency(in [][]int) [][]int {
	out := make([][]int, len(in))
	for i, row := range in {
		out[i] = slices.Clone(row)
		if out[i] == nil {
			out[i] = []int{}
		}
	}
	return out
}
