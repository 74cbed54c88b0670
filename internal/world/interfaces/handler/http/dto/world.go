package dto

import (
	"Wayfarer/internal/world/entity"
	"strconv"
	"time"
)

type GenerateWorldReq struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Seed   *int64 `json:"seed"`
	Name   string `json:"name"`
}

type RenameWorldReq struct {
	Name string `json:"name" binding:"required"`
}

type LocationDTO struct {
	Kind string `json:"kind"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// WorldDTO 对外的世界视图。id 用字符串，避免前端 JS 丢精度。
type WorldDTO struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Seed      int64         `json:"seed"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Terrain   [][]string    `json:"terrain"`
	Locations []LocationDTO `json:"locations"`
	Edges     [][]int       `json:"edges"`
	Steps     int           `json:"steps"`
	Restarts  int           `json:"restarts"`
	Fallback  bool          `json:"fallback"`
	CreatedAt time.Time     `json:"created_at"`
}

func FromWorldState(s entity.WorldState) WorldDTO {
	terrain := make([][]string, len(s.Terrain))
	for y, row := range s.Terrain {
		terrain[y] = make([]string, len(row))
		for x, id := range row {
			terrain[y][x] = string(id)
		}
	}
	locs := make([]LocationDTO, len(s.Locations))
	for i, l := range s.Locations {
		locs[i] = LocationDTO{Kind: string(l.Kind), X: l.Pos.X, Y: l.Pos.Y}
	}
	edges := make([][]int, len(s.Graph.Adjacency))
	for i, ns := range s.Graph.Adjacency {
		edges[i] = append([]int{}, ns...)
	}
	return WorldDTO{
		ID:        strconv.FormatInt(int64(s.WorldID), 10),
		Name:      s.Name,
		Seed:      s.Seed,
		Width:     s.Width,
		Height:    s.Height,
		Terrain:   terrain,
		Locations: locs,
		Edges:     edges,
		Steps:     s.Steps,
		Restarts:  s.Restarts,
		Fallback:  s.Fallback,
		CreatedAt: s.CreatedAt,
	}
}
