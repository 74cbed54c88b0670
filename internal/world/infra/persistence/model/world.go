package model

import (
	"encoding/json"
	"fmt"
	"time"

	"Wayfarer/internal/world/entity"
)

// WorldDoc mongodb 文档，_id 即世界 id。
type WorldDoc struct {
	WorldID   int64         `bson:"_id"`
	Name      string        `bson:"name"`
	Seed      int64         `bson:"seed"`
	Width     int           `bson:"width"`
	Height    int           `bson:"height"`
	Terrain   [][]string    `bson:"terrain"`
	Locations []LocationDoc `bson:"locations"`
	Adjacency [][]int       `bson:"adjacency"`
	Steps     int           `bson:"steps"`
	Restarts  int           `bson:"restarts"`
	Fallback  bool          `bson:"fallback"`
	Version   uint64        `bson:"version"`
	CreatedAt time.Time     `bson:"created_at"`
}

type LocationDoc struct {
	X    int    `bson:"x"`
	Y    int    `bson:"y"`
	Kind string `bson:"kind"`
}

func WorldStateToDoc(s entity.WorldState, version uint64) WorldDoc {
	locs := make([]LocationDoc, len(s.Locations))
	for i, l := range s.Locations {
		locs[i] = LocationDoc{X: l.Pos.X, Y: l.Pos.Y, Kind: string(l.Kind)}
	}
	return WorldDoc{
		WorldID:   int64(s.WorldID),
		Name:      s.Name,
		Seed:      s.Seed,
		Width:     s.Width,
		Height:    s.Height,
		Terrain:   terrainToStrings(s.Terrain),
		Locations: locs,
		Adjacency: s.Graph.Adjacency,
		Steps:     s.Steps,
		Restarts:  s.Restarts,
		Fallback:  s.Fallback,
		Version:   version,
		CreatedAt: s.CreatedAt,
	}
}

func WorldDocToState(d WorldDoc) entity.WorldState {
	locs := make([]entity.PlacedLocation, len(d.Locations))
	for i, l := range d.Locations {
		locs[i] = entity.PlacedLocation{Pos: entity.Position{X: l.X, Y: l.Y}, Kind: entity.LocationID(l.Kind)}
	}
	return entity.WorldState{
		WorldID:   entity.WorldID(d.WorldID),
		Name:      d.Name,
		Seed:      d.Seed,
		Width:     d.Width,
		Height:    d.Height,
		Terrain:   stringsToTerrain(d.Terrain),
		Locations: locs,
		Graph:     entity.ConnectivityGraph{Adjacency: d.Adjacency},
		Steps:     d.Steps,
		Restarts:  d.Restarts,
		Fallback:  d.Fallback,
		CreatedAt: d.CreatedAt,
	}
}

// GeneratedWorld mysql 行，地形/地点/路网以 JSON 文本存储。
type GeneratedWorld struct {
	ID        int64     `gorm:"column:id;type:bigint;comment:世界id;primaryKey;not null;"`
	Name      string    `gorm:"column:name;type:varchar(200);comment:世界名称;not null;default:'';"`
	Seed      int64     `gorm:"column:seed;type:bigint;comment:生成种子;not null;"`
	Width     int       `gorm:"column:width;type:int UNSIGNED;not null;"`
	Height    int       `gorm:"column:height;type:int UNSIGNED;not null;"`
	Terrain   string    `gorm:"column:terrain;type:text;comment:地形 JSON;not null;"`
	Locations string    `gorm:"column:locations;type:text;comment:地点 JSON;not null;"`
	Graph     string    `gorm:"column:graph;type:text;comment:路网邻接表 JSON;not null;"`
	Steps     int       `gorm:"column:steps;type:int UNSIGNED;not null;default:0;"`
	Restarts  int       `gorm:"column:restarts;type:int UNSIGNED;not null;default:0;"`
	Fallback  bool      `gorm:"column:fallback;type:tinyint(1);comment:是否兜底布局;not null;default:0;"`
	Version   uint64    `gorm:"column:version;type:bigint UNSIGNED;comment:快照版本;not null;default:0;"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;"`
}

func (m *GeneratedWorld) TableName() string {
	return "generated_world"
}

func WorldStateToRow(s entity.WorldState, version uint64) (*GeneratedWorld, error) {
	terrain, err := json.Marshal(s.Terrain)
	if err != nil {
		return nil, fmt.Errorf("marshal terrain: %w", err)
	}
	locs, err := json.Marshal(s.Locations)
	if err != nil {
		return nil, fmt.Errorf("marshal locations: %w", err)
	}
	graph, err := json.Marshal(s.Graph.Adjacency)
	if err != nil {
		return nil, fmt.Errorf("marshal graph: %w", err)
	}
	return &GeneratedWorld{
		ID:        int64(s.WorldID),
		Name:      s.Name,
		Seed:      s.Seed,
		Width:     s.Width,
		Height:    s.Height,
		Terrain:   string(terrain),
		Locations: string(locs),
		Graph:     string(graph),
		Steps:     s.Steps,
		Restarts:  s.Restarts,
		Fallback:  s.Fallback,
		Version:   version,
		CreatedAt: s.CreatedAt,
	}, nil
}

func WorldRowToState(m *GeneratedWorld) (entity.WorldState, error) {
	s := entity.WorldState{
		WorldID:   entity.WorldID(m.ID),
		Name:      m.Name,
		Seed:      m.Seed,
		Width:     m.Width,
		Height:    m.Height,
		Steps:     m.Steps,
		Restarts:  m.Restarts,
		Fallback:  m.Fallback,
		CreatedAt: m.CreatedAt,
	}
	if err := json.Unmarshal([]byte(m.Terrain), &s.Terrain); err != nil {
		return s, fmt.Errorf("unmarshal terrain: %w", err)
	}
	if err := json.Unmarshal([]byte(m.Locations), &s.Locations); err != nil {
		return s, fmt.Errorf("unmarshal locations: %w", err)
	}
	if err := json.Unmarshal([]byte(m.Graph), &s.Graph.Adjacency); err != nil {
		return s, fmt.Errorf("unmarshal graph: %w", err)
	}
	return s, nil
}

func terrainToStrings(in [][]entity.TerrainID) [][]string {
	out := make([][]string, len(in))
	for y, row := range in {
		out[y] = make([]string, len(row))
		for x, id := range row {
			out[y][x] = string(id)
		}
	}
	return out
}

func stringsToTerrain(in [][]string) [][]entity.TerrainID {
	out := make([][]entity.TerrainID, len(in))
	for y, row := range in {
		out[y] = make([]entity.TerrainID, len(row))
		for x, id := range row {
			out[y][x] = entity.TerrainID(id)
		}
	}
	return out
}
