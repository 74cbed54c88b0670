package entity

import (
	"fmt"
	"slices"
	"strings"
)

type TerrainID string
type LocationID string

// TerrainKind 地形种类。Label/Colors 只给渲染用，求解器不读取。
type TerrainKind struct {
	ID       TerrainID   `json:"id" mapstructure:"id"`
	Label    string      `json:"label" mapstructure:"label"`
	Weight   float64     `json:"weight" mapstructure:"weight"`
	Adjacent []TerrainID `json:"adjacent" mapstructure:"adjacent"`
	Colors   []string    `json:"colors" mapstructure:"colors"`
}

// LocationKind 地点种类。AllowedTerrain/RequiredAdjacent 为空表示不限制。
type LocationKind struct {
	ID               LocationID  `json:"id" mapstructure:"id"`
	Label            string      `json:"label" mapstructure:"label"`
	Emoji            string      `json:"emoji" mapstructure:"emoji"`
	AllowedTerrain   []TerrainID `json:"allowed_terrain" mapstructure:"allowed_terrain"`
	RequiredAdjacent []TerrainID `json:"required_adjacent" mapstructure:"required_adjacent"`
	DistanceTier     int         `json:"distance_tier" mapstructure:"distance_tier"` // 仅兜底布局使用
}

type PlacementMode string

const (
	PlacementCenter  PlacementMode = "center"
	PlacementTopLeft PlacementMode = "top-left"
	PlacementAny     PlacementMode = "any"
)

// ParsePlacementMode 接受 top_left 作为 top-left 的别名，大小写不敏感。
func ParsePlacementMode(s string) (PlacementMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center":
		return PlacementCenter, nil
	case "top-left", "top_left":
		return PlacementTopLeft, nil
	case "any", "":
		return PlacementAny, nil
	}
	return "", fmt.Errorf("unknown placement mode %q", s)
}

// Template 局部预设图案，空字符串表示该格不约束。
type Template struct {
	ID        string        `json:"id" mapstructure:"id"`
	Weight    float64       `json:"weight" mapstructure:"weight"`
	Placement PlacementMode `json:"placement" mapstructure:"placement"`
	Pattern   [][]TerrainID `json:"pattern" mapstructure:"pattern"`
}

// Size 返回图案宽高，宽度取第一行。
func (t Template) Size() (w, h int) {
	if len(t.Pattern) == 0 {
		return 0, 0
	}
	return len(t.Pattern[0]), len(t.Pattern)
}

// Catalogs 是一次生成使用的不可变配置包，切片顺序即候选顺序。
type Catalogs struct {
	Terrains  []TerrainKind  `json:"terrains" mapstructure:"terrains"`
	Locations []LocationKind `json:"locations" mapstructure:"locations"`
	Templates []Template     `json:"templates" mapstructure:"templates"`

	terrainIdx map[TerrainID]int
}

// NewCatalogs 校验并建立索引。
func NewCatalogs(terrains []TerrainKind, locations []LocationKind, templates []Template) (*Catalogs, error) {
	c := &Catalogs{
		Terrains:  slices.Clone(terrains),
		Locations: slices.Clone(locations),
		Templates: slices.Clone(templates),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate 检查配置合法性并（重新）建立地形索引。
func (c *Catalogs) Validate() error {
	if c == nil || len(c.Terrains) == 0 {
		return fmt.Errorf("terrain catalog is empty")
	}
	idx := make(map[TerrainID]int, len(c.Terrains))
	for i, t := range c.Terrains {
		if t.ID == "" {
			return fmt.Errorf("terrain #%d has empty id", i)
		}
		if _, dup := idx[t.ID]; dup {
			return fmt.Errorf("duplicate terrain %q", t.ID)
		}
		if !(t.Weight > 0) {
			return fmt.Errorf("terrain %q weight must be positive, got %v", t.ID, t.Weight)
		}
		idx[t.ID] = i
	}
	for _, t := range c.Terrains {
		for _, a := range t.Adjacent {
			if _, ok := idx[a]; !ok {
				return fmt.Errorf("terrain %q lists unknown adjacent terrain %q", t.ID, a)
			}
		}
	}

	seen := make(map[LocationID]struct{}, len(c.Locations))
	for i, l := range c.Locations {
		if l.ID == "" {
			return fmt.Errorf("location #%d has empty id", i)
		}
		if _, dup := seen[l.ID]; dup {
			return fmt.Errorf("duplicate location %q", l.ID)
		}
		seen[l.ID] = struct{}{}
		for _, ref := range append(slices.Clone(l.AllowedTerrain), l.RequiredAdjacent...) {
			if _, ok := idx[ref]; !ok {
				return fmt.Errorf("location %q references unknown terrain %q", l.ID, ref)
			}
		}
	}

	for i := range c.Templates {
		tpl := &c.Templates[i]
		if !(tpl.Weight > 0) {
			return fmt.Errorf("template %q weight must be positive, got %v", tpl.ID, tpl.Weight)
		}
		mode, err := ParsePlacementMode(string(tpl.Placement))
		if err != nil {
			return fmt.Errorf("template %q: %w", tpl.ID, err)
		}
		tpl.Placement = mode
		for _, row := range tpl.Pattern {
			for _, cell := range row {
				if cell == "" {
					continue
				}
				if _, ok := idx[cell]; !ok {
					return fmt.Errorf("template %q references unknown terrain %q", tpl.ID, cell)
				}
			}
		}
	}
	c.terrainIdx = idx
	return nil
}

// TerrainIDs 按目录顺序返回全部地形 id（新切片）。
func (c *Catalogs) TerrainIDs() []TerrainID {
	out := make([]TerrainID, len(c.Terrains))
	for i, t := range c.Terrains {
		out[i] = t.ID
	}
	return out
}

func (c *Catalogs) Terrain(id TerrainID) (TerrainKind, bool) {
	if c.terrainIdx == nil {
		for _, t := range c.Terrains {
			if t.ID == id {
				return t, true
			}
		}
		return TerrainKind{}, false
	}
	i, ok := c.terrainIdx[id]
	if !ok {
		return TerrainKind{}, false
	}
	return c.Terrains[i], true
}

// Allows 判断 from 的声明邻接表里是否包含 to（有方向，不做对称化）。
func (c *Catalogs) Allows(from, to TerrainID) bool {
	t, ok := c.Terrain(from)
	if !ok {
		return false
	}
	return slices.Contains(t.Adjacent, to)
}

func (c *Catalogs) Location(id LocationID) (LocationKind, bool) {
	for _, l := range c.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return LocationKind{}, false
}
