package service

import (
	"fmt"
	"unicode/utf16"

	"Wayfarer/internal/world/entity"
)

// SeedFromString 把名字哈希成种子：32 位滚动哈希 seed = seed*31 + c，取绝对值后模 1000000。
// 按 UTF-16 码元迭代，同一名字在各端得到同一种子。
func SeedFromString(s string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v % 1000000
}

var nameAdjectives = []string{"Sacred", "Ancient", "Whispering", "Cursed", "Hidden", "Eternal", "Forgotten"}

// NameWorld 根据主导地形和第一个地点生成展示名。
// 使用由 seed 派生的独立随机流，不消耗生成随机流。
func NameWorld(catalogs *entity.Catalogs, terrain [][]entity.TerrainID, placed []entity.PlacedLocation, seed int64) string {
	rng := NewRandomSource(seed + 1)

	label := "Unknown"
	if dom, ok := dominantTerrain(catalogs, terrain); ok {
		if t, ok := catalogs.Terrain(dom); ok && t.Label != "" {
			label = t.Label
		}
	}
	iconic := ""
	if len(placed) > 0 {
		if k, ok := catalogs.Location(placed[0].Kind); ok {
			iconic = k.Label
		}
	}
	adj := nameAdjectives[rng.IntN(len(nameAdjectives))]

	var patterns []string
	if iconic != "" {
		patterns = []string{
			fmt.Sprintf("%s %s", adj, label),
			fmt.Sprintf("%s in the %s", iconic, label),
			fmt.Sprintf("%s of the %s", iconic, label),
			fmt.Sprintf("The %s %s by the %s", adj, iconic, label),
			fmt.Sprintf("Where the %s Begins", label),
		}
	} else {
		patterns = []string{
			fmt.Sprintf("%s %s", adj, label),
			fmt.Sprintf("The %s Site in the %s", adj, label),
			fmt.Sprintf("The %s Realm of the %s", adj, label),
			fmt.Sprintf("The %s Place by the %s", adj, label),
			fmt.Sprintf("Where the %s Begins", label),
		}
	}
	return patterns[rng.IntN(len(patterns))]
}

// dominantTerrain 数量最多的地形，并列取目录里靠前的。
func dominantTerrain(catalogs *entity.Catalogs, terrain [][]entity.TerrainID) (entity.TerrainID, bool) {
	counts := make(map[entity.TerrainID]int)
	for _, row := range terrain {
		for _, id := range row {
			if id != "" {
				counts[id]++
			}
		}
	}
	var best entity.TerrainID
	bestN := 0
	for _, t := range catalogs.Terrains {
		if n := counts[t.ID]; n > bestN {
			best, bestN = t.ID, n
		}
	}
	if bestN == 0 {
		if len(catalogs.Terrains) == 0 {
			return "", false
		}
		return catalogs.Terrains[0].ID, true
	}
	return best, true
}
