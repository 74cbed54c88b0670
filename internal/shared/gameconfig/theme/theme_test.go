package theme

import (
	"os"
	"path/filepath"
	"testing"

	"Wayfarer/internal/world/entity"
)

func TestFantasy_内置主题可用(t *testing.T) {
	th, err := Fantasy()
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(th.Terrains) != 5 || len(th.Locations) != 10 || len(th.Templates) != 2 {
		t.Fatalf("got terrains=%d locations=%d templates=%d", len(th.Terrains), len(th.Locations), len(th.Templates))
	}
	c, err := th.Catalogs()
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	// 目录顺序必须与文件顺序一致
	if ids := c.TerrainIDs(); ids[0] != "spire" || ids[4] != "barrens" {
		t.Fatalf("ids=%v", ids)
	}
	if w, h := c.Templates[0].Size(); w != 5 || h != 5 || c.Templates[0].Pattern[0][0] != "" {
		t.Fatalf("river_flow 图案解析错误: %v", c.Templates[0].Pattern)
	}
	cottage, ok := c.Location("cottage")
	if !ok || cottage.DistanceTier != 1 || len(cottage.RequiredAdjacent) != 1 {
		t.Fatalf("cottage=%+v", cottage)
	}
}

func TestLoad_文件主题与放置别名(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.yml")
	raw := `
terrains:
  - id: a
    weight: 1
    adjacent: [a]
templates:
  - id: corner
    weight: 1
    placement: top_left
    pattern:
      - [a]
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	th, err := Load(path)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if th.Name != "tiny" {
		t.Fatalf("name=%q", th.Name)
	}
	if th.Templates[0].Placement != entity.PlacementTopLeft {
		t.Fatalf("placement=%q", th.Templates[0].Placement)
	}
}

func TestLoad_非法主题报错(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	raw := "terrains:\n  - id: a\n    weight: 0\n"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("权重为 0 应报错")
	}
}
