package render

import (
	"testing"

	"Wayfarer/internal/world/entity"

	"github.com/gdamore/tcell/v2"
)

func testCatalogs(t *testing.T) *entity.Catalogs {
	t.Helper()
	c, err := entity.NewCatalogs(
		[]entity.TerrainKind{
			{ID: "forest", Weight: 1, Adjacent: []entity.TerrainID{"forest", "water"}, Colors: []string{"#16A34A", "#15803D"}},
			{ID: "water", Weight: 1, Adjacent: []entity.TerrainID{"forest", "water"}, Colors: []string{"#1D4ED8"}},
			{ID: "void", Weight: 1, Adjacent: []entity.TerrainID{"void"}},
		},
		[]entity.LocationKind{{ID: "cottage", Label: "hermit's Cottage"}},
		nil,
	)
	if err != nil {
		t.Fatalf("NewCatalogs err=%v", err)
	}
	return c
}

func testWorld() entity.WorldState {
	return entity.WorldState{
		Name:   "Test",
		Width:  3,
		Height: 2,
		Terrain: [][]entity.TerrainID{
			{"forest", "water", "void"},
			{"water", "forest", "forest"},
		},
		Locations: []entity.PlacedLocation{{Pos: entity.Position{X: 1, Y: 1}, Kind: "cottage"}},
	}
}

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init err=%v", err)
	}
	s.SetSize(40, 10)
	t.Cleanup(s.Fini)
	return s
}

func TestPalette_同种子同颜色序列(t *testing.T) {
	c := testCatalogs(t)
	a, b := NewPalette(c, 5), NewPalette(c, 5)
	for i := 0; i < 20; i++ {
		if a.Color("forest") != b.Color("forest") {
			t.Fatalf("第 %d 次抽色不同", i)
		}
	}
}

func TestPalette_颜色只来自主题装饰(t *testing.T) {
	c := testCatalogs(t)
	p := NewPalette(c, 1)
	allowed := map[tcell.Color]bool{tcell.GetColor("#16A34A"): true, tcell.GetColor("#15803D"): true}
	for i := 0; i < 50; i++ {
		if got := p.Color("forest"); !allowed[got] {
			t.Fatalf("unexpected color %v", got)
		}
	}
	if got := p.Color("water"); got != tcell.GetColor("#1D4ED8") {
		t.Fatalf("water got=%v", got)
	}
	if got := p.Color("void"); got != fallbackColor {
		t.Fatalf("无装饰地形应为灰色, got=%v", got)
	}
}

func TestDraw_地形背景与地点字符(t *testing.T) {
	c := testCatalogs(t)
	world := testWorld()
	screen := newScreen(t)

	r := NewRenderer(NewPalette(c, 3), NewLocationOverlay(c, world.Locations))
	r.Draw(screen, world)

	ch, _, style, _ := screen.GetContent(1*CellWidth, 1)
	if ch != 'H' {
		t.Fatalf("地点字符 got=%q", ch)
	}
	if _, bg, _ := style.Decompose(); bg == tcell.ColorDefault {
		t.Fatalf("地点格应保留地形背景")
	}
	_, _, waterStyle, _ := screen.GetContent(1*CellWidth, 0)
	if _, bg, _ := waterStyle.Decompose(); bg != tcell.GetColor("#1D4ED8") {
		t.Fatalf("water 背景 got=%v", bg)
	}
	ch, _, _, _ = screen.GetContent(0, len(world.Terrain)+1)
	if ch != 'T' {
		t.Fatalf("标题首字符 got=%q", ch)
	}
}

func TestDraw_无叠加层且不改写世界(t *testing.T) {
	c := testCatalogs(t)
	world := testWorld()
	before := world.Terrain[0][0]
	screen := newScreen(t)

	NewRenderer(NewPalette(c, 3), nil).Draw(screen, world)

	ch, _, _, _ := screen.GetContent(1*CellWidth, 1)
	if ch != ' ' {
		t.Fatalf("无叠加层时不应画字符, got=%q", ch)
	}
	if world.Terrain[0][0] != before {
		t.Fatalf("渲染不应改写地形")
	}
}
