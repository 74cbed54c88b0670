package render

import (
	"fmt"

	"Wayfarer/internal/world/entity"

	"github.com/gdamore/tcell/v2"
)

// CellWidth 每格占两列，终端字符大致是方的。
const CellWidth = 2

type Renderer struct {
	palette    *Palette
	overlay    Overlay
	hasOverlay bool
	glyphStyle tcell.Style
}

// NewRenderer overlay 可以为空；是否有叠加层在这里确定一次，绘制时不再判断接口。
func NewRenderer(palette *Palette, overlay Overlay) *Renderer {
	r := &Renderer{
		palette:    palette,
		overlay:    overlay,
		glyphStyle: tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true),
	}
	r.hasOverlay = overlay != nil
	return r
}

// Draw 从 (0,0) 开始画地形，最后一行写名字与尺寸。只读 world，不写回任何东西。
func (r *Renderer) Draw(screen tcell.Screen, world entity.WorldState) {
	screen.Clear()
	for y, row := range world.Terrain {
		for x, id := range row {
			bg := r.palette.Color(id)
			style := tcell.StyleDefault.Background(bg)
			ch := ' '
			if r.hasOverlay {
				if g, ok := r.overlay.Glyph(entity.Position{X: x, Y: y}); ok {
					ch = g
					style = r.glyphStyle.Background(bg)
				}
			}
			screen.SetContent(x*CellWidth, y, ch, nil, style)
			screen.SetContent(x*CellWidth+1, y, ' ', nil, tcell.StyleDefault.Background(bg))
		}
	}
	caption := fmt.Sprintf("%s  %dx%d  seed=%d", world.Name, world.Width, world.Height, world.Seed)
	if world.Fallback {
		caption += "  (fallback)"
	}
	drawText(screen, 0, len(world.Terrain)+1, caption, tcell.StyleDefault)
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, ch := range text {
		screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
