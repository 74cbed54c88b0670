package service

import "Wayfarer/internal/world/entity"

// TemplatePlacement 记录一次模板落位，日志和测试用。
type TemplatePlacement struct {
	ID     string
	Origin entity.Position
}

// SeedTemplates 生成前的模板预置：按权重有放回地抽 1~2 个模板依次覆盖到网格上。
//
// 非空图案格把目标格候选集覆盖为单一地形但不标记坍缩，越界的图案格跳过，后应用的覆盖先应用的。
// 模板目录为空时不消耗随机数。
func SeedTemplates(g *entity.WorldGrid, templates []entity.Template, rng RandomSource) []TemplatePlacement {
	if len(templates) == 0 {
		return nil
	}
	n := rng.IntN(2) + 1
	out := make([]TemplatePlacement, 0, n)
	for i := 0; i < n; i++ {
		tpl := pickTemplate(templates, rng)
		origin := TemplateOrigin(tpl, g.Width, g.Height, rng)
		applyTemplate(g, tpl, origin)
		out = append(out, TemplatePlacement{ID: tpl.ID, Origin: origin})
	}
	return out
}

func pickTemplate(templates []entity.Template, rng RandomSource) entity.Template {
	total := 0.0
	for _, t := range templates {
		total += t.Weight
	}
	r := rng.Float64() * total
	for _, t := range templates {
		r -= t.Weight
		if r <= 0 {
			return t
		}
	}
	return templates[0]
}

// TemplateOrigin 计算模板左上角落点，结果总是被夹在 [0, W-tw] x [0, H-th]。
func TemplateOrigin(tpl entity.Template, width, height int, rng RandomSource) entity.Position {
	tw, th := tpl.Size()
	if tw == 0 || th == 0 {
		return entity.Position{}
	}
	var x, y int
	switch tpl.Placement {
	case entity.PlacementCenter:
		x = (width - tw) / 2
		y = (height - th) / 2
	case entity.PlacementTopLeft:
	default:
		x = randSpan(rng, width-tw+1)
		y = randSpan(rng, height-th+1)
	}
	return entity.Position{X: clamp(x, 0, width-tw), Y: clamp(y, 0, height-th)}
}

func randSpan(rng RandomSource, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.IntN(n)
}

// clamp 上界小于下界时取下界（模板比网格大）。
func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

func applyTemplate(g *entity.WorldGrid, tpl entity.Template, origin entity.Position) {
	for dy, row := range tpl.Pattern {
		for dx, id := range row {
			if id == "" {
				continue
			}
			c := g.Cell(origin.X+dx, origin.Y+dy)
			if c == nil {
				continue
			}
			c.Restrict(id)
		}
	}
}
