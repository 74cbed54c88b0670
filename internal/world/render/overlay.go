package render

import (
	"unicode"
	"unicode/utf8"

	"Wayfarer/internal/world/entity"
)

// Overlay 可选的叠加层，返回某格要画的字符。
type Overlay interface {
	Glyph(pos entity.Position) (rune, bool)
}

// LocationOverlay 在地点所在格画地点名的首字母。
type LocationOverlay struct {
	glyphs map[entity.Position]rune
}

func NewLocationOverlay(catalogs *entity.Catalogs, placed []entity.PlacedLocation) *LocationOverlay {
	o := &LocationOverlay{glyphs: make(map[entity.Position]rune, len(placed))}
	for _, l := range placed {
		o.glyphs[l.Pos] = locationGlyph(catalogs, l.Kind)
	}
	return o
}

func (o *LocationOverlay) Glyph(pos entity.Position) (rune, bool) {
	r, ok := o.glyphs[pos]
	return r, ok
}

func locationGlyph(catalogs *entity.Catalogs, kind entity.LocationID) rune {
	label := string(kind)
	if catalogs != nil {
		if k, ok := catalogs.Location(kind); ok && k.Label != "" {
			label = k.Label
		}
	}
	r, _ := utf8.DecodeRuneInString(label)
	if r == utf8.RuneError {
		return '*'
	}
	return unicode.ToUpper(r)
}
