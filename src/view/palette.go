package view

import (
	"bytes"

	"github.com/logrusorgru/aurora"

	"polylife/src/universe"
)

//Palette maps a cell value to the glyph it is drawn with
type Palette []string

//DefaultPalette follows the classic color table: dead, blue, crimson, amber
func DefaultPalette() Palette {
	return Palette{
		"░",
		aurora.Colorize("█", aurora.BlueFg).String(),
		aurora.Colorize("█", aurora.RedFg).String(),
		aurora.Colorize("█", aurora.YellowFg).String(),
	}
}

//Glyph returns the glyph of the cell value, values past the end of the palette use the last entry
func (p Palette) Glyph(c universe.Cell) string {
	if len(p) == 0 {
		return " "
	}
	idx := int(c)
	if idx >= len(p) {
		idx = len(p) - 1
	}
	return p[idx]
}

//Render writes the area row by row, cropping it to maxW x maxH when they are positive
//reports whether the area was cropped
func (p Palette) Render(b *bytes.Buffer, a universe.Area, maxW int, maxH int) (cropped bool) {
	for i, l := range a.Entities {
		if maxH > 0 && i >= maxH {
			return true
		}
		//line feed char
		if i != 0 {
			b.WriteByte(10)
		}
		for j, e := range l {
			if maxW > 0 && j >= maxW {
				cropped = true
				break
			}
			b.WriteString(p.Glyph(e))
		}
	}
	return
}
