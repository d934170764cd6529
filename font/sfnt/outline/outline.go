// seehuhn.de/go/vtt - carry VTT hinting across font revisions
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package outline replays TrueType glyph outlines and edits the glyph
// programs stored in the "glyf" table.
//
// Composite glyphs are decomposed: the contours of every component are
// drawn with the component transformation applied, so that a composite
// glyph and a simple glyph with the same contours produce the same drawing
// operations.
package outline

import (
	"fmt"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/vtt/font"
)

// Pen receives the drawing operations of a glyph outline.
// Quadratic curve segments may contain several off-curve points, with
// implied on-curve points between consecutive off-curve points.
type Pen interface {
	MoveTo(p vec.Vec2)
	LineTo(p vec.Vec2)
	QCurveTo(pp ...vec.Vec2)
	ClosePath()
}

// Draw replays the outline of glyph gid.  Components are resolved in gg.
//
// Components which are positioned by matching points are drawn without
// an offset.  An error is returned if a component refers to a glyph
// outside gg, or if a composite glyph contains itself.
func Draw(gg glyf.Glyphs, gid glyph.ID, pen Pen) error {
	d := &drawer{
		glyphs: gg,
		pen:    pen,
		active: make(map[glyph.ID]bool),
	}
	return d.draw(gid, matrix.Identity)
}

type drawer struct {
	glyphs glyf.Glyphs
	pen    Pen

	// active holds the composite glyphs currently being expanded.
	active map[glyph.ID]bool
}

func (d *drawer) draw(gid glyph.ID, M matrix.Matrix) error {
	if int(gid) >= len(d.glyphs) {
		return &font.InvalidFontError{
			SubSystem: "sfnt/glyf",
			Reason:    fmt.Sprintf("component refers to invalid glyph %d", gid),
		}
	}
	g := d.glyphs[gid]
	if g == nil {
		return nil
	}

	switch data := g.Data.(type) {
	case glyf.SimpleGlyph:
		info, err := data.Unpack()
		if err != nil {
			return err
		}
		for _, cc := range info.Contours {
			drawContour(d.pen, cc, M)
		}
	case glyf.CompositeGlyph:
		if d.active[gid] {
			return &font.InvalidFontError{
				SubSystem: "sfnt/glyf",
				Reason:    fmt.Sprintf("glyph %d contains itself", gid),
			}
		}
		d.active[gid] = true
		defer delete(d.active, gid)

		for _, comp := range data.Components {
			cu, err := comp.Unpack()
			if err != nil {
				return err
			}
			err = d.draw(cu.Child, cu.Trfm.Mul(M))
			if err != nil {
				return err
			}
		}
	default:
		panic("unexpected glyph type")
	}
	return nil
}

func drawContour(pen Pen, cc glyf.Contour, M matrix.Matrix) {
	n := len(cc)
	if n == 0 {
		return
	}
	at := func(p glyf.Point) vec.Vec2 {
		x, y := M.Apply(float64(p.X), float64(p.Y))
		return vec.Vec2{X: x, Y: y}
	}

	offs := -1
	for i, p := range cc {
		if p.OnCurve {
			offs = i
			break
		}
	}
	if offs < 0 {
		// all points are off-curve
		pp := make([]vec.Vec2, n)
		for i, p := range cc {
			pp[i] = at(p)
		}
		pen.QCurveTo(pp...)
		pen.ClosePath()
		return
	}

	pen.MoveTo(at(cc[offs]))
	var pending []vec.Vec2
	for k := 1; k <= n; k++ {
		p := cc[(offs+k)%n]
		if !p.OnCurve {
			pending = append(pending, at(p))
			continue
		}
		if k == n && len(pending) == 0 {
			break // the closing line is implied
		}
		if len(pending) == 0 {
			pen.LineTo(at(p))
		} else {
			pending = append(pending, at(p))
			pen.QCurveTo(pending...)
			pending = nil
		}
	}
	pen.ClosePath()
}
