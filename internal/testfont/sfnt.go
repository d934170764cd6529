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

// Package testfont provides fonts for use in unit tests.
package testfont

import (
	"bytes"
	"fmt"

	"golang.org/x/image/font/gofont/goregular"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/maxp"
	"seehuhn.de/go/sfnt/post"

	"seehuhn.de/go/vtt/font/sfnt"
	"seehuhn.de/go/vtt/font/sfnt/head"
	"seehuhn.de/go/vtt/font/sfnt/outline"
)

// MakeGoRegular returns the Go Regular font.
func MakeGoRegular() *sfnt.Font {
	r := bytes.NewReader(goregular.TTF)
	info, err := sfnt.Read(r)
	if err != nil {
		panic(err)
	}
	return info
}

// Glyph describes a glyph of a synthetic test font.
type Glyph struct {
	Name string

	// Char is the character mapped to the glyph, or 0 for unmapped glyphs.
	Char rune

	// Contours gives the outline of a simple glyph.
	Contours []glyf.Contour

	// Components, if non-empty, makes the glyph a composite glyph.
	Components []Component

	Instructions []byte
}

// Component is a component of a composite test glyph.
type Component struct {
	Name string

	// Trfm uses the layout of glyf.ComponentUnpacked.Trfm.
	// The zero value is replaced by the identity.
	Trfm matrix.Matrix
}

// Offset returns a component shifted by (dx, dy).
func Offset(name string, dx, dy float64) Component {
	m := matrix.Identity
	m[4], m[5] = dx, dy
	return Component{Name: name, Trfm: m}
}

// Font describes a synthetic test font.
type Font struct {
	Glyphs []Glyph

	// Tables gives additional tables to include in the font.
	Tables map[string][]byte

	// Maxp, if set, is used for the interpreter limits in "maxp".
	Maxp *maxp.TTFInfo

	HeadFlags uint16
}

// Make builds the font described by desc.  A ".notdef" glyph is added at
// the start of the glyph order if desc does not begin with one.
func Make(desc *Font) *sfnt.Font {
	f, err := build(desc)
	if err != nil {
		panic(err)
	}
	return f
}

func build(desc *Font) (*sfnt.Font, error) {
	glyphs := desc.Glyphs
	if len(glyphs) == 0 || glyphs[0].Name != ".notdef" {
		glyphs = append([]Glyph{{Name: ".notdef", Contours: []glyf.Contour{Box(0, 0, 500, 700)}}}, glyphs...)
	}

	names := make([]string, len(glyphs))
	gids := make(map[string]glyph.ID, len(glyphs))
	for i, g := range glyphs {
		if _, dup := gids[g.Name]; dup {
			return nil, fmt.Errorf("duplicate glyph name %q", g.Name)
		}
		names[i] = g.Name
		gids[g.Name] = glyph.ID(i)
	}

	gg := make(glyf.Glyphs, len(glyphs))
	subtable := cmap.Format4{}
	for i, g := range glyphs {
		if g.Char != 0 {
			subtable[uint16(g.Char)] = glyph.ID(i)
		}

		switch {
		case len(g.Components) > 0:
			cg := glyf.CompositeGlyph{}
			for _, c := range g.Components {
				gid, ok := gids[c.Name]
				if !ok {
					return nil, fmt.Errorf("glyph %q: unknown component %q", g.Name, c.Name)
				}
				m := c.Trfm
				if m == (matrix.Matrix{}) {
					m = matrix.Identity
				}
				cu := &glyf.ComponentUnpacked{Child: gid, Trfm: m}
				cg.Components = append(cg.Components, cu.Pack())
			}
			comp, err := outline.WithInstructions(&glyf.Glyph{Data: cg}, g.Instructions)
			if err != nil {
				return nil, fmt.Errorf("glyph %q: %w", g.Name, err)
			}
			gg[i] = comp
		case len(g.Contours) > 0:
			su := &glyf.SimpleUnpacked{Contours: g.Contours, Instructions: g.Instructions}
			simple := su.AsGlyph()
			gg[i] = &simple
		default:
			if len(g.Instructions) > 0 {
				return nil, fmt.Errorf("glyph %q: empty glyph with instructions", g.Name)
			}
		}
	}
	enc := gg.Encode()

	headInfo := &head.Info{
		FontRevision:     0x00010000,
		Flags:            desc.HeadFlags,
		UnitsPerEm:       1000,
		IndexToLocFormat: enc.LocaFormat,
	}
	ttf := &maxp.TTFInfo{}
	if desc.Maxp != nil {
		*ttf = *desc.Maxp
	}
	maxpData := (&maxp.Info{NumGlyphs: len(glyphs), TTF: ttf}).Encode()
	cmapTable := cmap.Table{
		{PlatformID: 3, EncodingID: 1}: subtable.Encode(0),
	}
	postInfo := &post.Info{Names: names}

	tables := map[string][]byte{
		"head": headInfo.Encode(),
		"maxp": maxpData,
		"glyf": enc.GlyfData,
		"loca": enc.LocaData,
		"cmap": cmapTable.Encode(),
		"post": postInfo.Encode(),
	}
	for tag, data := range desc.Tables {
		tables[tag] = bytes.Clone(data)
	}

	return sfnt.New(sfnt.ScalerTypeTrueType, tables)
}

// Box returns a rectangular contour.
func Box(x0, y0, x1, y1 funit.Int16) glyf.Contour {
	return glyf.Contour{
		{X: x0, Y: y0, OnCurve: true},
		{X: x1, Y: y0, OnCurve: true},
		{X: x1, Y: y1, OnCurve: true},
		{X: x0, Y: y1, OnCurve: true},
	}
}

// Bowl returns a contour made of two quadratic curve segments and one
// straight line.
func Bowl(x0, y0, x1, y1 funit.Int16) glyf.Contour {
	xm := (x0 + x1) / 2
	return glyf.Contour{
		{X: x0, Y: y1, OnCurve: true},
		{X: x0, Y: y0, OnCurve: false},
		{X: xm, Y: y0, OnCurve: true},
		{X: x1, Y: y0, OnCurve: false},
		{X: x1, Y: y1, OnCurve: true},
	}
}
