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

package outline

import (
	"slices"

	"seehuhn.de/go/sfnt/glyf"

	"seehuhn.de/go/vtt/font"
)

// Instructions returns the TrueType bytecode attached to a glyph.
// The result is nil for empty glyphs and for glyphs without instructions.
// The returned slice shares memory with g.
func Instructions(g *glyf.Glyph) ([]byte, error) {
	if g == nil {
		return nil, nil
	}
	switch d := g.Data.(type) {
	case glyf.SimpleGlyph:
		start, end, err := locateProgram(d)
		if err != nil {
			return nil, err
		}
		if start == end {
			return nil, nil
		}
		return d.Encoded[start:end], nil
	case glyf.CompositeGlyph:
		if len(d.Instructions) == 0 {
			return nil, nil
		}
		return d.Instructions, nil
	default:
		panic("unexpected glyph type")
	}
}

// WithInstructions returns a copy of g where the TrueType bytecode has been
// replaced by code.  The outline data is kept byte for byte, and g is not
// modified.  Empty glyphs cannot carry instructions; for these an error is
// returned unless code is empty.
func WithInstructions(g *glyf.Glyph, code []byte) (*glyf.Glyph, error) {
	if len(code) > 0xFFFF {
		return nil, errProgramTooLong
	}
	if g == nil {
		if len(code) == 0 {
			return nil, nil
		}
		return nil, errEmptyGlyph
	}

	g2 := &glyf.Glyph{Rect16: g.Rect16}
	switch d := g.Data.(type) {
	case glyf.SimpleGlyph:
		start, end, err := locateProgram(d)
		if err != nil {
			return nil, err
		}
		old := d.Encoded
		buf := make([]byte, 0, len(old)-(end-start)+len(code))
		buf = append(buf, old[:start-2]...)
		buf = append(buf, byte(len(code)>>8), byte(len(code)))
		buf = append(buf, code...)
		buf = append(buf, old[end:]...)
		g2.Data = glyf.SimpleGlyph{
			NumContours: d.NumContours,
			Encoded:     buf,
		}
	case glyf.CompositeGlyph:
		if len(d.Components) == 0 {
			return nil, errInvalidGlyph
		}
		comps := slices.Clone(d.Components)
		for i := range comps {
			comps[i].Flags &^= glyf.FlagWeHaveInstructions
		}
		var instr []byte
		if len(code) > 0 {
			comps[len(comps)-1].Flags |= glyf.FlagWeHaveInstructions
			instr = slices.Clone(code)
		}
		g2.Data = glyf.CompositeGlyph{
			Components:   comps,
			Instructions: instr,
		}
	default:
		panic("unexpected glyph type")
	}
	return g2, nil
}

// locateProgram finds the instructions inside the encoded data of a simple
// glyph.  The instructionLength field occupies the two bytes before start.
func locateProgram(g glyf.SimpleGlyph) (start, end int, err error) {
	pos := 2 * int(g.NumContours)
	if pos+2 > len(g.Encoded) {
		return 0, 0, errInvalidGlyph
	}
	n := int(g.Encoded[pos])<<8 | int(g.Encoded[pos+1])
	start = pos + 2
	end = start + n
	if end > len(g.Encoded) {
		return 0, 0, errInvalidGlyph
	}
	return start, end, nil
}

var (
	errInvalidGlyph = &font.InvalidFontError{
		SubSystem: "sfnt/glyf",
		Reason:    "invalid glyph data",
	}
	errEmptyGlyph = &font.InvalidFontError{
		SubSystem: "sfnt/glyf",
		Reason:    "empty glyph cannot carry instructions",
	}
	errProgramTooLong = &font.InvalidFontError{
		SubSystem: "sfnt/glyf",
		Reason:    "glyph program too long",
	}
)
