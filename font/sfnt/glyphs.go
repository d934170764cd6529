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

package sfnt

import (
	"fmt"
	"slices"

	"seehuhn.de/go/sfnt/glyf"

	"seehuhn.de/go/vtt/font"
	"seehuhn.de/go/vtt/font/sfnt/outline"
)

// Component is one component of a composite glyph, with the referenced
// glyph given by name.
type Component struct {
	Name string
	glyf.ComponentUnpacked
}

// UnknownGlyphError is returned when a glyph name is not in the glyph order.
type UnknownGlyphError struct {
	Name string
}

func (err *UnknownGlyphError) Error() string {
	return fmt.Sprintf("sfnt: unknown glyph %q", err.Name)
}

func (f *Font) lookup(name string) (*glyf.Glyph, error) {
	gid, ok := f.glyphIDs[name]
	if !ok {
		return nil, &UnknownGlyphError{Name: name}
	}
	return f.glyphs[gid], nil
}

// IsComposite returns true if the named glyph is a composite glyph.
func (f *Font) IsComposite(name string) (bool, error) {
	g, err := f.lookup(name)
	if err != nil {
		return false, err
	}
	if g == nil {
		return false, nil
	}
	_, ok := g.Data.(glyf.CompositeGlyph)
	return ok, nil
}

// Draw replays the outline of the named glyph.  Composite glyphs are
// decomposed, with the component transformations applied.
func (f *Font) Draw(name string, pen outline.Pen) error {
	gid, ok := f.glyphIDs[name]
	if !ok {
		return &UnknownGlyphError{Name: name}
	}
	return outline.Draw(f.glyphs, gid, pen)
}

// Components returns the components of the named glyph.  The result is
// empty for simple glyphs.
func (f *Font) Components(name string) ([]Component, error) {
	g, err := f.lookup(name)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, nil
	}
	cg, ok := g.Data.(glyf.CompositeGlyph)
	if !ok {
		return nil, nil
	}
	res := make([]Component, len(cg.Components))
	for i, comp := range cg.Components {
		if int(comp.GlyphIndex) >= len(f.glyphOrder) {
			return nil, &font.InvalidFontError{
				SubSystem: "sfnt/glyf",
				Reason: fmt.Sprintf("glyph %q references invalid glyph %d",
					name, comp.GlyphIndex),
			}
		}
		info, err := comp.Unpack()
		if err != nil {
			return nil, fmt.Errorf("glyph %q: %w", name, err)
		}
		res[i] = Component{
			Name:              f.glyphOrder[comp.GlyphIndex],
			ComponentUnpacked: *info,
		}
	}
	return res, nil
}

// Instructions returns a copy of the TrueType instructions of the named
// glyph.  The result is nil if the glyph has no instructions.
func (f *Font) Instructions(name string) ([]byte, error) {
	g, err := f.lookup(name)
	if err != nil {
		return nil, err
	}
	code, err := outline.Instructions(g)
	if err != nil {
		return nil, err
	}
	return slices.Clone(code), nil
}

// SetInstructions replaces the TrueType instructions of the named glyph.
func (f *Font) SetInstructions(name string, code []byte) error {
	gid, ok := f.glyphIDs[name]
	if !ok {
		return &UnknownGlyphError{Name: name}
	}
	g, err := outline.WithInstructions(f.glyphs[gid], code)
	if err != nil {
		return fmt.Errorf("glyph %q: %w", name, err)
	}
	f.glyphs[gid] = g
	f.glyphsDirty = true
	return nil
}
