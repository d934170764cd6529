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
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
)

// readCMap decodes the best Unicode subtable of the "cmap" table.
// Fonts without a usable subtable get an empty character map.
func (f *Font) readCMap() error {
	f.charToGID = make(map[rune]glyph.ID)

	data, ok := f.tables["cmap"]
	if !ok {
		return nil
	}
	table, err := cmap.Decode(data)
	if err != nil {
		return err
	}
	subtable, err := table.GetBest()
	if err != nil {
		// no Unicode subtable
		return nil
	}

	numGlyphs := len(f.glyphs)
	low, high := subtable.CodeRange()
	for r := low; r <= high; r++ {
		gid := subtable.Lookup(r)
		if gid != 0 && int(gid) < numGlyphs {
			f.charToGID[r] = gid
		}
	}
	return nil
}

// CharToGlyph returns the mapping from characters to glyph names given by
// the font's character map.
func (f *Font) CharToGlyph() map[rune]string {
	res := make(map[rune]string, len(f.charToGID))
	for r, gid := range f.charToGID {
		res[r] = f.glyphOrder[gid]
	}
	return res
}

// GlyphToChar returns the inverse of the font's character map.  If several
// characters map to the same glyph, the highest code point is used.
func (f *Font) GlyphToChar() map[string]rune {
	res := make(map[string]rune, len(f.charToGID))
	for r, gid := range f.charToGID {
		name := f.glyphOrder[gid]
		if prev, seen := res[name]; !seen || r > prev {
			res[name] = r
		}
	}
	return res
}
