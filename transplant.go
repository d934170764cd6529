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

package vtt

import (
	"seehuhn.de/go/vtt/font/sfnt"
)

// TransplantPrograms copies the TrueType instructions of all compatible
// source glyphs to the matching target glyphs.  Target glyphs whose source
// glyph has no instructions are not changed.  The return value is the
// number of glyph programs copied.
func TransplantPrograms(src, dst *sfnt.Font, corr *Correspondence, bad *IncompatibleSet) (int, error) {
	count := 0
	for _, name := range src.GlyphOrder() {
		if bad.Has(name) {
			continue
		}
		target, ok := corr.Lookup(name)
		if !ok {
			return count, &LookupError{Glyph: name, Ref: "the matching target glyph"}
		}

		code, err := src.Instructions(name)
		if err != nil {
			return count, err
		}
		if len(code) == 0 {
			continue
		}
		err = dst.SetInstructions(target, code)
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
