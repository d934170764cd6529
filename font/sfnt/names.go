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
	"bytes"
	"fmt"
	"slices"
	"strconv"

	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/post"
)

// makeGlyphOrder assigns a unique name to every glyph.  Names are taken
// from the "post" table where possible.  Other glyphs are named after the
// character they represent, or after their glyph ID.
func (f *Font) makeGlyphOrder() {
	numGlyphs := len(f.glyphs)
	names := make([]string, numGlyphs)

	if data, ok := f.tables["post"]; ok {
		info, err := post.Read(bytes.NewReader(data))
		if err == nil && len(info.Names) == numGlyphs {
			copy(names, info.Names)
		}
	}

	// lowest code point for every glyph
	chars := make(map[glyph.ID]rune)
	for r, gid := range f.charToGID {
		if prev, seen := chars[gid]; !seen || r < prev {
			chars[gid] = r
		}
	}

	if numGlyphs > 0 && names[0] == "" {
		names[0] = ".notdef"
	}
	for i, name := range names {
		if name != "" {
			continue
		}
		if r, ok := chars[glyph.ID(i)]; ok {
			if r > 0xFFFF {
				names[i] = fmt.Sprintf("u%05X", r)
			} else {
				names[i] = fmt.Sprintf("uni%04X", r)
			}
		} else {
			names[i] = fmt.Sprintf("glyph%05d", i)
		}
	}

	ids := make(map[string]glyph.ID, numGlyphs)
	for i, name := range names {
		if _, dup := ids[name]; dup {
			base := name
			for k := 1; ; k++ {
				name = base + "#" + strconv.Itoa(k)
				if _, dup := ids[name]; !dup {
					break
				}
			}
			names[i] = name
		}
		ids[name] = glyph.ID(i)
	}

	f.glyphOrder = names
	f.glyphIDs = ids
}

// GlyphOrder returns the names of all glyphs, indexed by glyph ID.
func (f *Font) GlyphOrder() []string {
	return slices.Clone(f.glyphOrder)
}

// GlyphName returns the name of the glyph with the given ID.
func (f *Font) GlyphName(gid glyph.ID) string {
	if int(gid) < len(f.glyphOrder) {
		return f.glyphOrder[gid]
	}
	return fmt.Sprintf("glyph%05d", gid)
}

// GlyphID returns the ID of the glyph with the given name.
func (f *Font) GlyphID(name string) (glyph.ID, bool) {
	gid, ok := f.glyphIDs[name]
	return gid, ok
}
