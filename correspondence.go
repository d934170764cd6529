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
	"slices"

	"seehuhn.de/go/vtt/font/sfnt"
)

// Correspondence maps source glyph names to target glyph names.
// A Correspondence is not modified after construction.
type Correspondence struct {
	m map[string]string
}

// ResolveOptions controls how glyphs are matched.
type ResolveOptions struct {
	// NameFillsGaps, if set, restricts matching by glyph name to source
	// glyphs which could not be matched by character.  By default a glyph
	// name present in both fonts overrides a match by character.
	NameFillsGaps bool
}

// Resolve matches the glyphs of src to the glyphs of dst.
//
// Two glyphs match if they are mapped to the same character by the
// character maps of the fonts.  In addition, a source glyph matches the
// target glyph with the same name.  If several glyphs in src map to the
// same character, only one of them is matched.
func Resolve(src, dst *sfnt.Font, opt *ResolveOptions) *Correspondence {
	if opt == nil {
		opt = &ResolveOptions{}
	}

	m := make(map[string]string)
	dstGlyphs := dst.CharToGlyph()
	for name, r := range src.GlyphToChar() {
		if target, ok := dstGlyphs[r]; ok {
			m[name] = target
		}
	}

	for _, name := range src.GlyphOrder() {
		if _, ok := dst.GlyphID(name); !ok {
			continue
		}
		if _, matched := m[name]; matched && opt.NameFillsGaps {
			continue
		}
		m[name] = name
	}

	return &Correspondence{m: m}
}

// Lookup returns the target glyph name for a source glyph name.
func (c *Correspondence) Lookup(src string) (string, bool) {
	dst, ok := c.m[src]
	return dst, ok
}

// Len returns the number of matched glyphs.
func (c *Correspondence) Len() int {
	return len(c.m)
}

// Keys returns the matched source glyph names in sorted order.
func (c *Correspondence) Keys() []string {
	res := make([]string, 0, len(c.m))
	for k := range c.m {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}
