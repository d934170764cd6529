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
	"iter"
	"maps"
	"slices"

	"seehuhn.de/go/vtt/font/sfnt"
	"seehuhn.de/go/vtt/font/sfnt/tsi"
)

// hintTables are the font-wide tables used by TrueType instructions.
var hintTables = []string{"cvt ", "fpgm", "prep"}

// MergeTables copies the font-wide hinting tables and the VTT source tables
// from src to dst.  srcVTT holds the VTT tables of src, possibly with
// rewritten assembly listings.
//
// The glyph programs in the "TSI1" and "TSI3" tables and the glyph groups
// in "TSI5" are restricted to the compatible glyphs, and renamed to the
// matching target glyphs.  All other tables are copied unchanged.  Tables missing from src are left unchanged
// in dst.
func MergeTables(src, dst *sfnt.Font, srcVTT *tsi.Tables, corr *Correspondence, bad *IncompatibleSet) error {
	for _, tag := range hintTables {
		if !src.HasTable(tag) {
			continue
		}
		data, err := src.Table(tag)
		if err != nil {
			return err
		}
		err = dst.SetTable(tag, data)
		if err != nil {
			return err
		}
	}

	if srcVTT == nil {
		return nil
	}
	merged := &tsi.Tables{
		Assembly: filterPrograms(src, srcVTT.Assembly, corr, bad),
		Talk:     filterPrograms(src, srcVTT.Talk, corr, bad),
	}
	if srcVTT.Groups != nil {
		merged.Groups = make(map[string]uint16, len(srcVTT.Groups))
		for _, name := range compatibleNames(src, maps.Keys(srcVTT.Groups), corr, bad) {
			target, _ := corr.Lookup(name)
			merged.Groups[target] = srcVTT.Groups[name]
		}
	}
	dst.SetVTT(merged)
	return nil
}

// filterPrograms returns the programs of compatible glyphs, keyed by target
// glyph name.  If two source glyphs match the same target glyph, the one
// later in the source glyph order wins.
func filterPrograms(src *sfnt.Font, p *tsi.Programs, corr *Correspondence, bad *IncompatibleSet) *tsi.Programs {
	if p == nil {
		return nil
	}

	keys := compatibleNames(src, maps.Keys(p.Glyphs), corr, bad)

	res := &tsi.Programs{
		Glyphs: make(map[string]string, len(keys)),
		Extras: maps.Clone(p.Extras),
	}
	if res.Extras == nil {
		res.Extras = make(map[string]string)
	}
	for _, name := range keys {
		target, _ := corr.Lookup(name)
		res.Glyphs[target] = p.Glyphs[name]
	}
	return res
}

// compatibleNames returns the source glyph names from names which are
// matched and compatible, in source glyph order.
func compatibleNames(src *sfnt.Font, names iter.Seq[string], corr *Correspondence, bad *IncompatibleSet) []string {
	var keys []string
	for name := range names {
		if bad.Has(name) {
			continue
		}
		if _, ok := corr.Lookup(name); !ok {
			continue
		}
		keys = append(keys, name)
	}
	slices.SortFunc(keys, func(a, b string) int {
		gidA, _ := src.GlyphID(a)
		gidB, _ := src.GlyphID(b)
		return int(gidA) - int(gidB)
	})
	return keys
}
