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

	"seehuhn.de/go/sfnt/header"

	"seehuhn.de/go/vtt/font/sfnt/tsi"
)

// VTT decodes the VTT source tables of the font.  Tables which are not
// present in the font are left nil in the result.
func (f *Font) VTT() (*tsi.Tables, error) {
	res := &tsi.Tables{}

	var err error
	res.Assembly, err = f.decodePrograms("TSI0", "TSI1", tsi.AssemblyExtras)
	if err != nil {
		return nil, err
	}
	res.Talk, err = f.decodePrograms("TSI2", "TSI3", tsi.TalkExtras)
	if err != nil {
		return nil, err
	}
	if data, ok := f.tables["TSI5"]; ok {
		res.Groups, err = tsi.DecodeGroups(data, f.glyphOrder)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (f *Font) decodePrograms(indexTag, textTag string, extras tsi.ExtraNames) (*tsi.Programs, error) {
	index, hasIndex := f.tables[indexTag]
	text, hasText := f.tables[textTag]
	if !hasText {
		return nil, nil
	}
	if !hasIndex {
		return nil, &header.ErrMissing{TableName: indexTag}
	}
	p, err := tsi.DecodePrograms(index, text, extras, f.glyphOrder)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", textTag, err)
	}
	return p, nil
}

// SetVTT replaces the VTT source tables of the font.  The index tables are
// regenerated for the glyph order of f.  Tables corresponding to nil fields
// of t are left unchanged; use DeleteTable to remove them.
func (f *Font) SetVTT(t *tsi.Tables) {
	if t == nil {
		return
	}
	if t.Assembly != nil {
		f.setPrograms("TSI0", "TSI1", t.Assembly, tsi.AssemblyExtras)
	}
	if t.Talk != nil {
		f.setPrograms("TSI2", "TSI3", t.Talk, tsi.TalkExtras)
	}
	if t.Groups != nil {
		f.tables["TSI5"] = tsi.EncodeGroups(t.Groups, f.glyphOrder)
	}
}

func (f *Font) setPrograms(indexTag, textTag string, p *tsi.Programs, extras tsi.ExtraNames) {
	index, text := p.Encode(extras, f.glyphOrder)
	f.tables[indexTag] = index
	f.tables[textTag] = text
}
