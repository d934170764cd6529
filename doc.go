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

// Package vtt carries the hinting of a TrueType font, as authored in
// Microsoft's Visual TrueType (VTT), over to a newer revision of the same
// font.
//
// The new revision may add, remove, rename and reorder glyphs.  Glyphs are
// matched by character first, and by glyph name second.  Glyphs whose
// outline structure changed are skipped, since their old hints no longer
// apply.  For all other glyphs the glyph programs, the VTT assembly
// listings and the VTT talk sources are copied, and glyph IDs referenced
// by composite glyph listings are updated to the new glyph order.
//
// A typical update looks like this:
//
//	u, err := vtt.Open("old.ttf", "new.ttf", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_, err = u.Update()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = u.Write("out.ttf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The individual steps are available as the functions Resolve, Classify,
// TransplantPrograms, RewriteAssembly, MergeTables and SyncScalars.
package vtt
