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
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/vtt/internal/testfont"
)

func correspondenceMap(c *Correspondence) map[string]string {
	res := make(map[string]string)
	for _, k := range c.Keys() {
		res[k], _ = c.Lookup(k)
	}
	return res
}

func TestResolve(t *testing.T) {
	// "A" and "B" swap their characters; "ornament" is unmapped but
	// present in both fonts; "gone" only exists in the source.
	src := testfont.Make(&testfont.Font{
		Glyphs: []testfont.Glyph{
			simple("A", 'A', box),
			simple("B", 'B', box),
			simple("C", 'C', box),
			simple("ornament", 0, box),
			simple("gone", 'G', box),
		},
	})
	dst := testfont.Make(&testfont.Font{
		Glyphs: []testfont.Glyph{
			simple("B", 'A', box),
			simple("A", 'B', box),
			simple("C.new", 'C', box),
			simple("ornament", 0, box),
		},
	})

	cases := []struct {
		opt  *ResolveOptions
		want map[string]string
	}{
		{
			opt: nil,
			want: map[string]string{
				".notdef":  ".notdef",
				"A":        "A",
				"B":        "B",
				"C":        "C.new",
				"ornament": "ornament",
			},
		},
		{
			opt: &ResolveOptions{NameFillsGaps: true},
			want: map[string]string{
				".notdef":  ".notdef",
				"A":        "B",
				"B":        "A",
				"C":        "C.new",
				"ornament": "ornament",
			},
		},
	}
	for i, c := range cases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			corr := Resolve(src, dst, c.opt)
			if d := cmp.Diff(c.want, correspondenceMap(corr)); d != "" {
				t.Errorf("wrong correspondence (-want +got):\n%s", d)
			}
			if corr.Len() != len(c.want) {
				t.Errorf("Len() = %d, want %d", corr.Len(), len(c.want))
			}
			if _, ok := corr.Lookup("gone"); ok {
				t.Error("unmatched glyph has a target")
			}
		})
	}
}

func TestResolveRenamed(t *testing.T) {
	src := testfont.Make(&testfont.Font{
		Glyphs: []testfont.Glyph{
			simple("one", '1', box),
			simple("one.alt", '¹', box),
		},
	})
	dst := testfont.Make(&testfont.Font{
		Glyphs: []testfont.Glyph{
			simple("uni0031", '1', box),
			simple("onesuperior", '¹', box),
		},
	})
	corr := Resolve(src, dst, nil)
	want := map[string]string{
		".notdef": ".notdef",
		"one":     "uni0031",
		"one.alt": "onesuperior",
	}
	if d := cmp.Diff(want, correspondenceMap(corr)); d != "" {
		t.Error(d)
	}
}
