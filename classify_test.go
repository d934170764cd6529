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

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/sfnt/glyf"

	"seehuhn.de/go/vtt/internal/testfont"
)

func TestCompareGlyphs(t *testing.T) {
	moved := []glyf.Contour{testfont.Box(10, 20, 600, 800)}
	twoBoxes := []glyf.Contour{testfont.Box(0, 0, 100, 100), testfont.Box(200, 0, 300, 100)}

	cases := []struct {
		src, dst   testfont.Glyph
		compatible bool
	}{
		{simple("g", 'g', box), simple("g", 'g', box), true},
		{simple("g", 'g', box), simple("g", 'g', moved), true},
		{simple("g", 'g', box), simple("g", 'g', bowl), false},
		{simple("g", 'g', box), simple("g", 'g', twoBoxes), false},
		{simple("g", 'g', nil), simple("g", 'g', nil), true},
		{simple("g", 'g', nil), simple("g", 'g', box), false},
		{simple("g", 'g', box), composite("g", 'g', testfont.Component{Name: "base"}), true},
		{composite("g", 'g', testfont.Component{Name: "base"}), simple("g", 'g', box), true},
		{simple("g", 'g', box), composite("g", 'g', testfont.Component{Name: "mark"}), false},
		{
			simple("g", 'g', twoBoxes),
			composite("g", 'g', testfont.Component{Name: "base"}, testfont.Offset("base", 200, 0)),
			true,
		},
		{
			composite("g", 'g', testfont.Component{Name: "base"}, testfont.Component{Name: "mark"}),
			composite("g", 'g', testfont.Component{Name: "base"}, testfont.Offset("mark", 50, 600)),
			true,
		},
		{
			composite("g", 'g', testfont.Component{Name: "base"}),
			composite("g", 'g', testfont.Component{Name: "base", Trfm: matrix.Matrix{-1, 0, 0, 1, 500, 0}}),
			true,
		},
		{
			composite("g", 'g', testfont.Component{Name: "base"}, testfont.Component{Name: "mark"}),
			composite("g", 'g', testfont.Component{Name: "base"}),
			false,
		},
		{
			composite("g", 'g', testfont.Component{Name: "base"}, testfont.Component{Name: "mark"}),
			composite("g", 'g', testfont.Component{Name: "mark"}, testfont.Component{Name: "base"}),
			false,
		},
	}
	for i, c := range cases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			common := []testfont.Glyph{
				simple("base", 'b', box),
				simple("mark", 'm', bowl),
			}
			src := testfont.Make(&testfont.Font{Glyphs: append(common, c.src)})
			dst := testfont.Make(&testfont.Font{Glyphs: append(common, c.dst)})

			reason, err := compareGlyphs(src, dst, "g", "g")
			if err != nil {
				t.Fatal(err)
			}
			if got := reason == ""; got != c.compatible {
				t.Errorf("compatible = %t, want %t (reason %q)", got, c.compatible, reason)
			}
		})
	}
}

// A composite glyph is incompatible if one of its components changed,
// even though the component names are the same.
func TestClassifyChangedComponent(t *testing.T) {
	src := testfont.Make(&testfont.Font{
		Glyphs: []testfont.Glyph{
			simple("X", 'X', box),
			composite("E", 'E', testfont.Component{Name: "X"}),
			composite("F", 'F', testfont.Offset("X", 100, 0)),
		},
	})
	dst := testfont.Make(&testfont.Font{
		Glyphs: []testfont.Glyph{
			simple("X", 'X', bowl),
			composite("E", 'E', testfont.Component{Name: "X"}),
			simple("F", 'F', box),
		},
	})

	log, hook := newLogger()
	bad, err := Classify(src, dst, Resolve(src, dst, nil), &ClassifyOptions{Log: log})
	if err != nil {
		t.Fatal(err)
	}
	// F is a composite in the source and a simple glyph with the same
	// outline in the target.
	if d := cmp.Diff([]string{"X", "E"}, bad.Names()); d != "" {
		t.Errorf("incompatible glyphs (-want +got):\n%s", d)
	}
	if n := len(warnings(hook)); n != 2 {
		t.Errorf("got %d warnings, expected 2", n)
	}
}

func TestClassifyUnresolvedTarget(t *testing.T) {
	src := testfont.Make(&testfont.Font{
		Glyphs: []testfont.Glyph{simple("A", 'A', box)},
	})
	dst := testfont.Make(&testfont.Font{
		Glyphs: []testfont.Glyph{simple("A", 'A', box)},
	})
	corr := &Correspondence{m: map[string]string{
		".notdef": ".notdef",
		"A":       "missing",
	}}
	log, hook := newLogger()
	bad, err := Classify(src, dst, corr, &ClassifyOptions{Log: log})
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]string{"A"}, bad.Names()); d != "" {
		t.Error(d)
	}
	if len(warnings(hook)) != 0 {
		t.Error("unresolved glyph was reported")
	}
}

// The result and the diagnostics must not depend on the number of workers.
func TestClassifyWorkers(t *testing.T) {
	var srcGlyphs, dstGlyphs []testfont.Glyph
	for i := range 80 {
		name := fmt.Sprintf("g%02d", i)
		r := rune(0x100 + i)
		srcGlyphs = append(srcGlyphs, simple(name, r, box))
		switch i % 5 {
		case 0:
			dstGlyphs = append(dstGlyphs, simple(name, r, bowl))
		case 3:
			// glyph removed from the target
		default:
			dstGlyphs = append(dstGlyphs, simple(name, r, box))
		}
	}
	src := testfont.Make(&testfont.Font{Glyphs: srcGlyphs})
	dst := testfont.Make(&testfont.Font{Glyphs: dstGlyphs})
	corr := Resolve(src, dst, nil)

	type result struct {
		Names    []string
		Messages []string
	}
	run := func(workers int) result {
		log, hook := newLogger()
		bad, err := Classify(src, dst, corr, &ClassifyOptions{Log: log, Workers: workers})
		if err != nil {
			t.Fatal(err)
		}
		res := result{Names: bad.Names()}
		for _, e := range warnings(hook) {
			res.Messages = append(res.Messages, e.Message)
		}
		return res
	}

	want := run(1)
	if len(want.Names) != 32 || len(want.Messages) != 16 {
		t.Fatalf("got %d incompatible glyphs and %d warnings", len(want.Names), len(want.Messages))
	}
	if want.Messages[0] != "g00/g00 is incompatible" {
		t.Errorf("wrong first message %q", want.Messages[0])
	}
	for _, workers := range []int{0, 2, 7, 32} {
		got := run(workers)
		if d := cmp.Diff(want, got); d != "" {
			t.Errorf("%d workers (-want +got):\n%s", workers, d)
		}
	}
}

func TestClassifyNilLogger(t *testing.T) {
	src := testfont.Make(&testfont.Font{
		Glyphs: []testfont.Glyph{simple("A", 'A', box)},
	})
	dst := testfont.Make(&testfont.Font{
		Glyphs: []testfont.Glyph{simple("A", 'A', bowl)},
	})
	bad, err := Classify(src, dst, Resolve(src, dst, nil), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bad.Has("A") || bad.Has(".notdef") {
		t.Errorf("wrong incompatible set %v", bad.Names())
	}
}
