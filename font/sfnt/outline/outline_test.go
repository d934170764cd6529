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

package outline

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/vtt/font"
)

var square = glyf.Contour{
	{X: 0, Y: 0, OnCurve: true},
	{X: 100, Y: 0, OnCurve: true},
	{X: 100, Y: 100, OnCurve: true},
	{X: 0, Y: 100, OnCurve: true},
}

var bowl = glyf.Contour{
	{X: 0, Y: 500, OnCurve: true},
	{X: 0, Y: 0, OnCurve: false},
	{X: 250, Y: 0, OnCurve: true},
	{X: 500, Y: 0, OnCurve: false},
	{X: 500, Y: 500, OnCurve: true},
}

func simple(instructions []byte, cc ...glyf.Contour) *glyf.Glyph {
	g := (&glyf.SimpleUnpacked{Contours: cc, Instructions: instructions}).AsGlyph()
	return &g
}

func composite(instructions []byte, comps ...glyf.ComponentUnpacked) *glyf.Glyph {
	cg := glyf.CompositeGlyph{}
	for _, c := range comps {
		cg.Components = append(cg.Components, c.Pack())
	}
	g, err := WithInstructions(&glyf.Glyph{Data: cg}, instructions)
	if err != nil {
		panic(err)
	}
	return g
}

func shifted(gid glyph.ID, dx, dy float64) glyf.ComponentUnpacked {
	return glyf.ComponentUnpacked{Child: gid, Trfm: matrix.Translate(dx, dy)}
}

func testGlyphs() glyf.Glyphs {
	return glyf.Glyphs{
		simple(nil, square),
		nil,
		simple([]byte{0xB0, 0x01, 0x2F}, square, bowl),
		composite([]byte{0x4B}, shifted(0, 0, 0), shifted(2, 300, -200)),
	}
}

func record(t *testing.T, gg glyf.Glyphs, gid glyph.ID) []Op {
	t.Helper()
	r := &Recorder{}
	if err := Draw(gg, gid, r); err != nil {
		t.Fatal(err)
	}
	return r.Ops
}

func kinds(ops []Op) []OpKind {
	var res []OpKind
	for _, op := range ops {
		res = append(res, op.Kind)
	}
	return res
}

func TestDrawSimple(t *testing.T) {
	ops := record(t, glyf.Glyphs{simple(nil, square, bowl)}, 0)

	want := []OpKind{
		OpMoveTo, OpLineTo, OpLineTo, OpLineTo, OpClosePath,
		OpMoveTo, OpQCurveTo, OpQCurveTo, OpClosePath,
	}
	if d := cmp.Diff(want, kinds(ops)); d != "" {
		t.Error(d)
	}
	if n := len(ops[6].Points); n != 2 {
		t.Errorf("quadratic segment has %d points, expected 2", n)
	}
}

func TestDrawOffCurveOnly(t *testing.T) {
	circle := glyf.Contour{
		{X: 0, Y: 100},
		{X: 100, Y: 0},
		{X: 0, Y: -100},
		{X: -100, Y: 0},
	}
	ops := record(t, glyf.Glyphs{simple(nil, circle)}, 0)
	if len(ops) != 2 || ops[0].Kind != OpQCurveTo || ops[1].Kind != OpClosePath {
		t.Errorf("unexpected operations %v", ops)
	}
	if len(ops[0].Points) != 4 {
		t.Errorf("got %d points, expected 4", len(ops[0].Points))
	}
}

func TestDrawComposite(t *testing.T) {
	gg := testGlyphs()
	ops := record(t, gg, 3)

	// the composite draws the square, then the square and the bowl
	want := []OpKind{
		OpMoveTo, OpLineTo, OpLineTo, OpLineTo, OpClosePath,
		OpMoveTo, OpLineTo, OpLineTo, OpLineTo, OpClosePath,
		OpMoveTo, OpQCurveTo, OpQCurveTo, OpClosePath,
	}
	if d := cmp.Diff(want, kinds(ops)); d != "" {
		t.Fatal(d)
	}

	// the component offset is applied
	if got := ops[5].Points[0]; got != (vec.Vec2{X: 300, Y: -200}) {
		t.Errorf("second component starts at %v", got)
	}
}

func TestDrawNested(t *testing.T) {
	gg := glyf.Glyphs{
		simple(nil, square),
		composite(nil, glyf.ComponentUnpacked{Child: 0, Trfm: matrix.Scale(2, 2)}),
		composite(nil, shifted(1, 10, 20)),
	}
	ops := record(t, gg, 2)
	if len(ops) != 5 {
		t.Fatalf("got %d operations, expected 5", len(ops))
	}

	// scale first, then shift
	wantPoints := []vec.Vec2{{X: 10, Y: 20}, {X: 210, Y: 20}, {X: 210, Y: 220}, {X: 10, Y: 220}}
	for i, want := range wantPoints {
		if got := ops[i].Points[0]; got != want {
			t.Errorf("point %d: got %v, want %v", i, got, want)
		}
	}
}

func TestDrawSameAsSimple(t *testing.T) {
	// a composite made of one unshifted component draws exactly like
	// the component itself
	gg := glyf.Glyphs{
		simple(nil, bowl),
		composite(nil, shifted(0, 0, 0)),
	}
	if d := cmp.Diff(record(t, gg, 0), record(t, gg, 1)); d != "" {
		t.Error(d)
	}
}

func TestDrawErrors(t *testing.T) {
	loop := glyf.Glyphs{
		simple(nil, square),
		composite(nil, shifted(0, 0, 0), shifted(2, 0, 0)),
		composite(nil, shifted(1, 0, 0)),
	}
	if err := Draw(loop, 1, &Recorder{}); !font.IsInvalid(err) {
		t.Errorf("component loop: wrong error %v", err)
	}

	// using the same component twice is not a loop
	twice := glyf.Glyphs{
		simple(nil, square),
		composite(nil, shifted(0, 0, 0), shifted(0, 200, 0)),
	}
	if err := Draw(twice, 1, &Recorder{}); err != nil {
		t.Error(err)
	}

	dangling := glyf.Glyphs{composite(nil, shifted(7, 0, 0))}
	if err := Draw(dangling, 0, &Recorder{}); !font.IsInvalid(err) {
		t.Errorf("missing component: wrong error %v", err)
	}
}

func TestInstructions(t *testing.T) {
	gg := testGlyphs()

	cases := []struct {
		gid  int
		want []byte
	}{
		{0, nil},
		{1, nil},
		{2, []byte{0xB0, 0x01, 0x2F}},
		{3, []byte{0x4B}},
	}
	for _, c := range cases {
		code, err := Instructions(gg[c.gid])
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(code, c.want) || (c.want == nil && code != nil) {
			t.Errorf("glyph %d: got % x, want % x", c.gid, code, c.want)
		}
	}
}

func TestWithInstructions(t *testing.T) {
	newCode := []byte{0xB1, 0x02, 0x03, 0x2F, 0x2F}

	gg := testGlyphs()
	for i, g := range gg {
		if g == nil {
			continue
		}
		g2, err := WithInstructions(g, newCode)
		if err != nil {
			t.Fatal(err)
		}
		code, err := Instructions(g2)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(code, newCode) {
			t.Errorf("%d: wrong instructions % x", i, code)
		}

		// the outline must not change
		gg2 := append(glyf.Glyphs(nil), gg...)
		gg2[i] = g2
		if d := cmp.Diff(record(t, gg, glyph.ID(i)), record(t, gg2, glyph.ID(i))); d != "" {
			t.Errorf("%d: outline changed:\n%s", i, d)
		}

		// the result must survive encoding
		dec, err := glyf.Decode(glyf.Glyphs{g2}.Encode())
		if err != nil {
			t.Fatal(err)
		}
		code, err = Instructions(dec[0])
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(code, newCode) {
			t.Errorf("%d: wrong instructions after encoding % x", i, code)
		}

		// removing the instructions
		g3, err := WithInstructions(g2, nil)
		if err != nil {
			t.Fatal(err)
		}
		code, err = Instructions(g3)
		if err != nil {
			t.Fatal(err)
		}
		if len(code) != 0 {
			t.Errorf("%d: instructions not removed: % x", i, code)
		}
	}

	// the original glyph is unchanged
	code, _ := Instructions(gg[2])
	if !bytes.Equal(code, []byte{0xB0, 0x01, 0x2F}) {
		t.Errorf("original glyph modified: % x", code)
	}

	if _, err := WithInstructions(nil, newCode); err == nil {
		t.Error("empty glyph accepted instructions")
	}
	if g, err := WithInstructions(nil, nil); err != nil || g != nil {
		t.Errorf("empty glyph without instructions: %v, %v", g, err)
	}
	if _, err := WithInstructions(gg[0], make([]byte, 0x10000)); err == nil {
		t.Error("oversized program accepted")
	}
}

func TestSameShape(t *testing.T) {
	p := vec.Vec2{X: 1, Y: 2}
	q := vec.Vec2{X: 3, Y: 4}
	cases := []struct {
		a, b Op
		want bool
	}{
		{Op{Kind: OpLineTo, Points: []vec.Vec2{p}}, Op{Kind: OpLineTo, Points: []vec.Vec2{q}}, true},
		{Op{Kind: OpLineTo, Points: []vec.Vec2{p}}, Op{Kind: OpMoveTo, Points: []vec.Vec2{p}}, false},
		{Op{Kind: OpQCurveTo, Points: []vec.Vec2{q, p}}, Op{Kind: OpQCurveTo, Points: []vec.Vec2{q, q, p}}, false},
		{Op{Kind: OpClosePath}, Op{Kind: OpNone}, false},
	}
	for i, c := range cases {
		if got := c.a.SameShape(c.b); got != c.want {
			t.Errorf("%d: got %t, want %t", i, got, c.want)
		}
	}
}
