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

package legacy

import (
	"bytes"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/sfnt/glyf"

	"seehuhn.de/go/vtt"
	"seehuhn.de/go/vtt/font/sfnt"
	"seehuhn.de/go/vtt/internal/testfont"
)

const testXML = `<?xml version="1.0" encoding="UTF-8"?>
<ttFont>
  <glyf>
    <TTGlyph ID="3" name="Aacute">
      <instructions>
        <talk>/* composite */</talk>
        <assembly>SVTCA[Y]
OFFSET[R], 1, 0, 0
OFFSET[R], 2, 120, 700
OFFSET[r], 1, 0, 0</assembly>
      </instructions>
    </TTGlyph>
    <TTGlyph ID="1" name="A">
      <instructions>
        <talk></talk>
        <assembly>MIAP[R], 1, 2</assembly>
      </instructions>
    </TTGlyph>
    <TTGlyph ID="2" name="B">
      <instructions>
        <talk>YAnchor(1)</talk>
        <assembly></assembly>
      </instructions>
    </TTGlyph>
  </glyf>
</ttFont>
`

func testFonts() (src, dst *sfnt.Font) {
	box := []glyf.Contour{testfont.Box(0, 0, 500, 700)}
	src = testfont.Make(&testfont.Font{
		Glyphs: []testfont.Glyph{
			{Name: "A", Char: 'A', Contours: box},
			{Name: "B", Char: 'B', Contours: box},
			{Name: "Aacute", Char: 'Á', Contours: box},
			{Name: "gone", Contours: box},
		},
	})
	dst = testfont.Make(&testfont.Font{
		Glyphs: []testfont.Glyph{
			{Name: "B", Char: 'B', Contours: box},
			{Name: "A", Char: 'A', Contours: box},
			{Name: "new", Contours: box},
			{Name: "Aacute", Char: 'Á', Contours: box},
		},
	})
	return src, dst
}

type glyphInfo struct {
	ID       string
	Assembly string
}

// node is used to read back the output.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nodes   []*node    `xml:",any"`
}

func (n *node) find(name string) *node {
	for _, c := range n.Nodes {
		if c.XMLName.Local == name {
			return c
		}
		if res := c.find(name); res != nil {
			return res
		}
	}
	return nil
}

func (n *node) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func collect(t *testing.T, data []byte) []glyphInfo {
	t.Helper()
	root := &node{}
	if err := xml.Unmarshal(data, root); err != nil {
		t.Fatal(err)
	}
	var res []glyphInfo
	for _, g := range root.find("glyf").Nodes {
		res = append(res, glyphInfo{
			ID:       g.attr("ID"),
			Assembly: g.find("assembly").Text,
		})
	}
	return res
}

func updated(t *testing.T, in string) string {
	t.Helper()
	src, dst := testFonts()
	u, err := New(src, dst, strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if err := u.Update(); err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	if err := u.Write(buf); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestUpdate(t *testing.T) {
	out := updated(t, testXML)

	want := []glyphInfo{
		{
			ID:       "4",
			Assembly: "SVTCA[Y]\nOFFSET[R], 2, 0, 0\nOFFSET[R], 1, 120, 700\nOFFSET[r], 1, 0, 0",
		},
		{ID: "1", Assembly: "MIAP[R], 1, 2"},
		{ID: "1", Assembly: ""},
	}
	if d := cmp.Diff(want, collect(t, []byte(out))); d != "" {
		t.Errorf("wrong result (-want +got):\n%s", d)
	}

	// apart from the glyph IDs, the document is unchanged
	expected := strings.NewReplacer(
		`ID="3"`, `ID="4"`,
		`ID="2"`, `ID="1"`,
		"OFFSET[R], 1, 0, 0", "OFFSET[R], 2, 0, 0",
		"OFFSET[R], 2, 120, 700", "OFFSET[R], 1, 120, 700",
	).Replace(testXML)
	if d := cmp.Diff(expected, out); d != "" {
		t.Errorf("wrong output (-want +got):\n%s", d)
	}
}

// Text, comments and child elements keep their order.
func TestUpdateMixedContent(t *testing.T) {
	in := `<ttFont xmlns:v="urn:x-vtt">
<!-- exported -->
<glyf>
<TTGlyph ID="3" v:name="Aacute">before<instructions>
  <talk>/* talk */</talk> between
  <assembly>OFFSET[R], 1, 0, 0<!-- split -->
OFFSET[R], 2, 120, 700<![CDATA[
SVTCA[X]]]></assembly>
after</instructions> tail</TTGlyph>
</glyf>
</ttFont>
`
	want := xml.Header + `<ttFont xmlns:v="urn:x-vtt">
<!-- exported -->
<glyf>
<TTGlyph ID="4" v:name="Aacute">before<instructions>
  <talk>/* talk */</talk> between
  <assembly>OFFSET[R], 2, 0, 0<!-- split -->
OFFSET[R], 1, 120, 700
SVTCA[X]</assembly>
after</instructions> tail</TTGlyph>
</glyf>
</ttFont>
`
	if d := cmp.Diff(want, updated(t, in)); d != "" {
		t.Errorf("wrong output (-want +got):\n%s", d)
	}
}

func TestUpdateUnknownID(t *testing.T) {
	src, dst := testFonts()
	in := strings.Replace(testXML, `ID="2"`, `ID="4"`, 1)
	u, err := New(src, dst, strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	err = u.Update()
	var lookupErr *vtt.LookupError
	if !errors.As(err, &lookupErr) || lookupErr.Glyph != "4" {
		t.Errorf("wrong error %v", err)
	}
}

func TestUpdateNoGlyf(t *testing.T) {
	src, dst := testFonts()
	u, err := New(src, dst, strings.NewReader("<ttFont><cvt/></ttFont>"))
	if err != nil {
		t.Fatal(err)
	}
	if err := u.Update(); err == nil {
		t.Error("missing glyf element accepted")
	}

	for _, in := range []string{"<ttFont>", "<a></b>", "<a/><b/>", ""} {
		if _, err := New(src, dst, strings.NewReader(in)); err == nil {
			t.Errorf("malformed XML %q accepted", in)
		}
	}
}

func TestOpenWriteFile(t *testing.T) {
	dir := t.TempDir()
	src, dst := testFonts()
	oldPath := filepath.Join(dir, "old.ttf")
	newPath := filepath.Join(dir, "new.ttf")
	xmlPath := filepath.Join(dir, "export.xml")
	if err := src.WriteFile(oldPath); err != nil {
		t.Fatal(err)
	}
	if err := dst.WriteFile(newPath); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(xmlPath, []byte(testXML), 0o644); err != nil {
		t.Fatal(err)
	}

	u, err := Open(oldPath, newPath, xmlPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := u.Update(); err != nil {
		t.Fatal(err)
	}
	outPath := filepath.Join(dir, "out.xml")
	if err := u.WriteFile(outPath); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("OFFSET[R], 1, 120, 700")) {
		t.Errorf("assembly not updated:\n%s", data)
	}

	// writing again replaces the file without leaving temporary files
	if err := u.WriteFile(outPath); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Errorf("%d files in %s", len(entries), dir)
	}
}
