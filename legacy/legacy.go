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

// Package legacy updates the glyph IDs in an XML file exported from VTT
// ("File > Export > All code to XML") for use with a new revision of a
// font.
//
// Glyphs are matched by name only, and outlines are not compared.  The ID
// attribute of every glyph with a talk source is changed to the new glyph
// ID, and so is the glyph ID in every assembly line starting with
// "OFFSET[R]".
//
// The document is kept as a sequence of XML tokens, and all text,
// comments and whitespace are written back in their original order.  The
// output differs from the input only in the following ways: character
// data and attribute values are re-escaped, CDATA sections are written as
// escaped text, and empty elements are written with a separate end tag.
package legacy

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"seehuhn.de/go/vtt"
	"seehuhn.de/go/vtt/font/sfnt"
	"seehuhn.de/go/vtt/internal/atomicfile"
)

// element locates an XML element in the token stream of a document.
type element struct {
	name     string
	start    int   // index of the StartElement token
	text     []int // indices of the CharData tokens directly inside
	children []*element
}

// child returns the first child element with the given local name.
func (e *element) child(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// find returns the first descendant element with the given local name,
// in document order.
func (e *element) find(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
		if res := c.find(name); res != nil {
			return res
		}
	}
	return nil
}

// document is an XML document as a list of tokens.
type document struct {
	tokens  []xml.Token
	root    *element
	hasDecl bool
}

// parse reads an XML document.  Namespace prefixes are kept as part of
// the element and attribute names.
func parse(r io.Reader) (*document, error) {
	dec := xml.NewDecoder(r)
	doc := &document{}
	var stack []*element
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		tok = xml.CopyToken(tok)

		switch t := tok.(type) {
		case xml.StartElement:
			t.Name = flatName(t.Name)
			for i := range t.Attr {
				t.Attr[i].Name = flatName(t.Attr[i].Name)
			}
			tok = t

			el := &element{name: t.Name.Local, start: len(doc.tokens)}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			} else if doc.root == nil {
				doc.root = el
			} else {
				line, _ := dec.InputPos()
				return nil, &xml.SyntaxError{Msg: "more than one root element", Line: line}
			}
			stack = append(stack, el)
		case xml.EndElement:
			t.Name = flatName(t.Name)
			tok = t

			if len(stack) == 0 || stack[len(stack)-1].name != t.Name.Local {
				line, _ := dec.InputPos()
				return nil, &xml.SyntaxError{Msg: "unexpected end element </" + t.Name.Local + ">", Line: line}
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				el := stack[len(stack)-1]
				el.text = append(el.text, len(doc.tokens))
			}
		case xml.ProcInst:
			if t.Target == "xml" {
				doc.hasDecl = true
			}
		}
		doc.tokens = append(doc.tokens, tok)
	}

	if len(stack) > 0 {
		return nil, io.ErrUnexpectedEOF
	}
	if doc.root == nil {
		return nil, errors.New("legacy: no root element")
	}
	return doc, nil
}

// flatName moves the namespace prefix of a raw token into the local name,
// so that the encoder writes the name unchanged.
func flatName(n xml.Name) xml.Name {
	if n.Space == "" {
		return n
	}
	return xml.Name{Local: n.Space + ":" + n.Local}
}

// text returns the character data directly inside e.
func (doc *document) text(e *element) string {
	var b strings.Builder
	for _, i := range e.text {
		b.Write(doc.tokens[i].(xml.CharData))
	}
	return b.String()
}

// attr returns the value of an attribute of e.
func (doc *document) attr(e *element, name string) (string, bool) {
	start := doc.tokens[e.start].(xml.StartElement)
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// setAttr sets the value of an attribute of e.
func (doc *document) setAttr(e *element, name, value string) {
	start := doc.tokens[e.start].(xml.StartElement)
	for i, a := range start.Attr {
		if a.Name.Local == name {
			start.Attr[i].Value = value
			return
		}
	}
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: value})
	doc.tokens[e.start] = start
}

// Updater rewrites the glyph IDs in a VTT XML export.
type Updater struct {
	doc   *document
	idMap map[int]int
}

// Open reads the two fonts and the XML file.
func Open(oldPath, newPath, xmlPath string) (*Updater, error) {
	src, err := sfnt.ReadFile(oldPath)
	if err != nil {
		return nil, err
	}
	dst, err := sfnt.ReadFile(newPath)
	if err != nil {
		return nil, err
	}
	fd, err := os.Open(xmlPath)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	u, err := New(src, dst, fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", xmlPath, err)
	}
	return u, nil
}

// New parses the XML export read from r.  The glyph IDs are mapped from
// src to dst by glyph name.
func New(src, dst *sfnt.Font, r io.Reader) (*Updater, error) {
	doc, err := parse(r)
	if err != nil {
		return nil, err
	}

	idMap := make(map[int]int)
	for srcID, name := range src.GlyphOrder() {
		if dstID, ok := dst.GlyphID(name); ok {
			idMap[srcID] = int(dstID)
		}
	}

	u := &Updater{
		doc:   doc,
		idMap: idMap,
	}
	return u, nil
}

// Update rewrites the glyph IDs.
func (u *Updater) Update() error {
	doc := u.doc
	glyf := doc.root.child("glyf")
	if glyf == nil {
		glyf = doc.root.find("glyf")
	}
	if glyf == nil {
		return errors.New("legacy: no glyf element")
	}

	for _, g := range glyf.children {
		id, _ := doc.attr(g, "ID")
		instr := g.child("instructions")
		if instr == nil {
			continue
		}

		if talk := instr.find("talk"); talk != nil && doc.text(talk) != "" {
			newID, err := u.mapID(id, id)
			if err != nil {
				return err
			}
			doc.setAttr(g, "ID", strconv.Itoa(newID))
		}

		asm := instr.find("assembly")
		if asm == nil {
			continue
		}
		// The text may be split by comments or CDATA sections.  Each piece
		// is rewritten in place.
		atLineStart := true
		for _, i := range asm.text {
			chunk := string(doc.tokens[i].(xml.CharData))
			res, err := u.rewriteOffsets(id, chunk, atLineStart)
			if err != nil {
				return err
			}
			doc.tokens[i] = xml.CharData(res)
			if chunk != "" {
				atLineStart = strings.HasSuffix(chunk, "\n")
			}
		}
	}
	return nil
}

// rewriteOffsets maps the glyph IDs of the OFFSET[R] lines in text.  If
// atLineStart is false, the first line of text continues a line and is
// left alone.
func (u *Updater) rewriteOffsets(glyph, text string, atLineStart bool) (string, error) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i == 0 && !atLineStart {
			continue
		}
		if !strings.HasPrefix(line, "OFFSET[R]") {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			continue
		}
		newID, err := u.mapID(glyph, fields[1])
		if err != nil {
			return "", err
		}
		fields[1] = " " + strconv.Itoa(newID)
		lines[i] = strings.Join(fields, ",")
	}
	return strings.Join(lines, "\n"), nil
}

// mapID converts a glyph ID of the old font into a glyph ID of the new
// font.  The argument glyph identifies the element being processed.
func (u *Updater) mapID(glyph, id string) (int, error) {
	old, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return 0, &vtt.LookupError{Glyph: glyph, Ref: fmt.Sprintf("glyph ID %q", id), Err: err}
	}
	res, ok := u.idMap[old]
	if !ok {
		return 0, &vtt.LookupError{Glyph: glyph, Ref: fmt.Sprintf("glyph ID %d", old)}
	}
	return res, nil
}

// Write writes the XML document.  An XML declaration is added if the
// input had none.
func (u *Updater) Write(w io.Writer) error {
	if !u.doc.hasDecl {
		_, err := io.WriteString(w, xml.Header)
		if err != nil {
			return err
		}
	}
	enc := xml.NewEncoder(w)
	for _, tok := range u.doc.tokens {
		err := enc.EncodeToken(tok)
		if err != nil {
			return err
		}
	}
	return enc.Flush()
}

// WriteFile writes the XML document to a file.  An existing file is
// replaced only once the new contents have been written completely.
func (u *Updater) WriteFile(fname string) error {
	err := atomicfile.Write(fname, u.Write)
	if err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}
	return nil
}
