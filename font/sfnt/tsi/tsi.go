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

// Package tsi reads and writes the private tables used by Microsoft's
// Visual TrueType (VTT) to store the sources of a font's hinting.
//
// The tables come in pairs.  "TSI0" indexes the text in "TSI1", which holds
// the assembly listing of every glyph together with the sources of the
// pre-program, the control values and the font program.  "TSI2" indexes
// "TSI3", which holds the high-level "talk" sources.  "TSI5" assigns every
// glyph to a character group.
package tsi

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"seehuhn.de/go/vtt/font"
)

// Tables holds the decoded VTT tables of a font.
// A nil field means that the corresponding table is absent.
type Tables struct {
	Assembly *Programs         // TSI0 and TSI1
	Talk     *Programs         // TSI2 and TSI3
	Groups   map[string]uint16 // TSI5, keyed by glyph name
}

// Clone returns a deep copy of t.
func (t *Tables) Clone() *Tables {
	if t == nil {
		return nil
	}
	res := &Tables{
		Assembly: t.Assembly.Clone(),
		Talk:     t.Talk.Clone(),
	}
	if t.Groups != nil {
		res.Groups = make(map[string]uint16, len(t.Groups))
		for k, v := range t.Groups {
			res.Groups[k] = v
		}
	}
	return res
}

// Programs holds the text stored in "TSI1" or "TSI3".
type Programs struct {
	// Glyphs maps glyph names to the program text for that glyph.
	// Glyphs without text are omitted.
	Glyphs map[string]string

	// Extras holds the text of the programs which are not attached to a
	// glyph, keyed by the names in AssemblyExtras or TalkExtras.
	Extras map[string]string
}

// Clone returns a deep copy of p.
func (p *Programs) Clone() *Programs {
	if p == nil {
		return nil
	}
	res := &Programs{
		Glyphs: make(map[string]string, len(p.Glyphs)),
		Extras: make(map[string]string, len(p.Extras)),
	}
	for k, v := range p.Glyphs {
		res.Glyphs[k] = v
	}
	for k, v := range p.Extras {
		res.Extras[k] = v
	}
	return res
}

// ExtraNames gives the names of the four programs stored after the glyph
// programs.  The entries correspond to the index IDs 0xFFFA to 0xFFFD.
type ExtraNames [4]string

var (
	// AssemblyExtras names the extra programs in "TSI1".
	AssemblyExtras = ExtraNames{"ppgm", "cvt", "reserved", "fpgm"}

	// TalkExtras names the extra programs in "TSI3".
	TalkExtras = ExtraNames{"reserved0", "reserved1", "reserved2", "reserved3"}
)

const (
	firstExtraID = 0xFFFA
	magicID      = 0xFFFE
	magicOffset  = 0xABFC1F34
	longEntry    = 0x8000
	entrySize    = 8
)

type indexEntry struct {
	ID     uint16
	Length uint16
	Offset uint32
}

// DecodePrograms decodes a pair of index and text tables.  The glyph IDs
// in the index are converted to glyph names using glyphOrder.
func DecodePrograms(index, text []byte, extras ExtraNames, glyphOrder []string) (*Programs, error) {
	if len(index)%entrySize != 0 || len(index) < 5*entrySize {
		return nil, errInvalidIndex("invalid table length")
	}
	n := len(index) / entrySize
	entries := make([]indexEntry, n)
	for i := range entries {
		buf := index[i*entrySize:]
		entries[i] = indexEntry{
			ID:     uint16(buf[0])<<8 | uint16(buf[1]),
			Length: uint16(buf[2])<<8 | uint16(buf[3]),
			Offset: uint32(buf[4])<<24 | uint32(buf[5])<<16 | uint32(buf[6])<<8 | uint32(buf[7]),
		}
	}
	glyphEntries := entries[:n-5]
	magic := entries[n-5]
	extraEntries := entries[n-4:]
	if magic.ID != magicID || magic.Offset != magicOffset {
		return nil, errInvalidIndex("bad magic number")
	}

	res := &Programs{
		Glyphs: make(map[string]string),
		Extras: make(map[string]string),
	}
	for i, e := range glyphEntries {
		var next uint32
		if i+1 < len(glyphEntries) {
			next = glyphEntries[i+1].Offset
		} else {
			next = extraEntries[0].Offset
		}
		body, err := entryText(text, e, next)
		if err != nil {
			return nil, err
		}
		if body == "" {
			continue
		}
		res.Glyphs[glyphName(glyphOrder, e.ID)] = body
	}
	for i, e := range extraEntries {
		k := int(e.ID) - firstExtraID
		if k < 0 || k >= len(extras) {
			return nil, errInvalidIndex(fmt.Sprintf("unexpected extra ID 0x%04X", e.ID))
		}
		next := uint32(len(text))
		if i+1 < len(extraEntries) {
			next = extraEntries[i+1].Offset
		}
		body, err := entryText(text, e, next)
		if err != nil {
			return nil, err
		}
		if body == "" {
			continue
		}
		res.Extras[extras[k]] = body
	}
	return res, nil
}

// entryText extracts the text of an index entry.  Entries of length 0x8000
// extend to the start of the following entry.
func entryText(text []byte, e indexEntry, next uint32) (string, error) {
	length := uint32(e.Length)
	if e.Length == longEntry {
		if next < e.Offset {
			return "", errInvalidIndex("entries not sorted by offset")
		}
		length = next - e.Offset
	} else if e.Length > longEntry {
		return "", errInvalidIndex(fmt.Sprintf("invalid text length %d", e.Length))
	}
	start := uint64(e.Offset)
	end := start + uint64(length)
	if end > uint64(len(text)) {
		return "", &font.InvalidFontError{
			SubSystem: "sfnt/tsi",
			Reason:    "program text extends beyond end of table",
		}
	}
	return decodeText(text[start:end]), nil
}

// decodeText interprets program text as UTF-8.  Sources written by old
// versions of VTT use Windows-1252 instead; these are converted.
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	res, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(res)
}

// Encode returns the index and text tables for p.  Entries are written for
// every glyph in glyphOrder; programs for glyphs not in glyphOrder are
// dropped.
func (p *Programs) Encode(extras ExtraNames, glyphOrder []string) (index, text []byte) {
	var glyphs, extra map[string]string
	if p != nil {
		glyphs, extra = p.Glyphs, p.Extras
	}

	index = make([]byte, 0, (len(glyphOrder)+5)*entrySize)
	appendText := func(id uint16, body string) {
		if len(text)%2 != 0 {
			text = append(text, '\r')
		}
		length := len(body)
		if length >= longEntry {
			length = longEntry
		}
		index = appendEntry(index, indexEntry{
			ID:     id,
			Length: uint16(length),
			Offset: uint32(len(text)),
		})
		text = append(text, body...)
	}

	for gid, name := range glyphOrder {
		appendText(uint16(gid), glyphs[name])
	}
	index = appendEntry(index, indexEntry{ID: magicID, Offset: magicOffset})
	for k, name := range extras {
		appendText(uint16(firstExtraID+k), extra[name])
	}
	if text == nil {
		text = []byte{}
	}
	return index, text
}

func appendEntry(buf []byte, e indexEntry) []byte {
	return append(buf,
		byte(e.ID>>8), byte(e.ID),
		byte(e.Length>>8), byte(e.Length),
		byte(e.Offset>>24), byte(e.Offset>>16), byte(e.Offset>>8), byte(e.Offset))
}

// DecodeGroups decodes a "TSI5" table.
func DecodeGroups(data []byte, glyphOrder []string) (map[string]uint16, error) {
	if len(data) != 2*len(glyphOrder) {
		return nil, &font.InvalidFontError{
			SubSystem: "sfnt/tsi",
			Reason:    fmt.Sprintf("TSI5 has %d bytes, expected %d", len(data), 2*len(glyphOrder)),
		}
	}
	res := make(map[string]uint16, len(glyphOrder))
	for i, name := range glyphOrder {
		res[name] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return res, nil
}

// EncodeGroups encodes a "TSI5" table.  Glyphs missing from groups are
// assigned to group 0.
func EncodeGroups(groups map[string]uint16, glyphOrder []string) []byte {
	res := make([]byte, 2*len(glyphOrder))
	for i, name := range glyphOrder {
		g := groups[name]
		res[2*i] = byte(g >> 8)
		res[2*i+1] = byte(g)
	}
	return res
}

func glyphName(glyphOrder []string, gid uint16) string {
	if int(gid) < len(glyphOrder) {
		return glyphOrder[gid]
	}
	return fmt.Sprintf("glyph%05d", gid)
}

func errInvalidIndex(reason string) error {
	return &font.InvalidFontError{
		SubSystem: "sfnt/tsi",
		Reason:    reason,
	}
}
