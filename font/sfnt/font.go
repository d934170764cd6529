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

// Package sfnt gives access to the tables of a TrueType font file.
//
// A Font keeps the binary data of every table found in the file, including
// private tables which this package does not understand, and writes them
// back unchanged.  The tables needed to carry hinting from one font to
// another ("head", "maxp", "glyf", "loca", "post", "cmap" and the VTT
// tables) are decoded.
package sfnt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/header"
	"seehuhn.de/go/sfnt/maxp"

	"seehuhn.de/go/vtt/font"
	"seehuhn.de/go/vtt/font/sfnt/head"
	"seehuhn.de/go/vtt/internal/atomicfile"
)

// Scaler types found at the start of an sfnt file.
const (
	ScalerTypeTrueType = header.ScalerTypeTrueType
	ScalerTypeCFF      = header.ScalerTypeCFF
	ScalerTypeApple    = header.ScalerTypeApple
)

// IsMissing returns true if err indicates a missing sfnt table.
func IsMissing(err error) bool {
	var e *header.ErrMissing
	return errors.As(err, &e)
}

// Font is a TrueType font.
//
// A Font is not safe for concurrent use, except that the read-only methods
// may be called concurrently as long as no method which modifies the font
// runs at the same time.
type Font struct {
	ScalerType uint32

	tables map[string][]byte

	head *head.Info
	maxp *maxp.Info

	glyphs      glyf.Glyphs
	glyphsDirty bool

	glyphOrder []string
	glyphIDs   map[string]glyph.ID

	charToGID map[rune]glyph.ID
}

// ReadFile reads a TrueType font from a file.
func ReadFile(fname string) (*Font, error) {
	fd, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	f, err := Read(fd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return f, nil
}

// Read reads a TrueType font.  All tables are kept, including the ones
// this package does not understand.
func Read(r io.ReaderAt) (*Font, error) {
	info, err := header.Read(r)
	if err != nil {
		return nil, err
	}
	tables := make(map[string][]byte, len(info.Toc))
	for tag := range info.Toc {
		data, err := info.ReadTableBytes(r, tag)
		if err != nil {
			return nil, err
		}
		if data == nil {
			data = []byte{}
		}
		tables[tag] = data
	}
	return New(info.ScalerType, tables)
}

// New builds a font from the binary data of its tables.  The font takes
// ownership of the table data.
func New(scalerType uint32, tables map[string][]byte) (*Font, error) {
	var err error
	if _, isCFF := tables["CFF "]; isCFF || scalerType == ScalerTypeCFF {
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt",
			Feature:   "CFF-based outlines",
		}
	}

	f := &Font{
		ScalerType: scalerType,
		tables:     tables,
	}

	headData, ok := tables["head"]
	if !ok {
		return nil, &header.ErrMissing{TableName: "head"}
	}
	f.head, err = head.Read(bytes.NewReader(headData))
	if err != nil {
		return nil, err
	}

	maxpData, ok := tables["maxp"]
	if !ok {
		return nil, &header.ErrMissing{TableName: "maxp"}
	}
	f.maxp, err = maxp.Read(bytes.NewReader(maxpData))
	if err != nil {
		return nil, err
	}

	glyfData, ok := tables["glyf"]
	if !ok {
		return nil, &header.ErrMissing{TableName: "glyf"}
	}
	locaData, ok := tables["loca"]
	if !ok {
		return nil, &header.ErrMissing{TableName: "loca"}
	}
	f.glyphs, err = glyf.Decode(&glyf.Encoded{
		GlyfData:   glyfData,
		LocaData:   locaData,
		LocaFormat: f.head.IndexToLocFormat,
	})
	if err != nil {
		return nil, err
	}
	if len(f.glyphs) != f.maxp.NumGlyphs {
		return nil, &font.InvalidFontError{
			SubSystem: "sfnt",
			Reason: fmt.Sprintf("loca has %d glyphs, maxp has %d",
				len(f.glyphs), f.maxp.NumGlyphs),
		}
	}

	err = f.readCMap()
	if err != nil {
		return nil, err
	}
	f.makeGlyphOrder()

	return f, nil
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return len(f.glyphs)
}

// HasTable returns true if the font contains the given table.
func (f *Font) HasTable(tag string) bool {
	_, ok := f.tables[tag]
	return ok
}

// TableTags returns the tags of all tables in the font, in sorted order.
func (f *Font) TableTags() []string {
	res := make([]string, 0, len(f.tables))
	for tag := range f.tables {
		res = append(res, tag)
	}
	slices.Sort(res)
	return res
}

// Table returns a copy of the binary data of a table.
func (f *Font) Table(tag string) ([]byte, error) {
	if tag == "glyf" || tag == "loca" {
		f.flushGlyphs()
	}
	data, ok := f.tables[tag]
	if !ok {
		return nil, &header.ErrMissing{TableName: tag}
	}
	return slices.Clone(data), nil
}

// SetTable replaces the binary data of a table, or adds a new table.
// The data is copied.  Tables which this package decodes must be changed
// using the corresponding typed methods instead.
func (f *Font) SetTable(tag string, data []byte) error {
	if len(tag) != 4 || !isASCII(tag) {
		return fmt.Errorf("sfnt: invalid table tag %q", tag)
	}
	switch tag {
	case "head", "maxp", "glyf", "loca", "cmap", "post":
		return fmt.Errorf("sfnt: table %q cannot be replaced directly", tag)
	}
	if data == nil {
		data = []byte{}
	}
	f.tables[tag] = slices.Clone(data)
	return nil
}

// DeleteTable removes a table from the font.
func (f *Font) DeleteTable(tag string) {
	switch tag {
	case "head", "maxp", "glyf", "loca":
		return
	}
	delete(f.tables, tag)
}

// Head returns a copy of the decoded "head" table.
func (f *Font) Head() *head.Info {
	h := *f.head
	return &h
}

// SetHead replaces the "head" table.  The IndexToLocFormat field is
// maintained by the font and is ignored.
func (f *Font) SetHead(info *head.Info) {
	h := *info
	h.IndexToLocFormat = f.head.IndexToLocFormat
	f.head = &h
	f.tables["head"] = h.Encode()
}

// Maxp returns a copy of the decoded "maxp" table.
func (f *Font) Maxp() *maxp.Info {
	m := *f.maxp
	if m.TTF != nil {
		ttf := *m.TTF
		m.TTF = &ttf
	}
	return &m
}

// SetMaxp replaces the "maxp" table.  The number of glyphs cannot be
// changed.
func (f *Font) SetMaxp(info *maxp.Info) error {
	if info.NumGlyphs != len(f.glyphs) {
		return fmt.Errorf("sfnt: cannot change number of glyphs from %d to %d",
			len(f.glyphs), info.NumGlyphs)
	}
	data := info.Encode()
	m := *info
	if m.TTF != nil {
		ttf := *m.TTF
		m.TTF = &ttf
	}
	f.maxp = &m
	f.tables["maxp"] = data
	return nil
}

// Write writes the font in sfnt format.
func (f *Font) Write(w io.Writer) (int64, error) {
	f.flushGlyphs()

	// writeTables patches the "head" table, so we pass a copy.
	tables := make(map[string][]byte, len(f.tables))
	for tag, data := range f.tables {
		tables[tag] = data
	}
	tables["head"] = slices.Clone(f.tables["head"])

	return header.Write(w, f.ScalerType, tables)
}

// WriteFile writes the font to a file.  The data is first written to a
// temporary file in the same directory, which then replaces fname.  If an
// error occurs, an existing file fname is left unchanged.
func (f *Font) WriteFile(fname string) error {
	err := atomicfile.Write(fname, func(w io.Writer) error {
		_, err := f.Write(w)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", fname, err)
	}
	return nil
}

func isASCII(s string) bool {
	for _, c := range []byte(s) {
		if c < 32 || c > 126 {
			return false
		}
	}
	return true
}

// flushGlyphs re-encodes the "glyf" and "loca" tables after glyphs have
// been modified.
func (f *Font) flushGlyphs() {
	if !f.glyphsDirty {
		return
	}
	enc := f.glyphs.Encode()
	f.tables["glyf"] = enc.GlyfData
	f.tables["loca"] = enc.LocaData
	if f.head.IndexToLocFormat != enc.LocaFormat {
		h := *f.head
		h.IndexToLocFormat = enc.LocaFormat
		f.head = &h
		f.tables["head"] = h.Encode()
	}
	f.glyphsDirty = false
}
