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

// Package head supports reading and writing the "head" table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/head
//
// Unlike a semantic decoder, Info keeps every field of the table, so that
// Read followed by Encode reproduces the original bytes.
package head

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"seehuhn.de/go/postscript/funit"
)

const headLength = 54

// Flag bits used in Info.Flags.
const (
	FlagYBaseAt0          = 1 << 0
	FlagXBaseAt0          = 1 << 1
	FlagInstrDependOnSize = 1 << 2
	FlagForceIntegerPPEM  = 1 << 3 // set for fonts with VTT instructions
	FlagInstrAlterAdvance = 1 << 4
)

// Info represents the information in the "head" table of an sfnt.
type Info struct {
	FontRevision       Version
	CheckSumAdjustment uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            time.Time
	Modified           time.Time
	FontBBox           funit.Rect16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16
	IndexToLocFormat   int16
	GlyphDataFormat    int16
}

// Read reads and decodes the binary representation of the head table.
func Read(r io.Reader) (*Info, error) {
	enc := &binaryHead{}
	err := binary.Read(r, binary.BigEndian, enc)
	if err != nil {
		return nil, err
	}

	if enc.Version != 0x00010000 {
		return nil, fmt.Errorf("sfnt/head: unsupported table version %08x", enc.Version)
	}
	if enc.MagicNumber != 0x5F0F3CF5 {
		return nil, fmt.Errorf("sfnt/head: invalid magic number %08x", enc.MagicNumber)
	}

	info := &Info{
		FontRevision:       Version(enc.FontRevision),
		CheckSumAdjustment: enc.CheckSumAdjustment,
		Flags:              enc.Flags,
		UnitsPerEm:         enc.UnitsPerEm,
		Created:            decodeTime(enc.Created),
		Modified:           decodeTime(enc.Modified),
		FontBBox: funit.Rect16{
			LLx: funit.Int16(enc.XMin),
			LLy: funit.Int16(enc.YMin),
			URx: funit.Int16(enc.XMax),
			URy: funit.Int16(enc.YMax),
		},
		MacStyle:          enc.MacStyle,
		LowestRecPPEM:     enc.LowestRecPPEM,
		FontDirectionHint: enc.FontDirectionHint,
		IndexToLocFormat:  enc.IndexToLocFormat,
		GlyphDataFormat:   enc.GlyphDataFormat,
	}
	return info, nil
}

// Encode returns the binary representation of the head table.
func (info *Info) Encode() []byte {
	enc := &binaryHead{
		Version:            0x00010000,
		FontRevision:       uint32(info.FontRevision),
		CheckSumAdjustment: info.CheckSumAdjustment,
		MagicNumber:        0x5F0F3CF5,
		Flags:              info.Flags,
		UnitsPerEm:         info.UnitsPerEm,
		Created:            encodeTime(info.Created),
		Modified:           encodeTime(info.Modified),
		XMin:               int16(info.FontBBox.LLx),
		YMin:               int16(info.FontBBox.LLy),
		XMax:               int16(info.FontBBox.URx),
		YMax:               int16(info.FontBBox.URy),
		MacStyle:           info.MacStyle,
		LowestRecPPEM:      info.LowestRecPPEM,
		FontDirectionHint:  info.FontDirectionHint,
		IndexToLocFormat:   info.IndexToLocFormat,
		GlyphDataFormat:    info.GlyphDataFormat,
	}

	buf := bytes.NewBuffer(make([]byte, 0, headLength))
	_ = binary.Write(buf, binary.BigEndian, enc)
	return buf.Bytes()
}

type binaryHead struct {
	Version            uint32
	FontRevision       uint32
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            int64
	Modified           int64

	XMin int16
	YMin int16
	XMax int16
	YMax int16

	MacStyle uint16

	LowestRecPPEM     uint16
	FontDirectionHint int16

	IndexToLocFormat int16
	GlyphDataFormat  int16
}

// Version represents the font revision in 16.16 fixed point format.
type Version uint32

func (v Version) String() string {
	return fmt.Sprintf("%.03f", float32(v)/65536)
}

func encodeTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix() - zeroTime
}

func decodeTime(t int64) time.Time {
	if t == 0 {
		return time.Time{}
	}
	return time.Unix(zeroTime+t, 0).UTC()
}

// zeroTime is the start of January 1904 in UTC, the epoch used by sfnt files.
var zeroTime int64 = -2082844800
