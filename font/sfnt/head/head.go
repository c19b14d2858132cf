// seehuhn.de/go/subfont - subset fonts and convert them to WOFF2
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
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

// Package head reads and writes the "head" table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/head
package head

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"seehuhn.de/go/subfont/font"
	"seehuhn.de/go/subfont/font/funit"
)

// Length is the size of an encoded head table in bytes.
const Length = 54

// Info represents the information from the "head" table.
type Info struct {
	FontRevision   uint32 // 16.16 fixed point, set by the font manufacturer
	Flags          uint16
	UnitsPerEm     uint16
	Created        time.Time
	Modified       time.Time
	FontBBox       funit.Rect
	MacStyle       uint16
	LowestRecPPEM  uint16
	HasLongOffsets bool // 'loca' table uses 32 bit offsets
}

// Read decodes the binary representation of a head table.
func Read(data []byte) (*Info, error) {
	if len(data) < Length {
		return nil, &font.InvalidFontError{
			SubSystem: "sfnt/head",
			Reason:    "table too short",
		}
	}
	enc := &binaryHead{}
	err := binary.Read(bytes.NewReader(data), binary.BigEndian, enc)
	if err != nil {
		return nil, err
	}

	if enc.Version != 0x00010000 {
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/head",
			Feature:   fmt.Sprintf("table version %08x", enc.Version),
		}
	}
	if enc.MagicNumber != 0x5F0F3CF5 {
		return nil, &font.InvalidFontError{
			SubSystem: "sfnt/head",
			Reason:    fmt.Sprintf("invalid magic number %08x", enc.MagicNumber),
		}
	}
	if enc.IndexToLocFormat > 1 {
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/head",
			Feature:   fmt.Sprintf("loca format %d", enc.IndexToLocFormat),
		}
	}

	info := &Info{
		FontRevision: enc.FontRevision,
		Flags:        enc.Flags,
		UnitsPerEm:   enc.UnitsPerEm,
		Created:      decodeTime(enc.Created),
		Modified:     decodeTime(enc.Modified),
		FontBBox: funit.Rect{
			LLx: funit.Int16(enc.XMin),
			LLy: funit.Int16(enc.YMin),
			URx: funit.Int16(enc.XMax),
			URy: funit.Int16(enc.YMax),
		},
		MacStyle:       enc.MacStyle,
		LowestRecPPEM:  enc.LowestRecPPEM,
		HasLongOffsets: enc.IndexToLocFormat != 0,
	}
	return info, nil
}

// Encode returns the binary representation of the head table.
// The checkSumAdjustment field is written as zero; it is patched when the
// complete font is assembled.
func (info *Info) Encode() []byte {
	enc := &binaryHead{
		Version:           0x00010000,
		FontRevision:      info.FontRevision,
		MagicNumber:       0x5F0F3CF5,
		Flags:             info.Flags,
		UnitsPerEm:        info.UnitsPerEm,
		Created:           encodeTime(info.Created),
		Modified:          encodeTime(info.Modified),
		XMin:              int16(info.FontBBox.LLx),
		YMin:              int16(info.FontBBox.LLy),
		XMax:              int16(info.FontBBox.URx),
		YMax:              int16(info.FontBBox.URy),
		MacStyle:          info.MacStyle,
		LowestRecPPEM:     info.LowestRecPPEM,
		FontDirectionHint: 2,
	}
	if info.HasLongOffsets {
		enc.IndexToLocFormat = 1
	}

	buf := bytes.NewBuffer(make([]byte, 0, Length))
	_ = binary.Write(buf, binary.BigEndian, enc)
	return buf.Bytes()
}

// the start of the epoch for sfnt timestamps
var zeroTime = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

func decodeTime(secs int64) time.Time {
	if secs == 0 {
		return time.Time{}
	}
	return zeroTime.Add(time.Duration(secs) * time.Second)
}

func encodeTime(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return int64(t.Sub(zeroTime) / time.Second)
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
	XMin               int16
	YMin               int16
	XMax               int16
	YMax               int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16
	IndexToLocFormat   int16
	GlyphDataFormat    int16
}
