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

// Package cmap reads and writes "cmap" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/cmap
package cmap

import (
	"fmt"

	"seehuhn.de/go/subfont/font"
)

// Key selects a subtable of a cmap table.
type Key struct {
	PlatformID uint16 // Platform ID.
	EncodingID uint16 // Platform-specific encoding ID.
}

// Table contains the subtables of a cmap table, still in binary form.
type Table map[Key][]byte

// A Subtable maps unicode code points to glyph IDs.  Code points without
// a mapping yield glyph 0.
type Subtable interface {
	Lookup(r rune) font.GlyphID

	// AppendRunes appends all mapped code points to buf, in no
	// particular order.
	AppendRunes(buf []rune) []rune
}

var errMalformedTable = &font.InvalidFontError{
	SubSystem: "sfnt/cmap",
	Reason:    "malformed table",
}

var errMalformedSubtable = &font.InvalidFontError{
	SubSystem: "sfnt/cmap",
	Reason:    "malformed subtable",
}

// Decode splits a "cmap" table into its subtables.
func Decode(data []byte) (Table, error) {
	if len(data) < 4 {
		return nil, errMalformedTable
	}
	version := uint16(data[0])<<8 | uint16(data[1])
	if version != 0 {
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/cmap",
			Feature:   fmt.Sprintf("table version %d", version),
		}
	}
	numTables := int(data[2])<<8 | int(data[3])
	if len(data) < 4+8*numTables {
		return nil, errMalformedTable
	}

	res := make(Table)
	for i := 0; i < numTables; i++ {
		rec := data[4+8*i:]
		platformID := uint16(rec[0])<<8 | uint16(rec[1])
		encodingID := uint16(rec[2])<<8 | uint16(rec[3])
		o := uint32(rec[4])<<24 | uint32(rec[5])<<16 | uint32(rec[6])<<8 | uint32(rec[7])
		if int64(o)+2 > int64(len(data)) {
			return nil, errMalformedTable
		}
		res[Key{platformID, encodingID}] = data[o:]
	}
	return res, nil
}

// The unicode subtable preference order: 32-bit coverage first, since only
// format 12 subtables can reach the supplementary planes.
var preferred = []Key{
	{3, 10}, // Windows, UCS-4
	{0, 6},  // Unicode, full repertoire
	{0, 4},  // Unicode 2.0, full repertoire
	{3, 1},  // Windows, UCS-2
	{0, 3},  // Unicode 2.0, BMP
	{0, 2},
	{0, 1},
	{0, 0},
}

// GetBest decodes the best unicode subtable of the cmap.
func (t Table) GetBest() (Subtable, error) {
	for _, key := range preferred {
		data, ok := t[key]
		if !ok {
			continue
		}
		sub, err := decodeSubtable(data)
		if err == nil {
			return sub, nil
		}
		if !font.IsUnsupported(err) {
			return nil, err
		}
	}
	return nil, &font.NotSupportedError{
		SubSystem: "sfnt/cmap",
		Feature:   "no unicode subtable",
	}
}

func decodeSubtable(data []byte) (Subtable, error) {
	if len(data) < 2 {
		return nil, errMalformedSubtable
	}
	format := uint16(data[0])<<8 | uint16(data[1])
	switch format {
	case 0:
		return decodeFormat0(data)
	case 4:
		return decodeFormat4(data)
	case 6:
		return decodeFormat6(data)
	case 12:
		return decodeFormat12(data)
	default:
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/cmap",
			Feature:   fmt.Sprintf("subtable format %d", format),
		}
	}
}

// Encode builds a complete "cmap" table for the given mapping.  A format 4
// subtable covers the basic multilingual plane; if the mapping contains
// supplementary-plane code points, a format 12 subtable is added.
func Encode(mapping map[rune]font.GlyphID) []byte {
	bmp := make(map[uint16]font.GlyphID)
	hasSupplementary := false
	for r, gid := range mapping {
		if r >= 0x10000 {
			hasSupplementary = true
		} else if r < 0xD800 || r > 0xDFFF {
			bmp[uint16(r)] = gid
		}
	}

	f4 := Format4(bmp).Encode(0)
	var subtables [][]byte
	var keys []Key
	if hasSupplementary {
		f12 := MakeFormat12(mapping).Encode(0)
		subtables = [][]byte{f4, f4, f12, f12}
		keys = []Key{{0, 3}, {3, 1}, {0, 4}, {3, 10}}
	} else {
		subtables = [][]byte{f4, f4}
		keys = []Key{{0, 3}, {3, 1}}
	}

	// duplicate subtables share one copy in the file
	offs := make([]uint32, len(subtables))
	pos := uint32(4 + 8*len(keys))
	for i, sub := range subtables {
		shared := false
		for j := 0; j < i; j++ {
			if &subtables[j][0] == &sub[0] {
				offs[i] = offs[j]
				shared = true
				break
			}
		}
		if !shared {
			offs[i] = pos
			pos += uint32(len(sub))
		}
	}

	res := make([]byte, 4, pos)
	res[3] = byte(len(keys)) // version 0, numTables
	for i, key := range keys {
		res = append(res,
			byte(key.PlatformID>>8), byte(key.PlatformID),
			byte(key.EncodingID>>8), byte(key.EncodingID),
			byte(offs[i]>>24), byte(offs[i]>>16), byte(offs[i]>>8), byte(offs[i]))
	}
	written := make(map[*byte]bool)
	for _, sub := range subtables {
		if written[&sub[0]] {
			continue
		}
		written[&sub[0]] = true
		res = append(res, sub...)
	}
	return res
}
