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

// Package maxp reads and writes the "maxp" table.
// https://docs.microsoft.com/en-us/typography/opentype/spec/maxp
package maxp

import (
	"encoding/binary"
	"fmt"

	"seehuhn.de/go/subfont/font"
)

// Version 0.5 is used for CFF outlines, version 1.0 for TrueType outlines.
const (
	Version05 = 0x00005000
	Version10 = 0x00010000
)

// Info contains the information from the "maxp" table.  For version 0.5
// only NumGlyphs is meaningful; the TT slice holds the remaining version
// 1.0 fields unchanged, so that hinting-related limits survive subsetting.
type Info struct {
	Version   uint32
	NumGlyphs int
	TT        []byte // trailing version 1.0 fields, 26 bytes
}

// Read decodes a maxp table.
func Read(data []byte) (*Info, error) {
	if len(data) < 6 {
		return nil, invalid("table too short")
	}
	version := binary.BigEndian.Uint32(data)
	numGlyphs := int(binary.BigEndian.Uint16(data[4:]))

	info := &Info{
		Version:   version,
		NumGlyphs: numGlyphs,
	}
	switch version {
	case Version05:
		// no further fields
	case Version10:
		if len(data) < 32 {
			return nil, invalid("version 1.0 table too short")
		}
		info.TT = data[6:32]
	default:
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/maxp",
			Feature:   fmt.Sprintf("table version 0x%08x", version),
		}
	}
	return info, nil
}

// Encode returns the binary representation of the maxp table.
func (info *Info) Encode() []byte {
	n := 6
	if info.Version == Version10 {
		n = 32
	}
	data := make([]byte, n)
	binary.BigEndian.PutUint32(data, info.Version)
	binary.BigEndian.PutUint16(data[4:], uint16(info.NumGlyphs))
	if info.Version == Version10 {
		copy(data[6:], info.TT)
	}
	return data
}

func invalid(reason string) error {
	return &font.InvalidFontError{
		SubSystem: "sfnt/maxp",
		Reason:    reason,
	}
}
