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

package cmap

import (
	"sort"
	"unicode"

	"seehuhn.de/go/subfont/font"
)

// Format12 represents a format 12 cmap subtable: segmented coverage of
// the full unicode range with 32-bit glyph IDs.
// https://docs.microsoft.com/en-us/typography/opentype/spec/cmap#format-12-segmented-coverage
type Format12 []format12segment

type format12segment struct {
	startCharCode rune
	endCharCode   rune
	startGlyphID  uint32
}

func decodeFormat12(data []byte) (Subtable, error) {
	if len(data) < 16 {
		return nil, errMalformedSubtable
	}
	nSegments := uint32(data[12])<<24 | uint32(data[13])<<16 | uint32(data[14])<<8 | uint32(data[15])
	if nSegments > 1e6 || len(data) < 16+int(nSegments)*12 {
		return nil, errMalformedSubtable
	}

	segments := make(Format12, nSegments)
	prevEnd := rune(-1)
	for i := uint32(0); i < nSegments; i++ {
		base := 16 + i*12
		start := rune(data[base])<<24 | rune(data[base+1])<<16 | rune(data[base+2])<<8 | rune(data[base+3])
		end := rune(data[base+4])<<24 | rune(data[base+5])<<16 | rune(data[base+6])<<8 | rune(data[base+7])
		gid := uint32(data[base+8])<<24 | uint32(data[base+9])<<16 | uint32(data[base+10])<<8 | uint32(data[base+11])

		if start <= prevEnd || end < start || end > unicode.MaxRune ||
			gid > 0xFFFF || gid+uint32(end-start) > 0xFFFF {
			return nil, errMalformedSubtable
		}
		segments[i] = format12segment{start, end, gid}
		prevEnd = end
	}
	return segments, nil
}

// MakeFormat12 builds a format 12 subtable from the given mapping.
func MakeFormat12(mapping map[rune]font.GlyphID) Format12 {
	codes := make([]rune, 0, len(mapping))
	for r, gid := range mapping {
		if gid != 0 {
			codes = append(codes, r)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	var segments Format12
	for i := 0; i < len(codes); {
		j := i + 1
		for j < len(codes) &&
			codes[j] == codes[j-1]+1 &&
			mapping[codes[j]] == mapping[codes[j-1]]+1 {
			j++
		}
		segments = append(segments, format12segment{
			startCharCode: codes[i],
			endCharCode:   codes[j-1],
			startGlyphID:  uint32(mapping[codes[i]]),
		})
		i = j
	}
	return segments
}

// Lookup implements the Subtable interface.
func (cmap Format12) Lookup(code rune) font.GlyphID {
	idx := sort.Search(len(cmap), func(i int) bool {
		return code <= cmap[i].endCharCode
	})
	if idx == len(cmap) || cmap[idx].startCharCode > code {
		return 0
	}
	return font.GlyphID(cmap[idx].startGlyphID + uint32(code-cmap[idx].startCharCode))
}

// Encode encodes the subtable into its binary form.
func (cmap Format12) Encode(language uint32) []byte {
	nSegments := len(cmap)
	l := uint32(16 + nSegments*12)
	out := make([]byte, 16, l)
	copy(out, []byte{
		0, 12, 0, 0,
		byte(l >> 24), byte(l >> 16), byte(l >> 8), byte(l),
		byte(language >> 24), byte(language >> 16), byte(language >> 8), byte(language),
		byte(nSegments >> 24), byte(nSegments >> 16), byte(nSegments >> 8), byte(nSegments),
	})
	for _, seg := range cmap {
		out = append(out,
			byte(seg.startCharCode>>24), byte(seg.startCharCode>>16),
			byte(seg.startCharCode>>8), byte(seg.startCharCode),
			byte(seg.endCharCode>>24), byte(seg.endCharCode>>16),
			byte(seg.endCharCode>>8), byte(seg.endCharCode),
			byte(seg.startGlyphID>>24), byte(seg.startGlyphID>>16),
			byte(seg.startGlyphID>>8), byte(seg.startGlyphID))
	}
	return out
}
