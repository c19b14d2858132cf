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
	"bytes"
	"encoding/binary"
	"math/bits"
	"sort"

	"seehuhn.de/go/subfont/font"
)

// Format4 represents a format 4 cmap subtable, which maps 16-bit code
// points to glyph IDs.
// https://docs.microsoft.com/en-us/typography/opentype/spec/cmap#format-4-segment-mapping-to-delta-values
type Format4 map[uint16]font.GlyphID

func decodeFormat4(in []byte) (Subtable, error) {
	if len(in)%2 != 0 || len(in) < 16 {
		return nil, errMalformedSubtable
	}

	segCountX2 := int(in[6])<<8 | int(in[7])
	if segCountX2%2 != 0 || 4*segCountX2+16 > len(in) {
		return nil, errMalformedSubtable
	}
	segCount := segCountX2 / 2

	words := make([]uint16, 0, (len(in)-14)/2)
	for i := 14; i+1 < len(in); i += 2 {
		words = append(words, uint16(in[i])<<8|uint16(in[i+1]))
	}
	endCode := words[:segCount]
	// reservedPad omitted
	startCode := words[segCount+1 : 2*segCount+1]
	idDelta := words[2*segCount+1 : 3*segCount+1]
	idRangeOffset := words[3*segCount+1 : 4*segCount+1]
	glyphIDArray := words[4*segCount+1:]

	cmap := Format4{}
	prevEnd := uint32(0)
	for k := 0; k < segCount; k++ {
		start := uint32(startCode[k])
		end := uint32(endCode[k]) + 1
		if start < prevEnd || end <= start {
			return nil, errMalformedSubtable
		}
		prevEnd = end

		if idRangeOffset[k] == 0 {
			delta := idDelta[k]
			for idx := start; idx < end; idx++ {
				c := font.GlyphID(uint16(idx) + delta)
				if c != 0 {
					cmap[uint16(idx)] = c
				}
			}
		} else {
			d := int(idRangeOffset[k])/2 - (segCount - k)
			if d < 0 || d+int(end-start) > len(glyphIDArray) {
				if start == 0xFFFF {
					// some fonts have invalid data for the last segment
					continue
				}
				return nil, errMalformedSubtable
			}
			for idx := start; idx < end; idx++ {
				c := glyphIDArray[d+int(idx-start)]
				if c != 0 {
					cmap[uint16(idx)] = font.GlyphID(c)
				}
			}
		}
	}
	return cmap, nil
}

// Lookup implements the Subtable interface.
func (cmap Format4) Lookup(r rune) font.GlyphID {
	if r < 0 || r > 0xFFFF {
		return 0
	}
	return cmap[uint16(r)]
}

type f4segment struct {
	first, last uint16
	delta       uint16 // used if !useValues
	useValues   bool
}

// Encode encodes the subtable into its binary form.
func (cmap Format4) Encode(language uint16) []byte {
	codes := make([]uint16, 0, len(cmap))
	for c, gid := range cmap {
		if gid != 0 {
			codes = append(codes, c)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	// Split the codes into segments of consecutive code points, using
	// delta encoding where the glyph IDs are consecutive, too, and an
	// explicit glyph ID array otherwise.
	var segments []f4segment
	for i := 0; i < len(codes); {
		j := i + 1
		useValues := false
		for j < len(codes) && codes[j] == codes[j-1]+1 && codes[j] != 0xFFFF {
			if cmap[codes[j]] != cmap[codes[j-1]]+1 {
				useValues = true
			}
			j++
		}
		segments = append(segments, f4segment{
			first:     codes[i],
			last:      codes[j-1],
			delta:     uint16(cmap[codes[i]]) - codes[i],
			useValues: useValues,
		})
		i = j
	}
	// format 4 tables must end with a 0xFFFF segment
	if len(segments) == 0 || segments[len(segments)-1].last != 0xFFFF {
		segments = append(segments, f4segment{
			first: 0xFFFF,
			last:  0xFFFF,
			delta: uint16(cmap[0xFFFF]) - 0xFFFF,
		})
	}

	var startCode, endCode, idDelta, idRangeOffset, glyphIDArray []uint16
	for _, s := range segments {
		startCode = append(startCode, s.first)
		endCode = append(endCode, s.last)
		if !s.useValues {
			idDelta = append(idDelta, s.delta)
			idRangeOffset = append(idRangeOffset, 0)
		} else {
			idDelta = append(idDelta, 0)
			offs := 2 * (len(segments) - len(idRangeOffset) + len(glyphIDArray))
			idRangeOffset = append(idRangeOffset, uint16(offs))
			for c := uint32(s.first); c <= uint32(s.last); c++ {
				glyphIDArray = append(glyphIDArray, uint16(cmap[uint16(c)]))
			}
		}
	}

	segCount := len(segments)
	sel := bits.Len(uint(segCount))
	hdr := &binaryFormat4{
		Format:        4,
		Length:        uint16(2 * (8 + 4*segCount + len(glyphIDArray))),
		Language:      language,
		SegCountX2:    uint16(2 * segCount),
		SearchRange:   1 << sel,
		EntrySelector: uint16(sel - 1),
	}
	hdr.RangeShift = hdr.SegCountX2 - hdr.SearchRange

	endCode = append(endCode, 0) // the reservedPad field

	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.BigEndian, hdr)
	for _, x := range [][]uint16{endCode, startCode, idDelta, idRangeOffset, glyphIDArray} {
		_ = binary.Write(buf, binary.BigEndian, x)
	}
	return buf.Bytes()
}

type binaryFormat4 struct {
	Format        uint16
	Length        uint16
	Language      uint16
	SegCountX2    uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}
