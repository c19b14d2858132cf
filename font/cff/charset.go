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

package cff

// readCharset reads the charset table.  The returned slice gives the
// SID (or, for CID-keyed fonts, the CID) of every glyph, including the
// implicit entry 0 for .notdef.
func readCharset(data []byte, pos, numGlyphs int) ([]int32, error) {
	charset := make([]int32, numGlyphs)
	switch pos {
	case 0: // ISOAdobe
		for i := range charset {
			charset[i] = int32(i)
		}
		return charset, nil
	case 1, 2:
		return nil, invalid("predefined expert charsets not supported")
	}
	if pos < 0 || pos >= len(data) {
		return nil, invalid("charset out of range")
	}

	format := data[pos]
	pos++
	switch format {
	case 0:
		if pos+2*(numGlyphs-1) > len(data) {
			return nil, invalid("charset out of range")
		}
		for i := 1; i < numGlyphs; i++ {
			charset[i] = int32(data[pos])<<8 | int32(data[pos+1])
			pos += 2
		}
	case 1, 2:
		nLeftSize := 1
		if format == 2 {
			nLeftSize = 2
		}
		gid := 1
		for gid < numGlyphs {
			if pos+2+nLeftSize > len(data) {
				return nil, invalid("charset out of range")
			}
			first := int32(data[pos])<<8 | int32(data[pos+1])
			pos += 2
			var nLeft int
			if format == 2 {
				nLeft = int(data[pos])<<8 | int(data[pos+1])
			} else {
				nLeft = int(data[pos])
			}
			pos += nLeftSize
			for i := 0; i <= nLeft && gid < numGlyphs; i++ {
				charset[gid] = first + int32(i)
				gid++
			}
		}
	default:
		return nil, invalid("unknown charset format")
	}
	return charset, nil
}

// appendCharset appends a format 2 charset covering glyphs 1, ..., n-1.
func appendCharset(buf []byte, charset []int32) []byte {
	buf = append(buf, 2)
	i := 1
	for i < len(charset) {
		first := charset[i]
		nLeft := 0
		for i+nLeft+1 < len(charset) &&
			charset[i+nLeft+1] == first+int32(nLeft)+1 &&
			nLeft < 0xFFFF {
			nLeft++
		}
		buf = append(buf,
			byte(first>>8), byte(first),
			byte(nLeft>>8), byte(nLeft))
		i += nLeft + 1
	}
	return buf
}

func charsetSize(charset []int32) int {
	return len(appendCharset(nil, charset))
}

// readFDSelect reads the FDSelect table of a CID-keyed font.
func readFDSelect(data []byte, pos, numGlyphs, numFonts int) ([]uint8, error) {
	if pos <= 0 || pos >= len(data) {
		return nil, invalid("missing FDSelect")
	}
	fdSelect := make([]uint8, numGlyphs)
	format := data[pos]
	pos++
	switch format {
	case 0:
		if pos+numGlyphs > len(data) {
			return nil, invalid("FDSelect out of range")
		}
		copy(fdSelect, data[pos:pos+numGlyphs])
	case 3:
		if pos+4 > len(data) {
			return nil, invalid("FDSelect out of range")
		}
		nRanges := int(data[pos])<<8 | int(data[pos+1])
		pos += 2
		if pos+3*nRanges+2 > len(data) {
			return nil, invalid("FDSelect out of range")
		}
		prev := -1
		for i := 0; i < nRanges; i++ {
			first := int(data[pos])<<8 | int(data[pos+1])
			fd := data[pos+2]
			pos += 3
			// for the last range this reads the sentinel
			next := int(data[pos])<<8 | int(data[pos+1])
			if first <= prev || next > numGlyphs || first >= next {
				return nil, invalid("malformed FDSelect")
			}
			for gid := first; gid < next; gid++ {
				fdSelect[gid] = fd
			}
			prev = first
		}
	default:
		return nil, invalid("unknown FDSelect format")
	}
	for _, fd := range fdSelect {
		if int(fd) >= numFonts {
			return nil, invalid("FD index out of range")
		}
	}
	return fdSelect, nil
}

// appendFDSelect appends a format 3 FDSelect table.
func appendFDSelect(buf []byte, fdSelect []uint8) []byte {
	var ranges [][2]int // first glyph, FD index
	for gid, fd := range fdSelect {
		if gid == 0 || fd != fdSelect[gid-1] {
			ranges = append(ranges, [2]int{gid, int(fd)})
		}
	}
	buf = append(buf, 3, byte(len(ranges)>>8), byte(len(ranges)))
	for _, r := range ranges {
		buf = append(buf, byte(r[0]>>8), byte(r[0]), byte(r[1]))
	}
	n := len(fdSelect)
	buf = append(buf, byte(n>>8), byte(n))
	return buf
}

func fdSelectSize(fdSelect []uint8) int {
	nRanges := 0
	for gid, fd := range fdSelect {
		if gid == 0 || fd != fdSelect[gid-1] {
			nRanges++
		}
	}
	return 5 + 3*nRanges
}
