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

// AppendRunes implements the Subtable interface.
func (cmap Format0) AppendRunes(buf []rune) []rune {
	for r, gid := range cmap.Data {
		if gid != 0 {
			buf = append(buf, rune(r))
		}
	}
	return buf
}

// AppendRunes implements the Subtable interface.
func (cmap Format4) AppendRunes(buf []rune) []rune {
	for code, gid := range cmap {
		if gid != 0 {
			buf = append(buf, rune(code))
		}
	}
	return buf
}

// AppendRunes implements the Subtable interface.
func (cmap Format6) AppendRunes(buf []rune) []rune {
	for i, gid := range cmap.GlyphID {
		if gid != 0 {
			buf = append(buf, rune(int(cmap.FirstCode)+i))
		}
	}
	return buf
}

// AppendRunes implements the Subtable interface.
func (cmap Format12) AppendRunes(buf []rune) []rune {
	for _, seg := range cmap {
		for r := seg.startCharCode; r <= seg.endCharCode; r++ {
			if seg.startGlyphID+uint32(r-seg.startCharCode) != 0 {
				buf = append(buf, r)
			}
		}
	}
	return buf
}
