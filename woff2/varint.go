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

package woff2

// appendBase128 appends the UIntBase128 encoding of v, using the
// shortest possible form.
func appendBase128(buf []byte, v uint32) []byte {
	n := 1
	for x := v >> 7; x != 0; x >>= 7 {
		n++
	}
	for i := n - 1; i > 0; i-- {
		buf = append(buf, byte(v>>(7*uint(i)))|0x80)
	}
	return append(buf, byte(v&0x7F))
}

// append255UInt16 appends the 255UInt16 encoding of v.
func append255UInt16(buf []byte, v uint16) []byte {
	switch {
	case v < 253:
		return append(buf, byte(v))
	case v < 506:
		return append(buf, 255, byte(v-253))
	case v < 762:
		return append(buf, 254, byte(v-506))
	default:
		return append(buf, 253, byte(v>>8), byte(v))
	}
}
