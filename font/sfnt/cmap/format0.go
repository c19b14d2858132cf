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

import "seehuhn.de/go/subfont/font"

// Format0 represents a format 0 cmap subtable, a simple 256-entry
// byte encoding table.
type Format0 struct {
	Data []byte
}

func decodeFormat0(data []byte) (Subtable, error) {
	if len(data) < 6+256 {
		return nil, errMalformedSubtable
	}
	return Format0{Data: data[6 : 6+256]}, nil
}

// Lookup implements the Subtable interface.
func (cmap Format0) Lookup(r rune) font.GlyphID {
	if r < 0 || r > 255 {
		return 0
	}
	return font.GlyphID(cmap.Data[r])
}
