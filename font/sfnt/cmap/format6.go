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

// Format6 represents a format 6 cmap subtable, a trimmed table mapping
// a dense range of 16-bit code points.
type Format6 struct {
	FirstCode uint16
	GlyphID   []font.GlyphID
}

func decodeFormat6(data []byte) (Subtable, error) {
	if len(data) < 10 {
		return nil, errMalformedSubtable
	}
	firstCode := uint16(data[6])<<8 | uint16(data[7])
	entryCount := int(data[8])<<8 | int(data[9])
	if len(data) < 10+2*entryCount {
		return nil, errMalformedSubtable
	}
	gids := make([]font.GlyphID, entryCount)
	for i := range gids {
		gids[i] = font.GlyphID(data[10+2*i])<<8 | font.GlyphID(data[10+2*i+1])
	}
	return Format6{FirstCode: firstCode, GlyphID: gids}, nil
}

// Lookup implements the Subtable interface.
func (cmap Format6) Lookup(r rune) font.GlyphID {
	idx := int(r) - int(cmap.FirstCode)
	if idx < 0 || idx >= len(cmap.GlyphID) {
		return 0
	}
	return cmap.GlyphID[idx]
}
