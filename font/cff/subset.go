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

import (
	"seehuhn.de/go/subfont/font"
)

// Subset returns a new CFF table containing only the given glyphs.
// The keep slice must be sorted, must not contain duplicates, and must
// start with glyph 0.  Glyph i of the new font is glyph keep[i] of
// the original font.
//
// All subroutine calls are inlined, so the subset contains no local or
// global subroutines.
func (f *Font) Subset(keep []font.GlyphID) ([]byte, error) {
	if len(keep) == 0 || keep[0] != 0 {
		return nil, invalid("subset must contain glyph 0")
	}
	for i, gid := range keep {
		if int(gid) >= len(f.charStrings) {
			return nil, invalid("glyph index out of range")
		}
		if i > 0 && gid <= keep[i-1] {
			return nil, invalid("subset glyphs out of order")
		}
	}

	charStrings := make([][]byte, len(keep))
	charset := make([]int32, len(keep))
	for i, gid := range keep {
		code, _, err := f.flattenGlyph(gid)
		if err != nil {
			return nil, err
		}
		charStrings[i] = code
		charset[i] = f.charset[gid]
	}

	topDict := f.topDict.clone()
	delete(topDict, opEncoding)
	delete(topDict, opPrivate)

	var fdSelect []uint8
	var fdDicts []cffDict
	var privDicts []cffDict
	if f.IsCIDKeyed {
		// renumber font dicts so only the used ones remain
		fdMap := make(map[uint8]uint8)
		for _, gid := range keep {
			old := f.fdSelect[gid]
			if _, ok := fdMap[old]; !ok {
				fdMap[old] = uint8(len(fdDicts))
				fdDicts = append(fdDicts, f.fdFonts[old].dict.clone())
				privDicts = append(privDicts, f.fdFonts[old].private.dict.clone())
			}
		}
		fdSelect = make([]uint8, len(keep))
		for i, gid := range keep {
			fdSelect[i] = fdMap[f.fdSelect[gid]]
		}
	} else {
		privDicts = []cffDict{f.private.dict.clone()}
	}
	for _, pd := range privDicts {
		delete(pd, opSubrs)
	}

	// The layout is computed with placeholder offsets first.  All
	// offsets use the fixed five-byte integer encoding, so sizes do
	// not change when the real values are filled in.
	writeOffsets := func() {
		topDict.setInts(opCharset, 0)
		topDict.setInts(opCharStrings, 0)
		if f.IsCIDKeyed {
			topDict.setInts(opFDArray, 0)
			topDict.setInts(opFDSelect, 0)
		} else {
			topDict.setInts(opPrivate, 0, 0)
		}
		for i := range fdDicts {
			fdDicts[i].setInts(opPrivate, 0, 0)
		}
	}
	writeOffsets()

	layout := func() (charsetOffs, fdSelectOffs, charStringsOffs, fdArrayOffs int, privOffs [][2]int32) {
		fdBlobs := make([][]byte, len(fdDicts))
		for i, fd := range fdDicts {
			fdBlobs[i] = fd.encode()
		}

		pos := 4 // header
		pos += indexSize([][]byte{[]byte(f.Name)})
		pos += indexSize([][]byte{topDict.encode()})
		pos += indexSize(f.strings)
		pos += 2 // empty global subr INDEX

		charsetOffs = pos
		pos += charsetSize(charset)
		if f.IsCIDKeyed {
			fdSelectOffs = pos
			pos += fdSelectSize(fdSelect)
		}
		charStringsOffs = pos
		pos += indexSize(charStrings)
		if f.IsCIDKeyed {
			fdArrayOffs = pos
			pos += indexSize(fdBlobs)
		}
		for _, pd := range privDicts {
			blob := pd.encode()
			privOffs = append(privOffs, [2]int32{int32(len(blob)), int32(pos)})
			pos += len(blob)
		}
		return
	}
	charsetOffs, fdSelectOffs, charStringsOffs, fdArrayOffs, privOffs := layout()

	topDict.setInts(opCharset, int32(charsetOffs))
	topDict.setInts(opCharStrings, int32(charStringsOffs))
	if f.IsCIDKeyed {
		topDict.setInts(opFDArray, int32(fdArrayOffs))
		topDict.setInts(opFDSelect, int32(fdSelectOffs))
		for i := range fdDicts {
			fdDicts[i].setInts(opPrivate, privOffs[i][0], privOffs[i][1])
		}
	} else {
		topDict.setInts(opPrivate, privOffs[0][0], privOffs[0][1])
	}

	buf := []byte{1, 0, 4, 4}
	buf = appendIndex(buf, [][]byte{[]byte(f.Name)})
	buf = appendIndex(buf, [][]byte{topDict.encode()})
	buf = appendIndex(buf, f.strings)
	buf = appendIndex(buf, nil)

	buf = appendCharset(buf, charset)
	if f.IsCIDKeyed {
		buf = appendFDSelect(buf, fdSelect)
	}
	buf = appendIndex(buf, charStrings)
	if f.IsCIDKeyed {
		fdBlobs := make([][]byte, len(fdDicts))
		for i, fd := range fdDicts {
			fdBlobs[i] = fd.encode()
		}
		buf = appendIndex(buf, fdBlobs)
	}
	for _, pd := range privDicts {
		buf = append(buf, pd.encode()...)
	}

	return buf, nil
}
