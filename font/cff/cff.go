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

// Package cff reads and writes CFF font data embedded in OpenType fonts.
// Only what is needed for glyph subsetting is implemented: the container
// structure, the charset, FDSelect, and enough of the Type 2 charstring
// format to flatten subroutine calls.
//
// https://adobe-type-tools.github.io/font-tech-notes/pdfs/5176.CFF.pdf
// https://adobe-type-tools.github.io/font-tech-notes/pdfs/5177.Type2.pdf
package cff

import (
	"fmt"

	"seehuhn.de/go/subfont/font"
)

// Font is the parsed representation of a CFF font.  Charstrings are kept
// in their binary form; outlines are never fully decoded.
type Font struct {
	Name       string
	IsCIDKeyed bool

	topDict     cffDict
	strings     [][]byte
	gsubrs      [][]byte
	charStrings [][]byte
	charset     []int32 // SID (or CID) for each glyph

	// for CID-keyed fonts: one entry per font dict
	fdSelect []uint8 // FD index for each glyph
	fdFonts  []fdFont

	// for simple fonts
	private *privateDict
}

type fdFont struct {
	dict    cffDict
	private *privateDict
}

type privateDict struct {
	dict  cffDict
	subrs [][]byte
}

// Read parses a CFF font from the contents of an sfnt "CFF " table.
func Read(data []byte) (*Font, error) {
	if len(data) < 4 {
		return nil, invalid("table too short")
	}
	major := data[0]
	hdrSize := int(data[2])
	if major != 1 {
		return nil, &font.NotSupportedError{
			SubSystem: "cff",
			Feature:   fmt.Sprintf("CFF version %d.%d", data[0], data[1]),
		}
	}
	if hdrSize < 4 || hdrSize > len(data) {
		return nil, invalid("invalid header size")
	}

	f := &Font{}

	// the fixed part: Name INDEX, Top DICT INDEX, String INDEX,
	// Global Subr INDEX
	names, pos, err := readIndex(data, hdrSize)
	if err != nil {
		return nil, err
	}
	if len(names) != 1 {
		return nil, &font.NotSupportedError{
			SubSystem: "cff",
			Feature:   "fontsets with multiple fonts",
		}
	}
	f.Name = string(names[0])

	topDicts, pos, err := readIndex(data, pos)
	if err != nil {
		return nil, err
	}
	if len(topDicts) != 1 {
		return nil, invalid("malformed Top DICT INDEX")
	}
	f.topDict, err = decodeDict(topDicts[0])
	if err != nil {
		return nil, err
	}

	f.strings, pos, err = readIndex(data, pos)
	if err != nil {
		return nil, err
	}
	f.gsubrs, _, err = readIndex(data, pos)
	if err != nil {
		return nil, err
	}

	if v := f.topDict.getInt(opCharstringType, 2); v != 2 {
		return nil, &font.NotSupportedError{
			SubSystem: "cff",
			Feature:   fmt.Sprintf("charstring type %d", v),
		}
	}

	// CharStrings INDEX
	charStringsOffs := int(f.topDict.getInt(opCharStrings, 0))
	f.charStrings, _, err = readIndexAt(data, charStringsOffs, "CharStrings")
	if err != nil {
		return nil, err
	}
	numGlyphs := len(f.charStrings)
	if numGlyphs == 0 {
		return nil, invalid("no charstrings")
	}

	// charset
	f.charset, err = readCharset(data, int(f.topDict.getInt(opCharset, 0)), numGlyphs)
	if err != nil {
		return nil, err
	}

	_, f.IsCIDKeyed = f.topDict[opROS]
	if f.IsCIDKeyed {
		fdaOffs := int(f.topDict.getInt(opFDArray, 0))
		fontDicts, _, err := readIndexAt(data, fdaOffs, "FDArray")
		if err != nil {
			return nil, err
		}
		for _, blob := range fontDicts {
			fd, err := decodeDict(blob)
			if err != nil {
				return nil, err
			}
			priv, err := readPrivate(data, fd)
			if err != nil {
				return nil, err
			}
			f.fdFonts = append(f.fdFonts, fdFont{dict: fd, private: priv})
		}

		f.fdSelect, err = readFDSelect(data,
			int(f.topDict.getInt(opFDSelect, 0)), numGlyphs, len(f.fdFonts))
		if err != nil {
			return nil, err
		}
	} else {
		f.private, err = readPrivate(data, f.topDict)
		if err != nil {
			return nil, err
		}
	}

	return f, nil
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return len(f.charStrings)
}

func readPrivate(data []byte, d cffDict) (*privateDict, error) {
	size, offs, ok := d.getPair(opPrivate)
	if !ok {
		return &privateDict{dict: cffDict{}}, nil
	}
	if size < 0 || offs < 0 || int64(offs)+int64(size) > int64(len(data)) {
		return nil, invalid("invalid Private DICT location")
	}
	pd, err := decodeDict(data[offs : offs+size])
	if err != nil {
		return nil, err
	}
	res := &privateDict{dict: pd}

	if subrsOffs := pd.getInt(opSubrs, 0); subrsOffs > 0 {
		res.subrs, _, err = readIndexAt(data, int(offs)+int(subrsOffs), "Subrs")
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// privateFor returns the private dict in effect for the given glyph.
func (f *Font) privateFor(gid font.GlyphID) (*privateDict, error) {
	if !f.IsCIDKeyed {
		return f.private, nil
	}
	fd := f.fdSelect[gid]
	if int(fd) >= len(f.fdFonts) {
		return nil, invalid(fmt.Sprintf("FD index %d out of range", fd))
	}
	return f.fdFonts[fd].private, nil
}

func invalid(reason string) error {
	return &font.InvalidFontError{
		SubSystem: "cff",
		Reason:    reason,
	}
}
