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

// Package debug constructs small fonts for use in unit tests.
package debug

import (
	"time"

	"seehuhn.de/go/subfont/font"
	"seehuhn.de/go/subfont/font/cff"
	"seehuhn.de/go/subfont/font/funit"
	"seehuhn.de/go/subfont/font/sfnt"
	"seehuhn.de/go/subfont/font/sfnt/cmap"
	"seehuhn.de/go/subfont/font/sfnt/glyf"
	"seehuhn.de/go/subfont/font/sfnt/head"
	"seehuhn.de/go/subfont/font/sfnt/hmtx"
	"seehuhn.de/go/subfont/font/sfnt/maxp"
)

// SquareGlyph returns a simple glyph showing an axis-aligned square
// with the given side length.
func SquareGlyph(size int16) *glyf.Glyph {
	tail := []byte{
		0x00, 0x03, // endPtsOfContours
		0x00, 0x00, // instructionLength
		0x01, 0x01, 0x01, 0x01, // flags: on curve, 16-bit deltas
	}
	deltas := []int16{
		0, size, 0, -size, // x
		0, 0, size, 0, // y
	}
	for _, d := range deltas {
		tail = append(tail, byte(uint16(d)>>8), byte(uint16(d)))
	}
	return &glyf.Glyph{
		Rect: funit.Rect{URx: funit.Int16(size), URy: funit.Int16(size)},
		Data: glyf.SimpleGlyph{NumContours: 1, Tail: tail},
	}
}

// CompositeGlyph returns a glyph assembled from the given components,
// each placed at the origin.
func CompositeGlyph(bbox funit.Rect, components ...font.GlyphID) *glyf.Glyph {
	d := glyf.CompositeGlyph{}
	for i, gid := range components {
		flags := uint16(0x0002) // args are x/y values
		if i < len(components)-1 {
			flags |= glyf.FlagMoreComponents
		}
		d.Components = append(d.Components, glyf.GlyphComponent{
			Flags:      flags,
			GlyphIndex: gid,
			Args:       []byte{0, 0},
		})
	}
	return &glyf.Glyph{Rect: bbox, Data: d}
}

// NewTrueTypeFont assembles a font from glyph outlines, advance widths
// and a code point mapping.  Glyph 0 must be present in glyphs.
func NewTrueTypeFont(glyphs glyf.Glyphs, widths []uint16, mapping map[rune]font.GlyphID) *sfnt.Font {
	numGlyphs := len(glyphs)

	var bbox funit.Rect
	for _, g := range glyphs {
		if g != nil {
			bbox.Extend(g.Rect)
		}
	}

	modified := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := &sfnt.Font{
		Head: &head.Info{
			FontRevision:  0x00010000,
			Flags:         0x0003,
			UnitsPerEm:    1000,
			Created:       modified,
			Modified:      modified,
			FontBBox:      bbox,
			LowestRecPPEM: 7,
		},
		Maxp: &maxp.Info{
			Version:   maxp.Version10,
			NumGlyphs: numGlyphs,
			TT:        make([]byte, 26),
		},
		Hmtx: &hmtx.Info{
			Width:          widths,
			LSB:            make([]int16, numGlyphs),
			Ascent:         800,
			Descent:        -200,
			LineGap:        200,
			CaretSlopeRise: 1,
		},
		Outlines: &sfnt.Outlines{Glyf: &glyphs},
		Tables:   make(map[string][]byte),
	}
	f.Hmtx.Pad(numGlyphs)

	cmapData := cmap.Encode(mapping)
	f.CMap, _ = cmap.Decode(cmapData)
	f.Tables["cmap"] = cmapData

	f.Tables["name"] = []byte{0, 0, 0, 0, 0, 6}
	f.Tables["OS/2"] = make([]byte, 96)
	f.Tables["post"] = postV3()

	return f
}

func postV3() []byte {
	post := make([]byte, 32)
	post[1] = 0x03 // version 3.0
	return post
}

// NewTestFont returns a font with four mapped glyphs and one composite
// glyph which references glyph 4 as a component:
//
//	gid 0: .notdef
//	gid 1: "A"
//	gid 2: "B"
//	gid 3: U+4E2D, composite referencing gid 4
//	gid 4: unmapped component
//	gid 5: U+6587
func NewTestFont() *sfnt.Font {
	glyphs := glyf.Glyphs{
		SquareGlyph(100),
		SquareGlyph(500),
		SquareGlyph(400),
		CompositeGlyph(funit.Rect{URx: 300, URy: 300}, 4),
		SquareGlyph(300),
		SquareGlyph(600),
	}
	widths := []uint16{500, 550, 560, 1000, 570, 1000}
	mapping := map[rune]font.GlyphID{
		'A':      1,
		'B':      2,
		'中': 3,
		'文': 5,
	}
	return NewTrueTypeFont(glyphs, widths, mapping)
}

// NewCFFFont returns an OpenType font with CFF outlines.  It has two
// glyphs, .notdef and a rectangle mapped to "A".
func NewCFFFont() *sfnt.Font {
	charStrings := [][]byte{
		{14},                       // endchar
		{189, 189, 21, 239, 6, 14}, // 50 50 rmoveto 100 hlineto endchar
	}

	// The CharStrings offset is encoded as a fixed five-byte integer,
	// so the Top DICT has the same size in both layout passes.
	topDict := func(offs int) []byte {
		return []byte{
			29, byte(offs >> 24), byte(offs >> 16), byte(offs >> 8), byte(offs),
			17, // CharStrings
		}
	}
	prefix := func(offs int) []byte {
		buf := []byte{1, 0, 4, 4} // header
		buf = appendCFFIndex(buf, [][]byte{[]byte("Debug")})
		buf = appendCFFIndex(buf, [][]byte{topDict(offs)})
		buf = append(buf, 0, 0) // empty String INDEX
		buf = append(buf, 0, 0) // empty Global Subr INDEX
		return buf
	}
	charStringsOffs := len(prefix(0))
	cffData := appendCFFIndex(prefix(charStringsOffs), charStrings)

	cffFont, err := cff.Read(cffData)
	if err != nil {
		panic(err)
	}

	modified := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := &sfnt.Font{
		Head: &head.Info{
			FontRevision:  0x00010000,
			Flags:         0x0003,
			UnitsPerEm:    1000,
			Created:       modified,
			Modified:      modified,
			FontBBox:      funit.Rect{LLx: 50, LLy: 50, URx: 150, URy: 100},
			LowestRecPPEM: 7,
		},
		Maxp: &maxp.Info{
			Version:   maxp.Version05,
			NumGlyphs: 2,
		},
		Hmtx: &hmtx.Info{
			Width:          []uint16{500, 550},
			LSB:            make([]int16, 2),
			Ascent:         800,
			Descent:        -200,
			LineGap:        200,
			CaretSlopeRise: 1,
		},
		Outlines: &sfnt.Outlines{CFF: cffFont, CFFData: cffData},
		Tables:   make(map[string][]byte),
	}

	cmapData := cmap.Encode(map[rune]font.GlyphID{'A': 1})
	f.CMap, _ = cmap.Decode(cmapData)
	f.Tables["cmap"] = cmapData
	f.Tables["name"] = []byte{0, 0, 0, 0, 0, 6}
	f.Tables["OS/2"] = make([]byte, 96)
	f.Tables["post"] = postV3()

	return f
}

// appendCFFIndex appends an INDEX with one-byte offsets, which is
// enough for the small amounts of data used here.
func appendCFFIndex(buf []byte, items [][]byte) []byte {
	buf = append(buf, byte(len(items)>>8), byte(len(items)))
	if len(items) == 0 {
		return buf
	}
	buf = append(buf, 1) // offSize
	pos := 1
	buf = append(buf, byte(pos))
	for _, item := range items {
		pos += len(item)
		buf = append(buf, byte(pos))
	}
	for _, item := range items {
		buf = append(buf, item...)
	}
	return buf
}
