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

import (
	"encoding/binary"

	"seehuhn.de/go/subfont/font/sfnt/glyf"
)

// glyfTransformer builds the transformed "glyf" table.  The table is
// split into seven streams which compress better than the interleaved
// original.
type glyfTransformer struct {
	nContours    []byte
	nPoints      []byte
	flags        []byte
	glyphs       []byte
	composites   []byte
	bboxBitmap   []byte
	bboxes       []byte
	instructions []byte
}

// transformGlyf encodes the glyphs in the transformed format from the
// WOFF2 specification, section 5.1.  The corresponding "loca" table
// is empty.
func transformGlyf(glyphs glyf.Glyphs, indexFormat int16) ([]byte, error) {
	numGlyphs := len(glyphs)
	tr := &glyfTransformer{
		bboxBitmap: make([]byte, 4*((numGlyphs+31)/32)),
	}

	for gid, g := range glyphs {
		err := tr.addGlyph(gid, g)
		if err != nil {
			return nil, err
		}
	}

	head := make([]byte, 36)
	binary.BigEndian.PutUint16(head[4:], uint16(numGlyphs))
	binary.BigEndian.PutUint16(head[6:], uint16(indexFormat))
	binary.BigEndian.PutUint32(head[8:], uint32(len(tr.nContours)))
	binary.BigEndian.PutUint32(head[12:], uint32(len(tr.nPoints)))
	binary.BigEndian.PutUint32(head[16:], uint32(len(tr.flags)))
	binary.BigEndian.PutUint32(head[20:], uint32(len(tr.glyphs)))
	binary.BigEndian.PutUint32(head[24:], uint32(len(tr.composites)))
	binary.BigEndian.PutUint32(head[28:], uint32(len(tr.bboxBitmap)+len(tr.bboxes)))
	binary.BigEndian.PutUint32(head[32:], uint32(len(tr.instructions)))

	res := head
	res = append(res, tr.nContours...)
	res = append(res, tr.nPoints...)
	res = append(res, tr.flags...)
	res = append(res, tr.glyphs...)
	res = append(res, tr.composites...)
	res = append(res, tr.bboxBitmap...)
	res = append(res, tr.bboxes...)
	res = append(res, tr.instructions...)
	return res, nil
}

func (tr *glyfTransformer) addGlyph(gid int, g *glyf.Glyph) error {
	if g == nil {
		tr.appendNContours(0)
		return nil
	}

	switch d := g.Data.(type) {
	case glyf.SimpleGlyph:
		if d.NumContours == 0 {
			tr.appendNContours(0)
			return nil
		}
		info, err := d.Decode()
		if err != nil {
			return err
		}
		tr.appendNContours(d.NumContours)
		var prev glyf.Point
		for _, contour := range info.Contours {
			tr.nPoints = append255UInt16(tr.nPoints, uint16(len(contour)))
			for _, pt := range contour {
				tr.appendTriplet(int(pt.X-prev.X), int(pt.Y-prev.Y), pt.OnCurve)
				prev = pt
			}
		}
		tr.glyphs = append255UInt16(tr.glyphs, uint16(len(info.Instructions)))
		tr.instructions = append(tr.instructions, info.Instructions...)

	case glyf.CompositeGlyph:
		tr.appendNContours(-1)
		haveInstructions := false
		for _, comp := range d.Components {
			flags := comp.Flags
			if flags&glyf.FlagWeHaveInstructions != 0 {
				haveInstructions = true
			}
			tr.composites = append(tr.composites,
				byte(flags>>8), byte(flags),
				byte(comp.GlyphIndex>>8), byte(comp.GlyphIndex))
			tr.composites = append(tr.composites, comp.Args...)
		}
		if haveInstructions {
			tr.glyphs = append255UInt16(tr.glyphs, uint16(len(d.Instructions)))
			tr.instructions = append(tr.instructions, d.Instructions...)
		}

	default:
		return errInvalidGlyph
	}

	// explicit bounding box for every non-empty glyph
	tr.bboxBitmap[gid>>3] |= 0x80 >> (gid & 7)
	for _, v := range [4]int16{
		int16(g.LLx), int16(g.LLy), int16(g.URx), int16(g.URy),
	} {
		tr.bboxes = append(tr.bboxes, byte(uint16(v)>>8), byte(uint16(v)))
	}
	return nil
}

func (tr *glyfTransformer) appendNContours(n int16) {
	tr.nContours = append(tr.nContours, byte(uint16(n)>>8), byte(uint16(n)))
}

// appendTriplet encodes one point as a flag byte and one to four data
// bytes, as defined in section 5.2 of the WOFF2 specification.
func (tr *glyfTransformer) appendTriplet(dx, dy int, onCurve bool) {
	var onCurveBit byte
	if !onCurve {
		onCurveBit = 0x80
	}
	var xSign, ySign byte
	absX, absY := dx, dy
	if dx >= 0 {
		xSign = 1
	} else {
		absX = -dx
	}
	if dy >= 0 {
		ySign = 1
	} else {
		absY = -dy
	}

	switch {
	case dx == 0 && absY < 1280:
		tr.flags = append(tr.flags,
			onCurveBit|byte((absY&0xF00)>>7)|ySign)
		tr.glyphs = append(tr.glyphs, byte(absY))
	case dy == 0 && absX < 1280:
		tr.flags = append(tr.flags,
			onCurveBit|byte(10+((absX&0xF00)>>7))|xSign)
		tr.glyphs = append(tr.glyphs, byte(absX))
	case absX < 65 && absY < 65:
		tr.flags = append(tr.flags,
			onCurveBit|byte(20+((absX-1)&0x30)+(((absY-1)&0x30)>>2))|ySign<<1|xSign)
		tr.glyphs = append(tr.glyphs,
			byte(((absX-1)&0x0F)<<4|((absY-1)&0x0F)))
	case absX < 769 && absY < 769:
		tr.flags = append(tr.flags,
			onCurveBit|byte(84+12*((absX-1)>>8)+(((absY-1)>>8)<<2))|ySign<<1|xSign)
		tr.glyphs = append(tr.glyphs, byte(absX-1), byte(absY-1))
	case absX < 4096 && absY < 4096:
		tr.flags = append(tr.flags, onCurveBit|120|ySign<<1|xSign)
		tr.glyphs = append(tr.glyphs,
			byte(absX>>4),
			byte((absX&0x0F)<<4|absY>>8),
			byte(absY))
	default:
		tr.flags = append(tr.flags, onCurveBit|124|ySign<<1|xSign)
		tr.glyphs = append(tr.glyphs,
			byte(absX>>8), byte(absX),
			byte(absY>>8), byte(absY))
	}
}
