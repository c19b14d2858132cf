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

// Package sfnt reads and writes TrueType and OpenType fonts.
package sfnt

import (
	"seehuhn.de/go/subfont/font"
	"seehuhn.de/go/subfont/font/cff"
	"seehuhn.de/go/subfont/font/sfnt/cmap"
	"seehuhn.de/go/subfont/font/sfnt/glyf"
	"seehuhn.de/go/subfont/font/sfnt/head"
	"seehuhn.de/go/subfont/font/sfnt/header"
	"seehuhn.de/go/subfont/font/sfnt/hmtx"
	"seehuhn.de/go/subfont/font/sfnt/maxp"
)

// Outlines is the glyph outline data of a font.  Exactly one of the
// two representations is used, depending on the outline format.
type Outlines struct {
	Glyf *glyf.Glyphs
	CFF  *cff.Font

	// CFFData is the raw "CFF " table, set when CFF is set.
	CFFData []byte
}

// IsCFF reports whether the font uses CFF outlines.
func (o *Outlines) IsCFF() bool {
	return o.CFF != nil
}

// Font is the parsed form of a TrueType or OpenType font.
type Font struct {
	Head     *head.Info
	Maxp     *maxp.Info
	Hmtx     *hmtx.Info
	CMap     cmap.Table
	Outlines *Outlines

	// Tables holds the raw data of all tables in the file, including
	// the ones with decoded views above.
	Tables map[string][]byte
}

// Read parses a complete font file.
func Read(data []byte) (*Font, error) {
	hdr, err := header.Read(data)
	if err != nil {
		return nil, err
	}

	f := &Font{
		Tables: make(map[string][]byte, len(hdr.Toc)),
	}
	for tag := range hdr.Toc {
		body, err := hdr.TableBytes(data, tag)
		if err != nil {
			return nil, err
		}
		f.Tables[tag] = body
	}

	headData, ok := f.Tables["head"]
	if !ok {
		return nil, missing("head")
	}
	f.Head, err = head.Read(headData)
	if err != nil {
		return nil, err
	}

	maxpData, ok := f.Tables["maxp"]
	if !ok {
		return nil, missing("maxp")
	}
	f.Maxp, err = maxp.Read(maxpData)
	if err != nil {
		return nil, err
	}
	numGlyphs := f.Maxp.NumGlyphs

	hheaData, ok := f.Tables["hhea"]
	if !ok {
		return nil, missing("hhea")
	}
	hmtxData, ok := f.Tables["hmtx"]
	if !ok {
		return nil, missing("hmtx")
	}
	f.Hmtx, err = hmtx.Decode(hheaData, hmtxData)
	if err != nil {
		return nil, err
	}
	f.Hmtx.Pad(numGlyphs)

	cmapData, ok := f.Tables["cmap"]
	if !ok {
		return nil, missing("cmap")
	}
	f.CMap, err = cmap.Decode(cmapData)
	if err != nil {
		return nil, err
	}

	glyfData, hasGlyf := f.Tables["glyf"]
	cffData, hasCFF := f.Tables["CFF "]
	switch {
	case hasGlyf && hasCFF:
		return nil, &font.InvalidFontError{
			SubSystem: "sfnt",
			Reason:    "both glyf and CFF outlines present",
		}
	case hasGlyf:
		locaData, ok := f.Tables["loca"]
		if !ok {
			return nil, missing("loca")
		}
		var locaFormat int16
		if f.Head.HasLongOffsets {
			locaFormat = 1
		}
		glyphs, err := glyf.Decode(&glyf.Encoded{
			GlyfData:   glyfData,
			LocaData:   locaData,
			LocaFormat: locaFormat,
		})
		if err != nil {
			return nil, err
		}
		if len(glyphs) != numGlyphs {
			return nil, &font.InvalidFontError{
				SubSystem: "sfnt",
				Reason:    "glyph count mismatch between maxp and loca",
			}
		}
		f.Outlines = &Outlines{Glyf: &glyphs}
	case hasCFF:
		cffFont, err := cff.Read(cffData)
		if err != nil {
			return nil, err
		}
		if cffFont.NumGlyphs() != numGlyphs {
			return nil, &font.InvalidFontError{
				SubSystem: "sfnt",
				Reason:    "glyph count mismatch between maxp and CFF",
			}
		}
		f.Outlines = &Outlines{CFF: cffFont, CFFData: cffData}
	default:
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt",
			Feature:   "fonts without glyph outlines",
		}
	}

	return f, nil
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return f.Maxp.NumGlyphs
}

// BestCMap returns the preferred Unicode cmap subtable of the font.
func (f *Font) BestCMap() (cmap.Subtable, error) {
	return f.CMap.GetBest()
}

func missing(tag string) error {
	return &font.InvalidFontError{
		SubSystem: "sfnt",
		Reason:    "missing " + tag + " table",
	}
}
