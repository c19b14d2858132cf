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

package subset

import (
	"errors"

	"seehuhn.de/go/subfont/charset"
	"seehuhn.de/go/subfont/font"
	"seehuhn.de/go/subfont/font/cff"
	"seehuhn.de/go/subfont/font/sfnt"
	"seehuhn.de/go/subfont/font/sfnt/cmap"
	"seehuhn.de/go/subfont/font/sfnt/glyf"
	"seehuhn.de/go/subfont/font/sfnt/hmtx"
	"seehuhn.de/go/subfont/font/sfnt/maxp"
)

// ErrEmptySubset indicates that the font covers none of the requested
// code points.
var ErrEmptySubset = errors.New("no glyphs for the requested code points")

// Options modifies the behaviour of Subset.
type Options struct {
	// AllowEmpty permits subsets which cover none of the requested
	// code points.  The result then contains only glyph 0.
	AllowEmpty bool
}

// tables carried over from the original font unchanged
var passThroughTables = []string{"name", "OS/2"}

// Subset returns a copy of the font which contains only the glyphs
// needed for the code points in set.  Glyph IDs are renumbered to be
// contiguous; all tables which refer to glyph IDs are rebuilt
// accordingly.  The original font is not modified.
func Subset(f *sfnt.Font, set *charset.Set, opt *Options) (*sfnt.Font, error) {
	if opt == nil {
		opt = &Options{}
	}

	coverage, keep, err := Closure(f, set)
	if err != nil {
		return nil, err
	}
	if len(coverage) == 0 && !opt.AllowEmpty {
		return nil, ErrEmptySubset
	}

	newGid := make(map[font.GlyphID]font.GlyphID, len(keep))
	for i, gid := range keep {
		newGid[gid] = font.GlyphID(i)
	}

	res := &sfnt.Font{
		Tables: make(map[string][]byte),
	}
	for _, tag := range passThroughTables {
		if body, ok := f.Tables[tag]; ok {
			res.Tables[tag] = body
		}
	}
	if post, ok := f.Tables["post"]; ok {
		res.Tables["post"] = stripGlyphNames(post)
	}

	headInfo := *f.Head
	res.Head = &headInfo

	res.Maxp = &maxp.Info{
		Version:   f.Maxp.Version,
		NumGlyphs: len(keep),
		TT:        f.Maxp.TT,
	}

	res.Hmtx = &hmtx.Info{
		Width:          make([]uint16, len(keep)),
		LSB:            make([]int16, len(keep)),
		Ascent:         f.Hmtx.Ascent,
		Descent:        f.Hmtx.Descent,
		LineGap:        f.Hmtx.LineGap,
		CaretSlopeRise: f.Hmtx.CaretSlopeRise,
		CaretSlopeRun:  f.Hmtx.CaretSlopeRun,
		CaretOffset:    f.Hmtx.CaretOffset,
	}
	for i, gid := range keep {
		res.Hmtx.Width[i] = f.Hmtx.Width[gid]
		res.Hmtx.LSB[i] = f.Hmtx.LSB[gid]
	}

	if f.Outlines.IsCFF() {
		cffData, err := f.Outlines.CFF.Subset(keep)
		if err != nil {
			return nil, err
		}
		cffFont, err := cff.Read(cffData)
		if err != nil {
			return nil, err
		}
		res.Outlines = &sfnt.Outlines{CFF: cffFont, CFFData: cffData}
	} else {
		glyphs := make(glyf.Glyphs, len(keep))
		for i, gid := range keep {
			glyphs[i] = (*f.Outlines.Glyf)[gid].FixComponents(newGid)
		}
		res.Outlines = &sfnt.Outlines{Glyf: &glyphs}
	}

	mapping := make(map[rune]font.GlyphID, len(coverage))
	for r, gid := range coverage {
		mapping[r] = newGid[gid]
	}
	cmapData := cmap.Encode(mapping)
	res.Tables["cmap"] = cmapData
	res.CMap, err = cmap.Decode(cmapData)
	if err != nil {
		return nil, err
	}

	return res, nil
}

// stripGlyphNames turns a "post" table into an equivalent version 3.0
// table.  Per-glyph name data would be invalidated by renumbering, and
// web fonts do not need it.
func stripGlyphNames(post []byte) []byte {
	if len(post) < 32 {
		return post
	}
	res := make([]byte, 32)
	copy(res, post[:32])
	res[0] = 0x00
	res[1] = 0x03
	res[2] = 0x00
	res[3] = 0x00
	return res
}
