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

// Package subset reduces fonts to the glyphs needed for a given set of
// code points.
package subset

import (
	"golang.org/x/exp/slices"

	"seehuhn.de/go/subfont/charset"
	"seehuhn.de/go/subfont/font"
	"seehuhn.de/go/subfont/font/sfnt"
)

// Coverage maps each covered code point to its glyph in the original
// font.  Code points the font does not cover are absent.
type Coverage map[rune]font.GlyphID

// Closure determines the glyphs needed for the code points in set.
//
// The returned glyph list is sorted, starts with glyph 0, and is
// closed under glyph references: every component of a retained
// composite glyph is retained, too.
func Closure(f *sfnt.Font, set *charset.Set) (Coverage, []font.GlyphID, error) {
	sub, err := f.BestCMap()
	if err != nil {
		return nil, nil, err
	}

	coverage := make(Coverage)
	for _, r := range set.AppendRunes(nil) {
		if gid := sub.Lookup(r); gid != 0 {
			coverage[r] = gid
		}
	}

	visited := map[font.GlyphID]bool{0: true}
	todo := []font.GlyphID{0}
	for _, gid := range coverage {
		if !visited[gid] {
			visited[gid] = true
			todo = append(todo, gid)
		}
	}

	numGlyphs := f.NumGlyphs()
	for len(todo) > 0 {
		gid := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		if int(gid) >= numGlyphs {
			return nil, nil, &font.InvalidFontError{
				SubSystem: "subset",
				Reason:    "glyph reference out of range",
			}
		}

		var components []font.GlyphID
		if f.Outlines.IsCFF() {
			components, err = f.Outlines.CFF.ComponentGlyphs(gid)
			if err != nil {
				return nil, nil, err
			}
		} else {
			components = (*f.Outlines.Glyf)[gid].Components()
		}
		for _, c := range components {
			if !visited[c] {
				visited[c] = true
				todo = append(todo, c)
			}
		}
	}

	glyphs := make([]font.GlyphID, 0, len(visited))
	for gid := range visited {
		glyphs = append(glyphs, gid)
	}
	slices.Sort(glyphs)
	return coverage, glyphs, nil
}
