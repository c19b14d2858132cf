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

// Package charset represents sets of unicode code points as sorted lists
// of closed ranges, and reads such sets from range files.
package charset

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/slices"
)

// Range is a closed interval [Lo, Hi] of unicode code points.
type Range struct {
	Lo, Hi rune
}

// Set is an ordered set of unicode code points, stored as a sorted list of
// non-overlapping, non-adjacent ranges.  Use New to construct a valid Set.
// Sets are immutable once constructed and can be shared between goroutines.
type Set struct {
	ranges []Range
}

// New constructs a Set from the given ranges.  Overlapping and adjacent
// ranges are merged, empty ranges (Hi < Lo) are swapped into order.
func New(rr ...Range) *Set {
	norm := make([]Range, 0, len(rr))
	for _, r := range rr {
		if r.Hi < r.Lo {
			r.Lo, r.Hi = r.Hi, r.Lo
		}
		norm = append(norm, r)
	}
	sort.Slice(norm, func(i, j int) bool {
		if norm[i].Lo != norm[j].Lo {
			return norm[i].Lo < norm[j].Lo
		}
		return norm[i].Hi < norm[j].Hi
	})

	var merged []Range
	for _, r := range norm {
		n := len(merged)
		if n > 0 && r.Lo <= merged[n-1].Hi+1 {
			if r.Hi > merged[n-1].Hi {
				merged[n-1].Hi = r.Hi
			}
			continue
		}
		merged = append(merged, r)
	}
	return &Set{ranges: merged}
}

// FromRunes constructs a Set containing exactly the given runes.
func FromRunes(rr []rune) *Set {
	ranges := make([]Range, len(rr))
	for i, r := range rr {
		ranges[i] = Range{r, r}
	}
	return New(ranges...)
}

// Contains reports whether the code point r is an element of the set.
func (s *Set) Contains(r rune) bool {
	idx := sort.Search(len(s.ranges), func(i int) bool {
		return r <= s.ranges[i].Hi
	})
	return idx < len(s.ranges) && s.ranges[idx].Lo <= r
}

// Ranges returns the ranges of the set in ascending order.
// The caller must not modify the returned slice.
func (s *Set) Ranges() []Range {
	return s.ranges
}

// NumRunes returns the number of code points in the set.
func (s *Set) NumRunes() int {
	n := 0
	for _, r := range s.ranges {
		n += int(r.Hi-r.Lo) + 1
	}
	return n
}

// IsEmpty reports whether the set contains no code points.
func (s *Set) IsEmpty() bool {
	return len(s.ranges) == 0
}

// AppendRunes appends all code points of the set to buf, in ascending
// order, and returns the extended slice.
func (s *Set) AppendRunes(buf []rune) []rune {
	for _, rg := range s.ranges {
		for r := rg.Lo; r <= rg.Hi; r++ {
			buf = append(buf, r)
		}
	}
	return buf
}

// Union returns a new Set containing the code points of both sets.
func (s *Set) Union(other *Set) *Set {
	rr := slices.Clone(s.ranges)
	rr = append(rr, other.ranges...)
	return New(rr...)
}

// String returns the set in CSS unicode-range notation, for example
// "U+4E00-9FFF, U+FF0C".
func (s *Set) String() string {
	b := &strings.Builder{}
	for i, r := range s.ranges {
		if i > 0 {
			b.WriteString(", ")
		}
		if r.Lo == r.Hi {
			fmt.Fprintf(b, "U+%04X", r.Lo)
		} else {
			fmt.Fprintf(b, "U+%04X-%04X", r.Lo, r.Hi)
		}
	}
	return b.String()
}
