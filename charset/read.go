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

package charset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidRangeFormat indicates that a non-empty range file contained no
// valid range entries at all.
var ErrInvalidRangeFormat = errors.New("charset: no valid unicode ranges found")

// A Warning records a range file line which could not be parsed.
// Malformed lines are skipped, not fatal.
type Warning struct {
	Line int
	Text string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: invalid range %q", w.Line, w.Text)
}

// Read parses a unicode range file.  Each line contains a single entry,
// either a hexadecimal code point or a hyphenated range of code points,
// optionally followed by whitespace and an annotation.  The "U+" prefix of
// CSS unicode-range values is accepted.  Lines starting with "#" or "//"
// are comments.
//
// Malformed lines are reported as warnings.  The error is
// ErrInvalidRangeFormat if the input was non-empty but contained no valid
// entry.
func Read(r io.Reader) (*Set, []Warning, error) {
	var ranges []Range
	var warnings []Warning

	nonEmpty := false
	lineNo := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		nonEmpty = true

		// Only the first field counts, the rest of the line is annotation.
		entry := line
		if idx := strings.IndexFunc(line, unicode.IsSpace); idx >= 0 {
			entry = line[:idx]
		}
		entry = strings.TrimSuffix(entry, ",")

		rg, err := parseRange(entry)
		if err != nil {
			warnings = append(warnings, Warning{Line: lineNo, Text: entry})
			continue
		}
		ranges = append(ranges, rg)
	}
	if err := scanner.Err(); err != nil {
		return nil, warnings, err
	}

	if len(ranges) == 0 && nonEmpty {
		return nil, warnings, ErrInvalidRangeFormat
	}
	return New(ranges...), warnings, nil
}

func parseRange(s string) (Range, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "U+"), "u+")
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		hi = lo
	}
	a, err := parseCodePoint(lo)
	if err != nil {
		return Range{}, err
	}
	b, err := parseCodePoint(hi)
	if err != nil {
		return Range{}, err
	}
	if b < a {
		a, b = b, a
	}
	return Range{Lo: a, Hi: b}, nil
}

func parseCodePoint(s string) (rune, error) {
	if s == "" || len(s) > 6 {
		return 0, strconv.ErrSyntax
	}
	x, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	if x > unicode.MaxRune {
		return 0, strconv.ErrRange
	}
	return rune(x), nil
}
