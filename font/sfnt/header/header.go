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

// Package header reads and writes the sfnt file header and table directory.
// https://docs.microsoft.com/en-us/typography/opentype/spec/otff
package header

import (
	"fmt"
	"sort"

	"seehuhn.de/go/subfont/font"
)

// Valid scaler types for sfnt files.
const (
	ScalerTypeTrueType = 0x00010000
	ScalerTypeCFF      = 0x4F54544F // 'OTTO'
	ScalerTypeApple    = 0x74727565 // 'true'
)

// Header describes the contents of an sfnt file.
type Header struct {
	ScalerType uint32
	Toc        map[string]Record
}

// Record gives the location of a table within the file.
type Record struct {
	Offset uint32
	Length uint32
}

// Read parses the file header and table directory of an sfnt font.
// Table offsets and lengths are validated against the buffer bounds,
// and tables must not overlap.
func Read(data []byte) (*Header, error) {
	if len(data) < 12 {
		return nil, invalid("file too short")
	}
	scalerType := u32(data)
	numTables := int(data[4])<<8 | int(data[5])

	switch scalerType {
	case ScalerTypeTrueType, ScalerTypeCFF, ScalerTypeApple:
		// ok
	default:
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/header",
			Feature:   fmt.Sprintf("scaler type 0x%08x", scalerType),
		}
	}
	if numTables > 280 {
		// the largest value observed in the wild is around 30
		return nil, invalid("too many tables")
	}
	if len(data) < 12+16*numTables {
		return nil, invalid("truncated table directory")
	}

	h := &Header{
		ScalerType: scalerType,
		Toc:        make(map[string]Record, numTables),
	}
	type alloc struct {
		start, end uint32
		name       string
	}
	var coverage []alloc
	for i := 0; i < numTables; i++ {
		rec := data[12+16*i:]
		name := string(rec[:4])
		offset := u32(rec[8:])
		length := u32(rec[12:])
		if offset < 12 || uint64(offset)+uint64(length) > uint64(len(data)) {
			return nil, invalid(fmt.Sprintf("table %q extends beyond EOF", name))
		}
		h.Toc[name] = Record{Offset: offset, Length: length}
		coverage = append(coverage, alloc{start: offset, end: offset + length, name: name})
	}
	if len(h.Toc) == 0 {
		return nil, invalid("no tables found")
	}

	sort.Slice(coverage, func(i, j int) bool {
		if coverage[i].start != coverage[j].start {
			return coverage[i].start < coverage[j].start
		}
		return coverage[i].end < coverage[j].end
	})
	for i := 1; i < len(coverage); i++ {
		if coverage[i-1].end > coverage[i].start {
			return nil, invalid(fmt.Sprintf("table %q overlaps %q",
				coverage[i-1].name, coverage[i].name))
		}
	}

	return h, nil
}

// Has returns true if all of the given tables are present.
func (h *Header) Has(names ...string) bool {
	for _, name := range names {
		if _, ok := h.Toc[name]; !ok {
			return false
		}
	}
	return true
}

// TableBytes returns the raw contents of the named table.
func (h *Header) TableBytes(data []byte, name string) ([]byte, error) {
	rec, ok := h.Toc[name]
	if !ok {
		return nil, &ErrNoTable{Name: name}
	}
	return data[rec.Offset : rec.Offset+rec.Length], nil
}

// ErrNoTable indicates that a required sfnt table is missing.
type ErrNoTable struct {
	Name string
}

func (err *ErrNoTable) Error() string {
	return fmt.Sprintf("sfnt: table %q missing", err.Name)
}

func invalid(reason string) error {
	return &font.InvalidFontError{
		SubSystem: "sfnt/header",
		Reason:    reason,
	}
}

func u32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
