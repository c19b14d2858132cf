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

// Package woff2 writes fonts in the WOFF2 file format.
// https://www.w3.org/TR/WOFF2/
package woff2

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/andybalholm/brotli"

	"seehuhn.de/go/subfont/font"
	"seehuhn.de/go/subfont/font/sfnt"
	"seehuhn.de/go/subfont/font/sfnt/header"
)

// ErrEncoding indicates that the font could not be converted to WOFF2.
var ErrEncoding = errors.New("cannot encode WOFF2 data")

var errInvalidGlyph = &font.InvalidFontError{
	SubSystem: "woff2",
	Reason:    "invalid glyph data",
}

type tableEntry struct {
	tag     string
	data    []byte // payload written to the compressed stream
	origLen uint32
	// hasTransformLen is set for transformed glyf and loca tables
	hasTransformLen bool
}

// Encode serialises the font as a WOFF2 file.  For TrueType outlines
// the "glyf" and "loca" tables are stored in the transformed format.
// The output is deterministic: the same font always yields the same
// bytes.
func Encode(f *sfnt.Font) ([]byte, error) {
	tables := f.EncodeTables()
	names := header.Order(tables)
	if len(names) > 0xFFFF {
		return nil, fmt.Errorf("%w: too many tables", ErrEncoding)
	}

	entries := make([]tableEntry, 0, len(names))
	for _, name := range names {
		body := tables[name]
		entry := tableEntry{
			tag:     name,
			data:    body,
			origLen: uint32(len(body)),
		}
		switch name {
		case "glyf":
			if f.Outlines.Glyf == nil {
				return nil, fmt.Errorf("%w: glyf table without outlines", ErrEncoding)
			}
			var indexFormat int16
			if f.Head.HasLongOffsets {
				indexFormat = 1
			}
			transformed, err := transformGlyf(*f.Outlines.Glyf, indexFormat)
			if err != nil {
				return nil, err
			}
			entry.data = transformed
			entry.hasTransformLen = true
		case "loca":
			entry.data = nil
			entry.hasTransformLen = true
		}
		entries = append(entries, entry)
	}

	// table directory
	var dir []byte
	var totalSfntSize uint32 = 12 + 16*uint32(len(entries))
	for _, entry := range entries {
		idx := tagIndex(entry.tag)
		dir = append(dir, idx) // transform version 0 in the high bits
		if idx == 63 {
			dir = append(dir, entry.tag...)
		}
		dir = appendBase128(dir, entry.origLen)
		if entry.hasTransformLen {
			dir = appendBase128(dir, uint32(len(entry.data)))
		}
		totalSfntSize += (entry.origLen + 3) &^ 3
	}

	var plain []byte
	for _, entry := range entries {
		plain = append(plain, entry.data...)
	}

	compressed := &bytes.Buffer{}
	w := brotli.NewWriterLevel(compressed, brotli.BestCompression)
	_, err := w.Write(plain)
	if err == nil {
		err = w.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEncoding, err)
	}

	totalLength := 48 + len(dir) + compressed.Len()

	res := make([]byte, 0, totalLength)
	res = append(res, "wOF2"...)
	res = appendU32(res, f.ScalerType())
	res = appendU32(res, uint32(totalLength))
	res = append(res, byte(len(entries)>>8), byte(len(entries)))
	res = append(res, 0, 0) // reserved
	res = appendU32(res, totalSfntSize)
	res = appendU32(res, uint32(compressed.Len()))
	res = append(res, 0, 0, 0, 0) // majorVersion, minorVersion
	res = appendU32(res, 0)       // metaOffset
	res = appendU32(res, 0)       // metaLength
	res = appendU32(res, 0)       // metaOrigLength
	res = appendU32(res, 0)       // privOffset
	res = appendU32(res, 0)       // privLength
	res = append(res, dir...)
	res = append(res, compressed.Bytes()...)
	return res, nil
}

func appendU32(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
