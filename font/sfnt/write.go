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

package sfnt

import (
	"bytes"

	"seehuhn.de/go/subfont/font/sfnt/header"
)

// ScalerType returns the scaler type for the font's outline format.
func (f *Font) ScalerType() uint32 {
	if f.Outlines.IsCFF() {
		return header.ScalerTypeCFF
	}
	return header.ScalerTypeTrueType
}

// EncodeTables returns the binary form of all font tables.  Tables
// with decoded views are re-encoded; all others are taken from
// f.Tables unchanged.
func (f *Font) EncodeTables() map[string][]byte {
	tables := make(map[string][]byte, len(f.Tables)+8)
	for tag, body := range f.Tables {
		tables[tag] = body
	}

	if f.Outlines.IsCFF() {
		tables["CFF "] = f.Outlines.CFFData
		delete(tables, "glyf")
		delete(tables, "loca")
	} else {
		enc := f.Outlines.Glyf.Encode()
		tables["glyf"] = enc.GlyfData
		tables["loca"] = enc.LocaData
		f.Head.HasLongOffsets = enc.LocaFormat == 1
		delete(tables, "CFF ")
	}

	tables["head"] = f.Head.Encode()
	tables["maxp"] = f.Maxp.Encode()
	hheaData, hmtxData := f.Hmtx.Encode()
	tables["hhea"] = hheaData
	tables["hmtx"] = hmtxData

	return tables
}

// Encode returns the complete font file.
func (f *Font) Encode() ([]byte, error) {
	tables := f.EncodeTables()
	buf := &bytes.Buffer{}
	_, err := header.Write(buf, f.ScalerType(), tables)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
