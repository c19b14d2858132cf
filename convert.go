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

package subfont

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"seehuhn.de/go/subfont/charset"
	"seehuhn.de/go/subfont/font/sfnt"
	"seehuhn.de/go/subfont/subset"
	"seehuhn.de/go/subfont/woff2"
)

var errNoProfiles = errors.New("no language profiles configured")

// Result describes the outcome of a conversion.
type Result struct {
	// GlyphsBefore and GlyphsAfter are the glyph counts of the input
	// font and of the subset.
	GlyphsBefore int
	GlyphsAfter  int

	// BytesBefore is the size of the input file, BytesAfter the size
	// of the WOFF2 output.
	BytesBefore int64
	BytesAfter  int64

	// Coverage contains the code points which are mapped by the
	// output font.
	Coverage *charset.Set
}

// Convert writes a WOFF2 version of the font at srcPath to dstPath,
// reduced to the code points selected by spec.  An existing file at
// dstPath is replaced.  If the conversion fails, dstPath is left
// untouched.
func Convert(ctx context.Context, srcPath string, spec UnicodeSpec, dstPath string, cfg *Config) (*Result, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	srcData, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, err
	}
	f, err := sfnt.Read(srcData)
	if err != nil {
		return nil, err
	}

	set, err := spec.Charset(cfg)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sub, err := subset.Subset(f, set, &subset.Options{AllowEmpty: cfg.AllowEmpty})
	if err != nil {
		return nil, err
	}
	out, err := woff2.Encode(sub)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err = writeAtomic(dstPath, out)
	if err != nil {
		return nil, err
	}

	coverage, err := coveredRunes(sub)
	if err != nil {
		return nil, err
	}
	return &Result{
		GlyphsBefore: f.NumGlyphs(),
		GlyphsAfter:  sub.NumGlyphs(),
		BytesBefore:  int64(len(srcData)),
		BytesAfter:   int64(len(out)),
		Coverage:     coverage,
	}, nil
}

func coveredRunes(f *sfnt.Font) (*charset.Set, error) {
	cm, err := f.BestCMap()
	if err != nil {
		return nil, err
	}
	return charset.FromRunes(cm.AppendRunes(nil)), nil
}

// writeAtomic writes data to path via a temporary file in the same
// directory, so that no partial file is visible at path at any time.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".subfont-*")
	if err != nil {
		return err
	}
	_, err = tmp.Write(data)
	if err2 := tmp.Close(); err == nil {
		err = err2
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
	}
	return err
}
