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
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/subfont/charset"
	"seehuhn.de/go/subfont/font/sfnt"
	"seehuhn.de/go/subfont/subset"
	"seehuhn.de/go/subfont/woff2"
)

// Chunk describes one output file written by Split.
type Chunk struct {
	Path   string
	Ranges *charset.Set
	Result *Result
}

// Split divides a font into several smaller WOFF2 files, each covering
// at most chunkSize code points.  If spec is non-nil, only the
// selected code points are considered; otherwise the complete
// character repertoire of the font is used.  The output files are
// named baseName-0.woff2, baseName-1.woff2, and so on, and are written
// to outDir.  Browsers then only download the chunks a page actually
// uses, via CSS unicode-range descriptors (see WriteCSS).
func Split(ctx context.Context, srcPath, outDir, baseName string, spec UnicodeSpec, chunkSize int, cfg *Config) ([]Chunk, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if chunkSize < 1 {
		return nil, fmt.Errorf("invalid chunk size %d", chunkSize)
	}

	srcData, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, err
	}
	f, err := sfnt.Read(srcData)
	if err != nil {
		return nil, err
	}
	cm, err := f.BestCMap()
	if err != nil {
		return nil, err
	}

	runes := cm.AppendRunes(nil)
	if spec != nil {
		set, err := spec.Charset(cfg)
		if err != nil {
			return nil, err
		}
		n := 0
		for _, r := range runes {
			if set.Contains(r) {
				runes[n] = r
				n++
			}
		}
		runes = runes[:n]
	}
	if len(runes) == 0 {
		return nil, subset.ErrEmptySubset
	}
	slices.Sort(runes)

	var chunks []Chunk
	for start := 0; start < len(runes); start += chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		set := charset.FromRunes(runes[start:end])

		sub, err := subset.Subset(f, set, nil)
		if err != nil {
			return nil, err
		}
		out, err := woff2.Encode(sub)
		if err != nil {
			return nil, err
		}

		path := filepath.Join(outDir,
			fmt.Sprintf("%s-%d.woff2", baseName, len(chunks)))
		err = writeAtomic(path, out)
		if err != nil {
			return nil, err
		}

		chunks = append(chunks, Chunk{
			Path:   path,
			Ranges: set,
			Result: &Result{
				GlyphsBefore: f.NumGlyphs(),
				GlyphsAfter:  sub.NumGlyphs(),
				BytesBefore:  int64(len(srcData)),
				BytesAfter:   int64(len(out)),
				Coverage:     set,
			},
		})
	}
	return chunks, nil
}
