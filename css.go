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
	"fmt"
	"io"
	"path/filepath"
)

// WriteCSS writes @font-face rules for the given chunks, one rule per
// file, with unicode-range descriptors so that browsers only fetch
// the chunks they need.  The src URLs are the base names of the chunk
// files, relative to the style sheet.
func WriteCSS(w io.Writer, family string, chunks []Chunk) error {
	for i, chunk := range chunks {
		if i > 0 {
			_, err := io.WriteString(w, "\n")
			if err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w,
			"@font-face {\n"+
				"  font-family: %q;\n"+
				"  src: url(%q) format(\"woff2\");\n"+
				"  unicode-range: %s;\n"+
				"  font-display: swap;\n"+
				"}\n",
			family,
			filepath.Base(chunk.Path),
			chunk.Ranges)
		if err != nil {
			return err
		}
	}
	return nil
}
