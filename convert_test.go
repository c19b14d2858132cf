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
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"seehuhn.de/go/subfont/internal/debug"
	"seehuhn.de/go/subfont/subset"
)

// writeTestFont stores the shared test font as a file and returns its
// path.
func writeTestFont(t *testing.T, dir string) string {
	t.Helper()
	data, err := debug.NewTestFont().Encode()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "test.ttf")
	err = os.WriteFile(path, data, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	srcPath := writeTestFont(t, dir)
	dstPath := filepath.Join(dir, "test.woff2")

	res, err := Convert(context.Background(), srcPath,
		Codepoints{'中', '文'}, dstPath, nil)
	if err != nil {
		t.Fatal(err)
	}

	if res.GlyphsBefore != 6 {
		t.Errorf("glyphsBefore: got %d, want 6", res.GlyphsBefore)
	}
	if res.GlyphsAfter != 4 {
		t.Errorf("glyphsAfter: got %d, want 4", res.GlyphsAfter)
	}
	if !res.Coverage.Contains('中') || !res.Coverage.Contains('文') {
		t.Error("requested code points not covered")
	}
	if res.Coverage.Contains('A') {
		t.Error("coverage contains unrequested code point")
	}

	out, err := os.ReadFile(dstPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("wOF2")) {
		t.Error("output is not a WOFF2 file")
	}
	if int64(len(out)) != res.BytesAfter {
		t.Errorf("bytesAfter: got %d, want %d", res.BytesAfter, len(out))
	}
}

func TestConvertText(t *testing.T) {
	dir := t.TempDir()
	srcPath := writeTestFont(t, dir)
	dstPath := filepath.Join(dir, "test.woff2")

	res, err := Convert(context.Background(), srcPath,
		Text("ABBA"), dstPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.GlyphsAfter != 3 {
		t.Errorf("glyphsAfter: got %d, want 3", res.GlyphsAfter)
	}
}

func TestConvertProfile(t *testing.T) {
	cfg, err := NewConfig()
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	srcPath := writeTestFont(t, dir)
	dstPath := filepath.Join(dir, "test.woff2")

	res, err := Convert(context.Background(), srcPath,
		Profile("zh-CN"), dstPath, cfg)
	if err != nil {
		t.Fatal(err)
	}
	// the profile covers 中 and 文, but not the latin glyphs
	if res.GlyphsAfter != 4 {
		t.Errorf("glyphsAfter: got %d, want 4", res.GlyphsAfter)
	}

	_, err = Convert(context.Background(), srcPath,
		Profile("zh-CN"), dstPath, nil)
	if !errors.Is(err, errNoProfiles) {
		t.Errorf("got %v, want errNoProfiles", err)
	}
}

func TestConvertNoPartialOutput(t *testing.T) {
	dir := t.TempDir()
	srcPath := writeTestFont(t, dir)
	dstPath := filepath.Join(dir, "test.woff2")

	previous := []byte("previous contents")
	err := os.WriteFile(dstPath, previous, 0o644)
	if err != nil {
		t.Fatal(err)
	}

	// none of the code points is covered, so the conversion fails
	_, err = Convert(context.Background(), srcPath,
		Codepoints{'X', 'Y'}, dstPath, nil)
	if !errors.Is(err, subset.ErrEmptySubset) {
		t.Fatalf("got %v, want ErrEmptySubset", err)
	}

	got, err := os.ReadFile(dstPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, previous) {
		t.Error("existing output file was modified")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".subfont-") {
			t.Errorf("temporary file %q left behind", entry.Name())
		}
	}
}

func TestConvertCancelled(t *testing.T) {
	dir := t.TempDir()
	srcPath := writeTestFont(t, dir)
	dstPath := filepath.Join(dir, "test.woff2")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Convert(ctx, srcPath, Codepoints{'A'}, dstPath, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if _, err := os.Stat(dstPath); !errors.Is(err, os.ErrNotExist) {
		t.Error("output file written despite cancellation")
	}
}

func TestSplit(t *testing.T) {
	dir := t.TempDir()
	srcPath := writeTestFont(t, dir)

	chunks, err := Split(context.Background(), srcPath, dir, "test",
		nil, 2, nil)
	if err != nil {
		t.Fatal(err)
	}

	// the font maps four code points, so two chunks of two
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].Ranges.String() != "U+0041-0042" {
		t.Errorf("chunk 0: got ranges %q", chunks[0].Ranges.String())
	}
	for i, chunk := range chunks {
		data, err := os.ReadFile(chunk.Path)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(data, []byte("wOF2")) {
			t.Errorf("chunk %d is not a WOFF2 file", i)
		}
	}
}

func TestWriteCSS(t *testing.T) {
	dir := t.TempDir()
	srcPath := writeTestFont(t, dir)

	chunks, err := Split(context.Background(), srcPath, dir, "test",
		nil, 2, nil)
	if err != nil {
		t.Fatal(err)
	}

	buf := &bytes.Buffer{}
	err = WriteCSS(buf, "Test Family", chunks)
	if err != nil {
		t.Fatal(err)
	}
	css := buf.String()

	if n := strings.Count(css, "@font-face"); n != len(chunks) {
		t.Errorf("got %d @font-face rules, want %d", n, len(chunks))
	}
	for _, want := range []string{
		`font-family: "Test Family";`,
		`src: url("test-0.woff2") format("woff2");`,
		"unicode-range: U+0041-0042;",
		"font-display: swap;",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("missing %q", want)
		}
	}
}
