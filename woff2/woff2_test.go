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

package woff2

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/subfont/internal/debug"
)

func TestBase128(t *testing.T) {
	cases := []struct {
		v    uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{0x7F, []byte{0x7F}},
		{0x80, []byte{0x81, 0x00}},
		{0x3FFF, []byte{0xFF, 0x7F}},
		{0xFFFFFFFF, []byte{0x8F, 0xFF, 0xFF, 0xFF, 0x7F}},
	}
	for _, c := range cases {
		got := appendBase128(nil, c.v)
		if d := cmp.Diff(got, c.want); d != "" {
			t.Errorf("%d: %s", c.v, d)
		}
	}
}

func Test255UInt16(t *testing.T) {
	cases := []struct {
		v    uint16
		want []byte
	}{
		{0, []byte{0}},
		{252, []byte{252}},
		{253, []byte{255, 0}},
		{505, []byte{255, 252}},
		{506, []byte{254, 0}},
		{761, []byte{254, 255}},
		{762, []byte{253, 2, 250}},
		{0xFFFF, []byte{253, 255, 255}},
	}
	for _, c := range cases {
		got := append255UInt16(nil, c.v)
		if d := cmp.Diff(got, c.want); d != "" {
			t.Errorf("%d: %s", c.v, d)
		}
	}
}

// readTriplet decodes one point, following the pseudo-code from
// section 5.2 of the WOFF2 specification.
func readTriplet(t *testing.T, flags, data []byte) (dx, dy int, onCurve bool, nData int) {
	t.Helper()
	withSign := func(flag, v int) int {
		if flag&1 != 0 {
			return v
		}
		return -v
	}

	flag := int(flags[0])
	onCurve = flag>>7 == 0
	flag &= 0x7F
	switch {
	case flag < 10:
		nData = 1
		dy = withSign(flag, ((flag&14)<<7)+int(data[0]))
	case flag < 20:
		nData = 1
		dx = withSign(flag, (((flag-10)&14)<<7)+int(data[0]))
	case flag < 84:
		nData = 1
		b0 := flag - 20
		b1 := int(data[0])
		dx = withSign(flag, 1+(b0&0x30)+(b1>>4))
		dy = withSign(flag>>1, 1+((b0&0x0c)<<2)+(b1&0x0f))
	case flag < 120:
		nData = 2
		b0 := flag - 84
		dx = withSign(flag, 1+((b0/12)<<8)+int(data[0]))
		dy = withSign(flag>>1, 1+(((b0%12)>>2)<<8)+int(data[1]))
	case flag < 124:
		nData = 3
		dx = withSign(flag, (int(data[0])<<4)+(int(data[1])>>4))
		dy = withSign(flag>>1, ((int(data[1])&0x0f)<<8)+int(data[2]))
	default:
		nData = 4
		dx = withSign(flag, (int(data[0])<<8)+int(data[1]))
		dy = withSign(flag>>1, (int(data[2])<<8)+int(data[3]))
	}
	return
}

func TestTriplets(t *testing.T) {
	type point struct {
		dx, dy  int
		onCurve bool
	}
	points := []point{
		{0, 0, true},
		{0, 100, true},
		{0, -1279, false},
		{100, 0, true},
		{500, 0, true},
		{-300, 0, false},
		{1000, 0, true},
		{-1279, 0, false},
		{1, 1, true},
		{-64, 64, false},
		{65, -65, true},
		{768, 768, true},
		{-768, 1, false},
		{769, -4095, true},
		{4095, 4095, false},
		{4096, -4096, true},
		{-32767, 32767, false},
	}

	tr := &glyfTransformer{}
	for _, p := range points {
		tr.appendTriplet(p.dx, p.dy, p.onCurve)
	}
	if len(tr.flags) != len(points) {
		t.Fatalf("got %d flags, want %d", len(tr.flags), len(points))
	}

	data := tr.glyphs
	for i, p := range points {
		dx, dy, onCurve, nData := readTriplet(t, tr.flags[i:], data)
		data = data[nData:]
		if dx != p.dx || dy != p.dy || onCurve != p.onCurve {
			t.Errorf("point %d: got (%d,%d,%t), want (%d,%d,%t)",
				i, dx, dy, onCurve, p.dx, p.dy, p.onCurve)
		}
	}
	if len(data) != 0 {
		t.Errorf("%d unused data bytes", len(data))
	}
}

// woff2File is the decoded form of a WOFF2 file, for tests.
type woff2File struct {
	flavor        uint32
	totalSfntSize uint32
	entries       []tableEntry
	plain         []byte // decompressed data block
}

func decodeWOFF2(t *testing.T, data []byte) *woff2File {
	t.Helper()
	if len(data) < 48 || string(data[:4]) != "wOF2" {
		t.Fatal("not a WOFF2 file")
	}
	res := &woff2File{
		flavor:        binary.BigEndian.Uint32(data[4:]),
		totalSfntSize: binary.BigEndian.Uint32(data[16:]),
	}
	if got := binary.BigEndian.Uint32(data[8:]); got != uint32(len(data)) {
		t.Errorf("file length: got %d, want %d", got, len(data))
	}
	numTables := int(binary.BigEndian.Uint16(data[12:]))
	compressedSize := binary.BigEndian.Uint32(data[20:])

	pos := 48
	readBase128 := func() uint32 {
		var v uint32
		for {
			b := data[pos]
			pos++
			v = v<<7 | uint32(b&0x7F)
			if b&0x80 == 0 {
				return v
			}
		}
	}
	for i := 0; i < numTables; i++ {
		flags := data[pos]
		pos++
		if flags>>6 != 0 {
			t.Fatalf("table %d: unexpected transform version", i)
		}
		var tag string
		if flags&0x3F == 63 {
			tag = string(data[pos : pos+4])
			pos += 4
		} else {
			tag = knownTags[flags&0x3F]
		}
		entry := tableEntry{tag: tag, origLen: readBase128()}
		if tag == "glyf" || tag == "loca" {
			entry.hasTransformLen = true
			entry.data = make([]byte, readBase128())
		}
		res.entries = append(res.entries, entry)
	}

	if pos+int(compressedSize) != len(data) {
		t.Fatalf("compressed size %d does not match file size", compressedSize)
	}
	plain, err := io.ReadAll(brotli.NewReader(bytes.NewReader(data[pos:])))
	if err != nil {
		t.Fatal(err)
	}
	res.plain = plain

	// split the data block between the tables
	offs := 0
	for i := range res.entries {
		entry := &res.entries[i]
		n := int(entry.origLen)
		if entry.hasTransformLen {
			n = len(entry.data)
		}
		if offs+n > len(plain) {
			t.Fatal("data block too short")
		}
		entry.data = plain[offs : offs+n]
		offs += n
	}
	if offs != len(plain) {
		t.Errorf("%d unused bytes in data block", len(plain)-offs)
	}
	return res
}

func (f *woff2File) table(tag string) []byte {
	for _, entry := range f.entries {
		if entry.tag == tag {
			return entry.data
		}
	}
	return nil
}

func TestEncode(t *testing.T) {
	fnt := debug.NewTestFont()
	data, err := Encode(fnt)
	if err != nil {
		t.Fatal(err)
	}

	got := decodeWOFF2(t, data)
	if got.flavor != 0x00010000 {
		t.Errorf("flavor: got %08x", got.flavor)
	}

	for _, tag := range []string{"cmap", "head", "hmtx", "glyf", "loca"} {
		if got.table(tag) == nil {
			t.Errorf("missing %q table", tag)
		}
	}
	if len(got.table("loca")) != 0 {
		t.Error("transformed loca table is not empty")
	}

	// raw tables are carried over unchanged
	if d := cmp.Diff(got.table("cmap"), fnt.Tables["cmap"]); d != "" {
		t.Error(d)
	}

	// the transformed glyf table starts with the fixed header
	glyfData := got.table("glyf")
	if len(glyfData) < 36 {
		t.Fatal("transformed glyf table too short")
	}
	if v := binary.BigEndian.Uint32(glyfData); v != 0 {
		t.Errorf("version: got %d", v)
	}
	if n := binary.BigEndian.Uint16(glyfData[4:]); int(n) != fnt.NumGlyphs() {
		t.Errorf("numGlyphs: got %d, want %d", n, fnt.NumGlyphs())
	}

	// nContour stream: one int16 per glyph, composite glyph 3 is -1
	nContours := glyfData[36:]
	if len(nContours) < 2*fnt.NumGlyphs() {
		t.Fatal("nContour stream too short")
	}
	if v := int16(binary.BigEndian.Uint16(nContours[6:])); v != -1 {
		t.Errorf("glyph 3: got %d contours, want -1", v)
	}
}

func TestEncodeCFF(t *testing.T) {
	fnt := debug.NewCFFFont()
	data, err := Encode(fnt)
	if err != nil {
		t.Fatal(err)
	}

	got := decodeWOFF2(t, data)
	if got.flavor != 0x4F54544F {
		t.Errorf("flavor: got %08x, want 4F54544F", got.flavor)
	}

	// CFF fonts have no glyf or loca tables and no transforms
	for _, entry := range got.entries {
		if entry.tag == "glyf" || entry.tag == "loca" {
			t.Errorf("unexpected %q table", entry.tag)
		}
	}

	// the CFF table is stored untransformed
	if d := cmp.Diff(got.table("CFF "), fnt.Outlines.CFFData); d != "" {
		t.Error(d)
	}
	if d := cmp.Diff(got.table("cmap"), fnt.Tables["cmap"]); d != "" {
		t.Error(d)
	}
	for _, tag := range []string{"head", "hmtx", "maxp", "post"} {
		if got.table(tag) == nil {
			t.Errorf("missing %q table", tag)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	fnt := debug.NewTestFont()
	data1, err := Encode(fnt)
	if err != nil {
		t.Fatal(err)
	}
	data2, err := Encode(fnt)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data1, data2) {
		t.Error("output is not deterministic")
	}
}

func TestSquareGlyphPoints(t *testing.T) {
	fnt := debug.NewTestFont()
	data, err := Encode(fnt)
	if err != nil {
		t.Fatal(err)
	}
	got := decodeWOFF2(t, data)
	glyfData := got.table("glyf")

	numGlyphs := int(binary.BigEndian.Uint16(glyfData[4:]))
	sizes := make([]int, 7)
	for i := range sizes {
		sizes[i] = int(binary.BigEndian.Uint32(glyfData[8+4*i:]))
	}
	streams := make([][]byte, 7)
	pos := 36
	for i, n := range sizes {
		streams[i] = glyfData[pos : pos+n]
		pos += n
	}
	if pos != len(glyfData) {
		t.Errorf("stream sizes do not add up: %d != %d", pos, len(glyfData))
	}
	nContours, nPoints, flags, glyphs := streams[0], streams[1], streams[2], streams[3]
	if len(nContours) != 2*numGlyphs {
		t.Fatalf("nContour stream has %d bytes", len(nContours))
	}

	// glyph 1 is a square with side 500 starting at the origin
	if v := int16(binary.BigEndian.Uint16(nContours[2:])); v != 1 {
		t.Fatalf("glyph 1: got %d contours, want 1", v)
	}

	// skip glyph 0 (a square, too: one contour, four points)
	if nPoints[0] != 4 {
		t.Fatalf("glyph 0: got %d points, want 4", nPoints[0])
	}
	skip := 0
	x, y := 0, 0
	for i := 0; i < 4; i++ {
		dx, dy, _, n := readTriplet(t, flags[i:], glyphs[skip:])
		skip += n
		x, y = x+dx, y+dy
	}
	glyphs = glyphs[skip:]
	flags = flags[4:]
	// instruction length of glyph 0
	if glyphs[0] != 0 {
		t.Fatalf("glyph 0: unexpected instructions")
	}
	glyphs = glyphs[1:]

	if nPoints[1] != 4 {
		t.Fatalf("glyph 1: got %d points, want 4", nPoints[1])
	}
	wantPoints := [][2]int{{0, 0}, {500, 0}, {500, 500}, {0, 500}}
	x, y = 0, 0
	skip = 0
	for i := 0; i < 4; i++ {
		dx, dy, onCurve, n := readTriplet(t, flags[i:], glyphs[skip:])
		skip += n
		x, y = x+dx, y+dy
		if !onCurve {
			t.Errorf("glyph 1, point %d: off curve", i)
		}
		if x != wantPoints[i][0] || y != wantPoints[i][1] {
			t.Errorf("glyph 1, point %d: got (%d,%d), want (%d,%d)",
				i, x, y, wantPoints[i][0], wantPoints[i][1])
		}
	}
}
