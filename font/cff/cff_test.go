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

package cff

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/subfont/font"
)

// buildSimpleFont assembles a non-CID CFF font with the given
// charstrings, charset and local subroutines.
func buildSimpleFont(t *testing.T, charStrings [][]byte, charset []int32, subrs [][]byte) []byte {
	t.Helper()

	topDict := cffDict{}
	privDict := cffDict{}

	layout := func() (charsetOffs, charStringsOffs, privOffs, privSize, subrsOffs int) {
		pos := 4
		pos += indexSize([][]byte{[]byte("Test")})
		pos += indexSize([][]byte{topDict.encode()})
		pos += 2 // empty string INDEX
		pos += 2 // empty global subr INDEX
		charsetOffs = pos
		pos += charsetSize(charset)
		charStringsOffs = pos
		pos += indexSize(charStrings)
		privOffs = pos
		privSize = len(privDict.encode())
		pos += privSize
		if subrs != nil {
			subrsOffs = privSize // relative to the private dict
		}
		return
	}

	topDict.setInts(opCharset, 0)
	topDict.setInts(opCharStrings, 0)
	topDict.setInts(opPrivate, 0, 0)
	if subrs != nil {
		privDict.setInts(opSubrs, 0)
	}
	charsetOffs, charStringsOffs, privOffs, privSize, subrsOffs := layout()

	topDict.setInts(opCharset, int32(charsetOffs))
	topDict.setInts(opCharStrings, int32(charStringsOffs))
	topDict.setInts(opPrivate, int32(privSize), int32(privOffs))
	if subrs != nil {
		privDict.setInts(opSubrs, int32(subrsOffs))
	}

	buf := []byte{1, 0, 4, 4}
	buf = appendIndex(buf, [][]byte{[]byte("Test")})
	buf = appendIndex(buf, [][]byte{topDict.encode()})
	buf = appendIndex(buf, nil)
	buf = appendIndex(buf, nil)
	buf = appendCharset(buf, charset)
	buf = appendIndex(buf, charStrings)
	buf = append(buf, privDict.encode()...)
	if subrs != nil {
		buf = appendIndex(buf, subrs)
	}
	return buf
}

var (
	csNotdef = []byte{14}
	csSimple = []byte{189, 189, 21, 239, 6, 14} // 50 50 rmoveto 100 hlineto endchar
)

func TestReadSimple(t *testing.T) {
	data := buildSimpleFont(t,
		[][]byte{csNotdef, csSimple},
		[]int32{0, 1},
		nil)
	f, err := Read(data)
	if err != nil {
		t.Fatal(err)
	}
	if f.Name != "Test" {
		t.Errorf("name: got %q, want %q", f.Name, "Test")
	}
	if f.NumGlyphs() != 2 {
		t.Errorf("numGlyphs: got %d, want 2", f.NumGlyphs())
	}
	if f.IsCIDKeyed {
		t.Error("font is not CID-keyed")
	}
	if d := cmp.Diff(f.charStrings[1], csSimple); d != "" {
		t.Error(d)
	}
}

func TestFlattenSubr(t *testing.T) {
	// glyph 1 calls local subroutine 0 (index -107 with bias 107)
	// and then draws a line
	subr := []byte{189, 189, 21, 11} // 50 50 rmoveto return
	cs := []byte{32, 10, 239, 6, 14} // -107 callsubr 100 hlineto endchar

	data := buildSimpleFont(t,
		[][]byte{csNotdef, cs},
		[]int32{0, 1},
		[][]byte{subr})
	f, err := Read(data)
	if err != nil {
		t.Fatal(err)
	}

	flat, seac, err := f.flattenGlyph(1)
	if err != nil {
		t.Fatal(err)
	}
	if seac != nil {
		t.Error("unexpected accent components")
	}
	want := []byte{189, 189, 21, 239, 6, 14}
	if d := cmp.Diff(flat, want); d != "" {
		t.Error(d)
	}
}

func TestFlattenHintmask(t *testing.T) {
	// one horizontal stem, one vertical stem via the implicit form
	cs := []byte{
		139, 239, 1, // 0 100 hstem
		139, 239, // 0 100 (implicit vstem)
		19, 0xC0, // hintmask
		189, 189, 21, // 50 50 rmoveto
		14, // endchar
	}
	data := buildSimpleFont(t,
		[][]byte{csNotdef, cs},
		[]int32{0, 1},
		nil)
	f, err := Read(data)
	if err != nil {
		t.Fatal(err)
	}

	flat, _, err := f.flattenGlyph(1)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(flat, cs); d != "" {
		t.Error(d)
	}
}

func TestSubset(t *testing.T) {
	subr := []byte{189, 189, 21, 11}
	cs2 := []byte{32, 10, 14} // -107 callsubr endchar

	data := buildSimpleFont(t,
		[][]byte{csNotdef, csSimple, cs2, csSimple},
		[]int32{0, 1, 2, 3},
		[][]byte{subr})
	f, err := Read(data)
	if err != nil {
		t.Fatal(err)
	}

	sub, err := f.Subset([]font.GlyphID{0, 2})
	if err != nil {
		t.Fatal(err)
	}
	f2, err := Read(sub)
	if err != nil {
		t.Fatal(err)
	}

	if f2.NumGlyphs() != 2 {
		t.Fatalf("numGlyphs: got %d, want 2", f2.NumGlyphs())
	}
	if d := cmp.Diff(f2.charset, []int32{0, 2}); d != "" {
		t.Error(d)
	}
	// subroutine calls are inlined in the subset
	want := []byte{189, 189, 21, 14}
	if d := cmp.Diff(f2.charStrings[1], want); d != "" {
		t.Error(d)
	}
	if len(f2.gsubrs) != 0 || len(f2.private.subrs) != 0 {
		t.Error("subset still contains subroutines")
	}
}

func TestSubsetValidation(t *testing.T) {
	data := buildSimpleFont(t,
		[][]byte{csNotdef, csSimple},
		[]int32{0, 1},
		nil)
	f, err := Read(data)
	if err != nil {
		t.Fatal(err)
	}

	cases := [][]font.GlyphID{
		{},        // empty
		{1},       // missing .notdef
		{0, 1, 1}, // duplicate
		{0, 2},    // out of range
	}
	for i, keep := range cases {
		_, err := f.Subset(keep)
		var fontErr *font.InvalidFontError
		if !errors.As(err, &fontErr) {
			t.Errorf("case %d: got %v, want InvalidFontError", i, err)
		}
	}
}

func TestComponentGlyphs(t *testing.T) {
	// glyph 3 is "Agrave", built from "A" and "grave" using the
	// accent form of endchar
	csSeac := []byte{
		139,     // 0 (adx)
		252, 36, // -400 (ady)
		65 + 139, // 65 = code of "A"
		247, 193 - 108, // 193 = code of "grave"
		14, // endchar
	}
	data := buildSimpleFont(t,
		[][]byte{csNotdef, csSimple, csSimple, csSeac},
		[]int32{0, 34, 124, 200}, // SIDs of A, grave, Agrave
		nil)
	f, err := Read(data)
	if err != nil {
		t.Fatal(err)
	}

	comps, err := f.ComponentGlyphs(3)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(comps, []font.GlyphID{1, 2}); d != "" {
		t.Error(d)
	}

	comps, err = f.ComponentGlyphs(1)
	if err != nil {
		t.Fatal(err)
	}
	if comps != nil {
		t.Errorf("unexpected components %v", comps)
	}
}

func TestDictRoundTrip(t *testing.T) {
	d := cffDict{}
	d.setInts(opCharset, 1234)
	d.setInts(opCharStrings, -5)
	blob := d.encode()
	d2, err := decodeDict(blob)
	if err != nil {
		t.Fatal(err)
	}
	if got := d2.getInt(opCharset, 0); got != 1234 {
		t.Errorf("charset: got %d, want 1234", got)
	}
	if got := d2.getInt(opCharStrings, 0); got != -5 {
		t.Errorf("charstrings: got %d, want -5", got)
	}
}

func TestIndexRoundTrip(t *testing.T) {
	cases := [][][]byte{
		nil,
		{[]byte("hello")},
		{[]byte{}, []byte{1, 2, 3}, []byte{4}},
	}
	for i, items := range cases {
		blob := appendIndex(nil, items)
		if len(blob) != indexSize(items) {
			t.Errorf("case %d: size mismatch %d != %d",
				i, len(blob), indexSize(items))
		}
		got, next, err := readIndex(blob, 0)
		if err != nil {
			t.Fatal(err)
		}
		if next != len(blob) {
			t.Errorf("case %d: trailing bytes", i)
		}
		if len(got) != len(items) {
			t.Errorf("case %d: got %d items, want %d",
				i, len(got), len(items))
		}
	}
}
