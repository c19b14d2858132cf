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

package glyf

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/subfont/font"
	"seehuhn.de/go/subfont/font/funit"
)

// testSquare is a simple glyph with one square contour, all points
// encoded as explicit 16-bit deltas.
var testSquare = &Glyph{
	Rect: funit.Rect{LLx: 0, LLy: 0, URx: 500, URy: 500},
	Data: SimpleGlyph{
		NumContours: 1,
		Tail: []byte{
			0x00, 0x03, // endPtsOfContours
			0x00, 0x00, // instructionLength
			0x01, 0x01, 0x01, 0x01, // flags: on-curve, long deltas
			0x00, 0x00, 0x01, 0xF4, 0x00, 0x00, 0xFE, 0x0C, // x deltas
			0x00, 0x00, 0x00, 0x00, 0x01, 0xF4, 0x00, 0x00, // y deltas
		},
	},
}

// testComposite references glyphs 1 and 2.
var testComposite = &Glyph{
	Rect: funit.Rect{LLx: 0, LLy: 0, URx: 500, URy: 500},
	Data: CompositeGlyph{
		Components: []GlyphComponent{
			{
				Flags:      FlagArg1And2AreWords | FlagMoreComponents,
				GlyphIndex: 1,
				Args:       []byte{0, 0, 0, 0},
			},
			{
				Flags:      FlagArg1And2AreWords,
				GlyphIndex: 2,
				Args:       []byte{0, 100, 0, 0},
			},
		},
	},
}

func TestEncodeDecode(t *testing.T) {
	gg := Glyphs{
		nil, // .notdef without outline
		testSquare,
		testSquare,
		testComposite,
	}
	enc := gg.Encode()
	if enc.LocaFormat != 0 {
		t.Errorf("loca format %d, want 0", enc.LocaFormat)
	}
	if len(enc.GlyfData)%2 != 0 {
		t.Errorf("glyf length %d not aligned", len(enc.GlyfData))
	}

	gg2, err := Decode(enc)
	if err != nil {
		t.Fatal(err)
	}
	if len(gg2) != len(gg) {
		t.Fatalf("got %d glyphs, want %d", len(gg2), len(gg))
	}
	if gg2[0] != nil {
		t.Error("empty glyph not preserved")
	}
	if d := cmp.Diff(gg[1], gg2[1]); d != "" {
		t.Errorf("simple glyph (-want +got):\n%s", d)
	}
	if d := cmp.Diff(gg[3], gg2[3]); d != "" {
		t.Errorf("composite glyph (-want +got):\n%s", d)
	}

	// re-encoding is deterministic
	enc2 := gg2.Encode()
	if !bytes.Equal(enc.GlyfData, enc2.GlyfData) || !bytes.Equal(enc.LocaData, enc2.LocaData) {
		t.Error("re-encoding changed the data")
	}
}

func TestComponents(t *testing.T) {
	if got := testSquare.Components(); got != nil {
		t.Errorf("simple glyph has components %v", got)
	}
	want := []font.GlyphID{1, 2}
	if d := cmp.Diff(want, testComposite.Components()); d != "" {
		t.Errorf("components (-want +got):\n%s", d)
	}
}

func TestFixComponents(t *testing.T) {
	remap := map[font.GlyphID]font.GlyphID{1: 1, 2: 5}
	fixed := testComposite.FixComponents(remap)
	want := []font.GlyphID{1, 5}
	if d := cmp.Diff(want, fixed.Components()); d != "" {
		t.Errorf("remapped components (-want +got):\n%s", d)
	}
	// the original is unchanged
	if got := testComposite.Components(); got[1] != 2 {
		t.Error("FixComponents modified its receiver")
	}
	// args and flags are preserved
	d2 := fixed.Data.(CompositeGlyph)
	if d2.Components[1].Args[1] != 100 {
		t.Error("component args corrupted")
	}
}

func TestSimpleDecode(t *testing.T) {
	simple := testSquare.Data.(SimpleGlyph)
	info, err := simple.Decode()
	if err != nil {
		t.Fatal(err)
	}
	want := []Contour{
		{
			{X: 0, Y: 0, OnCurve: true},
			{X: 500, Y: 0, OnCurve: true},
			{X: 500, Y: 500, OnCurve: true},
			{X: 0, Y: 500, OnCurve: true},
		},
	}
	if d := cmp.Diff(want, info.Contours); d != "" {
		t.Errorf("contours (-want +got):\n%s", d)
	}
	if len(info.Instructions) != 0 {
		t.Errorf("unexpected instructions: % x", info.Instructions)
	}
}

func TestLongLoca(t *testing.T) {
	// a glyph big enough to force 32-bit loca offsets
	big := &Glyph{
		Data: SimpleGlyph{
			NumContours: 0,
			Tail:        make([]byte, 0x20000),
		},
	}
	gg := Glyphs{big, testSquare}
	enc := gg.Encode()
	if enc.LocaFormat != 1 {
		t.Fatalf("loca format %d, want 1", enc.LocaFormat)
	}
	gg2, err := Decode(enc)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(gg[1], gg2[1]); d != "" {
		t.Errorf("glyph after long table (-want +got):\n%s", d)
	}
}

func TestDecodeMalformed(t *testing.T) {
	// truncated glyph header
	enc := &Encoded{
		GlyfData:   []byte{0, 1, 2, 3},
		LocaData:   []byte{0, 0, 0, 2},
		LocaFormat: 0,
	}
	if _, err := Decode(enc); err == nil {
		t.Error("no error for truncated glyph")
	}

	// decreasing loca offsets
	enc = &Encoded{
		GlyfData:   make([]byte, 20),
		LocaData:   []byte{0, 5, 0, 2},
		LocaFormat: 0,
	}
	if _, err := Decode(enc); err == nil {
		t.Error("no error for decreasing offsets")
	}
}
