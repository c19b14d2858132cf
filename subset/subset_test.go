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

package subset

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	xsfnt "golang.org/x/image/font/sfnt"

	"seehuhn.de/go/subfont/charset"
	"seehuhn.de/go/subfont/font"
	"seehuhn.de/go/subfont/font/sfnt"
	"seehuhn.de/go/subfont/internal/debug"
)

func TestClosure(t *testing.T) {
	f := debug.NewTestFont()
	set := charset.FromRunes([]rune{'中', '文'})

	coverage, keep, err := Closure(f, set)
	if err != nil {
		t.Fatal(err)
	}

	wantCov := Coverage{'中': 3, '文': 5}
	if d := cmp.Diff(coverage, wantCov); d != "" {
		t.Error(d)
	}
	// glyph 4 is pulled in as a component of glyph 3
	wantKeep := []font.GlyphID{0, 3, 4, 5}
	if d := cmp.Diff(keep, wantKeep); d != "" {
		t.Error(d)
	}
}

func TestSubset(t *testing.T) {
	f := debug.NewTestFont()
	set := charset.FromRunes([]rune{'中', '文'})

	sub, err := Subset(f, set, nil)
	if err != nil {
		t.Fatal(err)
	}

	if sub.NumGlyphs() != 4 {
		t.Errorf("numGlyphs: got %d, want 4", sub.NumGlyphs())
	}

	// the requested code points map to the renumbered glyphs,
	// everything else is gone
	cm, err := sub.BestCMap()
	if err != nil {
		t.Fatal(err)
	}
	if gid := cm.Lookup('中'); gid != 1 {
		t.Errorf("中: got glyph %d, want 1", gid)
	}
	if gid := cm.Lookup('文'); gid != 3 {
		t.Errorf("文: got glyph %d, want 3", gid)
	}
	if gid := cm.Lookup('A'); gid != 0 {
		t.Errorf("A: got glyph %d, want 0", gid)
	}

	// component references are renumbered, too
	comps := (*sub.Outlines.Glyf)[1].Components()
	if d := cmp.Diff(comps, []font.GlyphID{2}); d != "" {
		t.Error(d)
	}

	// metrics follow their glyphs
	wantWidths := []uint16{500, 1000, 570, 1000}
	if d := cmp.Diff(sub.Hmtx.Width, wantWidths); d != "" {
		t.Error(d)
	}
}

func TestSubsetIdempotent(t *testing.T) {
	f := debug.NewTestFont()
	set := charset.FromRunes([]rune{'中', '文'})

	sub1, err := Subset(f, set, nil)
	if err != nil {
		t.Fatal(err)
	}
	sub2, err := Subset(sub1, set, nil)
	if err != nil {
		t.Fatal(err)
	}

	if sub1.NumGlyphs() != sub2.NumGlyphs() {
		t.Errorf("glyph count changed: %d != %d",
			sub1.NumGlyphs(), sub2.NumGlyphs())
	}
	cm1, _ := sub1.BestCMap()
	cm2, _ := sub2.BestCMap()
	for _, r := range []rune{'中', '文', 'A'} {
		if cm1.Lookup(r) != cm2.Lookup(r) {
			t.Errorf("%c: mapping changed", r)
		}
	}
}

func TestEmptySubset(t *testing.T) {
	f := debug.NewTestFont()
	set := charset.FromRunes([]rune{'X', 'Y'})

	_, err := Subset(f, set, nil)
	if !errors.Is(err, ErrEmptySubset) {
		t.Fatalf("got %v, want ErrEmptySubset", err)
	}

	sub, err := Subset(f, set, &Options{AllowEmpty: true})
	if err != nil {
		t.Fatal(err)
	}
	if sub.NumGlyphs() != 1 {
		t.Errorf("numGlyphs: got %d, want 1", sub.NumGlyphs())
	}
}

func TestRoundTrip(t *testing.T) {
	f := debug.NewTestFont()
	set := charset.FromRunes([]rune{'A', 'B'})

	sub, err := Subset(f, set, nil)
	if err != nil {
		t.Fatal(err)
	}

	data, err := sub.Encode()
	if err != nil {
		t.Fatal(err)
	}
	f2, err := sfnt.Read(data)
	if err != nil {
		t.Fatal(err)
	}

	if f2.NumGlyphs() != 3 {
		t.Errorf("numGlyphs: got %d, want 3", f2.NumGlyphs())
	}
	cm, err := f2.BestCMap()
	if err != nil {
		t.Fatal(err)
	}
	if gid := cm.Lookup('A'); gid != 1 {
		t.Errorf("A: got glyph %d, want 1", gid)
	}
	if gid := cm.Lookup('B'); gid != 2 {
		t.Errorf("B: got glyph %d, want 2", gid)
	}
	if gid := cm.Lookup('中'); gid != 0 {
		t.Errorf("中: got glyph %d, want 0", gid)
	}
	if _, ok := f2.Tables["post"]; !ok {
		t.Error("post table missing")
	}
}

// TestExternalParser checks the subset output against an independent
// sfnt implementation.
func TestExternalParser(t *testing.T) {
	f := debug.NewTestFont()
	set := charset.FromRunes([]rune{'A', 'B'})

	sub, err := Subset(f, set, nil)
	if err != nil {
		t.Fatal(err)
	}
	data, err := sub.Encode()
	if err != nil {
		t.Fatal(err)
	}

	xf, err := xsfnt.Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if xf.NumGlyphs() != 3 {
		t.Errorf("numGlyphs: got %d, want 3", xf.NumGlyphs())
	}

	var buf xsfnt.Buffer
	for r, want := range map[rune]xsfnt.GlyphIndex{'A': 1, 'B': 2, '中': 0} {
		gid, err := xf.GlyphIndex(&buf, r)
		if err != nil {
			t.Fatal(err)
		}
		if gid != want {
			t.Errorf("%c: got glyph %d, want %d", r, gid, want)
		}
	}
}
