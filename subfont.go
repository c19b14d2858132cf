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

// Package subfont converts TrueType and OpenType fonts to subsetted
// WOFF2 web fonts.
package subfont

import (
	"seehuhn.de/go/subfont/charset"
)

// Config holds the shared state for conversions.  A single Config can
// be used by many goroutines concurrently.
type Config struct {
	// Profiles resolves named language profiles.  It is required when
	// a Profile spec is used.
	Profiles *charset.Profiles

	// AllowEmpty permits conversions where the font covers none of
	// the requested code points.  The output then contains only
	// glyph 0.
	AllowEmpty bool
}

// NewConfig returns a Config with the built-in language profiles
// loaded.
func NewConfig() (*Config, error) {
	profiles, err := charset.NewProfiles()
	if err != nil {
		return nil, err
	}
	return &Config{Profiles: profiles}, nil
}

// A UnicodeSpec selects the code points to keep during conversion.
//
// The implementations are Profile, Ranges, Codepoints and Text.
type UnicodeSpec interface {
	Charset(cfg *Config) (*charset.Set, error)
}

// Profile selects the code points of a named language profile, for
// example "zh-Hans", "zh-Hant" or "ja".
type Profile string

// Charset implements the UnicodeSpec interface.
func (p Profile) Charset(cfg *Config) (*charset.Set, error) {
	if cfg == nil || cfg.Profiles == nil {
		return nil, errNoProfiles
	}
	return cfg.Profiles.Lookup(string(p))
}

// Ranges selects an explicit set of code point ranges.
type Ranges struct {
	Set *charset.Set
}

// Charset implements the UnicodeSpec interface.
func (r Ranges) Charset(*Config) (*charset.Set, error) {
	if r.Set == nil {
		return charset.New(), nil
	}
	return r.Set, nil
}

// Codepoints selects an explicit list of code points.
type Codepoints []rune

// Charset implements the UnicodeSpec interface.
func (c Codepoints) Charset(*Config) (*charset.Set, error) {
	return charset.FromRunes(c), nil
}

// Text selects all code points which occur in the given text.
type Text string

// Charset implements the UnicodeSpec interface.
func (t Text) Charset(*Config) (*charset.Set, error) {
	return charset.FromRunes([]rune(string(t))), nil
}
