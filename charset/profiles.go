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

package charset

import (
	"bytes"
	"embed"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/text/language"
)

//go:embed profiles/*.txt
var profileData embed.FS

// Profiles maps language names to character sets.  The zero value is not
// usable, use NewProfiles.  A Profiles value is immutable and can be shared
// between conversion jobs.
type Profiles struct {
	sets    map[string]*Set
	tags    []language.Tag
	matcher language.Matcher
}

var profileTags = []language.Tag{
	language.SimplifiedChinese,  // zh-Hans
	language.TraditionalChinese, // zh-Hant
	language.Japanese,           // ja
}

// NewProfiles returns the built-in language profiles.  The named profiles
// are "zh-Hans", "zh-Hant", "ja" and "cjk-common"; language tag aliases
// such as "zh-CN" or "ja-JP" are resolved using language matching.
func NewProfiles() (*Profiles, error) {
	common, err := loadProfile("cjk-common")
	if err != nil {
		return nil, err
	}
	core, err := loadProfile("cjk-core")
	if err != nil {
		return nil, err
	}
	kana, err := loadProfile("ja")
	if err != nil {
		return nil, err
	}
	bopomofo, err := loadProfile("zh-hant")
	if err != nil {
		return nil, err
	}

	base := common.Union(core)
	p := &Profiles{
		sets: map[string]*Set{
			"cjk-common": common,
			"zh-Hans":    base,
			"zh-Hant":    base.Union(bopomofo),
			"ja":         base.Union(kana),
		},
		tags: profileTags,
	}
	p.matcher = language.NewMatcher(p.tags)
	return p, nil
}

// Names returns the names of all profiles, in alphabetical order.
func (p *Profiles) Names() []string {
	names := maps.Keys(p.sets)
	slices.Sort(names)
	return names
}

// Lookup returns the character set for the given profile name.
func (p *Profiles) Lookup(name string) (*Set, error) {
	if s, ok := p.sets[name]; ok {
		return s, nil
	}

	tag, err := language.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("charset: unknown profile %q (have %s)",
			name, strings.Join(p.Names(), ", "))
	}
	_, idx, conf := p.matcher.Match(tag)
	if conf == language.No {
		return nil, fmt.Errorf("charset: no profile for language %q (have %s)",
			name, strings.Join(p.Names(), ", "))
	}
	switch p.tags[idx] {
	case language.SimplifiedChinese:
		return p.sets["zh-Hans"], nil
	case language.TraditionalChinese:
		return p.sets["zh-Hant"], nil
	case language.Japanese:
		return p.sets["ja"], nil
	}
	return nil, fmt.Errorf("charset: no profile for language %q (have %s)",
		name, strings.Join(p.Names(), ", "))
}

func loadProfile(name string) (*Set, error) {
	data, err := profileData.ReadFile("profiles/" + name + ".txt")
	if err != nil {
		return nil, err
	}
	set, warnings, err := Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", name, err)
	}
	if len(warnings) > 0 {
		return nil, fmt.Errorf("profile %q: %s", name, warnings[0])
	}
	return set, nil
}
