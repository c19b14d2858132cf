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

// readIndex reads an INDEX structure starting at pos.  It returns the
// items and the offset of the first byte after the INDEX.
func readIndex(data []byte, pos int) ([][]byte, int, error) {
	if pos < 0 || pos+2 > len(data) {
		return nil, 0, invalid("INDEX out of range")
	}
	count := int(data[pos])<<8 | int(data[pos+1])
	if count == 0 {
		return nil, pos + 2, nil
	}
	if pos+3 > len(data) {
		return nil, 0, invalid("INDEX out of range")
	}
	offSize := int(data[pos+2])
	if offSize < 1 || offSize > 4 {
		return nil, 0, invalid("invalid INDEX offSize")
	}

	offsPos := pos + 3
	dataPos := offsPos + (count+1)*offSize
	if dataPos > len(data) {
		return nil, 0, invalid("INDEX out of range")
	}
	readOffs := func(i int) int {
		var v int
		for j := 0; j < offSize; j++ {
			v = v<<8 | int(data[offsPos+i*offSize+j])
		}
		return v
	}

	items := make([][]byte, count)
	prev := readOffs(0)
	if prev != 1 {
		return nil, 0, invalid("invalid INDEX offset array")
	}
	for i := 0; i < count; i++ {
		next := readOffs(i + 1)
		if next < prev || dataPos+next-1 > len(data) {
			return nil, 0, invalid("invalid INDEX offset array")
		}
		items[i] = data[dataPos+prev-1 : dataPos+next-1]
		prev = next
	}
	return items, dataPos + prev - 1, nil
}

// readIndexAt reads an INDEX at an offset taken from a DICT.
func readIndexAt(data []byte, pos int, name string) ([][]byte, int, error) {
	if pos <= 0 || pos >= len(data) {
		return nil, 0, invalid("missing " + name + " INDEX")
	}
	return readIndex(data, pos)
}

// appendIndex appends the binary encoding of an INDEX to buf.
func appendIndex(buf []byte, items [][]byte) []byte {
	count := len(items)
	buf = append(buf, byte(count>>8), byte(count))
	if count == 0 {
		return buf
	}

	bodySize := 0
	for _, item := range items {
		bodySize += len(item)
	}

	var offSize int
	switch {
	case bodySize < 0xFF:
		offSize = 1
	case bodySize < 0xFFFF:
		offSize = 2
	case bodySize < 0xFFFFFF:
		offSize = 3
	default:
		offSize = 4
	}
	buf = append(buf, byte(offSize))

	pos := 1
	appendOffs := func(v int) {
		for j := offSize - 1; j >= 0; j-- {
			buf = append(buf, byte(v>>(8*j)))
		}
	}
	appendOffs(pos)
	for _, item := range items {
		pos += len(item)
		appendOffs(pos)
	}
	for _, item := range items {
		buf = append(buf, item...)
	}
	return buf
}

// indexSize returns the encoded length of an INDEX without building it.
func indexSize(items [][]byte) int {
	if len(items) == 0 {
		return 2
	}
	bodySize := 0
	for _, item := range items {
		bodySize += len(item)
	}
	var offSize int
	switch {
	case bodySize < 0xFF:
		offSize = 1
	case bodySize < 0xFFFF:
		offSize = 2
	case bodySize < 0xFFFFFF:
		offSize = 3
	default:
		offSize = 4
	}
	return 3 + (len(items)+1)*offSize + bodySize
}
