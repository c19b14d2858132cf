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
	"seehuhn.de/go/subfont/font"
)

const maxSubrDepth = 10

func subrBias(n int) int {
	if n < 1240 {
		return 107
	}
	if n < 33900 {
		return 1131
	}
	return 32768
}

// flattener copies a Type 2 charstring while inlining all calls to
// local and global subroutines.  Operand bytes are copied verbatim;
// only callsubr/callgsubr operators and their index operands are
// removed.  The operand stack is tracked just far enough to find
// hintmask data bytes and subroutine indices.
type flattener struct {
	gsubrs [][]byte
	lsubrs [][]byte

	out       []byte
	argStarts []int
	argVals   []int
	nStems    int
	done      bool
	seac      []int
}

func (fl *flattener) pushArg(raw []byte, val int) {
	fl.argStarts = append(fl.argStarts, len(fl.out))
	fl.argVals = append(fl.argVals, val)
	fl.out = append(fl.out, raw...)
}

func (fl *flattener) clearArgs() {
	fl.argStarts = fl.argStarts[:0]
	fl.argVals = fl.argVals[:0]
}

func (fl *flattener) run(code []byte, depth int) error {
	if depth > maxSubrDepth {
		return invalid("charstring subroutines nested too deeply")
	}

	pos := 0
	for pos < len(code) && !fl.done {
		b0 := code[pos]
		switch {
		case b0 == 28:
			if pos+3 > len(code) {
				return invalid("truncated charstring")
			}
			v := int(int16(uint16(code[pos+1])<<8 | uint16(code[pos+2])))
			fl.pushArg(code[pos:pos+3], v)
			pos += 3
		case b0 == 255:
			if pos+5 > len(code) {
				return invalid("truncated charstring")
			}
			v := int(int32(uint32(code[pos+1])<<24 | uint32(code[pos+2])<<16 |
				uint32(code[pos+3])<<8 | uint32(code[pos+4])))
			fl.pushArg(code[pos:pos+5], v>>16)
			pos += 5
		case b0 >= 32 && b0 <= 246:
			fl.pushArg(code[pos:pos+1], int(b0)-139)
			pos++
		case b0 >= 247 && b0 <= 250:
			if pos+2 > len(code) {
				return invalid("truncated charstring")
			}
			fl.pushArg(code[pos:pos+2], (int(b0)-247)*256+int(code[pos+1])+108)
			pos += 2
		case b0 >= 251 && b0 <= 254:
			if pos+2 > len(code) {
				return invalid("truncated charstring")
			}
			fl.pushArg(code[pos:pos+2], -(int(b0)-251)*256-int(code[pos+1])-108)
			pos += 2

		case b0 == 10 || b0 == 29: // callsubr, callgsubr
			subrs := fl.lsubrs
			if b0 == 29 {
				subrs = fl.gsubrs
			}
			n := len(fl.argVals)
			if n == 0 {
				return invalid("subroutine call without index")
			}
			idx := fl.argVals[n-1] + subrBias(len(subrs))
			if idx < 0 || idx >= len(subrs) {
				return invalid("subroutine index out of range")
			}
			fl.out = fl.out[:fl.argStarts[n-1]]
			fl.argStarts = fl.argStarts[:n-1]
			fl.argVals = fl.argVals[:n-1]
			err := fl.run(subrs[idx], depth+1)
			if err != nil {
				return err
			}
			pos++

		case b0 == 11: // return
			return nil

		case b0 == 14: // endchar
			if len(fl.argVals) >= 4 {
				n := len(fl.argVals)
				fl.seac = []int{fl.argVals[n-2], fl.argVals[n-1]}
			}
			fl.out = append(fl.out, b0)
			fl.done = true
			return nil

		case b0 == 1 || b0 == 3 || b0 == 18 || b0 == 23:
			// hstem, vstem, hstemhm, vstemhm
			fl.nStems += len(fl.argVals) / 2
			fl.clearArgs()
			fl.out = append(fl.out, b0)
			pos++

		case b0 == 19 || b0 == 20: // hintmask, cntrmask
			fl.nStems += len(fl.argVals) / 2 // implicit vstem
			fl.clearArgs()
			maskLen := (fl.nStems + 7) / 8
			if pos+1+maskLen > len(code) {
				return invalid("truncated charstring")
			}
			fl.out = append(fl.out, code[pos:pos+1+maskLen]...)
			pos += 1 + maskLen

		case b0 == 12: // escape
			if pos+2 > len(code) {
				return invalid("truncated charstring")
			}
			fl.clearArgs()
			fl.out = append(fl.out, code[pos:pos+2]...)
			pos += 2

		case b0 <= 21:
			fl.clearArgs()
			fl.out = append(fl.out, b0)
			pos++

		default:
			return invalid("invalid charstring operator")
		}
	}
	return nil
}

// flattenGlyph returns the glyph's charstring with all subroutine calls
// inlined, together with the bchar/achar pair if the charstring ends in
// the deprecated accent form of endchar.
func (f *Font) flattenGlyph(gid font.GlyphID) ([]byte, []int, error) {
	if int(gid) >= len(f.charStrings) {
		return nil, nil, invalid("glyph index out of range")
	}
	priv, err := f.privateFor(gid)
	if err != nil {
		return nil, nil, err
	}
	fl := &flattener{
		gsubrs: f.gsubrs,
		lsubrs: priv.subrs,
	}
	err = fl.run(f.charStrings[gid], 0)
	if err != nil {
		return nil, nil, err
	}
	return fl.out, fl.seac, nil
}

// ComponentGlyphs returns the glyphs referenced by gid via the accent
// form of the endchar operator.  The result is empty for ordinary
// glyphs.
func (f *Font) ComponentGlyphs(gid font.GlyphID) ([]font.GlyphID, error) {
	_, seac, err := f.flattenGlyph(gid)
	if err != nil || seac == nil || f.IsCIDKeyed {
		return nil, err
	}

	var res []font.GlyphID
	for _, code := range seac {
		if code < 0 || code > 255 {
			return nil, invalid("invalid accent character code")
		}
		sid := stdEncoding(code)
		if sid == 0 {
			return nil, invalid("invalid accent character code")
		}
		comp, ok := f.gidForSID(sid)
		if !ok {
			return nil, invalid("accent component not in font")
		}
		res = append(res, comp)
	}
	return res, nil
}

func (f *Font) gidForSID(sid int32) (font.GlyphID, bool) {
	for gid, s := range f.charset {
		if s == sid {
			return font.GlyphID(gid), true
		}
	}
	return 0, false
}

// stdEncoding gives the SID assigned to a character code by the
// standard encoding (CFF spec, appendix B).
func stdEncoding(code int) int32 {
	if code >= 32 && code <= 126 {
		return int32(code - 31)
	}
	return stdEncodingHigh[code]
}

var stdEncodingHigh = map[int]int32{
	161: 96, 162: 97, 163: 98, 164: 99, 165: 100, 166: 101, 167: 102,
	168: 103, 169: 104, 170: 105, 171: 106, 172: 107, 173: 108,
	174: 109, 175: 110, 177: 111, 178: 112, 179: 113, 180: 114,
	182: 115, 183: 116, 184: 117, 185: 118, 186: 119, 187: 120,
	188: 121, 189: 122, 191: 123, 193: 124, 194: 125, 195: 126,
	196: 127, 197: 128, 198: 129, 199: 130, 200: 131, 202: 132,
	203: 133, 205: 134, 206: 135, 207: 136, 208: 137, 225: 138,
	227: 139, 232: 140, 233: 141, 234: 142, 235: 143, 241: 144,
	245: 145, 248: 146, 249: 147, 250: 148, 251: 149,
}
