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
	"math"
	"sort"
	"strconv"
)

// dictOp is a DICT operator.  Two-byte operators 12 x are represented
// as 0x0c00+x.
type dictOp = uint16

const (
	opCharset        dictOp = 0x000F
	opEncoding       dictOp = 0x0010
	opCharStrings    dictOp = 0x0011
	opPrivate        dictOp = 0x0012
	opSubrs          dictOp = 0x0013
	opCharstringType dictOp = 0x0C06
	opROS            dictOp = 0x0C1E
	opCIDCount       dictOp = 0x0C22
	opFDArray        dictOp = 0x0C24
	opFDSelect       dictOp = 0x0C25
)

// dictValue is a single DICT operand.  The raw encoding is kept so that
// real-number operands survive a round trip unchanged.
type dictValue struct {
	raw   []byte
	num   float64
	isInt bool
}

// cffDict maps operators to their operand lists.
type cffDict map[dictOp][]dictValue

func decodeDict(data []byte) (cffDict, error) {
	res := cffDict{}
	var args []dictValue

	pos := 0
	for pos < len(data) {
		b0 := data[pos]
		start := pos
		switch {
		case b0 == 12:
			if pos+2 > len(data) {
				return nil, invalid("malformed DICT")
			}
			res[0x0c00|dictOp(data[pos+1])] = args
			args = nil
			pos += 2
			continue
		case b0 <= 21:
			res[dictOp(b0)] = args
			args = nil
			pos++
			continue
		case b0 == 28:
			pos += 3
			if pos > len(data) {
				return nil, invalid("malformed DICT")
			}
			v := int16(uint16(data[start+1])<<8 | uint16(data[start+2]))
			args = append(args, dictValue{raw: data[start:pos], num: float64(v), isInt: true})
		case b0 == 29:
			pos += 5
			if pos > len(data) {
				return nil, invalid("malformed DICT")
			}
			v := int32(uint32(data[start+1])<<24 | uint32(data[start+2])<<16 |
				uint32(data[start+3])<<8 | uint32(data[start+4]))
			args = append(args, dictValue{raw: data[start:pos], num: float64(v), isInt: true})
		case b0 == 30:
			x, next, err := decodeReal(data, pos+1)
			if err != nil {
				return nil, err
			}
			args = append(args, dictValue{raw: data[start:next], num: x})
			pos = next
		case b0 >= 32 && b0 <= 246:
			pos++
			args = append(args, dictValue{raw: data[start:pos], num: float64(int(b0) - 139), isInt: true})
		case b0 >= 247 && b0 <= 250:
			pos += 2
			if pos > len(data) {
				return nil, invalid("malformed DICT")
			}
			v := (int(b0)-247)*256 + int(data[start+1]) + 108
			args = append(args, dictValue{raw: data[start:pos], num: float64(v), isInt: true})
		case b0 >= 251 && b0 <= 254:
			pos += 2
			if pos > len(data) {
				return nil, invalid("malformed DICT")
			}
			v := -(int(b0)-251)*256 - int(data[start+1]) - 108
			args = append(args, dictValue{raw: data[start:pos], num: float64(v), isInt: true})
		default:
			return nil, invalid("malformed DICT")
		}
	}
	return res, nil
}

func decodeReal(data []byte, pos int) (float64, int, error) {
	var buf []byte
	for pos < len(data) {
		b := data[pos]
		pos++
		for _, nibble := range [2]byte{b >> 4, b & 0x0F} {
			switch {
			case nibble <= 9:
				buf = append(buf, '0'+nibble)
			case nibble == 0x0A:
				buf = append(buf, '.')
			case nibble == 0x0B:
				buf = append(buf, 'E')
			case nibble == 0x0C:
				buf = append(buf, 'E', '-')
			case nibble == 0x0E:
				buf = append(buf, '-')
			case nibble == 0x0F:
				x, err := strconv.ParseFloat(string(buf), 64)
				if err != nil || math.IsInf(x, 0) {
					return 0, 0, invalid("malformed real number")
				}
				return x, pos, nil
			}
		}
	}
	return 0, 0, invalid("unterminated real number")
}

func (d cffDict) getInt(op dictOp, defaultVal int32) int32 {
	args, ok := d[op]
	if !ok || len(args) != 1 || !args[0].isInt {
		return defaultVal
	}
	return int32(args[0].num)
}

func (d cffDict) getPair(op dictOp) (int32, int32, bool) {
	args, ok := d[op]
	if !ok || len(args) != 2 || !args[0].isInt || !args[1].isInt {
		return 0, 0, false
	}
	return int32(args[0].num), int32(args[1].num), true
}

// setInts replaces the operands of op with fixed-width integer
// encodings.  The fixed width keeps DICT sizes stable while offsets are
// still being computed.
func (d cffDict) setInts(op dictOp, values ...int32) {
	args := make([]dictValue, len(values))
	for i, v := range values {
		args[i] = dictValue{
			raw:   []byte{29, byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)},
			num:   float64(v),
			isInt: true,
		}
	}
	d[op] = args
}

func (d cffDict) clone() cffDict {
	res := make(cffDict, len(d))
	for op, args := range d {
		res[op] = args
	}
	return res
}

// encode serialises the DICT.  The ROS operator comes first, as
// required for CID-keyed fonts; all other operators follow in numeric
// order.
func (d cffDict) encode() []byte {
	ops := make([]dictOp, 0, len(d))
	for op := range d {
		if op != opROS {
			ops = append(ops, op)
		}
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	if _, ok := d[opROS]; ok {
		ops = append([]dictOp{opROS}, ops...)
	}

	var buf []byte
	for _, op := range ops {
		for _, arg := range d[op] {
			buf = append(buf, arg.raw...)
		}
		if op >= 0x0c00 {
			buf = append(buf, 12, byte(op))
		} else {
			buf = append(buf, byte(op))
		}
	}
	return buf
}
