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

// Package hmtx reads and writes the "hhea" and "hmtx" tables.
// https://docs.microsoft.com/en-us/typography/opentype/spec/hhea
// https://docs.microsoft.com/en-us/typography/opentype/spec/hmtx
package hmtx

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"seehuhn.de/go/subfont/font"
)

// Info contains the information from the "hhea" and "hmtx" tables.
// Width and LSB have one entry per glyph.
type Info struct {
	Width []uint16
	LSB   []int16

	Ascent  int16
	Descent int16 // negative
	LineGap int16

	CaretSlopeRise int16
	CaretSlopeRun  int16
	CaretOffset    int16
}

// Decode extracts the glyph metrics from the "hhea" and "hmtx" tables.
func Decode(hheaData, hmtxData []byte) (*Info, error) {
	hhea := &binaryHhea{}
	err := binary.Read(bytes.NewReader(hheaData), binary.BigEndian, hhea)
	if err != nil {
		return nil, invalid("hhea too short")
	}
	if hhea.Version != 0x00010000 {
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/hmtx",
			Feature:   fmt.Sprintf("hhea version %08x", hhea.Version),
		}
	}
	if hhea.MetricDataFormat != 0 {
		return nil, &font.NotSupportedError{
			SubSystem: "sfnt/hmtx",
			Feature:   fmt.Sprintf("metric data format %d", hhea.MetricDataFormat),
		}
	}

	numLong := int(hhea.NumOfLongHorMetrics)
	if numLong < 1 || len(hmtxData) < 4*numLong {
		return nil, invalid("hmtx too short")
	}

	info := &Info{
		Ascent:         hhea.Ascent,
		Descent:        hhea.Descent,
		LineGap:        hhea.LineGap,
		CaretSlopeRise: hhea.CaretSlopeRise,
		CaretSlopeRun:  hhea.CaretSlopeRun,
		CaretOffset:    hhea.CaretOffset,
	}

	numGlyphs := numLong + (len(hmtxData)-4*numLong)/2
	info.Width = make([]uint16, numGlyphs)
	info.LSB = make([]int16, numGlyphs)
	var width uint16
	for i := 0; i < numGlyphs; i++ {
		var lsb int16
		if i < numLong {
			width = uint16(hmtxData[4*i])<<8 | uint16(hmtxData[4*i+1])
			lsb = int16(hmtxData[4*i+2])<<8 | int16(hmtxData[4*i+3])
		} else {
			pos := 4*numLong + 2*(i-numLong)
			lsb = int16(hmtxData[pos])<<8 | int16(hmtxData[pos+1])
		}
		info.Width[i] = width
		info.LSB[i] = lsb
	}
	return info, nil
}

// Pad adjusts the Width and LSB slices to exactly numGlyphs entries.
// Missing widths repeat the last known width, missing side bearings
// are zero.
func (info *Info) Pad(numGlyphs int) {
	var width uint16
	if n := len(info.Width); n > 0 {
		width = info.Width[n-1]
	}
	for len(info.Width) < numGlyphs {
		info.Width = append(info.Width, width)
	}
	for len(info.LSB) < numGlyphs {
		info.LSB = append(info.LSB, 0)
	}
	info.Width = info.Width[:numGlyphs]
	info.LSB = info.LSB[:numGlyphs]
}

// Encode creates the "hhea" and "hmtx" tables.  The number of long
// metrics is minimized by eliding the repeated trailing widths.
func (info *Info) Encode() (hheaData []byte, hmtxData []byte) {
	numGlyphs := len(info.Width)
	if len(info.LSB) != numGlyphs {
		panic("hmtx: width/lsb length mismatch")
	}

	numLong := numGlyphs
	for numLong > 1 && info.Width[numLong-1] == info.Width[numLong-2] {
		numLong--
	}

	hhea := &binaryHhea{
		Version: 0x00010000,
		Ascent:  info.Ascent,
		Descent: info.Descent,
		LineGap: info.LineGap,

		CaretSlopeRise: info.CaretSlopeRise,
		CaretSlopeRun:  info.CaretSlopeRun,
		CaretOffset:    info.CaretOffset,

		NumOfLongHorMetrics: uint16(numLong),
	}
	for _, w := range info.Width {
		if w > hhea.AdvanceWidthMax {
			hhea.AdvanceWidthMax = w
		}
	}
	for i, lsb := range info.LSB {
		if i == 0 || lsb < hhea.MinLeftSideBearing {
			hhea.MinLeftSideBearing = lsb
		}
	}

	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.BigEndian, hhea)
	hheaData = buf.Bytes()

	hmtxData = make([]byte, 0, 4*numLong+2*(numGlyphs-numLong))
	for i := 0; i < numGlyphs; i++ {
		if i < numLong {
			hmtxData = append(hmtxData,
				byte(info.Width[i]>>8), byte(info.Width[i]))
		}
		hmtxData = append(hmtxData,
			byte(info.LSB[i]>>8), byte(info.LSB[i]))
	}
	return hheaData, hmtxData
}

func invalid(reason string) error {
	return &font.InvalidFontError{
		SubSystem: "sfnt/hmtx",
		Reason:    reason,
	}
}

type binaryHhea struct {
	Version             uint32
	Ascent              int16
	Descent             int16
	LineGap             int16
	AdvanceWidthMax     uint16
	MinLeftSideBearing  int16
	MinRightSideBearing int16
	XMaxExtent          int16
	CaretSlopeRise      int16
	CaretSlopeRun       int16
	CaretOffset         int16
	_                   [4]int16 // reserved
	MetricDataFormat    int16
	NumOfLongHorMetrics uint16
}
