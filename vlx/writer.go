// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package vlx

import (
	"encoding/binary"

	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/lz"
	"github.com/nitrotools/compress/internal/prefix"
)

const absentBits = 8 // Price of a class that has no code yet

// model prices tokens using the class code lengths of a previous encoding.
// Every length and distance is priced up front since the parser queries
// them once per candidate length.
type model struct {
	litBits  int
	lenBits  []int // Indexed by length
	distBits []int // Indexed by distance
}

func newModel(lenLens, distLens []uint8) model {
	m := model{
		litBits:  price(lenLens, 0) + 8,
		lenBits:  make([]int, maxLength+1),
		distBits: make([]int, maxDistance+1),
	}
	for l := minLength; l <= maxLength; l++ {
		lc, _ := lenRanges.Encode(uint32(l))
		m.lenBits[l] = price(lenLens, lc+1) + int(lenRanges[lc].Len)
	}
	for d := 1; d <= maxDistance; d++ {
		dc, _ := distRanges.Encode(uint32(d))
		m.distBits[d] = price(distLens, dc) + int(distRanges[dc].Len)
	}
	return m
}

// flatModel prices every class at 4 bits.
func flatModel() model {
	lenLens := make([]uint8, numLenClasses)
	distLens := make([]uint8, numDistClasses)
	for i := range lenLens {
		lenLens[i] = 4
	}
	for i := range distLens {
		distLens[i] = 4
	}
	return newModel(lenLens, distLens)
}

func price(lens []uint8, sym int) int {
	if sym < len(lens) && lens[sym] > 0 {
		return int(lens[sym])
	}
	return absentBits
}

func (m model) cost(_, length, dist int) (int, bool) {
	if dist == 0 {
		return m.litBits, true
	}
	if length < minLength || length > maxLength {
		return 0, false
	}
	return m.lenBits[length] + m.distBits[dist], true
}

func trimLengths(lens []uint8) []uint8 {
	n := len(lens)
	for n > 0 && lens[n-1] == 0 {
		n--
	}
	return lens[:n]
}

// encode produces the complete stream for the tokens and returns it along
// with the class code lengths that were used.
func encode(src []byte, toks []lz.Token) ([]byte, model) {
	lenFreqs := make([]uint32, numLenClasses)
	distFreqs := make([]uint32, numDistClasses)
	var refs bool
	for _, t := range toks {
		if t.IsLiteral() {
			lenFreqs[0]++
			continue
		}
		lc, _ := lenRanges.Encode(uint32(t.Length))
		dc, _ := distRanges.Encode(uint32(t.Distance))
		lenFreqs[lc+1]++
		distFreqs[dc]++
		refs = true
	}

	lenLens := trimLengths(prefix.BuildLengths(lenFreqs, maxCodeBits))
	var distLens []uint8
	if refs {
		distLens = trimLengths(prefix.BuildLengths(distFreqs, maxCodeBits))
	}
	lenCodes := prefix.GenerateCodes(lenLens).Table(numLenClasses)
	distCodes := prefix.GenerateCodes(distLens).Table(numDistClasses)

	w := sizeWidth(len(src))
	dst := []byte{byte(w)}
	for i := 0; i < w; i++ {
		dst = append(dst, byte(len(src)>>(8*uint(i))))
	}
	dst = append(dst, byte(len(lenLens))|byte(len(distLens))<<4)

	pw := prefix.NewWriter(prefix.MSBFirst, binary.BigEndian)
	for _, n := range lenLens {
		pw.WriteBits(uint32(n), 4)
	}
	for _, n := range distLens {
		pw.WriteBits(uint32(n), 4)
	}
	var pos int
	for _, t := range toks {
		if t.IsLiteral() {
			pw.WriteCode(lenCodes[0])
			pw.WriteBits(uint32(src[pos]), 8)
		} else {
			lc, lx := lenRanges.Encode(uint32(t.Length))
			dc, dx := distRanges.Encode(uint32(t.Distance))
			pw.WriteCode(lenCodes[lc+1])
			pw.WriteBits(lx, uint(lenRanges[lc].Len))
			pw.WriteCode(distCodes[dc])
			pw.WriteBits(dx, uint(distRanges[dc].Len))
		}
		pos += t.Length
	}
	return pw.AppendBytes(dst), newModel(lenLens, distLens)
}

// Compress encodes src as a VLX stream. The input is tokenized twice, first
// with flat class prices and then with the code lengths of the first pass,
// and the smaller of the two encodings is returned.
func Compress(src []byte) ([]byte, error) {
	if uint64(len(src)) > maxSize {
		return nil, errorf(errors.Invalid, "input too large: %d bytes", len(src))
	}
	matches := lz.FindMatches(src, matchConfig)
	best, m := encode(src, lz.Parse(matches, flatModel().cost))
	if out, _ := encode(src, lz.Parse(matches, m.cost)); len(out) < len(best) {
		best = out
	}
	return best, nil
}
