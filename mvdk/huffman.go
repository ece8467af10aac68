// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package mvdk

import (
	"encoding/binary"

	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/lz"
	"github.com/nitrotools/compress/internal/prefix"
)

// The Huffman mode bit-stream is packed LSB first into little-endian words:
//
//	9 bits        number of literal/length code lengths (nlit, 1..284)
//	nlit*4 bits   literal (0..255) and length (256..283) code lengths
//	5 bits        number of distance code lengths (ndist, 0..30)
//	ndist*4 bits  distance code lengths
//	tokens        until the uncompressed size is reached
//
// A length symbol is followed by its extra bits, the distance symbol, and
// the distance extra bits. There is no end-of-block symbol.

var matchConfig = lz.Config{
	MinLength:   minMatch,
	MaxLength:   maxMatch,
	MinDistance: 1,
	MaxDistance: maxDistance,
}

// model prices tokens using the code lengths of a previous encoding.
// Every length and distance is priced up front since the parser queries
// them once per candidate length.
type model struct {
	src      []byte
	litBits  [numLitSyms]int
	lenBits  []int // Indexed by length
	distBits []int // Indexed by distance
}

func newModel(src []byte, litLens, distLens []uint8) *model {
	m := &model{src: src, lenBits: make([]int, maxMatch+1), distBits: make([]int, maxDistance+1)}
	for i := range m.litBits {
		m.litBits[i] = price(litLens, i)
	}
	for l := minMatch; l <= maxMatch; l++ {
		ls, _ := lenRanges.Encode(uint32(l))
		m.lenBits[l] = price(litLens, numLitSyms+ls) + int(lenRanges[ls].Len)
	}
	for d := 1; d <= maxDistance; d++ {
		ds, _ := distRanges.Encode(uint32(d))
		m.distBits[d] = price(distLens, ds) + int(distRanges[ds].Len)
	}
	return m
}

// flatModel prices every literal and length symbol at 9 bits and every
// distance symbol at 5 bits, which serves as the starting point before any
// histogram is known.
func flatModel(src []byte) *model {
	litLens := make([]uint8, maxLitLen)
	distLens := make([]uint8, numDistSyms)
	for i := range litLens {
		litLens[i] = 9
	}
	for i := range distLens {
		distLens[i] = 5
	}
	return newModel(src, litLens, distLens)
}

func price(lens []uint8, sym int) int {
	if sym < len(lens) && lens[sym] > 0 {
		return int(lens[sym])
	}
	return absentBits
}

func (m *model) cost(pos, length, dist int) (int, bool) {
	if dist == 0 {
		return m.litBits[m.src[pos]], true
	}
	if length < minMatch || length > maxMatch {
		return 0, false
	}
	return m.lenBits[length] + m.distBits[dist], true
}

// trimLengths drops trailing unused symbols.
func trimLengths(lens []uint8) []uint8 {
	n := len(lens)
	for n > 0 && lens[n-1] == 0 {
		n--
	}
	return lens[:n]
}

// encodeHuffman encodes the tokens and returns the bit-stream along with the
// code lengths that were used.
func encodeHuffman(src []byte, toks []lz.Token) ([]byte, *model) {
	litFreqs := make([]uint32, maxLitLen)
	distFreqs := make([]uint32, numDistSyms)
	var pos int
	for _, t := range toks {
		if t.IsLiteral() {
			litFreqs[src[pos]]++
		} else {
			ls, _ := lenRanges.Encode(uint32(t.Length))
			ds, _ := distRanges.Encode(uint32(t.Distance))
			litFreqs[numLitSyms+ls]++
			distFreqs[ds]++
		}
		pos += t.Length
	}

	litLens := trimLengths(prefix.BuildLengths(litFreqs, maxCodeBits))
	var distLens []uint8
	for _, f := range distFreqs {
		if f > 0 {
			distLens = trimLengths(prefix.BuildLengths(distFreqs, maxCodeBits))
			break
		}
	}
	litCodes := prefix.GenerateCodes(litLens).Table(maxLitLen)
	distCodes := prefix.GenerateCodes(distLens).Table(numDistSyms)

	pw := prefix.NewWriter(prefix.LSBFirst, binary.LittleEndian)
	pw.WriteBits(uint32(len(litLens)), 9)
	for _, n := range litLens {
		pw.WriteBits(uint32(n), 4)
	}
	pw.WriteBits(uint32(len(distLens)), 5)
	for _, n := range distLens {
		pw.WriteBits(uint32(n), 4)
	}

	pos = 0
	for _, t := range toks {
		if t.IsLiteral() {
			pw.WriteCode(litCodes[src[pos]])
		} else {
			ls, lx := lenRanges.Encode(uint32(t.Length))
			ds, dx := distRanges.Encode(uint32(t.Distance))
			pw.WriteCode(litCodes[numLitSyms+ls])
			pw.WriteBits(lx, uint(lenRanges[ls].Len))
			pw.WriteCode(distCodes[ds])
			pw.WriteBits(dx, uint(distRanges[ds].Len))
		}
		pos += t.Length
	}
	return pw.Bytes(), newModel(src, litLens, distLens)
}

// compressHuffman tokenizes src and encodes it, refining the tokenization
// with the code lengths of each previous pass. The smallest result is kept.
func compressHuffman(src []byte, passes int) []byte {
	matches := lz.FindMatches(src, matchConfig)
	best, m := encodeHuffman(src, lz.Parse(matches, flatModel(src).cost))
	for i := 0; i < passes; i++ {
		var out []byte
		out, m = encodeHuffman(src, lz.Parse(matches, m.cost))
		if len(out) < len(best) {
			best = out
		}
	}
	return best
}

func readLengths(pr *prefix.Reader, n int) []uint8 {
	lens := make([]uint8, n)
	for i := range lens {
		lens[i] = uint8(pr.ReadBits(4))
	}
	return lens
}

// decodeHuffman decodes a Huffman mode body. If dry is set, no output is
// produced. It returns the output and the number of bytes consumed.
func decodeHuffman(src []byte, size int, dry bool) ([]byte, int) {
	var dst []byte
	if !dry {
		dst = make([]byte, 0, size)
	}

	var pr prefix.Reader
	pr.Init(src, prefix.LSBFirst, binary.LittleEndian)
	nlit := int(pr.ReadBits(9))
	if nlit == 0 || nlit > maxLitLen {
		panicf(errors.Corrupted, "invalid literal/length code count: %d", nlit)
	}
	var litDec, distDec prefix.Decoder
	litDec.InitLengths(readLengths(&pr, nlit), maxCodeBits)
	ndist := int(pr.ReadBits(5))
	if ndist > numDistSyms {
		panicf(errors.Corrupted, "invalid distance code count: %d", ndist)
	}
	if ndist > 0 {
		distDec.InitLengths(readLengths(&pr, ndist), maxCodeBits)
	}

	var pos int
	for pos < size {
		sym := int(pr.ReadSymbol(&litDec))
		if sym < numLitSyms {
			if !dry {
				dst = append(dst, byte(sym))
			}
			pos++
			continue
		}
		if ndist == 0 {
			panicf(errors.Corrupted, "length symbol without distance code")
		}
		lr := lenRanges[sym-numLitSyms]
		length := int(lr.Base + pr.ReadBits(uint(lr.Len)))
		dr := distRanges[pr.ReadSymbol(&distDec)]
		dist := int(dr.Base + pr.ReadBits(uint(dr.Len)))
		if dist > pos {
			panicf(errors.Corrupted, "distance %d before start of output", dist)
		}
		if pos+length > size {
			panicf(errors.Corrupted, "back-reference overruns declared size")
		}
		if !dry {
			for i := 0; i < length; i++ {
				dst = append(dst, dst[len(dst)-dist])
			}
		}
		pos += length
	}
	return dst, pr.Offset()
}
