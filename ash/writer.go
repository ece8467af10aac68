// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ash

import (
	"encoding/binary"

	"github.com/nitrotools/compress/internal"
	"github.com/nitrotools/compress/internal/bytebuf"
	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/lz"
	"github.com/nitrotools/compress/internal/prefix"
)

const absentBits = 16

type model struct {
	src      []byte
	litLens  []uint8
	distLens []uint8
}

// flatModel prices symbols at their raw widths.
func flatModel(src []byte) model {
	m := model{src: src, litLens: make([]uint8, numLitSyms), distLens: make([]uint8, numDistSyms)}
	for i := range m.litLens {
		m.litLens[i] = litBits
	}
	for i := range m.distLens {
		m.distLens[i] = distBits
	}
	return m
}

func price(lens []uint8, sym int) int {
	if lens[sym] > 0 {
		return int(lens[sym])
	}
	return absentBits
}

func (m model) cost(pos, length, dist int) (int, bool) {
	if dist == 0 {
		return price(m.litLens, int(m.src[pos])), true
	}
	if length < minLength || length > maxLength {
		return 0, false
	}
	return price(m.litLens, 256+length-minLength) + price(m.distLens, dist-1), true
}

// encode produces the complete stream for the tokens and returns it along
// with the tree depths that were used.
func encode(src []byte, toks []lz.Token) ([]byte, model) {
	litFreqs := make([]uint32, numLitSyms)
	distFreqs := make([]uint32, numDistSyms)
	var pos int
	for _, t := range toks {
		if t.IsLiteral() {
			litFreqs[src[pos]]++
		} else {
			litFreqs[256+t.Length-minLength]++
			distFreqs[t.Distance-1]++
		}
		pos += t.Length
	}
	litTree := prefix.BuildTreeLimited(litFreqs, maxCodeBits)
	distTree := prefix.BuildTreeLimited(distFreqs, maxCodeBits)
	litCodes := litTree.Codes(numLitSyms)
	distCodes := distTree.Codes(numDistSyms)

	lw := prefix.NewWriter(prefix.MSBFirst, binary.BigEndian)
	dw := prefix.NewWriter(prefix.MSBFirst, binary.BigEndian)
	writeTree(lw, &litTree, litBits)
	writeTree(dw, &distTree, distBits)
	pos = 0
	for _, t := range toks {
		if t.IsLiteral() {
			lw.WriteCode(litCodes[src[pos]])
		} else {
			lw.WriteCode(litCodes[256+t.Length-minLength])
			dw.WriteCode(distCodes[t.Distance-1])
		}
		pos += t.Length
	}

	b := bytebuf.NewBuilder(make([]byte, 0, headerSize+lw.Len()+dw.Len()))
	b.Write([]byte(Magic))
	b.WriteUint32(binary.BigEndian, uint32(len(src)))
	off := b.Reserve(4)
	b.Write(lw.Bytes())
	b.PutUint32(off, 0, binary.BigEndian, uint32(b.Len()))
	b.Write(dw.Bytes())
	return b.Bytes(), model{src: src, litLens: litTree.Lengths(numLitSyms), distLens: distTree.Lengths(numDistSyms)}
}

// Compress encodes src as an ASH0 stream. The input is tokenized twice, first
// pricing symbols at their raw widths and then with the tree depths of the
// first pass, and the smaller of the two encodings is returned.
func Compress(src []byte) ([]byte, error) {
	if len(src) > internal.MaxUint24 {
		return nil, errorf(errors.Invalid, "input too large: %d bytes", len(src))
	}
	matches := lz.FindMatches(src, matchConfig)
	best, m := encode(src, lz.Parse(matches, flatModel(src).cost))
	if out, _ := encode(src, lz.Parse(matches, m.cost)); len(out) < len(best) {
		best = out
	}
	return best, nil
}
