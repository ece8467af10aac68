// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import "github.com/nitrotools/compress/internal/errors"

// Decoder walks a binary tree one bit at a time to decode a symbol.
// The tree is stored as an arena of nodes where index 0 is the root and a
// child index of 0 indicates that the branch does not exist.
type Decoder struct {
	nodes   []decNode
	NumSyms int // Number of symbols in the code
}

type decNode struct {
	child [2]int32
	sym   int32 // Symbol for leaf nodes; -1 for branches
}

// Init builds the decoder from a set of prefix codes. It panics with a
// corrupted-input error if the codes are not prefix-free or if there are no
// codes at all.
func (pd *Decoder) Init(codes PrefixCodes) {
	pd.nodes = append(pd.nodes[:0], decNode{sym: -1})
	pd.NumSyms = len(codes)
	if len(codes) == 0 {
		panicf(errors.Corrupted, "empty prefix code")
	}
	for _, c := range codes {
		if c.Len == 0 || c.Len > 32 {
			panicf(errors.Corrupted, "invalid prefix code length: %d", c.Len)
		}
		var idx int32
		for i := int(c.Len) - 1; i >= 0; i-- {
			if pd.nodes[idx].sym >= 0 {
				panicf(errors.Corrupted, "over-subscribed prefix code")
			}
			b := (c.Val >> uint(i)) & 1
			next := pd.nodes[idx].child[b]
			if next == 0 {
				next = int32(len(pd.nodes))
				pd.nodes = append(pd.nodes, decNode{sym: -1})
				pd.nodes[idx].child[b] = next
			}
			idx = next
		}
		if pd.nodes[idx].sym >= 0 || pd.nodes[idx].child != [2]int32{} {
			panicf(errors.Corrupted, "over-subscribed prefix code")
		}
		pd.nodes[idx].sym = int32(c.Sym)
	}
}

// InitLengths builds the decoder from canonical bit lengths.
// Lengths must not exceed maxBits.
func (pd *Decoder) InitLengths(lens []uint8, maxBits uint) {
	if !ValidLengths(lens, maxBits) {
		panicf(errors.Corrupted, "invalid prefix code lengths")
	}
	pd.Init(GenerateCodes(lens))
}

func (pd *Decoder) readSymbol(pr *Reader) uint32 {
	var idx int32
	for {
		next := pd.nodes[idx].child[pr.ReadBits(1)]
		if next == 0 {
			panicf(errors.Corrupted, "invalid prefix code in bit-stream")
		}
		idx = next
		if sym := pd.nodes[idx].sym; sym >= 0 {
			return uint32(sym)
		}
	}
}
