// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lz

import (
	"math"

	"github.com/nitrotools/compress/internal"
)

// Token is either a literal (Distance == 0, Length == 1) or a back-reference.
type Token struct {
	Length   int
	Distance int
}

func (t Token) IsLiteral() bool { return t.Distance == 0 }

// CostFunc reports the number of bits needed to encode a token starting at
// position pos of the input. A literal is queried with a length of 1 and a
// distance of 0. If the token cannot be encoded, ok must be false.
type CostFunc func(pos, length, distance int) (bits int, ok bool)

type node struct {
	length   int
	distance int
	weight   int64 // Minimum cost of encoding everything from here to the end
}

// Parse selects the sequence of tokens with the lowest total cost given the
// longest match at every position, as produced by FindMatches.
//
// The graph of positions is solved backwards from the end of the input.
// At each position, every length from the longest match down to a literal is
// tried, where shorter matches reuse the distance of the longest match.
// Only a strictly smaller cost replaces the current choice, so longer tokens
// win ties. A match that reaches the end of the input is taken whole without
// trying shorter lengths.
func Parse(matches []Match, cost CostFunc) []Token {
	n := len(matches)
	nodes := make([]node, n+1)
	for i := n - 1; i >= 0; i-- {
		best := node{weight: math.MaxInt64}
		m := matches[i]
		if m.Distance > 0 && i+m.Length == n {
			if bits, ok := cost(i, m.Length, m.Distance); ok {
				nodes[i] = node{length: m.Length, distance: m.Distance, weight: int64(bits)}
				continue
			}
		}
		if m.Distance > 0 {
			for l := m.Length; l >= 2; l-- {
				bits, ok := cost(i, l, m.Distance)
				if !ok {
					continue
				}
				if w := int64(bits) + nodes[i+l].weight; w < best.weight {
					best = node{length: l, distance: m.Distance, weight: w}
				}
			}
		}
		if bits, ok := cost(i, 1, 0); ok {
			if w := int64(bits) + nodes[i+1].weight; w < best.weight {
				best = node{length: 1, weight: w}
			}
		}
		if best.weight == math.MaxInt64 {
			panic("lz: no encodable token") // Literals must always be encodable
		}
		nodes[i] = best
	}

	var toks []Token
	for i := 0; i < n; i += nodes[i].length {
		toks = append(toks, Token{Length: nodes[i].length, Distance: nodes[i].distance})
	}
	if internal.Debug {
		var pos int
		for _, t := range toks {
			if t.Distance > pos || t.Distance > 0 && t.Distance != matches[pos].Distance {
				panic("lz: token does not follow its match")
			}
			pos += t.Length
		}
		if pos != n {
			panic("lz: tokens do not cover the input")
		}
	}
	return toks
}

// TotalCost sums the cost of all tokens.
func TotalCost(toks []Token, cost CostFunc) (total int64) {
	var pos int
	for _, t := range toks {
		bits, _ := cost(pos, t.Length, t.Distance)
		total += int64(bits)
		pos += t.Length
	}
	return total
}

// Tokenize runs the matcher and the parser in one step.
func Tokenize(src []byte, cfg Config, cost CostFunc) []Token {
	return Parse(FindMatches(src, cfg), cost)
}
