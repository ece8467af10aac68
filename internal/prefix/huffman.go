// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import "sort"

// Node is a single node of a Huffman tree. Leaves have Left and Right set
// to -1. For every node, SymMin and SymMax bound the symbols of its entire
// subtree and Count is the number of leaves beneath it.
type Node struct {
	Sym    uint32 // Symbol value (leaves only)
	SymMin uint32
	SymMax uint32
	Freq   uint32
	Count  uint32
	Left   int32
	Right  int32
}

func (n *Node) IsLeaf() bool { return n.Left < 0 }

// Tree is a Huffman tree stored as an index-addressed arena of nodes.
type Tree struct {
	Nodes []Node
	Root  int32
}

// BuildTree constructs a Huffman tree from a histogram of symbol frequencies.
//
// Symbols with a zero frequency are skipped. If fewer than two symbols are
// present, dummy leaves are synthesized from the lowest unused symbols so that
// every symbol is reachable with a non-zero code length.
//
// Nodes are repeatedly sorted by descending frequency and the two lowest are
// merged. A final pass places the subtree with fewer leaves on the left,
// which keeps the resulting shape independent of sort implementation details.
func BuildTree(freqs []uint32) Tree {
	nodes := make([]Node, 0, 2*len(freqs)+4)
	var live []int32
	for sym, f := range freqs {
		if f > 0 {
			live = append(live, int32(len(nodes)))
			nodes = append(nodes, leafNode(uint32(sym), f))
		}
	}
	for sym := 0; len(live) < 2; sym++ {
		if sym < len(freqs) && freqs[sym] > 0 {
			continue
		}
		live = append(live, int32(len(nodes)))
		nodes = append(nodes, leafNode(uint32(sym), 1))
	}

	sort.SliceStable(live, func(i, j int) bool {
		return nodes[live[i]].Freq > nodes[live[j]].Freq
	})
	for len(live) > 1 {
		a, b := live[len(live)-1], live[len(live)-2]
		na, nb := &nodes[a], &nodes[b]
		n := Node{
			SymMin: minUint32(na.SymMin, nb.SymMin),
			SymMax: maxUint32(na.SymMax, nb.SymMax),
			Freq:   na.Freq + nb.Freq,
			Count:  na.Count + nb.Count,
			Left:   a,
			Right:  b,
		}
		idx := int32(len(nodes))
		nodes = append(nodes, n)
		live = live[:len(live)-2]

		// Keep live sorted by descending frequency. The new node goes after
		// all nodes of equal frequency, as a stable re-sort would place it.
		i := sort.Search(len(live), func(i int) bool {
			return nodes[live[i]].Freq < n.Freq
		})
		live = append(live, 0)
		copy(live[i+1:], live[i:])
		live[i] = idx
	}

	for i := range nodes {
		n := &nodes[i]
		if !n.IsLeaf() && nodes[n.Left].Count > nodes[n.Right].Count {
			n.Left, n.Right = n.Right, n.Left
		}
	}
	return Tree{Nodes: nodes, Root: live[0]}
}

// BuildTreeLimited is like BuildTree, but ensures that no code is longer
// than maxBits by repeatedly flattening the histogram.
// The alphabet must have at most 1<<maxBits symbols.
func BuildTreeLimited(freqs []uint32, maxBits uint) Tree {
	fs := append([]uint32(nil), freqs...)
	for {
		t := BuildTree(fs)
		if t.MaxDepth() <= maxBits {
			return t
		}
		for i, f := range fs {
			if f > 0 {
				fs[i] = (f + 1) / 2
			}
		}
	}
}

// BuildLengths returns the code length of each of the len(freqs) symbols,
// limited to maxBits.
func BuildLengths(freqs []uint32, maxBits uint) []uint8 {
	t := BuildTreeLimited(freqs, maxBits)
	n := len(freqs)
	if int(t.Nodes[t.Root].SymMax) >= n {
		n = int(t.Nodes[t.Root].SymMax) + 1
	}
	return t.Lengths(n)
}

func leafNode(sym, freq uint32) Node {
	return Node{Sym: sym, SymMin: sym, SymMax: sym, Freq: freq, Count: 1, Left: -1, Right: -1}
}

// walk calls fn for every leaf with its path code, where left is 0.
func (t *Tree) walk(fn func(n *Node, code PrefixCode)) {
	type item struct {
		idx  int32
		code PrefixCode
	}
	stack := []item{{idx: t.Root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.Nodes[it.idx]
		if n.IsLeaf() {
			fn(n, it.code)
			continue
		}
		c := it.code
		c.Len++
		c.Val <<= 1
		stack = append(stack, item{n.Right, PrefixCode{Len: c.Len, Val: c.Val | 1}})
		stack = append(stack, item{n.Left, PrefixCode{Len: c.Len, Val: c.Val}})
	}
}

// MaxDepth reports the length of the longest code in the tree.
func (t *Tree) MaxDepth() (max uint) {
	t.walk(func(_ *Node, c PrefixCode) {
		if uint(c.Len) > max {
			max = uint(c.Len)
		}
	})
	return max
}

// Lengths returns the depth of each of the n symbols in the tree.
// Symbols absent from the tree have a length of zero.
func (t *Tree) Lengths(n int) []uint8 {
	lens := make([]uint8, n)
	t.walk(func(nd *Node, c PrefixCode) {
		if int(nd.Sym) < n {
			lens[nd.Sym] = uint8(c.Len)
		}
	})
	return lens
}

// Codes returns the codes given by the actual paths of the tree for each of
// the n symbols, indexed by symbol. Trees serialized structurally (rather than
// canonically) must be encoded with these codes.
func (t *Tree) Codes(n int) []PrefixCode {
	codes := make([]PrefixCode, n)
	t.walk(func(nd *Node, c PrefixCode) {
		if int(nd.Sym) < n {
			codes[nd.Sym] = PrefixCode{Sym: nd.Sym, Cnt: nd.Freq, Len: c.Len, Val: c.Val}
		}
	})
	return codes
}

func minUint32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func maxUint32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
