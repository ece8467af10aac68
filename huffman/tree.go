// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package huffman

import (
	"sort"

	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/prefix"
)

// The children of every internal node occupy one pair of table entries.
// Pair p lives at table indexes 2p+2 and 2p+3, and the root is treated as
// belonging to pair -1. A node in pair q may only place its children in
// pair q+1 through q+1+maxOffset.

type pendingNode struct {
	node int32 // Index into the tree arena
	pair int   // Pair that holds this node
	idx  int   // Table index of this node
}

func (p pendingNode) deadline() int { return p.pair + 1 + maxOffset }

// feasible reports whether every pending node can still be assigned a pair,
// in order of deadline, when pairs are handed out starting at next.
func feasible(pend []pendingNode, next int) bool {
	ds := make([]int, len(pend))
	for i, p := range pend {
		ds[i] = p.deadline()
	}
	sort.Ints(ds)
	for k, d := range ds {
		if next+k > d {
			return false
		}
	}
	return true
}

// serializeTree encodes the tree into the offset-pair table format,
// including the leading size byte and the padding to a multiple of 4 bytes.
//
// Pairs are handed out sequentially. The most recently discovered internal
// node is served first, which keeps siblings close together, unless doing so
// would leave an older node unable to reach its children. In that case the
// node with the earliest deadline is served instead.
func serializeTree(t *prefix.Tree) ([]byte, error) {
	nodes := t.Nodes
	numPairs := len(nodes) / 2 // Number of internal nodes
	table := make([]byte, 2+2*numPairs)

	pend := []pendingNode{{node: t.Root, pair: -1, idx: 1}}
	children := func(p pendingNode, pair int) (kids []pendingNode) {
		n := &nodes[p.node]
		for i, c := range []int32{n.Left, n.Right} {
			if !nodes[c].IsLeaf() {
				kids = append(kids, pendingNode{node: c, pair: pair, idx: 2*pair + 2 + i})
			}
		}
		return kids
	}

	for next := 0; len(pend) > 0; next++ {
		last := len(pend) - 1
		kids := children(pend[last], next)
		rest := append(append([]pendingNode(nil), pend[:last]...), kids...)
		if !feasible(rest, next+1) {
			// Serve the node with the earliest deadline.
			last = 0
			for i, p := range pend {
				if p.pair < pend[last].pair {
					last = i
				}
			}
			kids = children(pend[last], next)
		}
		p := pend[last]
		pend = append(pend[:last], pend[last+1:]...)

		off := next - p.pair - 1
		if off > maxOffset {
			return nil, errorf(errors.Internal, "tree node offset out of range: %d", off)
		}
		n := &nodes[p.node]
		b := byte(off)
		if l := &nodes[n.Left]; l.IsLeaf() {
			b |= leftLeaf
			table[2*next+2] = byte(l.Sym)
		}
		if r := &nodes[n.Right]; r.IsLeaf() {
			b |= rightLeaf
			table[2*next+3] = byte(r.Sym)
		}
		table[p.idx] = b
		pend = append(pend, kids...)
	}

	for len(table)%4 != 0 {
		table = append(table, 0)
	}
	table[0] = byte(len(table)/2 - 1)
	return table, nil
}
