// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package ash

import (
	"github.com/nitrotools/compress/internal/errors"
	"github.com/nitrotools/compress/internal/prefix"
)

// writeTree serializes t in pre-order with the left child first.
func writeTree(pw *prefix.Writer, t *prefix.Tree, bits uint) {
	stack := []int32{t.Root}
	for len(stack) > 0 {
		n := &t.Nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if n.IsLeaf() {
			pw.WriteBit(false)
			pw.WriteBits(n.Sym, bits)
			continue
		}
		pw.WriteBit(true)
		stack = append(stack, n.Right, n.Left)
	}
}

// readTree parses a pre-order tree whose leaves carry symbols of the given
// bit width. The root is always at index 0, so a child index of 0 marks a
// branch that is still missing its left child.
func readTree(pr *prefix.Reader, bits uint) prefix.Tree {
	maxNodes := 2<<bits - 1
	if !pr.ReadBit() {
		panicf(errors.Corrupted, "tree root is a leaf")
	}
	nodes := []prefix.Node{{}}
	stack := []int32{0}
	for len(stack) > 0 {
		if len(nodes) == maxNodes {
			panicf(errors.Corrupted, "tree has too many nodes")
		}
		idx := int32(len(nodes))
		if pr.ReadBit() {
			nodes = append(nodes, prefix.Node{})
		} else {
			sym := pr.ReadBits(bits)
			nodes = append(nodes, prefix.Node{Sym: sym, Left: -1, Right: -1})
		}

		parent := &nodes[stack[len(stack)-1]]
		if parent.Left == 0 {
			parent.Left = idx
		} else {
			parent.Right = idx
			stack = stack[:len(stack)-1]
		}
		if !nodes[idx].IsLeaf() {
			stack = append(stack, idx)
		}
	}
	return prefix.Tree{Nodes: nodes, Root: 0}
}
