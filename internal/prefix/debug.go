// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

//go:build debug
// +build debug

package prefix

import (
	"fmt"
	"strings"
)

func lenBase2(n interface{}) int { return len(fmt.Sprintf("%b", n)) }
func padBase2(v, n interface{}, m int) string {
	var s string
	if fmt.Sprint(n) != "0" {
		s = fmt.Sprintf(fmt.Sprintf("%%0%db", n), v)
	}
	if pad := m - len(s); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}

func lenBase10(n int) int { return len(fmt.Sprintf("%d", n)) }
func padBase10(n interface{}, m int) string {
	s := fmt.Sprintf("%d", n)
	if pad := m - len(s); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}

func (rc RangeCodes) String() string {
	var maxLen, maxBase int
	for _, c := range rc {
		if maxLen < int(c.Len) {
			maxLen = int(c.Len)
		}
		if maxBase < int(c.Base) {
			maxBase = int(c.Base)
		}
	}
	maxSymStr := lenBase10(len(rc) - 1)
	maxLenStr := lenBase10(maxLen)
	maxBaseStr := lenBase10(maxBase)

	var ss []string
	ss = append(ss, "{")
	for i, c := range rc {
		base := fmt.Sprintf(fmt.Sprintf("%%%dd", maxBaseStr), c.Base)
		if c.Len > 0 {
			base += fmt.Sprintf("-%d", c.End()-1)
		}
		ss = append(ss, fmt.Sprintf(
			fmt.Sprintf("\t%%%dd:  {bits: %%%dd, base: %%s},",
				maxSymStr, maxLenStr),
			i, c.Len, base,
		))
	}
	ss = append(ss, "}")
	return strings.Join(ss, "\n")
}

func (pc PrefixCodes) String() string {
	var maxSym, maxLen, maxCnt int
	for _, c := range pc {
		if maxSym < int(c.Sym) {
			maxSym = int(c.Sym)
		}
		if maxLen < int(c.Len) {
			maxLen = int(c.Len)
		}
		if maxCnt < int(c.Cnt) {
			maxCnt = int(c.Cnt)
		}
	}
	maxSymStr := lenBase10(maxSym)
	maxCntStr := lenBase10(maxCnt)

	var ss []string
	ss = append(ss, "{")
	for _, c := range pc {
		var cntStr string
		if maxCnt > 0 {
			cnt := int(32*float32(c.Cnt)/float32(maxCnt) + 0.5)
			cntStr = fmt.Sprintf("%s |%s",
				padBase10(c.Cnt, maxCntStr),
				strings.Repeat("#", cnt),
			)
		}
		ss = append(ss, fmt.Sprintf("\t%s:  %s,  %s",
			padBase10(c.Sym, maxSymStr),
			padBase2(c.Val, c.Len, maxLen),
			cntStr,
		))
	}
	ss = append(ss, "}")
	return strings.Join(ss, "\n")
}

func (t Tree) String() string {
	var ss []string
	ss = append(ss, "{")
	for i, n := range t.Nodes {
		if n.IsLeaf() {
			ss = append(ss, fmt.Sprintf("\t%s:  {sym: %d, freq: %d},",
				padBase10(i, lenBase10(len(t.Nodes))), n.Sym, n.Freq))
			continue
		}
		ss = append(ss, fmt.Sprintf("\t%s:  {left: %d, right: %d, syms: %d-%d, freq: %d, count: %d},",
			padBase10(i, lenBase10(len(t.Nodes))), n.Left, n.Right, n.SymMin, n.SymMax, n.Freq, n.Count))
	}
	ss = append(ss, fmt.Sprintf("\troot: %d,", t.Root))
	ss = append(ss, "}")
	return strings.Join(ss, "\n")
}

func (pd Decoder) String() string {
	var ss []string
	ss = append(ss, "{")
	for i, n := range pd.nodes {
		if n.sym >= 0 {
			ss = append(ss, fmt.Sprintf("\t%s:  {sym: %d},", padBase10(i, 4), n.sym))
		} else {
			ss = append(ss, fmt.Sprintf("\t%s:  {0: %d, 1: %d},", padBase10(i, 4), n.child[0], n.child[1]))
		}
	}
	ss = append(ss, fmt.Sprintf("\tnumSyms: %d,", pd.NumSyms))
	ss = append(ss, "}")
	return strings.Join(ss, "\n")
}
