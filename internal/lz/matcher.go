// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package lz implements the sliding window matcher and the optimal parser
// shared by every LZ based format.
package lz

const (
	hashBits = 9
	hashSize = 1 << hashBits
	hashMask = hashSize - 1
)

// Config constrains the matches that may be produced.
type Config struct {
	MinLength   int // Shortest match that is not a literal
	MaxLength   int // Longest match that can be encoded
	MinDistance int // Nearest distance that may be referenced
	MaxDistance int // Farthest distance that may be referenced
}

// Match is the longest match found at some position. A Distance of zero
// indicates that no match was found, in which case Length is 1.
type Match struct {
	Length   int
	Distance int
}

// Matcher finds back-references within a sliding window using a table of
// hash chains. The head table maps each hash of 3 bytes to the most recent
// position with that hash, while the circular chain array records, for each
// position in the window, the distance back to the previous position that
// had the same hash.
type Matcher struct {
	cfg   Config
	src   []byte
	head  [hashSize]int32 // Most recent position plus one; zero if empty
	chain []int32         // Distance to previous position in the bucket
	mask  int

	last    Match // Result of the most recent FindMatch
	lastPos int
}

// NewMatcher returns a Matcher over src. The src must not be modified while
// the Matcher is in use.
func NewMatcher(src []byte, cfg Config) *Matcher {
	size := 1
	for size <= cfg.MaxDistance {
		size <<= 1
	}
	return &Matcher{cfg: cfg, src: src, chain: make([]int32, size), mask: size - 1}
}

func hash3(b []byte) int {
	return (int(b[0])<<6 ^ int(b[1])<<3 ^ int(b[2])) & hashMask
}

// Insert records that position pos has been passed over. Positions must be
// inserted in increasing order.
func (m *Matcher) Insert(pos int) {
	if pos+3 > len(m.src) {
		return
	}
	h := hash3(m.src[pos:])
	var dist int32
	if prev := int(m.head[h]) - 1; prev >= 0 && pos-prev < len(m.chain) {
		dist = int32(pos - prev)
	}
	m.chain[pos&m.mask] = dist
	m.head[h] = int32(pos + 1)
}

// FindMatch returns the longest match for the data at pos, considering all
// positions inserted so far. Candidates are visited from nearest to farthest
// so that, among equally long matches, the nearest one is returned.
//
// If the previous call was for pos-1 and found a match of length L, then the
// first L-1 bytes at the same distance are already known to be equal and are
// not compared again. This keeps long runs linear.
func (m *Matcher) FindMatch(pos int) Match {
	best := Match{Length: 1}
	maxLen := m.cfg.MaxLength
	if n := len(m.src) - pos; n < maxLen {
		maxLen = n
	}
	if maxLen < m.cfg.MinLength || pos+3 > len(m.src) {
		return best
	}

	var knownDist, known int
	if pos == m.lastPos+1 && m.last.Distance > 0 {
		knownDist, known = m.last.Distance, m.last.Length-1
	}
	defer func() { m.last, m.lastPos = best, pos }()

	src := m.src
	cand := int(m.head[hash3(src[pos:])]) - 1
	for cand >= 0 {
		dist := pos - cand
		if dist > m.cfg.MaxDistance || dist > pos {
			break
		}
		if dist >= m.cfg.MinDistance {
			var n int
			if dist == knownDist {
				n = known
			}
			for n < maxLen && src[cand+n] == src[pos+n] {
				n++
			}
			if n > best.Length && n >= m.cfg.MinLength {
				best = Match{Length: n, Distance: dist}
				if n == maxLen {
					break
				}
			}
		}
		next := m.chain[cand&m.mask]
		if next == 0 {
			break
		}
		cand -= int(next)
	}
	return best
}

// FindMatches runs the matcher over the entire input and returns the
// longest match at every position.
func FindMatches(src []byte, cfg Config) []Match {
	m := NewMatcher(src, cfg)
	matches := make([]Match, len(src))
	for i := range src {
		matches[i] = m.FindMatch(i)
		m.Insert(i)
	}
	return matches
}
