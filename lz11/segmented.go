// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package lz11

import (
	"encoding/binary"

	"github.com/nitrotools/compress/internal/bytebuf"
	"github.com/nitrotools/compress/internal/errors"
)

// The segmented container splits the input into fixed size segments, each of
// which is either stored or compressed with LZ11 independently:
//
//	0x00  magic "COMP" (big-endian words) or "PMOC" (little-endian words)
//	0x04  total uncompressed size
//	0x08  uncompressed size of each segment (the last may be shorter)
//	0x0C  number of segments
//	0x10  stored length of each segment as a signed 32-bit integer, where a
//	      negative value marks an LZ11 stream of that many bytes
//
// The segment payloads follow the table back to back.
const (
	SegmentMagic   = "COMP"
	segmentMagicLE = "PMOC"

	// SegmentSize is the uncompressed segment size used by the encoder.
	SegmentSize = 0x10000

	segmentHeaderSize = 0x10
)

type segment struct {
	size       int  // Uncompressed size
	off, n     int  // Location of the payload within the container
	compressed bool // Whether the payload is an LZ11 stream
}

// readSegments parses and checks the geometry of the segment table.
// It returns the segments and the end of the last payload.
func readSegments(src []byte) ([]segment, int) {
	if len(src) < segmentHeaderSize {
		panicf(errors.Corrupted, "truncated container header")
	}
	var bo binary.ByteOrder
	switch string(src[:4]) {
	case SegmentMagic:
		bo = binary.BigEndian
	case segmentMagicLE:
		bo = binary.LittleEndian
	default:
		panicf(errors.Corrupted, "invalid container magic")
	}

	total := uint64(bo.Uint32(src[4:]))
	segSize := uint64(bo.Uint32(src[8:]))
	count := uint64(bo.Uint32(src[12:]))
	switch {
	case segSize == 0 && total > 0:
		panicf(errors.Corrupted, "zero segment size")
	case segSize > 0 && count != (total+segSize-1)/segSize:
		panicf(errors.Corrupted, "segment count mismatch: %d", count)
	case segmentHeaderSize+4*count > uint64(len(src)):
		panicf(errors.Corrupted, "truncated segment table")
	}

	segs := make([]segment, count)
	off := segmentHeaderSize + 4*int(count)
	remain := total
	for i := range segs {
		size := segSize
		if remain < size {
			size = remain
		}
		remain -= size

		v := int64(int32(bo.Uint32(src[segmentHeaderSize+4*i:])))
		s := segment{size: int(size), off: off, n: int(v)}
		if v < 0 {
			s.n, s.compressed = int(-v), true
		} else if uint64(v) != size {
			panicf(errors.Corrupted, "stored segment %d has length %d, want %d", i, v, size)
		}
		if s.n > len(src)-off {
			panicf(errors.Corrupted, "segment %d overruns container", i)
		}
		segs[i] = s
		off += s.n
	}
	return segs, off
}

// DecompressSegmented decodes a segmented container.
func DecompressSegmented(src []byte) (dst []byte, err error) {
	defer errors.Recover(&err)
	segs, _ := readSegments(src)
	dst = []byte{}
	for i, s := range segs {
		payload := src[s.off : s.off+s.n]
		if !s.compressed {
			dst = append(dst, payload...)
			continue
		}
		out, _ := decode(payload, false)
		if len(out) != s.size {
			panicf(errors.Corrupted, "segment %d has size %d, want %d", i, len(out), s.size)
		}
		dst = append(dst, out...)
	}
	return dst, nil
}

// IsSegmented reports whether src is a well-formed segmented container.
// Every compressed segment is dry-run decoded.
func IsSegmented(src []byte) (ok bool) {
	var err error
	defer func() { ok = err == nil }()
	defer errors.Recover(&err)

	segs, end := readSegments(src)
	if len(src)-end > maxTrailing {
		panicf(errors.Corrupted, "too many trailing bytes")
	}
	for i, s := range segs {
		if !s.compressed {
			continue
		}
		payload := src[s.off : s.off+s.n]
		if readHeader(payload) != s.size {
			panicf(errors.Corrupted, "segment %d has wrong size", i)
		}
		if _, n := decode(payload, true); s.n-n > maxTrailing {
			panicf(errors.Corrupted, "segment %d has too many trailing bytes", i)
		}
	}
	return
}

// CompressSegmented encodes src as a segmented container with "COMP" magic.
// Segments that LZ11 cannot shrink are stored as is.
func CompressSegmented(src []byte) ([]byte, error) {
	if uint64(len(src)) > 1<<32-1 {
		return nil, errorf(errors.Invalid, "input too large: %d bytes", len(src))
	}
	count := (len(src) + SegmentSize - 1) / SegmentSize

	var b bytebuf.Builder
	b.Write([]byte(SegmentMagic))
	b.WriteUint32(binary.BigEndian, uint32(len(src)))
	b.WriteUint32(binary.BigEndian, SegmentSize)
	b.WriteUint32(binary.BigEndian, uint32(count))
	table := b.Reserve(4 * count)

	for i := 0; i < count; i++ {
		seg := src[i*SegmentSize:]
		if len(seg) > SegmentSize {
			seg = seg[:SegmentSize]
		}
		comp, err := Compress(seg)
		if err != nil {
			return nil, err
		}
		if len(comp) < len(seg) {
			b.Write(comp)
			b.PutUint32(table, 4*i, binary.BigEndian, uint32(-int32(len(comp))))
		} else {
			b.Write(seg)
			b.PutUint32(table, 4*i, binary.BigEndian, uint32(len(seg)))
		}
	}
	return b.Bytes(), nil
}
