// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package bench

import (
	"bytes"
	"compress/flate"
	"io"

	kflate "github.com/klauspost/compress/flate"
	"github.com/nitrotools/compress"
	"github.com/ulikunitz/xz"
)

func init() {
	for _, t := range compress.Types() {
		t := t
		RegisterCodec(t.String(), Codec{
			Encode: func(b []byte) ([]byte, error) { return compress.Compress(b, t) },
			Decode: func(b []byte) ([]byte, error) { return compress.Decompress(b, t) },
		})
	}

	RegisterCodec("flate-std", streamCodec(
		func(w io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(w, flate.DefaultCompression)
		},
		func(r io.Reader) (io.Reader, error) {
			return flate.NewReader(r), nil
		}))
	RegisterCodec("flate-kp", streamCodec(
		func(w io.Writer) (io.WriteCloser, error) {
			return kflate.NewWriter(w, kflate.DefaultCompression)
		},
		func(r io.Reader) (io.Reader, error) {
			return kflate.NewReader(r), nil
		}))
	RegisterCodec("xz", streamCodec(
		func(w io.Writer) (io.WriteCloser, error) {
			zw, err := xz.NewWriter(w)
			if err != nil {
				return nil, err
			}
			return zw, nil
		},
		func(r io.Reader) (io.Reader, error) {
			zr, err := xz.NewReader(r)
			if err != nil {
				return nil, err
			}
			return zr, nil
		}))
}

// streamCodec adapts a streaming compressor to operate on whole buffers.
func streamCodec(newWriter func(io.Writer) (io.WriteCloser, error), newReader func(io.Reader) (io.Reader, error)) Codec {
	return Codec{
		Encode: func(b []byte) ([]byte, error) {
			buf := new(bytes.Buffer)
			zw, err := newWriter(buf)
			if err != nil {
				return nil, err
			}
			if _, err := zw.Write(b); err != nil {
				return nil, err
			}
			if err := zw.Close(); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
		Decode: func(b []byte) ([]byte, error) {
			zr, err := newReader(bytes.NewReader(b))
			if err != nil {
				return nil, err
			}
			out, err := io.ReadAll(zr)
			if c, ok := zr.(io.Closer); ok {
				if cerr := c.Close(); err == nil {
					err = cerr
				}
			}
			return out, err
		},
	}
}
