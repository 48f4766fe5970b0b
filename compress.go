// compress.go: transparent zlib compression stage for container content.
//
// Copyright (c) 2026 Synfold Labs
// SPDX-License-Identifier: Apache-2.0

package cryptainer

import (
	"bytes"
	"compress/zlib"
	"io"

	goerrors "github.com/agilira/go-errors"
)

// compressAll drains r through a zlib writer into memory and returns a
// reader over the compressed bytes along with the number of plaintext bytes
// consumed. The compression flag marks an RFC 1950 zlib stream on disk, so
// the codec is not negotiable.
//
// This is a pre-stage to encryption, not interleaved with it: the whole
// source is compressed first, then the compressed buffer is streamed through
// the cipher like ordinary content.
func compressAll(r io.Reader) (*bytes.Reader, int64, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)

	n, err := io.Copy(zw, r)
	if err != nil {
		return nil, 0, goerrors.Wrap(err, "COMPRESS_ERROR", "failed to compress content")
	}
	if err := zw.Close(); err != nil {
		return nil, 0, goerrors.Wrap(err, "COMPRESS_ERROR", "failed to flush compressed content")
	}

	return bytes.NewReader(buf.Bytes()), n, nil
}

// decompressAll inflates a complete zlib stream held in memory. It runs only
// after the content digest has been verified, so failures indicate a
// genuinely malformed compressed payload.
func decompressAll(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, goerrors.Wrap(err, "DECOMPRESS_ERROR", "failed to read compressed content header")
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, goerrors.Wrap(err, "DECOMPRESS_ERROR", "failed to inflate content")
	}
	return out, nil
}
