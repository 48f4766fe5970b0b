// pool_test.go: test cases for the chunk buffer pool.
//
// Copyright (c) 2026 Synfold Labs
// SPDX-License-Identifier: Apache-2.0

package cryptainer

import (
	"testing"
)

func TestChunkBufferSize(t *testing.T) {
	buf := getChunkBuffer()
	defer putChunkBuffer(buf)

	if len(*buf) != chunkSize+BlockSize {
		t.Errorf("buffer is %d bytes, want %d", len(*buf), chunkSize+BlockSize)
	}
}

func TestPutChunkBufferScrubs(t *testing.T) {
	buf := getChunkBuffer()
	(*buf)[0] = 0xAA
	(*buf)[chunkSize] = 0xBB
	putChunkBuffer(buf)

	// The pointer stays valid after Put; the contents must be scrubbed.
	for i, b := range *buf {
		if b != 0 {
			t.Fatalf("byte %d = %#x after put, want 0", i, b)
		}
	}
}

func TestPutChunkBufferNil(t *testing.T) {
	putChunkBuffer(nil) // must not panic
}

func TestChunkBufferReuse(t *testing.T) {
	for i := 0; i < 100; i++ {
		buf := getChunkBuffer()
		(*buf)[i] = byte(i)
		putChunkBuffer(buf)
	}
}
