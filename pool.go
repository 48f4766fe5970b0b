// pool.go: pooled chunk buffers for the streaming cipher loops.
//
// Copyright (c) 2026 Synfold Labs
// SPDX-License-Identifier: Apache-2.0

package cryptainer

import (
	"sync"
)

// The engine moves content in chunks of chunkSize bytes; the final chunk of
// an encryption pass additionally receives up to BlockSize padding bytes, so
// every pooled buffer carries that headroom.
var chunkBufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, chunkSize+BlockSize)
		return &buf
	},
}

// getChunkBuffer retrieves a full-length chunk buffer from the pool.
func getChunkBuffer() *[]byte {
	buf := chunkBufferPool.Get().(*[]byte)
	*buf = (*buf)[:chunkSize+BlockSize]
	return buf
}

// putChunkBuffer scrubs a buffer and returns it to the pool. Buffers hold
// plaintext between cipher operations, so they are zeroized before reuse.
func putChunkBuffer(buf *[]byte) {
	if buf == nil {
		return
	}
	Zeroize((*buf)[:cap(*buf)])
	chunkBufferPool.Put(buf)
}
