// compress_test.go: test cases for transparent compression.
//
// Copyright (c) 2026 Synfold Labs
// SPDX-License-Identifier: Apache-2.0

package cryptainer_test

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/synfold/cryptainer"
)

func TestCompressionTransparent(t *testing.T) {
	c := newCrypto(t, "pw")
	content := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog\n", 500))

	container, _ := encryptToBuffer(t, c, content, &cryptainer.FileEntry{Pathname: "fox.txt"}, cryptainer.FlagCompress)
	plain, entry := decryptToBuffer(t, c, container)

	if !bytes.Equal(plain, content) {
		t.Fatal("compressed content must round-trip unchanged")
	}
	if entry.Pathname != "fox.txt" {
		t.Errorf("pathname = %q, want %q", entry.Pathname, "fox.txt")
	}
}

func TestCompressionShrinksCompressibleContent(t *testing.T) {
	c := newCrypto(t, "pw")
	content := []byte(strings.Repeat("compressible ", 2000))

	plainContainer, _ := encryptToBuffer(t, c, content, &cryptainer.FileEntry{Pathname: "f"}, 0)
	compressedContainer, _ := encryptToBuffer(t, c, content, &cryptainer.FileEntry{Pathname: "f"}, cryptainer.FlagCompress)

	if len(compressedContainer) >= len(plainContainer) {
		t.Errorf("compressed container is %d bytes, plain is %d; expected a reduction",
			len(compressedContainer), len(plainContainer))
	}
}

func TestCompressionIncompressibleContent(t *testing.T) {
	c := newCrypto(t, "pw")
	content := make([]byte, 4096)
	if _, err := rand.Read(content); err != nil {
		t.Fatalf("rand.Read: %v", err)
	}

	container, _ := encryptToBuffer(t, c, content, nil, cryptainer.FlagCompress)
	plain, _ := decryptToBuffer(t, c, container)

	if !bytes.Equal(plain, content) {
		t.Fatal("incompressible content must still round-trip")
	}
}

func TestCompressionEmptyContent(t *testing.T) {
	c := newCrypto(t, "pw")

	container, _ := encryptToBuffer(t, c, nil, nil, cryptainer.FlagCompress)
	plain, _ := decryptToBuffer(t, c, container)

	if len(plain) != 0 {
		t.Errorf("empty content came back as %d bytes", len(plain))
	}
}

// A compressed container records the raw plaintext size for a synthesized
// entry, not the compressed intermediate's size.
func TestCompressionSynthesizedSize(t *testing.T) {
	c := newCrypto(t, "pw")
	content := []byte(strings.Repeat("size accounting ", 1000))

	_, entry := encryptToBuffer(t, c, content, nil, cryptainer.FlagCompress)
	if entry.Size != uint64(len(content)) {
		t.Errorf("synthesized size = %d, want %d", entry.Size, len(content))
	}
}
