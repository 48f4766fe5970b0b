// keyutil.go: salt generation and zeroization utilities.
//
// Copyright (c) 2026 Synfold Labs
// SPDX-License-Identifier: Apache-2.0

package cryptainer

import (
	"crypto/rand"
	"io"

	goerrors "github.com/agilira/go-errors"
)

// GenerateSalt generates a cryptographically secure random salt of SaltSize
// bytes, the per-file value mixed into key derivation so identical passwords
// yield different keys per file.
//
// Encrypt calls this automatically when the supplied FileEntry carries no
// salt; it is exported for callers that pre-assign salts to entries.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, goerrors.Wrap(err, "SALT_GEN_ERROR", "failed to generate salt")
	}
	return salt, nil
}

// Zeroize securely wipes a byte slice in place.
//
// Use it to scrub derived keys, IVs, or password copies once they are no
// longer needed. The engine uses it internally on pooled buffers before they
// are returned for reuse.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
