// errors.go: error taxonomy for container encryption and decryption.
//
// Copyright (c) 2026 Synfold Labs
// SPDX-License-Identifier: Apache-2.0

package cryptainer

import (
	"errors"
)

// Public standard errors for drop-in compatibility.
// These errors can be used with errors.Is() for error checking; the values
// returned by Encrypt/Decrypt wrap them with additional context.
var (
	// ErrUnrecognizedContent is returned when a container is truncated or is
	// not container data at all: the header or pathname region is shorter
	// than required, or the content region is missing or misaligned.
	ErrUnrecognizedContent = errors.New("cryptainer: unrecognized content")

	// ErrVersionNotCompatible is returned when the container's version byte
	// exceeds the version this engine understands. Readers accept any
	// version up to their own; newer containers need a newer engine.
	ErrVersionNotCompatible = errors.New("cryptainer: version not compatible")

	// ErrDigestMismatch is returned when the recomputed content digest
	// disagrees with the digest stored in the footer. This means either a
	// wrong password or corrupted/tampered content.
	ErrDigestMismatch = errors.New("cryptainer: content digest mismatch")

	// ErrInvalidKey is returned for password and key-size policy failures,
	// such as an empty password or an unsupported AES key size.
	ErrInvalidKey = errors.New("cryptainer: invalid key")
)

// IsUnrecognizedContent reports whether err signals truncated or
// non-container input.
func IsUnrecognizedContent(err error) bool {
	return errors.Is(err, ErrUnrecognizedContent)
}

// IsVersionNotCompatible reports whether err signals a container newer than
// this engine.
func IsVersionNotCompatible(err error) bool {
	return errors.Is(err, ErrVersionNotCompatible)
}

// IsDigestMismatch reports whether err signals a failed integrity check.
func IsDigestMismatch(err error) bool {
	return errors.Is(err, ErrDigestMismatch)
}

// IsInvalidKey reports whether err signals a password or key policy failure.
func IsInvalidKey(err error) bool {
	return errors.Is(err, ErrInvalidKey)
}
