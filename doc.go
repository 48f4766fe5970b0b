// doc.go: package documentation for cryptainer.
//
// Copyright (c) 2026 Synfold Labs
// SPDX-License-Identifier: Apache-2.0

// Package cryptainer implements a streaming file encryption engine that
// wraps plaintext content together with its filesystem metadata (pathname,
// size, timestamps, mode) into a single self-describing encrypted container,
// and reverses the transformation while verifying integrity.
//
// # Container format
//
// A container is an ordered byte sequence with five regions; everything
// after the first 16 bytes is encrypted with AES-CBC:
//
//	+-----------------------------------------------------+
//	| Version(1) | Flags(1) | Pathname size(2) | Salt(12) |
//	+-----------------------------------------------------+
//	|         Encrypted pathname, zero-padded             |
//	+-----------------------------------------------------+
//	|         Encrypted content, value-padded             |
//	|                        ...                          |
//	+-----------------------------------------------------+
//	|         Encrypted footer: digest(16), size(8),      |
//	|         ctime(4), mtime(4), mode(4), reserved(12)   |
//	+-----------------------------------------------------+
//
// Multi-byte integers are big-endian. The key and IV are derived from the
// password and the per-file salt with a deterministic legacy derivation
// (DeriveKeyIV), so decryption discovers everything it needs from the
// container itself. Bit 0 of the flags byte (FlagCompress) marks content
// that was zlib-compressed before encryption; decryption transparently
// decompresses it.
//
// Content streams through the cipher in 16 KiB chunks, so encryption memory
// use is bounded regardless of input size. Decryption buffers the
// reassembled plaintext (and, when compressed, the compressed intermediate)
// before emission, a bounded-by-content-size cost of the format's trailing
// footer.
//
// # Usage
//
//	c, err := cryptainer.New("correct horse battery staple")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	entry := &cryptainer.FileEntry{Pathname: "notes/todo.txt", Size: 1234}
//	entry, err = c.Encrypt(plainReader, containerWriter, entry, 0)
//
//	recovered, err := c.Decrypt(containerReader, plainWriter)
//
// Path-level helpers (EncryptFile, DecryptFile) stage output in a temporary
// file and rename it into place on success; EncryptFiles and DecryptFiles
// process independent files in parallel.
//
// # Integrity model
//
// The format predates authenticated encryption and relies on an MD5 content
// digest embedded in the encrypted footer: decryption recomputes the digest
// and fails with ErrDigestMismatch when it disagrees, which is how both
// wrong passwords and corrupted containers surface. This detects accidental
// corruption and wrong keys but is not a defense against chosen-ciphertext
// tampering; the weaker model is preserved for compatibility with existing
// containers and must not be upgraded without a new version byte.
//
// Nothing is written to the plaintext sink until the digest check passes.
package cryptainer
