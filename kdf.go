// kdf.go: legacy key and IV derivation for the container format.
//
// Copyright (c) 2026 Synfold Labs
// SPDX-License-Identifier: Apache-2.0

package cryptainer

import (
	"crypto/md5" // #nosec G501 -- fixed by the container format, see below
)

// DeriveKeyIV derives an AES key and CBC initialization vector from a
// password and a per-file salt using iterative MD5 hashing (the OpenSSL
// EVP_BytesToKey construction with MD5 and one round):
//
//	d_1 = MD5(password || salt)
//	d_n = MD5(d_{n-1} || password || salt)
//
// digests are concatenated until keySize+blockSize bytes are available; the
// first keySize bytes become the key and the next blockSize bytes the IV.
//
// The function is deterministic: the same password and salt always yield the
// same key/IV pair, which is what lets decryption re-derive them from the
// salt stored in the container header.
//
// MD5 here is a format-compatibility requirement carried over from existing
// containers, not a password-hardening function: there is no iteration-count
// cost parameter, and a wrong password is only detected later by the content
// digest check during decryption.
func DeriveKeyIV(password, salt []byte, keySize, blockSize int) (key, iv []byte) {
	need := keySize + blockSize
	derived := make([]byte, 0, need+md5.Size)

	var round []byte
	for len(derived) < need {
		h := md5.New() // #nosec G401
		h.Write(round)
		h.Write(password)
		h.Write(salt)
		round = h.Sum(nil)
		derived = append(derived, round...)
	}

	return derived[:keySize], derived[keySize : keySize+blockSize]
}
