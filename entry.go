// entry.go: file metadata record and the 48-byte container footer codec.
//
// Copyright (c) 2026 Synfold Labs
// SPDX-License-Identifier: Apache-2.0

package cryptainer

import (
	"encoding/binary"
)

// FileEntry carries the filesystem metadata that travels inside a container
// alongside the file content. Callers construct one before encryption (Salt
// and Digest may be left empty; the engine fills them) and receive a
// reconstructed one from decryption.
//
// Ctime and Mtime are Unix seconds; the on-disk footer truncates them to
// unsigned 32 bits.
type FileEntry struct {
	// Pathname is the file's path as recorded in the container. Encoded as
	// UTF-8 and truncated to MaxPathname bytes on write.
	Pathname string

	// Size is the plaintext content size in bytes.
	Size uint64

	// Ctime is the creation time in Unix seconds.
	Ctime int64

	// Mtime is the modification time in Unix seconds.
	Mtime int64

	// Mode is the file mode.
	Mode int32

	// Digest is the 16-byte content digest. Filled by the engine during
	// encryption and recovered from the footer during decryption.
	Digest []byte

	// Salt is the per-file random salt mixed into key derivation, always
	// SaltSize bytes. Generated by the engine when absent.
	Salt []byte

	// IsDir is always false for entries produced by this engine; it exists
	// for callers that reuse FileEntry for directory records.
	IsDir bool
}

// Footer layout, 48 bytes total, big-endian multi-byte fields:
//
//	offset  0: digest (16 bytes)
//	offset 16: size   (uint64)
//	offset 24: ctime  (uint32)
//	offset 28: mtime  (uint32)
//	offset 32: mode   (int32)
//	offset 36: reserved, 12 zero bytes
const (
	footerSizeOffset    = 16
	footerCtimeOffset   = 24
	footerMtimeOffset   = 28
	footerModeOffset    = 32
	footerReservedBytes = 12
	footerSize          = footerModeOffset + 4 + footerReservedBytes
)

// packFooter serializes the entry's digest and attributes into the fixed
// 48-byte footer. The trailing 12 bytes stay zero, reserved for future
// fields.
func packFooter(entry *FileEntry) []byte {
	footer := make([]byte, footerSize)
	copy(footer[:DigestSize], entry.Digest)
	binary.BigEndian.PutUint64(footer[footerSizeOffset:], entry.Size)
	binary.BigEndian.PutUint32(footer[footerCtimeOffset:], uint32(entry.Ctime))
	binary.BigEndian.PutUint32(footer[footerMtimeOffset:], uint32(entry.Mtime))
	binary.BigEndian.PutUint32(footer[footerModeOffset:], uint32(entry.Mode))
	return footer
}

// unpackFooter rebuilds a FileEntry from a 48-byte footer. The pathname is
// supplied by the caller because it lives in its own container region. The
// reserved trailing bytes are ignored. The caller guarantees the length.
func unpackFooter(pathname string, footer []byte) *FileEntry {
	digest := make([]byte, DigestSize)
	copy(digest, footer[:DigestSize])
	return &FileEntry{
		Pathname: pathname,
		Size:     binary.BigEndian.Uint64(footer[footerSizeOffset:]),
		Ctime:    int64(binary.BigEndian.Uint32(footer[footerCtimeOffset:])),
		Mtime:    int64(binary.BigEndian.Uint32(footer[footerMtimeOffset:])),
		Mode:     int32(binary.BigEndian.Uint32(footer[footerModeOffset:])),
		Digest:   digest,
	}
}
