// files.go: path-level encrypt/decrypt helpers with atomic commit.
//
// Copyright (c) 2026 Synfold Labs
// SPDX-License-Identifier: Apache-2.0

package cryptainer

import (
	"os"

	"github.com/absfs/absfs"
	goerrors "github.com/agilira/go-errors"
	"github.com/google/uuid"
)

// tempName derives a unique sibling name for staging output next to its
// final destination, so the rename that commits it stays on one filesystem.
func tempName(path string) string {
	return path + ".cryptainer-" + uuid.New().String() + ".tmp"
}

// EncryptFile encrypts the file at plainPath on fsys into a container at
// encryptedPath. entry and flags behave as in Encrypt.
//
// The container is staged under a temporary name and renamed into place only
// after encryption succeeds, so encryptedPath never holds a partial
// container. On failure the temporary file is removed.
func (c *Crypto) EncryptFile(fsys absfs.FileSystem, plainPath, encryptedPath string, entry *FileEntry, flags byte) (*FileEntry, error) {
	in, err := fsys.OpenFile(plainPath, os.O_RDONLY, 0)
	if err != nil {
		return nil, goerrors.Wrap(err, "OPEN_ERROR", "failed to open plaintext file")
	}
	defer in.Close()

	return c.commitThrough(fsys, encryptedPath, func(out absfs.File) (*FileEntry, error) {
		return c.Encrypt(in, out, entry, flags)
	})
}

// DecryptFile decrypts the container at encryptedPath on fsys into a
// plaintext file at plainPath, returning the metadata recovered from the
// container.
//
// Like EncryptFile, output is staged under a temporary name and renamed into
// place on success; a wrong password or corrupted container leaves nothing
// at plainPath.
func (c *Crypto) DecryptFile(fsys absfs.FileSystem, encryptedPath, plainPath string) (*FileEntry, error) {
	in, err := fsys.OpenFile(encryptedPath, os.O_RDONLY, 0)
	if err != nil {
		return nil, goerrors.Wrap(err, "OPEN_ERROR", "failed to open container file")
	}
	defer in.Close()

	return c.commitThrough(fsys, plainPath, func(out absfs.File) (*FileEntry, error) {
		return c.Decrypt(in, out)
	})
}

// commitThrough runs op against a freshly created temporary file and renames
// it to dst only if op and the close both succeed.
func (c *Crypto) commitThrough(fsys absfs.FileSystem, dst string, op func(absfs.File) (*FileEntry, error)) (*FileEntry, error) {
	tmp := tempName(dst)
	out, err := fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, goerrors.Wrap(err, "CREATE_ERROR", "failed to create temporary output file")
	}

	entry, err := op(out)
	if err != nil {
		out.Close()
		fsys.Remove(tmp) // #nosec G104 -- best-effort cleanup on the error path
		return nil, err
	}
	if err := out.Close(); err != nil {
		fsys.Remove(tmp) // #nosec G104
		return nil, goerrors.Wrap(err, "CLOSE_ERROR", "failed to close temporary output file")
	}
	if err := fsys.Rename(tmp, dst); err != nil {
		fsys.Remove(tmp) // #nosec G104
		return nil, goerrors.Wrap(err, "RENAME_ERROR", "failed to commit output file")
	}
	return entry, nil
}
