// batch.go: bounded-parallel processing of independent files.
//
// Copyright (c) 2026 Synfold Labs
// SPDX-License-Identifier: Apache-2.0

package cryptainer

import (
	"runtime"

	"github.com/absfs/absfs"
	"golang.org/x/sync/errgroup"
)

// FilePair names one plaintext/container path pair for batch processing.
type FilePair struct {
	PlainPath     string
	EncryptedPath string
}

// BatchResult reports the outcome for one pair. Entry is nil when Err is
// set.
type BatchResult struct {
	Pair  FilePair
	Entry *FileEntry
	Err   error
}

// EncryptFiles encrypts every pair with at most parallel workers (GOMAXPROCS
// when parallel <= 0). Each file is processed by an independent Encrypt
// call, so no state is shared between workers.
//
// Results are returned in pair order, one per input, including failed ones;
// the error is the first failure encountered, nil if all pairs succeeded.
func (c *Crypto) EncryptFiles(fsys absfs.FileSystem, pairs []FilePair, flags byte, parallel int) ([]BatchResult, error) {
	return c.processFiles(pairs, parallel, func(p FilePair) (*FileEntry, error) {
		return c.EncryptFile(fsys, p.PlainPath, p.EncryptedPath, nil, flags)
	})
}

// DecryptFiles decrypts every pair with at most parallel workers, mirroring
// EncryptFiles.
func (c *Crypto) DecryptFiles(fsys absfs.FileSystem, pairs []FilePair, parallel int) ([]BatchResult, error) {
	return c.processFiles(pairs, parallel, func(p FilePair) (*FileEntry, error) {
		return c.DecryptFile(fsys, p.EncryptedPath, p.PlainPath)
	})
}

func (c *Crypto) processFiles(pairs []FilePair, parallel int, op func(FilePair) (*FileEntry, error)) ([]BatchResult, error) {
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}

	results := make([]BatchResult, len(pairs))
	group := errgroup.Group{}
	group.SetLimit(parallel)

	for i, pair := range pairs {
		group.Go(func() error {
			entry, err := op(pair)
			results[i] = BatchResult{Pair: pair, Entry: entry, Err: err}
			return err
		})
	}

	err := group.Wait()
	return results, err
}
