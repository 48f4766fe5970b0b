// container.go: streaming encryption and decryption of the file container.
//
// Copyright (c) 2026 Synfold Labs
// SPDX-License-Identifier: Apache-2.0

package cryptainer

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5" // #nosec G501 -- content digest fixed by the container format
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	goerrors "github.com/agilira/go-errors"
	"github.com/agilira/go-timecache"
)

const (
	// FormatVersion is the container version this engine writes. Readers
	// accept any container whose version byte is less than or equal to it.
	FormatVersion byte = 0x1

	// FlagCompress is bit 0 of the header flags byte: when set, the content
	// was zlib-compressed before encryption.
	FlagCompress byte = 0x1

	// BlockSize is the AES block size; every cipher-protected region of the
	// container is a multiple of it.
	BlockSize = aes.BlockSize

	// DefaultKeySize selects AES-256.
	DefaultKeySize = 32

	// SaltSize is the per-file salt length: the salt shares the 16-byte
	// plaintext header with version, flags, and the pathname length.
	SaltSize = BlockSize - 4

	// DigestSize is the length of the content digest stored in the footer.
	DigestSize = md5.Size

	// MaxPathname is the longest pathname, in encoded bytes, a container
	// can record; longer names are truncated on write.
	MaxPathname = 1<<16 - 1

	// bufferBlocks fixes the streaming chunk size at 1024 cipher blocks
	// (16 KiB), the engine's bounded-memory unit for content of any size.
	bufferBlocks = 1024
	chunkSize    = bufferBlocks * BlockSize
)

// Crypto encrypts plaintext streams into self-describing containers and
// decrypts them back, verifying integrity along the way.
//
// A Crypto holds no state between calls: each Encrypt or Decrypt owns its
// own cipher context, digest accumulator, and buffers, so a single value may
// be shared across goroutines processing independent streams.
//
// Container layout (all regions after the first 16 bytes are encrypted with
// AES-CBC under a key and IV derived from password and salt):
//
//	+-----------------------------------------------------+
//	| Version(1) | Flags(1) | Pathname size(2) | Salt(12) |
//	+-----------------------------------------------------+
//	|            Encrypted pathname (zero-padded)         |
//	+-----------------------------------------------------+
//	|            Encrypted content (value-padded)         |
//	|                        ...                          |
//	+-----------------------------------------------------+
//	|            Encrypted footer (48 bytes)              |
//	+-----------------------------------------------------+
//
// Integrity relies on the digest embedded in the footer, not on an
// authenticated cipher mode; this is a compatibility constraint of the
// format. See ErrDigestMismatch.
type Crypto struct {
	password []byte
	keySize  int
}

// New creates an engine for the given password with the default AES-256 key
// size. The password's UTF-8 bytes feed key derivation.
//
// An empty password is rejected with ErrInvalidKey: it would silently
// produce containers any empty-password reader could open.
func New(password string) (*Crypto, error) {
	return NewWithKeySize(password, DefaultKeySize)
}

// NewWithKeySize creates an engine with an explicit AES key size of 16, 24,
// or 32 bytes. Containers written with one key size can only be read with
// the same key size, since the derived key split depends on it.
func NewWithKeySize(password string, keySize int) (*Crypto, error) {
	if password == "" {
		return nil, goerrors.Wrap(ErrInvalidKey, "EMPTY_PASSWORD", "password cannot be empty")
	}
	switch keySize {
	case 16, 24, 32:
	default:
		return nil, goerrors.Wrap(ErrInvalidKey, "INVALID_KEY_SIZE",
			fmt.Sprintf("key size must be 16, 24, or 32 bytes, got %d", keySize))
	}
	return &Crypto{password: []byte(password), keySize: keySize}, nil
}

// Encrypt reads plaintext from r and writes a complete container to w.
//
// entry supplies the metadata recorded in the container; nil synthesizes a
// placeholder entry with the current time. When the entry carries no salt, a
// fresh random one is generated. The entry is mutated in place: Salt and
// Digest are always engine-filled, and a synthesized entry additionally gets
// Size set to the number of plaintext bytes consumed. The (possibly
// synthesized) entry is returned.
//
// flags is the header flags byte; pass FlagCompress to zlib-compress the
// content before encryption. Compression stages the whole compressed stream
// in memory first; content otherwise streams through in fixed 16 KiB chunks.
//
// On error the container written so far is not rolled back; callers wanting
// atomicity should write to a temporary destination and rename on success,
// as EncryptFile does.
func (c *Crypto) Encrypt(r io.Reader, w io.Writer, entry *FileEntry, flags byte) (*FileEntry, error) {
	synthesized := entry == nil
	if synthesized {
		now := timecache.CachedTime().UTC().Unix()
		entry = &FileEntry{Pathname: ".tmp", Ctime: now, Mtime: now}
	}
	if len(entry.Salt) == 0 {
		salt, err := GenerateSalt()
		if err != nil {
			return nil, err
		}
		entry.Salt = salt
	} else if len(entry.Salt) != SaltSize {
		return nil, goerrors.Wrap(ErrInvalidKey, "INVALID_SALT_SIZE",
			fmt.Sprintf("salt must be %d bytes, got %d", SaltSize, len(entry.Salt)))
	}

	key, iv := DeriveKeyIV(c.password, entry.Salt, c.keySize, BlockSize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, goerrors.Wrap(err, "CIPHER_INIT_ERROR", "failed to create AES cipher")
	}
	Zeroize(key)
	enc := cipher.NewCBCEncrypter(block, iv)

	if err := c.writeHeader(w, enc, entry, flags); err != nil {
		return nil, err
	}

	src := io.Reader(r)
	var rawSize int64
	if flags&FlagCompress != 0 {
		compressed, n, err := compressAll(r)
		if err != nil {
			return nil, err
		}
		src = compressed
		rawSize = n
	}

	digest := md5.New() // #nosec G401
	buf := getChunkBuffer()
	defer putChunkBuffer(buf)

	for {
		n, err := io.ReadFull(src, (*buf)[:chunkSize])
		final := false
		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			final = true
		default:
			return nil, goerrors.Wrap(err, "READ_ERROR", "failed to read plaintext content")
		}

		digest.Write((*buf)[:n])
		if flags&FlagCompress == 0 {
			rawSize += int64(n)
		}

		chunk := (*buf)[:n]
		if final {
			// Trailing padding carries the pad length in every pad byte and
			// is always at least one byte, so removal is unambiguous even
			// when the content is already block-aligned.
			pad := BlockSize - n%BlockSize
			chunk = (*buf)[:n+pad]
			for i := n; i < n+pad; i++ {
				chunk[i] = byte(pad)
			}
		}

		enc.CryptBlocks(chunk, chunk)
		if _, err := w.Write(chunk); err != nil {
			return nil, goerrors.Wrap(err, "WRITE_ERROR", "failed to write encrypted content")
		}
		if final {
			break
		}
	}

	entry.Digest = digest.Sum(nil)
	if synthesized {
		entry.Size = uint64(rawSize)
	}

	footer := packFooter(entry)
	enc.CryptBlocks(footer, footer)
	if _, err := w.Write(footer); err != nil {
		return nil, goerrors.Wrap(err, "WRITE_ERROR", "failed to write encrypted footer")
	}

	return entry, nil
}

// writeHeader emits the 16-byte plaintext header followed by the encrypted,
// zero-padded pathname region. A zero-length pathname produces an empty
// region.
func (c *Crypto) writeHeader(w io.Writer, enc cipher.BlockMode, entry *FileEntry, flags byte) error {
	name := []byte(entry.Pathname)
	if len(name) > MaxPathname {
		name = name[:MaxPathname]
	}

	header := make([]byte, 4, BlockSize)
	header[0] = FormatVersion
	header[1] = flags
	binary.BigEndian.PutUint16(header[2:4], uint16(len(name)))
	header = append(header, entry.Salt...)
	if _, err := w.Write(header); err != nil {
		return goerrors.Wrap(err, "WRITE_ERROR", "failed to write container header")
	}

	if len(name) == 0 {
		return nil
	}
	padded := make([]byte, roundUpToBlock(len(name)))
	copy(padded, name)
	enc.CryptBlocks(padded, padded)
	if _, err := w.Write(padded); err != nil {
		return goerrors.Wrap(err, "WRITE_ERROR", "failed to write encrypted pathname")
	}
	return nil
}

// Decrypt reads a complete container from r, writes the recovered plaintext
// to w, and returns the metadata reconstructed from the header and footer.
//
// Parameters are discovered from the container itself: version and flags
// from the header, key and IV re-derived from the password and the stored
// salt. The plaintext is fully reassembled and its digest verified before
// anything is written to w, so a wrong password or corrupted container
// (ErrDigestMismatch) leaves the sink untouched.
func (c *Crypto) Decrypt(r io.Reader, w io.Writer) (*FileEntry, error) {
	header := make([]byte, BlockSize)
	if n, err := io.ReadFull(r, header); err != nil {
		return nil, goerrors.Wrap(ErrUnrecognizedContent, "UNRECOGNIZED_CONTENT",
			fmt.Sprintf("header is %d bytes, want %d", n, BlockSize))
	}

	if header[0] > FormatVersion {
		return nil, goerrors.Wrap(ErrVersionNotCompatible, "VERSION_NOT_COMPATIBLE",
			fmt.Sprintf("container version %d exceeds supported version %d", header[0], FormatVersion))
	}
	flags := header[1]
	nameLen := int(binary.BigEndian.Uint16(header[2:4]))
	salt := make([]byte, SaltSize)
	copy(salt, header[4:])

	key, iv := DeriveKeyIV(c.password, salt, c.keySize, BlockSize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, goerrors.Wrap(err, "CIPHER_INIT_ERROR", "failed to create AES cipher")
	}
	Zeroize(key)
	dec := cipher.NewCBCDecrypter(block, iv)

	pathname, err := c.readPathname(r, dec, nameLen)
	if err != nil {
		return nil, err
	}

	assembled, err := c.decryptContent(r, dec)
	if err != nil {
		return nil, err
	}

	// The footer occupies the last 48 decrypted bytes; the byte before it
	// holds the pad length. Both are located on the fully reassembled
	// buffer, so they decode correctly even when they straddle a chunk
	// boundary.
	if assembled.Len() < footerSize+1 {
		return nil, goerrors.Wrap(ErrUnrecognizedContent, "UNRECOGNIZED_CONTENT",
			fmt.Sprintf("decrypted content is %d bytes, too short for padding and footer", assembled.Len()))
	}
	data := assembled.Bytes()
	entry := unpackFooter(pathname, data[len(data)-footerSize:])
	entry.Salt = salt

	strip := int(data[len(data)-footerSize-1]) + footerSize
	if strip > len(data) {
		// A pad byte outside 1..BlockSize means garbage plaintext (wrong
		// password or corruption); clamp and let the digest check report it.
		strip = len(data)
	}
	content := data[:len(data)-strip]

	sum := md5.Sum(content) // #nosec G401
	if !bytes.Equal(entry.Digest, sum[:]) {
		return nil, goerrors.Wrap(ErrDigestMismatch, "DIGEST_MISMATCH",
			"content digest does not match: wrong password or corrupted container")
	}

	if flags&FlagCompress != 0 {
		content, err = decompressAll(content)
		if err != nil {
			return nil, err
		}
	}

	if _, err := w.Write(content); err != nil {
		return nil, goerrors.Wrap(err, "WRITE_ERROR", "failed to write plaintext content")
	}
	return entry, nil
}

// readPathname consumes and decrypts the pathname region. The region length
// is the declared pathname length rounded up to a block multiple; zero
// declared length means no region at all.
func (c *Crypto) readPathname(r io.Reader, dec cipher.BlockMode, nameLen int) (string, error) {
	blockLen := roundUpToBlock(nameLen)
	if blockLen == 0 {
		return "", nil
	}
	buf := make([]byte, blockLen)
	if n, err := io.ReadFull(r, buf); err != nil {
		return "", goerrors.Wrap(ErrUnrecognizedContent, "UNRECOGNIZED_CONTENT",
			fmt.Sprintf("pathname region is %d bytes, want %d", n, blockLen))
	}
	dec.CryptBlocks(buf, buf)
	return string(buf[:nameLen]), nil
}

// decryptContent streams the remaining ciphertext through the cipher with a
// two-slot pipeline: the current chunk is only buffered while the previous
// one is decrypted, so the loop always knows whether the chunk it just
// decrypted was the last before end of stream. All plaintext accumulates in
// the returned buffer; padding and footer are still attached.
func (c *Crypto) decryptContent(r io.Reader, dec cipher.BlockMode) (*bytes.Buffer, error) {
	prevBuf := getChunkBuffer()
	defer putChunkBuffer(prevBuf)
	pendingBuf := getChunkBuffer()
	defer putChunkBuffer(pendingBuf)

	var assembled bytes.Buffer
	prev := (*prevBuf)[:0]

	for {
		n, err := io.ReadFull(r, (*pendingBuf)[:chunkSize])
		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		default:
			return nil, goerrors.Wrap(err, "READ_ERROR", "failed to read encrypted content")
		}
		if n%BlockSize != 0 {
			return nil, goerrors.Wrap(ErrUnrecognizedContent, "UNRECOGNIZED_CONTENT",
				fmt.Sprintf("content region length %d is not a multiple of the cipher block size", n))
		}

		if len(prev) > 0 {
			dec.CryptBlocks(prev, prev)
			assembled.Write(prev)
		}
		if n == 0 {
			return &assembled, nil
		}

		prevBuf, pendingBuf = pendingBuf, prevBuf
		prev = (*prevBuf)[:n]
	}
}

// roundUpToBlock rounds n up to the next multiple of the cipher block size.
func roundUpToBlock(n int) int {
	if n%BlockSize == 0 {
		return n
	}
	return (n/BlockSize + 1) * BlockSize
}
