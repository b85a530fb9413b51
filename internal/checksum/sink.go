// Package checksum provides the compound-digest sink the repository writer
// uses to track a metadata file's open (uncompressed) size and checksum
// alongside its compressed size and checksum, in a single write pass.
package checksum

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"

	"github.com/dralley/rpmrepo-metadata"
	"github.com/dralley/rpmrepo-metadata/compression"
)

// NewHash returns a fresh hash.Hash for checksum type t, falling back to
// sha1 for ChecksumSHA1 and any unrecognized value. Exported so callers
// outside this package (e.g. repository.Reader.VerifyChecksums) dispatch on
// the same four algorithms rather than duplicating the switch.
func NewHash(t rpmmd.ChecksumType) hash.Hash {
	switch t {
	case rpmmd.ChecksumMD5:
		return md5.New()
	case rpmmd.ChecksumSHA256:
		return sha256.New()
	case rpmmd.ChecksumSHA512:
		return sha512.New()
	default:
		return sha1.New()
	}
}

type countingWriter struct{ n int64 }

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

// Sink is an io.Writer that fans every byte written to it into the
// compression codec, and tracks both the pre-compression ("open") digest
// and the post-compression ("file") digest and size simultaneously. A
// caller writes the uncompressed document (e.g. a streamed primary.xml) to
// Sink, then calls Finalize to close the compressor and underlying file and
// retrieve the four repomd.xml fields: open-size, open-checksum, size, and
// checksum.
type Sink struct {
	io.Writer

	compressed io.WriteCloser
	file       io.Closer

	openHash  hash.Hash
	openCount *countingWriter
	fileHash  hash.Hash
	fileCount *countingWriter

	finalized bool
	openSize  int64
	openSum   string
	fileSize  int64
	fileSum   string
}

// NewSink opens codec-compressed writer over file and wraps it so every
// byte the caller writes is hashed twice: once before compression and once
// after, under checksum type t.
func NewSink(t rpmmd.ChecksumType, codec compression.Codec, file io.WriteCloser) (*Sink, error) {
	s := &Sink{
		file:      file,
		openHash:  NewHash(t),
		openCount: &countingWriter{},
		fileHash:  NewHash(t),
		fileCount: &countingWriter{},
	}
	fileTee := io.MultiWriter(file, s.fileHash, s.fileCount)
	compressed, err := compression.OpenWriter(codec, fileTee)
	if err != nil {
		return nil, err
	}
	s.compressed = compressed
	s.Writer = io.MultiWriter(compressed, s.openHash, s.openCount)
	return s, nil
}

// Finalize closes the compressor and the underlying file, then returns the
// open size/checksum and the compressed file size/checksum. Safe to call
// more than once; later calls return the first result without error.
func (s *Sink) Finalize() (openSize int64, openChecksum string, fileSize int64, fileChecksum string, err error) {
	if s.finalized {
		return s.openSize, s.openSum, s.fileSize, s.fileSum, nil
	}
	if err = s.compressed.Close(); err != nil {
		return 0, "", 0, "", err
	}
	if err = s.file.Close(); err != nil {
		return 0, "", 0, "", err
	}
	s.finalized = true
	s.openSize = s.openCount.n
	s.openSum = hex.EncodeToString(s.openHash.Sum(nil))
	s.fileSize = s.fileCount.n
	s.fileSum = hex.EncodeToString(s.fileHash.Sum(nil))
	return s.openSize, s.openSum, s.fileSize, s.fileSum, nil
}
