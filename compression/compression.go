// Package compression wraps the handful of envelope formats repomd.xml
// records can declare for the metadata files it indexes: gzip, xz, zstd,
// bzip2 (read-only), and none. zchunk and bzip2-write are recognized but
// return rpmmd.UnsupportedCompressionError since no library in the
// ecosystem this module draws from implements them.
package compression

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/dralley/rpmrepo-metadata"
)

// Codec identifies a compression envelope.
type Codec int

const (
	None Codec = iota
	Gzip
	Bzip2
	Xz
	Zstd
	Zchunk
)

// String returns the codec's repomd.xml type suffix, e.g. "gz" for Gzip.
func (c Codec) String() string {
	switch c {
	case Gzip:
		return "gz"
	case Bzip2:
		return "bz2"
	case Xz:
		return "xz"
	case Zstd:
		return "zst"
	case Zchunk:
		return "zck"
	default:
		return ""
	}
}

// Extension returns the filename suffix (including the dot) this codec
// appends, e.g. ".gz". None returns "".
func (c Codec) Extension() string {
	if c == None {
		return ""
	}
	return "." + c.String()
}

// DetectByExtension maps a filename suffix to a Codec. It returns
// (None, false) if the suffix is not recognized as a compression
// extension at all (as opposed to being recognized and equal to None).
func DetectByExtension(filename string) (Codec, bool) {
	switch {
	case hasSuffix(filename, ".gz"):
		return Gzip, true
	case hasSuffix(filename, ".bz2"):
		return Bzip2, true
	case hasSuffix(filename, ".xz"):
		return Xz, true
	case hasSuffix(filename, ".zst"):
		return Zstd, true
	case hasSuffix(filename, ".zck"):
		return Zchunk, true
	default:
		return None, false
	}
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicBzip2 = []byte{'B', 'Z', 'h'}
	magicXz    = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	magicZstd  = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicZck   = []byte{0x5c, 0x1a, 0x04, 0x02}
)

// DetectByMagic peeks at the front of r and returns the codec its leading
// bytes identify, wrapping the returned reader so none of the peeked bytes
// are lost to the caller. Used when a metadata file's compression is not
// evident from its filename (e.g. a bare stream piped from elsewhere).
func DetectByMagic(r io.Reader) (Codec, io.Reader, error) {
	br := bufio.NewReader(r)
	header, err := br.Peek(6)
	if err != nil && err != io.EOF {
		return None, br, err
	}
	switch {
	case bytes.HasPrefix(header, magicGzip):
		return Gzip, br, nil
	case bytes.HasPrefix(header, magicBzip2):
		return Bzip2, br, nil
	case bytes.HasPrefix(header, magicXz):
		return Xz, br, nil
	case bytes.HasPrefix(header, magicZstd):
		return Zstd, br, nil
	case bytes.HasPrefix(header, magicZck):
		return Zchunk, br, nil
	default:
		return None, br, nil
	}
}

// zstdReader adapts *zstd.Decoder to io.ReadCloser; the klauspost decoder's
// Close method returns no error.
type zstdReader struct {
	*zstd.Decoder
}

func (z zstdReader) Close() error {
	z.Decoder.Close()
	return nil
}

// OpenReader wraps r with a decompressing reader for the given codec.
func OpenReader(c Codec, r io.Reader) (io.ReadCloser, error) {
	switch c {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case Bzip2:
		return io.NopCloser(bzip2.NewReader(r)), nil
	case Xz:
		xr, err := xz.NewReader(bufio.NewReader(r))
		if err != nil {
			return nil, err
		}
		return io.NopCloser(xr), nil
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zstdReader{zr}, nil
	case Zchunk:
		return nil, &rpmmd.UnsupportedCompressionError{Codec: "zchunk", Op: "read"}
	default:
		return nil, &rpmmd.UnsupportedCompressionError{Codec: "unknown", Op: "read"}
	}
}

// OpenWriter wraps w with a compressing writer for the given codec. The
// caller must Close the returned writer to flush trailers before closing w
// itself.
func OpenWriter(c Codec, w io.Writer) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	case Xz:
		return xz.NewWriter(w)
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case Bzip2:
		return nil, &rpmmd.UnsupportedCompressionError{Codec: "bzip2", Op: "write"}
	case Zchunk:
		return nil, &rpmmd.UnsupportedCompressionError{Codec: "zchunk", Op: "write"}
	default:
		return nil, &rpmmd.UnsupportedCompressionError{Codec: "unknown", Op: "write"}
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
