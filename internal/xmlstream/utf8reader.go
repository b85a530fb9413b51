package xmlstream

import (
	"io"
	"unicode/utf8"

	"github.com/dralley/rpmrepo-metadata"
)

// UTF8Reader validates that every byte read through it belongs to a
// well-formed UTF-8 sequence, returning an *rpmmd.InvalidEncodingError the
// first time it finds otherwise. It is deliberately conservative at chunk
// boundaries: a rune that happens to straddle two Read calls is not
// flagged until the bytes completing it have actually arrived, by holding
// back the trailing utf8.UTFMax-1 bytes of every non-final read (extended
// back to the start of the rune they cut into) and validating them together
// with the next call's bytes. Read expects p to be longer than that
// held-back tail.
type UTF8Reader struct {
	r        io.Reader
	document string
	offset   int64
	pending  []byte // unvalidated trailing bytes held back from the previous Read
}

// NewUTF8Reader wraps r, labelling any error it reports with document (the
// logical filename, used only for diagnostics).
func NewUTF8Reader(r io.Reader, document string) *UTF8Reader {
	return &UTF8Reader{r: r, document: document}
}

func (u *UTF8Reader) Read(p []byte) (int, error) {
	// Bytes held back last time go first, to be validated with this read.
	held := copy(p, u.pending)
	u.pending = u.pending[:0]
	n, err := u.r.Read(p[held:])
	n += held
	if n == 0 {
		return n, err
	}
	chunk := p[:n]

	validateTo := n
	holdBack := 0
	if err == nil {
		// More data may follow; don't judge the last few bytes yet in
		// case they're the head of a multi-byte rune split by this Read.
		if n > utf8.UTFMax {
			holdBack = utf8.UTFMax - 1
			validateTo = n - holdBack
			for validateTo > 0 && holdBack < 2*(utf8.UTFMax-1) && !utf8.RuneStart(chunk[validateTo]) {
				validateTo--
				holdBack++
			}
		} else {
			validateTo = 0
			holdBack = n
		}
	}

	if validateTo > 0 {
		if !utf8.Valid(chunk[:validateTo]) {
			return 0, &rpmmd.InvalidEncodingError{Document: u.document, Offset: u.offset}
		}
		u.offset += int64(validateTo)
	}
	if holdBack > 0 && err != nil {
		// EOF or other terminal error with undigested tail: validate it now,
		// there's no more data coming to complete a split rune.
		if !utf8.Valid(chunk[validateTo:]) {
			return 0, &rpmmd.InvalidEncodingError{Document: u.document, Offset: u.offset}
		}
		u.offset += int64(holdBack)
		holdBack = 0
	}
	if holdBack > 0 {
		u.pending = append(u.pending[:0], chunk[validateTo:]...)
		return validateTo, nil
	}
	return n, err
}
