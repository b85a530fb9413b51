// Package xmlstream holds the pull-parsing and hand-written emission
// helpers shared by the primary, filelists, and otherdata codecs. Records
// decode via encoding/xml.Decoder.Token() one element at a
// time rather than through xml.Unmarshal, since these documents can run to
// hundreds of thousands of <package> elements and must never be held in
// memory all at once. Records encode via a small hand-written Emitter
// rather than encoding/xml.Marshal, because the wire format forbids
// escaping apostrophes and requires canonical self-closing empty elements,
// neither of which Marshal can produce.
package xmlstream

import (
	"encoding/xml"
	"io"

	"github.com/dralley/rpmrepo-metadata"
)

// Decoder wraps encoding/xml.Decoder with document-relative error
// diagnostics and a UTF8Reader validation layer.
type Decoder struct {
	*xml.Decoder
	document string
}

// NewDecoder builds a Decoder over r, validating UTF-8 as it reads and
// labelling any position it reports with document.
func NewDecoder(r io.Reader, document string) *Decoder {
	return &Decoder{
		Decoder:  xml.NewDecoder(NewUTF8Reader(r, document)),
		document: document,
	}
}

// Wrap reports err as an *rpmmd.InvalidXMLError carrying the decoder's
// current line/column/offset, unless err is nil, io.EOF, or already an
// *rpmmd.InvalidEncodingError (returned unchanged).
func (d *Decoder) Wrap(err error) error {
	if err == nil || err == io.EOF {
		return err
	}
	if _, ok := err.(*rpmmd.InvalidEncodingError); ok {
		return err
	}
	line, col := d.lineCol()
	return &rpmmd.InvalidXMLError{
		Document: d.document,
		Line:     int64(line),
		Column:   int64(col),
		Offset:   d.InputOffset(),
		Err:      err,
	}
}

func (d *Decoder) lineCol() (line, col int) {
	return d.InputPos()
}

// Attr returns the value of the named attribute on start, or "" if absent.
func Attr(start xml.StartElement, local string) string {
	for _, a := range start.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// AttrNS returns the value of the named attribute in the given namespace.
func AttrNS(start xml.StartElement, space, local string) string {
	for _, a := range start.Attr {
		if a.Name.Local == local && a.Name.Space == space {
			return a.Value
		}
	}
	return ""
}
