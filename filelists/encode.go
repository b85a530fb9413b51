package filelists

import (
	"io"
	"strconv"

	"github.com/dralley/rpmrepo-metadata"
	"github.com/dralley/rpmrepo-metadata/internal/xmlstream"
)

// Encoder streams <package> elements into filelists.xml.
type Encoder struct {
	e      *xmlstream.Emitter
	closed bool
}

// NewEncoder writes the XML declaration and opening <filelists> root.
func NewEncoder(w io.Writer, totalPackages int) (*Encoder, error) {
	e := xmlstream.NewEmitter(w)
	e.Raw(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	e.StartTag("filelists",
		xmlstream.A("xmlns", namespace),
		xmlstream.A("packages", strconv.Itoa(totalPackages)))
	return &Encoder{e: e}, e.Err()
}

// WriteEntry emits one <package> element from pkgID, nevra, and the full
// file list (unlike primary.xml, filelists.xml carries every file).
func (enc *Encoder) WriteEntry(pkgID string, nevra rpmmd.NEVRA, files []rpmmd.FileEntry) error {
	e := enc.e
	e.StartTag("package",
		xmlstream.A("pkgid", pkgID),
		xmlstream.A("name", nevra.Name),
		xmlstream.A("arch", nevra.Arch))
	e.EmptyTag("version",
		xmlstream.A("epoch", strconv.Itoa(nevra.Epoch)),
		xmlstream.A("ver", nevra.Version),
		xmlstream.A("rel", nevra.Release))
	for _, f := range files {
		if f.Type == rpmmd.FileTypeFile {
			e.TextTag("file", f.Path)
		} else {
			e.TextTag("file", f.Path, xmlstream.A("type", f.Type.String()))
		}
	}
	e.EndTag("package")
	return e.Err()
}

// Close emits the closing </filelists> tag and flushes the writer.
func (enc *Encoder) Close() error {
	if enc.closed {
		return nil
	}
	enc.closed = true
	enc.e.EndTag("filelists")
	return enc.e.Flush()
}
