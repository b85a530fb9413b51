package otherdata

import (
	"io"
	"strconv"

	"github.com/dralley/rpmrepo-metadata"
	"github.com/dralley/rpmrepo-metadata/internal/xmlstream"
)

// Encoder streams <package> elements into other.xml.
type Encoder struct {
	e      *xmlstream.Emitter
	closed bool
}

// NewEncoder writes the XML declaration and opening <otherdata> root.
func NewEncoder(w io.Writer, totalPackages int) (*Encoder, error) {
	e := xmlstream.NewEmitter(w)
	e.Raw(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	e.StartTag("otherdata",
		xmlstream.A("xmlns", namespace),
		xmlstream.A("packages", strconv.Itoa(totalPackages)))
	return &Encoder{e: e}, e.Err()
}

// WriteEntry emits one <package> element with its changelog, in source order.
func (enc *Encoder) WriteEntry(pkgID string, nevra rpmmd.NEVRA, changelog []rpmmd.ChangelogEntry) error {
	e := enc.e
	e.StartTag("package",
		xmlstream.A("pkgid", pkgID),
		xmlstream.A("name", nevra.Name),
		xmlstream.A("arch", nevra.Arch))
	e.EmptyTag("version",
		xmlstream.A("epoch", strconv.Itoa(nevra.Epoch)),
		xmlstream.A("ver", nevra.Version),
		xmlstream.A("rel", nevra.Release))
	for _, c := range changelog {
		e.TextTag("changelog", c.Text,
			xmlstream.A("author", c.Author),
			xmlstream.A("date", strconv.FormatInt(c.Date, 10)))
	}
	e.EndTag("package")
	return e.Err()
}

// Close emits the closing </otherdata> tag and flushes the writer.
func (enc *Encoder) Close() error {
	if enc.closed {
		return nil
	}
	enc.closed = true
	enc.e.EndTag("otherdata")
	return enc.e.Flush()
}
