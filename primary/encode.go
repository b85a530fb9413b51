package primary

import (
	"io"
	"strconv"

	"github.com/dralley/rpmrepo-metadata"
	"github.com/dralley/rpmrepo-metadata/internal/xmlstream"
)

// Encoder streams <package> elements into primary.xml, one at a time.
// Callers must call Close after the last WritePackage to emit the closing
// root tag and flush the underlying writer.
type Encoder struct {
	e      *xmlstream.Emitter
	closed bool
}

// NewEncoder writes the XML declaration and opening <metadata> root with
// the given total package count, then returns an Encoder ready for
// WritePackage calls.
func NewEncoder(w io.Writer, totalPackages int) (*Encoder, error) {
	e := xmlstream.NewEmitter(w)
	e.Raw(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	e.StartTag("metadata",
		xmlstream.A("xmlns", commonNS),
		xmlstream.A("xmlns:rpm", rpmNS),
		xmlstream.A("packages", strconv.Itoa(totalPackages)))
	return &Encoder{e: e}, e.Err()
}

// WritePackage emits one <package type="rpm"> element.
func (enc *Encoder) WritePackage(p rpmmd.Package) error {
	e := enc.e
	e.StartTag("package", xmlstream.A("type", "rpm"))
	e.TextTag("name", p.NEVRA.Name)
	e.TextTag("arch", p.NEVRA.Arch)
	e.EmptyTag("version",
		xmlstream.A("epoch", strconv.Itoa(p.NEVRA.Epoch)),
		xmlstream.A("ver", p.NEVRA.Version),
		xmlstream.A("rel", p.NEVRA.Release))
	e.StartTag("checksum", xmlstream.A("type", p.ChecksumType.String()), xmlstream.A("pkgid", "YES"))
	e.Text(p.PkgID)
	e.EndTag("checksum")
	e.TextTag("summary", p.Summary)
	e.TextTag("description", p.Description)
	e.TextTag("packager", p.Packager)
	e.TextTag("url", p.URL)
	e.EmptyTag("time",
		xmlstream.A("file", strconv.FormatInt(p.Time.File, 10)),
		xmlstream.A("build", strconv.FormatInt(p.Time.Build, 10)))
	e.EmptyTag("size",
		xmlstream.A("package", strconv.FormatInt(p.Size.Package, 10)),
		xmlstream.A("installed", strconv.FormatInt(p.Size.Installed, 10)),
		xmlstream.A("archive", strconv.FormatInt(p.Size.Archive, 10)))

	locAttrs := []xmlstream.Attribute{xmlstream.A("href", p.Location.Href)}
	if p.Location.Base != "" {
		locAttrs = append(locAttrs, xmlstream.A("xml:base", p.Location.Base))
	}
	e.EmptyTag("location", locAttrs...)

	e.StartTag("format")
	e.TextTag("rpm:license", p.License)
	e.TextTag("rpm:vendor", p.Vendor)
	e.TextTag("rpm:group", p.Group)
	e.TextTag("rpm:buildhost", p.BuildHost)
	e.TextTag("rpm:sourcerpm", p.SourceRPM)
	e.EmptyTag("rpm:header-range",
		xmlstream.A("start", strconv.FormatInt(p.HeaderRange.Start, 10)),
		xmlstream.A("end", strconv.FormatInt(p.HeaderRange.End, 10)))

	writeDepList(e, "rpm:provides", p.Provides)
	writeDepList(e, "rpm:requires", p.Requires)
	writeDepList(e, "rpm:conflicts", p.Conflicts)
	writeDepList(e, "rpm:obsoletes", p.Obsoletes)
	writeDepList(e, "rpm:suggests", p.Suggests)
	writeDepList(e, "rpm:recommends", p.Recommends)
	writeDepList(e, "rpm:supplements", p.Supplements)
	writeDepList(e, "rpm:enhances", p.Enhances)

	for _, f := range p.Files {
		if !primaryFileAllowed(f) {
			continue
		}
		if f.Type == rpmmd.FileTypeFile {
			e.TextTag("file", f.Path)
		} else {
			e.TextTag("file", f.Path, xmlstream.A("type", f.Type.String()))
		}
	}

	e.EndTag("format")
	e.EndTag("package")
	return e.Err()
}

func writeDepList(e *xmlstream.Emitter, tag string, deps []rpmmd.Dependency) {
	if len(deps) == 0 {
		return
	}
	e.StartTag(tag)
	for _, d := range deps {
		attrs := []xmlstream.Attribute{xmlstream.A("name", d.Name)}
		if d.Flag != rpmmd.FlagNone {
			attrs = append(attrs,
				xmlstream.A("flags", d.Flag.String()),
				xmlstream.A("epoch", strconv.Itoa(d.Epoch)),
				xmlstream.A("ver", d.Version))
			if d.Release != "" {
				attrs = append(attrs, xmlstream.A("rel", d.Release))
			}
		}
		if d.Pre {
			attrs = append(attrs, xmlstream.A("pre", "1"))
		}
		e.EmptyTag("rpm:entry", attrs...)
	}
	e.EndTag(tag)
}

// Close emits the closing </metadata> tag and flushes the writer.
func (enc *Encoder) Close() error {
	if enc.closed {
		return nil
	}
	enc.closed = true
	enc.e.EndTag("metadata")
	return enc.e.Flush()
}
