// Package otherdata decodes and encodes other.xml, the document carrying
// each package's changelog entries in source order.
package otherdata

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/dralley/rpmrepo-metadata"
	"github.com/dralley/rpmrepo-metadata/internal/xmlstream"
)

const namespace = "http://linux.duke.edu/metadata/other"

// Entry is one <package> element's worth of other.xml.
type Entry struct {
	PkgID     string
	NEVRA     rpmmd.NEVRA
	Changelog []rpmmd.ChangelogEntry
}

// Decoder streams <package> elements out of other.xml one at a time.
type Decoder struct {
	d             *xmlstream.Decoder
	totalPackages int
	seen          int
}

// NewDecoder wraps r as an other.xml stream.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{d: xmlstream.NewDecoder(r, "other.xml")}
}

// TotalPackages returns the root element's packages="N" attribute.
func (d *Decoder) TotalPackages() int { return d.totalPackages }

// Next decodes the next <package>, returning io.EOF once the root closes.
func (d *Decoder) Next() (Entry, error) {
	var e Entry
	inPackage := false
	var curChangelog *rpmmd.ChangelogEntry
	var text strings.Builder

	for {
		tok, err := d.d.Token()
		if err == io.EOF {
			if inPackage {
				return e, d.d.Wrap(io.ErrUnexpectedEOF)
			}
			return e, io.EOF
		}
		if err != nil {
			return e, d.d.Wrap(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if !inPackage {
				switch t.Name.Local {
				case "otherdata":
					if n := xmlstream.Attr(t, "packages"); n != "" {
						v, perr := strconv.Atoi(n)
						if perr != nil {
							return e, &rpmmd.InvalidValueError{RecordKind: "otherdata", FieldPath: "otherdata/@packages", Raw: n}
						}
						d.totalPackages = v
					}
				case "package":
					inPackage = true
					e = Entry{
						PkgID: xmlstream.Attr(t, "pkgid"),
						NEVRA: rpmmd.NEVRA{
							Name: xmlstream.Attr(t, "name"),
							Arch: xmlstream.Attr(t, "arch"),
						},
					}
				}
				continue
			}
			text.Reset()
			switch t.Name.Local {
			case "version":
				e.NEVRA.Epoch = atoiDefault(xmlstream.Attr(t, "epoch"))
				e.NEVRA.Version = xmlstream.Attr(t, "ver")
				e.NEVRA.Release = xmlstream.Attr(t, "rel")
			case "changelog":
				e.Changelog = append(e.Changelog, rpmmd.ChangelogEntry{
					Author: xmlstream.Attr(t, "author"),
					Date:   atoi64Default(xmlstream.Attr(t, "date")),
				})
				curChangelog = &e.Changelog[len(e.Changelog)-1]
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if !inPackage {
				continue
			}
			switch t.Name.Local {
			case "package":
				inPackage = false
				d.seen++
				if d.totalPackages != 0 && d.seen > d.totalPackages {
					return e, &rpmmd.CountMismatchError{Document: "other.xml", Declared: d.totalPackages, Actual: d.seen}
				}
				return e, nil
			case "changelog":
				if curChangelog != nil {
					curChangelog.Text = text.String()
					curChangelog = nil
				}
			}
		}
	}
}

func atoiDefault(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

func atoi64Default(s string) int64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
