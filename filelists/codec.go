// Package filelists decodes and encodes filelists.xml, the document
// carrying every packaged file path for each package in a repository.
package filelists

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/dralley/rpmrepo-metadata"
	"github.com/dralley/rpmrepo-metadata/internal/xmlstream"
)

const namespace = "http://linux.duke.edu/metadata/filelists"

// Entry is one <package> element's worth of filelists.xml: just enough to
// cross-validate against primary.xml during a join, plus the file list
// itself.
type Entry struct {
	PkgID string
	NEVRA rpmmd.NEVRA
	Files []rpmmd.FileEntry
}

// Decoder streams <package> elements out of filelists.xml one at a time.
type Decoder struct {
	d             *xmlstream.Decoder
	totalPackages int
	seen          int
}

// NewDecoder wraps r as a filelists.xml stream.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{d: xmlstream.NewDecoder(r, "filelists.xml")}
}

// TotalPackages returns the root element's packages="N" attribute.
func (d *Decoder) TotalPackages() int { return d.totalPackages }

// Next decodes the next <package>, returning io.EOF once the root closes.
func (d *Decoder) Next() (Entry, error) {
	var e Entry
	inPackage := false
	var curFile *rpmmd.FileEntry
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
				case "filelists":
					if n := xmlstream.Attr(t, "packages"); n != "" {
						v, perr := strconv.Atoi(n)
						if perr != nil {
							return e, &rpmmd.InvalidValueError{RecordKind: "filelists", FieldPath: "filelists/@packages", Raw: n}
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
			case "file":
				ft := rpmmd.ParseFileType(xmlstream.Attr(t, "type"))
				e.Files = append(e.Files, rpmmd.FileEntry{Type: ft})
				curFile = &e.Files[len(e.Files)-1]
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
					return e, &rpmmd.CountMismatchError{Document: "filelists.xml", Declared: d.totalPackages, Actual: d.seen}
				}
				return e, nil
			case "file":
				if curFile != nil {
					curFile.Path = text.String()
					curFile = nil
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
