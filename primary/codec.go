// Package primary decodes and encodes primary.xml, the document carrying
// NEVRA, summary/description, size/time, and dependency lists for every
// package in a repository.
package primary

import (
	"encoding/xml"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/dralley/rpmrepo-metadata"
	"github.com/dralley/rpmrepo-metadata/internal/xmlstream"
)

const (
	commonNS = "http://linux.duke.edu/metadata/common"
	rpmNS    = "http://linux.duke.edu/metadata/rpm"
)

// allowPath reproduces createrepo_c's historical rule for which directory
// and ghost file entries get duplicated into primary.xml (the full file
// list otherwise lives only in filelists.xml). It must be reproduced
// exactly for compatibility with existing consumers.
var allowPath = regexp.MustCompile(`^/(etc|usr/lib/sendmail)`)

func primaryFileAllowed(f rpmmd.FileEntry) bool {
	if f.Type == rpmmd.FileTypeFile {
		return false
	}
	return allowPath.MatchString(f.Path) || strings.Contains(f.Path, "bin/")
}

// Decoder streams <package> elements out of primary.xml one at a time.
type Decoder struct {
	d             *xmlstream.Decoder
	totalPackages int
	seen          int
	diagnostics   []rpmmd.UnknownElementDiagnostic
}

// NewDecoder wraps r as a primary.xml stream.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{d: xmlstream.NewDecoder(r, "primary.xml")}
}

// TotalPackages returns the root element's packages="N" attribute. Valid
// only after the first call to Next.
func (d *Decoder) TotalPackages() int { return d.totalPackages }

// Diagnostics returns unknown-element observations collected so far.
func (d *Decoder) Diagnostics() []rpmmd.UnknownElementDiagnostic { return d.diagnostics }

// noteUnknown records an unrecognized element encountered inside <package>.
// The element's children are not parsed into any field (the switch simply
// has no case for them), which is the decoder's subtree-skip: their tokens
// still flow through Token() but never match a known name.
func (d *Decoder) noteUnknown(name string) {
	line, _ := d.d.InputPos()
	d.diagnostics = append(d.diagnostics, rpmmd.UnknownElementDiagnostic{
		Document: "primary.xml",
		Path:     name,
		Line:     int64(line),
	})
}

// depList returns the dependency slice on pkg named by the rpm:* list
// element local name, or nil if name isn't one of the eight lists.
func depList(pkg *rpmmd.Package, name string) *[]rpmmd.Dependency {
	switch name {
	case "rpm:requires":
		return &pkg.Requires
	case "rpm:provides":
		return &pkg.Provides
	case "rpm:conflicts":
		return &pkg.Conflicts
	case "rpm:obsoletes":
		return &pkg.Obsoletes
	case "rpm:suggests":
		return &pkg.Suggests
	case "rpm:recommends":
		return &pkg.Recommends
	case "rpm:supplements":
		return &pkg.Supplements
	case "rpm:enhances":
		return &pkg.Enhances
	default:
		return nil
	}
}

// Next decodes the next <package>, returning io.EOF once the root element
// closes. If more <package> elements appear than the declared packages="N"
// count, Next returns *rpmmd.CountMismatchError at the first extra one;
// fewer packages than declared end in io.EOF as usual (the join engine
// reports that shortfall).
func (d *Decoder) Next() (rpmmd.Package, error) {
	var pkg rpmmd.Package
	inPackage := false
	var curList *[]rpmmd.Dependency
	var curFile *rpmmd.FileEntry
	var text strings.Builder
	nameSeen := false

	for {
		tok, err := d.d.Token()
		if err == io.EOF {
			if inPackage {
				return pkg, d.d.Wrap(io.ErrUnexpectedEOF)
			}
			return pkg, io.EOF
		}
		if err != nil {
			return pkg, d.d.Wrap(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if !inPackage {
				switch t.Name.Local {
				case "metadata":
					if n := xmlstream.Attr(t, "packages"); n != "" {
						v, perr := strconv.Atoi(n)
						if perr != nil {
							return pkg, &rpmmd.InvalidValueError{RecordKind: "primary", FieldPath: "metadata/@packages", Raw: n}
						}
						d.totalPackages = v
					}
				case "package":
					inPackage = true
					pkg = rpmmd.Package{}
					nameSeen = false
				}
				continue
			}
			text.Reset()
			name := qualifiedName(t.Name)
			switch name {
			case "version":
				pkg.NEVRA.Epoch = atoiDefault(xmlstream.Attr(t, "epoch"))
				pkg.NEVRA.Version = xmlstream.Attr(t, "ver")
				pkg.NEVRA.Release = xmlstream.Attr(t, "rel")
			case "checksum":
				ct, err := rpmmd.ParseChecksumType(xmlstream.Attr(t, "type"))
				if err != nil {
					return pkg, err
				}
				pkg.ChecksumType = ct
			case "time":
				pkg.Time.File = atoi64Default(xmlstream.Attr(t, "file"))
				pkg.Time.Build = atoi64Default(xmlstream.Attr(t, "build"))
			case "size":
				pkg.Size.Package = atoi64Default(xmlstream.Attr(t, "package"))
				pkg.Size.Installed = atoi64Default(xmlstream.Attr(t, "installed"))
				pkg.Size.Archive = atoi64Default(xmlstream.Attr(t, "archive"))
			case "location":
				pkg.Location.Href = xmlstream.Attr(t, "href")
				pkg.Location.Base = xmlstream.AttrNS(t, "http://www.w3.org/XML/1998/namespace", "base")
			case "rpm:header-range":
				pkg.HeaderRange.Start = atoi64Default(xmlstream.Attr(t, "start"))
				pkg.HeaderRange.End = atoi64Default(xmlstream.Attr(t, "end"))
			case "file":
				ft := rpmmd.ParseFileType(xmlstream.Attr(t, "type"))
				pkg.Files = append(pkg.Files, rpmmd.FileEntry{Type: ft})
				curFile = &pkg.Files[len(pkg.Files)-1]
			case "rpm:requires", "rpm:provides", "rpm:conflicts", "rpm:obsoletes",
				"rpm:suggests", "rpm:recommends", "rpm:supplements", "rpm:enhances":
				curList = depList(&pkg, name)
			case "rpm:entry":
				if curList == nil {
					continue
				}
				flag, err := rpmmd.ParseFlag(xmlstream.Attr(t, "flags"))
				if err != nil {
					return pkg, err
				}
				*curList = append(*curList, rpmmd.Dependency{
					Name:    xmlstream.Attr(t, "name"),
					Flag:    flag,
					Epoch:   atoiDefault(xmlstream.Attr(t, "epoch")),
					Version: xmlstream.Attr(t, "ver"),
					Release: xmlstream.Attr(t, "rel"),
					Pre:     xmlstream.Attr(t, "pre") == "1",
				})
			case "name", "arch", "summary", "description", "packager", "url", "format",
				"rpm:license", "rpm:vendor", "rpm:group", "rpm:buildhost", "rpm:sourcerpm":
				// Text elements, read at their end tag; <format> is a container.
			default:
				d.noteUnknown(name)
			}
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			if !inPackage {
				continue
			}
			name := qualifiedName(t.Name)
			switch name {
			case "package":
				inPackage = false
				d.seen++
				if d.totalPackages != 0 && d.seen > d.totalPackages {
					return pkg, &rpmmd.CountMismatchError{Document: "primary.xml", Declared: d.totalPackages, Actual: d.seen}
				}
				return pkg, nil
			case "name":
				if !nameSeen {
					pkg.NEVRA.Name = text.String()
					nameSeen = true
				}
			case "arch":
				pkg.NEVRA.Arch = text.String()
			case "checksum":
				pkg.PkgID = text.String()
			case "summary":
				pkg.Summary = text.String()
			case "description":
				pkg.Description = text.String()
			case "packager":
				pkg.Packager = text.String()
			case "url":
				pkg.URL = text.String()
			case "rpm:license":
				pkg.License = text.String()
			case "rpm:vendor":
				pkg.Vendor = text.String()
			case "rpm:group":
				pkg.Group = text.String()
			case "rpm:buildhost":
				pkg.BuildHost = text.String()
			case "rpm:sourcerpm":
				pkg.SourceRPM = text.String()
			case "file":
				if curFile != nil {
					curFile.Path = text.String()
					curFile = nil
				}
			case "rpm:requires", "rpm:provides", "rpm:conflicts", "rpm:obsoletes",
				"rpm:suggests", "rpm:recommends", "rpm:supplements", "rpm:enhances":
				curList = nil
			}
		}
	}
}

// qualifiedName renders a decoded xml.Name back to the "rpm:local" form the
// document uses on the wire, since encoding/xml reports namespaces by URI
// rather than by the prefix the source document used.
func qualifiedName(n xml.Name) string {
	if n.Space == rpmNS {
		return "rpm:" + n.Local
	}
	return n.Local
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
