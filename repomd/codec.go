// Package repomd decodes and encodes repomd.xml, the small index document
// that lists every metadata file in a repository along with its checksums,
// sizes, and location. Unlike primary.xml/filelists.xml/other.xml, which
// can run to hundreds of thousands of records, repomd.xml is kilobytes, so
// this codec uses encoding/xml struct tags directly rather than the
// streaming layer — the same choice every repomd-parsing example in the
// retrieval pack makes.
package repomd

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/dralley/rpmrepo-metadata"
)

const (
	namespace = "http://linux.duke.edu/metadata/repo"
	rpmNS     = "http://linux.duke.edu/metadata/rpm"
)

type wireChecksum struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type wireLocation struct {
	Href string `xml:"href,attr"`
	Base string `xml:"http://www.w3.org/XML/1998/namespace base,attr,omitempty"`
}

type wireData struct {
	Type            string       `xml:"type,attr"`
	Checksum        wireChecksum `xml:"checksum"`
	OpenChecksum    wireChecksum `xml:"open-checksum"`
	HeaderChecksum  *wireChecksum `xml:"header-checksum,omitempty"`
	Location        wireLocation `xml:"location"`
	Timestamp       int64        `xml:"timestamp"`
	Size            int64        `xml:"size"`
	OpenSize        int64        `xml:"open-size"`
	HeaderSize      *int64       `xml:"header-size,omitempty"`
	DatabaseVersion *int         `xml:"database_version,omitempty"`
}

type wireDistro struct {
	CPEID string `xml:"cpeid,attr,omitempty"`
	Name  string `xml:",chardata"`
}

type wireTags struct {
	Repo    []string     `xml:"repo,omitempty"`
	Content []string     `xml:"content,omitempty"`
	Distro  []wireDistro `xml:"distro,omitempty"`
}

type wireRepomd struct {
	XMLName  xml.Name   `xml:"repomd"`
	Xmlns    string     `xml:"xmlns,attr"`
	XmlnsRpm string     `xml:"xmlns:rpm,attr"`
	Revision int64      `xml:"revision"`
	Tags     *wireTags  `xml:"tags"`
	Data     []wireData `xml:"data"`
}

// Decode parses a complete repomd.xml document from r.
func Decode(r io.Reader) (rpmmd.Repomd, error) {
	var wire wireRepomd
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&wire); err != nil {
		line, col := dec.InputPos()
		return rpmmd.Repomd{}, &rpmmd.InvalidXMLError{
			Document: "repomd.xml",
			Line:     int64(line),
			Column:   int64(col),
			Offset:   dec.InputOffset(),
			Err:      err,
		}
	}
	if wire.XMLName.Space != namespace {
		return rpmmd.Repomd{}, &rpmmd.InvalidXMLError{
			Document: "repomd.xml",
			Err:      fmt.Errorf("root element namespace %q, want %q", wire.XMLName.Space, namespace),
		}
	}

	out := rpmmd.Repomd{Revision: wire.Revision}
	if wire.Tags != nil {
		out.Tags.Repo = wire.Tags.Repo
		out.Tags.Content = wire.Tags.Content
		for _, d := range wire.Tags.Distro {
			out.Tags.Distro = append(out.Tags.Distro, rpmmd.DistroTag{CPEID: d.CPEID, Name: d.Name})
		}
	}
	for _, d := range wire.Data {
		ct, err := rpmmd.ParseChecksumType(d.Checksum.Type)
		if err != nil {
			return rpmmd.Repomd{}, err
		}
		rec := rpmmd.RepomdRecord{
			Type:         rpmmd.MetadataType(d.Type),
			Location:     rpmmd.Location{Href: d.Location.Href, Base: d.Location.Base},
			OpenSize:     d.OpenSize,
			OpenChecksum: d.OpenChecksum.Value,
			Checksum:     d.Checksum.Value,
			Size:         d.Size,
			Timestamp:    d.Timestamp,
			ChecksumType: ct,
		}
		if d.HeaderChecksum != nil {
			rec.HeaderChecksum = d.HeaderChecksum.Value
		}
		if d.HeaderSize != nil {
			rec.HeaderSize = *d.HeaderSize
		}
		if d.DatabaseVersion != nil {
			rec.DatabaseVersion = *d.DatabaseVersion
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

// Encode writes r as a complete repomd.xml document, canonical declaration
// first, no DOCTYPE.
func Encode(w io.Writer, r rpmmd.Repomd) error {
	wire := wireRepomd{
		Xmlns:    namespace,
		XmlnsRpm: rpmNS,
		Revision: r.Revision,
	}
	if len(r.Tags.Repo) > 0 || len(r.Tags.Content) > 0 || len(r.Tags.Distro) > 0 {
		tags := &wireTags{Repo: r.Tags.Repo, Content: r.Tags.Content}
		for _, d := range r.Tags.Distro {
			tags.Distro = append(tags.Distro, wireDistro{CPEID: d.CPEID, Name: d.Name})
		}
		wire.Tags = tags
	}
	for _, rec := range r.Records {
		d := wireData{
			Type:      string(rec.Type),
			Checksum:  wireChecksum{Type: rec.ChecksumType.String(), Value: rec.Checksum},
			OpenChecksum: wireChecksum{Type: rec.ChecksumType.String(), Value: rec.OpenChecksum},
			Location:  wireLocation{Href: rec.Location.Href, Base: rec.Location.Base},
			Timestamp: rec.Timestamp,
			Size:      rec.Size,
			OpenSize:  rec.OpenSize,
		}
		if rec.HeaderChecksum != "" {
			d.HeaderChecksum = &wireChecksum{Type: rec.ChecksumType.String(), Value: rec.HeaderChecksum}
		}
		if rec.HeaderSize != 0 {
			hs := rec.HeaderSize
			d.HeaderSize = &hs
		}
		if rec.DatabaseVersion != 0 {
			dv := rec.DatabaseVersion
			d.DatabaseVersion = &dv
		}
		wire.Data = append(wire.Data, d)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(wire); err != nil {
		return fmt.Errorf("rpmmd: encoding repomd.xml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
