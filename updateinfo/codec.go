// Package updateinfo decodes and encodes updateinfo.xml, the errata
// catalog describing security/bugfix/enhancement updates and the package
// sets they apply to. Like repomd.xml, this document is loaded fully into
// memory once per sync, so it uses encoding/xml struct tags directly
// rather than the streaming layer.
package updateinfo

import (
	"encoding/xml"
	"io"

	"github.com/dralley/rpmrepo-metadata"
)

type wireReference struct {
	Href  string `xml:"href,attr"`
	ID    string `xml:"id,attr,omitempty"`
	Title string `xml:"title,attr,omitempty"`
	Type  string `xml:"type,attr,omitempty"`
}

type wireModule struct {
	Name    string `xml:"name,attr"`
	Stream  string `xml:"stream,attr"`
	Version string `xml:"version,attr"`
	Context string `xml:"context,attr"`
	Arch    string `xml:"arch,attr"`
}

type wireSum struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type wirePackage struct {
	Name            string      `xml:"name,attr"`
	Version         string      `xml:"version,attr"`
	Release         string      `xml:"release,attr"`
	Epoch           string      `xml:"epoch,attr"`
	Arch            string      `xml:"arch,attr"`
	Src             string      `xml:"src,attr,omitempty"`
	Filename        string      `xml:"filename"`
	Sum             wireSum     `xml:"sum"`
	RebootSuggested *struct{}   `xml:"reboot_suggested"`
}

type wireCollection struct {
	Short    string        `xml:"short,attr,omitempty"`
	Name     string        `xml:"name"`
	Module   *wireModule   `xml:"module"`
	Packages []wirePackage `xml:"package"`
}

type wireUpdate struct {
	From       string           `xml:"from,attr"`
	Status     string           `xml:"status,attr"`
	Type       string           `xml:"type,attr"`
	Version    string           `xml:"version,attr"`
	ID         string           `xml:"id"`
	Title      string           `xml:"title"`
	Issued     wireDated        `xml:"issued"`
	Updated    *wireDated       `xml:"updated"`
	Rights     string           `xml:"rights,omitempty"`
	Release    string           `xml:"release,omitempty"`
	Severity   string           `xml:"severity,omitempty"`
	Summary    string           `xml:"summary"`
	Description string          `xml:"description"`
	Solution   string           `xml:"solution,omitempty"`
	References *wireReferences  `xml:"references"`
	PkgList    *wirePkglist     `xml:"pkglist"`
}

type wireDated struct {
	Date string `xml:"date,attr"`
}

type wireReferences struct {
	References []wireReference `xml:"reference"`
}

type wirePkglist struct {
	Collections []wireCollection `xml:"collection"`
}

type wireUpdates struct {
	XMLName xml.Name     `xml:"updates"`
	Updates []wireUpdate `xml:"update"`
}

// Decode parses a complete updateinfo.xml document from r.
func Decode(r io.Reader) ([]rpmmd.UpdateRecord, error) {
	var wire wireUpdates
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&wire); err != nil {
		line, col := dec.InputPos()
		return nil, &rpmmd.InvalidXMLError{
			Document: "updateinfo.xml",
			Line:     int64(line),
			Column:   int64(col),
			Offset:   dec.InputOffset(),
			Err:      err,
		}
	}

	out := make([]rpmmd.UpdateRecord, 0, len(wire.Updates))
	for _, u := range wire.Updates {
		rec := rpmmd.UpdateRecord{
			ID:          u.ID,
			Type:        rpmmd.UpdateType(u.Type),
			Status:      u.Status,
			From:        u.From,
			Version:     u.Version,
			Severity:    u.Severity,
			Issued:      u.Issued.Date,
			Title:       u.Title,
			Rights:      u.Rights,
			Release:     u.Release,
			Summary:     u.Summary,
			Description: u.Description,
			Solution:    u.Solution,
		}
		if u.Updated != nil {
			rec.Updated = u.Updated.Date
		}
		if u.References != nil {
			for _, r := range u.References.References {
				rec.References = append(rec.References, rpmmd.Reference{
					ID: r.ID, Href: r.Href, Type: r.Type, Title: r.Title,
				})
			}
		}
		if u.PkgList != nil {
			for _, c := range u.PkgList.Collections {
				col := rpmmd.Collection{Short: c.Short, Name: c.Name}
				if c.Module != nil {
					col.Module = &rpmmd.ModuleInfo{
						Name: c.Module.Name, Stream: c.Module.Stream,
						Version: c.Module.Version, Context: c.Module.Context, Arch: c.Module.Arch,
					}
				}
				for _, p := range c.Packages {
					ct, err := rpmmd.ParseChecksumType(p.Sum.Type)
					if err != nil {
						return nil, err
					}
					col.Packages = append(col.Packages, rpmmd.CollectionPackage{
						Name: p.Name, Version: p.Version, Release: p.Release,
						Epoch: p.Epoch, Arch: p.Arch, Src: p.Src == "True" || p.Src == "true",
						Filename: p.Filename, Checksum: p.Sum.Value, ChecksumType: ct,
						RebootSuggested: p.RebootSuggested != nil,
					})
				}
				rec.Collections = append(rec.Collections, col)
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// Encode writes updates as a complete updateinfo.xml document.
func Encode(w io.Writer, updates []rpmmd.UpdateRecord) error {
	wire := wireUpdates{}
	for _, u := range updates {
		wu := wireUpdate{
			From: u.From, Status: u.Status, Type: string(u.Type), Version: u.Version,
			ID: u.ID, Title: u.Title, Issued: wireDated{Date: u.Issued},
			Rights: u.Rights, Release: u.Release, Severity: u.Severity,
			Summary: u.Summary, Description: u.Description, Solution: u.Solution,
		}
		if u.Updated != "" {
			wu.Updated = &wireDated{Date: u.Updated}
		}
		if len(u.References) > 0 {
			refs := &wireReferences{}
			for _, r := range u.References {
				refs.References = append(refs.References, wireReference{
					Href: r.Href, ID: r.ID, Title: r.Title, Type: r.Type,
				})
			}
			wu.References = refs
		}
		if len(u.Collections) > 0 {
			pl := &wirePkglist{}
			for _, c := range u.Collections {
				wc := wireCollection{Short: c.Short, Name: c.Name}
				if c.Module != nil {
					wc.Module = &wireModule{
						Name: c.Module.Name, Stream: c.Module.Stream,
						Version: c.Module.Version, Context: c.Module.Context, Arch: c.Module.Arch,
					}
				}
				for _, p := range c.Packages {
					wp := wirePackage{
						Name: p.Name, Version: p.Version, Release: p.Release,
						Epoch: p.Epoch, Arch: p.Arch,
						Filename: p.Filename,
						Sum:      wireSum{Type: p.ChecksumType.String(), Value: p.Checksum},
					}
					if p.Src {
						wp.Src = "True"
					}
					if p.RebootSuggested {
						wp.RebootSuggested = &struct{}{}
					}
					wc.Packages = append(wc.Packages, wp)
				}
				pl.Collections = append(pl.Collections, wc)
			}
			wu.PkgList = pl
		}
		wire.Updates = append(wire.Updates, wu)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(wire)
}
