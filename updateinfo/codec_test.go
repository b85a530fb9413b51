package updateinfo

import (
	"bytes"
	"testing"

	"github.com/dralley/rpmrepo-metadata"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := []rpmmd.UpdateRecord{
		{
			ID:       "RLSA-2024:1234",
			Type:     rpmmd.UpdateSecurity,
			Status:   "final",
			From:     "errata@rockylinux.org",
			Version:  "1",
			Severity: "Important",
			Issued:   "2024-01-15 00:00:00",
			Updated:  "2024-01-16 00:00:00",
			Title:    "Important: bash security update",
			Summary:  "An update for bash is now available",
			Description: "This update fixes CVE-2024-0001 & related issues.",
			Solution: "Update the affected package.",
			References: []rpmmd.Reference{
				{ID: "CVE-2024-0001", Href: "https://access.redhat.com/security/cve/CVE-2024-0001", Type: "cve", Title: "CVE-2024-0001"},
			},
			Collections: []rpmmd.Collection{
				{
					Short: "rloo",
					Name:  "rloo",
					Packages: []rpmmd.CollectionPackage{
						{
							Name: "bash", Version: "5.1", Release: "6.el9_3", Epoch: "0", Arch: "x86_64",
							Filename: "bash-5.1-6.el9_3.x86_64.rpm",
							Checksum: "deadbeef", ChecksumType: rpmmd.ChecksumSHA256,
							RebootSuggested: true,
						},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, in); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d updates, want 1", len(out))
	}
	got := out[0]
	if got.ID != in[0].ID || got.Type != in[0].Type || got.Description != in[0].Description {
		t.Errorf("got %+v", got)
	}
	if len(got.References) != 1 || got.References[0].ID != "CVE-2024-0001" {
		t.Errorf("References = %+v", got.References)
	}
	if len(got.Collections) != 1 || len(got.Collections[0].Packages) != 1 {
		t.Fatalf("Collections = %+v", got.Collections)
	}
	pkg := got.Collections[0].Packages[0]
	if pkg.Name != "bash" || !pkg.RebootSuggested || pkg.ChecksumType != rpmmd.ChecksumSHA256 {
		t.Errorf("package = %+v", pkg)
	}
}

func TestModuleCollection(t *testing.T) {
	in := []rpmmd.UpdateRecord{
		{
			ID: "RLSA-2024:0099", Type: rpmmd.UpdateBugfix, Status: "final",
			Issued: "2024-02-01 00:00:00",
			Collections: []rpmmd.Collection{
				{
					Name:   "nodejs",
					Module: &rpmmd.ModuleInfo{Name: "nodejs", Stream: "18", Version: "9020020240101", Context: "abcdef12", Arch: "x86_64"},
				},
			},
		},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, in); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	mod := out[0].Collections[0].Module
	if mod == nil || mod.Stream != "18" {
		t.Fatalf("Module = %+v", mod)
	}
}
