package join

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/dralley/rpmrepo-metadata"
	"github.com/dralley/rpmrepo-metadata/filelists"
	"github.com/dralley/rpmrepo-metadata/otherdata"
	"github.com/dralley/rpmrepo-metadata/primary"
)

func buildFixture(t *testing.T, pkgs []rpmmd.Package) (primaryXML, filelistsXML, otherXML string) {
	t.Helper()

	var pbuf bytes.Buffer
	penc, err := primary.NewEncoder(&pbuf, len(pkgs))
	if err != nil {
		t.Fatalf("primary.NewEncoder: %v", err)
	}
	for _, p := range pkgs {
		if err := penc.WritePackage(p); err != nil {
			t.Fatalf("WritePackage: %v", err)
		}
	}
	if err := penc.Close(); err != nil {
		t.Fatalf("primary Close: %v", err)
	}

	var fbuf bytes.Buffer
	fenc, err := filelists.NewEncoder(&fbuf, len(pkgs))
	if err != nil {
		t.Fatalf("filelists.NewEncoder: %v", err)
	}
	for _, p := range pkgs {
		if err := fenc.WriteEntry(p.PkgID, p.NEVRA, p.Files); err != nil {
			t.Fatalf("WriteEntry: %v", err)
		}
	}
	if err := fenc.Close(); err != nil {
		t.Fatalf("filelists Close: %v", err)
	}

	var obuf bytes.Buffer
	oenc, err := otherdata.NewEncoder(&obuf, len(pkgs))
	if err != nil {
		t.Fatalf("otherdata.NewEncoder: %v", err)
	}
	for _, p := range pkgs {
		if err := oenc.WriteEntry(p.PkgID, p.NEVRA, p.Changelog); err != nil {
			t.Fatalf("WriteEntry: %v", err)
		}
	}
	if err := oenc.Close(); err != nil {
		t.Fatalf("otherdata Close: %v", err)
	}

	return pbuf.String(), fbuf.String(), obuf.String()
}

func fixturePackages() []rpmmd.Package {
	return []rpmmd.Package{
		{
			PkgID: "id1", ChecksumType: rpmmd.ChecksumSHA256,
			NEVRA: rpmmd.NEVRA{Name: "bash", Version: "5.1", Release: "6.el9", Arch: "x86_64"},
			Files: []rpmmd.FileEntry{{Path: "/usr/bin/bash", Type: rpmmd.FileTypeFile}},
			Changelog: []rpmmd.ChangelogEntry{{Author: "dev", Date: 1, Text: "init"}},
		},
		{
			PkgID: "id2", ChecksumType: rpmmd.ChecksumSHA256,
			NEVRA: rpmmd.NEVRA{Name: "zsh", Version: "5.9", Release: "2.el9", Arch: "x86_64"},
			Files: []rpmmd.FileEntry{{Path: "/usr/bin/zsh", Type: rpmmd.FileTypeFile}},
		},
	}
}

func TestJoinYieldsFusedPackages(t *testing.T) {
	pkgs := fixturePackages()
	p, f, o := buildFixture(t, pkgs)

	e := New(strings.NewReader(p), strings.NewReader(f), strings.NewReader(o))
	var got []rpmmd.Package
	for {
		pkg, err := e.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, pkg)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if e.TotalPackages() != 2 {
		t.Fatalf("TotalPackages = %d, want 2", e.TotalPackages())
	}
	if e.RemainingPackages() != 0 {
		t.Fatalf("RemainingPackages = %d, want 0", e.RemainingPackages())
	}
	if len(got) != 2 {
		t.Fatalf("got %d packages, want 2", len(got))
	}
	if got[0].NEVRA.Name != "bash" || len(got[0].Changelog) != 1 {
		t.Errorf("first package = %+v", got[0])
	}
	if got[1].NEVRA.Name != "zsh" {
		t.Errorf("second package = %+v", got[1])
	}
}

func TestJoinEmptyRepository(t *testing.T) {
	p, f, o := buildFixture(t, nil)
	e := New(strings.NewReader(p), strings.NewReader(f), strings.NewReader(o))
	if _, err := e.Next(); err != io.EOF {
		t.Fatalf("expected immediate EOF for empty repo, got %v", err)
	}
	if e.TotalPackages() != 0 {
		t.Fatalf("TotalPackages = %d, want 0", e.TotalPackages())
	}
}

func TestJoinDetectsDesync(t *testing.T) {
	pkgs := fixturePackages()
	p, f, o := buildFixture(t, pkgs)

	// Corrupt filelists' second package name so it no longer matches primary.
	f = strings.Replace(f, `name="zsh"`, `name="corrupted"`, 1)

	e := New(strings.NewReader(p), strings.NewReader(f), strings.NewReader(o))

	first, err := e.Next()
	if err != nil {
		t.Fatalf("first Next: %v", err)
	}
	if first.NEVRA.Name != "bash" {
		t.Fatalf("first package = %+v", first)
	}

	_, err = e.Next()
	if err == nil {
		t.Fatal("expected StreamDesyncError on second package")
	}
	if _, ok := err.(*rpmmd.StreamDesyncError); !ok {
		t.Fatalf("got %T: %v, want *rpmmd.StreamDesyncError", err, err)
	}
}
