package filelists

import (
	"bytes"
	"io"
	"testing"

	"github.com/dralley/rpmrepo-metadata"
)

func TestRoundTrip(t *testing.T) {
	nevra := rpmmd.NEVRA{Name: "bash", Version: "5.1", Release: "6.el9", Arch: "x86_64"}
	files := []rpmmd.FileEntry{
		{Path: "/etc/skel", Type: rpmmd.FileTypeDir},
		{Path: "/usr/bin/bash", Type: rpmmd.FileTypeFile},
		{Path: "/var/spool/mail", Type: rpmmd.FileTypeGhost},
	}

	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, 1)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if err := enc.WriteEntry("abc123", nevra, files); err != nil {
		t.Fatalf("WriteEntry: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	dec := NewDecoder(&buf)
	got, err := dec.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if dec.TotalPackages() != 1 {
		t.Fatalf("TotalPackages = %d, want 1", dec.TotalPackages())
	}
	if got.PkgID != "abc123" || got.NEVRA != nevra {
		t.Errorf("got %+v", got)
	}
	if len(got.Files) != 3 {
		t.Fatalf("Files = %+v, want 3 entries", got.Files)
	}
	for i, f := range got.Files {
		if f != files[i] {
			t.Errorf("Files[%d] = %+v, want %+v", i, f, files[i])
		}
	}

	if _, err := dec.Next(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestEmptyRepository(t *testing.T) {
	var buf bytes.Buffer
	enc, _ := NewEncoder(&buf, 0)
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	dec := NewDecoder(&buf)
	if _, err := dec.Next(); err != io.EOF {
		t.Fatalf("expected EOF for empty filelists, got %v", err)
	}
	if dec.TotalPackages() != 0 {
		t.Fatalf("TotalPackages = %d, want 0", dec.TotalPackages())
	}
}
