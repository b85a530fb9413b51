package otherdata

import (
	"bytes"
	"io"
	"testing"

	"github.com/dralley/rpmrepo-metadata"
)

func TestRoundTrip(t *testing.T) {
	nevra := rpmmd.NEVRA{Name: "bash", Version: "5.1", Release: "6.el9", Arch: "x86_64"}
	changelog := []rpmmd.ChangelogEntry{
		{Author: "Jane Doe <jane@example.com> - 5.1-6", Date: 1610000000, Text: "- fixed a bug\n- updated docs"},
		{Author: "John Roe <john@example.com> - 5.1-5", Date: 1600000000, Text: "- initial build"},
	}

	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, 1)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if err := enc.WriteEntry("abc123", nevra, changelog); err != nil {
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
	if got.PkgID != "abc123" || got.NEVRA != nevra {
		t.Errorf("got %+v", got)
	}
	if len(got.Changelog) != 2 {
		t.Fatalf("Changelog = %+v, want 2 entries", got.Changelog)
	}
	for i, c := range got.Changelog {
		if c != changelog[i] {
			t.Errorf("Changelog[%d] = %+v, want %+v", i, c, changelog[i])
		}
	}

	if _, err := dec.Next(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}
