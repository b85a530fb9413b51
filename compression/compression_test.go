package compression

import (
	"bytes"
	"io"
	"testing"
)

func TestGzipRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := OpenWriter(Gzip, &buf)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	want := []byte("<metadata>hello</metadata>")
	if _, err := w.Write(want); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := OpenReader(Gzip, &buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestXzRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := OpenWriter(Xz, &buf)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	want := []byte("<metadata>xz payload</metadata>")
	if _, err := w.Write(want); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := OpenReader(Xz, &buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestZstdRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := OpenWriter(Zstd, &buf)
	if err != nil {
		t.Fatalf("OpenWriter: %v", err)
	}
	want := []byte("<metadata>zstd payload</metadata>")
	if _, err := w.Write(want); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := OpenReader(Zstd, &buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBzip2ReadOnly(t *testing.T) {
	if _, err := OpenWriter(Bzip2, &bytes.Buffer{}); err == nil {
		t.Fatal("expected bzip2 write to be unsupported")
	}
}

func TestZchunkUnsupported(t *testing.T) {
	if _, err := OpenReader(Zchunk, &bytes.Buffer{}); err == nil {
		t.Fatal("expected zchunk read to be unsupported")
	}
	if _, err := OpenWriter(Zchunk, &bytes.Buffer{}); err == nil {
		t.Fatal("expected zchunk write to be unsupported")
	}
}

func TestDetectByExtension(t *testing.T) {
	cases := []struct {
		name string
		want Codec
		ok   bool
	}{
		{"primary.xml.gz", Gzip, true},
		{"primary.xml.zst", Zstd, true},
		{"primary.xml.xz", Xz, true},
		{"primary.xml.bz2", Bzip2, true},
		{"primary.xml", None, false},
	}
	for _, tc := range cases {
		got, ok := DetectByExtension(tc.name)
		if got != tc.want || ok != tc.ok {
			t.Errorf("DetectByExtension(%q) = (%v, %v), want (%v, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestDetectByMagic(t *testing.T) {
	var buf bytes.Buffer
	w, _ := OpenWriter(Gzip, &buf)
	w.Write([]byte("payload"))
	w.Close()

	codec, r, err := DetectByMagic(&buf)
	if err != nil {
		t.Fatalf("DetectByMagic: %v", err)
	}
	if codec != Gzip {
		t.Fatalf("got codec %v, want Gzip", codec)
	}
	rc, err := OpenReader(codec, r)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("got %q, want payload", got)
	}
}
