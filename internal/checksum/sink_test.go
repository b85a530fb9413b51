package checksum

import (
	"bytes"
	"io"
	"testing"

	"github.com/dralley/rpmrepo-metadata"
	"github.com/dralley/rpmrepo-metadata/compression"
)

type buffer struct {
	*bytes.Buffer
}

func (buffer) Close() error { return nil }

func TestSinkTracksOpenAndFileDigests(t *testing.T) {
	buf := &buffer{&bytes.Buffer{}}
	sink, err := NewSink(rpmmd.ChecksumSHA256, compression.Gzip, buf)
	if err != nil {
		t.Fatalf("NewSink: %v", err)
	}

	payload := []byte("<metadata packages=\"0\"></metadata>")
	if _, err := sink.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}

	openSize, openSum, fileSize, fileSum, err := sink.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if openSize != int64(len(payload)) {
		t.Errorf("openSize = %d, want %d", openSize, len(payload))
	}
	if openSum == "" || fileSum == "" {
		t.Error("expected non-empty digests")
	}
	if openSum == fileSum {
		t.Error("open and file digests should differ once compressed")
	}
	if fileSize == 0 || int64(buf.Len()) != fileSize {
		t.Errorf("fileSize = %d, buffer holds %d bytes", fileSize, buf.Len())
	}

	// Finalize again returns the same values without reclosing.
	openSize2, openSum2, fileSize2, fileSum2, err := sink.Finalize()
	if err != nil {
		t.Fatalf("second Finalize: %v", err)
	}
	if openSize2 != openSize || openSum2 != openSum || fileSize2 != fileSize || fileSum2 != fileSum {
		t.Error("second Finalize returned different values")
	}

	r, err := compression.OpenReader(compression.Gzip, bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("roundtrip got %q, want %q", got, payload)
	}
}
