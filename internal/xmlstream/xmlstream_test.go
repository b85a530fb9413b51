package xmlstream

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"
)

func TestEmitterApostropheNotEscaped(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)
	e.TextTag("summary", "Bob's & <friends>")
	if err := e.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	got := buf.String()
	want := "<summary>Bob's &amp; &lt;friends&gt;</summary>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEmitterEmptyTagSelfCloses(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)
	e.EmptyTag("rpm:provides")
	if err := e.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := buf.String(); got != "<rpm:provides/>" {
		t.Fatalf("got %q", got)
	}
}

func TestEmitterAttrEscaping(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf)
	e.EmptyTag("entry", A("name", `quote"here`))
	if err := e.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	want := `<entry name="quote&quot;here"/>`
	if got := buf.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecoderWrapsPositionInfo(t *testing.T) {
	d := NewDecoder(strings.NewReader("<a><b></a>"), "test.xml")
	var lastErr error
	for {
		_, err := d.Token()
		if err != nil {
			lastErr = d.Wrap(err)
			break
		}
	}
	if lastErr == nil {
		t.Fatal("expected a mismatched-tag error")
	}
	if !strings.Contains(lastErr.Error(), "test.xml") {
		t.Fatalf("error missing document name: %v", lastErr)
	}
}

func TestDecoderReadsWellFormedDocument(t *testing.T) {
	d := NewDecoder(strings.NewReader(`<metadata packages="1"><package id="x"/></metadata>`), "primary.xml")
	count := 0
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Token: %v", d.Wrap(err))
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "package" {
			count++
			if Attr(se, "id") != "x" {
				t.Errorf("got id %q", Attr(se, "id"))
			}
		}
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestUTF8ReaderRejectsInvalidBytes(t *testing.T) {
	bad := append([]byte("<a>"), 0xff, 0xfe)
	r := NewUTF8Reader(bytes.NewReader(bad), "bad.xml")
	_, err := io.ReadAll(r)
	if err == nil {
		t.Fatal("expected invalid encoding error")
	}
}

func TestUTF8ReaderAcceptsValidMultiByteAcrossReads(t *testing.T) {
	// "café" has a 2-byte UTF-8 rune for é; feed it through a 1-byte-at-a-time
	// reader to exercise the chunk-boundary hold-back path.
	payload := "café"
	r := NewUTF8Reader(iotest1ByteReader{strings.NewReader(payload)}, "ok.xml")
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != payload {
		t.Fatalf("got %q, want %q", got, payload)
	}
}

type iotest1ByteReader struct{ r io.Reader }

func (o iotest1ByteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	return o.r.Read(p[:1])
}
