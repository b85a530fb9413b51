package rpmmd

import "fmt"

// IOError wraps an underlying I/O failure with the path and operation that
// triggered it.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("rpmmd: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// UnsupportedCompressionError is returned when a codec is asked to read or
// write a compression envelope no available library implements (bzip2
// writing, zchunk in either direction).
type UnsupportedCompressionError struct {
	Codec string
	Op    string // "read" or "write"
}

func (e *UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("rpmmd: %s compression not supported for %s", e.Op, e.Codec)
}

// InvalidXMLError reports a structural XML problem at a specific byte
// offset, line, and column within a document.
type InvalidXMLError struct {
	Document string
	Line     int64
	Column   int64
	Offset   int64
	Err      error
}

func (e *InvalidXMLError) Error() string {
	return fmt.Sprintf("rpmmd: %s:%d:%d (offset %d): %v", e.Document, e.Line, e.Column, e.Offset, e.Err)
}

func (e *InvalidXMLError) Unwrap() error { return e.Err }

// InvalidEncodingError reports a byte sequence that is not valid UTF-8
// encountered while reading a metadata document.
type InvalidEncodingError struct {
	Document string
	Offset   int64
}

func (e *InvalidEncodingError) Error() string {
	return fmt.Sprintf("rpmmd: %s: invalid UTF-8 at offset %d", e.Document, e.Offset)
}

// MissingFieldError reports a required element or attribute that was absent
// from a record.
type MissingFieldError struct {
	RecordKind string
	FieldPath  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("rpmmd: %s: missing required field %s", e.RecordKind, e.FieldPath)
}

// InvalidValueError reports a field whose raw text could not be parsed into
// its expected type or enumeration.
type InvalidValueError struct {
	RecordKind string
	FieldPath  string
	Raw        string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("rpmmd: %s: invalid value %q for field %s", e.RecordKind, e.Raw, e.FieldPath)
}

// UnknownElementDiagnostic is a non-fatal observation surfaced to the
// caller's diagnostics sink (not returned as an error) when a decoder skips
// an element it does not recognize, so lossy-but-forward-compatible
// decoding remains observable.
type UnknownElementDiagnostic struct {
	Document string
	Path     string
	Line     int64
}

func (d UnknownElementDiagnostic) String() string {
	return fmt.Sprintf("%s:%d: skipped unrecognized element %s", d.Document, d.Line, d.Path)
}

// MissingMetadataError reports a repomd.xml that does not reference a
// metadata type a requested operation needs.
type MissingMetadataError struct {
	Type MetadataType
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("rpmmd: repomd.xml has no %s record", e.Type)
}

// StreamDesyncError reports that the primary, filelists, and other streams
// disagree on package identity at the same ordinal position during a join.
type StreamDesyncError struct {
	Index    int
	Primary  NEVRA
	Filelist NEVRA
	Other    NEVRA
}

func (e *StreamDesyncError) Error() string {
	return fmt.Sprintf("rpmmd: stream desync at index %d: primary=%+v filelists=%+v other=%+v",
		e.Index, e.Primary, e.Filelist, e.Other)
}

// CountMismatchError reports that a declared package count (a stream's
// packages="N" attribute, or the count given to repository.Create) does not
// match the number of packages actually present or written.
type CountMismatchError struct {
	Document string
	Declared int
	Actual   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("rpmmd: %s: declared packages=%d but found %d", e.Document, e.Declared, e.Actual)
}

// ChecksumMismatchError reports a verified read whose computed digest does
// not match the expected value from repomd.xml or a package's pkgid.
type ChecksumMismatchError struct {
	Subject  string
	Expected string
	Actual   string
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("rpmmd: checksum mismatch for %s: expected %s, got %s", e.Subject, e.Expected, e.Actual)
}
