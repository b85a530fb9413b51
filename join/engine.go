// Package join drives the primary, filelists, and other decoders in
// lockstep to assemble complete rpmmd.Package values without ever
// buffering a whole document.
package join

import (
	"io"

	"github.com/dralley/rpmrepo-metadata"
	"github.com/dralley/rpmrepo-metadata/filelists"
	"github.com/dralley/rpmrepo-metadata/otherdata"
	"github.com/dralley/rpmrepo-metadata/primary"
)

// Engine yields fused Package records by advancing three independent
// decoders one record at a time, verifying at each step that they agree on
// package identity.
type Engine struct {
	primary   *primary.Decoder
	filelists *filelists.Decoder
	other     *otherdata.Decoder

	closers []io.Closer

	yielded int
	closed  bool
}

// New builds an Engine over the three already-open metadata streams. The
// caller remains responsible for nothing further: Close (or exhausting
// Next to io.EOF) closes all three underlying readers if they implement
// io.Closer.
func New(primaryR, filelistsR, otherR io.Reader) *Engine {
	e := &Engine{
		primary:   primary.NewDecoder(primaryR),
		filelists: filelists.NewDecoder(filelistsR),
		other:     otherdata.NewDecoder(otherR),
	}
	for _, r := range []io.Reader{primaryR, filelistsR, otherR} {
		if c, ok := r.(io.Closer); ok {
			e.closers = append(e.closers, c)
		}
	}
	return e
}

// TotalPackages returns primary.xml's declared package count. Valid only
// after the first call to Next.
func (e *Engine) TotalPackages() int { return e.primary.TotalPackages() }

// RemainingPackages returns TotalPackages minus the number of packages
// already yielded.
func (e *Engine) RemainingPackages() int {
	return e.primary.TotalPackages() - e.yielded
}

// Next advances all three streams by one record and fuses them into a
// Package. It returns io.EOF once primary.xml's root element closes, after
// first verifying filelists.xml and other.xml close at the same point
// (otherwise *rpmmd.CountMismatchError). A mismatch between the three
// streams' package identity at the same position is reported as
// *rpmmd.StreamDesyncError.
func (e *Engine) Next() (rpmmd.Package, error) {
	pkg, err := e.primary.Next()
	if err == io.EOF {
		if cerr := e.verifyBothExhausted(); cerr != nil {
			return rpmmd.Package{}, cerr
		}
		if cerr := e.Close(); cerr != nil {
			return rpmmd.Package{}, cerr
		}
		return rpmmd.Package{}, io.EOF
	}
	if err != nil {
		return rpmmd.Package{}, err
	}

	fl, err := e.filelists.Next()
	if err == io.EOF {
		return rpmmd.Package{}, &rpmmd.StreamDesyncError{Index: e.yielded, Primary: pkg.NEVRA}
	}
	if err != nil {
		return rpmmd.Package{}, err
	}
	if !identityMatches(pkg.NEVRA, fl.NEVRA) || (fl.PkgID != "" && fl.PkgID != pkg.PkgID) {
		return rpmmd.Package{}, &rpmmd.StreamDesyncError{Index: e.yielded, Primary: pkg.NEVRA, Filelist: fl.NEVRA}
	}

	ot, err := e.other.Next()
	if err == io.EOF {
		return rpmmd.Package{}, &rpmmd.StreamDesyncError{Index: e.yielded, Primary: pkg.NEVRA}
	}
	if err != nil {
		return rpmmd.Package{}, err
	}
	if !identityMatches(pkg.NEVRA, ot.NEVRA) || (ot.PkgID != "" && ot.PkgID != pkg.PkgID) {
		return rpmmd.Package{}, &rpmmd.StreamDesyncError{Index: e.yielded, Primary: pkg.NEVRA, Other: ot.NEVRA}
	}

	// filelists.xml carries the authoritative full file list; primary.xml's
	// is a filtered subset, so prefer filelists' copy when present.
	if len(fl.Files) > 0 {
		pkg.Files = fl.Files
	}
	pkg.Changelog = ot.Changelog

	e.yielded++
	return pkg, nil
}

func identityMatches(a, b rpmmd.NEVRA) bool {
	return a.Name == b.Name && a.Arch == b.Arch && a.Version == b.Version && a.Release == b.Release
}

func (e *Engine) verifyBothExhausted() error {
	if _, err := e.filelists.Next(); err != io.EOF {
		if err == nil {
			return &rpmmd.CountMismatchError{Document: "filelists.xml", Declared: e.primary.TotalPackages(), Actual: e.yielded + 1}
		}
		return err
	}
	if _, err := e.other.Next(); err != io.EOF {
		if err == nil {
			return &rpmmd.CountMismatchError{Document: "other.xml", Declared: e.primary.TotalPackages(), Actual: e.yielded + 1}
		}
		return err
	}
	if e.primary.TotalPackages() != 0 && e.yielded != e.primary.TotalPackages() {
		return &rpmmd.CountMismatchError{Document: "primary.xml", Declared: e.primary.TotalPackages(), Actual: e.yielded}
	}
	return nil
}

// Close releases all three underlying streams, if they support io.Closer.
// Safe to call more than once.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	var first error
	for _, c := range e.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
