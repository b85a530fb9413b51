package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dralley/rpmrepo-metadata"
	"github.com/dralley/rpmrepo-metadata/compression"
	"github.com/dralley/rpmrepo-metadata/filelists"
	"github.com/dralley/rpmrepo-metadata/internal/checksum"
	"github.com/dralley/rpmrepo-metadata/otherdata"
	"github.com/dralley/rpmrepo-metadata/primary"
	"github.com/dralley/rpmrepo-metadata/repomd"
)

// Options configures a repository write. The zero value of Compression
// (compression.None) is treated as "use the default" (gzip) rather than
// "explicitly uncompressed" — a plain struct has no way to distinguish an
// unset field from its zero value. As a result, Options cannot request
// uncompressed output: every write is compressed, with gzip when
// Compression is None.
type Options struct {
	ChecksumType      rpmmd.ChecksumType // default ChecksumSHA256
	Compression       compression.Codec  // default Gzip
	SimpleMDFilenames bool               // true: "primary.xml.gz"; false: "<open-checksum>-primary.xml.gz"
	Revision          int64              // default: current Unix time
	Tags              rpmmd.RepomdTags
}

func (o Options) checksumType() rpmmd.ChecksumType {
	if o.ChecksumType == rpmmd.ChecksumUnknown {
		return rpmmd.ChecksumSHA256
	}
	return o.ChecksumType
}

func (o Options) codec() compression.Codec {
	if o.Compression == compression.None {
		return compression.Gzip
	}
	return o.Compression
}

// Writer assembles a repository at a filesystem root: three metadata
// streams written through a compressing, dual-digest checksum sink
// (internal/checksum.Sink, grounded on the teacher corpus's metaXML
// pattern), then an atomically published repomd.xml.
type Writer struct {
	root    string
	opts    Options
	total   int
	written int

	primaryPath, filelistsPath, otherPath string
	primarySink, filelistsSink, otherSink *checksum.Sink
	primaryEnc                            *primary.Encoder
	filelistsEnc                          *filelists.Encoder
	otherEnc                              *otherdata.Encoder

	repodataDir string
}

// Create opens a new Writer for a repository at root with totalPackages
// known up front (the codecs need the count for their root elements'
// packages="N" attribute before the first record is written).
func Create(root string, totalPackages int, opts Options) (*Writer, error) {
	repodataDir := filepath.Join(root, "repodata")
	if err := os.MkdirAll(repodataDir, 0o755); err != nil {
		return nil, &rpmmd.IOError{Op: "mkdir", Path: repodataDir, Err: err}
	}

	w := &Writer{root: root, opts: opts, total: totalPackages, repodataDir: repodataDir}

	var err error
	w.primaryEnc, w.primarySink, w.primaryPath, err = w.openPrimary(totalPackages)
	if err != nil {
		return nil, err
	}
	w.filelistsEnc, w.filelistsSink, w.filelistsPath, err = w.openFilelists(totalPackages)
	if err != nil {
		w.abort()
		return nil, err
	}
	w.otherEnc, w.otherSink, w.otherPath, err = w.openOther(totalPackages)
	if err != nil {
		w.abort()
		return nil, err
	}

	logrus.Debugf("writer opened three metadata streams under %s", repodataDir)
	return w, nil
}

func (w *Writer) openPrimary(total int) (*primary.Encoder, *checksum.Sink, string, error) {
	ext := w.opts.codec().Extension()
	tmpPath := filepath.Join(w.repodataDir, ".primary.xml"+ext+".tmp")
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, nil, "", &rpmmd.IOError{Op: "create", Path: tmpPath, Err: err}
	}
	sink, err := checksum.NewSink(w.opts.checksumType(), w.opts.codec(), f)
	if err != nil {
		f.Close()
		return nil, nil, "", err
	}
	enc, err := primary.NewEncoder(sink, total)
	if err != nil {
		f.Close()
		return nil, nil, "", err
	}
	return enc, sink, tmpPath, nil
}

func (w *Writer) openFilelists(total int) (*filelists.Encoder, *checksum.Sink, string, error) {
	ext := w.opts.codec().Extension()
	tmpPath := filepath.Join(w.repodataDir, ".filelists.xml"+ext+".tmp")
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, nil, "", &rpmmd.IOError{Op: "create", Path: tmpPath, Err: err}
	}
	sink, err := checksum.NewSink(w.opts.checksumType(), w.opts.codec(), f)
	if err != nil {
		f.Close()
		return nil, nil, "", err
	}
	enc, err := filelists.NewEncoder(sink, total)
	if err != nil {
		f.Close()
		return nil, nil, "", err
	}
	return enc, sink, tmpPath, nil
}

func (w *Writer) openOther(total int) (*otherdata.Encoder, *checksum.Sink, string, error) {
	ext := w.opts.codec().Extension()
	tmpPath := filepath.Join(w.repodataDir, ".other.xml"+ext+".tmp")
	f, err := os.Create(tmpPath)
	if err != nil {
		return nil, nil, "", &rpmmd.IOError{Op: "create", Path: tmpPath, Err: err}
	}
	sink, err := checksum.NewSink(w.opts.checksumType(), w.opts.codec(), f)
	if err != nil {
		f.Close()
		return nil, nil, "", err
	}
	enc, err := otherdata.NewEncoder(sink, total)
	if err != nil {
		f.Close()
		return nil, nil, "", err
	}
	return enc, sink, tmpPath, nil
}

// WritePackage writes one package's record into all three streams.
func (w *Writer) WritePackage(p rpmmd.Package) error {
	if err := w.primaryEnc.WritePackage(p); err != nil {
		return err
	}
	if err := w.filelistsEnc.WriteEntry(p.PkgID, p.NEVRA, p.Files); err != nil {
		return err
	}
	if err := w.otherEnc.WriteEntry(p.PkgID, p.NEVRA, p.Changelog); err != nil {
		return err
	}
	w.written++
	return nil
}

// abort discards all temp files without publishing repomd.xml, leaving any
// previously published repository state intact.
func (w *Writer) abort() {
	for _, p := range []string{w.primaryPath, w.filelistsPath, w.otherPath} {
		if p != "" {
			os.Remove(p)
		}
	}
}

// Close finalizes all three streams, computes their final filenames (per
// SimpleMDFilenames), renames the temp files into place, and atomically
// publishes repomd.xml via write-to-temp-then-rename. On any failure, all
// temp files are discarded and repomd.xml is never written or modified.
func (w *Writer) Close() error {
	if w.total != 0 && w.written != w.total {
		w.abort()
		return &rpmmd.CountMismatchError{Document: "repository", Declared: w.total, Actual: w.written}
	}

	if err := w.primaryEnc.Close(); err != nil {
		w.abort()
		return err
	}
	if err := w.filelistsEnc.Close(); err != nil {
		w.abort()
		return err
	}
	if err := w.otherEnc.Close(); err != nil {
		w.abort()
		return err
	}

	pOpenSize, pOpenSum, pSize, pSum, err := w.primarySink.Finalize()
	if err != nil {
		w.abort()
		return err
	}
	fOpenSize, fOpenSum, fSize, fSum, err := w.filelistsSink.Finalize()
	if err != nil {
		w.abort()
		return err
	}
	oOpenSize, oOpenSum, oSize, oSum, err := w.otherSink.Finalize()
	if err != nil {
		w.abort()
		return err
	}

	ext := w.opts.codec().Extension()
	ct := w.opts.checksumType()
	revision := w.opts.Revision
	if revision == 0 {
		revision = time.Now().Unix()
	}
	timestamp := revision

	primaryHref, err := w.publish(w.primaryPath, "primary", ext, pOpenSum)
	if err != nil {
		w.abort()
		return err
	}
	filelistsHref, err := w.publish(w.filelistsPath, "filelists", ext, fOpenSum)
	if err != nil {
		w.abort()
		return err
	}
	otherHref, err := w.publish(w.otherPath, "other", ext, oOpenSum)
	if err != nil {
		w.abort()
		return err
	}

	index := rpmmd.Repomd{
		Revision: revision,
		Tags:     w.opts.Tags,
		Records: []rpmmd.RepomdRecord{
			{Type: rpmmd.MetadataPrimary, Location: rpmmd.Location{Href: primaryHref},
				OpenSize: pOpenSize, OpenChecksum: pOpenSum, Checksum: pSum, Size: pSize,
				Timestamp: timestamp, ChecksumType: ct},
			{Type: rpmmd.MetadataFilelists, Location: rpmmd.Location{Href: filelistsHref},
				OpenSize: fOpenSize, OpenChecksum: fOpenSum, Checksum: fSum, Size: fSize,
				Timestamp: timestamp, ChecksumType: ct},
			{Type: rpmmd.MetadataOther, Location: rpmmd.Location{Href: otherHref},
				OpenSize: oOpenSize, OpenChecksum: oOpenSum, Checksum: oSum, Size: oSize,
				Timestamp: timestamp, ChecksumType: ct},
		},
	}

	repomdTmp := filepath.Join(w.repodataDir, ".repomd.xml.tmp")
	rf, err := os.Create(repomdTmp)
	if err != nil {
		return &rpmmd.IOError{Op: "create", Path: repomdTmp, Err: err}
	}
	if err := repomd.Encode(rf, index); err != nil {
		rf.Close()
		os.Remove(repomdTmp)
		return err
	}
	if err := rf.Close(); err != nil {
		os.Remove(repomdTmp)
		return &rpmmd.IOError{Op: "close", Path: repomdTmp, Err: err}
	}

	finalPath := filepath.Join(w.repodataDir, "repomd.xml")
	if err := os.Rename(repomdTmp, finalPath); err != nil {
		os.Remove(repomdTmp)
		return &rpmmd.IOError{Op: "rename", Path: finalPath, Err: err}
	}

	logrus.Infof("published repository at %s (%d packages)", w.root, w.written)
	return nil
}

// publish renames a finalized temp metadata file to its public name and
// returns the root-relative href ("repodata/<filename>") repomd.xml should
// reference.
func (w *Writer) publish(tmpPath, name, ext, checksum string) (string, error) {
	var filename string
	if w.opts.SimpleMDFilenames {
		filename = name + ".xml" + ext
	} else {
		filename = fmt.Sprintf("%s-%s.xml%s", checksum, name, ext)
	}
	finalPath := filepath.Join(w.repodataDir, filename)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", &rpmmd.IOError{Op: "rename", Path: finalPath, Err: err}
	}
	return filepath.Join("repodata", filename), nil
}
