// Package rpmmd reads and writes RPM repository metadata: the repomd.xml,
// primary.xml, filelists.xml, other.xml and updateinfo.xml documents that
// describe an on-disk or remote collection of RPM packages.
//
// The data types in this package (Package, RepomdRecord, UpdateRecord, and
// their fields) are the value model shared by every sub-package. The codec
// sub-packages (primary, filelists, otherdata, repomd, updateinfo) decode
// and encode one document type each. The join sub-package drives the three
// per-package streams in lockstep to assemble complete Package values, and
// repository ties a filesystem root to repomd.xml and the three streams it
// indexes.
package rpmmd
