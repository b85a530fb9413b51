package rpmmd

// ChecksumType identifies a digest algorithm used for a pkgid or a repomd
// checksum.
type ChecksumType int

const (
	ChecksumUnknown ChecksumType = iota
	ChecksumMD5
	ChecksumSHA1
	ChecksumSHA256
	ChecksumSHA512
)

// String returns the wire representation used in checksum type="..." attributes.
func (c ChecksumType) String() string {
	switch c {
	case ChecksumMD5:
		return "md5"
	case ChecksumSHA1:
		return "sha1"
	case ChecksumSHA256:
		return "sha256"
	case ChecksumSHA512:
		return "sha512"
	default:
		return "unknown"
	}
}

// ParseChecksumType parses a checksum type="..." attribute value. The legacy
// tag "sha" is interpreted as sha1, per the spec's open question; callers
// that want the original createrepo_c-rejects-"sha" behavior instead can
// check for it before calling ParseChecksumType.
func ParseChecksumType(raw string) (ChecksumType, error) {
	switch raw {
	case "md5":
		return ChecksumMD5, nil
	case "sha", "sha1":
		return ChecksumSHA1, nil
	case "sha256":
		return ChecksumSHA256, nil
	case "sha512":
		return ChecksumSHA512, nil
	default:
		return ChecksumUnknown, &InvalidValueError{RecordKind: "checksum", FieldPath: "checksum/@type", Raw: raw}
	}
}

// Flag is a version comparison operator attached to a dependency entry.
type Flag int

const (
	FlagNone Flag = iota
	FlagEQ
	FlagLT
	FlagGT
	FlagLE
	FlagGE
)

// String returns the wire representation used in rpm:entry flags="..." attributes.
func (f Flag) String() string {
	switch f {
	case FlagEQ:
		return "EQ"
	case FlagLT:
		return "LT"
	case FlagGT:
		return "GT"
	case FlagLE:
		return "LE"
	case FlagGE:
		return "GE"
	default:
		return ""
	}
}

// ParseFlag parses an rpm:entry flags="..." attribute. An empty string is FlagNone.
func ParseFlag(raw string) (Flag, error) {
	switch raw {
	case "":
		return FlagNone, nil
	case "EQ":
		return FlagEQ, nil
	case "LT":
		return FlagLT, nil
	case "GT":
		return FlagGT, nil
	case "LE":
		return FlagLE, nil
	case "GE":
		return FlagGE, nil
	default:
		return FlagNone, &InvalidValueError{RecordKind: "dependency", FieldPath: "rpm:entry/@flags", Raw: raw}
	}
}

// FileType distinguishes regular files from directories and ghost entries
// inside filelists.xml / primary.xml.
type FileType int

const (
	FileTypeFile FileType = iota
	FileTypeDir
	FileTypeGhost
)

// String returns the wire representation used in file type="..." attributes.
// FileTypeFile is the default and is omitted from the wire form where the
// schema allows it.
func (t FileType) String() string {
	switch t {
	case FileTypeDir:
		return "dir"
	case FileTypeGhost:
		return "ghost"
	default:
		return "file"
	}
}

// ParseFileType parses a file type="..." attribute, defaulting to FileTypeFile.
func ParseFileType(raw string) FileType {
	switch raw {
	case "dir":
		return FileTypeDir
	case "ghost":
		return FileTypeGhost
	default:
		return FileTypeFile
	}
}

// NEVRA is the canonical package identity tuple: Name, Epoch, Version,
// Release, Arch.
type NEVRA struct {
	Name    string
	Epoch   int
	Version string
	Release string
	Arch    string
}

// Dependency is one entry in a requires/provides/conflicts/obsoletes/
// suggests/recommends/supplements/enhances list.
type Dependency struct {
	Name    string
	Flag    Flag
	Epoch   int
	Version string
	Release string
	Pre     bool // requires only
}

// FileEntry is one path from filelists.xml, typed as a regular file,
// directory, or ghost (unpackaged placeholder) entry.
type FileEntry struct {
	Path string
	Type FileType
}

// ChangelogEntry is one entry from other.xml, in source order.
type ChangelogEntry struct {
	Author string
	Date   int64
	Text   string
}

// Location is a package or metadata file's href, optionally resolved
// against an alternate base URL.
type Location struct {
	Href string
	Base string // xml:base / location_base, empty if absent
}

// PackageSize holds the three size fields createrepo_c tracks per package:
// the RPM file itself, its installed footprint, and its cpio archive
// payload.
type PackageSize struct {
	Package   int64
	Installed int64
	Archive   int64
}

// PackageTime holds the file mtime and the RPM build time.
type PackageTime struct {
	File  int64
	Build int64
}

// HeaderRange is the byte range of the RPM signature+header blob within the
// package file, used by clients to fetch just the header over range
// requests.
type HeaderRange struct {
	Start int64
	End   int64
}

// Package is one fully-assembled package record: the join of its primary,
// filelists, and other entries.
type Package struct {
	PkgID        string
	ChecksumType ChecksumType

	NEVRA NEVRA

	Summary     string
	Description string
	Packager    string
	URL         string
	SourceRPM   string
	License     string
	Vendor      string
	Group       string
	BuildHost   string

	Size        PackageSize
	Time        PackageTime
	Location    Location
	HeaderRange HeaderRange

	Requires    []Dependency
	Provides    []Dependency
	Conflicts   []Dependency
	Obsoletes   []Dependency
	Suggests    []Dependency
	Recommends  []Dependency
	Supplements []Dependency
	Enhances    []Dependency

	Files     []FileEntry
	Changelog []ChangelogEntry
}

// MetadataType names a repomd.xml <data type="..."> record.
type MetadataType string

const (
	MetadataPrimary     MetadataType = "primary"
	MetadataFilelists   MetadataType = "filelists"
	MetadataOther       MetadataType = "other"
	MetadataUpdateinfo  MetadataType = "updateinfo"
	MetadataPrestodelta MetadataType = "prestodelta"
	MetadataModules     MetadataType = "modules"
)

// RepomdRecord is one <data> entry in repomd.xml.
type RepomdRecord struct {
	Type MetadataType

	Location Location

	OpenSize     int64
	OpenChecksum string
	Checksum     string
	Size         int64
	Timestamp    int64

	ChecksumType ChecksumType

	// HeaderSize/HeaderChecksum are zchunk-only fields; HeaderSize == 0
	// and HeaderChecksum == "" when absent.
	HeaderSize     int64
	HeaderChecksum string

	// DatabaseVersion is set only for *_db (sqlite) records; 0 when absent.
	DatabaseVersion int
}

// DistroTag is one <tags><distro cpeid="..."> entry in repomd.xml.
type DistroTag struct {
	CPEID string
	Name  string
}

// RepomdTags holds the optional <tags> children of repomd.xml.
type RepomdTags struct {
	Repo    []string
	Content []string
	Distro  []DistroTag
}

// Repomd is the decoded form of repomd.xml.
type Repomd struct {
	Revision int64
	Tags     RepomdTags
	Records  []RepomdRecord
}

// RecordByType returns the first record of the given type, if present.
func (r *Repomd) RecordByType(t MetadataType) (RepomdRecord, bool) {
	for _, rec := range r.Records {
		if rec.Type == t {
			return rec, true
		}
	}
	return RepomdRecord{}, false
}

// UpdateType classifies an erratum in updateinfo.xml.
type UpdateType string

const (
	UpdateSecurity    UpdateType = "security"
	UpdateBugfix      UpdateType = "bugfix"
	UpdateEnhancement UpdateType = "enhancement"
	UpdateNewpackage  UpdateType = "newpackage"
)

// Reference is one <reference> inside an update's <references> block.
type Reference struct {
	ID    string
	Href  string
	Type  string
	Title string
}

// ModuleInfo identifies the modularity stream a collection belongs to.
type ModuleInfo struct {
	Name    string
	Stream  string
	Version string
	Context string
	Arch    string
}

// CollectionPackage is one <package> row inside an update's <pkglist>.
type CollectionPackage struct {
	Name            string
	Version         string
	Release         string
	Epoch           string
	Arch            string
	Src             bool
	Filename        string
	Checksum        string
	ChecksumType    ChecksumType
	RebootSuggested bool
}

// Collection is one <collection> grouping of packages in an update's
// <pkglist>, optionally scoped to a module stream.
type Collection struct {
	Short    string
	Name     string
	Module   *ModuleInfo
	Packages []CollectionPackage
}

// UpdateRecord is one erratum from updateinfo.xml.
type UpdateRecord struct {
	ID     string
	Type   UpdateType
	Status string
	From   string
	Version string

	Severity string
	Issued   string
	Updated  string

	Title       string
	Rights      string
	Release     string
	Summary     string
	Description string
	Solution    string

	References []Reference
	Collections []Collection

	RebootRequired bool
}
