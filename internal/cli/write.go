package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dralley/rpmrepo-metadata"
	"github.com/dralley/rpmrepo-metadata/compression"
	"github.com/dralley/rpmrepo-metadata/repository"
)

// NewWriteCmd creates the write command. Since parsing .rpm package
// headers is out of scope for this library, input packages are read from
// a JSON document (an array of rpmmd.Package values) rather than scanned
// from a directory of RPMs.
func NewWriteCmd() *cobra.Command {
	var root, input string
	var simpleNames bool
	var compressionName string

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Write a repository from a JSON package list",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("opening input: %w", err)
			}
			defer f.Close()

			var packages []rpmmd.Package
			if err := json.NewDecoder(f).Decode(&packages); err != nil {
				return fmt.Errorf("decoding %s: %w", input, err)
			}

			codec, err := parseCompressionFlag(compressionName)
			if err != nil {
				return err
			}

			opts := repository.Options{
				Compression:       codec,
				SimpleMDFilenames: simpleNames,
			}

			w, err := repository.Create(root, len(packages), opts)
			if err != nil {
				return fmt.Errorf("creating repository: %w", err)
			}

			for i, pkg := range packages {
				if err := w.WritePackage(pkg); err != nil {
					return fmt.Errorf("writing package %d: %w", i, err)
				}
			}

			if err := w.Close(); err != nil {
				return fmt.Errorf("closing repository: %w", err)
			}

			logrus.Infof("wrote %d packages to %s", len(packages), root)
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "Repository root directory")
	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON file containing an array of packages")
	cmd.Flags().BoolVar(&simpleNames, "simple-names", false, "Use unprefixed metadata filenames (primary.xml.gz) instead of checksum-prefixed ones")
	cmd.Flags().StringVar(&compressionName, "compression", "gz", "Metadata compression: gz, xz, zst; none writes gz, and bz2 fails because bzip2 writing is unsupported")
	cmd.MarkFlagRequired("input")

	return cmd
}

func parseCompressionFlag(name string) (compression.Codec, error) {
	switch name {
	case "gz", "gzip":
		return compression.Gzip, nil
	case "bz2", "bzip2":
		return compression.Bzip2, nil
	case "xz":
		return compression.Xz, nil
	case "zst", "zstd":
		return compression.Zstd, nil
	case "none", "":
		// repository.Options can't represent "explicitly uncompressed" (see
		// its doc comment), so this falls through to the default codec.
		return compression.Gzip, nil
	default:
		return compression.None, fmt.Errorf("unknown compression %q", name)
	}
}
