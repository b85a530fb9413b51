package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dralley/rpmrepo-metadata/repository"
)

// NewReadCmd creates the read command.
func NewReadCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "read",
		Short: "List the packages in a repository",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repository.Open(root)
			if err != nil {
				return fmt.Errorf("opening repository: %w", err)
			}

			logrus.Infof("repomd.xml revision %d, %d metadata records", r.Repomd.Revision, len(r.Repomd.Records))

			engine, err := r.IterPackages()
			if err != nil {
				return fmt.Errorf("iterating packages: %w", err)
			}
			defer engine.Close()

			count := 0
			for {
				pkg, err := engine.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					return fmt.Errorf("reading package %d: %w", count, err)
				}
				fmt.Printf("%s-%s-%s.%s\n", pkg.NEVRA.Name, pkg.NEVRA.Version, pkg.NEVRA.Release, pkg.NEVRA.Arch)
				count++
			}

			logrus.Infof("read %d packages", count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "Repository root directory")
	return cmd
}
