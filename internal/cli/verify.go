package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dralley/rpmrepo-metadata/repository"
)

// NewVerifyCmd creates the verify command.
func NewVerifyCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the checksums recorded in repomd.xml",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repository.Open(root)
			if err != nil {
				return fmt.Errorf("opening repository: %w", err)
			}

			if err := r.VerifyChecksums(); err != nil {
				return fmt.Errorf("checksum verification failed: %w", err)
			}

			logrus.Infof("all %d metadata records verified", len(r.Repomd.Records))
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", ".", "Repository root directory")
	return cmd
}
