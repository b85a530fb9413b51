// Package cli assembles the rpmrepomd demonstration binary's command tree.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rpmrepomd",
		Short: "Read, write, and verify RPM repository metadata",
		Long: `rpmrepomd reads and writes the repodata/ directory of an RPM
repository: repomd.xml plus the primary, filelists, and other metadata
streams it indexes.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(NewReadCmd())
	rootCmd.AddCommand(NewVerifyCmd())
	rootCmd.AddCommand(NewWriteCmd())

	return rootCmd
}
