package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var manCmd = &cobra.Command{
	Use:    "man",
	Short:  "Generate man pages for templater",
	Long:   `This command generates the man pages for the templater CLI.`,
	Hidden: true, // hide this from the public help output
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := cmd.Flags().GetString("dir")
		if err != nil {
			return fmt.Errorf("failed to get dir flag: %w", err)
		}

		header := &doc.GenManHeader{
			Title:   "TEMPLATER",
			Section: "1", // Section 1 is for executable programs and shell commands
			Source:  "Templater CLI",
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create man directory: %w", err)
		}

		if err := doc.GenManTree(rootCmd, header, dir); err != nil {
			return fmt.Errorf("failed to generate man pages: %w", err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Man pages successfully generated in %s\n", dir)
		return nil
	},
}

func init() {
	manCmd.Flags().String("dir", "./man", "Directory to write the man pages to")
	rootCmd.AddCommand(manCmd)
}
