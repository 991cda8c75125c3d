package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCmd creates the init subcommand: scaffold a new Markdown document,
// optionally with an empty frontmatter block. Adapted from prosemark-go's
// cmd/init.go (same StatFile-then-WriteFileAtomic guard against clobbering
// an existing file, same --force override), trimmed from scaffolding a
// _binder.md + .prosemark.yml project pair down to a single file.
func NewInitCmd(io FileIO) *cobra.Command {
	var (
		force    bool
		withYAML bool
		withTOML bool
	)

	cmd := &cobra.Command{
		Use:          "init <path>",
		Short:        "Create a new empty Markdown document",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			exists, err := io.StatFile(path)
			if err != nil {
				return fmt.Errorf("checking %s: %w", path, err)
			}
			if exists && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}

			var content string
			switch {
			case withYAML:
				content = "---\n{}\n---\n"
			case withTOML:
				content = "+++\n+++\n"
			default:
				content = ""
			}

			if err := io.WriteFileAtomic(path, []byte(content), false); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Initialized "+path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.Flags().BoolVar(&withYAML, "yaml", false, "scaffold an empty YAML frontmatter block")
	cmd.Flags().BoolVar(&withTOML, "toml", false, "scaffold an empty TOML frontmatter block")

	return cmd
}
