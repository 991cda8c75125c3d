package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root mdsplice command with all subcommands
// registered, adapted from prosemark-go's cmd/root.go (same SilenceErrors
// and subcommand-registration shape, renamed flags and help text for a
// single-document engine instead of a binder-of-files project).
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mdsplice",
		Short:         "mdsplice - structurally precise Markdown editing",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          rootRunE,
	}
	io := newDefaultFileIO()
	root.AddCommand(NewGetCmd(io))
	root.AddCommand(NewApplyCmd(io))
	root.AddCommand(NewRenderCmd(io))
	root.AddCommand(NewFrontmatterCmd(io))
	root.AddCommand(NewLintCmd(io))
	root.AddCommand(NewInitCmd(io))
	return root
}

func rootRunE(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

// engineError reports an *doctree.Error (or any error) to stderr in
// human-readable form, following cmd/root.go's printDiagnostics shape
// (one line per diagnostic, severity-free here since the engine's error
// taxonomy has no warning tier — ambiguity is carried as outcome data, not
// a diagnostic).
func engineError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
	return fmt.Errorf("operation failed: %w", err)
}
