package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ngirard/mdsplice/internal/document"
)

// NewRenderCmd creates the render subcommand: parse a document and print it
// back out unmodified, a thin façade over Document.Render (SPEC_FULL.md
// §B), following cmd/parse.go's read-then-print shape without the JSON
// envelope, since the output here is Markdown text, not a JSON tree.
func NewRenderCmd(io FileIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "render <path>",
		Short:        "Parse and re-serialize a Markdown document",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := io.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			doc, err := document.Parse(src)
			if err != nil {
				return engineError(cmd, err)
			}

			rendered, err := doc.Render()
			if err != nil {
				return engineError(cmd, err)
			}
			if n := len(rendered); n > 0 && rendered[n-1] != '\n' {
				rendered += "\n"
			}

			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
	return cmd
}
