package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ngirard/mdsplice/internal/document"
)

// frontmatterOutput is the JSON output schema for the frontmatter command.
type frontmatterOutput struct {
	Present bool        `json:"present"`
	Format  string      `json:"format,omitempty"`
	Value   interface{} `json:"value,omitempty"`
}

// NewFrontmatterCmd creates the frontmatter subcommand: print a document's
// frontmatter value and format, a thin façade over Document.Frontmatter and
// Document.FrontmatterFormat (SPEC_FULL.md §B), in cmd/parse.go's
// JSON-envelope style.
func NewFrontmatterCmd(io FileIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "frontmatter <path>",
		Short:        "Print a document's frontmatter",
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

			value, present := doc.Frontmatter()
			format, _ := doc.FrontmatterFormat()

			out := frontmatterOutput{Present: present, Format: string(format), Value: value}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
		},
	}
	return cmd
}
