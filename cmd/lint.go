package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ngirard/mdsplice/internal/document"
)

// lintFindingJSON is the JSON output shape for a single lint finding.
type lintFindingJSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewLintCmd creates the lint subcommand (SPEC_FULL.md §C.3), adapted from
// cmd/doctor.go + internal/node/doctor.go's RunDoctor/AuditDiagnostic
// pattern, generalized from project-wide file-reference audits to
// single-document structural checks. Read-only; never mutates the document.
func NewLintCmd(io FileIO) *cobra.Command {
	var jsonMode bool

	cmd := &cobra.Command{
		Use:          "lint <path>",
		Short:        "Check a document for structural and frontmatter issues",
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

			structural, fm := doc.Lint()

			if jsonMode {
				out := make([]lintFindingJSON, 0, len(structural)+len(fm))
				for _, f := range structural {
					out = append(out, lintFindingJSON{Code: f.Code, Message: f.Message})
				}
				for _, f := range fm {
					out = append(out, lintFindingJSON{Code: f.Code, Message: f.Message})
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
			}

			for _, f := range structural {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", f.Code, f.Message)
			}
			for _, f := range fm {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", f.Code, f.Message)
			}
			if len(structural) > 0 || len(fm) > 0 {
				return fmt.Errorf("lint found issues")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonMode, "json", false, "output findings as a JSON array")
	return cmd
}
