package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ngirard/mdsplice/internal/doctree"
	"github.com/ngirard/mdsplice/internal/document"
	"github.com/ngirard/mdsplice/internal/opschema"
)

// getOutput is the JSON output schema for the get command, following
// cmd/parse.go's version-tagged output envelope.
type getOutput struct {
	Version string   `json:"version"`
	Results []string `json:"results"`
}

// NewGetCmd creates the get subcommand: read-only extraction of one or more
// subtrees by selector (spec.md §4.6). Adapted from cmd/parse.go's
// ParseReader + JSON-output shape, generalized from "parse a binder +
// project file" to "parse a document and resolve a selector against it".
func NewGetCmd(io FileIO) *cobra.Command {
	var (
		selectorArg string
		typeArg     string
		contains    string
		regexArg    string
		ordinal     int
		untilArg    string
		section     bool
		all         bool
		jsonMode    bool
	)

	cmd := &cobra.Command{
		Use:          "get <path>",
		Short:        "Extract one or more subtrees from a Markdown document by selector",
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

			sel, err := resolveSelectorFlags(selectorArg, typeArg, contains, regexArg, ordinal)
			if err != nil {
				return engineError(cmd, err)
			}

			var results []string
			if all {
				results, err = doc.GetAll(sel)
			} else {
				opts := document.GetOptions{Section: section}
				if untilArg != "" {
					opts.Until, err = opschema.DecodeSelector([]byte(untilArg))
					if err != nil {
						return engineError(cmd, err)
					}
				}
				var text string
				text, err = doc.Get(sel, opts)
				results = []string{text}
			}
			if err != nil {
				return engineError(cmd, err)
			}

			if jsonMode {
				out := getOutput{Version: "1", Results: results}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
			}
			for _, r := range results {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&selectorArg, "selector", "", "full selector object, JSON or YAML (overrides --type/--contains/--regex/--ordinal)")
	cmd.Flags().StringVar(&typeArg, "type", "", "block-type token (spec.md §6.1)")
	cmd.Flags().StringVar(&contains, "contains", "", "substring the node's extracted text must contain")
	cmd.Flags().StringVar(&regexArg, "regex", "", "regular expression the node's extracted text must match")
	cmd.Flags().IntVar(&ordinal, "ordinal", 1, "1-based match ordinal")
	cmd.Flags().StringVar(&untilArg, "until", "", "selector object marking the range end (JSON or YAML)")
	cmd.Flags().BoolVar(&section, "section", false, "extend a heading match to its whole section")
	cmd.Flags().BoolVar(&all, "all", false, "return every match instead of one")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "output results as a JSON object with a results array")

	return cmd
}

// resolveSelectorFlags builds a Selector from --selector if given, otherwise
// from the flat --type/--contains/--regex/--ordinal flags.
func resolveSelectorFlags(selectorArg, typeArg, contains, regexArg string, ordinal int) (*doctree.Selector, error) {
	if selectorArg != "" {
		return opschema.DecodeSelector([]byte(selectorArg))
	}
	return &doctree.Selector{
		Type:     typeArg,
		Contains: contains,
		Regex:    regexArg,
		Ordinal:  ordinal,
	}, nil
}
