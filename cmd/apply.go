package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/ngirard/mdsplice/internal/document"
	"github.com/ngirard/mdsplice/internal/opschema"
)

// applyOutput is the JSON output schema for the apply command, following
// cmd/delete.go's {version, changed, diagnostics}-shaped envelope, with
// diagnostics replaced by the engine's ambiguity/frontmatter-mutation
// outcome (spec.md §4.5).
type applyOutput struct {
	Version            string `json:"version"`
	Changed            bool   `json:"changed"`
	AmbiguityDetected  bool   `json:"ambiguity_detected"`
	FrontmatterMutated bool   `json:"frontmatter_mutated"`
}

// NewApplyCmd creates the apply subcommand: run a transaction (spec.md §6.2)
// against a document and, on success, write the result back. New relative
// to the teacher — no single prosemark-go command runs a multi-operation
// transaction — but adopts cmd/init.go's WriteFileAtomic pattern for the
// write-back and cmd/delete.go's changed-before-write guard.
func NewApplyCmd(io FileIO) *cobra.Command {
	var (
		transactionPath string
		write           bool
		backup          bool
		showDiff        bool
		jsonMode        bool
	)

	cmd := &cobra.Command{
		Use:          "apply <path>",
		Short:        "Apply a transaction to a Markdown document",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			src, err := io.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			doc, err := document.Parse(src)
			if err != nil {
				return engineError(cmd, err)
			}

			stdin := stdinOnce(cmd.InOrStdin())

			transactionBytes, err := loadFileOrStdin(io, stdin, transactionPath)
			if err != nil {
				return fmt.Errorf("reading transaction: %w", err)
			}

			loader := func(p string) (string, error) {
				return loadFileOrStdin(io, stdin, p)
			}
			operations, err := opschema.Decode([]byte(transactionBytes), loader)
			if err != nil {
				return engineError(cmd, err)
			}

			outcome, err := doc.Apply(operations)
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
			changed := rendered != string(src)

			if showDiff {
				dmp := diffmatchpatch.New()
				diffs := dmp.DiffMain(string(src), rendered, false)
				fmt.Fprintln(cmd.ErrOrStderr(), dmp.DiffPrettyText(diffs))
			}

			if write && changed {
				if err := io.WriteFileAtomic(path, []byte(rendered), backup); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
			}

			if jsonMode {
				out := applyOutput{
					Version:            "1",
					Changed:            changed,
					AmbiguityDetected:  outcome.AmbiguityDetected,
					FrontmatterMutated: outcome.FrontmatterMutated,
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
			}
			if !write {
				fmt.Fprint(cmd.OutOrStdout(), rendered)
			}
			if outcome.AmbiguityDetected {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: a selector matched more than its ordinal requested")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&transactionPath, "transaction", "", "path to the transaction file, or '-' for stdin (required)")
	cmd.Flags().BoolVar(&write, "write", false, "write the result back to <path> (atomic, temp file + rename)")
	cmd.Flags().BoolVar(&backup, "backup", false, "keep a sibling <path>.bak before writing")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "print a diff of the change to stderr")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "output the outcome as JSON")
	_ = cmd.MarkFlagRequired("transaction")

	return cmd
}

// loadFileOrStdin resolves a content_file/value_file-style path: "-" reads
// stdin (at most once per invocation, via stdin), anything else is read as
// a file. content_file and --transaction are always a location, never an
// inline body (spec.md §6.2's content vs content_file split already made
// that choice one level up).
func loadFileOrStdin(io FileIO, stdin func() ([]byte, error), path string) (string, error) {
	if path == "-" {
		b, err := stdin()
		return string(b), err
	}
	b, err := io.ReadFile(path)
	return string(b), err
}

// stdinOnce returns a reader func that consumes r at most once, per spec.md
// §9's "external stdin convention": both the transaction body and any
// operation's content_file may ask for stdin, but only the first actually
// reads it.
func stdinOnce(r io.Reader) func() ([]byte, error) {
	var (
		done bool
		data []byte
		err  error
	)
	return func() ([]byte, error) {
		if !done {
			data, err = readAll(r)
			done = true
		}
		return data, err
	}
}

func readAll(r io.Reader) ([]byte, error) {
	return io.ReadAll(r)
}
